// Package sqltrace records database round trips as subsegments of the
// current trace entity.
package sqltrace

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/nimbustrace/nimbus/tracing"
)

// QueryContext runs db.QueryContext under a subsegment named after the SQL
// verb. Without a tracing context on ctx the query runs untraced.
func QueryContext(
	ctx context.Context,
	db *sql.DB,
	query string,
	args ...any,
) (*sql.Rows, error) {
	done := open(ctx, query)
	defer done()

	return db.QueryContext(ctx, query, args...)
}

// ExecContext runs db.ExecContext under a subsegment named after the SQL
// verb. Without a tracing context on ctx the statement runs untraced.
func ExecContext(
	ctx context.Context,
	db *sql.DB,
	query string,
	args ...any,
) (sql.Result, error) {
	done := open(ctx, query)
	defer done()

	return db.ExecContext(ctx, query, args...)
}

// open starts the subsegment for one round trip and returns the closer.
// Tracing failures fall through to a no-op closer; the database call always
// proceeds.
func open(ctx context.Context, query string) func() {
	sc := tracing.FromContext(ctx)
	if sc == nil {
		return func() {}
	}

	sub := tracing.NewSubsegment(operationName(query))
	sub.Namespace = "sql"
	sub.AddMetadata("sql_query", query)

	if err := sc.OpenSubsegment(sub); err != nil {
		return func() {}
	}

	return func() {
		sc.CloseSubsegment(time.Time{})
	}
}

// operationName extracts the leading SQL keyword, lowercased.
func operationName(query string) string {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return "sql"
	}

	return strings.ToLower(fields[0])
}
