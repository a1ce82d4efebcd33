package tracing

import (
	"strconv"
	"sync/atomic"

	"github.com/rs/xid"
)

// An IDGenerator generates IDs for trace entities.
type IDGenerator interface {
	// Generate an ID
	Generate() string
}

// NewSequentialIDGenerator creates a generator that produces deterministic
// sequential IDs. Useful in tests.
func NewSequentialIDGenerator() IDGenerator {
	return &sequentialIDGenerator{}
}

// NewXIDGenerator creates a generator that produces globally unique IDs.
func NewXIDGenerator() IDGenerator {
	return xidGenerator{}
}

var defaultIDGenerator = NewXIDGenerator()

type sequentialIDGenerator struct {
	nextID uint64
}

func (g *sequentialIDGenerator) Generate() string {
	idNumber := atomic.AddUint64(&g.nextID, 1)
	return strconv.FormatUint(idNumber, 10)
}

type xidGenerator struct{}

func (xidGenerator) Generate() string {
	return xid.New().String()
}
