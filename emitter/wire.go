// Package emitter serializes closed trace entities and ships them to a
// local collector daemon over UDP.
package emitter

import (
	"encoding/json"
	"time"

	"github.com/nimbustrace/nimbus/tracing"
)

// Header is the one-line preamble that precedes every entity document on
// the wire. The daemon uses it to detect the payload format.
const Header = `{"format":"json","version":1}` + "\n"

// Document is the wire representation of a trace entity. Timestamps are
// epoch seconds with sub-second precision.
type Document struct {
	Name        string         `json:"name"`
	ID          string         `json:"id"`
	TraceID     string         `json:"trace_id,omitempty"`
	ParentID    string         `json:"parent_id,omitempty"`
	StartTime   float64        `json:"start_time"`
	EndTime     float64        `json:"end_time,omitempty"`
	InProgress  bool           `json:"in_progress,omitempty"`
	Type        string         `json:"type,omitempty"`
	Namespace   string         `json:"namespace,omitempty"`
	Origin      string         `json:"origin,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	Subsegments []Document     `json:"subsegments,omitempty"`
}

// Encode converts an entity tree into its wire document.
func Encode(e tracing.Entity) Document {
	doc := Document{
		Name:       e.EntityName(),
		ID:         e.EntityID(),
		StartTime:  epochSeconds(e.StartTime()),
		EndTime:    epochSeconds(e.EndTime()),
		InProgress: e.InProgress(),
		Metadata:   e.Metadata(),
	}

	switch entity := e.(type) {
	case *tracing.Segment:
		doc.TraceID = entity.TraceID
		doc.Origin = entity.Origin
	case *tracing.MimicSegment:
		doc.Type = "subsegment"
		doc.TraceID = entity.Segment().TraceID
		doc.Origin = entity.Segment().Origin

		if parent := entity.Parent(); parent != nil {
			doc.ParentID = parent.EntityID()
		}
	case *tracing.Subsegment:
		doc.Type = "subsegment"
		doc.Namespace = entity.Namespace

		if parent := entity.Parent(); parent != nil {
			doc.ParentID = parent.EntityID()
		}
	}

	for _, child := range e.Subsegments() {
		doc.Subsegments = append(doc.Subsegments, Encode(child))
	}

	return doc
}

// Marshal renders the entity tree as a JSON document.
func Marshal(e tracing.Entity) ([]byte, error) {
	return json.Marshal(Encode(e))
}

func epochSeconds(t time.Time) float64 {
	if t.IsZero() {
		return 0
	}

	return float64(t.UnixNano()) / float64(time.Second)
}
