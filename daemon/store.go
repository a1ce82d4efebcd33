// Package daemon implements the local collector that receives entity
// documents over UDP and serves them for inspection over HTTP.
package daemon

import (
	"sort"
	"sync"

	"github.com/nimbustrace/nimbus/emitter"
)

// A TraceStore holds received entity documents grouped by trace ID.
type TraceStore struct {
	lock   sync.Mutex
	traces map[string][]emitter.Document
}

// NewTraceStore creates an empty store.
func NewTraceStore() *TraceStore {
	return &TraceStore{
		traces: make(map[string][]emitter.Document),
	}
}

// Put files the document under its trace ID. Documents without a trace ID
// are grouped under "unknown".
func (s *TraceStore) Put(doc emitter.Document) {
	traceID := doc.TraceID
	if traceID == "" {
		traceID = "unknown"
	}

	s.lock.Lock()
	s.traces[traceID] = append(s.traces[traceID], doc)
	s.lock.Unlock()
}

// TraceIDs returns the known trace IDs in sorted order.
func (s *TraceStore) TraceIDs() []string {
	s.lock.Lock()
	ids := make([]string, 0, len(s.traces))
	for id := range s.traces {
		ids = append(ids, id)
	}
	s.lock.Unlock()

	sort.Strings(ids)

	return ids
}

// Trace returns the documents received for one trace, in arrival order.
func (s *TraceStore) Trace(id string) []emitter.Document {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.traces[id]
}

// Count returns the total number of stored documents.
func (s *TraceStore) Count() int {
	s.lock.Lock()
	defer s.lock.Unlock()

	count := 0
	for _, docs := range s.traces {
		count += len(docs)
	}

	return count
}
