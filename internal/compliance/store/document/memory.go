// Package document stores compliance document aggregates in memory.
//
// The in-memory store is the authority for this subsystem; there is no SQL
// layer behind it. All mutations go through Execute so validation and
// mutation happen under one lock and no caller ever observes partial state.
package document

import (
	"context"
	"sort"
	"sync"

	id "tradegate/pkg/domain"
	"tradegate/pkg/platform/sentinel"

	"tradegate/internal/compliance/models"
)

// InMemory is a mutex-guarded map of document aggregates. Reads return deep
// copies; writers never leak internal pointers.
type InMemory struct {
	mu   sync.RWMutex
	docs map[id.DocumentID]*models.Document
}

func NewInMemory() *InMemory {
	return &InMemory{docs: make(map[id.DocumentID]*models.Document)}
}

// Create registers a new aggregate. Returns ErrConflict when the id or the
// (shipment, kind) pair is already present.
func (s *InMemory) Create(_ context.Context, doc *models.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.docs[doc.ID]; ok {
		return sentinel.ErrConflict
	}
	for _, existing := range s.docs {
		if existing.ShipmentID == doc.ShipmentID && existing.DocKey == doc.DocKey {
			return sentinel.ErrConflict
		}
	}
	s.docs[doc.ID] = doc.Clone()
	return nil
}

// FindByID returns a deep copy of the aggregate.
func (s *InMemory) FindByID(_ context.Context, docID id.DocumentID) (*models.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[docID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return doc.Clone(), nil
}

// List returns deep copies of every aggregate, ordered by shipment reference
// then document kind so callers see a stable portfolio.
func (s *InMemory) List(_ context.Context) ([]*models.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Document, 0, len(s.docs))
	for _, doc := range s.docs {
		out = append(out, doc.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ShipmentRef != out[j].ShipmentRef {
			return out[i].ShipmentRef < out[j].ShipmentRef
		}
		return out[i].DocKey < out[j].DocKey
	})
	return out, nil
}

// Execute runs validate then mutate on the live aggregate under the store
// lock. If validate fails the aggregate is untouched. Returns a deep copy of
// the aggregate after mutation.
//
// This is the only write path besides Create; it serializes every mutation
// per store, so operations on one document never interleave.
func (s *InMemory) Execute(
	_ context.Context,
	docID id.DocumentID,
	validate func(*models.Document) error,
	mutate func(*models.Document),
) (*models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[docID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if validate != nil {
		if err := validate(doc); err != nil {
			return nil, err
		}
	}
	if mutate != nil {
		mutate(doc)
	}
	return doc.Clone(), nil
}
