// Package shipment exposes the read-only shipment context the compliance
// core needs. Shipments are owned by the (out of scope) shipment subsystem;
// this registry is the lookup seam.
package shipment

import (
	"context"
	"sync"

	id "tradegate/pkg/domain"
	"tradegate/pkg/platform/sentinel"
)

// Shipment is the lightweight context read by the document lifecycle.
type Shipment struct {
	ID        id.ShipmentID
	Reference string
	Buyer     string
	Route     string
	Incoterm  string
	Mode      string
}

// Registry is the read-only lookup the compliance core depends on.
type Registry interface {
	GetShipment(ctx context.Context, shipmentID id.ShipmentID) (*Shipment, error)
}

// InMemory is a map-backed registry seeded at boot.
type InMemory struct {
	mu        sync.RWMutex
	shipments map[id.ShipmentID]*Shipment
}

func NewInMemory() *InMemory {
	return &InMemory{shipments: make(map[id.ShipmentID]*Shipment)}
}

// Put registers a shipment. Seed-time only; the compliance core never writes.
func (r *InMemory) Put(s *Shipment) {
	r.mu.Lock()
	defer r.mu.Unlock()
	dup := *s
	r.shipments[s.ID] = &dup
}

func (r *InMemory) GetShipment(_ context.Context, shipmentID id.ShipmentID) (*Shipment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.shipments[shipmentID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	dup := *s
	return &dup, nil
}
