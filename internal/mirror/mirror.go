// Package mirror pushes document status changes to the external authority
// mirror. Pushes are best-effort telemetry: failures are counted and logged
// but never propagated to the mutation that triggered them.
package mirror

import (
	"context"
	"sync"

	id "tradegate/pkg/domain"

	"tradegate/internal/compliance/status"
)

// Mirror receives a status change notification for one document.
type Mirror interface {
	Push(ctx context.Context, shipmentID id.ShipmentID, docKey id.DocKey, st status.Document, note string)
}

// Fanout pushes to every configured sink.
type Fanout []Mirror

func (f Fanout) Push(ctx context.Context, shipmentID id.ShipmentID, docKey id.DocKey, st status.Document, note string) {
	for _, m := range f {
		m.Push(ctx, shipmentID, docKey, st, note)
	}
}

// Noop discards every push. Used when no mirror backend is configured.
type Noop struct{}

func (Noop) Push(context.Context, id.ShipmentID, id.DocKey, status.Document, string) {}

// Recorded is one captured push, for assertions.
type Recorded struct {
	ShipmentID id.ShipmentID
	DocKey     id.DocKey
	Status     status.Document
	Note       string
}

// Recorder captures pushes in memory for tests.
type Recorder struct {
	mu     sync.Mutex
	pushes []Recorded
}

func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) Push(_ context.Context, shipmentID id.ShipmentID, docKey id.DocKey, st status.Document, note string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pushes = append(r.pushes, Recorded{ShipmentID: shipmentID, DocKey: docKey, Status: st, Note: note})
}

// Pushes returns a copy of everything captured so far.
func (r *Recorder) Pushes() []Recorded {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Recorded(nil), r.pushes...)
}
