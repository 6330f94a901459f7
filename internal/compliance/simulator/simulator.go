// Package simulator advances submitted documents through the simulated
// authority portal: submitted → under_review → signed or rejected, on
// configured delays. It stands in for a real authority integration.
//
// Each armed submission is keyed by (document id, tracking id). At most one
// pending scheduled transition exists per document; arming a new submission
// supersedes the old one, and cancellation guarantees a superseded timer
// never mutates the document (the service re-checks submission identity at
// fire time as a second guard).
package simulator

import (
	"context"
	"io"
	"log/slog"
	"sync"

	id "tradegate/pkg/domain"
	"tradegate/pkg/platform/schedule"
	"tradegate/pkg/requestcontext"

	"tradegate/internal/compliance/models"
	"tradegate/internal/platform/config"
)

// DocumentOps is the slice of the document service the simulator re-enters.
type DocumentOps interface {
	BeginReview(ctx context.Context, docID id.DocumentID, trackingID string) error
	CompleteSigned(ctx context.Context, docID id.DocumentID, trackingID string) error
	CompleteRejected(ctx context.Context, docID id.DocumentID, trackingID, reason string) error
}

// portalActor is the actor recorded on timeline entries the portal writes.
const portalActor = "authority-portal"

type armed struct {
	trackingID string
	handle     *schedule.Handle
}

// Simulator schedules and fires portal transitions.
type Simulator struct {
	sched  *schedule.Scheduler
	delays config.Simulator
	ops    DocumentOps
	logger *slog.Logger

	mu    sync.Mutex
	byDoc map[id.DocumentID]*armed
}

func New(sched *schedule.Scheduler, delays config.Simulator, ops DocumentOps, logger *slog.Logger) *Simulator {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Simulator{
		sched:  sched,
		delays: delays,
		ops:    ops,
		logger: logger,
		byDoc:  make(map[id.DocumentID]*armed),
	}
}

// Arm schedules the review transition for a freshly started submission,
// superseding any pending transition for the document. Manual portals arm
// nothing: their progression is frozen until a real integration takes over.
func (s *Simulator) Arm(docID id.DocumentID, trackingID string, behavior models.PortalBehavior) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prior, ok := s.byDoc[docID]; ok {
		prior.handle.Cancel()
		delete(s.byDoc, docID)
	}
	if behavior == models.PortalManual {
		return
	}

	entry := &armed{trackingID: trackingID}
	entry.handle = s.sched.After(s.delays.ReviewDelay, func() {
		s.fireReview(docID, trackingID, behavior)
	})
	s.byDoc[docID] = entry
}

// Cancel invalidates any pending transition for the document.
func (s *Simulator) Cancel(docID id.DocumentID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry, ok := s.byDoc[docID]; ok {
		entry.handle.Cancel()
		delete(s.byDoc, docID)
	}
}

// Stop cancels every pending transition. Used on shutdown.
func (s *Simulator) Stop() {
	s.mu.Lock()
	s.byDoc = make(map[id.DocumentID]*armed)
	s.mu.Unlock()
	s.sched.Stop()
}

func (s *Simulator) fireReview(docID id.DocumentID, trackingID string, behavior models.PortalBehavior) {
	if !s.stillArmed(docID, trackingID) {
		return
	}
	ctx := requestcontext.WithActor(context.Background(), portalActor)
	if err := s.ops.BeginReview(ctx, docID, trackingID); err != nil {
		s.logger.Warn("simulator: begin review failed",
			"document_id", docID.String(), "tracking_id", trackingID, "err", err)
		s.forget(docID, trackingID)
		return
	}

	delay := s.delays.SignDelay
	if behavior == models.PortalAutoReject {
		delay = s.delays.RejectDelay
	}

	// Install the decision timer only if this submission is still the armed
	// one; a clear/re-arm racing the review transition wins.
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.byDoc[docID]
	if !ok || entry.trackingID != trackingID {
		return
	}
	entry.handle = s.sched.After(delay, func() {
		s.fireDecision(docID, trackingID, behavior)
	})
}

func (s *Simulator) fireDecision(docID id.DocumentID, trackingID string, behavior models.PortalBehavior) {
	if !s.stillArmed(docID, trackingID) {
		return
	}
	s.forget(docID, trackingID)

	ctx := requestcontext.WithActor(context.Background(), portalActor)
	var err error
	if behavior == models.PortalAutoReject {
		err = s.ops.CompleteRejected(ctx, docID, trackingID, "Document rejected during authority review")
	} else {
		err = s.ops.CompleteSigned(ctx, docID, trackingID)
	}
	if err != nil {
		s.logger.Warn("simulator: decision failed",
			"document_id", docID.String(), "tracking_id", trackingID, "err", err)
	}
}

func (s *Simulator) stillArmed(docID id.DocumentID, trackingID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.byDoc[docID]
	return ok && entry.trackingID == trackingID
}

func (s *Simulator) forget(docID id.DocumentID, trackingID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry, ok := s.byDoc[docID]; ok && entry.trackingID == trackingID {
		delete(s.byDoc, docID)
	}
}
