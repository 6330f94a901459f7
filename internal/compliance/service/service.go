// Package service is the single authoritative mutator of compliance document
// aggregates. Every state change in the subsystem funnels through one of its
// operations; each operation is atomic with respect to the in-memory model.
package service

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	id "tradegate/pkg/domain"
	dErrors "tradegate/pkg/domain-errors"
	"tradegate/pkg/platform/sentinel"
	"tradegate/pkg/requestcontext"

	"tradegate/internal/compliance/models"
	"tradegate/internal/compliance/status"
	"tradegate/internal/mirror"
	"tradegate/internal/platform/metrics"
)

// errStale marks a scheduled transition whose submission was superseded
// before it fired. Discarded silently; never surfaced to callers.
var errStale = errors.New("stale scheduled transition")

// DocumentStore is the persistence seam the service mutates through.
type DocumentStore interface {
	Create(ctx context.Context, doc *models.Document) error
	FindByID(ctx context.Context, docID id.DocumentID) (*models.Document, error)
	List(ctx context.Context) ([]*models.Document, error)
	Execute(ctx context.Context, docID id.DocumentID,
		validate func(*models.Document) error,
		mutate func(*models.Document)) (*models.Document, error)
}

// Simulator arms and cancels the scheduled portal transitions for a
// submission. Implemented by the submission simulator; injected late because
// the simulator calls back into this service.
type Simulator interface {
	Arm(docID id.DocumentID, trackingID string, behavior models.PortalBehavior)
	Cancel(docID id.DocumentID)
}

// DocumentService orchestrates the compliance document lifecycle.
type DocumentService struct {
	docs    DocumentStore
	mirror  mirror.Mirror
	sim     Simulator
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
}

type serviceConfig struct {
	mirror  mirror.Mirror
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// Option configures optional service collaborators.
type Option func(*serviceConfig)

// WithMirror sets the authority status mirror.
func WithMirror(m mirror.Mirror) Option {
	return func(cfg *serviceConfig) { cfg.mirror = m }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(cfg *serviceConfig) { cfg.logger = l }
}

// WithMetrics sets the Prometheus metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(cfg *serviceConfig) { cfg.metrics = m }
}

func NewDocumentService(docs DocumentStore, opts ...Option) *DocumentService {
	cfg := &serviceConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.mirror == nil {
		cfg.mirror = mirror.Noop{}
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &DocumentService{
		docs:    docs,
		mirror:  cfg.mirror,
		logger:  cfg.logger,
		metrics: cfg.metrics,
		tracer:  otel.Tracer("tradegate/compliance"),
	}
}

// AttachSimulator injects the simulator after construction; the simulator
// needs the service and the service needs the simulator.
func (s *DocumentService) AttachSimulator(sim Simulator) {
	s.sim = sim
}

// CreateDocument registers a new aggregate. Used by seeding; documents are
// never deleted within this subsystem.
func (s *DocumentService) CreateDocument(ctx context.Context, doc *models.Document) error {
	if doc.ID.IsZero() {
		doc.ID = id.DocumentID(uuid.New())
	}
	doc.Status = status.Normalize(string(doc.Status))
	doc.LastUpdated = requestcontext.Now(ctx)
	if err := s.docs.Create(ctx, doc); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return dErrors.New(dErrors.CodeConflict, "document already exists for this shipment and kind")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create document")
	}
	return nil
}

// ListDocuments returns the whole portfolio.
func (s *DocumentService) ListDocuments(ctx context.Context) ([]*models.Document, error) {
	docs, err := s.docs.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list documents")
	}
	return docs, nil
}

// GetDocument returns one aggregate by id.
func (s *DocumentService) GetDocument(ctx context.Context, docID id.DocumentID) (*models.Document, error) {
	doc, err := s.docs.FindByID(ctx, docID)
	if err != nil {
		return nil, wrapDocErr(err)
	}
	return doc, nil
}

// execute runs an atomic validate-then-mutate on one aggregate and stamps
// LastUpdated. The store holds its lock during both phases.
func (s *DocumentService) execute(
	ctx context.Context,
	docID id.DocumentID,
	validate func(*models.Document) error,
	mutate func(*models.Document),
) (*models.Document, error) {
	now := requestcontext.Now(ctx)
	doc, err := s.docs.Execute(ctx, docID, validate, func(d *models.Document) {
		mutate(d)
		d.LastUpdated = now
	})
	if err != nil {
		return nil, wrapDocErr(err)
	}
	return doc, nil
}

// appendTimeline appends an audit record to the aggregate. Callers hold the
// store lock (invoked from inside mutate callbacks).
func appendTimeline(ctx context.Context, d *models.Document, action, description string) {
	d.Timeline = append(d.Timeline, models.TimelineEntry{
		ID:          uuid.New().String(),
		At:          requestcontext.Now(ctx),
		Actor:       requestcontext.Actor(ctx),
		Action:      action,
		Description: description,
	})
}

// pushMirror notifies the external authority mirror of a status change.
// Best-effort: the local mutation already committed and is never rolled back
// or retried on mirror failure.
func (s *DocumentService) pushMirror(ctx context.Context, doc *models.Document, note string) {
	s.mirror.Push(ctx, doc.ShipmentID, doc.DocKey, doc.Status, note)
	if s.metrics != nil {
		s.metrics.StatusChanges.WithLabelValues(string(doc.Status)).Inc()
	}
}

func (s *DocumentService) span(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, "DocumentService."+name)
}

func wrapDocErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, "document not found")
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.New(dErrors.CodeConflict, "conflicting document mutation")
	default:
		var de *dErrors.Error
		if errors.As(err, &de) {
			return err
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "document operation failed")
	}
}
