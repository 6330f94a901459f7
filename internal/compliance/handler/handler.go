// Package handler exposes the compliance document lifecycle over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	id "tradegate/pkg/domain"
	dErrors "tradegate/pkg/domain-errors"
	"tradegate/pkg/platform/httputil"

	"tradegate/internal/compliance/models"
	"tradegate/internal/compliance/service"
	"tradegate/internal/compliance/status"
	"tradegate/internal/shipment"
)

// DocumentService is the slice of the service layer the handler consumes.
type DocumentService interface {
	ListDocuments(ctx context.Context) ([]*models.Document, error)
	GetDocument(ctx context.Context, docID id.DocumentID) (*models.Document, error)
	UpdateForm(ctx context.Context, docID id.DocumentID, updater func(map[string]any) map[string]any) (*models.Document, error)
	SetDocumentStatus(ctx context.Context, docID id.DocumentID, raw string, opts service.SetStatusOptions) (*models.Document, error)
	AddAttachment(ctx context.Context, docID id.DocumentID, att models.Attachment) (*models.Document, error)
	RemoveAttachment(ctx context.Context, docID id.DocumentID, attachmentID string) (*models.Document, error)
	AddEvidence(ctx context.Context, docID id.DocumentID, ev models.Evidence) (*models.Document, error)
	AddVersion(ctx context.Context, docID id.DocumentID, v models.Version, setCurrent bool) (*models.Document, error)
	SetCurrentVersion(ctx context.Context, docID id.DocumentID, versionID id.VersionID) (*models.Document, error)
	AddTimelineEntry(ctx context.Context, docID id.DocumentID, entry models.TimelineEntry) (*models.Document, error)
	StartSubmission(ctx context.Context, docID id.DocumentID, sub models.SubmissionInfo) (*models.Document, error)
	ClearSubmission(ctx context.Context, docID id.DocumentID) (*models.Document, error)
	Reopen(ctx context.Context, docID id.DocumentID) (*models.Document, error)
}

// Handler serves the compliance document routes.
type Handler struct {
	svc       DocumentService
	shipments shipment.Registry
	logger    *slog.Logger
}

func New(svc DocumentService, shipments shipment.Registry, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, shipments: shipments, logger: logger}
}

// Routes registers read routes on r and mutating routes on mutating; the
// router wraps the latter with auth.
func (h *Handler) Routes(r chi.Router, auth func(http.Handler) http.Handler) {
	r.Get("/documents", h.listDocuments)
	r.Get("/documents/{documentID}", h.getDocument)
	r.Get("/readiness", h.readiness)

	r.Group(func(r chi.Router) {
		if auth != nil {
			r.Use(auth)
		}
		r.Put("/documents/{documentID}/form", h.updateForm)
		r.Post("/documents/{documentID}/status", h.setStatus)
		r.Post("/documents/{documentID}/attachments", h.addAttachment)
		r.Delete("/documents/{documentID}/attachments/{attachmentID}", h.removeAttachment)
		r.Post("/documents/{documentID}/evidence", h.addEvidence)
		r.Post("/documents/{documentID}/versions", h.addVersion)
		r.Put("/documents/{documentID}/current-version", h.setCurrentVersion)
		r.Post("/documents/{documentID}/timeline", h.addTimeline)
		r.Post("/documents/{documentID}/submission", h.startSubmission)
		r.Delete("/documents/{documentID}/submission", h.clearSubmission)
		r.Post("/documents/{documentID}/reopen", h.reopen)
	})
}

func (h *Handler) listDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := h.svc.ListDocuments(r.Context())
	if err != nil {
		httputil.WriteError(w, h.logger, err)
		return
	}
	out := make([]documentResponse, 0, len(docs))
	for _, doc := range docs {
		out = append(out, toDocumentResponse(doc, nil))
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) getDocument(w http.ResponseWriter, r *http.Request) {
	docID, ok := h.docID(w, r)
	if !ok {
		return
	}
	doc, err := h.svc.GetDocument(r.Context(), docID)
	if err != nil {
		httputil.WriteError(w, h.logger, err)
		return
	}
	// Shipment context is best-effort; a registry miss never fails the read.
	sh, _ := h.shipments.GetShipment(r.Context(), doc.ShipmentID)
	httputil.WriteJSON(w, http.StatusOK, toDocumentResponse(doc, sh))
}

func (h *Handler) readiness(w http.ResponseWriter, r *http.Request) {
	docs, err := h.svc.ListDocuments(r.Context())
	if err != nil {
		httputil.WriteError(w, h.logger, err)
		return
	}
	var out readinessResponse
	for _, doc := range docs {
		switch status.Classify(doc.Status) {
		case status.ReadinessReady:
			out.Ready++
		case status.ReadinessAttention:
			out.Attention++
		case status.ReadinessBlocked:
			out.Blocked++
		}
	}
	out.Total = len(docs)
	httputil.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) updateForm(w http.ResponseWriter, r *http.Request) {
	docID, ok := h.docID(w, r)
	if !ok {
		return
	}
	var req updateFormRequest
	if !h.decode(w, r, &req) {
		return
	}
	doc, err := h.svc.UpdateForm(r.Context(), docID, func(map[string]any) map[string]any {
		return req.Form
	})
	h.respond(w, doc, err)
}

func (h *Handler) setStatus(w http.ResponseWriter, r *http.Request) {
	docID, ok := h.docID(w, r)
	if !ok {
		return
	}
	var req setStatusRequest
	if !h.decode(w, r, &req) {
		return
	}
	doc, err := h.svc.SetDocumentStatus(r.Context(), docID, req.Status, service.SetStatusOptions{
		Note:           req.Note,
		RecordTimeline: req.RecordTimeline,
	})
	h.respond(w, doc, err)
}

func (h *Handler) addAttachment(w http.ResponseWriter, r *http.Request) {
	docID, ok := h.docID(w, r)
	if !ok {
		return
	}
	var req addAttachmentRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.FileName == "" {
		httputil.WriteError(w, h.logger, dErrors.New(dErrors.CodeBadRequest, "file_name is required"))
		return
	}
	doc, err := h.svc.AddAttachment(r.Context(), docID, models.Attachment{
		FileName: req.FileName,
		Label:    req.Label,
	})
	h.respondCreated(w, doc, err)
}

func (h *Handler) removeAttachment(w http.ResponseWriter, r *http.Request) {
	docID, ok := h.docID(w, r)
	if !ok {
		return
	}
	doc, err := h.svc.RemoveAttachment(r.Context(), docID, chi.URLParam(r, "attachmentID"))
	h.respond(w, doc, err)
}

func (h *Handler) addEvidence(w http.ResponseWriter, r *http.Request) {
	docID, ok := h.docID(w, r)
	if !ok {
		return
	}
	var req addEvidenceRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.Description == "" {
		httputil.WriteError(w, h.logger, dErrors.New(dErrors.CodeBadRequest, "description is required"))
		return
	}
	doc, err := h.svc.AddEvidence(r.Context(), docID, models.Evidence{
		Source:      req.Source,
		Description: req.Description,
		FileName:    req.FileName,
	})
	h.respondCreated(w, doc, err)
}

func (h *Handler) addVersion(w http.ResponseWriter, r *http.Request) {
	docID, ok := h.docID(w, r)
	if !ok {
		return
	}
	var req addVersionRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.Label == "" {
		httputil.WriteError(w, h.logger, dErrors.New(dErrors.CodeBadRequest, "label is required"))
		return
	}
	ver := models.Version{
		Label:    req.Label,
		Note:     req.Note,
		FileName: req.FileName,
		Official: req.Official,
	}
	if req.Status != "" {
		vs, ok := status.ParseVersion(req.Status)
		if !ok {
			httputil.WriteError(w, h.logger, dErrors.New(dErrors.CodeBadRequest, "unknown version status: "+req.Status))
			return
		}
		ver.Status = vs
	}
	doc, err := h.svc.AddVersion(r.Context(), docID, ver, req.SetCurrent)
	h.respondCreated(w, doc, err)
}

func (h *Handler) setCurrentVersion(w http.ResponseWriter, r *http.Request) {
	docID, ok := h.docID(w, r)
	if !ok {
		return
	}
	var req setCurrentVersionRequest
	if !h.decode(w, r, &req) {
		return
	}
	versionID, err := id.ParseVersionID(req.VersionID)
	if err != nil {
		httputil.WriteError(w, h.logger, err)
		return
	}
	doc, err := h.svc.SetCurrentVersion(r.Context(), docID, versionID)
	h.respond(w, doc, err)
}

func (h *Handler) addTimeline(w http.ResponseWriter, r *http.Request) {
	docID, ok := h.docID(w, r)
	if !ok {
		return
	}
	var req addTimelineRequest
	if !h.decode(w, r, &req) {
		return
	}
	doc, err := h.svc.AddTimelineEntry(r.Context(), docID, models.TimelineEntry{
		Action:      req.Action,
		Description: req.Description,
	})
	h.respondCreated(w, doc, err)
}

func (h *Handler) startSubmission(w http.ResponseWriter, r *http.Request) {
	docID, ok := h.docID(w, r)
	if !ok {
		return
	}
	var req startSubmissionRequest
	if !h.decode(w, r, &req) {
		return
	}
	doc, err := h.svc.StartSubmission(r.Context(), docID, models.SubmissionInfo{
		TrackingID: req.TrackingID,
	})
	h.respondCreated(w, doc, err)
}

func (h *Handler) clearSubmission(w http.ResponseWriter, r *http.Request) {
	docID, ok := h.docID(w, r)
	if !ok {
		return
	}
	doc, err := h.svc.ClearSubmission(r.Context(), docID)
	h.respond(w, doc, err)
}

func (h *Handler) reopen(w http.ResponseWriter, r *http.Request) {
	docID, ok := h.docID(w, r)
	if !ok {
		return
	}
	doc, err := h.svc.Reopen(r.Context(), docID)
	h.respond(w, doc, err)
}

func (h *Handler) docID(w http.ResponseWriter, r *http.Request) (id.DocumentID, bool) {
	docID, err := id.ParseDocumentID(chi.URLParam(r, "documentID"))
	if err != nil {
		httputil.WriteError(w, h.logger, err)
		return id.DocumentID{}, false
	}
	return docID, true
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		httputil.WriteError(w, h.logger, dErrors.New(dErrors.CodeBadRequest, "invalid JSON body"))
		return false
	}
	return true
}

func (h *Handler) respond(w http.ResponseWriter, doc *models.Document, err error) {
	if err != nil {
		httputil.WriteError(w, h.logger, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toDocumentResponse(doc, nil))
}

func (h *Handler) respondCreated(w http.ResponseWriter, doc *models.Document, err error) {
	if err != nil {
		httputil.WriteError(w, h.logger, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toDocumentResponse(doc, nil))
}
