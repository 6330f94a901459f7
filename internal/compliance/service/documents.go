package service

import (
	"context"

	"github.com/google/uuid"

	id "tradegate/pkg/domain"
	dErrors "tradegate/pkg/domain-errors"
	"tradegate/pkg/requestcontext"

	"tradegate/internal/compliance/models"
	"tradegate/internal/compliance/status"
)

// UpdateForm replaces the kind-specific form data via a pure transform.
// Status, versions and submission are untouched.
func (s *DocumentService) UpdateForm(
	ctx context.Context,
	docID id.DocumentID,
	updater func(form map[string]any) map[string]any,
) (*models.Document, error) {
	ctx, span := s.span(ctx, "UpdateForm")
	defer span.End()

	if updater == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "form updater is required")
	}
	return s.execute(ctx, docID, nil, func(d *models.Document) {
		d.Form = updater(d.Form)
		appendTimeline(ctx, d, "form_updated", "Form data updated")
	})
}

// SetStatusOptions tunes SetDocumentStatus.
type SetStatusOptions struct {
	Note           string
	RecordTimeline bool
}

// SetDocumentStatus normalizes and applies a document status. This is the
// only status mutation path outside the submission cycle. The authority
// mirror is notified fire-and-forget.
func (s *DocumentService) SetDocumentStatus(
	ctx context.Context,
	docID id.DocumentID,
	raw string,
	opts SetStatusOptions,
) (*models.Document, error) {
	ctx, span := s.span(ctx, "SetDocumentStatus")
	defer span.End()

	if !status.Known(raw) {
		s.logger.WarnContext(ctx, "unknown status normalized to default",
			"document_id", docID.String(), "raw", raw)
	}
	next := status.Normalize(raw)

	doc, err := s.execute(ctx, docID, nil, func(d *models.Document) {
		d.Status = next
		if opts.RecordTimeline {
			appendTimeline(ctx, d, "status_changed", "Status set to "+string(next))
		}
	})
	if err != nil {
		return nil, err
	}
	s.pushMirror(ctx, doc, opts.Note)
	return doc, nil
}

// AddAttachment appends user-supplied supporting material.
func (s *DocumentService) AddAttachment(
	ctx context.Context,
	docID id.DocumentID,
	att models.Attachment,
) (*models.Document, error) {
	ctx, span := s.span(ctx, "AddAttachment")
	defer span.End()

	if att.ID == "" {
		att.ID = uuid.New().String()
	}
	if att.UploadedAt.IsZero() {
		att.UploadedAt = requestcontext.Now(ctx)
	}
	if att.UploadedBy == "" {
		att.UploadedBy = requestcontext.Actor(ctx)
	}
	return s.execute(ctx, docID, nil, func(d *models.Document) {
		d.Attachments = append(d.Attachments, att)
		appendTimeline(ctx, d, "attachment_added", "Attachment added: "+att.FileName)
	})
}

// RemoveAttachment removes an attachment by id.
func (s *DocumentService) RemoveAttachment(
	ctx context.Context,
	docID id.DocumentID,
	attachmentID string,
) (*models.Document, error) {
	ctx, span := s.span(ctx, "RemoveAttachment")
	defer span.End()

	var removed models.Attachment
	return s.execute(ctx, docID,
		func(d *models.Document) error {
			for _, a := range d.Attachments {
				if a.ID == attachmentID {
					removed = a
					return nil
				}
			}
			return dErrors.New(dErrors.CodeNotFound, "attachment not found")
		},
		func(d *models.Document) {
			kept := d.Attachments[:0]
			for _, a := range d.Attachments {
				if a.ID != attachmentID {
					kept = append(kept, a)
				}
			}
			d.Attachments = kept
			appendTimeline(ctx, d, "attachment_removed", "Attachment removed: "+removed.FileName)
		})
}

// AddEvidence appends authority- or system-supplied proof. Evidence is never
// removed.
func (s *DocumentService) AddEvidence(
	ctx context.Context,
	docID id.DocumentID,
	ev models.Evidence,
) (*models.Document, error) {
	ctx, span := s.span(ctx, "AddEvidence")
	defer span.End()

	if ev.ID == "" {
		ev.ID = uuid.New().String()
	}
	if ev.At.IsZero() {
		ev.At = requestcontext.Now(ctx)
	}
	return s.execute(ctx, docID, nil, func(d *models.Document) {
		d.Evidence = append(d.Evidence, ev)
		appendTimeline(ctx, d, "evidence_added", "Evidence added: "+ev.Description)
	})
}

// AddVersion appends to the version ledger. The ledger assigns the next
// number itself; the first version always becomes current, and an official
// version always becomes current regardless of setCurrent.
func (s *DocumentService) AddVersion(
	ctx context.Context,
	docID id.DocumentID,
	v models.Version,
	setCurrent bool,
) (*models.Document, error) {
	ctx, span := s.span(ctx, "AddVersion")
	defer span.End()

	if v.ID.IsZero() {
		v.ID = id.VersionID(uuid.New())
	}
	if v.CreatedAt.IsZero() {
		v.CreatedAt = requestcontext.Now(ctx)
	}
	if v.CreatedBy == "" {
		v.CreatedBy = requestcontext.Actor(ctx)
	}
	if v.Status == "" {
		v.Status = status.VerDraft
	}
	return s.execute(ctx, docID, nil, func(d *models.Document) {
		v.Number = d.NextVersionNumber()
		d.Versions = append(d.Versions, v)
		if setCurrent || v.Official || d.CurrentVersionID.IsZero() {
			d.CurrentVersionID = v.ID
		}
		appendTimeline(ctx, d, "version_added", "Version "+v.Label+" added")
	})
}

// SetCurrentVersion repoints the current pointer. The target must exist; an
// unknown version id leaves the pointer untouched.
func (s *DocumentService) SetCurrentVersion(
	ctx context.Context,
	docID id.DocumentID,
	versionID id.VersionID,
) (*models.Document, error) {
	ctx, span := s.span(ctx, "SetCurrentVersion")
	defer span.End()

	return s.execute(ctx, docID,
		func(d *models.Document) error {
			if d.FindVersion(versionID) == nil {
				return dErrors.New(dErrors.CodeNotFound, "version not found")
			}
			return nil
		},
		func(d *models.Document) {
			d.CurrentVersionID = versionID
			v := d.FindVersion(versionID)
			appendTimeline(ctx, d, "current_version_changed", "Current version set to "+v.Label)
		})
}

// AddTimelineEntry appends a raw audit record for callers that need custom
// phrasing.
func (s *DocumentService) AddTimelineEntry(
	ctx context.Context,
	docID id.DocumentID,
	entry models.TimelineEntry,
) (*models.Document, error) {
	ctx, span := s.span(ctx, "AddTimelineEntry")
	defer span.End()

	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.At.IsZero() {
		entry.At = requestcontext.Now(ctx)
	}
	if entry.Actor == "" {
		entry.Actor = requestcontext.Actor(ctx)
	}
	if entry.Action == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "timeline action is required")
	}
	return s.execute(ctx, docID, nil, func(d *models.Document) {
		d.Timeline = append(d.Timeline, entry)
	})
}
