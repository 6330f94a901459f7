package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	id "tradegate/pkg/domain"
	dErrors "tradegate/pkg/domain-errors"
	"tradegate/pkg/requestcontext"

	"tradegate/internal/compliance/models"
	"tradegate/internal/compliance/status"
)

// defaultRejectionReason substitutes for a missing reason on rejection so the
// field invariant (non-empty when rejected) always holds.
const defaultRejectionReason = "Rejected by the authority without a stated reason"

// StartSubmission opens a submission cycle for the document and arms the
// portal simulator. A still-open submission must be cleared first; a resolved
// one (signed or rejected) is replaced.
func (s *DocumentService) StartSubmission(
	ctx context.Context,
	docID id.DocumentID,
	sub models.SubmissionInfo,
) (*models.Document, error) {
	ctx, span := s.span(ctx, "StartSubmission")
	defer span.End()

	now := requestcontext.Now(ctx)
	if sub.TrackingID == "" {
		sub.TrackingID = "SUB-" + uuid.New().String()
	}
	if sub.Status == "" {
		sub.Status = status.SubSubmitted
	}
	if sub.SubmittedAt.IsZero() {
		sub.SubmittedAt = now
	}
	if len(sub.Steps) == 0 {
		sub.Steps = models.NewSubmissionSteps(now)
	}

	var behavior models.PortalBehavior
	doc, err := s.execute(ctx, docID,
		func(d *models.Document) error {
			if d.Submission != nil && !d.Submission.Status.Terminal() {
				return dErrors.New(dErrors.CodeConflict,
					"a submission is already in progress; clear it before starting another")
			}
			return nil
		},
		func(d *models.Document) {
			d.Submission = sub.Clone()
			d.Status = status.DocumentFor(sub.Status)
			behavior = d.PortalBehavior
			appendTimeline(ctx, d, "submission_started",
				"Submitted to authority (tracking "+sub.TrackingID+")")
		})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.SubmissionsStarted.Inc()
	}
	s.pushMirror(ctx, doc, "submission "+sub.TrackingID)

	// Arming supersedes any pending transition from a prior submission.
	if s.sim != nil {
		s.sim.Arm(docID, sub.TrackingID, behavior)
	}
	return doc, nil
}

// UpdateSubmission applies a pure transform to the submission record and
// re-derives the document status from the updated submission status.
func (s *DocumentService) UpdateSubmission(
	ctx context.Context,
	docID id.DocumentID,
	updater func(*models.SubmissionInfo),
) (*models.Document, error) {
	ctx, span := s.span(ctx, "UpdateSubmission")
	defer span.End()

	if updater == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "submission updater is required")
	}
	doc, err := s.execute(ctx, docID,
		func(d *models.Document) error {
			if d.Submission == nil {
				return dErrors.New(dErrors.CodeNotFound, "document has no submission")
			}
			return nil
		},
		func(d *models.Document) {
			updater(d.Submission)
			if d.Submission.Status == status.SubRejected &&
				strings.TrimSpace(d.Submission.RejectionReason) == "" {
				d.Submission.RejectionReason = defaultRejectionReason
			}
			d.Status = status.DocumentFor(d.Submission.Status)
			appendTimeline(ctx, d, "submission_updated",
				"Submission "+d.Submission.TrackingID+" now "+string(d.Submission.Status))
		})
	if err != nil {
		return nil, err
	}
	s.pushMirror(ctx, doc, "")
	return doc, nil
}

// ClearSubmission removes the submission record without touching versions or
// attachments and invalidates any pending scheduled transition.
func (s *DocumentService) ClearSubmission(
	ctx context.Context,
	docID id.DocumentID,
) (*models.Document, error) {
	ctx, span := s.span(ctx, "ClearSubmission")
	defer span.End()

	doc, err := s.execute(ctx, docID,
		func(d *models.Document) error {
			if d.Submission == nil {
				return dErrors.New(dErrors.CodeNotFound, "document has no submission")
			}
			return nil
		},
		func(d *models.Document) {
			appendTimeline(ctx, d, "submission_cleared",
				"Submission "+d.Submission.TrackingID+" cleared")
			d.Submission = nil
		})
	if err != nil {
		return nil, err
	}
	if s.sim != nil {
		s.sim.Cancel(docID)
	}
	return doc, nil
}

// Reopen returns a rejected document to draft for correction, clearing the
// rejected submission.
func (s *DocumentService) Reopen(ctx context.Context, docID id.DocumentID) (*models.Document, error) {
	ctx, span := s.span(ctx, "Reopen")
	defer span.End()

	doc, err := s.execute(ctx, docID,
		func(d *models.Document) error {
			if d.Status != status.DocRejected {
				return dErrors.New(dErrors.CodeConflict, "only rejected documents can be reopened")
			}
			return nil
		},
		func(d *models.Document) {
			if d.Submission != nil {
				appendTimeline(ctx, d, "submission_cleared",
					"Submission "+d.Submission.TrackingID+" cleared")
				d.Submission = nil
			}
			d.Status = status.DocDraft
			appendTimeline(ctx, d, "reopened", "Reopened for correction")
		})
	if err != nil {
		return nil, err
	}
	if s.sim != nil {
		s.sim.Cancel(docID)
	}
	s.pushMirror(ctx, doc, "reopened")
	return doc, nil
}

// guardSubmission validates that the submission a timer was armed for is
// still the document's active submission in the expected state. A failed
// guard marks the transition stale.
func guardSubmission(trackingID string, want status.Submission) func(*models.Document) error {
	return func(d *models.Document) error {
		if d.Submission == nil || d.Submission.TrackingID != trackingID {
			return errStale
		}
		if d.Submission.Status != want {
			return errStale
		}
		return nil
	}
}

// BeginReview moves a submitted submission under review. Invoked by the
// simulator after the review delay; stale timers are discarded silently.
func (s *DocumentService) BeginReview(ctx context.Context, docID id.DocumentID, trackingID string) error {
	ctx, span := s.span(ctx, "BeginReview")
	defer span.End()

	now := requestcontext.Now(ctx)
	doc, err := s.execute(ctx, docID,
		guardSubmission(trackingID, status.SubSubmitted),
		func(d *models.Document) {
			d.Submission.Status = status.SubUnderReview
			d.Submission.AckAt = &now
			d.Submission.MarkStep(models.StepUnderReview, models.StepCompleted, now, "")
			d.Status = status.DocUnderReview
			appendTimeline(ctx, d, "review_started", "Authority review started")
		})
	if s.discardStale(ctx, err, docID, trackingID) {
		return nil
	}
	if err != nil {
		return err
	}
	s.pushMirror(ctx, doc, "")
	return nil
}

// CompleteSigned applies the auto-sign terminal outcome: the submission is
// signed, an official version is incorporated as current, evidence and audit
// entries are appended, and the document is promoted to active.
func (s *DocumentService) CompleteSigned(ctx context.Context, docID id.DocumentID, trackingID string) error {
	ctx, span := s.span(ctx, "CompleteSigned")
	defer span.End()

	now := requestcontext.Now(ctx)
	doc, err := s.execute(ctx, docID,
		guardSubmission(trackingID, status.SubUnderReview),
		func(d *models.Document) {
			d.Submission.Status = status.SubSigned
			d.Submission.DecisionAt = &now
			d.Submission.MarkStep(models.StepDecision, models.StepCompleted, now, "Signed")

			v := models.Version{
				ID:        id.VersionID(uuid.New()),
				Number:    d.NextVersionNumber(),
				Label:     "Signed copy",
				CreatedAt: now,
				CreatedBy: "authority-portal",
				Status:    status.VerSigned,
				Official:  true,
				FileName:  string(d.DocKey) + "-signed.pdf",
			}
			d.Versions = append(d.Versions, v)
			// Official versions always become current.
			d.CurrentVersionID = v.ID

			d.Evidence = append(d.Evidence, models.Evidence{
				ID:          uuid.New().String(),
				Source:      "authority",
				Description: "Signed copy returned by authority",
				FileName:    v.FileName,
				At:          now,
			})
			d.Status = status.DocActive
			appendTimeline(ctx, d, "signed", "Signed copy returned")
		})
	if s.discardStale(ctx, err, docID, trackingID) {
		return nil
	}
	if err != nil {
		return err
	}
	if s.metrics != nil {
		s.metrics.Decisions.WithLabelValues("signed").Inc()
	}
	s.pushMirror(ctx, doc, "signed")
	return nil
}

// CompleteRejected applies the auto-reject terminal outcome. Existing
// versions are untouched.
func (s *DocumentService) CompleteRejected(
	ctx context.Context,
	docID id.DocumentID,
	trackingID, reason string,
) error {
	ctx, span := s.span(ctx, "CompleteRejected")
	defer span.End()

	if strings.TrimSpace(reason) == "" {
		reason = defaultRejectionReason
	}
	now := requestcontext.Now(ctx)
	doc, err := s.execute(ctx, docID,
		guardSubmission(trackingID, status.SubUnderReview),
		func(d *models.Document) {
			d.Submission.Status = status.SubRejected
			d.Submission.DecisionAt = &now
			d.Submission.RejectionReason = reason
			d.Submission.MarkStep(models.StepDecision, models.StepRejected, now, reason)
			d.Status = status.DocRejected
			appendTimeline(ctx, d, "rejected", "Rejected: "+reason)
		})
	if s.discardStale(ctx, err, docID, trackingID) {
		return nil
	}
	if err != nil {
		return err
	}
	if s.metrics != nil {
		s.metrics.Decisions.WithLabelValues("rejected").Inc()
	}
	s.pushMirror(ctx, doc, reason)
	return nil
}

// discardStale reports whether err marks a superseded scheduled transition,
// counting and logging the discard. Stale transitions are a silent guard,
// not an error.
func (s *DocumentService) discardStale(ctx context.Context, err error, docID id.DocumentID, trackingID string) bool {
	if err == nil || !errors.Is(err, errStale) {
		return false
	}
	if s.metrics != nil {
		s.metrics.StaleTransitions.Inc()
	}
	s.logger.DebugContext(ctx, "discarded stale scheduled transition",
		"document_id", docID.String(), "tracking_id", trackingID)
	return true
}
