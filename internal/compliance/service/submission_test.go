package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"

	id "tradegate/pkg/domain"
	dErrors "tradegate/pkg/domain-errors"
	"tradegate/pkg/platform/schedule"
	"tradegate/pkg/requestcontext"

	"tradegate/internal/compliance/models"
	"tradegate/internal/compliance/simulator"
	"tradegate/internal/compliance/status"
	"tradegate/internal/compliance/store/document"
	"tradegate/internal/mirror"
	"tradegate/internal/platform/config"
	"tradegate/internal/platform/metrics"
)

// Short delays so the full portal cycle resolves in tens of milliseconds.
var fastDelays = config.Simulator{
	ReviewDelay: 15 * time.Millisecond,
	SignDelay:   20 * time.Millisecond,
	RejectDelay: 20 * time.Millisecond,
}

const eventuallyTick = 2 * time.Millisecond

type SubmissionSuite struct {
	suite.Suite
	svc   *DocumentService
	sim   *simulator.Simulator
	sched *schedule.Scheduler
	ctx   context.Context
}

func (s *SubmissionSuite) SetupTest() {
	s.svc = NewDocumentService(document.NewInMemory(),
		WithMirror(mirror.NewRecorder()),
		WithMetrics(metrics.NewWith(prometheus.NewRegistry())),
	)
	s.sched = schedule.NewScheduler()
	s.sim = simulator.New(s.sched, fastDelays, s.svc, nil)
	s.svc.AttachSimulator(s.sim)
	s.ctx = requestcontext.WithActor(context.Background(), "ops@example.com")
}

func (s *SubmissionSuite) TearDownTest() {
	s.sim.Stop()
}

func TestSubmissionSuite(t *testing.T) {
	suite.Run(t, new(SubmissionSuite))
}

func (s *SubmissionSuite) seedDocument(behavior models.PortalBehavior) *models.Document {
	doc := &models.Document{
		DocKey:         id.DocKeyPhytosanitary,
		ShipmentID:     id.ShipmentID(uuid.New()),
		ShipmentRef:    "EXP-9",
		Status:         status.DocReady,
		PortalBehavior: behavior,
	}
	s.Require().NoError(s.svc.CreateDocument(s.ctx, doc))
	return doc
}

func (s *SubmissionSuite) docStatus(docID id.DocumentID) status.Document {
	got, err := s.svc.GetDocument(s.ctx, docID)
	s.Require().NoError(err)
	return got.Status
}

func (s *SubmissionSuite) subStatus(docID id.DocumentID) status.Submission {
	got, err := s.svc.GetDocument(s.ctx, docID)
	s.Require().NoError(err)
	if got.Submission == nil {
		return ""
	}
	return got.Submission.Status
}

func (s *SubmissionSuite) TestAutoSignLifecycle() {
	doc := s.seedDocument(models.PortalAutoSign)

	started, err := s.svc.StartSubmission(s.ctx, doc.ID, models.SubmissionInfo{})
	s.Require().NoError(err)

	s.Require().NotNil(started.Submission)
	s.True(strings.HasPrefix(started.Submission.TrackingID, "SUB-"), "tracking id is generated")
	s.Equal(status.SubSubmitted, started.Submission.Status)
	s.Equal(status.DocSubmitted, started.Status)
	s.Len(started.Versions, 0)

	s.Require().Eventually(func() bool {
		return s.subStatus(doc.ID) == status.SubUnderReview
	}, time.Second, eventuallyTick, "review transition")
	s.Equal(status.DocUnderReview, s.docStatus(doc.ID))

	s.Require().Eventually(func() bool {
		return s.subStatus(doc.ID) == status.SubSigned
	}, time.Second, eventuallyTick, "sign transition")

	got, err := s.svc.GetDocument(s.ctx, doc.ID)
	s.Require().NoError(err)
	s.Equal(status.DocActive, got.Status, "signed documents are promoted to active")

	s.Require().Len(got.Versions, 1, "exactly one official version appended")
	s.True(got.Versions[0].Official)
	s.Equal(1, got.Versions[0].Number)
	s.Equal(got.Versions[0].ID, got.CurrentVersionID, "official version becomes current")
	s.Equal(status.VerSigned, got.Versions[0].Status)

	s.Require().Len(got.Evidence, 1, "signed copy evidence appended")
	s.Equal("authority", got.Evidence[0].Source)

	s.NotNil(got.Submission.DecisionAt)
	s.NotNil(got.Submission.AckAt)
	for _, step := range got.Submission.Steps {
		s.Equal(models.StepCompleted, step.Status, "step %s", step.Key)
		s.NotNil(step.At)
	}

	var signedEntries int
	for _, entry := range got.Timeline {
		if entry.Action == "signed" {
			signedEntries++
			s.Equal("authority-portal", entry.Actor)
		}
	}
	s.Equal(1, signedEntries)
}

func (s *SubmissionSuite) TestAutoRejectKeepsVersions() {
	doc := s.seedDocument(models.PortalAutoReject)
	_, err := s.svc.AddVersion(s.ctx, doc.ID, models.Version{Label: "draft v1"}, false)
	s.Require().NoError(err)

	_, err = s.svc.StartSubmission(s.ctx, doc.ID, models.SubmissionInfo{TrackingID: "SUB-fixed"})
	s.Require().NoError(err)

	s.Require().Eventually(func() bool {
		return s.subStatus(doc.ID) == status.SubRejected
	}, time.Second, eventuallyTick, "reject transition")

	got, err := s.svc.GetDocument(s.ctx, doc.ID)
	s.Require().NoError(err)
	s.Equal(status.DocRejected, got.Status)
	s.NotEmpty(got.Submission.RejectionReason)
	s.Len(got.Versions, 1, "rejection never touches the ledger")
	s.Empty(got.Evidence)

	decision := got.Submission.Steps[len(got.Submission.Steps)-1]
	s.Equal(models.StepDecision, decision.Key)
	s.Equal(models.StepRejected, decision.Status)
	s.NotNil(decision.At)
}

func (s *SubmissionSuite) TestManualPortalNeverProgresses() {
	doc := s.seedDocument(models.PortalManual)

	_, err := s.svc.StartSubmission(s.ctx, doc.ID, models.SubmissionInfo{})
	s.Require().NoError(err)

	time.Sleep(fastDelays.ReviewDelay + fastDelays.SignDelay + 30*time.Millisecond)

	s.Equal(status.SubSubmitted, s.subStatus(doc.ID))
	s.Equal(status.DocSubmitted, s.docStatus(doc.ID))
	s.Zero(s.sched.Pending(), "manual portals arm no timers")
}

func (s *SubmissionSuite) TestClearSubmissionCancelsPendingTransition() {
	doc := s.seedDocument(models.PortalAutoSign)

	_, err := s.svc.StartSubmission(s.ctx, doc.ID, models.SubmissionInfo{})
	s.Require().NoError(err)

	cleared, err := s.svc.ClearSubmission(s.ctx, doc.ID)
	s.Require().NoError(err)
	s.Nil(cleared.Submission)

	time.Sleep(fastDelays.ReviewDelay + fastDelays.SignDelay + 30*time.Millisecond)

	got, err := s.svc.GetDocument(s.ctx, doc.ID)
	s.Require().NoError(err)
	s.Nil(got.Submission, "cancelled transition must not resurrect the cycle")
	s.Equal(status.DocSubmitted, got.Status, "clear does not rewrite status")
	s.Empty(got.Versions)
}

func (s *SubmissionSuite) TestSupersededSubmissionNeverMutates() {
	doc := s.seedDocument(models.PortalAutoSign)

	first, err := s.svc.StartSubmission(s.ctx, doc.ID, models.SubmissionInfo{})
	s.Require().NoError(err)
	firstTracking := first.Submission.TrackingID

	_, err = s.svc.ClearSubmission(s.ctx, doc.ID)
	s.Require().NoError(err)

	second, err := s.svc.StartSubmission(s.ctx, doc.ID, models.SubmissionInfo{})
	s.Require().NoError(err)
	s.NotEqual(firstTracking, second.Submission.TrackingID, "tracking ids are unique per submission")

	s.Require().Eventually(func() bool {
		return s.subStatus(doc.ID) == status.SubSigned
	}, time.Second, eventuallyTick)

	got, err := s.svc.GetDocument(s.ctx, doc.ID)
	s.Require().NoError(err)
	s.Equal(second.Submission.TrackingID, got.Submission.TrackingID)
	s.Len(got.Versions, 1, "only the active submission's decision applies")
	s.Len(got.Evidence, 1)
}

func (s *SubmissionSuite) TestStartSubmissionConflictsWhileOpen() {
	doc := s.seedDocument(models.PortalManual)

	_, err := s.svc.StartSubmission(s.ctx, doc.ID, models.SubmissionInfo{})
	s.Require().NoError(err)

	_, err = s.svc.StartSubmission(s.ctx, doc.ID, models.SubmissionInfo{})
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))
}

func (s *SubmissionSuite) TestUpdateSubmission() {
	s.Run("without a submission is an explicit error", func() {
		doc := s.seedDocument(models.PortalManual)
		_, err := s.svc.UpdateSubmission(s.ctx, doc.ID, func(sub *models.SubmissionInfo) {})
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("re-derives document status and fills missing rejection reason", func() {
		doc := s.seedDocument(models.PortalManual)
		_, err := s.svc.StartSubmission(s.ctx, doc.ID, models.SubmissionInfo{})
		s.Require().NoError(err)

		updated, err := s.svc.UpdateSubmission(s.ctx, doc.ID, func(sub *models.SubmissionInfo) {
			sub.Status = status.SubRejected
		})
		s.Require().NoError(err)
		s.Equal(status.DocRejected, updated.Status)
		s.NotEmpty(updated.Submission.RejectionReason)
	})
}

func (s *SubmissionSuite) TestReopenAfterRejection() {
	doc := s.seedDocument(models.PortalAutoReject)

	_, err := s.svc.StartSubmission(s.ctx, doc.ID, models.SubmissionInfo{})
	s.Require().NoError(err)
	s.Require().Eventually(func() bool {
		return s.docStatus(doc.ID) == status.DocRejected
	}, time.Second, eventuallyTick)

	s.Run("reopen clears the submission and returns to draft", func() {
		reopened, err := s.svc.Reopen(s.ctx, doc.ID)
		s.Require().NoError(err)
		s.Nil(reopened.Submission)
		s.Equal(status.DocDraft, reopened.Status)
	})

	s.Run("reopen requires a rejected document", func() {
		_, err := s.svc.Reopen(s.ctx, doc.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})
}

func (s *SubmissionSuite) TestStatusSubmissionConsistency() {
	doc := s.seedDocument(models.PortalAutoSign)
	_, err := s.svc.StartSubmission(s.ctx, doc.ID, models.SubmissionInfo{})
	s.Require().NoError(err)

	s.Require().Eventually(func() bool {
		return s.subStatus(doc.ID) == status.SubSigned
	}, time.Second, eventuallyTick)

	// At every observable point the document status is the image of the
	// submission status, allowing the signed → active promotion.
	got, err := s.svc.GetDocument(s.ctx, doc.ID)
	s.Require().NoError(err)
	expected := status.DocumentFor(got.Submission.Status)
	if expected == status.DocSigned {
		s.Equal(status.DocActive, got.Status)
	} else {
		s.Equal(expected, got.Status)
	}
}
