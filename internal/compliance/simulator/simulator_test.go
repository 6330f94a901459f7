package simulator

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "tradegate/pkg/domain"
	"tradegate/pkg/platform/schedule"

	"tradegate/internal/compliance/models"
	"tradegate/internal/platform/config"
)

var testDelays = config.Simulator{
	ReviewDelay: 10 * time.Millisecond,
	SignDelay:   10 * time.Millisecond,
	RejectDelay: 10 * time.Millisecond,
}

// fakeOps records the transitions the simulator fires.
type fakeOps struct {
	mu       sync.Mutex
	reviews  []string
	signed   []string
	rejected []string
	reasons  []string
}

func (f *fakeOps) BeginReview(_ context.Context, _ id.DocumentID, trackingID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reviews = append(f.reviews, trackingID)
	return nil
}

func (f *fakeOps) CompleteSigned(_ context.Context, _ id.DocumentID, trackingID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signed = append(f.signed, trackingID)
	return nil
}

func (f *fakeOps) CompleteRejected(_ context.Context, _ id.DocumentID, trackingID, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rejected = append(f.rejected, trackingID)
	f.reasons = append(f.reasons, reason)
	return nil
}

func (f *fakeOps) snapshot() (reviews, signed, rejected []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.reviews...),
		append([]string(nil), f.signed...),
		append([]string(nil), f.rejected...)
}

func newSim(ops DocumentOps) *Simulator {
	return New(schedule.NewScheduler(), testDelays, ops, nil)
}

func TestAutoSignFiresReviewThenSigned(t *testing.T) {
	ops := &fakeOps{}
	sim := newSim(ops)
	defer sim.Stop()

	docID := id.DocumentID(uuid.New())
	sim.Arm(docID, "SUB-1", models.PortalAutoSign)

	require.Eventually(t, func() bool {
		_, signed, _ := ops.snapshot()
		return len(signed) == 1
	}, time.Second, 2*time.Millisecond)

	reviews, signed, rejected := ops.snapshot()
	assert.Equal(t, []string{"SUB-1"}, reviews)
	assert.Equal(t, []string{"SUB-1"}, signed)
	assert.Empty(t, rejected)
}

func TestAutoRejectFiresRejectedWithReason(t *testing.T) {
	ops := &fakeOps{}
	sim := newSim(ops)
	defer sim.Stop()

	sim.Arm(id.DocumentID(uuid.New()), "SUB-2", models.PortalAutoReject)

	require.Eventually(t, func() bool {
		_, _, rejected := ops.snapshot()
		return len(rejected) == 1
	}, time.Second, 2*time.Millisecond)

	ops.mu.Lock()
	defer ops.mu.Unlock()
	assert.NotEmpty(t, ops.reasons[0])
}

func TestManualArmsNothing(t *testing.T) {
	ops := &fakeOps{}
	sim := newSim(ops)
	defer sim.Stop()

	sim.Arm(id.DocumentID(uuid.New()), "SUB-3", models.PortalManual)

	time.Sleep(testDelays.ReviewDelay + testDelays.SignDelay + 20*time.Millisecond)
	reviews, signed, rejected := ops.snapshot()
	assert.Empty(t, reviews)
	assert.Empty(t, signed)
	assert.Empty(t, rejected)
}

func TestCancelBeforeReview(t *testing.T) {
	ops := &fakeOps{}
	sim := newSim(ops)
	defer sim.Stop()

	docID := id.DocumentID(uuid.New())
	sim.Arm(docID, "SUB-4", models.PortalAutoSign)
	sim.Cancel(docID)

	time.Sleep(testDelays.ReviewDelay + testDelays.SignDelay + 20*time.Millisecond)
	reviews, _, _ := ops.snapshot()
	assert.Empty(t, reviews)
}

func TestRearmSupersedesPriorSubmission(t *testing.T) {
	ops := &fakeOps{}
	sim := newSim(ops)
	defer sim.Stop()

	docID := id.DocumentID(uuid.New())
	sim.Arm(docID, "SUB-old", models.PortalAutoSign)
	sim.Arm(docID, "SUB-new", models.PortalAutoSign)

	require.Eventually(t, func() bool {
		_, signed, _ := ops.snapshot()
		return len(signed) == 1
	}, time.Second, 2*time.Millisecond)

	reviews, signed, _ := ops.snapshot()
	assert.Equal(t, []string{"SUB-new"}, reviews, "superseded timer never fires")
	assert.Equal(t, []string{"SUB-new"}, signed)
}

func TestStopPreventsAllTransitions(t *testing.T) {
	ops := &fakeOps{}
	sim := newSim(ops)

	sim.Arm(id.DocumentID(uuid.New()), "SUB-5", models.PortalAutoSign)
	sim.Stop()

	time.Sleep(testDelays.ReviewDelay + testDelays.SignDelay + 20*time.Millisecond)
	reviews, _, _ := ops.snapshot()
	assert.Empty(t, reviews)
}
