package models

import (
	"time"

	"tradegate/internal/compliance/status"
)

// StepKey names one entry in the fixed submission checklist.
type StepKey string

const (
	StepSubmitted   StepKey = "submitted"
	StepReceived    StepKey = "received"
	StepUnderReview StepKey = "under_review"
	StepDecision    StepKey = "decision"
)

// StepStatus is the state of one checklist step.
type StepStatus string

const (
	StepPending   StepStatus = "pending"
	StepCompleted StepStatus = "completed"
	StepRejected  StepStatus = "rejected"
)

// SubmissionStep is one entry in the ordered submission checklist. A step's
// timestamp is set only when its status leaves pending.
type SubmissionStep struct {
	Key    StepKey
	Status StepStatus
	At     *time.Time
	Note   string
}

// SubmissionInfo is the at-most-one active submission cycle of a document.
type SubmissionInfo struct {
	TrackingID  string
	Status      status.Submission
	SubmittedAt time.Time
	AckAt       *time.Time
	DecisionAt  *time.Time
	Steps       []SubmissionStep
	// RejectionReason is non-empty whenever Status is rejected.
	RejectionReason string
}

// NewSubmissionSteps builds the fixed checklist with the first two steps
// already resolved: the portal acknowledges receipt synchronously.
func NewSubmissionSteps(now time.Time) []SubmissionStep {
	at := now
	return []SubmissionStep{
		{Key: StepSubmitted, Status: StepCompleted, At: &at},
		{Key: StepReceived, Status: StepCompleted, At: &at},
		{Key: StepUnderReview, Status: StepPending},
		{Key: StepDecision, Status: StepPending},
	}
}

// MarkStep resolves the named step. No-op if the step is absent or already
// resolved, so replayed transitions cannot rewrite history.
func (s *SubmissionInfo) MarkStep(key StepKey, st StepStatus, at time.Time, note string) {
	for i := range s.Steps {
		if s.Steps[i].Key != key || s.Steps[i].Status != StepPending {
			continue
		}
		t := at
		s.Steps[i].Status = st
		s.Steps[i].At = &t
		if note != "" {
			s.Steps[i].Note = note
		}
		return
	}
}

// Clone returns a deep copy of the submission record.
func (s *SubmissionInfo) Clone() *SubmissionInfo {
	out := *s
	out.Steps = make([]SubmissionStep, len(s.Steps))
	for i, step := range s.Steps {
		out.Steps[i] = step
		if step.At != nil {
			t := *step.At
			out.Steps[i].At = &t
		}
	}
	if s.AckAt != nil {
		t := *s.AckAt
		out.AckAt = &t
	}
	if s.DecisionAt != nil {
		t := *s.DecisionAt
		out.DecisionAt = &t
	}
	return &out
}
