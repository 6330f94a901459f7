// Package status defines the three status vocabularies of the compliance
// domain and the normalization layer that reconciles legacy strings into the
// canonical document status space.
//
// Documents, submissions and versions each carry their own status type; the
// sets overlap in spelling but never in meaning, so they are distinct types
// with explicit mapping functions between them.
package status

import "strings"

// Document is the canonical document status.
type Document string

const (
	DocRequired    Document = "required"
	DocDraft       Document = "draft"
	DocReady       Document = "ready"
	DocSubmitted   Document = "submitted"
	DocUnderReview Document = "under_review"
	DocRejected    Document = "rejected"
	DocSigned      Document = "signed"
	DocActive      Document = "active"
	DocExpired     Document = "expired"
)

// Submission is the status of one submission cycle.
type Submission string

const (
	SubSubmitted   Submission = "submitted"
	SubUnderReview Submission = "under_review"
	SubSigned      Submission = "signed"
	SubRejected    Submission = "rejected"
)

// Version is the status of one immutable document version.
type Version string

const (
	VerDraft     Version = "draft"
	VerReady     Version = "ready"
	VerSubmitted Version = "submitted"
	VerSigned    Version = "signed"
)

// Readiness partitions the canonical set for portfolio-level rollups.
type Readiness string

const (
	ReadinessReady     Readiness = "ready"
	ReadinessAttention Readiness = "attention"
	ReadinessBlocked   Readiness = "blocked"
)

// canonical maps every accepted raw spelling (canonical values plus the
// legacy source vocabulary) onto the canonical status. Unknown values fall
// back to DocRequired in Normalize.
var canonical = map[string]Document{
	"required":     DocRequired,
	"missing":      DocRequired,
	"pending":      DocRequired,
	"draft":        DocDraft,
	"in_progress":  DocDraft,
	"ready":        DocReady,
	"prepared":     DocReady,
	"submitted":    DocSubmitted,
	"sent":         DocSubmitted,
	"under_review": DocUnderReview,
	"in_review":    DocUnderReview,
	"reviewing":    DocUnderReview,
	"rejected":     DocRejected,
	"declined":     DocRejected,
	"signed":       DocSigned,
	"issued":       DocSigned,
	"active":       DocActive,
	"valid":        DocActive,
	"expired":      DocExpired,
	"lapsed":       DocExpired,
}

// Normalize maps a raw status string onto the canonical document status.
// Total, pure and idempotent: canonical values map to themselves, unknown
// values map to DocRequired, and it never fails.
func Normalize(raw string) Document {
	key := strings.ToLower(strings.TrimSpace(raw))
	if s, ok := canonical[key]; ok {
		return s
	}
	return DocRequired
}

// Known reports whether raw is part of the accepted vocabulary. Callers use
// this to log unknown inputs before falling back to the default.
func Known(raw string) bool {
	_, ok := canonical[strings.ToLower(strings.TrimSpace(raw))]
	return ok
}

// Classify partitions a canonical status for readiness rollups.
func Classify(s Document) Readiness {
	switch s {
	case DocReady, DocSigned, DocActive:
		return ReadinessReady
	case DocRequired, DocRejected, DocExpired:
		return ReadinessBlocked
	case DocDraft, DocSubmitted, DocUnderReview:
		return ReadinessAttention
	default:
		// Non-canonical input; normalize first.
		return Classify(Normalize(string(s)))
	}
}

// Label returns the stable human-readable form of a canonical status.
func Label(s Document) string {
	switch s {
	case DocRequired:
		return "Required"
	case DocDraft:
		return "Draft"
	case DocReady:
		return "Ready"
	case DocSubmitted:
		return "Submitted"
	case DocUnderReview:
		return "Under review"
	case DocRejected:
		return "Rejected"
	case DocSigned:
		return "Signed"
	case DocActive:
		return "Active"
	case DocExpired:
		return "Expired"
	default:
		return Label(Normalize(string(s)))
	}
}

// DocumentFor maps a submission status onto the document status the aggregate
// must carry while that submission is active. The signed → active promotion
// happens when the signed artifact is incorporated, not here.
func DocumentFor(s Submission) Document {
	switch s {
	case SubSubmitted:
		return DocSubmitted
	case SubUnderReview:
		return DocUnderReview
	case SubSigned:
		return DocSigned
	case SubRejected:
		return DocRejected
	default:
		return DocSubmitted
	}
}

// ParseSubmission validates a raw submission status.
func ParseSubmission(raw string) (Submission, bool) {
	switch Submission(strings.ToLower(strings.TrimSpace(raw))) {
	case SubSubmitted:
		return SubSubmitted, true
	case SubUnderReview:
		return SubUnderReview, true
	case SubSigned:
		return SubSigned, true
	case SubRejected:
		return SubRejected, true
	}
	return "", false
}

// ParseVersion validates a raw version status.
func ParseVersion(raw string) (Version, bool) {
	switch Version(strings.ToLower(strings.TrimSpace(raw))) {
	case VerDraft:
		return VerDraft, true
	case VerReady:
		return VerReady, true
	case VerSubmitted:
		return VerSubmitted, true
	case VerSigned:
		return VerSigned, true
	}
	return "", false
}

// Terminal reports whether a submission status is a terminal decision.
func (s Submission) Terminal() bool {
	return s == SubSigned || s == SubRejected
}
