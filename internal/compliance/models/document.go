// Package models holds the compliance document aggregate and its parts.
//
// The aggregate is only mutated through the document service; everything
// here is data plus the small invariant helpers the service leans on.
package models

import (
	"time"

	id "tradegate/pkg/domain"

	"tradegate/internal/compliance/status"
)

// PortalBehavior controls how the simulated external authority resolves a
// submission for this document.
type PortalBehavior string

const (
	PortalAutoSign   PortalBehavior = "auto-sign"
	PortalAutoReject PortalBehavior = "auto-reject"
	PortalManual     PortalBehavior = "manual"
)

// Document is one compliance document, one per (shipment, document kind).
type Document struct {
	ID          id.DocumentID
	DocKey      id.DocKey
	ShipmentID  id.ShipmentID
	ShipmentRef string

	Status status.Document
	// Form holds the kind-specific structured data the operator edits.
	Form map[string]any

	Attachments []Attachment
	Evidence    []Evidence
	Timeline    []TimelineEntry
	Versions    []Version
	// CurrentVersionID is zero only while Versions is empty.
	CurrentVersionID id.VersionID

	Submission     *SubmissionInfo
	PortalBehavior PortalBehavior

	LastUpdated time.Time
}

// Attachment is user-supplied supporting material. Removable by id.
type Attachment struct {
	ID         string
	FileName   string
	Label      string
	UploadedBy string
	UploadedAt time.Time
}

// Evidence is authority- or system-supplied proof. Never removed.
type Evidence struct {
	ID          string
	Source      string
	Description string
	FileName    string
	At          time.Time
}

// TimelineEntry is one immutable audit record. The timeline is strictly
// append-only and is the source of truth for what happened and when.
type TimelineEntry struct {
	ID          string
	At          time.Time
	Actor       string
	Action      string
	Description string
}

// FindVersion returns the version with the given id, or nil.
func (d *Document) FindVersion(versionID id.VersionID) *Version {
	for i := range d.Versions {
		if d.Versions[i].ID == versionID {
			return &d.Versions[i]
		}
	}
	return nil
}

// NextVersionNumber returns the number the next appended version must carry.
func (d *Document) NextVersionNumber() int {
	next := 1
	for _, v := range d.Versions {
		if v.Number >= next {
			next = v.Number + 1
		}
	}
	return next
}

// Clone returns a deep copy so store reads never alias internal state.
func (d *Document) Clone() *Document {
	out := *d

	if d.Form != nil {
		out.Form = make(map[string]any, len(d.Form))
		for k, v := range d.Form {
			out.Form[k] = v
		}
	}
	out.Attachments = append([]Attachment(nil), d.Attachments...)
	out.Evidence = append([]Evidence(nil), d.Evidence...)
	out.Timeline = append([]TimelineEntry(nil), d.Timeline...)
	out.Versions = append([]Version(nil), d.Versions...)
	if d.Submission != nil {
		out.Submission = d.Submission.Clone()
	}
	return &out
}
