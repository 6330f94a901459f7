package handler

import (
	"time"

	"tradegate/internal/compliance/models"
	"tradegate/internal/compliance/status"
	"tradegate/internal/shipment"
)

type documentResponse struct {
	ID          string `json:"id"`
	DocKey      string `json:"doc_key"`
	ShipmentID  string `json:"shipment_id"`
	ShipmentRef string `json:"shipment_ref"`

	Status      string `json:"status"`
	StatusLabel string `json:"status_label"`
	Readiness   string `json:"readiness"`

	Form map[string]any `json:"form,omitempty"`

	Attachments []attachmentResponse `json:"attachments"`
	Evidence    []evidenceResponse   `json:"evidence"`
	Timeline    []timelineResponse   `json:"timeline"`
	Versions    []versionResponse    `json:"versions"`

	CurrentVersionID string              `json:"current_version_id,omitempty"`
	Submission       *submissionResponse `json:"submission,omitempty"`
	PortalBehavior   string              `json:"portal_behavior"`
	LastUpdated      time.Time           `json:"last_updated"`

	Shipment *shipmentResponse `json:"shipment,omitempty"`
}

type attachmentResponse struct {
	ID         string    `json:"id"`
	FileName   string    `json:"file_name"`
	Label      string    `json:"label,omitempty"`
	UploadedBy string    `json:"uploaded_by"`
	UploadedAt time.Time `json:"uploaded_at"`
}

type evidenceResponse struct {
	ID          string    `json:"id"`
	Source      string    `json:"source"`
	Description string    `json:"description"`
	FileName    string    `json:"file_name,omitempty"`
	At          time.Time `json:"at"`
}

type timelineResponse struct {
	ID          string    `json:"id"`
	At          time.Time `json:"at"`
	Actor       string    `json:"actor"`
	Action      string    `json:"action"`
	Description string    `json:"description,omitempty"`
}

type versionResponse struct {
	ID        string    `json:"id"`
	Number    int       `json:"version"`
	Label     string    `json:"label"`
	CreatedAt time.Time `json:"created_at"`
	CreatedBy string    `json:"created_by"`
	Status    string    `json:"status"`
	Official  bool      `json:"official"`
	Note      string    `json:"note,omitempty"`
	FileName  string    `json:"file_name,omitempty"`
}

type submissionStepResponse struct {
	Key    string     `json:"key"`
	Status string     `json:"status"`
	At     *time.Time `json:"at,omitempty"`
	Note   string     `json:"note,omitempty"`
}

type submissionResponse struct {
	TrackingID      string                   `json:"tracking_id"`
	Status          string                   `json:"status"`
	SubmittedAt     time.Time                `json:"submitted_at"`
	AckAt           *time.Time               `json:"ack_at,omitempty"`
	DecisionAt      *time.Time               `json:"decision_at,omitempty"`
	Steps           []submissionStepResponse `json:"steps"`
	RejectionReason string                   `json:"rejection_reason,omitempty"`
}

type shipmentResponse struct {
	Reference string `json:"reference"`
	Buyer     string `json:"buyer"`
	Route     string `json:"route"`
	Incoterm  string `json:"incoterm"`
	Mode      string `json:"mode"`
}

type readinessResponse struct {
	Ready     int `json:"ready"`
	Attention int `json:"attention"`
	Blocked   int `json:"blocked"`
	Total     int `json:"total"`
}

func toDocumentResponse(doc *models.Document, sh *shipment.Shipment) documentResponse {
	out := documentResponse{
		ID:             doc.ID.String(),
		DocKey:         string(doc.DocKey),
		ShipmentID:     doc.ShipmentID.String(),
		ShipmentRef:    doc.ShipmentRef,
		Status:         string(doc.Status),
		StatusLabel:    status.Label(doc.Status),
		Readiness:      string(status.Classify(doc.Status)),
		Form:           doc.Form,
		PortalBehavior: string(doc.PortalBehavior),
		LastUpdated:    doc.LastUpdated,
		Attachments:    make([]attachmentResponse, 0, len(doc.Attachments)),
		Evidence:       make([]evidenceResponse, 0, len(doc.Evidence)),
		Timeline:       make([]timelineResponse, 0, len(doc.Timeline)),
		Versions:       make([]versionResponse, 0, len(doc.Versions)),
	}
	if !doc.CurrentVersionID.IsZero() {
		out.CurrentVersionID = doc.CurrentVersionID.String()
	}
	for _, a := range doc.Attachments {
		out.Attachments = append(out.Attachments, attachmentResponse{
			ID: a.ID, FileName: a.FileName, Label: a.Label,
			UploadedBy: a.UploadedBy, UploadedAt: a.UploadedAt,
		})
	}
	for _, e := range doc.Evidence {
		out.Evidence = append(out.Evidence, evidenceResponse{
			ID: e.ID, Source: e.Source, Description: e.Description,
			FileName: e.FileName, At: e.At,
		})
	}
	for _, t := range doc.Timeline {
		out.Timeline = append(out.Timeline, timelineResponse{
			ID: t.ID, At: t.At, Actor: t.Actor,
			Action: t.Action, Description: t.Description,
		})
	}
	for _, v := range doc.Versions {
		out.Versions = append(out.Versions, versionResponse{
			ID: v.ID.String(), Number: v.Number, Label: v.Label,
			CreatedAt: v.CreatedAt, CreatedBy: v.CreatedBy,
			Status: string(v.Status), Official: v.Official,
			Note: v.Note, FileName: v.FileName,
		})
	}
	if doc.Submission != nil {
		sub := &submissionResponse{
			TrackingID:      doc.Submission.TrackingID,
			Status:          string(doc.Submission.Status),
			SubmittedAt:     doc.Submission.SubmittedAt,
			AckAt:           doc.Submission.AckAt,
			DecisionAt:      doc.Submission.DecisionAt,
			RejectionReason: doc.Submission.RejectionReason,
			Steps:           make([]submissionStepResponse, 0, len(doc.Submission.Steps)),
		}
		for _, step := range doc.Submission.Steps {
			sub.Steps = append(sub.Steps, submissionStepResponse{
				Key: string(step.Key), Status: string(step.Status),
				At: step.At, Note: step.Note,
			})
		}
		out.Submission = sub
	}
	if sh != nil {
		out.Shipment = &shipmentResponse{
			Reference: sh.Reference, Buyer: sh.Buyer, Route: sh.Route,
			Incoterm: sh.Incoterm, Mode: sh.Mode,
		}
	}
	return out
}
