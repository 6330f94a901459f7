package handler

// updateFormRequest replaces the document's form data wholesale.
type updateFormRequest struct {
	Form map[string]any `json:"form"`
}

type setStatusRequest struct {
	Status         string `json:"status"`
	Note           string `json:"note,omitempty"`
	RecordTimeline bool   `json:"record_timeline"`
}

type addAttachmentRequest struct {
	FileName string `json:"file_name"`
	Label    string `json:"label,omitempty"`
}

type addEvidenceRequest struct {
	Source      string `json:"source"`
	Description string `json:"description"`
	FileName    string `json:"file_name,omitempty"`
}

type addVersionRequest struct {
	Label      string `json:"label"`
	Status     string `json:"status,omitempty"`
	Note       string `json:"note,omitempty"`
	FileName   string `json:"file_name,omitempty"`
	Official   bool   `json:"official"`
	SetCurrent bool   `json:"set_current"`
}

type setCurrentVersionRequest struct {
	VersionID string `json:"version_id"`
}

type addTimelineRequest struct {
	Action      string `json:"action"`
	Description string `json:"description,omitempty"`
}

type startSubmissionRequest struct {
	TrackingID string `json:"tracking_id,omitempty"`
}
