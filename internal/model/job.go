package model

// JobStatus is the lifecycle state of an analysis job
type JobStatus string

const (
	StatusProcessing JobStatus = "processing"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
)

// Terminal reports whether the status admits no further transitions.
func (s JobStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Job tracks one analysis request from submission to completion.
// Progress is an advisory milestone counter (0-100), non-decreasing
// within a single run.
type Job struct {
	JobID    string          `json:"job_id"`
	Status   JobStatus       `json:"status"`
	Progress int             `json:"progress"`
	Message  string          `json:"message,omitempty"`
	Result   *AnalysisReport `json:"result,omitempty"`
}

// JobSummary is the public list shape exposed by the registry.
type JobSummary struct {
	JobID    string    `json:"job_id"`
	Status   JobStatus `json:"status"`
	Progress int       `json:"progress"`
	Message  string    `json:"message,omitempty"`
}

// Descriptor tells the orchestrator where a job's input video lives.
// Exactly one of VideoURL or VideoPath is set.
type Descriptor struct {
	VideoURL    string
	VideoPath   string
	CallbackURL string
}
