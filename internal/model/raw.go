package model

// Raw analyzer output shape. Pointer fields mark keys whose absence
// the translator must detect and reject rather than zero-fill.

// RawPeriod is one occurrence as reported by the analyzer.
type RawPeriod struct {
	StartFrame      int     `json:"start_frame"`
	EndFrame        int     `json:"end_frame"`
	DurationFrames  int     `json:"duration_frames"`
	DurationSeconds float64 `json:"duration_seconds"`
}

// RawActionSummary is the analyzer's per-action aggregate.
type RawActionSummary struct {
	TotalDurationSeconds float64 `json:"total_duration_seconds"`
	OccurrenceCount      int     `json:"occurrence_count"`
}

// RawAction is one detected behavior category in analyzer terms.
type RawAction struct {
	ActionName string            `json:"action_name"`
	Periods    []RawPeriod       `json:"periods"`
	Summary    *RawActionSummary `json:"summary"`
}

// RawSummary is the analyzer's top-level aggregate.
type RawSummary struct {
	TotalBadPostures     int     `json:"total_bad_postures"`
	TotalDurationSeconds float64 `json:"total_duration_seconds"`
}

// RawAnalysis is the analyzer's complete output document.
type RawAnalysis struct {
	Summary         *RawSummary          `json:"summary"`
	DetectedActions map[string]RawAction `json:"detected_actions"`
}
