package model

// ActionPeriod is a single contiguous occurrence of a detected behavior.
// Frame bounds are inclusive; duration fields are supplied by the
// analyzer and carried verbatim.
type ActionPeriod struct {
	StartFrame      int     `json:"start_frame"`
	EndFrame        int     `json:"end_frame"`
	DurationFrames  int     `json:"duration_frames"`
	DurationSeconds float64 `json:"duration_seconds"`
}

// ActionSummary aggregates the periods of one behavior category.
type ActionSummary struct {
	TotalDurationSeconds float64 `json:"total_duration_seconds"`
	OccurrenceCount      int     `json:"occurrence_count"`
}

// DetectedAction is one behavior category with its chronological occurrences.
type DetectedAction struct {
	ActionName string         `json:"action_name"`
	Periods    []ActionPeriod `json:"periods"`
	Summary    ActionSummary  `json:"summary"`
}

// AnalysisReport is the stable response schema attached to a completed
// job. Immutable once attached.
type AnalysisReport struct {
	JobID                string           `json:"job_id"`
	TotalBadPostures     int              `json:"total_bad_postures"`
	TotalDurationSeconds float64          `json:"total_duration_seconds"`
	DetectedActions      []DetectedAction `json:"detected_actions"`
}

// Clone returns a deep copy so snapshots never alias the stored report.
func (r *AnalysisReport) Clone() *AnalysisReport {
	if r == nil {
		return nil
	}
	clone := *r
	clone.DetectedActions = make([]DetectedAction, len(r.DetectedActions))
	for i, action := range r.DetectedActions {
		action.Periods = append([]ActionPeriod(nil), action.Periods...)
		clone.DetectedActions[i] = action
	}
	return &clone
}
