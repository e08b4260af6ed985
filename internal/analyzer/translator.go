package analyzer

import (
	"fmt"
	"sort"

	"github.com/posturelab/postura/internal/model"
)

// Translate maps the analyzer's raw nested output into the stable
// report schema. It is a pure structural mapping: counts and durations
// are carried verbatim, never recomputed. Missing required keys yield
// ErrMalformedOutput naming the absent key.
func Translate(jobID string, raw *model.RawAnalysis) (*model.AnalysisReport, error) {
	if raw == nil {
		return nil, fmt.Errorf("%w: empty result", model.ErrMalformedOutput)
	}
	if raw.Summary == nil {
		return nil, fmt.Errorf("%w: missing key %q", model.ErrMalformedOutput, "summary")
	}
	if raw.DetectedActions == nil {
		return nil, fmt.Errorf("%w: missing key %q", model.ErrMalformedOutput, "detected_actions")
	}

	// The analyzer keys actions by an opaque identifier; map iteration
	// order is not stable, so emit actions in sorted key order.
	keys := make([]string, 0, len(raw.DetectedActions))
	for key := range raw.DetectedActions {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	actions := make([]model.DetectedAction, 0, len(keys))
	for _, key := range keys {
		rawAction := raw.DetectedActions[key]
		if rawAction.ActionName == "" {
			return nil, fmt.Errorf("%w: action %q missing key %q", model.ErrMalformedOutput, key, "action_name")
		}
		if rawAction.Summary == nil {
			return nil, fmt.Errorf("%w: action %q missing key %q", model.ErrMalformedOutput, key, "summary")
		}
		if rawAction.Periods == nil {
			return nil, fmt.Errorf("%w: action %q missing key %q", model.ErrMalformedOutput, key, "periods")
		}

		periods := make([]model.ActionPeriod, 0, len(rawAction.Periods))
		for _, p := range rawAction.Periods {
			periods = append(periods, model.ActionPeriod{
				StartFrame:      p.StartFrame,
				EndFrame:        p.EndFrame,
				DurationFrames:  p.DurationFrames,
				DurationSeconds: p.DurationSeconds,
			})
		}

		actions = append(actions, model.DetectedAction{
			ActionName: rawAction.ActionName,
			Periods:    periods,
			Summary: model.ActionSummary{
				TotalDurationSeconds: rawAction.Summary.TotalDurationSeconds,
				OccurrenceCount:      rawAction.Summary.OccurrenceCount,
			},
		})
	}

	return &model.AnalysisReport{
		JobID:                jobID,
		TotalBadPostures:     raw.Summary.TotalBadPostures,
		TotalDurationSeconds: raw.Summary.TotalDurationSeconds,
		DetectedActions:      actions,
	}, nil
}
