package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/posturelab/postura/internal/analyzer"
	"github.com/posturelab/postura/internal/media"
	"github.com/posturelab/postura/internal/model"
	"github.com/posturelab/postura/internal/registry"
)

// Notifier delivers the terminal job snapshot to a caller-supplied
// callback URL. Delivery failures never affect the job outcome.
type Notifier interface {
	NotifyCompletion(ctx context.Context, callbackURL string, job model.Job)
}

// Orchestrator drives one job through acquisition, analysis and
// translation, writing progress into the registry after each phase.
// It holds the job ID and run token only, never registry internals.
type Orchestrator struct {
	registry *registry.Registry
	acquirer *media.Acquirer
	analyzer analyzer.Analyzer
	notifier Notifier
}

// NewOrchestrator creates an orchestrator. notifier may be nil when
// callback delivery is disabled.
func NewOrchestrator(
	reg *registry.Registry,
	acquirer *media.Acquirer,
	an analyzer.Analyzer,
	notifier Notifier,
) *Orchestrator {
	return &Orchestrator{
		registry: reg,
		acquirer: acquirer,
		analyzer: an,
		notifier: notifier,
	}
}

// Run executes the full pipeline for one job. Every error is absorbed
// into a terminal failed state; nothing escapes, since no caller waits
// on this synchronously. A stale run token (the job was resubmitted)
// ends the run silently after cleaning up any transient file.
func (o *Orchestrator) Run(ctx context.Context, jobID, runID string, desc model.Descriptor) {
	slog.Info("Starting analysis run", "job_id", jobID)

	if err := o.setProgress(jobID, runID, 10, "Acquiring input video..."); err != nil {
		return
	}

	acq, err := o.acquire(ctx, jobID, desc)
	if err != nil {
		o.fail(ctx, jobID, runID, desc, err)
		return
	}

	if err := o.setProgress(jobID, runID, 30, "Analyzing posture..."); err != nil {
		acq.Cleanup()
		return
	}

	raw, err := o.analyzer.Analyze(ctx, acq.Path)
	if err != nil {
		acq.Cleanup()
		o.fail(ctx, jobID, runID, desc, err)
		return
	}

	if err := o.setProgress(jobID, runID, 80, "Converting results..."); err != nil {
		acq.Cleanup()
		return
	}

	report, err := analyzer.Translate(jobID, raw)
	if err != nil {
		acq.Cleanup()
		o.fail(ctx, jobID, runID, desc, err)
		return
	}

	acq.Cleanup()

	err = o.registry.Update(jobID, runID, func(job *model.Job) {
		job.Status = model.StatusCompleted
		job.Progress = 100
		job.Message = "Analysis completed successfully"
		job.Result = report
	})
	if err != nil {
		o.logStale(jobID, err)
		return
	}

	slog.Info("Analysis run completed", "job_id", jobID)
	o.notify(ctx, jobID, desc)
}

func (o *Orchestrator) acquire(ctx context.Context, jobID string, desc model.Descriptor) (media.Acquisition, error) {
	if desc.VideoURL != "" {
		return o.acquirer.Download(ctx, desc.VideoURL, jobID)
	}
	return o.acquirer.ResolveLocal(desc.VideoPath)
}

func (o *Orchestrator) setProgress(jobID, runID string, progress int, message string) error {
	err := o.registry.Update(jobID, runID, func(job *model.Job) {
		job.Progress = progress
		job.Message = message
	})
	if err != nil {
		o.logStale(jobID, err)
	}
	return err
}

func (o *Orchestrator) fail(ctx context.Context, jobID, runID string, desc model.Descriptor, cause error) {
	slog.Error("Analysis run failed", "job_id", jobID, "error", cause)

	err := o.registry.Update(jobID, runID, func(job *model.Job) {
		job.Status = model.StatusFailed
		job.Progress = 100
		job.Message = "Analysis failed: " + cause.Error()
	})
	if err != nil {
		o.logStale(jobID, err)
		return
	}

	o.notify(ctx, jobID, desc)
}

func (o *Orchestrator) notify(ctx context.Context, jobID string, desc model.Descriptor) {
	if o.notifier == nil || desc.CallbackURL == "" {
		return
	}
	job, err := o.registry.Get(jobID)
	if err != nil {
		return
	}
	o.notifier.NotifyCompletion(ctx, desc.CallbackURL, job)
}

func (o *Orchestrator) logStale(jobID string, err error) {
	if errors.Is(err, model.ErrStaleRun) {
		slog.Info("Run superseded by resubmission, stopping", "job_id", jobID)
		return
	}
	slog.Warn("Registry update failed", "job_id", jobID, "error", err)
}
