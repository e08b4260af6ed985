package service

import (
	"context"
	"log/slog"

	"github.com/posturelab/postura/internal/model"
	"github.com/posturelab/postura/internal/registry"
	"github.com/posturelab/postura/internal/worker"
)

// Dispatcher accepts job submissions and hands them to the worker
// pool without blocking the caller. When Submit returns nil the job
// exists in the registry in processing state; the run itself happens
// on a pool worker.
type Dispatcher struct {
	registry     *registry.Registry
	pool         *worker.Pool
	orchestrator *Orchestrator
}

// NewDispatcher creates a dispatcher on top of a started worker pool.
func NewDispatcher(reg *registry.Registry, pool *worker.Pool, orchestrator *Orchestrator) *Dispatcher {
	return &Dispatcher{
		registry:     reg,
		pool:         pool,
		orchestrator: orchestrator,
	}
}

// Submit registers the job and enqueues its run. Resubmitting an
// existing job ID overwrites the prior entry; the superseded run's
// registry writes are rejected from that point on. A full queue
// returns ErrQueueFull and leaves the registry untouched, so a
// rejected submission is invisible.
func (d *Dispatcher) Submit(ctx context.Context, jobID string, desc model.Descriptor) error {
	// Reserve queue capacity before touching the registry: creating
	// the entry first would leave a forever-processing job when the
	// enqueue is rejected. The gate holds the worker until the entry
	// and its run token exist.
	gate := make(chan string, 1)
	runCtx := context.WithoutCancel(ctx)

	err := d.pool.Submit(func() {
		runID := <-gate
		d.orchestrator.Run(runCtx, jobID, runID, desc)
	})
	if err != nil {
		slog.Warn("Job submission rejected, queue full", "job_id", jobID)
		return err
	}

	gate <- d.registry.Create(jobID, model.StatusProcessing, startingMessage(desc))
	slog.Info("Job submitted", "job_id", jobID, "queue_length", d.pool.QueueLength())
	return nil
}

func startingMessage(desc model.Descriptor) string {
	if desc.VideoURL != "" {
		return "Starting analysis from URL..."
	}
	return "Starting analysis from local file..."
}
