package worker

import (
	"log/slog"
	"sync"

	"github.com/posturelab/postura/internal/model"
)

// Task is one unit of background work.
type Task func()

// Pool runs tasks on a fixed number of worker goroutines behind a
// bounded queue. A full queue rejects the submission instead of
// blocking the caller, which is the backpressure signal the API
// surface turns into 429.
type Pool struct {
	workers int
	tasks   chan Task
	wg      sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// NewPool creates a pool with the given worker count and queue depth.
func NewPool(workers, queueSize int) *Pool {
	if workers < 1 {
		workers = 1
	}
	return &Pool{
		workers: workers,
		tasks:   make(chan Task, queueSize),
	}
}

// Start launches the workers.
func (p *Pool) Start() {
	slog.Info("Starting worker pool", "workers", p.workers, "queue_size", cap(p.tasks))

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

// Stop rejects further submissions and waits for queued and in-flight
// tasks to drain.
func (p *Pool) Stop() {
	slog.Info("Stopping worker pool")

	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.tasks)
	}
	p.mu.Unlock()

	p.wg.Wait()
	slog.Info("Worker pool stopped")
}

// Submit enqueues a task without blocking. Returns ErrQueueFull when
// the queue has no capacity, or when the pool is stopped.
func (p *Pool) Submit(task Task) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return model.ErrQueueFull
	}

	select {
	case p.tasks <- task:
		return nil
	default:
		return model.ErrQueueFull
	}
}

// QueueLength returns the number of tasks waiting for a worker.
func (p *Pool) QueueLength() int {
	return len(p.tasks)
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()

	slog.Debug("Worker started", "worker_id", id)
	for task := range p.tasks {
		task()
	}
	slog.Debug("Worker stopped", "worker_id", id)
}
