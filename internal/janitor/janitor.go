package janitor

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
)

// Janitor periodically deletes stale files from the temp directory.
// Downloads are normally removed by the run that created them; files
// orphaned by crashes or failed deletes accumulate otherwise. The
// upload directory is caller-owned and never touched.
type Janitor struct {
	tempDir string
	maxAge  time.Duration
	cron    *cron.Cron
}

// New creates a janitor sweeping tempDir on the given cron schedule.
func New(tempDir string, schedule string, maxAge time.Duration) (*Janitor, error) {
	j := &Janitor{
		tempDir: tempDir,
		maxAge:  maxAge,
		cron:    cron.New(),
	}

	if _, err := j.cron.AddFunc(schedule, j.Sweep); err != nil {
		return nil, err
	}
	return j, nil
}

// Start begins the sweep schedule.
func (j *Janitor) Start() {
	slog.Info("Starting temp janitor", "temp_dir", j.tempDir, "max_age", j.maxAge)
	j.cron.Start()
}

// Stop halts the schedule and waits for a running sweep to finish.
func (j *Janitor) Stop() {
	ctx := j.cron.Stop()
	<-ctx.Done()
	slog.Info("Temp janitor stopped")
}

// Sweep deletes temp files older than the configured age. Errors are
// logged and skipped; a sweep never fails.
func (j *Janitor) Sweep() {
	cutoff := time.Now().Add(-j.maxAge)

	entries, err := os.ReadDir(j.tempDir)
	if err != nil {
		slog.Warn("Janitor could not read temp directory", "temp_dir", j.tempDir, "error", err)
		return
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}

		path := filepath.Join(j.tempDir, entry.Name())
		if err := os.Remove(path); err != nil {
			slog.Warn("Janitor failed to remove stale file", "path", path, "error", err)
			continue
		}
		removed++
	}

	if removed > 0 {
		slog.Info("Janitor sweep removed stale temp files", "count", removed)
	}
}
