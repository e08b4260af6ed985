package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os/exec"
	"time"

	"github.com/posturelab/postura/internal/model"
)

// Analyzer is the external pose-estimation collaborator. The service
// treats it as opaque: a video path goes in, a raw nested result
// comes out.
type Analyzer interface {
	// Available reports whether the analyzer can be invoked at all.
	Available() bool
	// Analyze runs the model against a local video file.
	Analyze(ctx context.Context, videoPath string) (*model.RawAnalysis, error)
}

// CommandAnalyzer invokes the analyzer as an external command that
// receives the video path as its single argument and prints the raw
// analysis JSON on stdout.
type CommandAnalyzer struct {
	command string
	timeout time.Duration
}

// NewCommandAnalyzer creates an analyzer around the given command.
// timeout bounds a single invocation; zero means unlimited.
func NewCommandAnalyzer(command string, timeout time.Duration) *CommandAnalyzer {
	return &CommandAnalyzer{
		command: command,
		timeout: timeout,
	}
}

// Available checks that the analyzer command resolves on PATH.
func (a *CommandAnalyzer) Available() bool {
	_, err := exec.LookPath(a.command)
	return err == nil
}

// Analyze runs the analyzer command and decodes its stdout. Any
// failure, including a timeout, wraps ErrAnalysisFailed.
func (a *CommandAnalyzer) Analyze(ctx context.Context, videoPath string) (*model.RawAnalysis, error) {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	start := time.Now()
	slog.Info("Invoking posture analyzer",
		"command", a.command,
		"video_path", videoPath,
	)

	cmd := exec.CommandContext(ctx, a.command, videoPath)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%w: analyzer timed out after %s: %w",
				model.ErrAnalysisFailed, time.Since(start).Round(time.Second), ctxErr)
		}
		return nil, fmt.Errorf("%w: %v: %s", model.ErrAnalysisFailed, err, firstLine(stderr.String()))
	}

	var raw model.RawAnalysis
	if err := json.Unmarshal(stdout.Bytes(), &raw); err != nil {
		return nil, fmt.Errorf("%w: invalid analyzer output: %v", model.ErrAnalysisFailed, err)
	}

	slog.Info("Posture analyzer finished",
		"video_path", videoPath,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return &raw, nil
}

func firstLine(s string) string {
	for i, c := range s {
		if c == '\n' {
			return s[:i]
		}
	}
	return s
}
