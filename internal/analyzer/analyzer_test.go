package analyzer_test

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/posturelab/postura/internal/analyzer"
	"github.com/posturelab/postura/internal/model"
)

// writeScript materializes a shell script acting as a fake analyzer
// command.
func writeScript(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script fixtures require a POSIX shell")
	}

	path := filepath.Join(t.TempDir(), "fake-analyzer.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	return path
}

func TestCommandAnalyzerAvailable(t *testing.T) {
	script := writeScript(t, "exit 0")

	require.True(t, analyzer.NewCommandAnalyzer(script, 0).Available())
	require.False(t, analyzer.NewCommandAnalyzer("definitely-not-a-real-binary", 0).Available())
}

func TestCommandAnalyzerParsesOutput(t *testing.T) {
	script := writeScript(t, `cat <<'EOF'
{
  "summary": {"total_bad_postures": 1, "total_duration_seconds": 3.0},
  "detected_actions": {
    "slouching": {
      "action_name": "slouching",
      "periods": [{"start_frame": 1, "end_frame": 90, "duration_frames": 90, "duration_seconds": 3.0}],
      "summary": {"total_duration_seconds": 3.0, "occurrence_count": 1}
    }
  }
}
EOF`)

	raw, err := analyzer.NewCommandAnalyzer(script, time.Minute).Analyze(context.Background(), "video.mp4")
	require.NoError(t, err)
	require.NotNil(t, raw.Summary)
	require.Equal(t, 1, raw.Summary.TotalBadPostures)
	require.Contains(t, raw.DetectedActions, "slouching")
	require.Equal(t, 1, raw.DetectedActions["slouching"].Summary.OccurrenceCount)
}

func TestCommandAnalyzerCommandFailure(t *testing.T) {
	script := writeScript(t, `echo "model load failed" >&2; exit 3`)

	_, err := analyzer.NewCommandAnalyzer(script, time.Minute).Analyze(context.Background(), "video.mp4")
	require.ErrorIs(t, err, model.ErrAnalysisFailed)
	require.Contains(t, err.Error(), "model load failed")
}

func TestCommandAnalyzerInvalidJSON(t *testing.T) {
	script := writeScript(t, `echo "this is not json"`)

	_, err := analyzer.NewCommandAnalyzer(script, time.Minute).Analyze(context.Background(), "video.mp4")
	require.ErrorIs(t, err, model.ErrAnalysisFailed)
	require.Contains(t, err.Error(), "invalid analyzer output")
}

func TestCommandAnalyzerTimeout(t *testing.T) {
	script := writeScript(t, "sleep 10")

	start := time.Now()
	_, err := analyzer.NewCommandAnalyzer(script, 100*time.Millisecond).Analyze(context.Background(), "video.mp4")
	require.ErrorIs(t, err, model.ErrAnalysisFailed)
	require.Contains(t, err.Error(), "timed out")
	require.Less(t, time.Since(start), 5*time.Second)
}
