package janitor_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/posturelab/postura/internal/janitor"
)

func TestNewRejectsBadSchedule(t *testing.T) {
	t.Parallel()

	_, err := janitor.New(t.TempDir(), "not a schedule", time.Hour)
	require.Error(t, err)
}

func TestSweepRemovesStaleFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	stale := filepath.Join(dir, "video_old_abc123.mp4")
	fresh := filepath.Join(dir, "video_new_def456.mp4")
	require.NoError(t, os.WriteFile(stale, []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(fresh, []byte("x"), 0o644))

	old := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(stale, old, old))

	j, err := janitor.New(dir, "0 * * * *", time.Hour)
	require.NoError(t, err)
	j.Sweep()

	require.NoFileExists(t, stale)
	require.FileExists(t, fresh)
}

func TestSweepSkipsDirectories(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	sub := filepath.Join(dir, "subdir")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	old := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(sub, old, old))

	j, err := janitor.New(dir, "0 * * * *", time.Hour)
	require.NoError(t, err)
	j.Sweep()

	require.DirExists(t, sub)
}

func TestSweepMissingDirectoryIsNoop(t *testing.T) {
	t.Parallel()

	j, err := janitor.New(filepath.Join(t.TempDir(), "gone"), "0 * * * *", time.Hour)
	require.NoError(t, err)
	j.Sweep()
}
