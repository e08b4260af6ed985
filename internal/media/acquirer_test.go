package media_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/posturelab/postura/internal/media"
	"github.com/posturelab/postura/internal/model"
)

func newTestAcquirer(t *testing.T) (*media.Acquirer, string, string) {
	t.Helper()
	workDir := t.TempDir()
	chdir(t, workDir)

	tempDir := filepath.Join(workDir, "temp")
	uploadDir := filepath.Join(workDir, "uploads")
	require.NoError(t, os.MkdirAll(tempDir, 0o755))
	require.NoError(t, os.MkdirAll(uploadDir, 0o755))

	return media.NewAcquirer(tempDir, uploadDir, 5*time.Second), tempDir, uploadDir
}

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("fake video bytes"), 0o644))
}

func TestResolveLocalAbsolutePath(t *testing.T) {
	acquirer, tempDir, _ := newTestAcquirer(t)

	video := filepath.Join(tempDir, "talk.mp4")
	writeFile(t, video)

	acq, err := acquirer.ResolveLocal(video)
	require.NoError(t, err)
	require.Equal(t, video, acq.Path)
	require.False(t, acq.Transient)
}

func TestResolveLocalAbsoluteMissing(t *testing.T) {
	acquirer, _, _ := newTestAcquirer(t)

	_, err := acquirer.ResolveLocal(filepath.Join(t.TempDir(), "missing.mp4"))
	require.ErrorIs(t, err, model.ErrInputNotFound)
}

func TestResolveLocalRelativeInWorkingDirectory(t *testing.T) {
	acquirer, _, _ := newTestAcquirer(t)

	writeFile(t, "talk.mp4")

	acq, err := acquirer.ResolveLocal("talk.mp4")
	require.NoError(t, err)
	require.Equal(t, "talk.mp4", acq.Path)
	require.False(t, acq.Transient)
}

func TestResolveLocalRelativeInUploadDirectory(t *testing.T) {
	acquirer, _, uploadDir := newTestAcquirer(t)

	writeFile(t, filepath.Join(uploadDir, "talk.mp4"))

	acq, err := acquirer.ResolveLocal("talk.mp4")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(uploadDir, "talk.mp4"), acq.Path)
}

func TestResolveLocalExhaustsAllRoots(t *testing.T) {
	acquirer, _, _ := newTestAcquirer(t)

	_, err := acquirer.ResolveLocal("nowhere.mp4")
	require.ErrorIs(t, err, model.ErrInputNotFound)
	require.Contains(t, err.Error(), "not found")
}

func TestDownloadSuccess(t *testing.T) {
	acquirer, tempDir, _ := newTestAcquirer(t)

	body := []byte("webm video payload")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "video/webm")
		w.Write(body)
	}))
	defer server.Close()

	acq, err := acquirer.Download(context.Background(), server.URL, "job-1")
	require.NoError(t, err)
	require.True(t, acq.Transient)
	require.Equal(t, ".webm", filepath.Ext(acq.Path))
	require.Equal(t, tempDir, filepath.Dir(acq.Path))
	require.Contains(t, filepath.Base(acq.Path), "video_job-1_")

	content, err := os.ReadFile(acq.Path)
	require.NoError(t, err)
	require.Equal(t, body, content)

	acq.Cleanup()
	require.NoFileExists(t, acq.Path)
}

func TestDownloadDefaultsToMP4(t *testing.T) {
	acquirer, _, _ := newTestAcquirer(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Write([]byte("data"))
	}))
	defer server.Close()

	acq, err := acquirer.Download(context.Background(), server.URL, "job-1")
	require.NoError(t, err)
	require.Equal(t, ".mp4", filepath.Ext(acq.Path))
	acq.Cleanup()
}

func TestDownloadSanitizesJobID(t *testing.T) {
	acquirer, _, _ := newTestAcquirer(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("data"))
	}))
	defer server.Close()

	acq, err := acquirer.Download(context.Background(), server.URL, "../evil job/#1")
	require.NoError(t, err)
	require.Contains(t, filepath.Base(acq.Path), "video_eviljob1_")
	acq.Cleanup()
}

func TestDownloadUpstreamFailureLeavesNoFile(t *testing.T) {
	acquirer, tempDir, _ := newTestAcquirer(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	_, err := acquirer.Download(context.Background(), server.URL, "job-1")
	require.Error(t, err)

	var dlErr *model.DownloadError
	require.ErrorAs(t, err, &dlErr)
	require.Equal(t, http.StatusNotFound, dlErr.StatusCode)

	entries, readErr := os.ReadDir(tempDir)
	require.NoError(t, readErr)
	require.Empty(t, entries)
}

func TestDownloadConnectionFailure(t *testing.T) {
	acquirer, tempDir, _ := newTestAcquirer(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	_, err := acquirer.Download(context.Background(), server.URL, "job-1")
	var dlErr *model.DownloadError
	require.ErrorAs(t, err, &dlErr)
	require.Zero(t, dlErr.StatusCode)

	entries, readErr := os.ReadDir(tempDir)
	require.NoError(t, readErr)
	require.Empty(t, entries)
}

func TestCleanupNonTransientIsNoOp(t *testing.T) {
	_, tempDir, _ := newTestAcquirer(t)

	video := filepath.Join(tempDir, "keep.mp4")
	writeFile(t, video)

	acq := media.Acquisition{Path: video, Transient: false}
	acq.Cleanup()
	require.FileExists(t, video)
}
