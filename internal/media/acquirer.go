package media

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/posturelab/postura/internal/model"
)

// Acquisition is the outcome of resolving a job's input: a local path
// the analyzer can read, and whether the orchestrator owns deleting it.
type Acquisition struct {
	Path      string
	Transient bool
}

// Cleanup deletes a transient path. Failures are logged, never
// escalated: a leftover temp file must not turn a finished analysis
// into a failed job.
func (a Acquisition) Cleanup() {
	if !a.Transient {
		return
	}
	if err := os.Remove(a.Path); err != nil {
		slog.Warn("Failed to delete temporary video file",
			"path", a.Path,
			"error", err,
		)
		return
	}
	slog.Info("Cleaned up temporary video file", "path", a.Path)
}

// Acquirer resolves acquisition descriptors into concrete local files,
// downloading remote URLs into the temp directory when needed.
type Acquirer struct {
	tempDir    string
	uploadDir  string
	workDir    string
	httpClient *http.Client
}

// NewAcquirer creates an acquirer. downloadTimeout bounds the whole
// remote GET including the body transfer.
func NewAcquirer(tempDir, uploadDir string, downloadTimeout time.Duration) *Acquirer {
	workDir, err := os.Getwd()
	if err != nil {
		workDir = "."
	}

	return &Acquirer{
		tempDir:   tempDir,
		uploadDir: uploadDir,
		workDir:   workDir,
		httpClient: &http.Client{
			Timeout: downloadTimeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// ResolveLocal maps a caller-supplied path to an existing file.
// Absolute paths are taken as-is. Relative paths are tried verbatim,
// then under the upload directory, then under the working directory;
// the first existing match wins. The result is never transient.
func (a *Acquirer) ResolveLocal(videoPath string) (Acquisition, error) {
	if filepath.IsAbs(videoPath) {
		if fileExists(videoPath) {
			return Acquisition{Path: videoPath}, nil
		}
		return Acquisition{}, fmt.Errorf("%w: %s", model.ErrInputNotFound, videoPath)
	}

	candidates := []string{
		videoPath,
		filepath.Join(a.uploadDir, videoPath),
		filepath.Join(a.workDir, videoPath),
	}
	for _, candidate := range candidates {
		if fileExists(candidate) {
			return Acquisition{Path: candidate}, nil
		}
	}
	return Acquisition{}, fmt.Errorf("%w: %s", model.ErrInputNotFound, videoPath)
}

// Download fetches videoURL into a fresh temp file and returns it as a
// transient acquisition. The file extension is chosen from the
// response Content-Type against a small set of known video containers;
// this is a best-effort heuristic, not content sniffing, and falls
// back to .mp4.
func (a *Acquirer) Download(ctx context.Context, videoURL, jobID string) (Acquisition, error) {
	slog.Info("Downloading video", "url", videoURL, "job_id", jobID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, videoURL, nil)
	if err != nil {
		return Acquisition{}, &model.DownloadError{URL: videoURL, Err: err}
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return Acquisition{}, &model.DownloadError{URL: videoURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Acquisition{}, &model.DownloadError{
			URL:        videoURL,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
		}
	}

	suffix := extensionFor(resp.Header.Get("Content-Type"))
	filename := fmt.Sprintf("video_%s_%s%s", sanitizeJobID(jobID), uuid.New().String()[:8], suffix)
	tempPath := filepath.Join(a.tempDir, filename)

	out, err := os.Create(tempPath)
	if err != nil {
		return Acquisition{}, &model.DownloadError{URL: videoURL, Err: err}
	}

	written, err := io.Copy(out, resp.Body)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		// Do not leave a partial file behind.
		if rmErr := os.Remove(tempPath); rmErr != nil {
			slog.Warn("Failed to remove partial download", "path", tempPath, "error", rmErr)
		}
		return Acquisition{}, &model.DownloadError{URL: videoURL, Err: err}
	}

	slog.Info("Video downloaded",
		"job_id", jobID,
		"path", tempPath,
		"bytes", written,
	)
	return Acquisition{Path: tempPath, Transient: true}, nil
}

// extensionFor picks a container extension from a declared content type.
func extensionFor(contentType string) string {
	switch {
	case strings.Contains(contentType, "webm"):
		return ".webm"
	case strings.Contains(contentType, "avi"):
		return ".avi"
	case strings.Contains(contentType, "mov"):
		return ".mov"
	default:
		return ".mp4"
	}
}

// sanitizeJobID keeps only characters safe for filenames.
func sanitizeJobID(jobID string) string {
	var b strings.Builder
	for _, c := range jobID {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_':
			b.WriteRune(c)
		}
	}
	return b.String()
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
