package handler

import (
	"net/http"
	"os"
	"time"

	"github.com/posturelab/postura/internal/analyzer"
	"github.com/posturelab/postura/internal/registry"
)

// HealthHandler serves the service info and health endpoints.
type HealthHandler struct {
	analyzer  analyzer.Analyzer
	registry  *registry.Registry
	tempDir   string
	uploadDir string
	version   string
	startTime time.Time
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(an analyzer.Analyzer, reg *registry.Registry, tempDir, uploadDir, version string) *HealthHandler {
	return &HealthHandler{
		analyzer:  an,
		registry:  reg,
		tempDir:   tempDir,
		uploadDir: uploadDir,
		version:   version,
		startTime: time.Now(),
	}
}

// InfoResponse describes the service and its endpoints.
type InfoResponse struct {
	Service           string            `json:"service"`
	Status            string            `json:"status"`
	Version           string            `json:"version"`
	AnalyzerAvailable bool              `json:"analyzer_available"`
	Endpoints         map[string]string `json:"endpoints"`
}

// HealthResponse is the health check shape.
type HealthResponse struct {
	Status        string         `json:"status"`
	Checks        map[string]any `json:"checks"`
	UptimeSeconds int64          `json:"uptime_seconds"`
	Timestamp     string         `json:"timestamp"`
}

// Root handles GET /
func (h *HealthHandler) Root(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeError(w, http.StatusNotFound, "Endpoint not found")
		return
	}

	writeJSON(w, http.StatusOK, InfoResponse{
		Service:           "Posture Analysis Service",
		Status:            "running",
		Version:           h.version,
		AnalyzerAvailable: h.analyzer.Available(),
		Endpoints: map[string]string{
			"health":       "/health",
			"analyze_url":  "/analyze",
			"analyze_file": "/analyze-file",
			"upload":       "/upload",
			"status":       "/status/{job_id}",
			"result":       "/result/{job_id}",
			"analyses":     "/analyses",
			"uploads":      "/uploads",
		},
	})
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	checks := map[string]any{
		"service":            "healthy",
		"analyzer_available": h.analyzer.Available(),
		"temp_dir":           dirExists(h.tempDir),
		"upload_dir":         dirExists(h.uploadDir),
		"active_analyses":    h.registry.Count(),
	}

	status := "healthy"
	if !checks["temp_dir"].(bool) || !checks["upload_dir"].(bool) || !checks["analyzer_available"].(bool) {
		status = "warning"
	}

	writeJSON(w, http.StatusOK, HealthResponse{
		Status:        status,
		Checks:        checks,
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
	})
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
