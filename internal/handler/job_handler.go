package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/posturelab/postura/internal/model"
	"github.com/posturelab/postura/internal/registry"
)

// JobHandler serves job status, results, listing and deletion. It only
// ever reads snapshots from the registry.
type JobHandler struct {
	registry *registry.Registry
}

// NewJobHandler creates a new job handler.
func NewJobHandler(reg *registry.Registry) *JobHandler {
	return &JobHandler{registry: reg}
}

// ListResponse is the job listing shape.
type ListResponse struct {
	Analyses []model.JobSummary `json:"analyses"`
	Count    int                `json:"count"`
}

// Status handles GET /status/{job_id}
func (h *JobHandler) Status(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	jobID := strings.TrimPrefix(r.URL.Path, "/status/")
	job, err := h.registry.Get(jobID)
	if err != nil {
		writeError(w, http.StatusNotFound, "Analysis not found")
		return
	}

	writeJSON(w, http.StatusOK, job)
}

// Result handles GET /result/{job_id}
func (h *JobHandler) Result(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	jobID := strings.TrimPrefix(r.URL.Path, "/result/")
	job, err := h.registry.Get(jobID)
	if err != nil {
		writeError(w, http.StatusNotFound, "Analysis not found")
		return
	}

	if job.Status != model.StatusCompleted || job.Result == nil {
		writeError(w, http.StatusBadRequest, model.ErrNotCompleted.Error())
		return
	}

	writeJSON(w, http.StatusOK, job.Result)
}

// List handles GET /analyses
func (h *JobHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	summaries := h.registry.List()
	writeJSON(w, http.StatusOK, ListResponse{
		Analyses: summaries,
		Count:    len(summaries),
	})
}

// Delete handles DELETE /analysis/{job_id}
func (h *JobHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	jobID := strings.TrimPrefix(r.URL.Path, "/analysis/")
	if err := h.registry.Delete(jobID); err != nil {
		if errors.Is(err, model.ErrJobNotFound) {
			writeError(w, http.StatusNotFound, "Analysis not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Analysis deleted successfully",
	})
}
