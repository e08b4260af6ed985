package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/posturelab/postura/internal/analyzer"
	"github.com/posturelab/postura/internal/media"
	"github.com/posturelab/postura/internal/model"
	"github.com/posturelab/postura/internal/service"
)

// AnalysisHandler handles job submissions.
type AnalysisHandler struct {
	dispatcher *service.Dispatcher
	acquirer   *media.Acquirer
	analyzer   analyzer.Analyzer
}

// NewAnalysisHandler creates a new analysis handler.
func NewAnalysisHandler(dispatcher *service.Dispatcher, acquirer *media.Acquirer, an analyzer.Analyzer) *AnalysisHandler {
	return &AnalysisHandler{
		dispatcher: dispatcher,
		acquirer:   acquirer,
		analyzer:   an,
	}
}

// AnalyzeRequest is the submit-by-url request body.
type AnalyzeRequest struct {
	JobID       string `json:"job_id"`
	VideoURL    string `json:"video_url"`
	CallbackURL string `json:"callback_url,omitempty"`
}

// AnalyzeFileRequest is the submit-by-path request body.
type AnalyzeFileRequest struct {
	JobID     string `json:"job_id"`
	VideoPath string `json:"video_path"`
}

// SubmitResponse acknowledges an accepted submission.
type SubmitResponse struct {
	Message   string `json:"message"`
	JobID     string `json:"job_id"`
	VideoPath string `json:"video_path,omitempty"`
	StatusURL string `json:"status_url"`
	ResultURL string `json:"result_url"`
}

// Analyze handles POST /analyze
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.JobID == "" || req.VideoURL == "" {
		writeError(w, http.StatusBadRequest, "job_id and video_url are required")
		return
	}

	if !h.analyzer.Available() {
		writeError(w, http.StatusServiceUnavailable, "Posture analyzer not available")
		return
	}

	desc := model.Descriptor{
		VideoURL:    req.VideoURL,
		CallbackURL: req.CallbackURL,
	}
	if err := h.dispatcher.Submit(r.Context(), req.JobID, desc); err != nil {
		if errors.Is(err, model.ErrQueueFull) {
			writeError(w, http.StatusTooManyRequests, "Job queue is full, try again later")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusAccepted, SubmitResponse{
		Message:   "Analysis started successfully",
		JobID:     req.JobID,
		StatusURL: "/status/" + req.JobID,
		ResultURL: "/result/" + req.JobID,
	})
}

// AnalyzeFile handles POST /analyze-file
func (h *AnalysisHandler) AnalyzeFile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req AnalyzeFileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.JobID == "" || req.VideoPath == "" {
		writeError(w, http.StatusBadRequest, "job_id and video_path are required")
		return
	}

	if !h.analyzer.Available() {
		writeError(w, http.StatusServiceUnavailable, "Posture analyzer not available")
		return
	}

	// Resolve synchronously so an unknown path is a 404 to the caller
	// instead of a failed background job.
	acq, err := h.acquirer.ResolveLocal(req.VideoPath)
	if err != nil {
		writeError(w, http.StatusNotFound, "Video file not found: "+req.VideoPath)
		return
	}

	desc := model.Descriptor{VideoPath: acq.Path}
	if err := h.dispatcher.Submit(r.Context(), req.JobID, desc); err != nil {
		if errors.Is(err, model.ErrQueueFull) {
			writeError(w, http.StatusTooManyRequests, "Job queue is full, try again later")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusAccepted, SubmitResponse{
		Message:   "Analysis started successfully",
		JobID:     req.JobID,
		VideoPath: acq.Path,
		StatusURL: "/status/" + req.JobID,
		ResultURL: "/result/" + req.JobID,
	})
}
