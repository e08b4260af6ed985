package handler

import (
	"net/http"

	"github.com/posturelab/postura/pkg/middleware"
)

// Router handles HTTP routing
type Router struct {
	analysisHandler *AnalysisHandler
	jobHandler      *JobHandler
	uploadHandler   *UploadHandler
	healthHandler   *HealthHandler
	corsConfig      middleware.CORSConfig
}

// NewRouter creates a new router
func NewRouter(
	analysisHandler *AnalysisHandler,
	jobHandler *JobHandler,
	uploadHandler *UploadHandler,
	healthHandler *HealthHandler,
	corsConfig middleware.CORSConfig,
) *Router {
	return &Router{
		analysisHandler: analysisHandler,
		jobHandler:      jobHandler,
		uploadHandler:   uploadHandler,
		healthHandler:   healthHandler,
		corsConfig:      corsConfig,
	}
}

// Handler returns the configured HTTP handler with middleware
func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/", rt.healthHandler.Root)
	mux.HandleFunc("/health", rt.healthHandler.Health)

	mux.HandleFunc("/analyze", rt.analysisHandler.Analyze)
	mux.HandleFunc("/analyze-file", rt.analysisHandler.AnalyzeFile)

	mux.HandleFunc("/upload", rt.uploadHandler.Upload)
	mux.HandleFunc("/uploads", rt.uploadHandler.ListUploads)

	mux.HandleFunc("/status/", rt.jobHandler.Status)
	mux.HandleFunc("/result/", rt.jobHandler.Result)
	mux.HandleFunc("/analyses", rt.jobHandler.List)
	mux.HandleFunc("/analysis/", rt.jobHandler.Delete)

	// Apply middleware (CORS first to handle preflight requests)
	handler := middleware.CORS(rt.corsConfig)(mux)
	handler = middleware.Recovery(handler)
	handler = middleware.Logging(handler)
	handler = middleware.CorrelationID(handler)

	return handler
}
