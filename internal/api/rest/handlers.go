package rest

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Generator renders a report for a JQL query
type Generator interface {
	Generate(ctx context.Context, jql string) (string, error)
}

// Handler handles REST API requests
type Handler struct {
	generator  Generator
	defaultJQL string
	logger     *zap.Logger
}

// NewHandler creates a new REST handler. defaultJQL is used when a request
// does not carry its own query.
func NewHandler(generator Generator, defaultJQL string, logger *zap.Logger) *Handler {
	return &Handler{
		generator:  generator,
		defaultJQL: defaultJQL,
		logger:     logger,
	}
}

// GetReport handles GET /report
func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	jql := r.URL.Query().Get("jql")
	if jql == "" {
		jql = h.defaultJQL
	}
	if jql == "" {
		http.Error(w, "no jql configured or provided", http.StatusBadRequest)
		return
	}

	content, err := h.generator.Generate(r.Context(), jql)
	if err != nil {
		h.logger.Error("failed to generate report", zap.Error(err))
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(content))
}

// RegisterRoutes registers REST API routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/report", h.GetReport)
}

// NewRouter builds the router served by the serve command
func NewRouter(h *Handler) chi.Router {
	router := chi.NewRouter()
	router.Route("/api/v1", func(r chi.Router) {
		h.RegisterRoutes(r)
	})
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return router
}
