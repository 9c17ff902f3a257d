package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"flagquiz/internal/app"
	"flagquiz/internal/domain"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// HealthCheck probes one backing dependency.
type HealthCheck func(ctx context.Context) error

// RESTHandler serves the read-only leaderboard, stats and catalog endpoints.
type RESTHandler struct {
	service *app.QuizService
	logger  *zap.Logger
	checks  map[string]HealthCheck
}

func NewRESTHandler(service *app.QuizService, logger *zap.Logger, checks map[string]HealthCheck) *RESTHandler {
	return &RESTHandler{service: service, logger: logger, checks: checks}
}

// Health handles GET /healthz.
func (h *RESTHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	failed := make(map[string]string)
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			failed[name] = err.Error()
		}
	}
	if len(failed) > 0 {
		h.logger.Warn("health check failed", zap.Any("checks", failed))
		writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{"status": "degraded", "checks": failed})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Leaderboard handles GET /v1/leaderboard?limit=&difficulty=
func (h *RESTHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, errorPayload{Code: "bad_request", Message: "limit must be an integer"})
			return
		}
		limit = n
	}
	difficulty := domain.Difficulty(r.URL.Query().Get("difficulty"))

	records, err := h.service.Leaderboard(r.Context(), limit, difficulty)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"records": records})
}

// Stats handles GET /v1/stats
func (h *RESTHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// Catalog handles GET /v1/catalog/{difficulty}
func (h *RESTHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	difficulty := domain.Difficulty(mux.Vars(r)["difficulty"])
	entries, err := h.service.Catalog(difficulty)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"difficulty": difficulty, "countries": entries})
}

// Country handles GET /v1/countries/{symbol}
func (h *RESTHandler) Country(w http.ResponseWriter, r *http.Request) {
	entry, err := h.service.Country(mux.Vars(r)["symbol"])
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (h *RESTHandler) fail(w http.ResponseWriter, err error) {
	status, payload := classify(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", zap.Error(err))
	}
	writeError(w, status, payload)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, payload errorPayload) {
	writeJSON(w, status, map[string]errorPayload{"error": payload})
}
