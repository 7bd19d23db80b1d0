package dashboard

import (
	"log/slog"
	"net/http"

	"academy-service/internal/httputil"
	"academy-service/internal/metrics"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	repo    Repository
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewHandler(repo Repository, logger *slog.Logger, metrics *metrics.Metrics) *Handler {
	return &Handler{
		repo:    repo,
		logger:  logger,
		metrics: metrics,
	}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/dashboard/stats", h.GetStats)
}

func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	h.logger.InfoContext(r.Context(), "fetching dashboard stats")

	stats, err := h.repo.Stats(r.Context())
	if err != nil {
		h.logger.Error("failed to compute dashboard stats", "error", err)
		httputil.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.metrics.RecordDashboardView(r.Context())

	httputil.RespondWithJSON(w, http.StatusOK, stats)
}
