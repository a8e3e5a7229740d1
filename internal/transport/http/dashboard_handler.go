package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"feargreed/internal/config"
	apierrors "feargreed/internal/errors"
	mw "feargreed/internal/middleware"
	apiv1 "feargreed/pkg/contracts/api/v1"
)

// DashboardHandler serves the metric cards and the reload action.
type DashboardHandler struct {
	service      DashboardServiceInterface
	validator    *mw.Validator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(service DashboardServiceInterface, validator *mw.Validator, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DashboardHandler {
	return &DashboardHandler{
		service:      service,
		validator:    validator,
		logger:       logger.With(slog.String("component", "dashboard_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the dashboard routes
func (h *DashboardHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/metrics", h.GetMetrics)
	r.Post("/reload", h.Reload)

	return r
}

// GetMetrics handles GET /api/dashboard/metrics
func (h *DashboardHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	query := apiv1.MetricsQuery{Chart: r.URL.Query().Get("chart")}
	if err := h.validator.ValidateStruct(query); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	cards, err := h.service.Metrics(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, serviceError(err, query.Chart))
		return
	}

	if query.Chart != "" {
		filtered := cards[:0:0]
		for _, c := range cards {
			if c.Chart == query.Chart {
				filtered = append(filtered, c)
			}
		}
		cards = filtered
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   cards,
		"count":  len(cards),
	})
}

// Reload handles POST /api/dashboard/reload. Any source failure leaves the
// previous data in place and is reported as a 502.
func (h *DashboardHandler) Reload(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	result, err := h.service.Load(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "reload failed",
			slog.String("request_id", reqID),
			slog.String("error", err.Error()))

		if r.Context().Err() != nil {
			h.errorHandler.HandleError(w, r, r.Context().Err())
			return
		}
		h.errorHandler.HandleError(w, r, apierrors.SourceLoadError(config.LoadErrorMessage, err))
		return
	}

	h.logger.InfoContext(r.Context(), "dashboard reloaded",
		slog.String("request_id", reqID),
		slog.Duration("duration", result.Duration))

	render.JSON(w, r, apiv1.ReloadResponse{
		LoadedAt: result.LoadedAt,
		Sources:  result.Sources,
		Duration: result.Duration.String(),
	})
}
