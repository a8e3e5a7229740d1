package http

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "feargreed/internal/errors"
	"feargreed/internal/exporter"
	mw "feargreed/internal/middleware"
	"feargreed/internal/services"
	apiv1 "feargreed/pkg/contracts/api/v1"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type chartQueryKey struct{}

// ChartHandler serves chart definitions, chart payloads and chart exports.
type ChartHandler struct {
	service      DashboardServiceInterface
	validator    *mw.Validator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewChartHandler creates a new chart handler
func NewChartHandler(service DashboardServiceInterface, validator *mw.Validator, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ChartHandler {
	return &ChartHandler{
		service:      service,
		validator:    validator,
		logger:       logger.With(slog.String("component", "chart_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the chart routes
func (h *ChartHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.With(render.SetContentType(render.ContentTypeJSON)).Get("/", h.ListCharts)

	r.Route("/{chart}", func(r chi.Router) {
		r.Use(h.ChartCtx)
		r.With(render.SetContentType(render.ContentTypeJSON)).Get("/", h.GetChart)
		r.Get("/export.xlsx", h.ExportChart)
	})

	return r
}

// ChartCtx parses and validates the chart query and stores it in the
// request context.
func (h *ChartHandler) ChartCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := parseChartQuery(r)
		if err := h.validator.ValidateStruct(query); err != nil {
			h.errorHandler.HandleError(w, r, err)
			return
		}
		ctx := context.WithValue(r.Context(), chartQueryKey{}, query)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// parseChartQuery reads the chart URL parameter plus the period, overlays
// and sentiment query values. overlays= with an empty value is kept as an explicit empty
// selection.
func parseChartQuery(r *http.Request) apiv1.ChartQuery {
	values := r.URL.Query()
	query := apiv1.ChartQuery{
		Chart:     chi.URLParam(r, "chart"),
		Period:    strings.TrimSpace(values.Get("period")),
		Sentiment: strings.ToLower(strings.TrimSpace(values.Get("sentiment"))),
	}
	if raw, ok := values["overlays"]; ok {
		query.OverlaysSet = true
		query.Overlays = []string{}
		for _, v := range raw {
			for _, key := range strings.Split(v, ",") {
				if key = strings.TrimSpace(key); key != "" {
					query.Overlays = append(query.Overlays, key)
				}
			}
		}
	}
	return query
}

func chartQueryFrom(ctx context.Context) apiv1.ChartQuery {
	q, _ := ctx.Value(chartQueryKey{}).(apiv1.ChartQuery)
	return q
}

// ListCharts handles GET /api/charts
func (h *ChartHandler) ListCharts(w http.ResponseWriter, r *http.Request) {
	charts := h.service.Charts()
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   charts,
		"count":  len(charts),
	})
}

// GetChart handles GET /api/charts/{chart}
func (h *ChartHandler) GetChart(w http.ResponseWriter, r *http.Request) {
	resp, err := h.render(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, resp)
}

// ExportChart handles GET /api/charts/{chart}/export.xlsx
func (h *ChartHandler) ExportChart(w http.ResponseWriter, r *http.Request) {
	resp, err := h.render(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := exporter.WriteChartXLSX(&buf, resp); err != nil {
		h.logger.ErrorContext(r.Context(), "xlsx export failed",
			slog.String("chart", resp.Chart),
			slog.String("error", err.Error()))
		h.errorHandler.HandleError(w, r, apierrors.NewInternalError("failed to build workbook"))
		return
	}

	filename := fmt.Sprintf("%s-%s.xlsx", resp.Chart, resp.Period)
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.WarnContext(r.Context(), "xlsx write interrupted",
			slog.String("chart", resp.Chart),
			slog.String("error", err.Error()))
	}
}

func (h *ChartHandler) render(r *http.Request) (*apiv1.ChartResponse, error) {
	query := chartQueryFrom(r.Context())
	resp, err := h.service.Chart(r.Context(), services.ChartRequest{
		Chart:         query.Chart,
		Period:        query.Period,
		Overlays:      query.Overlays,
		OverlaysSet:   query.OverlaysSet,
		HideSentiment: query.Sentiment == "false",
	})
	if err != nil {
		return nil, serviceError(err, query.Chart)
	}
	return resp, nil
}
