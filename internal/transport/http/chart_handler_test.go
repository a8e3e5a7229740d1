package http

import (
	"bytes"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"feargreed/internal/config"
	apierrors "feargreed/internal/errors"
	apiv1 "feargreed/pkg/contracts/api/v1"
	"feargreed/pkg/contracts/domain"
)

func TestChartHandler_ListCharts(t *testing.T) {
	env := newTestEnv(t, false)

	rec := env.do(t, http.MethodGet, "/api/charts", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Status string            `json:"status"`
		Data   []apiv1.ChartInfo `json:"data"`
		Count  int               `json:"count"`
	}
	decodeJSON(t, rec, &body)
	assert.Equal(t, "success", body.Status)
	assert.Equal(t, 3, body.Count)
	require.Len(t, body.Data, 3)
	assert.Equal(t, config.ChartStock, body.Data[0].Name)
	require.NotNil(t, body.Data[0].Sentiment)
	assert.Nil(t, body.Data[2].Sentiment, "premium chart has no sentiment line")
}

func TestChartHandler_GetChart(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		wantDates  domain.Domain
		wantSeries []string
		wantPeriod string
	}{
		{
			name:       "defaults",
			target:     "/api/charts/stock",
			wantDates:  domain.Domain{"2024-01-01", "2024-01-02", "2024-01-03", "2024-01-05"},
			wantSeries: []string{"fear_greed", "sp500", "nasdaq"},
			wantPeriod: "all",
		},
		{
			name:       "period window",
			target:     "/api/charts/stock?period=2",
			wantDates:  domain.Domain{"2024-01-03", "2024-01-05"},
			wantSeries: []string{"fear_greed", "sp500", "nasdaq"},
			wantPeriod: "2",
		},
		{
			name:       "empty overlays hides every overlay",
			target:     "/api/charts/stock?overlays=",
			wantDates:  domain.Domain{"2024-01-01", "2024-01-02", "2024-01-03", "2024-01-05"},
			wantSeries: []string{"fear_greed"},
			wantPeriod: "all",
		},
		{
			name:       "explicit overlays narrow the domain",
			target:     "/api/charts/crypto?overlays=btc,sol",
			wantDates:  domain.Domain{"2024-01-01", "2024-01-04"},
			wantSeries: []string{"crypto_fear_greed", "btc", "sol"},
			wantPeriod: "all",
		},
		{
			name:       "repeated overlays parameter",
			target:     "/api/charts/crypto?overlays=btc&overlays=sol",
			wantDates:  domain.Domain{"2024-01-01", "2024-01-04"},
			wantSeries: []string{"crypto_fear_greed", "btc", "sol"},
			wantPeriod: "all",
		},
		{
			name:       "hidden sentiment",
			target:     "/api/charts/stock?sentiment=false",
			wantDates:  domain.Domain{"2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04", "2024-01-05"},
			wantSeries: []string{"sp500", "nasdaq"},
			wantPeriod: "all",
		},
		{
			name:       "gold only premium",
			target:     "/api/charts/premium?overlays=gold_premium",
			wantDates:  domain.Domain{"2024-01-03", "2024-01-04"},
			wantSeries: []string{"gold_premium"},
			wantPeriod: "all",
		},
		{
			name:       "premium chart",
			target:     "/api/charts/premium?period=all",
			wantDates:  domain.Domain{"2024-01-02", "2024-01-03", "2024-01-04"},
			wantSeries: []string{"btc_premium", "gold_premium"},
			wantPeriod: "all",
		},
	}

	env := newTestEnv(t, true)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodGet, tt.target, "")
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

			var resp apiv1.ChartResponse
			decodeJSON(t, rec, &resp)
			assert.Equal(t, tt.wantDates, resp.Dates)
			assert.Equal(t, tt.wantPeriod, resp.Period)

			keys := make([]string, 0, len(resp.Series))
			for _, s := range resp.Series {
				keys = append(keys, s.Key)
				assert.Len(t, s.Values, len(tt.wantDates), s.Key)
			}
			assert.Equal(t, tt.wantSeries, keys)
		})
	}
}

func TestChartHandler_Segments(t *testing.T) {
	env := newTestEnv(t, true)

	rec := env.do(t, http.MethodGet, "/api/charts/stock", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp apiv1.ChartResponse
	decodeJSON(t, rec, &resp)
	require.Len(t, resp.Segments, 4)

	cats := make([]domain.Category, 0, len(resp.Segments))
	for _, s := range resp.Segments {
		cats = append(cats, s.Category)
	}
	assert.Equal(t, []domain.Category{domain.Neutral, domain.Greed, domain.Fear, domain.ExtremeGreed}, cats)
	assert.Equal(t, "2024-01-05", resp.Segments[3].Start)

	rec = env.do(t, http.MethodGet, "/api/charts/stock?sentiment=false", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var hidden apiv1.ChartResponse
	decodeJSON(t, rec, &hidden)
	assert.Empty(t, hidden.Segments)
	require.NotNil(t, hidden.Sentiment)
	assert.False(t, hidden.Sentiment.Enabled)
}

func TestChartHandler_Errors(t *testing.T) {
	tests := []struct {
		name       string
		loaded     bool
		target     string
		wantStatus int
		wantCode   string
		wantType   string
	}{
		{
			name:       "not loaded",
			target:     "/api/charts/stock",
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   "DATA_UNAVAILABLE",
			wantType:   apierrors.TypeDataUnavailable,
		},
		{
			name:       "unknown chart",
			loaded:     true,
			target:     "/api/charts/bonds",
			wantStatus: http.StatusNotFound,
			wantCode:   "NOT_FOUND",
			wantType:   apierrors.TypeNotFound,
		},
		{
			name:       "malformed chart name",
			loaded:     true,
			target:     "/api/charts/bad-name",
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_FAILED",
			wantType:   apierrors.TypeValidation,
		},
		{
			name:       "unknown overlay",
			loaded:     true,
			target:     "/api/charts/stock?overlays=sp500,dow",
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_FAILED",
			wantType:   apierrors.TypeValidation,
		},
		{
			name:       "bad sentiment flag",
			loaded:     true,
			target:     "/api/charts/stock?sentiment=maybe",
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_FAILED",
			wantType:   apierrors.TypeValidation,
		},
		{
			name:       "non numeric period",
			loaded:     true,
			target:     "/api/charts/stock?period=week",
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_FAILED",
			wantType:   apierrors.TypeValidation,
		},
		{
			name:       "zero period",
			loaded:     true,
			target:     "/api/charts/stock?period=0",
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_FAILED",
			wantType:   apierrors.TypeValidation,
		},
		{
			name:       "period too large",
			loaded:     true,
			target:     "/api/charts/stock?period=3651",
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_FAILED",
			wantType:   apierrors.TypeValidation,
		},
		{
			name:       "export before load",
			target:     "/api/charts/crypto/export.xlsx",
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   "DATA_UNAVAILABLE",
			wantType:   apierrors.TypeDataUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, tt.loaded)

			rec := env.do(t, http.MethodGet, tt.target, "")
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())

			problem := decodeProblem(t, rec)
			assert.Equal(t, tt.wantCode, problem["error_code"])
			assert.Equal(t, tt.wantType, problem["type"])
			assert.NotEmpty(t, problem["trace_id"])
		})
	}
}

func TestChartHandler_NotLoadedMessage(t *testing.T) {
	env := newTestEnv(t, false)

	rec := env.do(t, http.MethodGet, "/api/charts/crypto", "")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	problem := decodeProblem(t, rec)
	assert.Equal(t, config.LoadErrorMessage, problem["detail"])
}

func TestChartHandler_ExportChart(t *testing.T) {
	env := newTestEnv(t, true)

	rec := env.do(t, http.MethodGet, "/api/charts/crypto/export.xlsx?period=2", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="crypto-2.xlsx"`, rec.Header().Get("Content-Disposition"))

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Chart")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"date", "암호화폐 Fear & Greed", "Bitcoin"}, rows[0])
	assert.Equal(t, "2024-01-02", rows[1][0])
	assert.Equal(t, "2024-01-04", rows[2][0])
}
