package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "feargreed/internal/errors"
	"feargreed/internal/shared/testutil"
	apiv1 "feargreed/pkg/contracts/api/v1"
)

func TestValidator_ChartQuery(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	v := NewValidator(logger)

	tests := []struct {
		name       string
		query      apiv1.ChartQuery
		wantFields []string
	}{
		{"defaults", apiv1.ChartQuery{Chart: "stock"}, nil},
		{"all period", apiv1.ChartQuery{Chart: "stock", Period: "all"}, nil},
		{"day period", apiv1.ChartQuery{Chart: "crypto", Period: "365", Overlays: []string{"btc", "eth"}}, nil},
		{"max period", apiv1.ChartQuery{Chart: "crypto", Period: "3650"}, nil},
		{"missing chart", apiv1.ChartQuery{}, []string{"chart"}},
		{"bad chart", apiv1.ChartQuery{Chart: "../etc"}, []string{"chart"}},
		{"zero period", apiv1.ChartQuery{Chart: "stock", Period: "0"}, []string{"period"}},
		{"period too long", apiv1.ChartQuery{Chart: "stock", Period: "3651"}, []string{"period"}},
		{"word period", apiv1.ChartQuery{Chart: "stock", Period: "week"}, []string{"period"}},
		{"bad overlay", apiv1.ChartQuery{Chart: "stock", Overlays: []string{"sp500", "s&p"}}, []string{"overlays[1]"}},
		{"several", apiv1.ChartQuery{Chart: "", Period: "-1"}, []string{"chart", "period"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateStruct(tt.query)
			if tt.wantFields == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)

			var apiErr *apierrors.APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, "VALIDATION_FAILED", apiErr.ErrorCode)

			details, ok := apiErr.Details.(apierrors.ValidationErrors)
			require.True(t, ok)
			var fields []string
			for _, e := range details.Errors {
				fields = append(fields, e.Field)
				assert.NotEmpty(t, e.Message)
			}
			assert.Equal(t, tt.wantFields, fields)
		})
	}
}

func TestValidator_NonStruct(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	err := NewValidator(logger).ValidateStruct("stock")

	var apiErr *apierrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "INVALID_REQUEST", apiErr.ErrorCode)
}
