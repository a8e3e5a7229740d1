package exporter

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	apiv1 "feargreed/pkg/contracts/api/v1"
	"feargreed/pkg/contracts/domain"
)

func ptr(v float64) *float64 { return &v }

func TestWriteChartXLSX(t *testing.T) {
	chart := &apiv1.ChartResponse{
		Chart: "stock",
		Dates: domain.Domain{"2024-01-01", "2024-01-02", "2024-01-03"},
		Series: []apiv1.SeriesPayload{
			{Key: "fear_greed", Label: "Fear & Greed", Raw: true, Values: []*float64{ptr(50), ptr(60), ptr(40)}},
			{Key: "gold", Label: "Gold", Values: []*float64{nil, ptr(1.5), ptr(2)}},
		},
		Segments: []apiv1.SegmentPayload{
			{Category: domain.Neutral, Label: "Neutral", Value: 50, Start: "2024-01-01", End: "2024-01-01",
				Points: []*float64{ptr(50), nil, nil}},
			{Category: domain.Greed, Label: "Greed", Value: 60, Start: "2024-01-02", End: "2024-01-02",
				Points: []*float64{nil, ptr(60), nil}},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteChartXLSX(&buf, chart))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{chartSheet, segmentsSheet}, f.GetSheetList())

	rows, err := f.GetRows(chartSheet, excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"date", "Fear & Greed", "Gold"}, rows[0])
	assert.Equal(t, []string{"2024-01-01", "50"}, rows[1])
	assert.Equal(t, []string{"2024-01-02", "60", "1.5"}, rows[2])
	assert.Equal(t, []string{"2024-01-03", "40", "2"}, rows[3])

	segRows, err := f.GetRows(segmentsSheet, excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	require.Len(t, segRows, 3)
	assert.Equal(t, []string{"start", "end", "category", "label", "first value", "points"}, segRows[0])
	assert.Equal(t, []string{"2024-01-01", "2024-01-01", "neutral", "Neutral", "50", "1"}, segRows[1])
	assert.Equal(t, "greed", segRows[2][2])
}

func TestWriteChartXLSX_NoSegments(t *testing.T) {
	chart := &apiv1.ChartResponse{
		Chart: "empty",
		Dates: domain.Domain{},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteChartXLSX(&buf, chart))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{chartSheet}, f.GetSheetList())
	rows, err := f.GetRows(chartSheet)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"date"}, rows[0])
}
