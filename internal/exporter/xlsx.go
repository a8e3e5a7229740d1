package exporter

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	apiv1 "feargreed/pkg/contracts/api/v1"
)

const (
	chartSheet    = "Chart"
	segmentsSheet = "Segments"
)

// WriteChartXLSX writes a rendered chart as a workbook: one sheet with a row
// per date and a column per series, and one listing the sentiment segments.
// Null values are left as empty cells.
func WriteChartXLSX(w io.Writer, chart *apiv1.ChartResponse) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", chartSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E5E7EB"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	numberStyle, err := f.NewStyle(&excelize.Style{NumFmt: 2})
	if err != nil {
		return fmt.Errorf("create number style: %w", err)
	}

	header := make([]interface{}, 0, len(chart.Series)+1)
	header = append(header, "date")
	for _, s := range chart.Series {
		header = append(header, s.Label)
	}
	if err := f.SetSheetRow(chartSheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, date := range chart.Dates {
		row := make([]interface{}, 0, len(chart.Series)+1)
		row = append(row, date)
		for _, s := range chart.Series {
			if i < len(s.Values) && s.Values[i] != nil {
				row = append(row, *s.Values[i])
			} else {
				row = append(row, nil)
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(chartSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	lastCol, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(chartSheet, "A1", lastCol+"1", headerStyle); err != nil {
		return err
	}
	if len(chart.Dates) > 0 && len(header) > 1 {
		end := fmt.Sprintf("%s%d", lastCol, len(chart.Dates)+1)
		if err := f.SetCellStyle(chartSheet, "B2", end, numberStyle); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(chartSheet, "A", "A", 12); err != nil {
		return err
	}
	if len(header) > 1 {
		if err := f.SetColWidth(chartSheet, "B", lastCol, 18); err != nil {
			return err
		}
	}
	if err := f.SetPanes(chartSheet, &excelize.Panes{
		Freeze: true, Split: false, XSplit: 1, YSplit: 1,
		TopLeftCell: "B2", ActivePane: "bottomRight",
	}); err != nil {
		return err
	}

	if len(chart.Segments) > 0 {
		if err := writeSegments(f, chart.Segments, headerStyle); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeSegments(f *excelize.File, segments []apiv1.SegmentPayload, headerStyle int) error {
	if _, err := f.NewSheet(segmentsSheet); err != nil {
		return fmt.Errorf("create segments sheet: %w", err)
	}

	header := []interface{}{"start", "end", "category", "label", "first value", "points"}
	if err := f.SetSheetRow(segmentsSheet, "A1", &header); err != nil {
		return err
	}
	if err := f.SetCellStyle(segmentsSheet, "A1", "F1", headerStyle); err != nil {
		return err
	}

	for i, seg := range segments {
		n := 0
		for _, p := range seg.Points {
			if p != nil {
				n++
			}
		}
		row := []interface{}{seg.Start, seg.End, seg.Category.String(), seg.Label, seg.Value, n}
		if err := f.SetSheetRow(segmentsSheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return err
		}
	}
	return f.SetColWidth(segmentsSheet, "A", "B", 12)
}
