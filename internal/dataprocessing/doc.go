// Package dataprocessing turns raw CSV text into chart-ready fear & greed
// series. Every function here is pure: nothing blocks, nothing is shared,
// and only Parse can return an error.
//
// # Pipeline
//
//	text → Parse → Series → IntersectDomain / SuffixWindow → Project
//	     → Normalize (overlays) | Segment (sentiment line)
//
// # Usage
//
//	stock, err := dataprocessing.Parse(csvText)
//	if errors.Is(err, dataprocessing.ErrEmptyInput) {
//	    // treat as an empty series
//	}
//
//	dates := dataprocessing.IntersectDomain(stock,
//	    dataprocessing.Aligned{Series: stock, Column: "sp500", Required: true})
//	dates = dataprocessing.SuffixWindow(dates, 90)
//
//	idx := dataprocessing.NewIndex(stock, "")
//	fg := dataprocessing.Project(idx, "fear_greed", dates)
//	segments := dataprocessing.Segment(fg, dates)
//
//	sp := dataprocessing.Normalize(
//	    dataprocessing.Project(idx, "sp500", dates),
//	    dataprocessing.Baseline{Sensitivity: 2})
//
// # Nulls
//
// Nullable numbers are *float64. Missing cells, non-numeric cells and NaN
// all become nil and stay nil through normalization. In segmentation a nil
// breaks the current run.
//
// # Limitations
//
// The parser is a positional comma split. Quoted fields and embedded commas
// are not supported. Duplicate dates are not removed; lookups see only the
// first occurrence.
package dataprocessing
