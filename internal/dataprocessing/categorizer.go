package dataprocessing

import "feargreed/pkg/contracts/domain"

// Upper bounds, inclusive, of the first four categories.
var thresholds = [...]float64{24, 44, 55, 75}

var categoryColors = [...]string{
	domain.ExtremeFear:  "#dc2626",
	domain.Fear:         "#ea580c",
	domain.Neutral:      "#ca8a04",
	domain.Greed:        "#16a34a",
	domain.ExtremeGreed: "#15803d",
}

var categoryLabels = [...]string{
	domain.ExtremeFear:  "극도의 공포",
	domain.Fear:         "공포",
	domain.Neutral:      "중립",
	domain.Greed:        "탐욕",
	domain.ExtremeGreed: "극도의 탐욕",
}

// Categorize maps a fear & greed value onto its category. Values outside
// [0,100] classify by the same thresholds.
func Categorize(v float64) domain.Category {
	for i, upper := range thresholds {
		if v <= upper {
			return domain.Category(i)
		}
	}
	return domain.ExtremeGreed
}

// ColorOf returns the display color of c.
func ColorOf(c domain.Category) string {
	if c < domain.ExtremeFear || c > domain.ExtremeGreed {
		return ""
	}
	return categoryColors[c]
}

// LabelOf returns the localized display label of c.
func LabelOf(c domain.Category) string {
	if c < domain.ExtremeFear || c > domain.ExtremeGreed {
		return ""
	}
	return categoryLabels[c]
}
