package api

import (
	"time"

	"feargreed/pkg/contracts/domain"
)

// ChartResponse is the render payload of one chart.
type ChartResponse struct {
	Chart     string           `json:"chart"`
	Title     string           `json:"title"`
	Period    string           `json:"period"`
	Dates     domain.Domain    `json:"dates"`
	Series    []SeriesPayload  `json:"series"`
	Segments  []SegmentPayload `json:"segments"`
	Sentiment *OverlayInfo     `json:"sentiment,omitempty"`
	Overlays  []OverlayInfo    `json:"overlays"`
	Policy    string           `json:"normalization"`
	LoadedAt  time.Time        `json:"loaded_at"`
}

// SeriesPayload is one drawable line aligned to ChartResponse.Dates.
// Values are normalized unless Raw is set.
type SeriesPayload struct {
	Key    string     `json:"key"`
	Label  string     `json:"label"`
	Color  string     `json:"color"`
	Axis   int        `json:"axis"`
	Raw    bool       `json:"raw"`
	Values []*float64 `json:"values"`
}

// SegmentPayload is a same-category run of the sentiment line.
type SegmentPayload struct {
	Category domain.Category `json:"category"`
	Label    string          `json:"label"`
	Color    string          `json:"color"`
	Value    float64         `json:"value"`
	Start    string          `json:"start"`
	End      string          `json:"end"`
	Days     int             `json:"days"`
	Points   []*float64      `json:"points"`
}

// OverlayInfo describes a toggleable series of a chart.
type OverlayInfo struct {
	Key      string `json:"key"`
	Label    string `json:"label"`
	Color    string `json:"color"`
	Enabled  bool   `json:"enabled"`
	Optional bool   `json:"optional"`
}

// ChartInfo lists a chart and its overlays.
type ChartInfo struct {
	Name      string        `json:"name"`
	Title     string        `json:"title"`
	Sentiment *OverlayInfo  `json:"sentiment,omitempty"`
	Overlays  []OverlayInfo `json:"overlays"`
}

// MetricCard is the latest fear & greed reading of a chart.
type MetricCard struct {
	Chart    string          `json:"chart"`
	Label    string          `json:"label"`
	Value    int             `json:"value"`
	Category domain.Category `json:"category"`
	Text     string          `json:"text"`
	Color    string          `json:"color"`
	Date     string          `json:"date"`
}

// ReloadResponse reports a completed reload.
type ReloadResponse struct {
	LoadedAt time.Time      `json:"loaded_at"`
	Sources  map[string]int `json:"sources"`
	Duration string         `json:"duration"`
}
