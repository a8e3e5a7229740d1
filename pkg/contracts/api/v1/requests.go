// Package api contains API contract definitions for the fear & greed dashboard.
// Version v1 represents the current stable API version.
package api

// ChartQuery is the query string of GET /api/charts/{chart}.
//
// Period is "all" or a number of days. Overlays is a comma separated list of
// overlay keys to show; when absent the chart's enabled-by-default overlays
// are used; an empty value hides every overlay. Sentiment=false hides the
// fear & greed line.
type ChartQuery struct {
	Chart     string   `json:"chart" validate:"required,alphanum_underscore"`
	Period    string   `json:"period" validate:"omitempty,period"`
	Overlays  []string `json:"overlays" validate:"omitempty,dive,required,alphanum_underscore"`
	Sentiment string   `json:"sentiment" validate:"omitempty,oneof=true false"`

	// OverlaysSet is true when the overlays parameter was present, even empty.
	OverlaysSet bool `json:"-"`
}

// MetricsQuery is the query string of GET /api/dashboard/metrics.
type MetricsQuery struct {
	Chart string `json:"chart" validate:"omitempty,alphanum_underscore"`
}

// ClientLogRequest is a front-end log entry posted to /api/client-log.
type ClientLogRequest struct {
	Level   string                 `json:"level" validate:"omitempty,oneof=debug info warn error"`
	Message string                 `json:"message" validate:"required,max=2000"`
	Source  string                 `json:"source" validate:"omitempty,max=200"`
	Data    map[string]interface{} `json:"data,omitempty"`
}
