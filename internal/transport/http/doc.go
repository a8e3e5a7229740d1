// Package http implements the dashboard's HTTP handlers.
//
// Handlers are thin: they parse and validate the request, call the
// dashboard service and render the result with go-chi/render. Every error
// goes through errors.ErrorHandler and is written as an RFC 7807 problem.
//
// # Routes
//
//	GET  /api/charts                       chart definitions
//	GET  /api/charts/{chart}               chart payload (period, overlays)
//	GET  /api/charts/{chart}/export.xlsx   chart as a workbook
//	GET  /api/dashboard/metrics            latest fear & greed cards
//	POST /api/dashboard/reload             reload every source
//	POST /api/client-log                   front-end log entries
//	GET  /api/health, /api/health/ready, /api/health/live, /api/version
//
// # Service errors
//
// services.ErrNotLoaded becomes a 503 carrying the localized load error
// message, ErrUnknownChart a 404, ErrUnknownOverlay and ErrInvalidPeriod a
// 400 validation problem, and a failed reload a 502.
package http
