// Package app wires the dashboard together and runs it.
//
// New builds, in order: OpenTelemetry providers and business metrics, the
// source fetcher for the configured backend, the dashboard and health
// services, and the chi router with its middleware chain. Serve performs the
// initial data load, then serves until the context is cancelled and shuts
// down gracefully.
//
//	application, err := app.NewApplication()
//	if err != nil {
//	    return err
//	}
//	return application.Run()
//
// A failed initial load does not stop the server. Data endpoints answer 503
// until POST /api/dashboard/reload succeeds.
package app
