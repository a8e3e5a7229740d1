// Package services implements the business logic behind the HTTP handlers.
//
// DashboardService owns the loaded data. Load fetches every configured source
// through a sources.Loader, parses it, and swaps in a new immutable snapshot.
// Chart and Metrics are pure reads of whatever snapshot is current, so a
// reload never disturbs a render in progress.
//
//	svc, err := services.NewDashboardService(cfg, fetcher, logger, metrics)
//	if _, err := svc.Load(ctx); err != nil {
//		// *sources.LoadError: nothing was replaced
//	}
//	chart, err := svc.Chart(ctx, services.ChartRequest{Chart: "stock", Period: "30"})
//
// HealthService backs the liveness and readiness endpoints; readiness follows
// DashboardService.Ready.
package services
