// Package shared holds helpers used by more than one internal package.
//
// The testutil subpackage provides a capturing slog handler for asserting on
// log output, an in-memory fetcher and sample CSV documents for the
// dashboard data sources.
//
//	logger, logs := testutil.NewTestLogger(t)
//	svc := services.NewDashboardService(cfg, testutil.SampleFetcher(), logger, nil)
//	require.NoError(t, svc.Load(ctx))
//	assert.True(t, logs.ContainsMessage("dashboard data loaded"))
package shared
