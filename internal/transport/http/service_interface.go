package http

import (
	"context"

	"feargreed/internal/services"
	apiv1 "feargreed/pkg/contracts/api/v1"
)

// DashboardServiceInterface is the part of services.DashboardService the
// handlers use.
type DashboardServiceInterface interface {
	Load(ctx context.Context) (services.LoadResult, error)
	Ready() bool
	Charts() []apiv1.ChartInfo
	Chart(ctx context.Context, req services.ChartRequest) (*apiv1.ChartResponse, error)
	Metrics(ctx context.Context) ([]apiv1.MetricCard, error)
}
