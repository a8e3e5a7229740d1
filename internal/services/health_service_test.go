package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"feargreed/pkg/contracts"
)

type staticStatus struct {
	ready bool
	at    time.Time
}

func (s staticStatus) Ready() bool         { return s.ready }
func (s staticStatus) LoadedAt() time.Time { return s.at }

func TestHealthService_ReadinessCheck(t *testing.T) {
	tests := []struct {
		name string
		data DataStatus
		want string
	}{
		{"no data source", nil, "not_ready"},
		{"not loaded", staticStatus{}, "not_ready"},
		{"loaded", staticStatus{ready: true, at: time.Now()}, "ready"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hs := NewHealthService("1.0.0", tt.data, nil)
			status := hs.ReadinessCheck(context.Background())
			assert.Equal(t, tt.want, status.Status)
			assert.Contains(t, status.Services, "data")
		})
	}
}

func TestHealthService_Basics(t *testing.T) {
	hs := NewHealthService(contracts.Version, nil, nil)

	assert.Equal(t, "ok", hs.HealthCheck(context.Background()).Status)

	live := hs.LivenessCheck(context.Background())
	assert.Equal(t, "alive", live.Status)
	assert.Contains(t, live.Runtime, "goroutines")

	v := hs.Version()
	assert.Equal(t, contracts.Version, v["version"])
	assert.Equal(t, contracts.APIVersion, v["api_version"])
}
