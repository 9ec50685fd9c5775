package monitoring

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/spacesedan/moodmeter/internal/metrics"
)

const (
	HEALTHCHECK_INTERVAL = 15 * time.Second
	HEALTHCHECK_TIMEOUT  = 3 * time.Second
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// MonitorCacheHealth probes the cache every interval and stores the result
// in healthy until ctx is cancelled. It probes once immediately.
func MonitorCacheHealth(ctx context.Context, cache Pinger, healthy *atomic.Bool, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		probe(ctx, cache, healthy)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func probe(ctx context.Context, cache Pinger, healthy *atomic.Bool) {
	ctx, cancel := context.WithTimeout(ctx, HEALTHCHECK_TIMEOUT)
	defer cancel()

	err := cache.Ping(ctx)
	isHealthy := err == nil
	if healthy.Swap(isHealthy) != isHealthy && !isHealthy {
		slog.Warn("[HealthCheck] Cache is unhealthy",
			slog.String("error", err.Error()))
	}

	if isHealthy {
		metrics.CacheHealthy.Set(1)
	} else {
		metrics.CacheHealthy.Set(0)
	}
}
