package workers

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/familybot/companion/pkg/logger"
)

type HealthChecker interface {
	Health(ctx context.Context) error
}

type healthWatcher struct {
	checker  HealthChecker
	interval time.Duration
	healthy  atomic.Bool
}

// NewHealthWatcher probes the gateway periodically and remembers the last
// observed state. Probe failures only degrade features, so they are logged
// on state transitions and never stop the group.
func NewHealthWatcher(checker HealthChecker, interval time.Duration) *healthWatcher {
	return &healthWatcher{
		checker:  checker,
		interval: interval,
	}
}

func (h *healthWatcher) Name() string { return "gateway health watcher" }

func (h *healthWatcher) Healthy() bool { return h.healthy.Load() }

func (h *healthWatcher) Start(ctx context.Context) error {
	slog.Info("starting gateway health watcher", "interval", h.interval)
	defer slog.Info("stopped gateway health watcher")

	h.probe(ctx)

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			h.probe(ctx)
		}
	}
}

func (h *healthWatcher) probe(ctx context.Context) {
	err := h.checker.Health(ctx)
	healthy := err == nil

	if h.healthy.Swap(healthy) != healthy {
		if healthy {
			slog.Info("gateway is reachable")
		} else {
			slog.Warn("gateway is unreachable", logger.Err(err))
		}
	}
}
