package health

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Monitor periodically probes service dependencies and caches the result.
// Handlers read the cached flag instead of probing inline.
type Monitor struct {
	healthy atomic.Int32
	lastErr atomic.Value // string
	store   HealthPinger
	log     zerolog.Logger
}

func NewMonitor(store HealthPinger, log zerolog.Logger) *Monitor {
	m := &Monitor{store: store, log: log}
	m.healthy.Store(1)
	m.lastErr.Store("")
	return m
}

// IsHealthy returns the cached service health.
func (m *Monitor) IsHealthy() bool { return m.healthy.Load() == 1 }

// LastError returns details of the most recent dependency failure, or "".
func (m *Monitor) LastError() string {
	s, _ := m.lastErr.Load().(string)
	return s
}

// PingStore probes the primary store directly.
func (m *Monitor) PingStore(ctx context.Context) error {
	if m.store == nil {
		return fmt.Errorf("store not configured")
	}
	return m.store.HealthPing(ctx)
}

// Start launches a background goroutine that probes dependencies every interval.
func (m *Monitor) Start(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		probe := func() {
			var errs []string
			if m.store != nil {
				probeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
				if err := m.store.HealthPing(probeCtx); err != nil {
					errs = append(errs, fmt.Sprintf("store: %v", err))
				}
				cancel()
			}
			if len(errs) == 0 {
				if m.healthy.Load() == 0 {
					m.log.Info().Msg("service health restored")
				}
				m.healthy.Store(1)
				m.lastErr.Store("")
			} else {
				msg := strings.Join(errs, "; ")
				if m.healthy.Load() == 1 {
					m.log.Error().Str("error", msg).Msg("service health degraded")
				}
				m.healthy.Store(0)
				m.lastErr.Store(msg)
			}
		}

		probe()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				probe()
			}
		}
	}()
}
