// Package heartbeat keeps a display's device record marked reachable.
//
// Nothing here ever marks a device unreachable; a device that stops ticking
// simply stops advancing LastContactAt.
package heartbeat

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/rs/zerolog"

	"github.com/jwulff/campuscast/internal/domain"
	"github.com/jwulff/campuscast/internal/metrics"
)

// DefaultInterval is the keep-alive period of a display.
const DefaultInterval = 60 * time.Second

// DeviceStore updates a single device record.
type DeviceStore interface {
	UpdateDevice(ctx context.Context, id string, fn func(*domain.Device)) (bool, error)
}

// Heartbeat ticks one device.
type Heartbeat struct {
	store    DeviceStore
	deviceID string
	clock    clock.Clock
	log      zerolog.Logger
}

// New creates a heartbeat for deviceID.
func New(store DeviceStore, deviceID string, clk clock.Clock, log zerolog.Logger) *Heartbeat {
	if clk == nil {
		clk = clock.New()
	}
	return &Heartbeat{store: store, deviceID: deviceID, clock: clk, log: log}
}

// Mark sets d reachable and moves LastContactAt forward to now. An earlier
// now leaves LastContactAt untouched.
func Mark(d *domain.Device, now time.Time) {
	d.Reachable = true
	if now.After(d.LastContactAt) {
		d.LastContactAt = now
	}
}

// Tick marks the device reachable. A missing device record is not an error.
func (h *Heartbeat) Tick(ctx context.Context) error {
	now := h.clock.Now()
	found, err := h.store.UpdateDevice(ctx, h.deviceID, func(d *domain.Device) {
		Mark(d, now)
	})
	if err != nil {
		metrics.IncHeartbeat(metrics.ResultError)
		return err
	}
	if !found {
		metrics.IncHeartbeat(metrics.ResultSkipped)
		h.log.Debug().Msg("heartbeat skipped, device not registered")
		return nil
	}
	metrics.IncHeartbeat(metrics.ResultSuccess)
	return nil
}

// Run ticks immediately and then every interval until ctx is cancelled.
// Tick errors are logged and do not stop the loop.
func (h *Heartbeat) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultInterval
	}

	ticker := h.clock.Ticker(interval)
	defer ticker.Stop()

	h.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.tick(ctx)
		}
	}
}

func (h *Heartbeat) tick(ctx context.Context) {
	if err := h.Tick(ctx); err != nil && ctx.Err() == nil {
		h.log.Warn().Err(err).Msg("heartbeat failed")
	}
}
