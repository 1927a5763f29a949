// Package player runs the display engine of one device.
//
// A single loop owns the device's rotation state and its view of the shared
// collections. Store changes and timer fires are handled in order on that
// loop; store writes and rendering happen on their own goroutines and only
// ever see the newest value.
package player

import (
	"context"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/rs/zerolog"

	"github.com/jwulff/campuscast/internal/domain"
	"github.com/jwulff/campuscast/internal/heartbeat"
	"github.com/jwulff/campuscast/internal/metrics"
	"github.com/jwulff/campuscast/internal/notice"
	"github.com/jwulff/campuscast/internal/rotation"
	"github.com/jwulff/campuscast/internal/state"
	"github.com/jwulff/campuscast/internal/storage"
	"github.com/jwulff/campuscast/internal/targeting"
)

// Sink presents screens.
type Sink interface {
	Show(ctx context.Context, screen domain.Screen) error
}

// Store is the part of the shared state a display needs.
type Store interface {
	Snapshot(ctx context.Context) (state.Snapshot, error)
	Subscribe(ctx context.Context, handler func(state.Change)) error
	UpdateDevice(ctx context.Context, id string, fn func(*domain.Device)) (bool, error)
}

// Config configures a Player.
type Config struct {
	DeviceID string

	// HeartbeatInterval defaults to heartbeat.DefaultInterval.
	HeartbeatInterval time.Duration

	// DisableHeartbeat turns off keep-alive writes, e.g. for previews.
	DisableHeartbeat bool

	// RefreshInterval re-publishes the current screen so clocks stay fresh.
	// Zero disables it.
	RefreshInterval time.Duration
}

// Player drives one device.
type Player struct {
	cfg   Config
	store Store
	sink  Sink
	clock clock.Clock
	log   zerolog.Logger
}

// New creates a player. A nil clock means wall-clock time.
func New(cfg Config, store Store, sink Sink, clk clock.Clock, log zerolog.Logger) *Player {
	if clk == nil {
		clk = clock.New()
	}
	if cfg.HeartbeatInterval <= 0 {
		cfg.HeartbeatInterval = heartbeat.DefaultInterval
	}
	return &Player{cfg: cfg, store: store, sink: sink, clock: clk, log: log}
}

// loop is the state owned by Run.
type loop struct {
	p     *Player
	ctx   context.Context
	snap  state.Snapshot
	sched *rotation.Scheduler
	timer *clock.Timer

	reports chan string
	screens chan domain.Screen
	last    domain.Screen
}

// Run blocks until ctx is cancelled. It returns an error only if the
// initial subscription or snapshot fails.
func (p *Player) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	changes := make(chan state.Change)
	err := p.store.Subscribe(ctx, func(c state.Change) {
		select {
		case changes <- c:
		case <-ctx.Done():
		}
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe: %w", err)
	}

	snap, err := p.store.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("failed to load snapshot: %w", err)
	}

	l := &loop{
		p:       p,
		ctx:     ctx,
		snap:    snap,
		reports: make(chan string, 1),
		screens: make(chan domain.Screen, 1),
	}
	go p.writeReports(ctx, l.reports)
	go p.render(ctx, l.screens)

	var refresh <-chan time.Time
	if p.cfg.RefreshInterval > 0 {
		ticker := p.clock.Ticker(p.cfg.RefreshInterval)
		defer ticker.Stop()
		refresh = ticker.C
	}

	l.evaluate(false)
	defer l.stopTimer()

	for {
		select {
		case <-ctx.Done():
			return nil
		case c := <-changes:
			l.apply(c)
		case <-l.timerC():
			l.timer = nil
			metrics.IncRotationAdvance(p.cfg.DeviceID)
			l.evaluate(true)
		case <-refresh:
			l.refresh()
		}
	}
}

func (l *loop) timerC() <-chan time.Time {
	if l.timer == nil {
		return nil
	}
	return l.timer.C
}

func (l *loop) stopTimer() {
	if l.timer != nil {
		l.timer.Stop()
		l.timer = nil
	}
}

func (l *loop) apply(c state.Change) {
	switch c.Collection {
	case storage.CollectionDevices, storage.CollectionContent, storage.CollectionNotices:
	default:
		return
	}

	c.Apply(&l.snap)
	if c.Collection == storage.CollectionDevices && l.sched != nil {
		// Another writer may have replaced our record with a stale nowShowingId.
		if d := l.snap.Device(l.p.cfg.DeviceID); d != nil {
			l.sched.SetReported(d.NowShowingID)
		}
	}
	l.evaluate(false)
}

// evaluate recomputes the screen. advance is true when the rotation timer fired.
func (l *loop) evaluate(advance bool) {
	id := l.p.cfg.DeviceID
	device := l.snap.Device(id)
	if device == nil {
		l.stopTimer()
		l.publish(domain.Screen{DeviceID: id, At: l.p.clock.Now()})
		return
	}

	if l.sched == nil {
		l.sched = rotation.NewScheduler(device.NowShowingID)
		l.p.log.Info().Str("group", string(device.Group)).Msg("device configured, starting rotation")
		if !l.p.cfg.DisableHeartbeat {
			hb := heartbeat.New(l.p.store, id, l.p.clock, l.p.log)
			go hb.Run(l.ctx, l.p.cfg.HeartbeatInterval)
		}
	}

	eligible := targeting.Resolve(*device, l.snap.Content)
	metrics.SetEligibleItems(id, len(eligible))

	var step rotation.Step
	if advance {
		step = l.sched.Advance(eligible)
	} else {
		step = l.sched.Evaluate(eligible)
	}

	if step.Stop {
		l.stopTimer()
	}
	if step.Rearm {
		l.stopTimer()
		l.timer = l.p.clock.Timer(step.Duration)
	}
	if step.Report {
		device.NowShowingID = step.ReportID
		offer(l.reports, step.ReportID)
		metrics.IncNowShowingChange(id)
		l.p.log.Debug().Str("content_id", step.ReportID).Msg("now showing")
	}

	sel := notice.Select(*device, l.snap.Notices)
	metrics.SetUrgentOverride(id, sel.SuppressNormal)

	d := *device
	l.publish(domain.Screen{
		DeviceID:       id,
		Device:         &d,
		Current:        step.Current,
		Urgent:         sel.Urgent,
		Normal:         sel.Normal,
		SuppressNormal: sel.SuppressNormal,
		At:             l.p.clock.Now(),
	})
}

func (l *loop) refresh() {
	screen := l.last
	screen.At = l.p.clock.Now()
	l.publish(screen)
}

func (l *loop) publish(screen domain.Screen) {
	l.last = screen
	offer(l.screens, screen)
}

// writeReports persists the newest nowShowingId of this device.
func (p *Player) writeReports(ctx context.Context, reports <-chan string) {
	for {
		select {
		case <-ctx.Done():
			return
		case id := <-reports:
			_, err := p.store.UpdateDevice(ctx, p.cfg.DeviceID, func(d *domain.Device) {
				d.NowShowingID = id
			})
			if err != nil && ctx.Err() == nil {
				p.log.Warn().Err(err).Str("content_id", id).Msg("failed to report now showing")
			}
		}
	}
}

func (p *Player) render(ctx context.Context, screens <-chan domain.Screen) {
	for {
		select {
		case <-ctx.Done():
			return
		case screen := <-screens:
			if err := p.sink.Show(ctx, screen); err != nil && ctx.Err() == nil {
				p.log.Warn().Err(err).Msg("failed to render screen")
			}
		}
	}
}

// offer replaces any pending value in ch with v.
func offer[T any](ch chan T, v T) {
	for {
		select {
		case ch <- v:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}
