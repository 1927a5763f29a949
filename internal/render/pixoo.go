package render

import (
	"context"
	"fmt"

	"github.com/jwulff/campuscast/internal/domain"
	"github.com/jwulff/campuscast/internal/metrics"
)

// FrameSender pushes frames to a pixel display.
type FrameSender interface {
	SendFrame(ctx context.Context, frame *domain.Frame) error
}

// Pixoo renders screens to a 64x64 pixel display.
type Pixoo struct {
	sender FrameSender
}

// NewPixoo creates a pixel sink over sender.
func NewPixoo(sender FrameSender) *Pixoo {
	return &Pixoo{sender: sender}
}

// Show composes and sends one frame.
func (p *Pixoo) Show(ctx context.Context, screen domain.Screen) error {
	if err := p.sender.SendFrame(ctx, ComposeScreen(screen)); err != nil {
		metrics.IncRender("pixoo", metrics.ResultError)
		return fmt.Errorf("failed to send frame: %w", err)
	}
	metrics.IncRender("pixoo", metrics.ResultSuccess)
	return nil
}

// Sink presents screens.
type Sink interface {
	Show(ctx context.Context, screen domain.Screen) error
}

// Multi fans a screen out to several sinks. Every sink is tried and the first
// error is returned.
type Multi []Sink

// Show forwards screen to each sink.
func (m Multi) Show(ctx context.Context, screen domain.Screen) error {
	var first error
	for _, sink := range m {
		if err := sink.Show(ctx, screen); err != nil && first == nil {
			first = err
		}
	}
	return first
}
