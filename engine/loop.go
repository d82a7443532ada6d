package engine

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/lixenwraith/arena/input"
	"github.com/lixenwraith/arena/vmath"
)

// FrameInfo is the per-frame summary handed to the presenter
type FrameInfo struct {
	Number uint64
	DT     float64
	Focus  vmath.Vec2
	Live   int
	Queued int
}

// Presenter draws one frame of render tuples
type Presenter interface {
	Present(info FrameInfo, items []Drawable) error
}

// InputSource produces the intent for the frame starting at now
type InputSource interface {
	Poll(now time.Time) input.Intent
}

// EventSink receives the events published during a frame, after presentation
type EventSink interface {
	Handle(events []GameEvent)
}

// DefaultMaxDelta caps dt after stalls so bodies do not jump through walls
const DefaultMaxDelta = 100 * time.Millisecond

// Loop runs the world at a fixed frame interval
// Stop requests, either context cancellation or a quit intent, are honoured at frame
// boundaries only
type Loop struct {
	world     *World
	input     InputSource
	presenter Presenter
	sinks     []EventSink
	clock     TimeProvider
	logger    *zap.Logger

	interval time.Duration
	maxDelta time.Duration

	last  time.Time
	items []Drawable
}

// NewLoop creates a loop ticking every interval; input and presenter may be nil
func NewLoop(world *World, in InputSource, presenter Presenter, clock TimeProvider, interval time.Duration, logger *zap.Logger) *Loop {
	if clock == nil {
		clock = NewMonotonicTimeProvider()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if interval <= 0 {
		interval = time.Second / 60
	}
	return &Loop{
		world:     world,
		input:     in,
		presenter: presenter,
		clock:     clock,
		logger:    logger,
		interval:  interval,
		maxDelta:  DefaultMaxDelta,
		items:     make([]Drawable, 0, 256),
	}
}

// AddSink registers an event consumer, must be called before Run
func (l *Loop) AddSink(s EventSink) {
	if s != nil {
		l.sinks = append(l.sinks, s)
	}
}

// SetMaxDelta changes the dt clamp; non-positive disables clamping
func (l *Loop) SetMaxDelta(d time.Duration) {
	l.maxDelta = d
}

// Frame runs one full frame: input, step, render, present, publish
// Returns false when the input requested quit; the world is not stepped in that case
func (l *Loop) Frame() (bool, error) {
	now := l.clock.Now()
	var elapsed time.Duration
	if !l.last.IsZero() {
		elapsed = now.Sub(l.last)
	}
	l.last = now
	if elapsed < 0 {
		elapsed = 0
	}
	if l.maxDelta > 0 && elapsed > l.maxDelta {
		elapsed = l.maxDelta
	}

	var in input.Intent
	if l.input != nil {
		in = l.input.Poll(now)
	}
	if in.Quit {
		return false, nil
	}

	dt := elapsed.Seconds()
	l.world.Step(dt, in)

	if l.presenter != nil {
		l.items = l.world.Render(l.items[:0])
		info := FrameInfo{
			Number: l.world.FrameNumber(),
			DT:     dt,
			Focus:  l.world.Focus(),
			Live:   l.world.Len(),
			Queued: l.world.Queued(),
		}
		if err := l.presenter.Present(info, l.items); err != nil {
			return false, fmt.Errorf("present frame %d: %w", info.Number, err)
		}
	}

	if events := l.world.Events(); len(events) > 0 {
		for _, s := range l.sinks {
			s.Handle(events)
		}
	}
	return true, nil
}

// Run blocks until ctx is cancelled, the input requests quit, or presentation fails
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	l.logger.Info("loop started", zap.Duration("interval", l.interval), zap.Duration("max_delta", l.maxDelta))
	defer func() {
		l.logger.Info("loop stopped", zap.Uint64("frames", l.world.FrameNumber()))
	}()

	for {
		if ctx.Err() != nil {
			return nil
		}
		more, err := l.Frame()
		if err != nil {
			return err
		}
		if !more {
			return nil
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
