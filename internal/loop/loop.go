package loop

import (
	"context"
	"errors"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"
)

// DefaultFrameRate is the render tick rate when none is configured
const DefaultFrameRate = 60

// ErrStopped is returned when work is posted to a loop that has exited
var ErrStopped = errors.New("event loop stopped")

// Executor runs fn on the goroutine that owns the application state
type Executor func(fn func())

// Inline runs fn immediately on the calling goroutine
func Inline(fn func()) {
	fn()
}

// Loop is the single logical thread of the client. Transport events, UI
// calls and the render tick are all serialised through Run.
type Loop struct {
	events   chan func()
	done     chan struct{}
	clock    clock.Clock
	interval time.Duration
	onTick   func()
	logger   *zap.Logger
}

// New creates a loop ticking at frameRate frames per second. onTick may be nil.
func New(clk clock.Clock, frameRate int, onTick func(), logger *zap.Logger) *Loop {
	if frameRate <= 0 {
		frameRate = DefaultFrameRate
	}
	return &Loop{
		events:   make(chan func(), 256),
		done:     make(chan struct{}),
		clock:    clk,
		interval: time.Second / time.Duration(frameRate),
		onTick:   onTick,
		logger:   logger,
	}
}

// Interval returns the time between render ticks
func (l *Loop) Interval() time.Duration {
	return l.interval
}

// Run processes posted work and render ticks until ctx is done
func (l *Loop) Run(ctx context.Context) error {
	ticker := l.clock.Ticker(l.interval)
	defer func() {
		ticker.Stop()
		close(l.done)
	}()

	l.logger.Info("Event loop started", zap.Duration("frameInterval", l.interval))

	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Event loop stopped")
			return ctx.Err()

		case fn := <-l.events:
			fn()

		case <-ticker.C:
			if l.onTick != nil {
				l.onTick()
			}
		}
	}
}

// Post queues fn to run on the loop. It must not be called from the loop
// itself. Work posted after the loop exited is dropped.
func (l *Loop) Post(fn func()) {
	select {
	case l.events <- fn:
	case <-l.done:
		l.logger.Debug("Dropping work posted after loop exit")
	}
}

// Do runs fn on the loop and waits for it to finish. ctx only bounds the
// wait for a queue slot: once fn is queued it runs, and Do waits for it.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	work := func() {
		defer close(finished)
		fn()
	}

	select {
	case l.events <- work:
	case <-l.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-finished:
		return nil
	case <-l.done:
		select {
		case <-finished:
			return nil
		default:
			return ErrStopped
		}
	}
}
