// Package scheduler runs a task on a fixed interval, one run at a time.
package scheduler

import (
	"context"
	"sync"
	"time"

	domainErrors "github.com/thomas-vilte/gravitycommit/internal/errors"
	"github.com/thomas-vilte/gravitycommit/internal/logger"
)

// Scheduler is a ticker loop that can be paused, resumed, retimed and
// triggered early. Ticks that arrive while the task runs are dropped.
type Scheduler struct {
	mu         sync.Mutex
	interval   time.Duration
	paused     bool
	runOnStart bool
	cancel     context.CancelFunc
	done       chan struct{}
	retime     chan time.Duration
	trigger    chan struct{}
}

type Option func(*Scheduler)

// WithRunOnStart runs the task once as soon as the loop starts.
func WithRunOnStart() Option {
	return func(s *Scheduler) {
		s.runOnStart = true
	}
}

func New(interval time.Duration, opts ...Option) (*Scheduler, error) {
	if interval <= 0 {
		return nil, domainErrors.ErrInvalidInterval.WithContext("interval", interval.String())
	}
	s := &Scheduler{interval: interval}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Scheduler) Start(ctx context.Context, task func(context.Context)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.alive() {
		return domainErrors.ErrSchedulerRunning
	}

	loopCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	s.retime = make(chan time.Duration, 1)
	s.trigger = make(chan struct{}, 1)

	go s.loop(loopCtx, task, s.interval, s.done, s.retime, s.trigger)
	logger.Debug(ctx, "scheduler started", "interval", s.interval)
	return nil
}

func (s *Scheduler) loop(ctx context.Context, task func(context.Context), interval time.Duration,
	done chan struct{}, retime <-chan time.Duration, trigger <-chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	if s.runOnStart {
		s.fire(ctx, task)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case d := <-retime:
			ticker.Reset(d)
			logger.Debug(ctx, "scheduler interval changed", "interval", d)
		case <-ticker.C:
			s.fire(ctx, task)
		case <-trigger:
			s.fire(ctx, task)
		}
	}
}

func (s *Scheduler) fire(ctx context.Context, task func(context.Context)) {
	if s.Paused() || ctx.Err() != nil {
		return
	}
	task(ctx)
}

// Stop cancels the loop and waits for a running task to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (s *Scheduler) Pause() {
	s.mu.Lock()
	s.paused = true
	s.mu.Unlock()
}

func (s *Scheduler) Resume() {
	s.mu.Lock()
	s.paused = false
	s.mu.Unlock()
}

func (s *Scheduler) Paused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paused
}

func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.alive()
}

// alive must be called with mu held.
func (s *Scheduler) alive() bool {
	if s.done == nil {
		return false
	}
	select {
	case <-s.done:
		return false
	default:
		return true
	}
}

func (s *Scheduler) Interval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interval
}

// SetInterval changes the period. A running loop restarts its ticker;
// non-positive values are ignored.
func (s *Scheduler) SetInterval(d time.Duration) {
	if d <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.interval = d
	if !s.alive() {
		return
	}
	select {
	case <-s.retime:
	default:
	}
	s.retime <- d
}

// Trigger asks the loop for an early run. Requests made while a run is
// pending collapse into one.
func (s *Scheduler) Trigger() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.alive() {
		return
	}
	select {
	case s.trigger <- struct{}{}:
	default:
	}
}

// Done is closed when the current loop exits. It is nil before Start.
func (s *Scheduler) Done() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}
