// Package app runs one live counter per active stream.
package app

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fd1az/superboost/business/stream/domain"
	"github.com/fd1az/superboost/internal/logger"
)

// DefaultFrameInterval is the redraw cadence when none is configured.
const DefaultFrameInterval = 100 * time.Millisecond

// Update is one recomputed counter value.
type Update struct {
	PoolID   string
	Streamed decimal.Decimal
	At       time.Time
}

type loop struct {
	stream domain.Stream
	cancel context.CancelFunc
	done   chan struct{}
}

// Estimator owns a ticker goroutine per pool. Loops do no I/O; they only
// recompute from the rate and start time they were given.
type Estimator struct {
	interval time.Duration
	now      func() time.Time
	logger   logger.LoggerInterface

	mu        sync.Mutex
	loops     map[string]*loop
	listeners []func(Update)
}

// Option configures an Estimator.
type Option func(*Estimator)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Estimator) { e.now = now }
}

// NewEstimator creates an Estimator ticking every interval.
func NewEstimator(interval time.Duration, log logger.LoggerInterface, opts ...Option) *Estimator {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	e := &Estimator{
		interval: interval,
		now:      time.Now,
		logger:   log,
		loops:    make(map[string]*loop),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// OnUpdate registers fn for every frame. fn runs on the loop goroutine and
// must not block.
func (e *Estimator) OnUpdate(fn func(Update)) {
	e.mu.Lock()
	e.listeners = append(e.listeners, fn)
	e.mu.Unlock()
}

// Sync reconciles running loops with streams: new active streams start,
// changed ones restart, and loops whose stream vanished or stopped flowing
// are cancelled. New loops are bound to ctx.
func (e *Estimator) Sync(ctx context.Context, streams []domain.Stream) {
	want := make(map[string]domain.Stream, len(streams))
	for _, s := range streams {
		if s.Active() {
			if _, dup := want[s.PoolID]; !dup {
				want[s.PoolID] = s
			}
		}
	}

	var stopped []*loop

	e.mu.Lock()
	for id, l := range e.loops {
		if s, ok := want[id]; ok && l.stream.Same(s) && l.alive() {
			delete(want, id)
			continue
		}
		l.cancel()
		stopped = append(stopped, l)
		delete(e.loops, id)
	}
	for id, s := range want {
		e.loops[id] = e.start(ctx, s)
	}
	e.mu.Unlock()

	for _, l := range stopped {
		<-l.done
	}
}

func (l *loop) alive() bool {
	select {
	case <-l.done:
		return false
	default:
		return true
	}
}

func (e *Estimator) start(parent context.Context, s domain.Stream) *loop {
	ctx, cancel := context.WithCancel(parent)
	l := &loop{stream: s, cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(l.done)

		ticker := time.NewTicker(e.interval)
		defer ticker.Stop()

		e.emit(s)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				e.emit(s)
			}
		}
	}()

	e.logger.Debug(parent, "stream counter started", "pool", s.PoolID, "rate", s.FlowRate.String())
	return l
}

func (e *Estimator) emit(s domain.Stream) {
	now := e.now()
	u := Update{
		PoolID:   s.PoolID,
		Streamed: domain.EstimateStreamed(s.FlowRate, s.StartedAt, now),
		At:       now,
	}

	e.mu.Lock()
	listeners := e.listeners
	e.mu.Unlock()

	for _, fn := range listeners {
		fn(u)
	}
}

// Running lists the pools with a live counter, sorted. Loops whose
// context ended are not listed.
func (e *Estimator) Running() []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	ids := make([]string, 0, len(e.loops))
	for id, l := range e.loops {
		if l.alive() {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// Stop cancels every loop and waits for them to exit.
func (e *Estimator) Stop() {
	e.mu.Lock()
	loops := e.loops
	e.loops = make(map[string]*loop)
	e.mu.Unlock()

	for _, l := range loops {
		l.cancel()
	}
	for _, l := range loops {
		<-l.done
	}
}
