package app

import (
	"context"
	"sync"
	"time"

	"github.com/fd1az/superboost/business/blockchain/domain"
	"github.com/fd1az/superboost/internal/logger"
)

// DefaultHeadInterval is the head polling cadence; Optimism produces a
// block every two seconds.
const DefaultHeadInterval = 4 * time.Second

// HeadWatcher polls the chain tip over JSON-RPC and reports new blocks and
// connection state changes.
type HeadWatcher struct {
	head     HeadReader
	fees     FeeOracle
	interval time.Duration
	logger   logger.LoggerInterface
	now      func() time.Time

	mu       sync.Mutex
	status   domain.ConnectionStatus
	onHead   []func(domain.Head)
	onStatus []func(domain.ConnectionStatus)
}

// NewHeadWatcher creates a HeadWatcher. fees may be nil.
func NewHeadWatcher(head HeadReader, fees FeeOracle, interval time.Duration, log logger.LoggerInterface) *HeadWatcher {
	if interval <= 0 {
		interval = DefaultHeadInterval
	}
	return &HeadWatcher{
		head:     head,
		fees:     fees,
		interval: interval,
		logger:   log,
		now:      time.Now,
		status:   domain.ConnectionStatus{State: domain.StateConnecting},
	}
}

// OnHead registers fn for every new block.
func (w *HeadWatcher) OnHead(fn func(domain.Head)) {
	w.mu.Lock()
	w.onHead = append(w.onHead, fn)
	w.mu.Unlock()
}

// OnStatus registers fn for connection state changes.
func (w *HeadWatcher) OnStatus(fn func(domain.ConnectionStatus)) {
	w.mu.Lock()
	w.onStatus = append(w.onStatus, fn)
	w.mu.Unlock()
}

// Status is the last known connection status.
func (w *HeadWatcher) Status() domain.ConnectionStatus {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.status
}

// Run polls until ctx is done.
func (w *HeadWatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info(ctx, "starting head polling", "interval", w.interval.String())

	w.Poll(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.Poll(ctx)
		}
	}
}

// Poll takes one observation. Blocks at or below the last seen number are
// not reported again.
func (w *HeadWatcher) Poll(ctx context.Context) {
	start := w.now()
	n, err := w.head.BlockNumber(ctx)
	latency := w.now().Sub(start)

	if err != nil {
		w.logger.Warn(ctx, "head poll failed", "error", err)
		w.update(func(s *domain.ConnectionStatus) {
			s.Failures++
			s.State = domain.StateDisconnected
		})
		return
	}

	var fresh bool
	w.update(func(s *domain.ConnectionStatus) {
		s.Failures = 0
		s.State = domain.StateConnected
		s.Latency = latency
		s.LastUpdate = start
		fresh = n > s.LastBlock
		if fresh {
			s.LastBlock = n
		}
	})
	if !fresh {
		return
	}

	h := domain.Head{Number: n, Latency: latency, At: start}
	if w.fees != nil {
		if q, err := w.fees.Fees(ctx); err == nil {
			h.FeeCap = q.FeeCap
		}
	}

	w.mu.Lock()
	listeners := append(([]func(domain.Head))(nil), w.onHead...)
	w.mu.Unlock()
	for _, fn := range listeners {
		fn(h)
	}
}

// update applies fn and notifies status listeners when the state changed.
func (w *HeadWatcher) update(fn func(*domain.ConnectionStatus)) {
	w.mu.Lock()
	prev := w.status.State
	fn(&w.status)
	status := w.status
	listeners := append(([]func(domain.ConnectionStatus))(nil), w.onStatus...)
	w.mu.Unlock()

	if status.State == prev {
		return
	}
	for _, fn := range listeners {
		fn(status)
	}
}
