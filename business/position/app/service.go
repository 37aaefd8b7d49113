package app

import (
	"context"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/fd1az/superboost/business/position/domain"
	"github.com/fd1az/superboost/internal/logger"
)

const refetchTimeout = 30 * time.Second

// PositionService owns the account's latest indexed snapshot.
type PositionService struct {
	source    PoolSource
	poolAdmin common.Address
	logger    logger.LoggerInterface
	afterFunc AfterFunc
	now       func() time.Time

	mu        sync.RWMutex
	account   common.Address
	latest    *domain.Snapshot
	listeners []func(*domain.Snapshot)
	pending   map[uint64]Timer
	nextTimer uint64
}

// Option configures a PositionService.
type Option func(*PositionService)

// WithAfterFunc replaces time.AfterFunc, for tests.
func WithAfterFunc(f AfterFunc) Option {
	return func(s *PositionService) { s.afterFunc = f }
}

// NewPositionService creates a service for account. The zero account
// means no wallet is connected and every refresh is skipped.
func NewPositionService(source PoolSource, poolAdmin, account common.Address, log logger.LoggerInterface, opts ...Option) *PositionService {
	s := &PositionService{
		source:    source,
		poolAdmin: poolAdmin,
		account:   account,
		logger:    log,
		afterFunc: realAfterFunc,
		pending:   make(map[uint64]Timer),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Account returns the account positions are read for.
func (s *PositionService) Account() common.Address {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.account
}

// SetAccount switches accounts and drops the previous snapshot.
func (s *PositionService) SetAccount(account common.Address) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.account != account {
		s.account = account
		s.latest = nil
	}
}

// OnUpdate registers fn to receive every new snapshot.
func (s *PositionService) OnUpdate(fn func(*domain.Snapshot)) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// Refresh queries the indexer and stores the result. With no account it
// returns nil without querying.
func (s *PositionService) Refresh(ctx context.Context) (*domain.Snapshot, error) {
	account := s.Account()
	if account == (common.Address{}) {
		return nil, nil
	}

	pools, err := s.source.FetchPools(ctx, s.poolAdmin, account)
	if err != nil {
		s.logger.Error(ctx, "position refresh failed", "account", account.Hex(), "error", err)
		return nil, err
	}

	snap := &domain.Snapshot{Account: account, Pools: pools, FetchedAt: s.now()}

	s.mu.Lock()
	if s.account != account {
		// The account changed while the query was in flight.
		s.mu.Unlock()
		return snap, nil
	}
	s.latest = snap
	listeners := append([]func(*domain.Snapshot){}, s.listeners...)
	s.mu.Unlock()

	s.logger.Debug(ctx, "positions refreshed", "account", account.Hex(), "pools", len(pools))
	for _, fn := range listeners {
		fn(snap)
	}
	return snap, nil
}

// Latest returns the last stored snapshot, or nil.
func (s *PositionService) Latest() *domain.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

// Positions projects the latest snapshot.
func (s *PositionService) Positions() []domain.ActivePosition {
	return domain.Project(s.Latest())
}

// HasActivePosition reports whether the latest snapshot holds any live
// stream.
func (s *PositionService) HasActivePosition() bool {
	snap := s.Latest()
	return snap != nil && domain.HasAnyActivePosition(snap.Pools)
}

// RefetchWithDelay schedules exactly one Refresh after d, giving the
// indexer time to catch up with a just-confirmed block.
func (s *PositionService) RefetchWithDelay(d time.Duration) {
	// Held across scheduling so a timer that fires at once still finds
	// its own entry to remove.
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextTimer
	s.nextTimer++
	s.pending[id] = s.afterFunc(d, func() {
		s.mu.Lock()
		delete(s.pending, id)
		s.mu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), refetchTimeout)
		defer cancel()
		if _, err := s.Refresh(ctx); err != nil {
			s.logger.Warn(ctx, "delayed position refresh failed", "delay", d.String(), "error", err)
		}
	})
}

// PendingRefetches is the number of scheduled refreshes that have not
// fired or been cancelled.
func (s *PositionService) PendingRefetches() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.pending)
}

// Close cancels refetches that have not fired yet.
func (s *PositionService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, t := range s.pending {
		t.Stop()
		delete(s.pending, id)
	}
}
