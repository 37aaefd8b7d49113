// Package app assembles the dashboard read model.
package app

import (
	"context"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/sync/errgroup"

	"github.com/fd1az/superboost/business/dashboard/domain"
	positionDomain "github.com/fd1az/superboost/business/position/domain"
	pricingDomain "github.com/fd1az/superboost/business/pricing/domain"
	tokenDomain "github.com/fd1az/superboost/business/token/domain"
	"github.com/fd1az/superboost/internal/logger"
)

// Positions is the indexed snapshot source.
type Positions interface {
	Account() common.Address
	Refresh(ctx context.Context) (*positionDomain.Snapshot, error)
}

// Tokens loads the pair and account state for the configured TOREX.
type Tokens interface {
	LoadAccount(ctx context.Context, target, account, spender common.Address) (tokenDomain.TokenPair, tokenDomain.AccountTokenState, error)
}

// Prices provides the ETH/USD quote.
type Prices interface {
	ETHUSD(ctx context.Context) (pricingDomain.Quote, error)
	Last() (pricingDomain.Quote, bool)
}

// Targets are the addresses a refresh reads against.
type Targets struct {
	Torex   common.Address
	Spender common.Address
}

// DashboardService fans a refresh out to the indexer, the chain and the
// price API concurrently.
type DashboardService struct {
	positions Positions
	tokens    Tokens
	prices    Prices
	targets   Targets
	boosts    []domain.Boost
	logger    logger.LoggerInterface
	now       func() time.Time
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(positions Positions, tokens Tokens, prices Prices, targets Targets, boosts []domain.Boost, log logger.LoggerInterface) *DashboardService {
	return &DashboardService{
		positions: positions,
		tokens:    tokens,
		prices:    prices,
		targets:   targets,
		boosts:    boosts,
		logger:    log,
		now:       time.Now,
	}
}

// Boosts is the incentive catalog.
func (s *DashboardService) Boosts() []domain.Boost {
	return append([]domain.Boost(nil), s.boosts...)
}

// Refresh builds a View. Only an indexer failure is fatal; balance and
// price failures are reported as warnings, and a failed price falls back
// to the last good quote.
func (s *DashboardService) Refresh(ctx context.Context) (*domain.View, error) {
	var snapshot *positionDomain.Snapshot

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		snap, err := s.positions.Refresh(gctx)
		if err != nil {
			return err
		}
		snapshot = snap
		return nil
	})
	view := s.loadSides(gctx, g)

	if err := g.Wait(); err != nil {
		s.logger.Error(ctx, "dashboard refresh failed", "account", view.Account.Hex(), "error", err)
		return nil, err
	}
	return s.finish(ctx, view, snapshot), nil
}

// Compose builds a View around a snapshot the caller already has, reading
// only balances and the price.
func (s *DashboardService) Compose(ctx context.Context, snapshot *positionDomain.Snapshot) *domain.View {
	g, gctx := errgroup.WithContext(ctx)
	view := s.loadSides(gctx, g)
	_ = g.Wait() // side loads record warnings instead of failing
	return s.finish(ctx, view, snapshot)
}

// loadSides starts the balance and price reads on g. The returned view is
// only safe to read after g.Wait.
func (s *DashboardService) loadSides(ctx context.Context, g *errgroup.Group) *domain.View {
	account := s.positions.Account()
	view := &domain.View{Account: account, Boosts: s.Boosts()}

	var mu sync.Mutex
	warn := func(err error) {
		mu.Lock()
		view.Warnings = append(view.Warnings, err)
		mu.Unlock()
	}

	g.Go(func() error {
		pair, state, err := s.tokens.LoadAccount(ctx, s.targets.Torex, account, s.targets.Spender)
		if err != nil {
			warn(err)
			return nil
		}
		view.Pair, view.State = pair, state
		return nil
	})

	g.Go(func() error {
		q, err := s.prices.ETHUSD(ctx)
		if err != nil {
			warn(err)
			if last, ok := s.prices.Last(); ok {
				view.Quote = &last
			}
			return nil
		}
		view.Quote = &q
		return nil
	})

	return view
}

func (s *DashboardService) finish(ctx context.Context, view *domain.View, snapshot *positionDomain.Snapshot) *domain.View {
	positions := positionDomain.Project(snapshot)
	view.Positions = make([]domain.PositionRow, 0, len(positions))
	for _, p := range positions {
		view.Positions = append(view.Positions, domain.NewPositionRow(p, view.Quote))
	}
	view.HasActive = snapshot != nil && positionDomain.HasAnyActivePosition(snapshot.Pools)
	view.RefreshedAt = s.now()

	s.logger.Debug(ctx, "dashboard refreshed",
		"positions", len(view.Positions),
		"warnings", len(view.Warnings))
	return view
}
