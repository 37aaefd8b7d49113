package app

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fd1az/superboost/business/pricing/domain"
	"github.com/fd1az/superboost/internal/cache"
	"github.com/fd1az/superboost/internal/logger"
)

const quoteKey = "ETH/USD"

// PricingService caches the ETH/USD quote for ttl and remembers the last
// good one.
type PricingService struct {
	provider QuoteProvider
	cache    *cache.Cache[string, domain.Quote]
	ttl      time.Duration
	logger   logger.LoggerInterface

	mu   sync.RWMutex
	last *domain.Quote
}

// NewPricingService creates a new PricingService.
func NewPricingService(provider QuoteProvider, ttl time.Duration, log logger.LoggerInterface) *PricingService {
	return &PricingService{
		provider: provider,
		cache:    cache.New[string, domain.Quote](time.Minute),
		ttl:      ttl,
		logger:   log,
	}
}

// ETHUSD returns a cached quote when one is fresh, otherwise asks the
// provider.
func (s *PricingService) ETHUSD(ctx context.Context) (domain.Quote, error) {
	if q, ok := s.cache.Get(ctx, quoteKey); ok {
		return q, nil
	}

	q, err := s.provider.ETHUSD(ctx)
	if err != nil {
		s.logger.Warn(ctx, "eth price fetch failed", "error", err)
		return domain.Quote{}, err
	}

	s.cache.Set(ctx, quoteKey, q, s.ttl)
	s.mu.Lock()
	s.last = &q
	s.mu.Unlock()
	return q, nil
}

// Last is the most recent successful quote, if any.
func (s *PricingService) Last() (domain.Quote, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.last == nil {
		return domain.Quote{}, false
	}
	return *s.last, true
}

// ValueInUSD prices an ETH amount with the current quote, falling back to
// the last good quote when the provider is down.
func (s *PricingService) ValueInUSD(ctx context.Context, eth decimal.Decimal) (decimal.Decimal, error) {
	q, err := s.ETHUSD(ctx)
	if err != nil {
		last, ok := s.Last()
		if !ok {
			return decimal.Zero, err
		}
		q = last
	}
	return q.Value(eth), nil
}

// Close stops the cache janitor.
func (s *PricingService) Close() {
	s.cache.Close()
}
