package ethereum

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/core/types"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/fd1az/superboost/business/blockchain/app"
	"github.com/fd1az/superboost/business/blockchain/domain"
	"github.com/fd1az/superboost/internal/apperror"
	"github.com/fd1az/superboost/internal/cache"
	"github.com/fd1az/superboost/internal/circuitbreaker"
	"github.com/fd1az/superboost/internal/logger"
)

// FeeBackend is the subset of ethclient the oracle reads.
type FeeBackend interface {
	SuggestGasTipCap(ctx context.Context) (*big.Int, error)
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)
}

// GasOracleConfig holds configuration for the gas oracle.
type GasOracleConfig struct {
	CacheTTL  time.Duration
	MaxFeeCap *big.Int // safety ceiling; nil disables it
}

// DefaultGasOracleConfig caches for one Optimism block and caps fees at
// 100 gwei.
func DefaultGasOracleConfig() GasOracleConfig {
	return GasOracleConfig{
		CacheTTL:  2 * time.Second,
		MaxFeeCap: big.NewInt(100_000_000_000),
	}
}

type gasOracleMetrics struct {
	fetches     metric.Int64Counter
	feeCapGwei  metric.Float64Gauge
	cacheHits   metric.Int64Counter
	cacheMisses metric.Int64Counter
}

// GasOracle suggests EIP-1559 fees from the latest header and the node's
// tip suggestion.
type GasOracle struct {
	config  GasOracleConfig
	backend FeeBackend
	logger  logger.LoggerInterface

	quotes *cache.Cache[string, *domain.FeeQuote]
	cb     *circuitbreaker.CircuitBreaker[*domain.FeeQuote]

	tracer  trace.Tracer
	metrics *gasOracleMetrics
	now     func() time.Time
}

var _ app.FeeOracle = (*GasOracle)(nil)

// NewGasOracle creates a new gas oracle instance.
func NewGasOracle(cfg GasOracleConfig, backend FeeBackend, log logger.LoggerInterface) (*GasOracle, error) {
	g := &GasOracle{
		config:  cfg,
		backend: backend,
		logger:  log,
		quotes:  cache.New[string, *domain.FeeQuote](time.Minute),
		cb:      circuitbreaker.New[*domain.FeeQuote](circuitbreaker.DefaultConfig("gas-oracle")),
		tracer:  otel.Tracer(tracerName),
		now:     time.Now,
	}

	if err := g.initMetrics(); err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}
	return g, nil
}

func (g *GasOracle) initMetrics() error {
	meter := otel.Meter(meterName)
	var err error

	g.metrics = &gasOracleMetrics{}

	g.metrics.fetches, err = meter.Int64Counter(
		"gas_fee_fetches_total",
		metric.WithDescription("Total fee suggestion fetches"),
		metric.WithUnit("{fetch}"),
	)
	if err != nil {
		return err
	}

	g.metrics.feeCapGwei, err = meter.Float64Gauge(
		"gas_fee_cap_gwei",
		metric.WithDescription("Suggested max fee per gas in gwei"),
		metric.WithUnit("gwei"),
	)
	if err != nil {
		return err
	}

	g.metrics.cacheHits, err = meter.Int64Counter(
		"gas_cache_hits_total",
		metric.WithDescription("Fee quote cache hits"),
		metric.WithUnit("{hit}"),
	)
	if err != nil {
		return err
	}

	g.metrics.cacheMisses, err = meter.Int64Counter(
		"gas_cache_misses_total",
		metric.WithDescription("Fee quote cache misses"),
		metric.WithUnit("{miss}"),
	)
	return err
}

// Fees returns the cached quote or fetches a fresh one.
func (g *GasOracle) Fees(ctx context.Context) (*domain.FeeQuote, error) {
	ctx, span := g.tracer.Start(ctx, "gas.fees")
	defer span.End()

	if q, found := g.quotes.Get(ctx, "current"); found {
		g.metrics.cacheHits.Add(ctx, 1)
		span.AddEvent("cache_hit")
		return q, nil
	}
	g.metrics.cacheMisses.Add(ctx, 1)
	g.metrics.fetches.Add(ctx, 1)

	q, err := g.cb.Execute(func() (*domain.FeeQuote, error) {
		head, err := g.backend.HeaderByNumber(ctx, nil)
		if err != nil {
			return nil, err
		}
		tip, err := g.backend.SuggestGasTipCap(ctx)
		if err != nil {
			return nil, err
		}
		return domain.NewFeeQuote(head.BaseFee, tip, g.now()), nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")
		return nil, apperror.Wrap(err, apperror.CodeEthereumRPCError, "failed to get fee suggestion")
	}

	if g.config.MaxFeeCap != nil && q.FeeCap.Cmp(g.config.MaxFeeCap) > 0 {
		span.AddEvent("fee_cap_exceeded_max",
			trace.WithAttributes(attribute.String("wei", q.FeeCap.String())))
		g.logger.Warn(ctx, "fee cap exceeds max", "wei", q.FeeCap.String())
		q.FeeCap = new(big.Int).Set(g.config.MaxFeeCap)
		if q.TipCap.Cmp(q.FeeCap) > 0 {
			q.TipCap = new(big.Int).Set(q.FeeCap)
		}
	}

	g.quotes.Set(ctx, "current", q, g.config.CacheTTL)

	gwei := domain.Gwei(q.FeeCap)
	g.metrics.feeCapGwei.Record(ctx, gwei)
	span.SetAttributes(attribute.Float64("fee_cap_gwei", gwei))
	span.SetStatus(codes.Ok, "fetched")

	return q, nil
}

// Close stops the cache janitor.
func (g *GasOracle) Close() error {
	g.quotes.Close()
	return nil
}
