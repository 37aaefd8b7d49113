// Package subgraph reads pool membership from the Superfluid subgraph.
package subgraph

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/fd1az/superboost/business/position/app"
	"github.com/fd1az/superboost/business/position/domain"
	"github.com/fd1az/superboost/internal/apperror"
	"github.com/fd1az/superboost/internal/circuitbreaker"
	"github.com/fd1az/superboost/internal/httpclient"
	"github.com/fd1az/superboost/internal/logger"
	"github.com/fd1az/superboost/internal/ratelimit"
)

const (
	tracerName = "github.com/fd1az/superboost/business/position/infra/subgraph"
	meterName  = "github.com/fd1az/superboost/business/position/infra/subgraph"
)

var _ app.PoolSource = (*Client)(nil)

// Config holds the indexer endpoint settings.
type Config struct {
	URL               string
	Timeout           time.Duration
	RequestsPerMinute int
}

type clientMetrics struct {
	queries metric.Int64Counter
	errors  metric.Int64Counter
	latency metric.Float64Histogram
}

// Client posts the pools query to the subgraph.
type Client struct {
	http    httpclient.Client
	limiter *ratelimit.Limiter
	cb      *circuitbreaker.CircuitBreaker[[]domain.Pool]
	logger  logger.LoggerInterface

	tracer  trace.Tracer
	metrics *clientMetrics
}

// NewClient builds an instrumented HTTP client for cfg.URL.
func NewClient(cfg Config, log logger.LoggerInterface) (*Client, error) {
	tracer := otel.Tracer(tracerName)

	hc, err := httpclient.NewInstrumentedClient(
		httpclient.WithProviderName("subgraph"),
		httpclient.WithBaseURL(cfg.URL),
		httpclient.WithRequestTimeout(cfg.Timeout),
		httpclient.WithHeaders(map[string]string{"Accept": "application/json"}),
		httpclient.WithTraceOptions(tracer),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http client: %w", err)
	}

	c := &Client{
		http:    hc,
		limiter: ratelimit.New(cfg.RequestsPerMinute),
		cb:      circuitbreaker.New[[]domain.Pool](circuitbreaker.DefaultConfig("subgraph")),
		logger:  log,
		tracer:  tracer,
	}
	if err := c.initMetrics(); err != nil {
		return nil, fmt.Errorf("failed to init metrics: %w", err)
	}
	return c, nil
}

func (c *Client) initMetrics() error {
	meter := otel.Meter(meterName)
	var err error

	c.metrics = &clientMetrics{}

	c.metrics.queries, err = meter.Int64Counter(
		"subgraph_queries_total",
		metric.WithDescription("Total subgraph queries"),
	)
	if err != nil {
		return err
	}

	c.metrics.errors, err = meter.Int64Counter(
		"subgraph_query_errors_total",
		metric.WithDescription("Total failed subgraph queries"),
	)
	if err != nil {
		return err
	}

	c.metrics.latency, err = meter.Float64Histogram(
		"subgraph_query_latency_ms",
		metric.WithDescription("Subgraph query latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	return err
}

// FetchPools runs getFlowEvents. The indexer stores addresses lowercased,
// so both variables are lowercased before sending.
func (c *Client) FetchPools(ctx context.Context, poolAdmin, account common.Address) ([]domain.Pool, error) {
	ctx, span := c.tracer.Start(ctx, "subgraph.fetch_pools",
		trace.WithAttributes(attribute.String("account", account.Hex())))
	defer span.End()

	c.metrics.queries.Add(ctx, 1)
	start := time.Now()

	pools, err := c.cb.Execute(func() ([]domain.Pool, error) {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		return c.query(ctx, poolAdmin, account)
	})
	c.metrics.latency.Record(ctx, float64(time.Since(start).Milliseconds()))
	if err != nil {
		c.metrics.errors.Add(ctx, 1)
		span.RecordError(err)
		span.SetStatus(codes.Error, "query failed")
		return nil, apperror.Wrap(err, apperror.CodeSubgraphQueryFailed, "getFlowEvents")
	}

	span.SetAttributes(attribute.Int("pools", len(pools)))
	span.SetStatus(codes.Ok, "ok")
	return pools, nil
}

func (c *Client) query(ctx context.Context, poolAdmin, account common.Address) ([]domain.Pool, error) {
	var resp poolsResponse
	_, err := c.http.NewRequest(
		httpclient.WithLabel("operation", "getFlowEvents"),
		httpclient.WithResponseErrorHandler(func(status int, body []byte) error {
			if status >= 400 {
				return fmt.Errorf("subgraph returned %d: %s", status, truncate(string(body), 200))
			}
			return nil
		}),
	).
		SetBody(graphQLRequest{
			Query:         poolsQuery,
			OperationName: "getFlowEvents",
			Variables: map[string]any{
				"poolAdmin": strings.ToLower(poolAdmin.Hex()),
				"account":   strings.ToLower(account.Hex()),
			},
		}).
		SetResult(&resp).
		Post(ctx, "")
	if err != nil {
		return nil, err
	}

	if len(resp.Errors) > 0 {
		msgs := make([]string, len(resp.Errors))
		for i, e := range resp.Errors {
			msgs[i] = e.Message
		}
		return nil, fmt.Errorf("graphql: %s", strings.Join(msgs, "; "))
	}

	return toDomain(resp.Data.Pools), nil
}

func toDomain(in []poolDTO) []domain.Pool {
	pools := make([]domain.Pool, 0, len(in))
	for _, p := range in {
		pool := domain.Pool{ID: p.ID, Members: make([]domain.PoolMember, 0, len(p.PoolMembers))}
		for _, m := range p.PoolMembers {
			acct := domain.Account{ID: m.Account.ID}
			for _, o := range m.Account.Outflows {
				acct.Outflows = append(acct.Outflows, domain.Outflow{
					Deposit:            o.Deposit,
					CurrentFlowRate:    o.CurrentFlowRate,
					CreatedAtTimestamp: o.CreatedAtTimestamp,
				})
			}
			for _, pm := range m.Account.PoolMemberships {
				acct.PoolMemberships = append(acct.PoolMemberships, domain.PoolMembership{
					TotalAmountClaimed:  pm.TotalAmountClaimed,
					PerUnitSettledValue: pm.Pool.PerUnitSettledValue,
				})
			}

			pool.Members = append(pool.Members, domain.PoolMember{
				ID:                                       m.ID,
				Units:                                    m.Units,
				IsConnected:                              m.IsConnected,
				TotalAmountClaimed:                       m.TotalAmountClaimed,
				TotalAmountReceivedUntilUpdatedAt:        m.TotalAmountReceivedUntilUpdatedAt,
				PoolTotalAmountDistributedUntilUpdatedAt: m.PoolTotalAmountDistributedUntilUpdatedAt,
				UpdatedAtTimestamp:                       m.UpdatedAtTimestamp,
				UpdatedAtBlockNumber:                     m.UpdatedAtBlockNumber,
				SyncedPerUnitSettledValue:                m.SyncedPerUnitSettledValue,
				SyncedPerUnitFlowRate:                    m.SyncedPerUnitFlowRate,
				Account:                                  acct,
			})
		}
		pools = append(pools, pool)
	}
	return pools
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
