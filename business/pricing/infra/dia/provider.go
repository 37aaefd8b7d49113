// Package dia reads the ETH/USD spot quote from the DIA public API.
package dia

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/fd1az/superboost/business/pricing/app"
	"github.com/fd1az/superboost/business/pricing/domain"
	"github.com/fd1az/superboost/internal/apperror"
	"github.com/fd1az/superboost/internal/circuitbreaker"
	"github.com/fd1az/superboost/internal/httpclient"
	"github.com/fd1az/superboost/internal/logger"
	"github.com/fd1az/superboost/internal/ratelimit"
)

const (
	tracerName = "github.com/fd1az/superboost/business/pricing/infra/dia"

	// DefaultURL is the ETH quotation endpoint.
	DefaultURL = "https://api.diadata.org/v1/assetQuotation/Ethereum/0x0000000000000000000000000000000000000000"

	httpTimeout = 10 * time.Second
	source      = "dia"
)

var _ app.QuoteProvider = (*Provider)(nil)

// Config holds the DIA endpoint settings.
type Config struct {
	URL               string
	Timeout           time.Duration
	RequestsPerMinute int
}

// quotation is the subset of the DIA response we read.
type quotation struct {
	Symbol string          `json:"Symbol"`
	Price  decimal.Decimal `json:"Price"`
	Time   time.Time       `json:"Time"`
}

// Provider implements app.QuoteProvider.
type Provider struct {
	client  httpclient.Client
	limiter *ratelimit.Limiter
	cb      *circuitbreaker.CircuitBreaker[domain.Quote]
	logger  logger.LoggerInterface
	tracer  trace.Tracer
	now     func() time.Time
}

// NewProvider creates a DIA client. An empty URL uses DefaultURL.
func NewProvider(cfg Config, log logger.LoggerInterface) (*Provider, error) {
	url := cfg.URL
	if url == "" {
		url = DefaultURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = httpTimeout
	}

	tracer := otel.Tracer(tracerName)

	client, err := httpclient.NewInstrumentedClient(
		httpclient.WithProviderName(source),
		httpclient.WithBaseURL(url),
		httpclient.WithRequestTimeout(timeout),
		httpclient.WithTraceOptions(tracer, httpclient.TraceRequest, httpclient.TraceResponse),
		httpclient.WithHeaders(map[string]string{
			"Accept": "application/json",
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}

	return &Provider{
		client:  client,
		limiter: ratelimit.New(cfg.RequestsPerMinute),
		cb:      circuitbreaker.New[domain.Quote](circuitbreaker.DefaultConfig("dia")),
		logger:  log,
		tracer:  tracer,
		now:     time.Now,
	}, nil
}

// ETHUSD fetches the current quotation.
func (p *Provider) ETHUSD(ctx context.Context) (domain.Quote, error) {
	ctx, span := p.tracer.Start(ctx, "dia.eth_usd")
	defer span.End()

	q, err := p.cb.Execute(func() (domain.Quote, error) {
		if err := p.limiter.Wait(ctx); err != nil {
			return domain.Quote{}, err
		}
		return p.fetch(ctx)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "quote failed")
		return domain.Quote{}, apperror.Wrap(err, apperror.CodePriceFetchFailed, "ETH/USD from DIA")
	}

	span.SetAttributes(attribute.String("price", q.Price.Rate().String()))
	span.SetStatus(codes.Ok, "ok")
	return q, nil
}

func (p *Provider) fetch(ctx context.Context) (domain.Quote, error) {
	var result quotation
	_, err := p.client.NewRequest(
		httpclient.WithLabel("endpoint", "assetQuotation"),
		httpclient.WithResponseErrorHandler(diaErrorHandler),
	).
		SetResult(&result).
		Get(ctx, "")
	if err != nil {
		return domain.Quote{}, err
	}

	if !result.Price.IsPositive() {
		return domain.Quote{}, fmt.Errorf("non-positive price %s", result.Price)
	}

	ts := result.Time
	if ts.IsZero() {
		ts = p.now()
	}

	p.logger.Debug(ctx, "fetched eth quote", "price", result.Price.String(), "time", ts)
	return domain.NewETHUSD(result.Price, ts, source), nil
}

// apiError is DIA's error body.
type apiError struct {
	Message string `json:"message"`
}

func diaErrorHandler(statusCode int, body []byte) error {
	if statusCode >= 400 {
		var e apiError
		if err := json.Unmarshal(body, &e); err == nil && e.Message != "" {
			return fmt.Errorf("dia API error %d: %s", statusCode, e.Message)
		}
		return fmt.Errorf("HTTP %d: %s", statusCode, string(body))
	}
	return nil
}
