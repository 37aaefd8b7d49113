// Package metrics installs the global otel MeterProvider and serves the
// Prometheus scrape endpoint.
package metrics

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.10.0"
)

// MetricProvider is the installed provider; Shutdown flushes exporters.
type MetricProvider interface {
	Shutdown(ctx context.Context) error
}

func newReader(ctx context.Context, p ProviderCfg) (sdkmetric.Reader, error) {
	switch p.Provider {
	case PrometheusProvider:
		return prometheus.New()
	case OtelCollector:
		opts := []otlpmetricgrpc.Option{
			otlpmetricgrpc.WithEndpointURL(p.Endpoint),
			otlpmetricgrpc.WithHeaders(p.Headers),
		}
		if p.Insecure {
			opts = append(opts, otlpmetricgrpc.WithInsecure())
		}
		exp, err := otlpmetricgrpc.New(ctx, opts...)
		if err != nil {
			return nil, err
		}
		return sdkmetric.NewPeriodicReader(exp), nil
	default:
		return nil, fmt.Errorf("metrics: unknown provider %q", p.Provider)
	}
}

// NewMetricProvider builds readers for every configured exporter and sets
// the global MeterProvider. With no exporter configured it defaults to
// Prometheus.
func NewMetricProvider(options ...OptionFn) (MetricProvider, error) {
	var cfg Config
	for _, opt := range options {
		cfg = opt(cfg)
	}
	if len(cfg.Providers) == 0 {
		cfg.Providers = []ProviderCfg{{Provider: PrometheusProvider}}
	}

	ctx := context.Background()
	opts := make([]sdkmetric.Option, 0, len(cfg.Providers)+1)
	for _, p := range cfg.Providers {
		reader, err := newReader(ctx, p)
		if err != nil {
			return nil, fmt.Errorf("metrics: %s reader: %w", p.Provider, err)
		}
		opts = append(opts, sdkmetric.WithReader(reader))
	}

	name := cfg.ServiceName
	if name == "" {
		name = os.Getenv("OTEL_SERVICE_NAME")
	}
	opts = append(opts, sdkmetric.WithResource(
		resource.NewSchemaless(semconv.ServiceNameKey.String(name)),
	))

	mp := sdkmetric.NewMeterProvider(opts...)
	otel.SetMeterProvider(mp)
	return mp, nil
}

// ServePrometheusMetrics serves /metrics on port until ctx is done.
func ServePrometheusMetrics(ctx context.Context, port int) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
