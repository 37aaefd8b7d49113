// Package apm installs the global otel TracerProvider.
package apm

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/exporters/zipkin"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.10.0"

	"github.com/fd1az/superboost/internal/logger"
)

// Provider selects a span exporter.
type Provider string

const (
	ZipkinProvider   Provider = "ZIPKIN_PROVIDER"
	OTLPGRPCProvider Provider = "OTLP_GRPC_PROVIDER"
	OTLPHTTPProvider Provider = "OTLP_HTTP_PROVIDER"
	ConsoleProvider  Provider = "CONSOLE_PROVIDER"
	EmptyProvider    Provider = "EMPTY_PROVIDER"
)

// TraceProvider flushes and stops the exporter.
type TraceProvider interface {
	Stop() error
}

type tracerOptions struct {
	provider    Provider
	endpoint    string
	headers     map[string]string
	serviceName string
}

// TracerOption configures NewTraceProvider.
type TracerOption func(*tracerOptions)

// WithProvider selects the exporter and its endpoint.
func WithProvider(p Provider, endpoint string) TracerOption {
	return func(o *tracerOptions) {
		o.provider = p
		o.endpoint = endpoint
	}
}

// WithHeaders parses "k=v,k2=v2" into exporter headers.
func WithHeaders(raw string) TracerOption {
	return func(o *tracerOptions) {
		o.headers = parseHeaders(raw)
	}
}

// WithServiceName sets service.name; OTEL_SERVICE_NAME otherwise.
func WithServiceName(name string) TracerOption {
	return func(o *tracerOptions) { o.serviceName = name }
}

func parseHeaders(raw string) map[string]string {
	out := make(map[string]string)
	for _, pair := range strings.Split(raw, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if ok && k != "" {
			out[k] = v
		}
	}
	return out
}

func newExporter(ctx context.Context, o *tracerOptions) (sdktrace.SpanExporter, error) {
	switch o.provider {
	case ZipkinProvider:
		return zipkin.New(o.endpoint)
	case OTLPGRPCProvider:
		return otlptracegrpc.New(ctx,
			otlptracegrpc.WithEndpointURL(o.endpoint),
			otlptracegrpc.WithHeaders(o.headers))
	case OTLPHTTPProvider:
		return otlptracehttp.New(ctx,
			otlptracehttp.WithEndpointURL(o.endpoint),
			otlptracehttp.WithHeaders(o.headers))
	case ConsoleProvider:
		return stdouttrace.New(stdouttrace.WithPrettyPrint())
	default:
		return nil, fmt.Errorf("apm: unknown provider %q", o.provider)
	}
}

type emptyProvider struct{}

func (emptyProvider) Stop() error { return nil }

type traceProvider struct {
	tp *sdktrace.TracerProvider
}

// NewTraceProvider installs a batching TracerProvider and the W3C
// propagators. EmptyProvider (or no option) leaves the otel no-op tracer
// in place.
func NewTraceProvider(log logger.LoggerInterface, options ...TracerOption) (TraceProvider, error) {
	o := &tracerOptions{provider: EmptyProvider}
	for _, opt := range options {
		opt(o)
	}
	if o.provider == EmptyProvider {
		return emptyProvider{}, nil
	}

	ctx := context.Background()
	exp, err := newExporter(ctx, o)
	if err != nil {
		return nil, err
	}

	name := o.serviceName
	if name == "" {
		name = os.Getenv("OTEL_SERVICE_NAME")
	}

	rsrc, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(name),
			attribute.String("otel.provider", string(o.provider)),
		))
	if err != nil {
		// Schema URL conflicts are not fatal; fall back to the bare resource.
		log.Warn(ctx, "trace resource merge failed", "error", err)
		rsrc = resource.NewSchemaless(semconv.ServiceNameKey.String(name))
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(rsrc),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	log.Info(ctx, "tracing initialized", "provider", o.provider, "endpoint", o.endpoint)
	return &traceProvider{tp: tp}, nil
}

func (p *traceProvider) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return p.tp.Shutdown(ctx)
}
