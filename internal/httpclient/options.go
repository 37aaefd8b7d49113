// Package httpclient is an otel-instrumented JSON HTTP client.
package httpclient

import (
	"net/http"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// TraceOption selects which bodies are attached to spans.
type TraceOption string

const (
	TraceRequest  TraceOption = "request"
	TraceResponse TraceOption = "response"
)

type clientOptions struct {
	httpClient    *http.Client
	meterProvider metric.MeterProvider
	tracer        trace.Tracer
	providerName  string
	baseURL       string
	timeout       time.Duration
	headers       map[string]string
	traceRequest  bool
	traceResponse bool
}

// ClientOption configures a Client.
type ClientOption func(*clientOptions)

// WithHTTPClient replaces the underlying *http.Client. Its transport is
// still wrapped with otelhttp.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(o *clientOptions) { o.httpClient = c }
}

// WithMeterProvider overrides the global meter provider.
func WithMeterProvider(mp metric.MeterProvider) ClientOption {
	return func(o *clientOptions) { o.meterProvider = mp }
}

// WithProviderName labels metrics and spans, e.g. "subgraph".
func WithProviderName(name string) ClientOption {
	return func(o *clientOptions) { o.providerName = name }
}

// WithBaseURL is prefixed to relative request paths.
func WithBaseURL(url string) ClientOption {
	return func(o *clientOptions) { o.baseURL = url }
}

// WithRequestTimeout bounds every request.
func WithRequestTimeout(d time.Duration) ClientOption {
	return func(o *clientOptions) { o.timeout = d }
}

// WithHeaders sets headers sent on every request.
func WithHeaders(h map[string]string) ClientOption {
	return func(o *clientOptions) { o.headers = h }
}

// WithTraceOptions sets the tracer and which bodies to record.
func WithTraceOptions(tracer trace.Tracer, opts ...TraceOption) ClientOption {
	return func(o *clientOptions) {
		o.tracer = tracer
		for _, opt := range opts {
			switch opt {
			case TraceRequest:
				o.traceRequest = true
			case TraceResponse:
				o.traceResponse = true
			}
		}
	}
}

// ResponseErrorHandler turns a response into an error, or nil if it is fine.
type ResponseErrorHandler func(statusCode int, body []byte) error

// RequestOption configures a single request.
type RequestOption func(*requestBuilder)

// WithResponseErrorHandler installs a per-request error classifier.
func WithResponseErrorHandler(h ResponseErrorHandler) RequestOption {
	return func(r *requestBuilder) { r.errorHandler = h }
}

// WithLabel adds a metric attribute to the request counter.
func WithLabel(key, value string) RequestOption {
	return func(r *requestBuilder) { r.labels = append(r.labels, [2]string{key, value}) }
}
