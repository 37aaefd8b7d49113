package httpclient

import (
	"context"
	"net"
	"net/http"
	"net/http/httptrace"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/httptrace/otelhttptrace"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultRequestTimeout  = 10 * time.Second
	defaultMaxConnsPerHost = 5
	defaultIdleConnTimeout = 2 * time.Minute

	metricRequestCounter = "http_client_requests_total"
)

// Client builds instrumented requests.
type Client interface {
	NewRequest(opts ...RequestOption) Request
}

type instrumentedClient struct {
	http          *http.Client
	requests      metric.Int64Counter
	tracer        trace.Tracer
	providerName  string
	baseURL       string
	headers       map[string]string
	traceRequest  bool
	traceResponse bool
}

// NewInstrumentedClient wraps the transport with otelhttp and registers a
// request counter labelled with the provider name.
func NewInstrumentedClient(opts ...ClientOption) (Client, error) {
	o := &clientOptions{}
	for _, opt := range opts {
		opt(o)
	}

	hc := o.httpClient
	if hc == nil {
		hc = &http.Client{Timeout: defaultRequestTimeout}
	}
	if o.timeout > 0 {
		hc.Timeout = o.timeout
	}

	base := hc.Transport
	if base == nil {
		base = &http.Transport{
			Proxy:           http.ProxyFromEnvironment,
			DialContext:     (&net.Dialer{KeepAlive: 10 * time.Second}).DialContext,
			MaxConnsPerHost: defaultMaxConnsPerHost,
			IdleConnTimeout: defaultIdleConnTimeout,
		}
	}
	hc.Transport = otelhttp.NewTransport(base,
		otelhttp.WithClientTrace(func(ctx context.Context) *httptrace.ClientTrace {
			return otelhttptrace.NewClientTrace(ctx)
		}),
	)

	name := o.providerName
	if name == "" {
		name = "default"
	}

	mp := o.meterProvider
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	meter := mp.Meter("instrumented_http_client",
		metric.WithInstrumentationAttributes(attribute.String("provider", name)))

	requests, err := meter.Int64Counter(metricRequestCounter,
		metric.WithDescription("Total number of HTTP requests"))
	if err != nil {
		return nil, err
	}

	tracer := o.tracer
	if tracer == nil {
		tracer = otel.Tracer("instrumented_http_client")
	}

	headers := make(map[string]string, len(o.headers))
	for k, v := range o.headers {
		headers[k] = v
	}

	return &instrumentedClient{
		http:          hc,
		requests:      requests,
		tracer:        tracer,
		providerName:  name,
		baseURL:       o.baseURL,
		headers:       headers,
		traceRequest:  o.traceRequest,
		traceResponse: o.traceResponse,
	}, nil
}

// NewRequest starts a request that inherits the client's defaults.
func (c *instrumentedClient) NewRequest(opts ...RequestOption) Request {
	r := &requestBuilder{
		client:  c,
		headers: make(map[string]string, len(c.headers)),
	}
	for k, v := range c.headers {
		r.headers[k] = v
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}
