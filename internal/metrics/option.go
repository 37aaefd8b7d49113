package metrics

// Provider selects a metric exporter.
type Provider string

const (
	PrometheusProvider Provider = "prometheus"
	OtelCollector      Provider = "customOtelCollector"
)

// ProviderCfg configures one exporter.
type ProviderCfg struct {
	Provider Provider
	Endpoint string
	Headers  map[string]string
	Insecure bool
}

// Config collects the meter provider settings.
type Config struct {
	ServiceName string
	Providers   []ProviderCfg
}

// OptionFn mutates Config.
type OptionFn func(Config) Config

// WithServiceName sets the service.name resource attribute.
func WithServiceName(name string) OptionFn {
	return func(c Config) Config {
		c.ServiceName = name
		return c
	}
}

// WithProviderConfig adds an exporter.
func WithProviderConfig(p ProviderCfg) OptionFn {
	return func(c Config) Config {
		c.Providers = append(c.Providers, p)
		return c
	}
}

// NewOtelCollectorConfig describes an OTLP/gRPC collector.
func NewOtelCollectorConfig(endpoint string, headers map[string]string, insecure bool) ProviderCfg {
	return ProviderCfg{
		Provider: OtelCollector,
		Endpoint: endpoint,
		Headers:  headers,
		Insecure: insecure,
	}
}
