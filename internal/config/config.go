// Package config provides configuration loading and validation.
package config

import (
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	App          AppConfig          `mapstructure:"app"`
	Chain        ChainConfig        `mapstructure:"chain"`
	Contracts    ContractsConfig    `mapstructure:"contracts"`
	Subgraph     SubgraphConfig     `mapstructure:"subgraph"`
	Wallet       WalletConfig       `mapstructure:"wallet"`
	Transactions TransactionsConfig `mapstructure:"transactions"`
	Stream       StreamConfig       `mapstructure:"stream"`
	Pricing      PricingConfig      `mapstructure:"pricing"`
	Boosts       []BoostConfig      `mapstructure:"boosts"`
	Telemetry    TelemetryConfig    `mapstructure:"telemetry"`
	Health       HealthConfig       `mapstructure:"health"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	LogLevel    string `mapstructure:"log_level"`
	TUIMode     bool   `mapstructure:"-"` // set at runtime from the -cli flag
}

// ChainConfig holds the JSON-RPC endpoint.
type ChainConfig struct {
	HTTPURL     string        `mapstructure:"http_url"`
	ChainID     uint64        `mapstructure:"chain_id"`
	CallTimeout time.Duration `mapstructure:"call_timeout"`
}

// ContractsConfig holds the static protocol addresses.
type ContractsConfig struct {
	Torex          string `mapstructure:"torex"`
	PoolAdmin      string `mapstructure:"pool_admin"`
	MacroForwarder string `mapstructure:"macro_forwarder"`
	SBMacro        string `mapstructure:"sb_macro"`
	CFAForwarder   string `mapstructure:"cfa_forwarder"`
	Rewards        string `mapstructure:"rewards"`
	// AllowanceSpender is the spender whose allowance is displayed; the
	// macro forwarder when empty.
	AllowanceSpender string `mapstructure:"allowance_spender"`
}

func (c *ContractsConfig) TorexAddress() common.Address { return common.HexToAddress(c.Torex) }
func (c *ContractsConfig) PoolAdminAddress() common.Address {
	return common.HexToAddress(c.PoolAdmin)
}
func (c *ContractsConfig) MacroForwarderAddress() common.Address {
	return common.HexToAddress(c.MacroForwarder)
}
func (c *ContractsConfig) SBMacroAddress() common.Address { return common.HexToAddress(c.SBMacro) }
func (c *ContractsConfig) CFAForwarderAddress() common.Address {
	return common.HexToAddress(c.CFAForwarder)
}
func (c *ContractsConfig) RewardsAddress() common.Address { return common.HexToAddress(c.Rewards) }

// SpenderAddress returns the allowance spender.
func (c *ContractsConfig) SpenderAddress() common.Address {
	if c.AllowanceSpender == "" {
		return c.MacroForwarderAddress()
	}
	return common.HexToAddress(c.AllowanceSpender)
}

// SubgraphConfig holds the indexer endpoint.
type SubgraphConfig struct {
	URL               string        `mapstructure:"url"`
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerMinute int           `mapstructure:"requests_per_minute"`
}

// WalletConfig holds the signer. PrivateKey is read from the environment
// only; leave it empty for a read-only session.
type WalletConfig struct {
	PrivateKey          string        `mapstructure:"private_key"`
	Account             string        `mapstructure:"account"` // watch-only address when no key is set
	ConfirmationTimeout time.Duration `mapstructure:"confirmation_timeout"`
}

// TransactionsConfig holds per-call gas ceilings and the post-confirmation
// refresh delay.
type TransactionsConfig struct {
	ApproveGasLimit  uint64        `mapstructure:"approve_gas_limit"`
	ExecuteGasLimit  uint64        `mapstructure:"execute_gas_limit"`
	DeleteGasLimit   uint64        `mapstructure:"delete_gas_limit"`
	RegisterGasLimit uint64        `mapstructure:"register_gas_limit"`
	RefreshDelay     time.Duration `mapstructure:"refresh_delay"`
}

// StreamConfig holds the live counter cadence.
type StreamConfig struct {
	FrameInterval time.Duration `mapstructure:"frame_interval"`
}

// PricingConfig holds the ETH/USD quote source.
type PricingConfig struct {
	URL               string        `mapstructure:"url"`
	CacheTTL          time.Duration `mapstructure:"cache_ttl"`
	RequestsPerMinute int           `mapstructure:"requests_per_minute"`
}

// BoostConfig is one entry of the incentive catalog.
type BoostConfig struct {
	Name          string `mapstructure:"name"`
	FromToken     string `mapstructure:"from_token"`
	ToToken       string `mapstructure:"to_token"`
	MonthlyVolume string `mapstructure:"monthly_volume"`
	DailyRewards  string `mapstructure:"daily_rewards"`
	APR           string `mapstructure:"apr"`
	Live          bool   `mapstructure:"live"`
	Torex         string `mapstructure:"torex"`
}

// TelemetryConfig holds observability configuration.
type TelemetryConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	ServiceName    string `mapstructure:"service_name"`
	OTLPEndpoint   string `mapstructure:"otlp_endpoint"`
	PrometheusPort int    `mapstructure:"prometheus_port"`
}

// HealthConfig holds the probe server settings.
type HealthConfig struct {
	Port int `mapstructure:"port"`
}

// Load loads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("SB")
	v.AutomaticEnv()

	bindEnvVars(v)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if len(cfg.Boosts) == 0 {
		cfg.Boosts = DefaultBoosts(cfg.Contracts.Torex)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func bindEnvVars(v *viper.Viper) {
	v.BindEnv("app.name", "SB_APP_NAME", "SERVICE_NAME")
	v.BindEnv("app.environment", "SB_ENVIRONMENT", "ENVIRONMENT")
	v.BindEnv("app.log_level", "SB_LOG_LEVEL", "LOG_LEVEL")

	v.BindEnv("chain.http_url", "SB_RPC_URL", "OPTIMISM_RPC_URL")
	v.BindEnv("chain.chain_id", "SB_CHAIN_ID")

	v.BindEnv("subgraph.url", "SB_SUBGRAPH_URL")

	v.BindEnv("wallet.private_key", "SB_PRIVATE_KEY")
	v.BindEnv("wallet.account", "SB_ACCOUNT")
	v.BindEnv("wallet.confirmation_timeout", "SB_CONFIRMATION_TIMEOUT")

	v.BindEnv("pricing.url", "SB_PRICE_URL")

	v.BindEnv("telemetry.enabled", "SB_OTEL_ENABLED", "OTEL_ENABLED")
	v.BindEnv("telemetry.service_name", "SB_OTEL_SERVICE_NAME", "OTEL_SERVICE_NAME")
	v.BindEnv("telemetry.otlp_endpoint", "SB_OTEL_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "superboost")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("chain.http_url", "https://optimism.llamarpc.com")
	v.SetDefault("chain.chain_id", 10)
	v.SetDefault("chain.call_timeout", "15s")

	v.SetDefault("contracts.torex", "0xda09bfa42eb482858f54c92d083e79a44191327b")
	v.SetDefault("contracts.pool_admin", "0xda09bfa42eb482858f54c92d083e79a44191327b")
	v.SetDefault("contracts.macro_forwarder", "0xfD01285b9435bc45C243E5e7F978E288B2912de6")
	v.SetDefault("contracts.sb_macro", "0x383329703f346d72F4b86111a502daaa8f2c69C7")
	v.SetDefault("contracts.cfa_forwarder", "0xcfA132E353cB4E398080B9700609bb008eceB125")
	v.SetDefault("contracts.rewards", "0x5A42F800e27773d09376464934e59517fDD88371")
	v.SetDefault("contracts.allowance_spender", "")

	v.SetDefault("subgraph.url", "https://optimism-mainnet.subgraph.x.superfluid.dev/")
	v.SetDefault("subgraph.timeout", "10s")
	v.SetDefault("subgraph.requests_per_minute", 60)

	v.SetDefault("wallet.confirmation_timeout", "2m")

	v.SetDefault("transactions.approve_gas_limit", 1_000_000)
	v.SetDefault("transactions.execute_gas_limit", 3_000_000)
	v.SetDefault("transactions.delete_gas_limit", 3_000_000)
	v.SetDefault("transactions.register_gas_limit", 3_000_000)
	v.SetDefault("transactions.refresh_delay", "3s")

	v.SetDefault("stream.frame_interval", "100ms")

	v.SetDefault("pricing.url", "https://api.diadata.org/v1/assetQuotation/Ethereum/0x0000000000000000000000000000000000000000")
	v.SetDefault("pricing.cache_ttl", "1m")
	v.SetDefault("pricing.requests_per_minute", 30)

	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", "superboost")
	v.SetDefault("telemetry.prometheus_port", 9090)

	v.SetDefault("health.port", 8081)
}

// DefaultBoosts is the catalog shown when none is configured.
func DefaultBoosts(torex string) []BoostConfig {
	return []BoostConfig{{
		Name:          "USDC / ETH",
		FromToken:     "USDC",
		ToToken:       "ETH",
		MonthlyVolume: "21,734.632",
		DailyRewards:  "15000 FLOW",
		APR:           "3.15%",
		Live:          true,
		Torex:         torex,
	}}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Chain.HTTPURL == "" {
		return fmt.Errorf("chain.http_url is required")
	}
	if c.Subgraph.URL == "" {
		return fmt.Errorf("subgraph.url is required")
	}

	addrs := map[string]string{
		"contracts.torex":           c.Contracts.Torex,
		"contracts.pool_admin":      c.Contracts.PoolAdmin,
		"contracts.macro_forwarder": c.Contracts.MacroForwarder,
		"contracts.sb_macro":        c.Contracts.SBMacro,
		"contracts.cfa_forwarder":   c.Contracts.CFAForwarder,
		"contracts.rewards":         c.Contracts.Rewards,
	}
	for key, addr := range addrs {
		if !common.IsHexAddress(addr) {
			return fmt.Errorf("invalid %s: %q", key, addr)
		}
	}
	if c.Contracts.AllowanceSpender != "" && !common.IsHexAddress(c.Contracts.AllowanceSpender) {
		return fmt.Errorf("invalid contracts.allowance_spender: %q", c.Contracts.AllowanceSpender)
	}
	if c.Wallet.Account != "" && !common.IsHexAddress(c.Wallet.Account) {
		return fmt.Errorf("invalid wallet.account: %q", c.Wallet.Account)
	}

	if c.Wallet.ConfirmationTimeout <= 0 {
		return fmt.Errorf("wallet.confirmation_timeout must be positive")
	}
	if c.Stream.FrameInterval <= 0 {
		return fmt.Errorf("stream.frame_interval must be positive")
	}
	if c.Transactions.RefreshDelay < 0 {
		return fmt.Errorf("transactions.refresh_delay cannot be negative")
	}
	if c.Transactions.ApproveGasLimit == 0 || c.Transactions.ExecuteGasLimit == 0 ||
		c.Transactions.DeleteGasLimit == 0 || c.Transactions.RegisterGasLimit == 0 {
		return fmt.Errorf("transactions gas limits must be non-zero")
	}
	return nil
}
