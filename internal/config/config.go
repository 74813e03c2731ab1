// Package config provides configuration loading and validation.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	App       AppConfig               `mapstructure:"app"`
	Ethereum  EthereumConfig          `mapstructure:"ethereum"`
	Sources   map[string]SourceConfig `mapstructure:"sources"`
	Telemetry TelemetryConfig         `mapstructure:"telemetry"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	LogLevel    string `mapstructure:"log_level"`
}

// EthereumConfig holds RPC node configuration for the gas oracle.
type EthereumConfig struct {
	HTTPURL string `mapstructure:"http_url"`
	ChainID uint64 `mapstructure:"chain_id"`
}

// SourceConfig holds per-aggregator settings. The map key in
// Config.Sources is the source name (openocean, kyberswap, ...).
type SourceConfig struct {
	Enabled           bool          `mapstructure:"enabled"`
	BaseURL           string        `mapstructure:"base_url"`
	APIKey            string        `mapstructure:"api_key"`
	RequestsPerMinute int           `mapstructure:"requests_per_minute"`
	Timeout           time.Duration `mapstructure:"timeout"`
}

// TelemetryConfig holds observability configuration.
type TelemetryConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	ServiceName    string `mapstructure:"service_name"`
	OTLPEndpoint   string `mapstructure:"otlp_endpoint"`
	PrometheusPort int    `mapstructure:"prometheus_port"`
	HealthPort     int    `mapstructure:"health_port"`
}

// SourceNames lists every source with built-in support, in dispatch
// order.
var SourceNames = []string{
	"openocean",
	"kyberswap",
	"zerox",
	"oneinch",
	"cowswap",
	"lifi",
	"velora",
	"enso",
}

// Source returns the configuration for a source, falling back to an
// enabled zero config so sources work out of the box with public
// endpoints.
func (c *Config) Source(name string) SourceConfig {
	if sc, ok := c.Sources[name]; ok {
		return sc
	}
	return SourceConfig{Enabled: true}
}

// EnabledSources returns the source names that are not disabled,
// preserving dispatch order.
func (c *Config) EnabledSources() []string {
	out := make([]string, 0, len(SourceNames))
	for _, name := range SourceNames {
		if c.Source(name).Enabled {
			out = append(out, name)
		}
	}
	return out
}

// Load loads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables
	v.SetEnvPrefix("QMX")
	v.AutomaticEnv()

	bindEnvVars(v)
	setDefaults(v)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, use env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func bindEnvVars(v *viper.Viper) {
	// App
	v.BindEnv("app.name", "QMX_APP_NAME", "SERVICE_NAME")
	v.BindEnv("app.environment", "QMX_ENVIRONMENT", "ENVIRONMENT")
	v.BindEnv("app.log_level", "QMX_LOG_LEVEL", "LOG_LEVEL")

	// Ethereum
	v.BindEnv("ethereum.http_url", "QMX_ETH_HTTP_URL", "ETH_HTTP_URL")
	v.BindEnv("ethereum.chain_id", "QMX_ETH_CHAIN_ID", "ETH_CHAIN_ID")

	// API keys for sources that need them
	v.BindEnv("sources.zerox.api_key", "QMX_ZEROX_API_KEY", "ZEROX_API_KEY")
	v.BindEnv("sources.oneinch.api_key", "QMX_ONEINCH_API_KEY", "ONEINCH_API_KEY")
	v.BindEnv("sources.enso.api_key", "QMX_ENSO_API_KEY", "ENSO_API_KEY")
	v.BindEnv("sources.lifi.api_key", "QMX_LIFI_API_KEY", "LIFI_API_KEY")

	// Telemetry
	v.BindEnv("telemetry.enabled", "QMX_OTEL_ENABLED", "OTEL_ENABLED")
	v.BindEnv("telemetry.service_name", "QMX_OTEL_SERVICE_NAME", "OTEL_SERVICE_NAME")
	v.BindEnv("telemetry.otlp_endpoint", "QMX_OTEL_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT")
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "quotemux")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	// Ethereum defaults
	v.SetDefault("ethereum.chain_id", 1)

	// Source defaults
	for _, name := range SourceNames {
		v.SetDefault("sources."+name+".enabled", true)
		v.SetDefault("sources."+name+".requests_per_minute", 60)
		v.SetDefault("sources."+name+".timeout", "10s")
	}

	// Telemetry defaults
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", "quotemux")
	v.SetDefault("telemetry.prometheus_port", 9090)
	v.SetDefault("telemetry.health_port", 8081)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	for name, sc := range c.Sources {
		if sc.RequestsPerMinute < 0 {
			return fmt.Errorf("sources.%s.requests_per_minute cannot be negative", name)
		}
		if sc.Timeout < 0 {
			return fmt.Errorf("sources.%s.timeout cannot be negative", name)
		}
	}
	if c.Telemetry.Enabled && c.Telemetry.PrometheusPort <= 0 {
		return fmt.Errorf("telemetry.prometheus_port must be positive when telemetry is enabled")
	}
	return nil
}
