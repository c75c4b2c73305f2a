package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/sweetpotato0/ai-uigen/contrib/provider/gemini"
	"github.com/sweetpotato0/ai-uigen/pipeline"
)

// EnvPrefix prefixes every environment override, e.g. UIGEN_SERVER_ADDR.
const EnvPrefix = "UIGEN"

// Config is the full runtime configuration.
type Config struct {
	Gemini    GeminiConfig    `mapstructure:"gemini"`
	Retry     RetryConfig     `mapstructure:"retry"`
	Server    ServerConfig    `mapstructure:"server"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// GeminiConfig locates the model endpoint. APIKey is always injected from
// the environment or a config file.
type GeminiConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	Model   string        `mapstructure:"model"`
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// RetryConfig controls the backoff schedule.
type RetryConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts"`
	BaseDelay   time.Duration `mapstructure:"base_delay"`
}

// ServerConfig controls the web front end.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// TelemetryConfig controls tracing.
type TelemetryConfig struct {
	Disable      bool   `mapstructure:"disable"`
	ServiceName  string `mapstructure:"service_name"`
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
}

// GeminiProviderConfig converts to the provider's config type.
func (c GeminiConfig) GeminiProviderConfig() *gemini.Config {
	return &gemini.Config{
		APIKey:  c.APIKey,
		Model:   c.Model,
		BaseURL: c.BaseURL,
		Timeout: c.Timeout,
	}
}

// Load reads configuration from, in increasing precedence: defaults, the
// YAML file at path (optional), a .env file in the working directory
// (optional) and the process environment. The result is validated.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("gemini.api_key", EnvPrefix+"_GEMINI_API_KEY", "GEMINI_API_KEY"); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.model", gemini.DefaultModel)
	v.SetDefault("gemini.base_url", gemini.DefaultBaseURL)
	v.SetDefault("gemini.timeout", gemini.DefaultTimeout)
	v.SetDefault("retry.max_attempts", pipeline.DefaultMaxAttempts)
	v.SetDefault("retry.base_delay", pipeline.DefaultBaseDelay)
	v.SetDefault("server.addr", "127.0.0.1:8080")
	v.SetDefault("telemetry.disable", false)
	v.SetDefault("telemetry.service_name", "ai-uigen")
	v.SetDefault("telemetry.otlp_endpoint", "")
}

// Validate checks every section and joins the failures.
func (c *Config) Validate() error {
	return errors.Join(
		ValidateGeminiConfig(c.Gemini),
		ValidateRetryConfig(c.Retry),
		ValidateServerConfig(c.Server),
	)
}
