// Package config loads and validates application configuration.
//
// Sources, highest priority first:
//  1. Environment variables (PAGECHAT_* overrides)
//  2. Config file (~/.pagechat/config.yaml or ./config.yaml)
//  3. Defaults
//
// Provider API keys (GEMINI_API_KEY, OPENAI_API_KEY) are read directly by the
// Genkit plugins, not through viper; Validate only checks their presence for
// the selected provider.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

var (
	// ErrInvalidProvider indicates the AI provider is not supported.
	ErrInvalidProvider = errors.New("invalid provider")

	// ErrMissingAPIKey indicates the selected provider's API key is not set.
	ErrMissingAPIKey = errors.New("missing API key")

	// ErrInvalidModelName indicates the model name is empty.
	ErrInvalidModelName = errors.New("invalid model name")

	// ErrInvalidEmbedderModel indicates the embedder model is empty.
	ErrInvalidEmbedderModel = errors.New("invalid embedder model")

	// ErrInvalidOllamaHost indicates the Ollama host is malformed.
	ErrInvalidOllamaHost = errors.New("invalid Ollama host")

	// ErrInvalidScraperTimeout indicates the scraper timeout is out of range.
	ErrInvalidScraperTimeout = errors.New("invalid scraper timeout")
)

// AI provider identifiers used in Config.Provider.
const (
	ProviderGoogleAI = "googleai"
	ProviderOpenAI   = "openai"
	ProviderOllama   = "ollama"
)

// DefaultEmbedderModel is the default Gemini embedder model.
const DefaultEmbedderModel = "gemini-embedding-001"

// ScraperConfig holds page-fetching settings.
type ScraperConfig struct {
	UserAgent    string `mapstructure:"user_agent"`
	TimeoutMs    int    `mapstructure:"timeout_ms"`
	MaxBodyBytes int    `mapstructure:"max_body_bytes"`
}

// OTLPConfig holds optional trace export settings. Tracing is disabled when
// Endpoint is empty.
type OTLPConfig struct {
	Endpoint    string `mapstructure:"endpoint"`
	ServiceName string `mapstructure:"service_name"`
	Environment string `mapstructure:"environment"`
}

// Config stores application configuration.
type Config struct {
	// AI provider and model configuration
	Provider      string `mapstructure:"provider"`       // "googleai" (default), "openai", "ollama"
	ModelName     string `mapstructure:"model_name"`     // e.g. "gemini-2.5-flash", "gpt-4o-mini", "llama3.3"
	EmbedderModel string `mapstructure:"embedder_model"` // e.g. "gemini-embedding-001"

	// Ollama configuration (only used when provider is "ollama")
	OllamaHost string `mapstructure:"ollama_host"`

	// HTTP server configuration
	Addr        string   `mapstructure:"addr"`
	CORSOrigins []string `mapstructure:"cors_origins"`
	TrustProxy  bool     `mapstructure:"trust_proxy"` // trust X-Real-IP/X-Forwarded-For (behind reverse proxy)
	RateBurst   int      `mapstructure:"rate_burst"`  // per-IP token bucket burst (0 = default)

	// Page ingestion configuration
	Scraper ScraperConfig `mapstructure:"scraper"`

	// Observability configuration
	OTLP OTLPConfig `mapstructure:"otlp"`
}

// Load loads configuration.
// Priority: environment variables > configuration file > defaults.
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("getting user home directory: %w", err)
	}

	configDir := filepath.Join(home, ".pagechat")

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configDir)
	viper.AddConfigPath(".")

	setDefaults()
	bindEnvVariables()

	if err := viper.ReadInConfig(); err != nil {
		// A missing config file is fine; defaults and env cover everything.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		slog.Debug("configuration file not found, using defaults",
			"search_paths", []string{configDir, "."})
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets all default configuration values.
func setDefaults() {
	viper.SetDefault("provider", ProviderGoogleAI)
	viper.SetDefault("model_name", "gemini-2.5-flash")
	viper.SetDefault("embedder_model", DefaultEmbedderModel)

	viper.SetDefault("ollama_host", "http://localhost:11434")

	viper.SetDefault("addr", "127.0.0.1:8080")
	// Any origin: the service answers browser extensions and local pages alike.
	// Restrict via PAGECHAT_CORS_ORIGINS for anything beyond trusted deployments.
	viper.SetDefault("cors_origins", []string{"*"})
	viper.SetDefault("trust_proxy", false)
	viper.SetDefault("rate_burst", 60)

	viper.SetDefault("scraper.user_agent", "pagechat/1.0")
	viper.SetDefault("scraper.timeout_ms", 30000)
	viper.SetDefault("scraper.max_body_bytes", 10<<20)

	viper.SetDefault("otlp.endpoint", "")
	viper.SetDefault("otlp.service_name", "pagechat")
	viper.SetDefault("otlp.environment", "dev")
}

// bindEnvVariables binds the runtime-overridable keys explicitly.
// Provider API keys are deliberately absent: Genkit plugins read
// GEMINI_API_KEY and OPENAI_API_KEY from the environment themselves.
func bindEnvVariables() {
	// Hardcoded key pairs cannot fail to bind; a panic here is a bug.
	mustBind := func(key, envVar string) {
		if err := viper.BindEnv(key, envVar); err != nil {
			panic(fmt.Sprintf("BUG: failed to bind %q to %q: %v", key, envVar, err))
		}
	}

	mustBind("provider", "PAGECHAT_PROVIDER")
	mustBind("model_name", "PAGECHAT_MODEL")
	mustBind("embedder_model", "PAGECHAT_EMBEDDER")
	mustBind("ollama_host", "PAGECHAT_OLLAMA_HOST")

	mustBind("addr", "PAGECHAT_ADDR")
	mustBind("cors_origins", "PAGECHAT_CORS_ORIGINS")
	mustBind("trust_proxy", "PAGECHAT_TRUST_PROXY")
	mustBind("rate_burst", "PAGECHAT_RATE_BURST")

	mustBind("scraper.user_agent", "PAGECHAT_SCRAPER_USER_AGENT")
	mustBind("scraper.timeout_ms", "PAGECHAT_SCRAPER_TIMEOUT_MS")

	mustBind("otlp.endpoint", "PAGECHAT_OTLP_ENDPOINT")
	mustBind("otlp.service_name", "PAGECHAT_OTLP_SERVICE_NAME")
	mustBind("otlp.environment", "PAGECHAT_OTLP_ENVIRONMENT")
}

// Validate checks the configuration for structural problems and for the
// presence of the selected provider's credential. Fail-fast: called by Load.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderGoogleAI:
		if os.Getenv("GEMINI_API_KEY") == "" {
			return fmt.Errorf("%w: GEMINI_API_KEY is required for provider %q", ErrMissingAPIKey, c.Provider)
		}
	case ProviderOpenAI:
		if os.Getenv("OPENAI_API_KEY") == "" {
			return fmt.Errorf("%w: OPENAI_API_KEY is required for provider %q", ErrMissingAPIKey, c.Provider)
		}
	case ProviderOllama:
		if !strings.HasPrefix(c.OllamaHost, "http://") && !strings.HasPrefix(c.OllamaHost, "https://") {
			return fmt.Errorf("%w: %q must start with http:// or https://", ErrInvalidOllamaHost, c.OllamaHost)
		}
	default:
		return fmt.Errorf("%w: %q (supported: googleai, openai, ollama)", ErrInvalidProvider, c.Provider)
	}

	if strings.TrimSpace(c.ModelName) == "" {
		return fmt.Errorf("%w: model name must not be empty", ErrInvalidModelName)
	}
	if strings.TrimSpace(c.EmbedderModel) == "" {
		return fmt.Errorf("%w: embedder model must not be empty", ErrInvalidEmbedderModel)
	}
	if c.Scraper.TimeoutMs <= 0 {
		return fmt.Errorf("%w: timeout_ms must be positive, got %d", ErrInvalidScraperTimeout, c.Scraper.TimeoutMs)
	}

	return nil
}

// FullModelName returns the provider-qualified model name for Genkit.
// Examples: "googleai/gemini-2.5-flash", "openai/gpt-4o-mini", "ollama/llama3.3".
// A ModelName already containing "/" is returned as-is.
func (c *Config) FullModelName() string {
	if strings.Contains(c.ModelName, "/") {
		return c.ModelName
	}
	switch c.Provider {
	case ProviderOllama:
		return ProviderOllama + "/" + c.ModelName
	case ProviderOpenAI:
		return ProviderOpenAI + "/" + c.ModelName
	default:
		return ProviderGoogleAI + "/" + c.ModelName
	}
}
