package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"portfolio-backend/internal/llm"
)

type Config struct {
	// Server
	Port string
	Env  string

	// Storage
	StoreDriver string `validate:"oneof=postgres sqlite memory"`
	DatabaseURL string `validate:"required_if=StoreDriver postgres"`
	SQLitePath  string `validate:"required_if=StoreDriver sqlite"`

	// Persistence queue
	PersistMode string `validate:"oneof=direct queue"`
	RedisURL    string `validate:"required_if=PersistMode queue"`
	WorkerCount int    `validate:"min=1,max=64"`

	// Frontend
	FrontendURL string

	// Logging
	LogLevel  string `validate:"oneof=debug info warn warning error"`
	LogFormat string `validate:"oneof=text json"`

	// Chat
	RequestTimeout    time.Duration `validate:"gt=0"`
	ProviderTimeout   time.Duration `validate:"gt=0"`
	MaxTokens         int           `validate:"min=1,max=8192"`
	Temperature       float64       `validate:"gte=0,lte=2"`
	HistoryLimit      int           `validate:"min=1,max=500"`
	ChatRatePerMinute int           `validate:"min=0"`

	// Assistant
	AssistantConfigPath string
	Persona             string
	ContextBlock        string
	CannedReplies       []string
	Providers           []ProviderConfig `validate:"dive"`

	// SkippedProviders names file providers whose key variable was unset.
	SkippedProviders []string
}

// ProviderConfig describes one completion provider, from the environment or
// the assistant file.
type ProviderConfig struct {
	Name      string `toml:"name" validate:"required"`
	Kind      string `toml:"kind" validate:"oneof=openai gemini"`
	APIKeyEnv string `toml:"api_key_env"`
	BaseURL   string `toml:"base_url" validate:"required_if=Kind openai"`
	Model     string `toml:"model" validate:"required"`
	APIKey    string `toml:"-" validate:"required"`
}

// Load reads the environment (and .env when present) plus the optional
// assistant file, then validates the result.
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Port:                getEnvOrDefault("PORT", "8080"),
		Env:                 getEnvOrDefault("ENV", "development"),
		StoreDriver:         getEnvOrDefault("STORE_DRIVER", "memory"),
		DatabaseURL:         getEnvOrDefault("DATABASE_URL", ""),
		SQLitePath:          getEnvOrDefault("SQLITE_PATH", "./data/chat.db"),
		PersistMode:         getEnvOrDefault("PERSIST_MODE", "direct"),
		RedisURL:            getEnvOrDefault("REDIS_URL", ""),
		WorkerCount:         getEnvAsIntOrDefault("WORKER_COUNT", 2),
		FrontendURL:         getEnvOrDefault("FRONTEND_URL", "http://localhost:3000"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "text"),
		RequestTimeout:      getEnvAsDurationOrDefault("CHAT_REQUEST_TIMEOUT", 60*time.Second),
		ProviderTimeout:     getEnvAsDurationOrDefault("PROVIDER_TIMEOUT", 30*time.Second),
		MaxTokens:           getEnvAsIntOrDefault("CHAT_MAX_TOKENS", 500),
		Temperature:         getEnvAsFloatOrDefault("CHAT_TEMPERATURE", 0.7),
		HistoryLimit:        getEnvAsIntOrDefault("CHAT_HISTORY_LIMIT", 50),
		ChatRatePerMinute:   getEnvAsIntOrDefault("CHAT_RATE_PER_MINUTE", 20),
		AssistantConfigPath: getEnvOrDefault("ASSISTANT_CONFIG", "assistant.toml"),
	}

	cfg.Providers = envProviders()

	file, err := LoadAssistantFile(cfg.AssistantConfigPath)
	if err != nil {
		return nil, err
	}
	cfg.applyAssistantFile(file)

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Registry builds the provider registry in configured order.
func (c *Config) Registry() *llm.Registry {
	providers := make([]llm.Provider, 0, len(c.Providers))
	for _, p := range c.Providers {
		providers = append(providers, llm.Provider{
			Name:    p.Name,
			Kind:    llm.Kind(p.Kind),
			APIKey:  p.APIKey,
			BaseURL: p.BaseURL,
			Model:   p.Model,
		})
	}
	return llm.NewRegistry(providers...)
}

// envProviders registers the providers configured through well-known
// variables, in trial order.
func envProviders() []ProviderConfig {
	var out []ProviderConfig

	deepseekKey := getEnvOrDefault("DEEPSEEK_API_KEY", os.Getenv("NEXT_PUBLIC_DEEPSEEK_API_KEY"))
	if deepseekKey != "" {
		out = append(out, ProviderConfig{
			Name:    "deepseek",
			Kind:    string(llm.KindOpenAI),
			BaseURL: getEnvOrDefault("DEEPSEEK_BASE_URL", "https://api.deepseek.com"),
			Model:   getEnvOrDefault("DEEPSEEK_MODEL", "deepseek-chat"),
			APIKey:  deepseekKey,
		})
	}

	if key := os.Getenv("XAI_API_KEY"); key != "" {
		out = append(out, ProviderConfig{
			Name:    "xai",
			Kind:    string(llm.KindOpenAI),
			BaseURL: getEnvOrDefault("XAI_BASE_URL", "https://api.x.ai/v1"),
			Model:   getEnvOrDefault("XAI_MODEL", "grok-3-mini"),
			APIKey:  key,
		})
	}

	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		out = append(out, ProviderConfig{
			Name:   "gemini",
			Kind:   string(llm.KindGemini),
			Model:  getEnvOrDefault("GEMINI_MODEL", "gemini-2.0-flash"),
			APIKey: key,
		})
	}

	return out
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}

func getEnvAsFloatOrDefault(key string, defaultVal float64) float64 {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return defaultVal
	}
	return f
}

// getEnvAsDurationOrDefault accepts Go duration strings ("45s") or a bare
// number of seconds.
func getEnvAsDurationOrDefault(key string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	if d, err := time.ParseDuration(val); err == nil {
		return d
	}
	if n, err := strconv.Atoi(val); err == nil {
		return time.Duration(n) * time.Second
	}
	return defaultVal
}

func (c *Config) String() string {
	return fmt.Sprintf("env=%s store=%s persist=%s providers=%d", c.Env, c.StoreDriver, c.PersistMode, len(c.Providers))
}
