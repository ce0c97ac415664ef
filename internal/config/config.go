package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Provider names accepted in PROFILE_PROVIDER.
const (
	ProviderGemini = "gemini"
	ProviderClaude = "claude"
	ProviderNone   = "none"
)

type Config struct {
	Port     string
	LogLevel string

	// Auth
	APIKey string

	// Profile generation
	Provider        string
	GeminiAPIKeys   []string
	GeminiModels    []string
	AnthropicAPIKey string
	AnthropicModel  string
	ProfileCacheTTL time.Duration
	StatsWindow     time.Duration

	// Worker pool
	WorkerCount  int
	MaxQueueSize int
	MaxRetries   int

	// Upload limits
	MaxUploadBytes int64

	// Job state
	JobTTL time.Duration

	// PDF
	PDFFallbackPdftotext bool
}

func defaults() Config {
	return Config{
		Port:                 "8090",
		LogLevel:             "info",
		Provider:             ProviderGemini,
		AnthropicModel:       "claude-sonnet-4-5-20250929",
		ProfileCacheTTL:      time.Hour,
		StatsWindow:          time.Hour,
		WorkerCount:          4,
		MaxQueueSize:         100,
		MaxRetries:           3,
		MaxUploadBytes:       20 << 20, // 20MB
		JobTTL:               time.Hour,
		PDFFallbackPdftotext: true,
	}
}

// Load builds the configuration from, in increasing precedence: built-in
// defaults, the TOML file named by MATEGEST_CONFIG, and the environment.
// A .env file in the working directory is loaded into the environment
// first; variables already set are not overwritten.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := defaults()
	if path := os.Getenv("MATEGEST_CONFIG"); path != "" {
		fc, err := LoadFile(path)
		if err != nil {
			return Config{}, err
		}
		fc.apply(&cfg)
	}

	cfg.Port = envOr("PORT", cfg.Port)
	cfg.LogLevel = envOr("LOG_LEVEL", cfg.LogLevel)
	cfg.APIKey = envOr("MATEGEST_API_KEY", cfg.APIKey)

	cfg.Provider = strings.ToLower(envOr("PROFILE_PROVIDER", cfg.Provider))
	cfg.GeminiAPIKeys = envKeys("GEMINI_API_KEY", cfg.GeminiAPIKeys)
	cfg.GeminiModels = envList("GEMINI_MODELS", cfg.GeminiModels)
	cfg.AnthropicAPIKey = envOr("ANTHROPIC_API_KEY", cfg.AnthropicAPIKey)
	cfg.AnthropicModel = envOr("ANTHROPIC_MODEL", cfg.AnthropicModel)
	cfg.ProfileCacheTTL = envDuration("PROFILE_CACHE_TTL", cfg.ProfileCacheTTL)
	cfg.StatsWindow = envDuration("STATS_WINDOW", cfg.StatsWindow)

	cfg.WorkerCount = envInt("WORKER_COUNT", cfg.WorkerCount)
	cfg.MaxQueueSize = envInt("MAX_QUEUE_SIZE", cfg.MaxQueueSize)
	cfg.MaxRetries = envInt("MAX_RETRIES", cfg.MaxRetries)
	cfg.MaxUploadBytes = envInt64("MAX_UPLOAD_BYTES", cfg.MaxUploadBytes)
	cfg.JobTTL = envDuration("JOB_TTL", cfg.JobTTL)
	cfg.PDFFallbackPdftotext = envBool("PDF_FALLBACK_PDFTOTEXT", cfg.PDFFallbackPdftotext)

	cfg.clamp()
	return cfg, nil
}

func (c *Config) clamp() {
	d := defaults()
	if c.WorkerCount <= 0 {
		c.WorkerCount = d.WorkerCount
	}
	if c.MaxQueueSize <= 0 {
		c.MaxQueueSize = d.MaxQueueSize
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = d.MaxRetries
	}
	if c.MaxUploadBytes <= 0 {
		c.MaxUploadBytes = d.MaxUploadBytes
	}
	if c.JobTTL <= 0 {
		c.JobTTL = d.JobTTL
	}
	if c.ProfileCacheTTL <= 0 {
		c.ProfileCacheTTL = d.ProfileCacheTTL
	}
	if c.StatsWindow <= 0 {
		c.StatsWindow = d.StatsWindow
	}
}

func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("MATEGEST_API_KEY is required")
	}
	switch c.Provider {
	case ProviderGemini:
		if len(c.GeminiAPIKeys) == 0 {
			return fmt.Errorf("at least one GEMINI_API_KEY is required for provider %q", c.Provider)
		}
	case ProviderClaude:
		if c.AnthropicAPIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required for provider %q", c.Provider)
		}
	case ProviderNone:
	default:
		return fmt.Errorf("unknown PROFILE_PROVIDER %q", c.Provider)
	}
	return nil
}

// SlogLevel maps LogLevel onto a slog level, defaulting to info.
func (c Config) SlogLevel() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return l
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

// envList splits a comma-separated variable, dropping blanks.
func envList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return splitList(v)
}

// envKeys collects KEY plus the numbered KEY_1..KEY_9 variables.
func envKeys(key string, fallback []string) []string {
	var keys []string
	keys = append(keys, splitList(os.Getenv(key))...)
	for i := 1; i <= 9; i++ {
		if v := strings.TrimSpace(os.Getenv(fmt.Sprintf("%s_%d", key, i))); v != "" {
			keys = append(keys, v)
		}
	}
	if len(keys) == 0 {
		return fallback
	}
	return keys
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
