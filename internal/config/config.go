package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
// It is the single source of truth for runtime parameters.
type Config struct {
	Port string
	Env  string

	Backend   BackendConfig
	Site      SiteConfig
	Redis     RedisConfig
	Worker    WorkerConfig
	RateLimit RateLimitConfig

	CORSAllowedOrigins []string
}

// BackendConfig describes the Backend Gateway the storefront forwards to.
type BackendConfig struct {
	URL            string
	Timeout        time.Duration
	SaveTimeout    time.Duration
	SitemapTimeout time.Duration
}

// SiteConfig contains public site parameters.
type SiteConfig struct {
	URL         string
	EnableAISEO bool
}

// RedisConfig contains Redis connection parameters. An empty Host disables
// the edge response cache.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// Enabled reports whether a Redis host is configured.
func (r RedisConfig) Enabled() bool {
	return r.Host != ""
}

// WorkerConfig contains interval configuration for background workers.
type WorkerConfig struct {
	CountdownTick            time.Duration
	FlashSaleRefreshInterval time.Duration
	SettingsRefreshInterval  time.Duration
	SaveQueueSize            int
}

// RateLimitConfig bounds outbound marketplace searches and inbound clients.
type RateLimitConfig struct {
	MarketplaceRPS   float64
	MarketplaceBurst int
	ClientRPS        float64
	ClientBurst      int
}

// Load reads configuration from environment variables. If a .env file exists
// in the working directory, it will be loaded first. It returns a populated
// Config or an error with a human-friendly message.
func Load() (*Config, error) {
	// Missing .env is fine; production relies on real environment variables.
	_ = godotenv.Load()

	cfg := &Config{}

	// Server
	cfg.Port = getEnv("PORT", "8080")
	cfg.Env = getEnv("ENV", "development")
	cfg.CORSAllowedOrigins = splitList(getEnv("CORS_ALLOWED_ORIGINS", "*"))

	// Backend Gateway
	cfg.Backend.URL = strings.TrimRight(getEnvFallback("BACKEND_URL", "NEXT_PUBLIC_BACKEND_URL", "http://localhost:3002"), "/")

	// Site
	cfg.Site = SiteConfig{
		URL:         strings.TrimRight(getEnvFallback("SITE_URL", "NEXT_PUBLIC_SITE_URL", "https://shonra.com"), "/"),
		EnableAISEO: getEnvFallback("ENABLE_AI_SEO", "NEXT_PUBLIC_ENABLE_AI_SEO", "false") == "true",
	}

	// Redis
	cfg.Redis = RedisConfig{
		Host:     getEnv("REDIS_HOST", ""),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvInt("REDIS_DB", 0),
	}

	// Rate limits
	cfg.RateLimit = RateLimitConfig{
		MarketplaceRPS:   getEnvFloat("MARKETPLACE_RPS", 5),
		MarketplaceBurst: getEnvInt("MARKETPLACE_BURST", 10),
		ClientRPS:        getEnvFloat("CLIENT_RPS", 2),
		ClientBurst:      getEnvInt("CLIENT_BURST", 5),
	}

	cfg.Worker.SaveQueueSize = getEnvInt("SAVE_QUEUE_SIZE", 256)

	// Durations
	var err error
	if cfg.Backend.Timeout, err = parseDurationEnv("GATEWAY_TIMEOUT", "15s"); err != nil {
		return nil, fmt.Errorf("invalid GATEWAY_TIMEOUT: %w", err)
	}
	if cfg.Backend.SaveTimeout, err = parseDurationEnv("SAVE_TIMEOUT", "30s"); err != nil {
		return nil, fmt.Errorf("invalid SAVE_TIMEOUT: %w", err)
	}
	if cfg.Backend.SitemapTimeout, err = parseDurationEnv("SITEMAP_TIMEOUT", "3s"); err != nil {
		return nil, fmt.Errorf("invalid SITEMAP_TIMEOUT: %w", err)
	}
	if cfg.Worker.CountdownTick, err = parseDurationEnv("COUNTDOWN_TICK", "1s"); err != nil {
		return nil, fmt.Errorf("invalid COUNTDOWN_TICK: %w", err)
	}
	if cfg.Worker.FlashSaleRefreshInterval, err = parseDurationEnv("FLASH_SALE_REFRESH_INTERVAL", "5m"); err != nil {
		return nil, fmt.Errorf("invalid FLASH_SALE_REFRESH_INTERVAL: %w", err)
	}
	if cfg.Worker.SettingsRefreshInterval, err = parseDurationEnv("SETTINGS_REFRESH_INTERVAL", "1m"); err != nil {
		return nil, fmt.Errorf("invalid SETTINGS_REFRESH_INTERVAL: %w", err)
	}

	for _, d := range []struct {
		key   string
		value time.Duration
	}{
		{"GATEWAY_TIMEOUT", cfg.Backend.Timeout},
		{"SAVE_TIMEOUT", cfg.Backend.SaveTimeout},
		{"SITEMAP_TIMEOUT", cfg.Backend.SitemapTimeout},
		{"COUNTDOWN_TICK", cfg.Worker.CountdownTick},
		{"FLASH_SALE_REFRESH_INTERVAL", cfg.Worker.FlashSaleRefreshInterval},
		{"SETTINGS_REFRESH_INTERVAL", cfg.Worker.SettingsRefreshInterval},
	} {
		if d.value <= 0 {
			return nil, fmt.Errorf("%s must be greater than zero", d.key)
		}
	}
	if !strings.HasPrefix(cfg.Backend.URL, "http://") && !strings.HasPrefix(cfg.Backend.URL, "https://") {
		return nil, fmt.Errorf("BACKEND_URL must be an http(s) URL, got %q", cfg.Backend.URL)
	}

	return cfg, nil
}

// IsProduction reports whether the service runs with ENV=production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// getEnv returns the value of an environment variable or a default if empty.
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getEnvFallback tries key, then the legacy key, then the default.
func getEnvFallback(key, legacy, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return getEnv(legacy, def)
}

// getEnvInt returns the value of an environment variable as an integer or a default if empty/invalid.
func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func getEnvFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parseDurationEnv reads an environment variable and parses it as time.Duration.
// If the variable is empty, it falls back to the provided default value.
func parseDurationEnv(key, def string) (time.Duration, error) {
	raw := getEnv(key, def)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("duration must be >= 0")
	}
	return d, nil
}
