package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

// Config represents the application configuration
type Config struct {
	// Discord configuration
	BotToken   string
	WebhookURL string

	// Watchlist configuration
	WatchlistFile string
	CheckInterval time.Duration

	// Futbin configuration
	FutbinBaseURL string
	FutbinYear    string

	// Bot session configuration
	SessionTTL   time.Duration
	MemcacheAddr string

	// Optional Redis alert stream
	RedisAddr         string
	RedisDB           int
	RedisStream       string
	RedisStreamMaxLen int

	// Environment
	Environment string
}

// Load loads the configuration from environment variables with defaults
func Load() Config {
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	streamMaxLen, _ := strconv.Atoi(getEnv("REDIS_STREAM_MAXLEN", "500"))
	checkInterval, _ := strconv.Atoi(getEnv("CHECK_INTERVAL_MINUTES", "30"))
	sessionTTL, _ := strconv.Atoi(getEnv("SESSION_TTL_MINUTES", "15"))

	return Config{
		BotToken:          os.Getenv("DISCORD_BOT_TOKEN"),
		WebhookURL:        os.Getenv("DISCORD_WEBHOOK_URL"),
		WatchlistFile:     getEnv("WATCHLIST_FILE", "watchlist.json"),
		CheckInterval:     time.Duration(checkInterval) * time.Minute,
		FutbinBaseURL:     getEnv("FUTBIN_BASE_URL", "https://www.futbin.com"),
		FutbinYear:        getEnv("FUTBIN_YEAR", "25"),
		SessionTTL:        time.Duration(sessionTTL) * time.Minute,
		MemcacheAddr:      os.Getenv("MEMCACHE_ADDR"),
		RedisAddr:         os.Getenv("REDIS_ADDR"),
		RedisDB:           redisDB,
		RedisStream:       getEnv("REDIS_STREAM", "alerts"),
		RedisStreamMaxLen: streamMaxLen,
		Environment:       getEnv("SEEKER_ENVIRONMENT", "development"),
	}
}

// Validate checks that the configuration is usable
func (c Config) Validate() error {
	if c.CheckInterval <= 0 {
		return fmt.Errorf("check interval must be positive, got %s", c.CheckInterval)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("session TTL must be positive, got %s", c.SessionTTL)
	}
	if _, err := url.ParseRequestURI(c.FutbinBaseURL); err != nil {
		return fmt.Errorf("invalid futbin base URL %q: %w", c.FutbinBaseURL, err)
	}
	if c.WatchlistFile == "" {
		return fmt.Errorf("watchlist file path must not be empty")
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
