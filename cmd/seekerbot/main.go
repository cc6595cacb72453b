package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/jsseok/futseeker/config"
	"github.com/jsseok/futseeker/internal/bot"
	"github.com/jsseok/futseeker/internal/futbin"
	"github.com/jsseok/futseeker/internal/notify"
	"github.com/jsseok/futseeker/internal/scheduler"
	"github.com/jsseok/futseeker/internal/watch"
	"github.com/jsseok/futseeker/internal/watchlist"
	"github.com/jsseok/futseeker/logger"
	"github.com/jsseok/futseeker/services/cache"
	"github.com/jsseok/futseeker/services/publisher"
)

func main() {
	// Load environment variables
	godotenv.Load()

	// Initialize logger first
	logger.Init()
	log := logger.Default

	// Load and validate configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	if cfg.BotToken == "" {
		log.Fatal().Msg("DISCORD_BOT_TOKEN is required")
	}

	store := watchlist.NewStore(cfg.WatchlistFile)
	if err := store.Load(); err != nil {
		log.Fatal().Err(err).Msg("Failed to load watchlist")
	}

	client := futbin.NewClient(cfg.FutbinBaseURL, cfg.FutbinYear)

	notifiers := notify.Fanout{notify.NewLog()}
	if cfg.WebhookURL != "" {
		notifiers = append(notifiers, notify.NewWebhook(cfg.WebhookURL))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var pub publisher.Publisher
	if cfg.RedisAddr != "" {
		redisPub := publisher.NewRedisPublisher(ctx, cfg.RedisAddr, cfg.RedisDB, cfg.RedisStream, cfg.RedisStreamMaxLen)
		defer redisPub.Close()
		pub = redisPub
		log.Info().Str("addr", cfg.RedisAddr).Str("stream", cfg.RedisStream).Msg("Publishing alerts to Redis")
	}

	ev := watch.NewEvaluator(store, client, notifiers, pub)

	var sessionCache cache.CacheService = cache.NewMemory()
	if cfg.MemcacheAddr != "" {
		sessionCache = cache.NewMemcache(cfg.MemcacheAddr)
		log.Info().Str("addr", cfg.MemcacheAddr).Msg("Using memcached for bot sessions")
	}
	sessions := bot.NewSessions(sessionCache, cfg.SessionTTL)

	b, err := bot.New(cfg.BotToken, client, store, sessions, ev)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create bot")
	}
	if err := b.Open(); err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Discord")
	}
	defer b.Close()

	sched := scheduler.New()
	if err := sched.AddJob(fmt.Sprintf("@every %s", cfg.CheckInterval), watch.NewJob(ev)); err != nil {
		log.Fatal().Err(err).Msg("Failed to schedule watchlist check")
	}
	sched.Start()
	defer sched.Stop()

	log.Info().
		Dur("check_interval", cfg.CheckInterval).
		Int("watched_items", store.Len()).
		Msg("Bot running, press Ctrl+C to exit")

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan

	log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
	cancel()
	log.Info().Msg("Shutting down gracefully...")
}
