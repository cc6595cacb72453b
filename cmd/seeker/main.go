package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/jsseok/futseeker/config"
	"github.com/jsseok/futseeker/internal/cli"
	"github.com/jsseok/futseeker/internal/futbin"
	"github.com/jsseok/futseeker/internal/notify"
	"github.com/jsseok/futseeker/internal/scheduler"
	"github.com/jsseok/futseeker/internal/watch"
	"github.com/jsseok/futseeker/internal/watchlist"
	"github.com/jsseok/futseeker/logger"
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

	// The periodic check runs in the background while the menu stays
	// responsive in the foreground.
	sched := scheduler.New()
	if err := sched.AddJob(fmt.Sprintf("@every %s", cfg.CheckInterval), watch.NewJob(ev)); err != nil {
		log.Fatal().Err(err).Msg("Failed to schedule watchlist check")
	}
	sched.Start()
	defer sched.Stop()

	log.Info().
		Dur("check_interval", cfg.CheckInterval).
		Int("watched_items", store.Len()).
		Msg("Starting seeker")

	menu := cli.New(os.Stdin, os.Stdout, client, store, ev)
	menu.Run(ctx)
}
