package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/shuttleroute-data/internal/api"
	"github.com/shuttleroute-data/internal/common/config"
	"github.com/shuttleroute-data/internal/common/logger"
	"github.com/shuttleroute-data/internal/engine"
	"github.com/shuttleroute-data/internal/feed"
	"github.com/shuttleroute-data/internal/maintenance"
	"github.com/shuttleroute-data/internal/metrics"
	"github.com/shuttleroute-data/internal/notify"
	"github.com/shuttleroute-data/internal/store"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log := logger.New(logger.Config{
		Level:      logger.ParseLogLevel(cfg.Logging.Level),
		Console:    true,
		FilePath:   cfg.Logging.FilePath,
		MaxSizeMB:  10,
		MaxBackups: 5,
		MaxAgeDays: 30,
		Compress:   true,
	})

	log.Info("Shuttle route service starting",
		"version", "1.0.0",
		"log_level", cfg.Logging.Level,
		"storage_backend", cfg.Storage.Backend,
		"http_addr", cfg.HTTP.Addr,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	scheduleStore, err := store.Open(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatal("Failed to open schedule store", "error", err)
	}
	defer scheduleStore.Close()

	var fanout notify.Fanout
	if cfg.Notify.NATSURL != "" {
		natsNotifier, err := notify.NewNATSNotifier(cfg.Notify.NATSURL, log)
		if err != nil {
			log.Fatal("Failed to connect notifier to NATS", "error", err)
		}
		defer natsNotifier.Close()
		fanout = append(fanout, natsNotifier)
	}
	if cfg.Notify.WebhookURL != "" {
		fanout = append(fanout, notify.NewWebhookNotifier(cfg.Notify.WebhookURL, log))
	}
	var notifier engine.Notifier
	if len(fanout) > 0 {
		notifier = fanout
	}

	var mcol *metrics.Collector
	if cfg.Metrics.Addr != "" {
		mcol = metrics.NewCollector()
	}

	route := engine.Route{
		Origin:       engine.Coordinate{Lat: cfg.Route.OriginLat, Lon: cfg.Route.OriginLon},
		Terminus:     engine.Coordinate{Lat: cfg.Route.TerminusLat, Lon: cfg.Route.TerminusLon},
		OriginName:   cfg.Route.OriginName,
		TerminusName: cfg.Route.TerminusName,
	}
	eng := engine.New(scheduleStore, route, log, engine.Options{
		FixFreshness: cfg.Engine.FixFreshness,
		Notifier:     notifier,
		Metrics:      mcol,
	})

	if cfg.Janitor.Interval > 0 {
		janitor := maintenance.NewJanitor(eng, log, maintenance.JanitorConfig{
			Interval:      cfg.Janitor.Interval,
			RetentionDays: cfg.Janitor.RetentionDays,
		})
		if err := janitor.Start(ctx); err != nil {
			log.Fatal("Failed to start schedule janitor", "error", err)
		}
		defer janitor.Stop()
	}

	// Optional live position feed over NATS (disabled unless a
	// subject is configured).
	if cfg.Feed.Subject != "" {
		if cfg.Notify.NATSURL == "" {
			log.Fatal("POSITION_FEED_SUBJECT requires NATS_URL")
		}
		feedManager := feed.NewManager(cfg.Notify.NATSURL, cfg.Feed.Subject, eng, log)
		if err := feedManager.Start(ctx); err != nil {
			log.Fatal("Failed to start position feed", "error", err)
		}
		defer feedManager.Stop()
	}

	app := api.NewServer(eng, log).App()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return app.Listen(cfg.HTTP.Addr)
	})
	g.Go(func() error {
		<-gctx.Done()
		return app.ShutdownWithTimeout(5 * time.Second)
	})
	if mcol != nil {
		srv := mcol.Serve(cfg.Metrics.Addr)
		log.Info("Metrics server listening", "addr", cfg.Metrics.Addr)
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer shutdownCancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("Service stopped with error", "error", err)
	}
	log.Info("Shuttle route service stopped")
}
