package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/spacesedan/moodmeter/config"
	"github.com/spacesedan/moodmeter/internal/clients"
	"github.com/spacesedan/moodmeter/internal/db"
	"github.com/spacesedan/moodmeter/internal/logging"
	"github.com/spacesedan/moodmeter/internal/metrics"
	"github.com/spacesedan/moodmeter/internal/monitoring"
	"github.com/spacesedan/moodmeter/internal/sentiment"
	"github.com/spacesedan/moodmeter/internal/server"
	"github.com/spacesedan/moodmeter/internal/uploads"
)

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)

	cfg, err := config.FromEnv()
	if err != nil {
		logging.InitLogger("info")
		slog.Error("[Main] Invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logging.InitLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var background sync.WaitGroup

	// The journal outlives the signal context so uploads still draining
	// during shutdown reach its final flush.
	journalCtx, cancelJournal := context.WithCancel(context.Background())
	defer cancelJournal()
	var journalDone sync.WaitGroup

	var scorer sentiment.Scorer = sentiment.NewVaderScorer(cfg.MarkdownCleanup)
	var cacheHealthy *atomic.Bool
	if cfg.CacheEnabled() {
		cache, err := clients.NewValkeyClient(clients.ValkeyOptions{
			Address:  cfg.ValkeyAddress,
			Password: cfg.ValkeyPassword,
			UseTLS:   cfg.ValkeyTLS,
			TTL:      cfg.CacheTTL,
		})
		if err != nil {
			slog.Warn("[Main] Polarity cache unavailable, scoring without it",
				slog.String("error", err.Error()))
		} else {
			defer cache.Close()
			scorer = sentiment.NewCachedScorer(scorer, cache, metrics.ObserveCacheLookup)

			cacheHealthy = &atomic.Bool{}
			cacheHealthy.Store(true)
			background.Add(1)
			go func() {
				defer background.Done()
				monitoring.MonitorCacheHealth(ctx, cache, cacheHealthy, monitoring.HEALTHCHECK_INTERVAL)
			}()
		}
	}

	var journal server.UploadRecorder
	if cfg.JournalEnabled() {
		client, err := clients.NewDynamoDBClient(ctx, clients.AWSOptions{
			Region:   cfg.AWSRegion,
			Endpoint: cfg.AWSEndpoint,
		})
		if err != nil {
			slog.Warn("[Main] Upload journal unavailable",
				slog.String("error", err.Error()))
		} else {
			uploadJournal := db.NewUploadJournal(client, cfg.UploadJournalTable)
			journal = uploadJournal
			journalDone.Add(1)
			go func() {
				defer journalDone.Done()
				uploadJournal.Run(journalCtx)
			}()
		}
	}

	store, err := uploads.NewStore(cfg.UploadDir, cfg.AllowedExtensions)
	if err != nil {
		slog.Error("[Main] Failed to prepare upload store", slog.String("error", err.Error()))
		os.Exit(1)
	}
	slog.Info("[Main] Upload store ready", slog.String("dir", store.Dir()))

	srv, err := server.NewServer(server.Options{
		Config:       cfg,
		Analyzer:     sentiment.NewAnalyzer(scorer, sentiment.WithMaxCommentChars(cfg.MaxCommentChars)),
		Store:        store,
		Journal:      journal,
		CacheHealthy: cacheHealthy,
	})
	if err != nil {
		slog.Error("[Main] Failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("[Main] Server stopped", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("[Main] Shutting down...")

	shutdown(srv, cfg.ShutdownTimeout, func() {
		cancelJournal()
		journalDone.Wait()
	})

	background.Wait()
	slog.Info("[Main] Shutdown complete")
}

type shutdowner interface {
	Shutdown(ctx context.Context) error
}

// shutdown drains the server before stopping the journal, so records made by
// in-flight uploads are part of the final flush.
func shutdown(srv shutdowner, timeout time.Duration, stopJournal func()) {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("[Main] Graceful shutdown failed", slog.String("error", err.Error()))
	}

	stopJournal()
}
