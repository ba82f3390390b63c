package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pribylovaa/go-news-aggregator/briefing-service/internal/config"
	logctx "github.com/pribylovaa/go-news-aggregator/briefing-service/internal/pkg/log"
	"github.com/pribylovaa/go-news-aggregator/briefing-service/internal/rss"
	"github.com/pribylovaa/go-news-aggregator/briefing-service/internal/scheduler"
	"github.com/pribylovaa/go-news-aggregator/briefing-service/internal/scriptgen"
	"github.com/pribylovaa/go-news-aggregator/briefing-service/internal/service"
	"github.com/pribylovaa/go-news-aggregator/briefing-service/internal/storage/minio"
	"github.com/pribylovaa/go-news-aggregator/briefing-service/internal/storage/postgres"
	transport "github.com/pribylovaa/go-news-aggregator/briefing-service/internal/transport/http"
	"github.com/pribylovaa/go-news-aggregator/briefing-service/internal/tts"
)

// Константы для определения окружения.
const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "path to config file (overrides CONFIG_PATH env)")
	flag.Parse()

	cfg := config.MustLoad(configPath)

	log := setupLogger(cfg.Env)
	slog.SetDefault(log)
	log.Info("starting briefing-service", "env", cfg.Env)

	rootCtx, rootCancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	rootCtx = logctx.Into(rootCtx, log)

	dbCtx, dbCancel := context.WithTimeout(rootCtx, 10*time.Second)
	store, err := postgres.New(dbCtx, cfg.Postgres.URL)
	dbCancel()
	if err != nil {
		log.Error("postgres_connect_failed", slog.String("err", err.Error()))
		rootCancel()
		os.Exit(1)
	}
	log.Info("postgres_connected")

	s3Ctx, s3Cancel := context.WithTimeout(rootCtx, 10*time.Second)
	audio, err := minio.New(s3Ctx, cfg)
	s3Cancel()
	if err != nil {
		log.Error("s3_connect_failed", slog.String("err", err.Error()))
		rootCancel()
		store.Close()
		os.Exit(1)
	}
	log.Info("s3_connected", slog.String("bucket", cfg.S3.Bucket))

	httpClient := &http.Client{Timeout: cfg.Pipeline.FeedTimeout + 5*time.Second}
	fetcher := rss.New(httpClient, cfg.Pipeline.FeedTimeout, cfg.Pipeline.ItemsPerFeed, 0)
	scripts := scriptgen.New(cfg.LLM)
	speech := tts.New(cfg.TTS)

	svc := service.New(store, audio, fetcher, scripts, speech, *cfg)
	log.Info("service_initialized")

	sched := scheduler.New(svc, store, cfg.Pipeline.ScheduleTick)
	go sched.Run(rootCtx)

	router := transport.NewRouter(svc, transport.Options{
		Logger:  log,
		Timeout: cfg.Timeouts.Service,
	})

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info("http_listen_start", slog.String("addr", srv.Addr))

	serveErrCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErrCh <- err
		}
		close(serveErrCh)
	}()

	select {
	case <-rootCtx.Done():
		log.Info("shutdown_requested")
	case err := <-serveErrCh:
		if err != nil {
			log.Error("http_serve_failed", slog.String("err", err.Error()))
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http_force_stop", slog.String("err", err.Error()))
		_ = srv.Close()
	} else {
		log.Info("http_stopped")
	}

	shutdownCancel()
	rootCancel()
	store.Close()

	log.Info("service_stopped")
	os.Exit(0)
}

// setupLogger настраивает slog по окружению.
func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	}

	return log
}
