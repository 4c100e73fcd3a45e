// Package main provides the scoring worker entry point.
// The worker consumes scoring tasks from the Redpanda queue and runs the
// assessment pipeline for completed interview sessions.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hireflow/candidate-assessor/internal/adapter/ai/openai"
	aistub "github.com/hireflow/candidate-assessor/internal/adapter/ai/stub"
	"github.com/hireflow/candidate-assessor/internal/adapter/observability"
	"github.com/hireflow/candidate-assessor/internal/adapter/queue/redpanda"
	"github.com/hireflow/candidate-assessor/internal/adapter/repo/postgres"
	"github.com/hireflow/candidate-assessor/internal/config"
	"github.com/hireflow/candidate-assessor/internal/domain"
	"github.com/hireflow/candidate-assessor/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", slog.Any("error", err))
		os.Exit(1)
	}

	logger := observability.SetupLogger(cfg)
	slog.SetDefault(logger)

	// Expose queue and scoring metrics on a dedicated endpoint so
	// Prometheus can scrape the worker process.
	observability.InitMetrics()
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		if err := http.ListenAndServe(":9090", mux); err != nil {
			slog.Error("worker metrics server error", slog.Any("error", err))
		}
	}()

	shutdownTracer, err := observability.SetupTracing(cfg)
	if err != nil {
		slog.Error("failed to setup tracing", slog.Any("error", err))
	}
	defer func() {
		if shutdownTracer != nil {
			_ = shutdownTracer(context.Background())
		}
	}()

	slog.Info("starting worker", slog.String("env", cfg.AppEnv))

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DBURL)
	if err != nil {
		slog.Error("database connection failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	sessRepo := postgres.NewSessionRepo(pool)
	transRepo := postgres.NewTranscriptRepo(pool)
	profRepo := postgres.NewProfileRepo(pool)
	scoreRepo := postgres.NewScoreRepo(pool)

	var aiClient domain.AIClient
	if cfg.AIEnabled() {
		aiClient = openai.New(cfg)
		slog.Info("ai client initialized", slog.String("model", cfg.ChatModel))
	} else {
		aiClient = aistub.New()
		slog.Info("ai client running in stub mode")
	}

	assessSvc := usecase.NewAssessmentService(sessRepo, transRepo, profRepo, scoreRepo, aiClient)

	consumer, err := redpanda.NewConsumer(
		cfg.KafkaBrokers,
		"candidate-assessor-workers",
		assessSvc,
		cfg.ConsumerMaxConcurrency,
	)
	if err != nil {
		slog.Error("redpanda consumer init failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer consumer.Close()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	slog.Info("starting redpanda consumer")
	go func() {
		if err := consumer.Start(runCtx); err != nil {
			slog.Error("consumer error", slog.Any("error", err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigCh
	slog.Info("signal received, shutting down", slog.String("signal", sig.String()))
	cancel()
	slog.Info("worker stopped")
}
