// Command server starts the candidate assessment HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hireflow/candidate-assessor/internal/adapter/ai/openai"
	aistub "github.com/hireflow/candidate-assessor/internal/adapter/ai/stub"
	"github.com/hireflow/candidate-assessor/internal/adapter/cache"
	httpserver "github.com/hireflow/candidate-assessor/internal/adapter/httpserver"
	"github.com/hireflow/candidate-assessor/internal/adapter/observability"
	"github.com/hireflow/candidate-assessor/internal/adapter/queue/redpanda"
	"github.com/hireflow/candidate-assessor/internal/adapter/repo/postgres"
	tikaext "github.com/hireflow/candidate-assessor/internal/adapter/textextractor/tika"
	"github.com/hireflow/candidate-assessor/internal/app"
	"github.com/hireflow/candidate-assessor/internal/config"
	"github.com/hireflow/candidate-assessor/internal/domain"
	"github.com/hireflow/candidate-assessor/internal/extractor"
	"github.com/hireflow/candidate-assessor/internal/skills"
	"github.com/hireflow/candidate-assessor/internal/usecase"
)

// redisAdapter narrows *redis.Client to the readiness probe interface.
type redisAdapter struct{ *redis.Client }

func (r redisAdapter) Ping(ctx context.Context) app.RedisPingResult {
	return r.Client.Ping(ctx)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := observability.SetupLogger(cfg)
	slog.SetDefault(logger)

	observability.InitMetrics()

	shutdownTracer, err := observability.SetupTracing(cfg)
	if err != nil {
		slog.Error("failed to setup tracing", slog.Any("error", err))
	}
	defer func() {
		if shutdownTracer != nil {
			_ = shutdownTracer(context.Background())
		}
	}()

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DBURL)
	if err != nil {
		slog.Error("db connect failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	candRepo := postgres.NewCandidateRepo(pool)
	profRepo := postgres.NewProfileRepo(pool)
	skillRepo := postgres.NewSkillRepo(pool)
	sessRepo := postgres.NewSessionRepo(pool)
	transRepo := postgres.NewTranscriptRepo(pool)
	scoreRepo := postgres.NewScoreRepo(pool)

	producer, err := redpanda.NewProducer(cfg.KafkaBrokers)
	if err != nil {
		slog.Error("redpanda producer connect failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := producer.Close(); err != nil {
			slog.Error("failed to close queue producer", slog.Any("error", err))
		}
	}()

	// Conversational model: real client when a key is configured, the
	// deterministic stub otherwise.
	var aiClient domain.AIClient
	if cfg.AIEnabled() {
		aiClient = openai.New(cfg)
		slog.Info("ai client initialized", slog.String("model", cfg.ChatModel))
	} else {
		aiClient = aistub.New()
		slog.Info("ai client running in stub mode")
	}

	// Reply cache: injected collaborator, no-op unless enabled.
	var replyCache domain.ReplyCache = cache.NewNoop()
	var rdb *redis.Client
	if cfg.ReplyCacheEnabled {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			slog.Error("redis url invalid", slog.Any("error", err))
			os.Exit(1)
		}
		rdb = redis.NewClient(opts)
		defer func() { _ = rdb.Close() }()
		replyCache = cache.NewRedisWithClient(rdb, cfg.ReplyCacheTTL)
	}

	ex, err := extractor.New()
	if err != nil {
		slog.Error("extractor init failed", slog.Any("error", err))
		os.Exit(1)
	}

	text := tikaext.New(cfg.TikaURL)

	candSvc := usecase.NewCandidateService(candRepo, scoreRepo)
	intakeSvc := usecase.NewIntakeService(candRepo, profRepo, skills.NewService(skillRepo), ex, text)
	chatSvc := usecase.NewChatService(sessRepo, transRepo, profRepo, producer, aiClient, replyCache)
	chatSvc.AITimeout = cfg.AITimeout
	resultSvc := usecase.NewResultService(candRepo, scoreRepo)

	var redisClient app.RedisClient
	if rdb != nil {
		redisClient = redisAdapter{rdb}
	}
	dbCheck, redisCheck, tikaCheck := app.BuildReadinessChecks(cfg, pool, redisClient)
	if rdb == nil {
		redisCheck = nil
	}

	srv := httpserver.NewServer(cfg, candSvc, intakeSvc, chatSvc, resultSvc, dbCheck, redisCheck, tikaCheck)
	handler := app.BuildRouter(cfg, srv)

	srvHTTP := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadTimeout:       cfg.HTTPReadTimeout,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		IdleTimeout:       cfg.HTTPIdleTimeout,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server starting", slog.Int("port", cfg.Port))
		errCh <- srvHTTP.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", slog.Any("error", err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ServerShutdownTimeout)
	defer cancel()
	_ = srvHTTP.Shutdown(shutdownCtx)
}
