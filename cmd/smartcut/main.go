package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/cineai/smartcut/internal/config"
	"github.com/cineai/smartcut/internal/db"
	dbRedis "github.com/cineai/smartcut/internal/db/redis"
	"github.com/cineai/smartcut/internal/domain"
	"github.com/cineai/smartcut/internal/extractor"
	"github.com/cineai/smartcut/internal/index"
	logpkg "github.com/cineai/smartcut/internal/logger"
	"github.com/cineai/smartcut/internal/metrics"
	"github.com/cineai/smartcut/internal/repository/embcache"
	runrepo "github.com/cineai/smartcut/internal/repository/run"
	takerepo "github.com/cineai/smartcut/internal/repository/take"
	chiTransport "github.com/cineai/smartcut/internal/transport/chi"
	openaiEmb "github.com/cineai/smartcut/internal/transport/openai"
	healthuc "github.com/cineai/smartcut/internal/usecase/health"
	pipelineuc "github.com/cineai/smartcut/internal/usecase/pipeline"
	searchuc "github.com/cineai/smartcut/internal/usecase/search"
	takeuc "github.com/cineai/smartcut/internal/usecase/take"
	"github.com/cineai/smartcut/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting smartcut API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	// Wait for database to be ready
	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register metrics explicitly (no init())
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterPipelineMetrics()

	modelTag := domain.ModelTag(cfg.Embedding.Provider, cfg.Embedding.Model, cfg.Embedding.Dimensions)

	// Build embedder chain — composition root. Takes and queries share
	// the cache; the query embedder adds the instruction prefix.
	takeEmbedder := buildEmbedder(cfg.Embedding, "", store, logger)
	queryEmbedder := buildEmbedder(cfg.Embedding, cfg.Embedding.QueryInstruction, store, logger)
	logger.Info("Embedders created",
		zap.String("provider", cfg.Embedding.Provider),
		zap.String("model", cfg.Embedding.Model),
		zap.Int("dimensions", cfg.Embedding.Dimensions),
		zap.String("model_tag", modelTag),
	)

	takeRepo := takerepo.New(store)
	runRepo := runrepo.New(store)

	idx := index.New(modelTag, cfg.Embedding.Dimensions)
	warmIndex(ctx, takeRepo, idx, modelTag, logger)

	pipelineSvc := pipelineuc.New(
		takeRepo,
		extractor.NewHeuristicVisual(),
		extractor.NewHeuristicAcoustic(),
		extractor.NewHeuristicLinguistic(),
		takeEmbedder,
		idx,
		runRepo,
		pipelineuc.Options{
			Workers:         cfg.Pipeline.Workers,
			QueueSize:       cfg.Pipeline.QueueSize,
			StageTimeout:    time.Duration(cfg.Pipeline.StageTimeoutSec) * time.Second,
			ReferenceScript: cfg.Pipeline.ReferenceScript,
			ModelTag:        modelTag,
		},
		logger,
	)
	pipelineSvc.Start(ctx)
	defer pipelineSvc.Stop()

	takeSvc := takeuc.New(takeRepo, idx)
	searchSvc := searchuc.New(takeRepo, queryEmbedder, idx, searchuc.Options{
		DefaultTopK: cfg.Search.DefaultTopK,
		MaxTopK:     cfg.Search.MaxTopK,
	}, logger)
	healthSvc := healthuc.New(store, newEmbeddingHealthChecker(takeEmbedder), pipelineSvc)

	server := chiTransport.NewServer(takeSvc, pipelineSvc, searchSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Mount(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// warmIndex loads stored vectors into the fresh in-memory index. Only
// vectors embedded under the current model tag are usable; the rest
// need POST /v1/index/rebuild or re-analysis.
func warmIndex(
	ctx context.Context,
	repo *takerepo.Repo,
	idx *index.Flat,
	modelTag string,
	logger *zap.Logger,
) {
	takes, err := repo.List(ctx)
	if err != nil {
		logger.Warn("Failed to list takes for index warm-up", zap.Error(err))
		return
	}

	loaded, stale := 0, 0
	for i := range takes {
		t := &takes[i]
		if len(t.Embedding) == 0 {
			continue
		}
		if t.ModelTag != modelTag {
			stale++
			continue
		}
		if err := idx.Add(t.ID, t.Embedding); err != nil {
			logger.Warn("Failed to load stored vector",
				zap.String("take_id", t.ID), zap.Error(err))
			continue
		}
		loaded++
	}

	metrics.IndexSize.Set(float64(loaded))
	logger.Info("Index warm-up finished",
		zap.Int("loaded", loaded),
		zap.Int("stale_tag", stale),
		zap.Int("takes", len(takes)),
	)
}

// embeddingHealthChecker wraps domain.Embedder to implement health.EmbeddingChecker.
type embeddingHealthChecker struct {
	embedder domain.Embedder
}

func newEmbeddingHealthChecker(embedder domain.Embedder) *embeddingHealthChecker {
	return &embeddingHealthChecker{embedder: embedder}
}

func (h *embeddingHealthChecker) HealthCheck(ctx context.Context) error {
	if hc, ok := h.embedder.(domain.HealthChecker); ok {
		if err := hc.HealthCheck(ctx); err != nil {
			return fmt.Errorf("embedding health check: %w", err)
		}
	}
	return nil
}

// buildEmbedder assembles the decorator chain: OpenAI -> Cached -> Instruction
func buildEmbedder(
	embCfg config.EmbeddingConfig,
	instruction string,
	store db.Store,
	logger *zap.Logger,
) domain.Embedder {
	base := openaiEmb.NewEmbedder(&openaiEmb.Config{
		APIKey:     embCfg.APIKey,
		BaseURL:    embCfg.BaseURL,
		Model:      embCfg.Model,
		Dimensions: embCfg.Dimensions,
		Provider:   embCfg.Provider,
		Logger:     logger,
	})

	var embedder domain.Embedder = base
	if store != nil {
		embedder = embcache.New(base, store, metrics.EmbeddingCacheTotal, logger)
	}

	// Instruction prefix (outermost — cache key includes instruction)
	if instruction != "" {
		return domain.NewInstructionEmbedder(embedder, instruction)
	}

	return embedder
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
