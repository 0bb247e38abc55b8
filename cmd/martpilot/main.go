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

	"github.com/gridmart/martpilot/internal/config"
	dbRedis "github.com/gridmart/martpilot/internal/db/redis"
	logpkg "github.com/gridmart/martpilot/internal/logger"
	"github.com/gridmart/martpilot/internal/metrics"
	catalogrepo "github.com/gridmart/martpilot/internal/repository/catalog"
	configrepo "github.com/gridmart/martpilot/internal/repository/storeconfig"
	chiTransport "github.com/gridmart/martpilot/internal/transport/chi"
	"github.com/gridmart/martpilot/internal/transport/groq"
	"github.com/gridmart/martpilot/internal/usecase/assistant"
	cataloguc "github.com/gridmart/martpilot/internal/usecase/catalog"
	healthuc "github.com/gridmart/martpilot/internal/usecase/health"
	"github.com/gridmart/martpilot/internal/usecase/navigate"
	searchuc "github.com/gridmart/martpilot/internal/usecase/search"
	"github.com/gridmart/martpilot/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting martpilot API server",
		zap.String("build", version.String()),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
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

	// Register assistant metrics explicitly (no init())
	metrics.RegisterAssistantMetrics()

	// Repositories
	catalogRepo := catalogrepo.New(store, cfg.Storage.KeyPrefix)
	settingsRepo := configrepo.New(store, cfg.Storage.KeyPrefix)

	if err := settingsRepo.EnsureDefaults(ctx); err != nil {
		logger.Fatal("Failed to seed config defaults", zap.Error(err))
	}

	// Optional LLM backend: one client serves matching, generation, and
	// transcription. Missing API key means deterministic tiers only.
	backend := buildBackend(cfg.Assistant, logger)

	timeout := time.Duration(cfg.Assistant.TimeoutSec) * time.Second

	// Use case services
	searchSvc := searchuc.New(catalogRepo, cfg.Search.TopN, cfg.Search.ScoreThreshold)
	if backend != nil {
		searchSvc = searchSvc.WithMatcher(backend, timeout)
	}

	catalogSvc := cataloguc.New(catalogRepo, settingsRepo)
	navigateSvc := navigate.New(catalogRepo, settingsRepo)

	assistantSvc := assistant.New(searchSvc, navigateSvc, settingsRepo)
	if backend != nil {
		assistantSvc = assistantSvc.
			WithGenerator(backend, timeout, cfg.Assistant.HistoryWindow).
			WithTranscriber(backend)
	}

	healthSvc := healthuc.New(store, backendChecker(backend))

	// Create chi server
	server := chiTransport.NewServer(assistantSvc, searchSvc, catalogSvc, settingsRepo, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.AdminKeys))
	r.Use(metrics.Middleware())
	server.Routes(r)

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

// buildBackend creates the Groq client when an API key is configured.
func buildBackend(cfg config.AssistantConfig, logger *zap.Logger) *groq.Client {
	if cfg.APIKey == "" {
		logger.Info("No assistant API key configured, using deterministic tiers only")
		return nil
	}
	logger.Info("Assistant backend configured",
		zap.String("base_url", cfg.BaseURL),
		zap.String("chat_model", cfg.ChatModel),
		zap.String("transcribe_model", cfg.TranscribeModel),
	)
	return groq.NewClient(&groq.Config{
		APIKey:          cfg.APIKey,
		BaseURL:         cfg.BaseURL,
		ChatModel:       cfg.ChatModel,
		TranscribeModel: cfg.TranscribeModel,
		Logger:          logger,
	})
}

// backendChecker passes a nil interface (not a typed nil pointer) when the
// backend is not configured. Go gotcha: (*groq.Client)(nil) wrapped in
// health.BackendChecker != nil.
func backendChecker(backend *groq.Client) healthuc.BackendChecker {
	if backend == nil {
		return nil
	}
	return backend
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

			// Set X-Request-ID in response header
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("remote_addr", r.RemoteAddr),
				zap.String("user_agent", r.UserAgent()),
			)
		})
	}
}
