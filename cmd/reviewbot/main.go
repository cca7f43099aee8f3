// cmd/reviewbot/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"reviewbot/internal/analysis"
	"reviewbot/internal/common/config"
	"reviewbot/internal/common/database"
	"reviewbot/internal/common/logger"
	"reviewbot/internal/common/observability"
	"reviewbot/internal/conversation"
	"reviewbot/internal/dispatch"
	"reviewbot/internal/transport"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting reviewbot...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init Redis with retry ---
	var redis *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(cfg.Redis)
		if err != nil {
			return err
		}
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	// --- Analysis pipeline ---
	store, err := analysis.NewArtifactStore(cfg.Analyzer.ArtifactsDir, log)
	if err != nil {
		zapLog.Fatal("artifact store init failed", zap.Error(err))
	}

	cache := analysis.NewCache(redis.Client, store, config.GetDuration(cfg.Cache.TTL), log)

	gateway := analysis.NewGateway(&analysis.GatewayConfig{
		Command: cfg.Analyzer.Command,
		Args:    cfg.Analyzer.Args,
		Timeout: config.GetDuration(cfg.Analyzer.Timeout),
	}, cache, log)

	// --- Conversation layer ---
	sender := transport.NewGatewayClient(cfg.Transport, log)
	sessions := conversation.NewSessionStore()
	engine := conversation.NewEngine(sessions, gateway, sender, log)

	dispatcher := dispatch.NewDispatcher(engine, sender, cfg.Dispatch.QueueSize, obs, log)

	// --- HTTP surface ---
	webhook := transport.NewWebhookHandler(dispatcher, log)
	mux := transport.NewRouter(webhook, redis)

	server := &http.Server{
		Addr:         cfg.Server.ListenAddress,
		Handler:      mux,
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.String("address", cfg.Server.ListenAddress))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Fatal("http server failed", zap.Error(err))
		}
	}()

	// --- Graceful shutdown ---
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	zapLog.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Warn("http server shutdown incomplete", zap.Error(err))
	}
	if err := dispatcher.Shutdown(shutdownCtx); err != nil {
		zapLog.Warn("dispatcher shutdown incomplete", zap.Error(err))
	}

	zapLog.Info("Shutdown complete")
}
