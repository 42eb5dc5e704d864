package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	openai "github.com/sashabaranov/go-openai"

	"github.com/scamshield-ai/scamshield/cmd/mainconfig"
	"github.com/scamshield-ai/scamshield/internal/api/router"
	"github.com/scamshield-ai/scamshield/internal/archive"
	appconfig "github.com/scamshield-ai/scamshield/internal/config"
	"github.com/scamshield-ai/scamshield/internal/honeypot"
	"github.com/scamshield-ai/scamshield/internal/http/handlers"
	"github.com/scamshield-ai/scamshield/internal/llm"
	"github.com/scamshield-ai/scamshield/internal/observability/metrics"
	"github.com/scamshield-ai/scamshield/internal/session"
	"github.com/scamshield-ai/scamshield/internal/similarity"
	"github.com/scamshield-ai/scamshield/pkg/logging"
)

const (
	serviceName    = "scamshield"
	serviceVersion = "1.2.0"
)

func main() {
	// A missing .env file is the normal production case.
	_ = godotenv.Load()

	// Load configuration
	cfg := appconfig.Load()

	// Initialize logger
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting scamshield API server",
		"env", cfg.Env,
		"port", cfg.Port,
		"llm_provider", cfg.LLMProvider,
	)

	ctx := context.Background()

	client, model, err := buildLLMClient(ctx, cfg)
	if err != nil {
		logger.Error("failed to initialize LLM provider", "provider", cfg.LLMProvider, "error", err)
		os.Exit(1)
	}

	// Gemini backs up the primary provider when a key is available.
	if cfg.LLMProvider != "gemini" && cfg.GeminiAPIKey != "" {
		fallback, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			logger.Warn("gemini fallback unavailable", "error", err)
		} else {
			client = llm.NewFallbackClient(client, fallback, cfg.GeminiModel, logger.Logger)
		}
	}

	gateway := llm.NewGateway(client, model, cfg.RequestTimeout, logger.Component("llm"))

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	honeypotMetrics := metrics.NewHoneypotMetrics(registry)

	// Session store
	var sessions session.Store
	if cfg.RedisAddr != "" {
		opts := &redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		}
		if cfg.RedisTLS {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		sessions = session.NewRedisStore(redis.NewClient(opts), cfg.SessionTTL)
		logger.Info("using redis session store", "addr", cfg.RedisAddr, "ttl", cfg.SessionTTL)
	} else {
		sessions = session.NewMemoryStore()
		logger.Info("using in-memory session store")
	}

	// Similarity index over archived transcripts
	var transcripts similarity.Store
	if cfg.GroqAPIKey != "" {
		embCfg := openai.DefaultConfig(cfg.GroqAPIKey)
		embCfg.BaseURL = cfg.GroqBaseURL
		transcripts = similarity.NewMemoryVectorStore(
			openai.NewClientWithConfig(embCfg),
			cfg.EmbeddingModel,
			logger.Component("similarity"),
		)
	} else {
		logger.Warn("similarity index disabled, no embedding credentials")
	}

	// Transcript archive
	var archiver *archive.Store
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to connect to postgres", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		archiver = archive.NewStore(pool, logger.Component("archive"))
		if n, err := archiver.Count(ctx); err != nil {
			logger.Warn("transcript archive enabled, count unavailable", "error", err)
		} else {
			logger.Info("transcript archive enabled", "archived_transcripts", n)
		}
	}

	honeypotLogger := logger.Component("honeypot")
	orchestrator := honeypot.NewOrchestrator(
		honeypot.NewDetector(gateway, honeypotLogger),
		honeypot.NewEngager(gateway, honeypotLogger),
		honeypot.NewExtractor(gateway, honeypotLogger),
		sessions,
		transcripts,
		archiver,
		honeypotMetrics,
		honeypotLogger,
		honeypot.OrchestratorConfig{
			DetectTimeout:           cfg.DetectTimeout,
			EngageTimeout:           cfg.EngageTimeout,
			ExtractTimeout:          cfg.ExtractTimeout,
			RequestTimeout:          cfg.RequestTimeout,
			ExtractionTurnThreshold: cfg.ExtractionTurnThreshold,
		},
	)

	// Setup router
	r := router.New(&router.Config{
		Logger:             logger,
		HealthHandler:      handlers.NewHealthHandler(serviceName, serviceVersion, logger),
		HoneypotHandler:    honeypot.NewHandler(orchestrator, transcripts, honeypotLogger),
		MetricsHandler:     promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		APIKey:             cfg.APIKey,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}

// buildLLMClient constructs the primary provider named by LLM_PROVIDER.
func buildLLMClient(ctx context.Context, cfg *appconfig.Config) (llm.LLMClient, string, error) {
	switch cfg.LLMProvider {
	case "groq", "":
		client, err := llm.NewGroqClient(cfg.GroqAPIKey, cfg.GroqBaseURL)
		if err != nil {
			return nil, "", err
		}
		return client, cfg.GroqModel, nil
	case "gemini":
		client, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, "", err
		}
		return client, cfg.GeminiModel, nil
	case "bedrock":
		awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
		if err != nil {
			return nil, "", err
		}
		return llm.NewBedrockClient(bedrockruntime.NewFromConfig(awsCfg)), cfg.BedrockModelID, nil
	default:
		return nil, "", fmt.Errorf("unknown LLM provider %q", cfg.LLMProvider)
	}
}
