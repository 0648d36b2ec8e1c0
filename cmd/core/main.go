package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bleinats/esteticacarro-core-go/internal/config"
	"github.com/bleinats/esteticacarro-core-go/internal/domain"
	"github.com/bleinats/esteticacarro-core-go/internal/handler"
	"github.com/bleinats/esteticacarro-core-go/internal/infra/cache"
	"github.com/bleinats/esteticacarro-core-go/internal/infra/notify"
	"github.com/bleinats/esteticacarro-core-go/internal/infra/observability"
	"github.com/bleinats/esteticacarro-core-go/internal/infra/resilience"
	"github.com/bleinats/esteticacarro-core-go/internal/infra/supabase"
	"github.com/bleinats/esteticacarro-core-go/internal/port"
	"github.com/bleinats/esteticacarro-core-go/internal/service"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

func main() {
	// --- Load .env file (for local development) ---
	_ = godotenv.Load()

	// --- Config ---
	cfg := config.Load()

	// --- Logger ---
	logger := observability.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	logger.Info("configuration loaded",
		zap.Int("port", cfg.Port),
		zap.String("log_level", cfg.LogLevel),
		zap.Duration("http_timeout", cfg.HTTPTimeout),
		zap.Duration("cache_ttl", cfg.CacheTTL),
		zap.Int("max_retries", cfg.MaxRetries),
		zap.Duration("initial_backoff", cfg.InitialBackoff),
		zap.String("scan_cron", cfg.ScanCron),
	)

	if cfg.SupabaseURL == "" {
		logger.Fatal("SUPABASE_URL is required")
	}

	// --- Tracing ---
	shutdown, err := observability.InitTracer(cfg.OTLPEndpoint, "esteticacarro-core")
	if err != nil {
		logger.Fatal("failed to init tracer", zap.Error(err))
	}
	defer shutdown(context.Background())

	// --- Metrics ---
	metrics := observability.NewMetrics()

	// --- Cache ---
	tenantCache := cache.New[*domain.Tenant](cfg.CacheTTL)

	// --- Resilience ---
	resilienceCfg := resilience.Config{
		MaxRetries:     cfg.MaxRetries,
		InitialBackoff: cfg.InitialBackoff,
	}
	cb := resilience.NewCircuitBreaker("supabase")

	// --- Remote store ---
	// No client-wide timeout: the last rung of the bootstrap ladder waits
	// unboundedly for a slow store, and a Client.Timeout would cut it off.
	// Connection setup stays bounded; established calls are governed by
	// their request contexts.
	httpClient := &http.Client{
		Transport: &http.Transport{
			DialContext:         (&net.Dialer{Timeout: cfg.HTTPTimeout}).DialContext,
			TLSHandshakeTimeout: cfg.HTTPTimeout,
			MaxIdleConnsPerHost: 10,
		},
	}
	supabaseClient := supabase.NewClient(
		httpClient,
		cfg.SupabaseURL,
		cfg.SupabaseAnonKey,
		cfg.SupabaseServiceKey,
		cb,
		resilienceCfg,
		logger,
	)

	// --- Notifier ---
	var notifier port.AlertNotifier = notify.Noop{}
	if cfg.TwilioAccountSID != "" && cfg.TwilioAuthToken != "" && cfg.TwilioFromNumber != "" {
		notifier = notify.NewTwilioNotifier(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber, logger)
		logger.Info("twilio alert notifications enabled")
	} else {
		logger.Info("twilio not configured, alert notifications disabled")
	}

	// --- Sessions ---
	sessionCfg := service.DefaultConfig()
	sessionCfg.RetryDelay = cfg.RetryDelay
	sessionCfg.ScanDelay = cfg.ScanDelay
	sessionCfg.DebounceWindow = cfg.DebounceWindow

	registry := service.NewRegistry(supabaseClient, notifier, tenantCache, metrics, logger, sessionCfg)
	verifier := service.NewJWTVerifier(cfg.JWTSecret)

	// --- Periodic intelligence scan ---
	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.ScanCron, func() {
		registry.ScanAll(context.Background())
	}); err != nil {
		logger.Fatal("invalid scan cron expression", zap.Error(err))
	}
	scheduler.Start()

	// --- Router ---
	router := handler.NewRouter(registry, verifier, supabaseClient, metrics, logger)

	// --- Server ---
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// --- Graceful shutdown ---
	go func() {
		logger.Info("server starting", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("server shutting down...")
	scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}
