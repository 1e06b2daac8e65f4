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

	"github.com/spf13/cobra"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/subshare/internal/api"
	"github.com/mmynk/subshare/internal/auth"
	"github.com/mmynk/subshare/internal/config"
	"github.com/mmynk/subshare/internal/middleware"
	"github.com/mmynk/subshare/internal/service"
	"github.com/mmynk/subshare/internal/storage"
	"github.com/mmynk/subshare/internal/storage/memory"
	"github.com/mmynk/subshare/internal/storage/sqlite"
	"github.com/mmynk/subshare/pkg/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "subshare",
		Short:         "Subscription sharing API server",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
	root.AddCommand(newServeCmd(), newMigrateCmd())
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server (default)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.DBPath == "" {
				return errors.New("DB_PATH is required to migrate")
			}

			store, err := sqlite.Open(cfg.DBPath)
			if err != nil {
				slog.Error("Failed to open database", "error", err)
				return err
			}
			defer store.Close()

			applied, err := store.Migrate(cmd.Context())
			if err != nil {
				slog.Error("Migration failed", "error", err)
				return err
			}
			for _, m := range applied {
				slog.Info("Applied migration", "version", m.Version, "path", m.Path, "duration_ms", m.DurationMs)
			}
			slog.Info("Migrations complete", "database", cfg.DBPath, "applied", len(applied))
			return nil
		},
	}
}

// loadConfig reads the environment and installs the configured logger.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		logging.Setup(slog.LevelInfo, logging.FormatText)
		slog.Error("Invalid configuration", "error", err)
		return nil, err
	}
	logging.Setup(cfg.SlogLevel(), cfg.LogFormat)
	return cfg, nil
}

func openStore(cfg *config.Config) (storage.Store, error) {
	if cfg.DBPath == "" {
		slog.Warn("DB_PATH is empty, using in-memory storage; data will not survive a restart")
		return memory.New(), nil
	}
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	slog.Info("Storage initialized", "database", cfg.DBPath)
	return store, nil
}

func runServe(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := openStore(cfg)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		return err
	}
	defer store.Close()

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)

	var provider auth.IdentityProvider
	if cfg.GoogleEnabled() {
		google, err := auth.NewGoogleProvider(ctx, auth.GoogleConfig{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			IssuerURL:    cfg.GoogleIssuerURL,
		})
		if err != nil {
			slog.Error("Failed to initialize Google login", "error", err)
			return err
		}
		provider = google
		slog.Info("Google login enabled")
	}

	logger := slog.Default()
	services := api.Services{
		Groups:   service.NewGroupService(store),
		Payments: service.NewPaymentService(store),
		Auth:     service.NewAuthService(auth.NewPasswordAuthenticator(store), store, jwtManager, provider, logger),
		Profiles: service.NewProfileService(store),
	}

	limiter := middleware.NewRateLimiter(middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		Burst:             cfg.RateLimitBurst,
	})
	go sweepLimiter(ctx, limiter)

	router := api.NewRouter(services, api.Options{
		JWT:           jwtManager,
		CORSOrigins:   cfg.CORSAllowedOrigins,
		RateLimiter:   limiter,
		Metrics:       middleware.NewMetrics(),
		Logger:        logger,
		SecureCookies: cfg.IsProduction(),
	})

	srv := &http.Server{
		Addr: cfg.ListenAddr,
		// h2c serves HTTP/2 without TLS behind a terminating proxy.
		Handler:           h2c.NewHandler(router, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		<-ctx.Done()
		slog.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Graceful shutdown failed", "error", err)
		}
	}()

	slog.Info("Server starting", "address", cfg.ListenAddr, "env", cfg.Env)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server failed", "error", err)
		return fmt.Errorf("server: %w", err)
	}
	return nil
}

func sweepLimiter(ctx context.Context, limiter *middleware.RateLimiter) {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			remaining := limiter.Sweep(10 * time.Minute)
			slog.Debug("Rate limiter swept", "clients", remaining)
		}
	}
}
