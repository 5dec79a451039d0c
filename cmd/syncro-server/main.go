package main

import (
	"context"
	cryptorand "crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/syncro/syncro/internal/config"
	"github.com/syncro/syncro/internal/domain/catalog"
	"github.com/syncro/syncro/internal/domain/customers"
	"github.com/syncro/syncro/internal/domain/payments"
	"github.com/syncro/syncro/internal/domain/prefs"
	"github.com/syncro/syncro/internal/domain/scheduling"
	"github.com/syncro/syncro/internal/domain/tasks"
	"github.com/syncro/syncro/internal/platform/auth"
	"github.com/syncro/syncro/internal/platform/db"
	"github.com/syncro/syncro/internal/platform/middleware"
	"github.com/syncro/syncro/internal/platform/photostore"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "syncro-server",
		Short: "Clinic and salon management API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			count, err := migrator.Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			statuses, err := migrator.Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			for _, s := range statuses {
				applied := "-"
				if s.AppliedAt != nil {
					applied = s.AppliedAt.Format(time.RFC3339)
				}
				state := "pending"
				if s.Applied {
					state = "applied"
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, state, applied)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	return cmd
}

func runServer() error {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" || os.Getenv("ENV") == "" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	jwtSecret := cfg.JWTSecret
	if jwtSecret == "" {
		// Development only: Validate rejects a blank secret elsewhere.
		buf := make([]byte, 32)
		if _, err := cryptorand.Read(buf); err != nil {
			logger.Fatal().Err(err).Msg("failed to generate dev signing key")
		}
		jwtSecret = hex.EncodeToString(buf)
		logger.Warn().Msg("JWT_SECRET not set, using a random key; sessions reset on restart")
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	photos, err := photostore.NewFSPhotoStore(cfg.PhotoDir, cfg.PhotoBaseURL)
	if err != nil {
		logger.Fatal().Err(err).Str("dir", cfg.PhotoDir).Msg("failed to open photo store")
	}

	tokens := auth.NewTokenIssuer([]byte(jwtSecret), "syncro",
		time.Duration(cfg.TokenTTLHours)*time.Hour)

	// Services
	authSvc := auth.NewService(auth.NewAccountRepoPG(pool), tokens)
	customerSvc := customers.NewService(customers.NewCustomerRepoPG(pool), photos)
	professionalSvc := catalog.NewService("professional", catalog.NewProfessionalRepoPG(pool))
	serviceSvc := catalog.NewService("service", catalog.NewServiceRepoPG(pool))
	roomSvc := catalog.NewService("room", catalog.NewRoomRepoPG(pool))
	schedulingSvc := scheduling.NewService(scheduling.NewAppointmentRepoPG(pool))
	paymentSvc := payments.NewService(payments.NewPaymentRepoPG(pool))
	prefSvc := prefs.NewService(prefs.NewPreferenceRepoPG(pool))
	taskSvc := tasks.NewService(tasks.NewFileStore(cfg.TasksFile))

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))
	e.Use(middleware.SecurityHeaders())
	e.Use(middleware.BodyLimit("1M", "12M"))
	e.Use(middleware.RequestTimeout(30 * time.Second))
	e.Use(auth.Middleware(tokens, auth.Skipper))

	// Health checks
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": "0.1.0",
		})
	})
	e.GET("/health/db", db.HealthHandler(pool))

	apiV1 := e.Group("/api/v1")

	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}
	apiV1.Use(middleware.RateLimit(rateLimitCfg))

	// Routes
	auth.NewHandler(authSvc).RegisterRoutes(apiV1)
	customers.NewHandler(customerSvc).RegisterRoutes(apiV1)
	catalog.NewHandler(professionalSvc, serviceSvc, roomSvc).RegisterRoutes(apiV1)
	scheduling.NewHandler(schedulingSvc).RegisterRoutes(apiV1)
	payments.NewHandler(paymentSvc).RegisterRoutes(apiV1)
	prefs.NewHandler(prefSvc).RegisterRoutes(apiV1)
	tasks.NewHandler(taskSvc).RegisterRoutes(e)
	photostore.NewHandler(photos).RegisterRoutes(e)

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
