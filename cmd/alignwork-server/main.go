package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/alignwork/api/internal/config"
	"github.com/alignwork/api/internal/domain/appointment"
	"github.com/alignwork/api/internal/domain/consultorio"
	"github.com/alignwork/api/internal/domain/identity"
	"github.com/alignwork/api/internal/domain/patient"
	"github.com/alignwork/api/internal/platform/auth"
	"github.com/alignwork/api/internal/platform/cache"
	"github.com/alignwork/api/internal/platform/db"
	"github.com/alignwork/api/internal/platform/middleware"
	"github.com/alignwork/api/internal/platform/token"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "alignwork-server",
		Short: "AlignWork scheduling API server",
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
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns, cfg.DBAcquireTimeout())
			if err != nil {
				return err
			}
			defer pool.Close()

			applied, err := db.NewMigrator(pool, dir).Up(ctx)
			if err != nil {
				return err
			}
			cmd.Printf("applied %d migration(s)\n", applied)
			return nil
		},
	}
	upCmd.Flags().String("dir", "migrations", "migrations directory")

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
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns, cfg.DBAcquireTimeout())
			if err != nil {
				return err
			}
			defer pool.Close()

			statuses, err := db.NewMigrator(pool, dir).Status(ctx)
			if err != nil {
				return err
			}
			for _, st := range statuses {
				state := "pending"
				if st.Applied {
					state = "applied"
				}
				cmd.Printf("%03d %-40s %s\n", st.Version, st.Name, state)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "migrations", "migrations directory")

	cmd.AddCommand(upCmd)
	cmd.AddCommand(statusCmd)
	return cmd
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" || os.Getenv("ENV") == "" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	// Database
	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns, cfg.DBAcquireTimeout())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	// Shared platform components
	tokens := token.NewService(cfg.SecretKey, cfg.AccessTokenTTL(), cfg.RefreshTokenTTL())
	cookies := auth.CookieConfig{Secure: cfg.CookieSecure}
	txRunner := db.PoolRunner(pool)

	statsCache := cache.New[appointment.MegaStats](cfg.StatsCacheTTL())
	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	statsCache.StartSweep(sweepCtx, time.Minute)

	// Repositories and services
	userRepo := identity.NewRepo(pool)
	identitySvc := identity.NewService(userRepo, tokens, txRunner)
	accounts := identity.AccountSource{Repo: userRepo}

	patientRepo := patient.NewRepo(pool)
	patientSvc := patient.NewService(patientRepo, txRunner)

	consultorioRepo := consultorio.NewRepo(pool)
	consultorioSvc := consultorio.NewService(consultorioRepo, txRunner)

	appointmentRepo := appointment.NewRepo(pool)
	appointmentSvc := appointment.NewService(appointmentRepo, patientRepo, consultorioRepo, statsCache, txRunner)

	photos, err := identity.NewDiskPhotoStore("uploads/profile_photos", "/api/v1/uploads/profile_photos")
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to prepare photo storage")
	}

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = middleware.ErrorHandler(logger)

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(middleware.BodyLimit(1<<20, 6<<20))
	e.Use(middleware.RequestTimeout(30 * time.Second))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete},
		AllowHeaders:     []string{"Content-Type", "X-Request-ID"},
		AllowCredentials: true,
	}))

	requireSession := auth.RequireSession(tokens, accounts)

	// Health checks
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": "0.1.0",
		})
	})
	e.GET("/health/db", db.HealthHandler(pool))

	// Auth and profile endpoints
	loginLimiter := middleware.NewLimiter(5, time.Minute)
	registerLimiter := middleware.NewLimiter(3, time.Hour)
	identityHandler := identity.NewHandler(identitySvc, tokens, cookies, photos, loginLimiter, registerLimiter)

	authGroup := e.Group("/api/auth", middleware.NoStore())
	usersGroup := e.Group("/api/v1/users", middleware.NoStore())
	identityHandler.RegisterRoutes(authGroup, usersGroup, requireSession)
	e.Static("/api/v1/uploads/profile_photos", "uploads/profile_photos")

	// Tenant resources. Identity is attached when a session cookie is
	// present but is not required; tenant scoping alone bounds the data.
	apiV1 := e.Group("/api/v1", middleware.NoStore(), auth.OptionalSession(tokens, accounts))
	apiV1.Use(echomw.RateLimiterWithConfig(echomw.RateLimiterConfig{
		Store: echomw.NewRateLimiterMemoryStoreWithConfig(echomw.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(cfg.RateLimitRPS),
			Burst:     cfg.RateLimitBurst,
			ExpiresIn: 3 * time.Minute,
		}),
	}))

	patient.NewHandler(patientSvc).RegisterRoutes(apiV1.Group("/patients"))
	consultorio.NewHandler(consultorioSvc).RegisterRoutes(apiV1.Group("/consultorios"))
	appointment.NewHandler(appointmentSvc, cfg.DefaultTimezone).RegisterRoutes(apiV1.Group("/appointments"))

	// Start
	addr := ":" + cfg.Port
	go func() {
		logger.Info().Str("addr", addr).Msg("server listening")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed")
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
