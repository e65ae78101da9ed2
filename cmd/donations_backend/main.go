package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"github.com/ulule/limiter/v3"
	limitermemory "github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/opengive/donations-backend/internal/adapters/database/pgsql"
	portssvc "github.com/opengive/donations-backend/internal/core/ports/services"
	"github.com/opengive/donations-backend/internal/core/services"
	"github.com/opengive/donations-backend/internal/handlers"
	"github.com/opengive/donations-backend/internal/middleware"
	"github.com/opengive/donations-backend/pkg/config"
	"github.com/opengive/donations-backend/pkg/database"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// @title Donations Backend API
// @version 1.0
// @description Charity donation platform with externally settled on-chain payments.

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize database connection pool (for application use)
	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer dbPool.Close()
	logger.Info("Database connection pool established.")

	if err := runMigrations(logger, cfg.DatabaseURL); err != nil {
		logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := handlers.RegisterCustomValidators(); err != nil {
		logger.Error("Failed to register custom validators", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Repositories and services
	donationRepo := pgsql.NewPgxDonationRepository(dbPool)
	beneficiaryRepo := pgsql.NewPgxBeneficiaryRepository(dbPool)
	userRepo := pgsql.NewPgxUserRepository(dbPool)
	currencyRepo := pgsql.NewPgxCurrencyRepository(dbPool)

	svcContainer := &handlers.ServiceContainer{
		Donation:    services.NewDonationService(donationRepo, beneficiaryRepo, userRepo, currencyRepo, cfg.DonationPendingTTL),
		Beneficiary: services.NewBeneficiaryService(beneficiaryRepo),
		Currency:    services.NewCurrencyService(currencyRepo),
		User:        services.NewUserService(userRepo),
		Token:       services.NewTokenService(cfg),
	}

	// Background expiry sweep. Donations left Pending beyond the configured
	// TTL are cancelled so they can never settle.
	sweeper := startExpirySweep(logger, cfg, svcContainer.Donation)
	if sweeper != nil {
		defer sweeper.Stop()
	}

	r := gin.New()

	// Global middleware (logging, recovery, CORS, rate limiting)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	rate, err := limiter.NewRateFromFormatted(cfg.RateLimit)
	if err != nil {
		logger.Error("Invalid rate limit format", slog.String("rate", cfg.RateLimit), slog.String("error", err.Error()))
		os.Exit(1)
	}
	r.Use(middleware.RateLimit(limiter.New(limitermemory.NewStore(), rate)))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, svcContainer)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// runMigrations applies all pending "up" migrations using a temporary
// database/sql connection compatible with the main pgx pool.
func runMigrations(logger *slog.Logger, databaseURL string) error {
	logger.Info("Running database migrations...")

	migrationDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()
	if err := migrationDB.Ping(); err != nil {
		return err
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return err
	}

	upErr := m.Up()
	if upErr != nil && upErr != migrate.ErrNoChange {
		return upErr
	}

	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		return sourceErr
	}
	if dbErr != nil {
		return dbErr
	}

	if upErr == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}

// startExpirySweep schedules the Pending-donation expiry job. Returns nil
// when expiry is disabled.
func startExpirySweep(logger *slog.Logger, cfg *config.Config, donationSvc portssvc.DonationSvcFacade) *cron.Cron {
	if cfg.DonationPendingTTL <= 0 {
		logger.Info("Donation expiry disabled (DONATION_PENDING_TTL is zero)")
		return nil
	}

	c := cron.New()
	_, err := c.AddFunc(cfg.ExpirySweepSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		cancelled, err := donationSvc.CancelExpired(ctx, time.Now().UTC())
		if err != nil {
			logger.Error("Expiry sweep failed", slog.String("error", err.Error()))
			return
		}
		if cancelled > 0 {
			logger.Info("Expiry sweep cancelled stale donations", slog.Int64("cancelled", cancelled))
		}
	})
	if err != nil {
		logger.Error("Failed to schedule expiry sweep", slog.String("schedule", cfg.ExpirySweepSchedule), slog.String("error", err.Error()))
		os.Exit(1)
	}
	c.Start()
	logger.Info("Expiry sweep scheduled", slog.String("schedule", cfg.ExpirySweepSchedule), slog.Duration("pending_ttl", cfg.DonationPendingTTL))
	return c
}
