package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL  string
	Port         string
	IsProduction bool

	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// DonationPendingTTL bounds how long a donation may stay Pending before
	// the expiry sweep cancels it. Zero disables expiry entirely, in which
	// case a Pending donation remains completable indefinitely.
	DonationPendingTTL time.Duration
	// ExpirySweepSchedule is the cron spec for the expiry sweep job.
	ExpirySweepSchedule string

	// RateLimit is the limiter formatted rate for public endpoints, e.g.
	// "100-M" for 100 requests per minute per client IP.
	RateLimit string
}

// LoadConfig loads configuration from environment variables and a .env file
// if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "donations-backend")
	viper.SetDefault("DONATION_PENDING_TTL", "24h")
	viper.SetDefault("EXPIRY_SWEEP_SCHEDULE", "@every 10m")
	viper.SetDefault("RATE_LIMIT", "100-M")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET not set. Using default insecure key.")
	}

	jwtExpiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	jwtExpiryDuration, err := time.ParseDuration(jwtExpiryStr)
	if err != nil {
		jwtExpiryDuration = time.Hour
		log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", jwtExpiryStr, jwtExpiryDuration)
	}
	cfg.JWTExpiryDuration = jwtExpiryDuration

	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	pendingTTLStr := viper.GetString("DONATION_PENDING_TTL")
	pendingTTL, err := time.ParseDuration(pendingTTLStr)
	if err != nil {
		pendingTTL = 24 * time.Hour
		log.Printf("Warning: Invalid value for DONATION_PENDING_TTL ('%s'). Defaulting to %s.\n", pendingTTLStr, pendingTTL)
	}
	cfg.DonationPendingTTL = pendingTTL

	cfg.ExpirySweepSchedule = viper.GetString("EXPIRY_SWEEP_SCHEDULE")
	cfg.RateLimit = viper.GetString("RATE_LIMIT")

	return cfg, nil
}
