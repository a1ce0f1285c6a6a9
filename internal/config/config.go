package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration (env + Viper).
type Config struct {
	Env                 string
	Port                string
	DatabaseURL         string
	RedisURL            string
	JWTSecret           string
	FrontendURL         string
	MaxActiveReservations int           // per-student quota on concurrent active holds (free tier)
	ReservationSweepEvery time.Duration // interval of the internal expiry job; 0 disables it
	ListingCacheTTL       time.Duration
}

// Load loads config from env and optional .env file.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	port := viper.GetString("PORT")
	if port == "" {
		port = "8080"
	}
	env := viper.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	dbURL := viper.GetString("DATABASE_URL")
	if env == "test" && viper.GetString("DATABASE_URL_TEST") != "" {
		dbURL = viper.GetString("DATABASE_URL_TEST")
	}

	quota := viper.GetInt("MAX_ACTIVE_RESERVATIONS")
	if quota <= 0 {
		quota = 2
	}
	sweep := viper.GetDuration("RESERVATION_SWEEP_INTERVAL")
	if sweep == 0 {
		sweep = 10 * time.Minute
	}
	cacheTTL := viper.GetDuration("LISTING_CACHE_TTL")
	if cacheTTL == 0 {
		cacheTTL = time.Minute
	}

	return &Config{
		Env:                   env,
		Port:                  port,
		DatabaseURL:           dbURL,
		RedisURL:              viper.GetString("REDIS_URL"),
		JWTSecret:             viper.GetString("JWT_SECRET"),
		FrontendURL:           viper.GetString("FRONTEND_URL"),
		MaxActiveReservations: quota,
		ReservationSweepEvery: sweep,
		ListingCacheTTL:       cacheTTL,
	}, nil
}
