package config

import (
	"fmt"
	"log"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/spf13/viper"
)

// Config holds every runtime setting of the API process
type Config struct {
	Port                  string
	DatabaseURL           string
	JWTSecret             string
	JWTTTL                time.Duration
	SessionIdleTimeout    time.Duration
	Location              *time.Location
	LowStockThreshold     int
	RequireRejectionNotes bool
	CORSAllowOrigins      string
}

const defaultJWTSecret = "your-super-secret-key-change-in-production"

// Load reads configuration from the environment. Call godotenv.Load before
// Load so values from .env are visible here.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("PORT", "3000")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "winehouse")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("JWT_TTL_HOURS", 24)
	v.SetDefault("SESSION_IDLE_MINUTES", 5)
	v.SetDefault("APP_TIMEZONE", "Asia/Manila")
	v.SetDefault("LOW_STOCK_THRESHOLD", 10)
	v.SetDefault("REQUIRE_REJECTION_NOTES", true)
	v.SetDefault("CORS_ALLOW_ORIGINS", "*")

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	dsn := v.GetString("DATABASE_URL")
	if dsn == "" {
		dsn = fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=%s",
			v.GetString("DB_HOST"),
			v.GetString("DB_USER"),
			v.GetString("DB_PASSWORD"),
			v.GetString("DB_NAME"),
			v.GetString("DB_PORT"),
			v.GetString("APP_TIMEZONE"),
		)
	}

	loc, err := time.LoadLocation(v.GetString("APP_TIMEZONE"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_TIMEZONE %q: %w", v.GetString("APP_TIMEZONE"), err)
	}

	ttlHours := v.GetInt("JWT_TTL_HOURS")
	if ttlHours <= 0 {
		return nil, fmt.Errorf("JWT_TTL_HOURS must be positive, got %d", ttlHours)
	}
	idle := v.GetInt("SESSION_IDLE_MINUTES")
	if idle <= 0 {
		return nil, fmt.Errorf("SESSION_IDLE_MINUTES must be positive, got %d", idle)
	}

	cfg := &Config{
		Port:                  v.GetString("PORT"),
		DatabaseURL:           dsn,
		JWTSecret:             v.GetString("JWT_SECRET"),
		JWTTTL:                time.Duration(ttlHours) * time.Hour,
		SessionIdleTimeout:    time.Duration(idle) * time.Minute,
		Location:              loc,
		LowStockThreshold:     v.GetInt("LOW_STOCK_THRESHOLD"),
		RequireRejectionNotes: v.GetBool("REQUIRE_REJECTION_NOTES"),
		CORSAllowOrigins:      v.GetString("CORS_ALLOW_ORIGINS"),
	}

	if cfg.JWTSecret == defaultJWTSecret {
		log.Println("Warning: JWT_SECRET not set, using the development default")
	}

	return cfg, nil
}
