package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	JWT        JWTConfig
	Cloudinary CloudinaryConfig
	Raffle     RaffleConfig
	Admin      AdminConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

type JWTConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
	Issuer        string
}

type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
}

// RaffleConfig carries platform-wide raffle defaults. PrizePercentage is the
// fraction of the pool paid out as prizes; the remainder funds the platform/cause.
type RaffleConfig struct {
	DefaultPrizePercentage   float64
	DefaultCommissionRate    float64
	MaxTicketsPerPurchase    int
	ActivityFeedDefaultLimit int
	PaymentQueueLimit        int
	Currency                 string
}

// AdminConfig seeds the initial admin account on first boot.
type AdminConfig struct {
	Email    string
	Password string
	Name     string
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         envOr("PORT", "8080"),
			Env:          envOr("APP_ENV", "development"),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			DSN:             envOr("DATABASE_DSN", "rifa:rifa@tcp(localhost:3306)/rifa?charset=utf8mb4&parseTime=True&loc=Local"),
			MaxIdleConns:    10,
			MaxOpenConns:    100,
			ConnMaxLifetime: time.Hour,
		},
		JWT: JWTConfig{
			AccessSecret:  envOr("JWT_ACCESS_SECRET", "change-me-in-production"),
			RefreshSecret: envOr("JWT_REFRESH_SECRET", "change-me-refresh"),
			AccessExpiry:  15 * time.Minute,
			RefreshExpiry: 168 * time.Hour,
			Issuer:        "rifa",
		},
		Cloudinary: CloudinaryConfig{
			CloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
			APIKey:    os.Getenv("CLOUDINARY_API_KEY"),
			APISecret: os.Getenv("CLOUDINARY_API_SECRET"),
		},
		Raffle: RaffleConfig{
			DefaultPrizePercentage:   envFloatOr("RAFFLE_PRIZE_PERCENTAGE", 0.70),
			DefaultCommissionRate:    envFloatOr("AFFILIATE_COMMISSION_RATE", 0.05),
			MaxTicketsPerPurchase:    25,
			ActivityFeedDefaultLimit: 20,
			PaymentQueueLimit:        50,
			Currency:                 envOr("CURRENCY", "PEN"),
		},
		Admin: AdminConfig{
			Email:    envOr("ADMIN_EMAIL", "admin@rifa.local"),
			Password: envOr("ADMIN_PASSWORD", "change-me-admin"),
			Name:     envOr("ADMIN_NAME", "Administrator"),
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}
