package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds every runtime setting the service needs. It is built once
// in main and handed to components by value — no package-level globals.
type Config struct {
	ListenAddr     string
	AllowedOrigins string

	DatabaseURL string

	JWTSecret string
	TokenTTL  time.Duration

	// Transaction oracle (Tatum TRON API)
	TatumBaseURL  string
	TatumAPIKey   string
	OracleTimeout time.Duration

	// Central USDT (TRC20) wallet that collects entry fees
	CentralWallet string

	// Fixed fee charged on the manual-verification join path
	ManualEntryFee float64

	// R2 banner storage (optional — uploads disabled when bucket is empty)
	R2AccountID       string
	R2AccessKeyID     string
	R2AccessKeySecret string
	R2Bucket          string
	CDNBaseURL        string

	ReconcileInterval time.Duration
}

func Load() (Config, error) {
	cfg := Config{
		ListenAddr:        getEnv("LISTEN_ADDR", ":5200"),
		AllowedOrigins:    normalizeOrigins(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		JWTSecret:         os.Getenv("SECRET_KEY"),
		TokenTTL:          getDuration("TOKEN_TTL", 30*time.Minute),
		TatumBaseURL:      getEnv("TATUM_BASE_URL", "https://api.tatum.io"),
		TatumAPIKey:       os.Getenv("TATUM_API_KEY"),
		OracleTimeout:     getDuration("ORACLE_TIMEOUT", 10*time.Second),
		CentralWallet:     os.Getenv("WALLET_CENTRAL"),
		ManualEntryFee:    getFloat("MANUAL_ENTRY_FEE", 10.00),
		R2AccountID:       os.Getenv("CLOUDFLARE_ACCOUNT_ID"),
		R2AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
		R2AccessKeySecret: os.Getenv("R2_ACCESS_KEY_SECRET"),
		R2Bucket:          os.Getenv("R2_BUCKET_NAME"),
		CDNBaseURL:        os.Getenv("CDN_BASE_URL"),
		ReconcileInterval: getDuration("RECONCILE_INTERVAL", 1*time.Minute),
	}

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL environment variable not set")
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("SECRET_KEY environment variable not set")
	}
	if cfg.CentralWallet == "" {
		return Config{}, fmt.Errorf("WALLET_CENTRAL environment variable not set")
	}
	return cfg, nil
}

// BannerUploadsEnabled reports whether R2 storage is configured.
func (c Config) BannerUploadsEnabled() bool {
	return c.R2Bucket != ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func getFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func normalizeOrigins(raw string) string {
	parts := strings.Split(raw, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return strings.Join(parts, ",")
}
