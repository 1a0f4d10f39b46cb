package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds everything read from the environment at startup.
type Config struct {
	Port    string
	MongoDB MongoConfig
	Redis   RedisConfig
	Token   TokenConfig
	Email   EmailConfig
	Reset   ResetConfig
	VNPay   VNPayConfig
	Seed    SeedConfig
}

type MongoConfig struct {
	URI      string
	Database string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type TokenConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessExpire  time.Duration
	RefreshExpire time.Duration
}

type EmailConfig struct {
	SendGridAPIKey string
	Sender         string
}

type ResetConfig struct {
	// PasswordExpire bounds how long a forgot-password token stays valid.
	PasswordExpire time.Duration
	// ResetURL is the frontend page the reset link points at.
	ResetURL string
}

type VNPayConfig struct {
	TmnCode   string
	SecretKey string
	PayURL    string
	ReturnURL string
}

// SeedConfig names the first-run admin account. Both fields empty skips the
// account creation; the system roles are always ensured.
type SeedConfig struct {
	AdminEmail    string
	AdminPassword string
}

// Load reads the configuration from environment variables. Secrets for both
// token classes are required; everything else has a workable default.
func Load() (*Config, error) {
	accessSecret := os.Getenv("ACCESS_TOKEN_SECRET")
	refreshSecret := os.Getenv("REFRESH_TOKEN_SECRET")
	if accessSecret == "" || refreshSecret == "" {
		return nil, fmt.Errorf("ACCESS_TOKEN_SECRET and REFRESH_TOKEN_SECRET must be set")
	}

	accessExpire, err := ParseExpire(envOr("ACCESS_TOKEN_EXPIRE", "15m"))
	if err != nil {
		return nil, fmt.Errorf("ACCESS_TOKEN_EXPIRE: %w", err)
	}
	refreshExpire, err := ParseExpire(envOr("REFRESH_TOKEN_EXPIRE", "7d"))
	if err != nil {
		return nil, fmt.Errorf("REFRESH_TOKEN_EXPIRE: %w", err)
	}
	resetExpire, err := ParseExpire(envOr("TIME_EXPIRE_PASSWORD", "1h"))
	if err != nil {
		return nil, fmt.Errorf("TIME_EXPIRE_PASSWORD: %w", err)
	}

	redisDB, err := strconv.Atoi(envOr("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("REDIS_DB: %w", err)
	}

	return &Config{
		Port: envOr("PORT", "8000"),
		MongoDB: MongoConfig{
			URI:      envOr("MONGO_DB", "mongodb://localhost:27017"),
			Database: envOr("MONGO_DB_NAME", "shop"),
		},
		Redis: RedisConfig{
			Addr:     envOr("REDIS_ADDR", "localhost:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Token: TokenConfig{
			AccessSecret:  accessSecret,
			RefreshSecret: refreshSecret,
			AccessExpire:  accessExpire,
			RefreshExpire: refreshExpire,
		},
		Email: EmailConfig{
			SendGridAPIKey: os.Getenv("SENDGRID_API_KEY"),
			Sender:         os.Getenv("EMAIL_SENDER"),
		},
		Reset: ResetConfig{
			PasswordExpire: resetExpire,
			ResetURL:       os.Getenv("URL_RESET_PASSWORD"),
		},
		VNPay: VNPayConfig{
			TmnCode:   os.Getenv("VNPAY_TMN_CODE"),
			SecretKey: os.Getenv("VNPAY_SECRET_KEY"),
			PayURL:    envOr("VNPAY_PAYMENT_URL", "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html"),
			ReturnURL: os.Getenv("VNPAY_RETURN_URL"),
		},
		Seed: SeedConfig{
			AdminEmail:    os.Getenv("ADMIN_EMAIL"),
			AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		},
	}, nil
}

// ParseExpire parses durations in the "1d", "2h", "30m", "45s" shorthand used
// for token lifetimes.
func ParseExpire(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	value, err := strconv.Atoi(s[:len(s)-1])
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	switch s[len(s)-1] {
	case 'd':
		return time.Duration(value) * 24 * time.Hour, nil
	case 'h':
		return time.Duration(value) * time.Hour, nil
	case 'm':
		return time.Duration(value) * time.Minute, nil
	case 's':
		return time.Duration(value) * time.Second, nil
	}
	return 0, fmt.Errorf("invalid duration unit in %q", s)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
