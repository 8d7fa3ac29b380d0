// Package config loads the server settings from the environment (and an
// optional .env file) and checks that the required ones are present.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// InsecureJWTSecret is the legacy signing secret. It is only accepted when
// AllowInsecureJWTSecret is set, and its use is a deployment misconfiguration.
const InsecureJWTSecret = "secretkey"

type Config struct {
	Port        string
	DatabaseURL string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret              string
	AllowInsecureJWTSecret bool
	TokenTTL               time.Duration
	CacheTTL               time.Duration

	LogLevel  slog.Level
	LogFormat string

	CORSAllowedOrigins []string

	OAuthProvider     string
	OAuthClientID     string
	OAuthClientSecret string
	OAuthRedirectURL  string
}

// Load reads .env (if present) and then the process environment.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		JWTSecret:              os.Getenv("JWT_SECRET"),
		AllowInsecureJWTSecret: getEnvBool("ALLOW_INSECURE_JWT_SECRET", false),
		TokenTTL:               getEnvDuration("TOKEN_TTL", time.Hour),
		CacheTTL:               getEnvDuration("CACHE_TTL", 10*time.Minute),

		LogLevel:  parseLevel(getEnv("LOG_LEVEL", "info")),
		LogFormat: getEnv("LOG_FORMAT", "text"),

		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),

		OAuthProvider:     getEnv("OAUTH_PROVIDER", "google"),
		OAuthClientID:     os.Getenv("OAUTH_CLIENT_ID"),
		OAuthClientSecret: os.Getenv("OAUTH_CLIENT_SECRET"),
		OAuthRedirectURL:  os.Getenv("OAUTH_REDIRECT_URL"),
	}

	if cfg.JWTSecret == "" && cfg.AllowInsecureJWTSecret {
		cfg.JWTSecret = InsecureJWTSecret
	}

	return cfg
}

// Validate reports every missing or malformed setting at once.
func (c *Config) Validate() error {
	var errs []error

	if port, err := strconv.Atoi(c.Port); err != nil || port < 1 || port > 65535 {
		errs = append(errs, fmt.Errorf("invalid PORT %q: must be a number between 1 and 65535", c.Port))
	}
	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL is required"))
	}
	if c.RedisAddr == "" {
		errs = append(errs, errors.New("REDIS_ADDR is required"))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, fmt.Errorf("invalid TOKEN_TTL %s: must be positive", c.TokenTTL))
	}
	if c.CacheTTL < 0 {
		errs = append(errs, fmt.Errorf("invalid CACHE_TTL %s: must not be negative", c.CacheTTL))
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		errs = append(errs, fmt.Errorf("invalid LOG_FORMAT %q: must be text or json", c.LogFormat))
	}
	if c.OAuthEnabled() && (c.OAuthClientSecret == "" || c.OAuthRedirectURL == "") {
		errs = append(errs, errors.New("OAUTH_CLIENT_SECRET and OAUTH_REDIRECT_URL are required when OAUTH_CLIENT_ID is set"))
	}
	if c.OAuthEnabled() && c.OAuthProvider != "google" {
		errs = append(errs, fmt.Errorf("unsupported OAUTH_PROVIDER %q", c.OAuthProvider))
	}

	return errors.Join(errs...)
}

// UsesInsecureSecret reports whether tokens are signed with the legacy
// fallback secret.
func (c *Config) UsesInsecureSecret() bool {
	return c.JWTSecret == InsecureJWTSecret
}

func (c *Config) OAuthEnabled() bool {
	return c.OAuthClientID != ""
}

// NewLogger builds the process logger from LOG_LEVEL and LOG_FORMAT.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevel}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
