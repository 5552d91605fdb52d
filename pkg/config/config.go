package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/Checker-Finance/paymob-payout/pkg/payout"
)

// Token store backends.
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

// Config holds the core runtime configuration for a service instance.
// It supports environment-based initialization, with sensible defaults.
type Config struct {
	ServiceName string // e.g. "paymob-payout"
	Env         string // e.g. "dev", "uat", "prod"
	LogLevel    string // "debug", "info", etc.
	Port        int    // service HTTP and metrics port

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
	HTTPBodyLimit    int

	// Paymob
	PaymobEnvironment   string // "staging" or "production"
	PaymobStagingURL    string
	PaymobProductionURL string
	PaymobClientID      string
	PaymobClientSecret  string
	PaymobUsername      string
	PaymobPassword      string
	PaymobSecretID      string // when set, credentials come from AWS Secrets Manager
	TokenCacheKey       string
	TokenTTL            time.Duration
	RequestTimeout      time.Duration

	// Token store
	TokenStore  string // "memory" or "redis"
	RedisURL    string // e.g. redis://localhost:6379/0
	CleanupFreq time.Duration

	AWSRegion      string        // for AWS SDK client
	SecretCacheTTL time.Duration // TTL for resolved credentials
}

// Load loads configuration from environment variables and .env file if present.
func Load() *Config {
	// load .env silently (no error if missing)
	_ = godotenv.Load()

	return &Config{
		ServiceName:         GetEnv("SERVICE_NAME", "paymob-payout"),
		Env:                 GetEnv("ENV", "dev"),
		LogLevel:            GetEnv("LOG_LEVEL", "info"),
		Port:                GetEnvInt("PAYMOB_PORT", 9020),
		HTTPReadTimeout:     GetEnvDuration("HTTP_READ_TIMEOUT", 10*time.Second),
		HTTPWriteTimeout:    GetEnvDuration("HTTP_WRITE_TIMEOUT", 35*time.Second),
		HTTPIdleTimeout:     GetEnvDuration("HTTP_IDLE_TIMEOUT", 60*time.Second),
		HTTPBodyLimit:       GetEnvInt("HTTP_BODY_LIMIT", 1*1024*1024),
		PaymobEnvironment:   strings.ToLower(GetEnv("PAYMOB_PAYOUT_ENVIRONMENT", string(payout.EnvStaging))),
		PaymobStagingURL:    GetEnv("PAYMOB_PAYOUT_STAGING_URL", payout.DefaultStagingURL),
		PaymobProductionURL: GetEnv("PAYMOB_PAYOUT_PRODUCTION_URL", payout.DefaultProductionURL),
		PaymobClientID:      GetEnv("PAYMOB_PAYOUT_CLIENT_ID", ""),
		PaymobClientSecret:  GetEnv("PAYMOB_PAYOUT_CLIENT_SECRET", ""),
		PaymobUsername:      GetEnv("PAYMOB_PAYOUT_USERNAME", ""),
		PaymobPassword:      GetEnv("PAYMOB_PAYOUT_PASSWORD", ""),
		PaymobSecretID:      GetEnv("PAYMOB_SECRET_ID", ""),
		TokenCacheKey:       GetEnv("PAYMOB_PAYOUT_TOKEN_CACHE_KEY", payout.DefaultTokenCacheKey),
		TokenTTL:            GetEnvSeconds("PAYMOB_PAYOUT_TOKEN_TTL", payout.DefaultTokenTTL),
		RequestTimeout:      GetEnvSeconds("PAYMOB_PAYOUT_TIMEOUT", payout.DefaultTimeout),
		TokenStore:          strings.ToLower(GetEnv("TOKEN_STORE", StoreMemory)),
		RedisURL:            GetEnv("REDIS_URL", "redis://localhost:6379/0"),
		CleanupFreq:         GetEnvDuration("CACHE_CLEANUP_FREQ", 10*time.Minute),
		AWSRegion:           GetEnv("AWS_REGION", "us-east-2"),
		SecretCacheTTL:      GetEnvDuration("SECRET_CACHE_TTL", 30*time.Minute),
	}
}

// Validate checks settings that have no sensible default.
// Credentials are only required when no secret id is configured.
func (c *Config) Validate() error {
	switch c.TokenStore {
	case StoreMemory, StoreRedis:
	default:
		return fmt.Errorf("TOKEN_STORE must be %q or %q, got %q", StoreMemory, StoreRedis, c.TokenStore)
	}
	if c.PaymobSecretID == "" {
		if err := c.Credentials().Validate(); err != nil {
			return fmt.Errorf("%w (set PAYMOB_PAYOUT_* or PAYMOB_SECRET_ID)", err)
		}
	}
	return nil
}

// Credentials returns the credentials configured in the environment.
func (c *Config) Credentials() payout.Credentials {
	return payout.Credentials{
		ClientID:     c.PaymobClientID,
		ClientSecret: c.PaymobClientSecret,
		Username:     c.PaymobUsername,
		Password:     c.PaymobPassword,
	}
}

// Payout maps the service configuration onto the client configuration.
// creds overrides the environment credentials (e.g. after resolving them from AWS).
func (c *Config) Payout(creds payout.Credentials) payout.Config {
	return payout.Config{
		Environment: payout.Environment(c.PaymobEnvironment),
		BaseURLs: map[payout.Environment]string{
			payout.EnvStaging:    c.PaymobStagingURL,
			payout.EnvProduction: c.PaymobProductionURL,
		},
		Credentials:   creds,
		TokenCacheKey: c.TokenCacheKey,
		TokenTTL:      c.TokenTTL,
		Timeout:       c.RequestTimeout,
	}
}
