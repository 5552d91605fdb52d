package payout

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Environment selects which Paymob payout deployment the client talks to.
type Environment string

const (
	EnvStaging    Environment = "staging"
	EnvProduction Environment = "production"
)

const (
	DefaultStagingURL    = "https://stagingpayouts.paymobsolutions.com/api/secure/"
	DefaultProductionURL = "https://payouts.paymobsolutions.com/api/secure/"
	DefaultTokenCacheKey = "paymob_payout_token"
	DefaultTokenTTL      = 3500 * time.Second
	DefaultTimeout       = 30 * time.Second
)

// Credentials are the four secrets issued by Paymob for the password grant.
type Credentials struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	Username     string `json:"username"`
	Password     string `json:"password"`
}

// Validate checks that every credential is present.
func (c Credentials) Validate() error {
	var missing []string
	if c.ClientID == "" {
		missing = append(missing, "client_id")
	}
	if c.ClientSecret == "" {
		missing = append(missing, "client_secret")
	}
	if c.Username == "" {
		missing = append(missing, "username")
	}
	if c.Password == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing credentials: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Config is read once by NewClient.
//
// TokenTTL is a local cache policy and is not derived from the token's expires_in.
type Config struct {
	Environment   Environment
	BaseURLs      map[Environment]string
	Credentials   Credentials
	TokenCacheKey string
	TokenTTL      time.Duration
	Timeout       time.Duration
}

// DefaultConfig returns a staging configuration with the provider's published URLs.
// Credentials must still be filled in.
func DefaultConfig() Config {
	return Config{
		Environment: EnvStaging,
		BaseURLs: map[Environment]string{
			EnvStaging:    DefaultStagingURL,
			EnvProduction: DefaultProductionURL,
		},
		TokenCacheKey: DefaultTokenCacheKey,
		TokenTTL:      DefaultTokenTTL,
		Timeout:       DefaultTimeout,
	}
}

// BaseURL returns the base URL for the selected environment, always ending in "/".
func (c Config) BaseURL() (string, error) {
	switch c.Environment {
	case EnvStaging, EnvProduction:
	default:
		return "", fmt.Errorf("unknown environment %q (want staging or production)", c.Environment)
	}
	u := strings.TrimSpace(c.BaseURLs[c.Environment])
	if u == "" {
		return "", fmt.Errorf("no base URL configured for %s", c.Environment)
	}
	if !strings.HasSuffix(u, "/") {
		u += "/"
	}
	return u, nil
}

func (c Config) Validate() error {
	if _, err := c.BaseURL(); err != nil {
		return err
	}
	if err := c.Credentials.Validate(); err != nil {
		return err
	}
	if c.TokenCacheKey == "" {
		return errors.New("token cache key is required")
	}
	if c.TokenTTL <= 0 {
		return errors.New("token TTL must be positive")
	}
	if c.Timeout <= 0 {
		return errors.New("timeout must be positive")
	}
	return nil
}
