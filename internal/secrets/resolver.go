package secrets

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Checker-Finance/paymob-payout/pkg/payout"
	pkgsecrets "github.com/Checker-Finance/paymob-payout/pkg/secrets"
	"github.com/Checker-Finance/paymob-payout/pkg/utils"
)

// CredentialsResolver loads Paymob credentials from a secrets provider,
// caching them locally to reduce API calls.
//
// The secret is a JSON object with client_id, client_secret, username and password.
type CredentialsResolver struct {
	logger   *zap.Logger
	secretID string
	provider pkgsecrets.Provider
	cache    *pkgsecrets.Cache[payout.Credentials]
}

// NewCredentialsResolver constructs a resolver for a single secret.
func NewCredentialsResolver(
	logger *zap.Logger,
	secretID string,
	provider pkgsecrets.Provider,
	cache *pkgsecrets.Cache[payout.Credentials],
) *CredentialsResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CredentialsResolver{
		logger:   logger,
		secretID: secretID,
		provider: provider,
		cache:    cache,
	}
}

func (r *CredentialsResolver) cacheKey() string {
	return strings.ToLower(r.secretID)
}

// Resolve returns cached credentials or fetches and validates them from the provider.
func (r *CredentialsResolver) Resolve(ctx context.Context) (payout.Credentials, error) {
	key := r.cacheKey()

	// --- check in-memory cache first ---
	if creds, ok := r.cache.Get(key); ok {
		return creds, nil
	}

	// --- fetch from the secrets provider ---
	secretMap, err := r.provider.GetSecret(ctx, r.secretID)
	if err != nil {
		r.logger.Warn("aws.secret_fetch_failed",
			zap.String("key", r.secretID),
			zap.Error(err))
		return payout.Credentials{}, fmt.Errorf("resolve paymob credentials: %w", err)
	}

	creds, err := ParseCredentials(secretMap)
	if err != nil {
		return payout.Credentials{}, fmt.Errorf("parse secret %q: %w", r.secretID, err)
	}

	// --- cache locally for next time ---
	r.cache.Put(key, creds)

	r.logger.Info("aws.paymob_credentials_resolved",
		zap.String("secret", r.secretID),
		zap.String("username", creds.Username),
		zap.String("client_id", utils.MaskSecret(creds.ClientID)),
	)
	return creds, nil
}

// Bust drops the cached credentials so the next Resolve refetches (e.g. after rotation).
func (r *CredentialsResolver) Bust() {
	r.cache.Bust(r.cacheKey())
}

// ParseCredentials extracts and validates credentials from a raw secret map.
func ParseCredentials(m map[string]string) (payout.Credentials, error) {
	creds := payout.Credentials{
		ClientID:     strings.TrimSpace(m["client_id"]),
		ClientSecret: strings.TrimSpace(m["client_secret"]),
		Username:     strings.TrimSpace(m["username"]),
		Password:     m["password"],
	}
	if err := creds.Validate(); err != nil {
		return payout.Credentials{}, err
	}
	return creds, nil
}
