package payout

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Checker-Finance/paymob-payout/internal/httpclient"
	"github.com/Checker-Finance/paymob-payout/internal/metrics"
)

const tokenPath = "o/token/"

// TokenCache stores the raw token payload under a key with a time-to-live.
// Get reports ok=false on a miss.
type TokenCache interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Option customizes a Client.
type Option func(*clientOptions)

type clientOptions struct {
	httpClient *http.Client
	logger     *zap.Logger
}

// WithHTTPClient replaces the default HTTP client. The configured Timeout still
// bounds every request through its context.
func WithHTTPClient(c *http.Client) Option {
	return func(o *clientOptions) { o.httpClient = c }
}

// WithLogger sets the client logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(o *clientOptions) { o.logger = l }
}

// Client talks to the Paymob payout API. It obtains and caches bearer tokens
// and classifies every response into success or a typed *Error.
//
// A Client is safe for concurrent use. Concurrent cache misses may each fetch a token;
// the last write wins.
type Client struct {
	baseURL  string
	creds    Credentials
	cacheKey string
	ttl      time.Duration
	timeout  time.Duration
	cache    TokenCache
	exec     *httpclient.Executor
	logger   *zap.Logger
}

// NewClient validates cfg and builds a Client backed by cache.
func NewClient(cfg Config, cache TokenCache, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("paymob config: %w", err)
	}
	if cache == nil {
		return nil, fmt.Errorf("paymob config: token cache is required")
	}
	baseURL, _ := cfg.BaseURL()

	o := clientOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	if o.httpClient == nil {
		o.httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &Client{
		baseURL:  baseURL,
		creds:    cfg.Credentials,
		cacheKey: cfg.TokenCacheKey,
		ttl:      cfg.TokenTTL,
		timeout:  cfg.Timeout,
		cache:    cache,
		exec:     httpclient.New(o.logger, o.httpClient, "paymob"),
		logger:   o.logger,
	}, nil
}

// AcquireToken returns the cached token when present, otherwise requests a new
// one with the password grant and caches the raw payload for the configured TTL.
// Cache failures never fail the call.
func (c *Client) AcquireToken(ctx context.Context) (*Token, error) {
	if tok, ok := c.cachedToken(ctx); ok {
		return tok, nil
	}
	return c.requestToken(ctx, map[string]string{
		"grant_type":    "password",
		"client_id":     c.creds.ClientID,
		"client_secret": c.creds.ClientSecret,
		"username":      c.creds.Username,
		"password":      c.creds.Password,
	})
}

// RefreshToken exchanges a refresh token for a new bundle and overwrites the cache entry.
func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (*Token, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return nil, invalidArgument("refresh token is required")
	}
	return c.requestToken(ctx, map[string]string{
		"grant_type":    "refresh_token",
		"client_id":     c.creds.ClientID,
		"client_secret": c.creds.ClientSecret,
		"refresh_token": refreshToken,
	})
}

// Call performs an authenticated request against path (relative to the base URL)
// and returns the response once it has passed classification.
// A non-nil payload is sent as a JSON body; GET requests must encode parameters in path.
func (c *Client) Call(ctx context.Context, method, path string, payload any) (*RawResponse, error) {
	if method == http.MethodGet && payload != nil {
		return nil, invalidArgument("GET requests carry parameters in the path, not a body")
	}

	tok, err := c.AcquireToken(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := c.send(ctx, method, path, tok.AccessToken, payload)
	if err != nil {
		return nil, err
	}

	if err := classifyAPIResponse(resp); err != nil {
		kind, _ := KindOf(err)
		metrics.IncError("paymob_api", string(kind))
		c.logger.Warn("paymob.api_rejected",
			zap.String("method", method),
			zap.String("endpoint", endpointLabel(path)),
			zap.Int("http_status", resp.StatusCode),
			zap.String("kind", string(kind)),
			zap.Error(err))
		return nil, err
	}
	return resp, nil
}

func (c *Client) cachedToken(ctx context.Context) (*Token, bool) {
	raw, ok, err := c.cache.Get(ctx, c.cacheKey)
	if err != nil {
		metrics.IncTokenCache("error")
		c.logger.Warn("paymob.token_cache_read_failed", zap.String("key", c.cacheKey), zap.Error(err))
		return nil, false
	}
	if !ok {
		metrics.IncTokenCache("miss")
		return nil, false
	}
	tok, err := ParseToken(raw)
	if err != nil {
		metrics.IncTokenCache("error")
		c.logger.Warn("paymob.token_cache_malformed", zap.String("key", c.cacheKey), zap.Error(err))
		return nil, false
	}
	metrics.IncTokenCache("hit")
	return tok, true
}

func (c *Client) requestToken(ctx context.Context, form map[string]string) (*Token, error) {
	grant := form["grant_type"]

	resp, err := c.send(ctx, http.MethodPost, tokenPath, "", form)
	if err != nil {
		return nil, err
	}
	if err := classifyTokenResponse(resp); err != nil {
		kind, _ := KindOf(err)
		metrics.IncError("paymob_token", string(kind))
		c.logger.Warn("paymob.token_rejected",
			zap.String("grant_type", grant),
			zap.Int("http_status", resp.StatusCode),
			zap.Error(err))
		return nil, err
	}

	tok, err := ParseToken(resp.Body)
	if err != nil {
		metrics.IncError("paymob_token", "malformed")
		return nil, newError(KindGenericFailure, fmt.Sprintf("Token generation failed: %v", err), fmt.Sprint(resp.StatusCode))
	}

	if err := c.cache.Put(ctx, c.cacheKey, resp.Body, c.ttl); err != nil {
		c.logger.Warn("paymob.token_cache_write_failed", zap.String("key", c.cacheKey), zap.Error(err))
	} else {
		c.logger.Info("paymob.token_cached",
			zap.String("grant_type", grant),
			zap.Duration("ttl", c.ttl),
			zap.Int64("expires_in", tok.ExpiresIn))
	}
	return tok, nil
}

// send issues one request and decodes the body. bearer is omitted when empty.
func (c *Client) send(ctx context.Context, method, path, bearer string, payload any) (*RawResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("paymob encode %s: %w", endpointLabel(path), err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+strings.TrimPrefix(path, "/"), body)
	if err != nil {
		return nil, fmt.Errorf("paymob build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.exec.Do(ctx, req, endpointLabel(path))
	if err != nil {
		return nil, err
	}
	return &RawResponse{
		StatusCode: resp.StatusCode,
		Body:       resp.Body,
		JSON:       decodeObject(resp.Body),
	}, nil
}

// endpointLabel strips the query string so metric labels stay low-cardinality.
func endpointLabel(path string) string {
	path = strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(path, '?'); i >= 0 {
		return path[:i]
	}
	return path
}
