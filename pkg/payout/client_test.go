package payout

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Checker-Finance/paymob-payout/pkg/store"
)

const tokenBody = `{"access_token":"tok-1","refresh_token":"ref-1","expires_in":36000,"scope":"read write","token_type":"Bearer"}`

// fakePaymob serves o/token/ and records every request.
type fakePaymob struct {
	mu          sync.Mutex
	tokenCalls  atomic.Int32
	apiCalls    atomic.Int32
	tokenStatus int
	tokenResp   string
	apiStatus   int
	apiResp     string
	lastToken   map[string]string
	lastReq     *http.Request
	lastBody    []byte
}

func (f *fakePaymob) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	defer f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if r.URL.Path == "/api/secure/o/token/" {
		f.tokenCalls.Add(1)
		f.lastToken = map[string]string{}
		_ = json.Unmarshal(body, &f.lastToken)
		f.lastReq = r
		status, resp := f.tokenStatus, f.tokenResp
		if status == 0 {
			status, resp = http.StatusOK, tokenBody
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(resp))
		return
	}

	f.apiCalls.Add(1)
	f.lastReq = r
	f.lastBody = body
	status, resp := f.apiStatus, f.apiResp
	if status == 0 {
		status = http.StatusOK
	}
	if resp == "" {
		resp = `{"status_code":"200"}`
	}
	w.WriteHeader(status)
	_, _ = w.Write([]byte(resp))
}

func (f *fakePaymob) respondToken(status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokenStatus, f.tokenResp = status, body
}

func (f *fakePaymob) respondAPI(status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.apiStatus, f.apiResp = status, body
}

func (f *fakePaymob) tokenForm() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastToken
}

func (f *fakePaymob) request() (*http.Request, []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastReq, f.lastBody
}

func testConfig(baseURL string) Config {
	cfg := DefaultConfig()
	cfg.BaseURLs[EnvStaging] = baseURL + "/api/secure"
	cfg.Credentials = Credentials{ClientID: "cid", ClientSecret: "csecret", Username: "merchant", Password: "pw"}
	return cfg
}

func newTestClient(t *testing.T, cache TokenCache) (*Client, *fakePaymob) {
	t.Helper()
	fake := &fakePaymob{}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	c, err := NewClient(testConfig(srv.URL), cache, WithHTTPClient(srv.Client()), WithLogger(zap.NewNop()))
	require.NoError(t, err)
	return c, fake
}

// failingCache fails reads and/or writes.
type failingCache struct {
	getErr, putErr error
	raw            []byte
	puts           int
}

func (c *failingCache) Get(context.Context, string) ([]byte, bool, error) {
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	return c.raw, c.raw != nil, nil
}

func (c *failingCache) Put(_ context.Context, _ string, v []byte, _ time.Duration) error {
	c.puts++
	if c.putErr != nil {
		return c.putErr
	}
	c.raw = v
	return nil
}

// ─── Construction ────────────────────────────────────────────────────────────

func TestNewClient_Validation(t *testing.T) {
	cfg := testConfig("https://example.test")

	_, err := NewClient(cfg, nil)
	assert.Error(t, err)

	bad := cfg
	bad.Credentials.Password = ""
	_, err = NewClient(bad, store.NewMemoryStore(0))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "password")

	bad = cfg
	bad.Environment = "sandbox"
	_, err = NewClient(bad, store.NewMemoryStore(0))
	assert.Error(t, err)

	bad = cfg
	bad.TokenTTL = 0
	_, err = NewClient(bad, store.NewMemoryStore(0))
	assert.Error(t, err)
}

func TestConfig_BaseURL(t *testing.T) {
	cfg := DefaultConfig()
	u, err := cfg.BaseURL()
	require.NoError(t, err)
	assert.Equal(t, DefaultStagingURL, u)

	cfg.Environment = EnvProduction
	u, err = cfg.BaseURL()
	require.NoError(t, err)
	assert.Equal(t, DefaultProductionURL, u)

	cfg.BaseURLs[EnvProduction] = "https://payouts.example.test/api"
	u, err = cfg.BaseURL()
	require.NoError(t, err)
	assert.Equal(t, "https://payouts.example.test/api/", u)
}

// ─── Token acquisition ──────────────────────────────────────────────────────

func TestAcquireToken_FetchesAndCaches(t *testing.T) {
	cache := store.NewMemoryStore(0)
	c, fake := newTestClient(t, cache)
	ctx := context.Background()

	tok, err := c.AcquireToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", tok.AccessToken)
	assert.Equal(t, "ref-1", tok.RefreshToken)
	assert.EqualValues(t, 36000, tok.ExpiresIn)

	assert.Equal(t, map[string]string{
		"grant_type":    "password",
		"client_id":     "cid",
		"client_secret": "csecret",
		"username":      "merchant",
		"password":      "pw",
	}, fake.tokenForm())
	req, _ := fake.request()
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
	assert.Empty(t, req.Header.Get("Authorization"))

	raw, ok, err := cache.Get(ctx, DefaultTokenCacheKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, tokenBody, string(raw))

	again, err := c.AcquireToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, tok, again)
	assert.EqualValues(t, 1, fake.tokenCalls.Load(), "second acquire must be served from cache")
}

func TestAcquireToken_CacheHitMakesNoRequest(t *testing.T) {
	cache := store.NewMemoryStore(0)
	require.NoError(t, cache.Put(context.Background(), DefaultTokenCacheKey, []byte(`{"access_token":"cached"}`), time.Minute))
	c, fake := newTestClient(t, cache)

	tok, err := c.AcquireToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "cached", tok.AccessToken)
	assert.Zero(t, fake.tokenCalls.Load())
}

func TestAcquireToken_CacheReadFailureFallsThrough(t *testing.T) {
	cache := &failingCache{getErr: errors.New("redis down")}
	c, fake := newTestClient(t, cache)

	tok, err := c.AcquireToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-1", tok.AccessToken)
	assert.EqualValues(t, 1, fake.tokenCalls.Load())
}

func TestAcquireToken_CacheWriteFailureStillReturnsToken(t *testing.T) {
	cache := &failingCache{putErr: errors.New("read-only replica")}
	c, _ := newTestClient(t, cache)

	tok, err := c.AcquireToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-1", tok.AccessToken)
	assert.Equal(t, 1, cache.puts)
}

func TestAcquireToken_MalformedCacheEntryIsAMiss(t *testing.T) {
	cache := &failingCache{raw: []byte(`{"access_token":""}`)}
	c, fake := newTestClient(t, cache)

	tok, err := c.AcquireToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-1", tok.AccessToken)
	assert.EqualValues(t, 1, fake.tokenCalls.Load())
	assert.JSONEq(t, tokenBody, string(cache.raw), "fresh token overwrites the bad entry")
}

func TestAcquireToken_ProviderRejections(t *testing.T) {
	tests := []struct {
		status int
		target error
	}{
		{http.StatusBadRequest, ErrAuthenticationFailed},
		{http.StatusInternalServerError, ErrServerError},
		{http.StatusNotFound, ErrBadEndpoint},
		{http.StatusGatewayTimeout, ErrGatewayError},
		{http.StatusUnauthorized, ErrGenericFailure},
	}
	for _, tc := range tests {
		t.Run(http.StatusText(tc.status), func(t *testing.T) {
			cache := store.NewMemoryStore(0)
			c, fake := newTestClient(t, cache)
			fake.respondToken(tc.status, `{"error":"invalid_grant"}`)

			_, err := c.AcquireToken(context.Background())
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.target)

			_, ok, _ := cache.Get(context.Background(), DefaultTokenCacheKey)
			assert.False(t, ok, "failed token responses are never cached")
		})
	}
}

func TestAcquireToken_SuccessWithoutAccessToken(t *testing.T) {
	c, fake := newTestClient(t, store.NewMemoryStore(0))
	fake.respondToken(http.StatusOK, `{"detail":"ok"}`)

	_, err := c.AcquireToken(context.Background())
	assert.ErrorIs(t, err, ErrGenericFailure)
}

func TestAcquireToken_RedisBacked(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	fake := &fakePaymob{}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	cache := store.NewRedisStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}), zap.NewNop())
	c, err := NewClient(testConfig(srv.URL), cache)
	require.NoError(t, err)

	_, err = c.AcquireToken(context.Background())
	require.NoError(t, err)

	stored, err := mr.Get(DefaultTokenCacheKey)
	require.NoError(t, err)
	assert.JSONEq(t, tokenBody, stored)
	assert.Equal(t, DefaultTokenTTL, mr.TTL(DefaultTokenCacheKey))

	// a second client sharing the same Redis reuses the token
	other, err := NewClient(testConfig(srv.URL), cache)
	require.NoError(t, err)
	tok, err := other.AcquireToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-1", tok.AccessToken)
	assert.EqualValues(t, 1, fake.tokenCalls.Load())

	// once the entry expires a new token is fetched
	mr.FastForward(DefaultTokenTTL + time.Second)
	_, err = c.AcquireToken(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 2, fake.tokenCalls.Load())
}

// ─── Refresh ────────────────────────────────────────────────────────────────

func TestRefreshToken(t *testing.T) {
	cache := store.NewMemoryStore(0)
	c, fake := newTestClient(t, cache)

	_, err := c.RefreshToken(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.Zero(t, fake.tokenCalls.Load())

	fake.respondToken(http.StatusOK, `{"access_token":"tok-2","refresh_token":"ref-2","expires_in":"36000"}`)
	tok, err := c.RefreshToken(context.Background(), "ref-1")
	require.NoError(t, err)
	assert.Equal(t, "tok-2", tok.AccessToken)
	form := fake.tokenForm()
	assert.Equal(t, "refresh_token", form["grant_type"])
	assert.Equal(t, "ref-1", form["refresh_token"])
	assert.Equal(t, "cid", form["client_id"])

	raw, ok, _ := cache.Get(context.Background(), DefaultTokenCacheKey)
	require.True(t, ok)
	assert.Contains(t, string(raw), "tok-2")
}

// ─── Authenticated calls ────────────────────────────────────────────────────

func TestCall_SendsBearerAndJSON(t *testing.T) {
	c, fake := newTestClient(t, store.NewMemoryStore(0))
	fake.respondAPI(http.StatusOK, `{"transaction_id":"T1","status_code":"200"}`)

	resp, err := c.Call(context.Background(), http.MethodPost, "disburse/", map[string]any{"issuer": "vodafone"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "T1", resp.JSON["transaction_id"])

	req, body := fake.request()
	assert.Equal(t, "/api/secure/disburse/", req.URL.Path)
	assert.Equal(t, "Bearer tok-1", req.Header.Get("Authorization"))
	assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
	assert.Equal(t, "application/json", req.Header.Get("Accept"))
	assert.JSONEq(t, `{"issuer":"vodafone"}`, string(body))
}

func TestCall_NilPayloadSendsNoBody(t *testing.T) {
	c, fake := newTestClient(t, store.NewMemoryStore(0))
	fake.respondAPI(http.StatusOK, `{"current_balance":"10"}`)

	_, err := c.Call(context.Background(), http.MethodGet, "budget/inquire/", nil)
	require.NoError(t, err)

	req, body := fake.request()
	assert.Equal(t, http.MethodGet, req.Method)
	assert.Empty(t, body)
}

func TestCall_GETWithPayloadRejected(t *testing.T) {
	c, fake := newTestClient(t, store.NewMemoryStore(0))

	_, err := c.Call(context.Background(), http.MethodGet, "budget/inquire/", map[string]string{"a": "b"})
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.Zero(t, fake.tokenCalls.Load())
	assert.Zero(t, fake.apiCalls.Load())
}

func TestCall_ClassifiesBusinessFailure(t *testing.T) {
	c, fake := newTestClient(t, store.NewMemoryStore(0))
	fake.respondAPI(http.StatusOK, `{"status_code":"6005","status_description":"Insufficient balance"}`)

	_, err := c.Call(context.Background(), http.MethodPost, "disburse/", map[string]any{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	var pe *Error
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "Insufficient balance", pe.Message)
	assert.Equal(t, "6005", pe.StatusCode)
}

func TestCall_TokenFailureStopsCall(t *testing.T) {
	c, fake := newTestClient(t, store.NewMemoryStore(0))
	fake.respondToken(http.StatusBadRequest, `{"error":"invalid_client"}`)

	_, err := c.Call(context.Background(), http.MethodGet, "budget/inquire/", nil)
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
	assert.Zero(t, fake.apiCalls.Load())
}

func TestCall_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/secure/o/token/" {
			_, _ = w.Write([]byte(tokenBody))
			return
		}
		select {
		case <-time.After(500 * time.Millisecond):
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.Timeout = 50 * time.Millisecond
	c, err := NewClient(cfg, store.NewMemoryStore(0), WithHTTPClient(&http.Client{}))
	require.NoError(t, err)

	_, err = c.Call(context.Background(), http.MethodGet, "budget/inquire/", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	_, isPayout := KindOf(err)
	assert.False(t, isPayout, "transport failures are not classified")
}

func TestEndpointLabel(t *testing.T) {
	assert.Equal(t, "transaction/inquire/", endpointLabel("/transaction/inquire/?transactions_ids_list=A"))
	assert.Equal(t, "disburse/", endpointLabel("disburse/"))
}
