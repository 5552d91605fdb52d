package httpclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/Checker-Finance/paymob-payout/internal/metrics"
)

// maxBodyBytes caps how much of a response body is buffered.
const maxBodyBytes = 4 << 20

// Response is a fully-read HTTP response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Executor performs single-shot HTTP requests and buffers the body.
// It never retries: retry policy belongs to the caller.
type Executor struct {
	logger   *zap.Logger
	http     *http.Client
	venueTag string
}

// New creates an Executor. A nil logger falls back to zap.NewNop.
func New(logger *zap.Logger, httpClient *http.Client, venueTag string) *Executor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Executor{
		logger:   logger,
		http:     httpClient,
		venueTag: venueTag,
	}
}

// Do executes req and returns the buffered response whatever its status code.
// endpoint is a low-cardinality label for metrics (e.g. "disburse/").
// Only transport failures are returned as errors.
func (e *Executor) Do(ctx context.Context, req *http.Request, endpoint string) (*Response, error) {
	req = req.WithContext(ctx)

	start := time.Now()
	resp, err := e.http.Do(req)
	metrics.ObserveDuration(metrics.PaymobRequestDuration, start, endpoint, req.Method)
	if err != nil {
		metrics.IncPaymobRequest(endpoint, req.Method, "transport_error")
		e.logger.Warn(e.venueTag+".http_failed",
			zap.String("endpoint", endpoint),
			zap.String("method", req.Method),
			zap.Error(err))
		return nil, fmt.Errorf("%s %s %s: %w", e.venueTag, req.Method, endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		metrics.IncPaymobRequest(endpoint, req.Method, "read_error")
		return nil, fmt.Errorf("%s read body: %w", e.venueTag, err)
	}

	elapsed := time.Since(start)
	metrics.IncPaymobRequest(endpoint, req.Method, strconv.Itoa(resp.StatusCode))

	if resp.StatusCode >= 400 {
		e.logger.Warn(e.venueTag+".http_error_status",
			zap.String("endpoint", endpoint),
			zap.String("method", req.Method),
			zap.Int("status", resp.StatusCode),
			zap.Duration("latency", elapsed))
	} else {
		e.logger.Debug(e.venueTag+".http_success",
			zap.String("endpoint", endpoint),
			zap.String("method", req.Method),
			zap.Int("status", resp.StatusCode),
			zap.Duration("elapsed", elapsed))
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, nil
}
