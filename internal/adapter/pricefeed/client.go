package pricefeed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// ErrUnknownSymbol indicates the price feed does not quote the symbol.
var ErrUnknownSymbol = errors.New("symbol not quoted")

// TooManyRequestsError represents rate limiting signal from the price feed.
type TooManyRequestsError struct {
	RetryAfter time.Duration
}

func (e TooManyRequestsError) Error() string {
	return fmt.Sprintf("too many requests, retry after %s", e.RetryAfter)
}

// HTTPOracle quotes USD rates from a price feed over HTTP. After a 429 it
// answers locally with TooManyRequestsError until Retry-After has passed.
type HTTPOracle struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
	now        func() time.Time

	mu           sync.Mutex
	backoffUntil time.Time
}

// quote mirrors JSON payload from the price feed.
type quote struct {
	Symbol string          `json:"symbol"`
	USD    decimal.Decimal `json:"usd"`
}

// NewHTTPOracle creates HTTP price feed client with default timeout.
func NewHTTPOracle(baseURL string, logger *slog.Logger) (*HTTPOracle, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse price feed url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("price feed url must be absolute")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPOracle{
		baseURL: parsed,
		logger:  logger,
		now:     time.Now,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}, nil
}

// USDRate fetches GET {base}/api/rates/{SYMBOL}.
func (o *HTTPOracle) USDRate(ctx context.Context, symbol string) (decimal.Decimal, error) {
	if wait := o.backoff(); wait > 0 {
		return decimal.Zero, TooManyRequestsError{RetryAfter: wait}
	}

	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	endpoint := *o.baseURL
	endpoint.Path = path.Join(endpoint.Path, "/api/rates/", symbol)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return decimal.Zero, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return decimal.Zero, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var data quote
		if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
			return decimal.Zero, fmt.Errorf("decode %s quote: %w", symbol, err)
		}
		if !data.USD.IsPositive() {
			return decimal.Zero, fmt.Errorf("price feed returned non-positive %s rate %s", symbol, data.USD)
		}
		return data.USD, nil
	case http.StatusNotFound:
		return decimal.Zero, fmt.Errorf("%s: %w", symbol, ErrUnknownSymbol)
	case http.StatusTooManyRequests:
		retryAfter := parseRetryAfter(resp.Header.Get("Retry-After"))
		o.pause(retryAfter)
		return decimal.Zero, TooManyRequestsError{RetryAfter: retryAfter}
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		o.logger.Error("price feed request failed",
			slog.String("symbol", symbol),
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(body)))
		return decimal.Zero, fmt.Errorf("price feed error: %s", resp.Status)
	}
}

func (o *HTTPOracle) backoff() time.Duration {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.backoffUntil.Sub(o.now())
}

func (o *HTTPOracle) pause(d time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.backoffUntil = o.now().Add(d)
}

func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 5 * time.Second
	}
	if seconds, err := strconv.Atoi(header); err == nil {
		return time.Duration(seconds) * time.Second
	}
	if t, err := http.ParseTime(header); err == nil {
		return time.Until(t)
	}
	return 5 * time.Second
}
