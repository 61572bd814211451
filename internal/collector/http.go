package collector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/sony/gobreaker"
)

var (
	// ErrNoData means the provider answered but had no bars or rows.
	ErrNoData = errors.New("no data returned")
	// ErrUnsupportedSymbol means the provider does not cover the symbol's market.
	ErrUnsupportedSymbol = errors.New("unsupported symbol")
)

// ClientConfig configures the shared HTTP client.
type ClientConfig struct {
	Timeout         time.Duration
	Proxy           string
	RPS             float64
	Burst           int
	BreakerFailures uint32
	BreakerCooldown time.Duration
}

// HTTPClient is the transport shared by all providers: per-host rate limiting
// and a circuit breaker per host around every request.
type HTTPClient struct {
	client   *http.Client
	limiter  *HostLimiter
	failures uint32
	cooldown time.Duration

	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker
}

// NewHTTPClient builds a client with optional proxy support.
func NewHTTPClient(cfg ClientConfig) *HTTPClient {
	transport := &http.Transport{}
	if cfg.Proxy != "" {
		if u, err := url.Parse(cfg.Proxy); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.BreakerFailures == 0 {
		cfg.BreakerFailures = 5
	}
	if cfg.BreakerCooldown <= 0 {
		cfg.BreakerCooldown = time.Minute
	}
	return &HTTPClient{
		client:   &http.Client{Timeout: cfg.Timeout, Transport: transport},
		limiter:  NewHostLimiter(cfg.RPS, cfg.Burst),
		failures: cfg.BreakerFailures,
		cooldown: cfg.BreakerCooldown,
		breakers: make(map[string]*gobreaker.CircuitBreaker),
	}
}

func (c *HTTPClient) breaker(host string) *gobreaker.CircuitBreaker {
	c.mu.Lock()
	defer c.mu.Unlock()
	if cb, ok := c.breakers[host]; ok {
		return cb
	}
	failures := c.failures
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:     host,
		Interval: c.cooldown,
		Timeout:  c.cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
	})
	c.breakers[host] = cb
	return cb
}

// Get fetches rawURL and returns the body of a 200 response.
func (c *HTTPClient) Get(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}
	if err := c.limiter.Wait(ctx, u.Host); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	out, err := c.breaker(u.Host).Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", "Mozilla/5.0")

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("read body: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("status %d, body: %.200s", resp.StatusCode, string(body))
		}
		return body, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", u.Host, err)
	}
	return out.([]byte), nil
}

// GetJSON fetches rawURL and decodes the JSON body into v.
func (c *HTTPClient) GetJSON(ctx context.Context, rawURL string, v any) error {
	body, err := c.Get(ctx, rawURL)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}
