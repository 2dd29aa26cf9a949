package dealfeed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dagligdags/backend/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// maxAttempts bounds retries for transient feed failures
const maxAttempts = 3

// Client fetches normalized deals from an HTTP JSON feed
type Client struct {
	httpClient  *http.Client
	feedURL     string
	apiKey      string
	rateLimiter *rate.Limiter
	backoff     func(attempt int) time.Duration
	logger      *zap.Logger
}

// NewClient creates a feed client; apiKey is sent as a bearer token when set
func NewClient(feedURL, apiKey string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		feedURL:     feedURL,
		apiKey:      apiKey,
		rateLimiter: rate.NewLimiter(rate.Limit(1), 5),
		backoff:     exponentialBackoff,
		logger:      logger.Named("dealfeed"),
	}
}

// exponentialBackoff returns 500ms, 1s, 2s, ... for attempts 1, 2, 3, ...
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(500*(1<<(attempt-1))) * time.Millisecond
}

// ListDeals downloads the current deal set, retrying 5xx and 429 responses
func (c *Client) ListDeals(ctx context.Context) ([]domain.Deal, error) {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.backoff(attempt - 1)):
			}
		}

		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		deals, retry, err := c.fetch(ctx)
		if err == nil {
			c.logger.Info("fetched deals", zap.Int("count", len(deals)))
			return deals, nil
		}

		c.logger.Warn("deal feed request failed", zap.Int("attempt", attempt), zap.Error(err))
		lastErr = err
		if !retry {
			return nil, err
		}
	}

	return nil, lastErr
}

// fetch performs one request; retry reports whether the failure is transient
func (c *Client) fetch(ctx context.Context) (deals []domain.Deal, retry bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.feedURL, nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "Dagligdags/1.0")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("%w: %v", domain.ErrDealSourceFailure, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, fmt.Errorf("%w: read body: %v", domain.ErrDealSourceFailure, err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound:
		return nil, false, domain.ErrNoDealsAvailable
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, true, fmt.Errorf("%w: status %d", domain.ErrDealSourceFailure, resp.StatusCode)
	default:
		return nil, false, fmt.Errorf("%w: status %d, body: %s", domain.ErrDealSourceFailure, resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, &deals); err != nil {
		return nil, false, fmt.Errorf("%w: decode response: %v", domain.ErrDealSourceFailure, err)
	}
	if len(deals) == 0 {
		return nil, false, domain.ErrNoDealsAvailable
	}

	return deals, false, nil
}
