package api

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/storerate/storerate/pkg/config"
	"github.com/storerate/storerate/pkg/logger"
	"github.com/storerate/storerate/pkg/version"
)

// HeaderRequestID carries a per-request correlation id
const HeaderRequestID = "X-Request-ID"

// Client provides access to the storerate API services
type Client struct {
	http    *resty.Client
	limiter *rate.Limiter
	baseURL string

	stores  StoreService
	ratings RatingService
	auth    AuthService
	users   UserService
}

// NewClient creates an API client from the CLI configuration
func NewClient(cfg *config.Config) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}
	baseURL, err := buildBaseURL(cfg.CLI.BaseURL)
	if err != nil {
		return nil, err
	}
	httpClient := buildHTTPClient(cfg, baseURL)
	c := &Client{
		http:    httpClient,
		limiter: buildRateLimiter(cfg, httpClient),
		baseURL: baseURL,
	}
	c.stores = NewStoreService(httpClient)
	c.ratings = NewRatingService(httpClient)
	c.auth = NewAuthService(httpClient)
	c.users = NewUserService(httpClient)
	return c, nil
}

// buildBaseURL validates the configured base URL and strips trailing slashes
func buildBaseURL(raw string) (string, error) {
	raw = strings.TrimRight(strings.TrimSpace(raw), "/")
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}
	if !parsed.IsAbs() || parsed.Host == "" {
		return "", fmt.Errorf("base URL must be absolute, got: %s", raw)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("base URL scheme must be http or https, got: %s", parsed.Scheme)
	}
	return raw, nil
}

// buildHTTPClient creates and configures the HTTP client. Requests are never
// retried; callers decide whether to try again.
func buildHTTPClient(cfg *config.Config, baseURL string) *resty.Client {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(cfg.CLI.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", version.UserAgent()).
		SetRetryCount(0)
	if key := cfg.CLI.APIKey.Value(); key != "" {
		client.SetAuthToken(key)
	}
	client.OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
		if r.Header.Get(HeaderRequestID) == "" {
			r.SetHeader(HeaderRequestID, uuid.NewString())
		}
		return nil
	})
	client.OnAfterResponse(logResponse)
	return client
}

// logResponse records every exchange at debug level
func logResponse(_ *resty.Client, r *resty.Response) error {
	log := logger.FromContext(r.Request.Context())
	log.Debug("API request completed",
		"method", r.Request.Method,
		"url", r.Request.URL,
		"status", r.StatusCode(),
		"duration", r.Time().Round(time.Millisecond),
		"request_id", r.Request.Header.Get(HeaderRequestID),
	)
	return nil
}

// buildRateLimiter throttles outgoing requests when a rate is configured
func buildRateLimiter(cfg *config.Config, client *resty.Client) *rate.Limiter {
	if cfg.CLI.RateLimit <= 0 {
		return nil
	}
	limiter := rate.NewLimiter(rate.Limit(cfg.CLI.RateLimit), max(cfg.CLI.RateBurst, 1))
	client.OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
		if err := limiter.Wait(r.Context()); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}
		return nil
	})
	return limiter
}

func (c *Client) Stores() StoreService {
	return c.stores
}

func (c *Client) Ratings() RatingService {
	return c.ratings
}

func (c *Client) Auth() AuthService {
	return c.auth
}

func (c *Client) Users() UserService {
	return c.users
}

// BaseURL returns the normalized API base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}
