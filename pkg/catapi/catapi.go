// Package catapi looks up cat breeds in TheCatAPI breed registry.
package catapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
)

type CatAPI interface {
	GetBreedByName(ctx context.Context, name string) (Breed, error)
	ListBreeds(ctx context.Context) ([]Breed, error)
}

type Breed struct {
	Id   string `json:"id"`
	Name string `json:"name"`
}

type UnexistedBreedError struct {
	Breed string
}

func (e *UnexistedBreedError) Error() string {
	return fmt.Sprintf("breed %q does not exist", e.Breed)
}

func (e *UnexistedBreedError) Is(target error) bool {
	return target == ErrBreedNotFound
}

var ErrBreedNotFound = errors.New("breed not found")

type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

const (
	defaultRequestTimeout = 5 * time.Second
	defaultLookupTimeout  = 5 * time.Second
)

type CatAPIClient struct {
	url           string
	apiKey        string
	httpClient    *http.Client
	maxRetries    uint
	retryDelay    time.Duration
	lookupTimeout time.Duration
	cache         BreedCache
	logger        *slog.Logger
}

type Option func(*CatAPIClient)

func WithAPIKey(key string) Option {
	return func(c *CatAPIClient) { c.apiKey = key }
}

func WithHTTPClient(client *http.Client) Option {
	return func(c *CatAPIClient) { c.httpClient = client }
}

// WithLookupTimeout bounds a whole lookup, retries and backoff included.
func WithLookupTimeout(d time.Duration) Option {
	return func(c *CatAPIClient) { c.lookupTimeout = d }
}

func WithCache(cache BreedCache) Option {
	return func(c *CatAPIClient) { c.cache = cache }
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *CatAPIClient) { c.logger = logger }
}

func NewCatAPIClient(url string, maxRetries uint, retryDelay time.Duration, opts ...Option) *CatAPIClient {
	c := &CatAPIClient{
		url: url,
		httpClient: &http.Client{
			Timeout: defaultRequestTimeout,
		},
		maxRetries:    maxRetries,
		retryDelay:    retryDelay,
		lookupTimeout: defaultLookupTimeout,
		cache:         NewMemoryCache(time.Hour),
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetBreedByName matches name case-insensitively against breed names.
func (c *CatAPIClient) GetBreedByName(ctx context.Context, name string) (Breed, error) {
	breeds, err := c.ListBreeds(ctx)
	if err != nil {
		return Breed{}, fmt.Errorf("error while fetching breeds: %w", err)
	}
	wanted := strings.ToLower(name)
	for _, breed := range breeds {
		if strings.ToLower(breed.Name) == wanted {
			return breed, nil
		}
	}
	return Breed{}, &UnexistedBreedError{Breed: name}
}

func (c *CatAPIClient) ListBreeds(ctx context.Context) ([]Breed, error) {
	if breeds, ok := c.cachedBreeds(ctx); ok {
		return breeds, nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.lookupTimeout)
	defer cancel()

	breeds, err := c.fetchAllBreeds(ctx)
	if err != nil {
		return nil, err
	}
	if err := c.cache.Set(ctx, breeds); err != nil {
		c.logger.Warn("catapi.cache_write_failed", "error", err)
	}
	return breeds, nil
}

func (c *CatAPIClient) cachedBreeds(ctx context.Context) ([]Breed, bool) {
	breeds, ok, err := c.cache.Get(ctx)
	if err != nil {
		c.logger.Warn("catapi.cache_read_failed", "error", err)
		return nil, false
	}
	return breeds, ok
}

func (c *CatAPIClient) fetchAllBreeds(ctx context.Context) ([]Breed, error) {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.retryDelay
	policy.MaxInterval = 10 * c.retryDelay

	attempt := 0
	breeds, err := backoff.Retry(ctx, func() ([]Breed, error) {
		attempt++
		breeds, err := c.makeGetAllBreedsRequest(ctx)
		if err == nil {
			return breeds, nil
		}
		var httpErr *HTTPError
		if errors.As(err, &httpErr) && !isRetryableStatus(httpErr.StatusCode) {
			return nil, backoff.Permanent(err)
		}
		return nil, err
	},
		backoff.WithBackOff(policy),
		backoff.WithMaxTries(c.maxRetries+1),
		backoff.WithNotify(func(err error, next time.Duration) {
			c.logger.Warn("catapi.fetch_retry", "attempt", attempt, "next", next, "error", err)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed after %d attempts, last error: %w", attempt, err)
	}
	return breeds, nil
}

func (c *CatAPIClient) makeGetAllBreedsRequest(ctx context.Context) ([]Breed, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

	response, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to the api failed: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, &HTTPError{
			StatusCode: response.StatusCode,
			Message:    fmt.Sprintf("unexpected status code: %d", response.StatusCode),
		}
	}

	var breeds []Breed
	if err := json.NewDecoder(response.Body).Decode(&breeds); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return breeds, nil
}

func isRetryableStatus(statusCode int) bool {
	return statusCode >= 500 || statusCode == http.StatusRequestTimeout || statusCode == http.StatusTooManyRequests
}
