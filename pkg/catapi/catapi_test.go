package catapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testBreeds = []Breed{
	{Id: "abys", Name: "Abyssinian"},
	{Id: "abob", Name: "American Bobtail"},
	{Id: "asho", Name: "American Shorthair"},
}

type breedRegistry struct {
	calls    atomic.Int32
	failures int32
	status   int
	delay    time.Duration
	apiKey   atomic.Value
}

func (b *breedRegistry) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	n := b.calls.Add(1)
	b.apiKey.Store(r.Header.Get("x-api-key"))
	if b.delay > 0 {
		select {
		case <-time.After(b.delay):
		case <-r.Context().Done():
			return
		}
	}
	if n <= b.failures {
		w.WriteHeader(b.status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(testBreeds)
}

func newRegistry(t *testing.T, registry *breedRegistry) string {
	t.Helper()
	srv := httptest.NewServer(registry)
	t.Cleanup(srv.Close)
	return srv.URL
}

func TestGetBreedByName(t *testing.T) {
	registry := &breedRegistry{}
	client := NewCatAPIClient(newRegistry(t, registry), 0, time.Millisecond, WithAPIKey("secret"))
	ctx := context.Background()

	t.Run("case insensitive name", func(t *testing.T) {
		breed, err := client.GetBreedByName(ctx, "american BOBTAIL")
		require.NoError(t, err)
		assert.Equal(t, Breed{Id: "abob", Name: "American Bobtail"}, breed)
	})

	t.Run("breed id is not a name", func(t *testing.T) {
		_, err := client.GetBreedByName(ctx, "abys")
		assert.ErrorIs(t, err, ErrBreedNotFound)
	})

	t.Run("padded name", func(t *testing.T) {
		_, err := client.GetBreedByName(ctx, "  Abyssinian  ")
		assert.ErrorIs(t, err, ErrBreedNotFound)
	})

	t.Run("unknown breed", func(t *testing.T) {
		_, err := client.GetBreedByName(ctx, "fraud")
		var unexisted *UnexistedBreedError
		require.ErrorAs(t, err, &unexisted)
		assert.Equal(t, "fraud", unexisted.Breed)
		assert.ErrorIs(t, err, ErrBreedNotFound)
	})

	assert.Equal(t, int32(1), registry.calls.Load(), "breed list should be fetched once and cached")
	assert.Equal(t, "secret", registry.apiKey.Load())
}

func TestRetriesTransientFailures(t *testing.T) {
	registry := &breedRegistry{failures: 2, status: http.StatusServiceUnavailable}
	client := NewCatAPIClient(newRegistry(t, registry), 2, time.Millisecond)

	breeds, err := client.ListBreeds(context.Background())
	require.NoError(t, err)
	assert.Equal(t, testBreeds, breeds)
	assert.Equal(t, int32(3), registry.calls.Load())
}

func TestGivesUpAfterMaxRetries(t *testing.T) {
	registry := &breedRegistry{failures: 10, status: http.StatusTooManyRequests}
	client := NewCatAPIClient(newRegistry(t, registry), 1, time.Millisecond)

	_, err := client.ListBreeds(context.Background())
	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusTooManyRequests, httpErr.StatusCode)
	assert.Equal(t, int32(2), registry.calls.Load())
}

func TestDoesNotRetryClientErrors(t *testing.T) {
	registry := &breedRegistry{failures: 10, status: http.StatusUnauthorized}
	client := NewCatAPIClient(newRegistry(t, registry), 3, time.Millisecond)

	_, err := client.GetBreedByName(context.Background(), "Abyssinian")
	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.StatusCode)
	assert.Equal(t, int32(1), registry.calls.Load())
}

func TestLookupTimeout(t *testing.T) {
	registry := &breedRegistry{delay: time.Second}
	client := NewCatAPIClient(newRegistry(t, registry), 0, time.Millisecond, WithLookupTimeout(50*time.Millisecond))

	start := time.Now()
	_, err := client.GetBreedByName(context.Background(), "Abyssinian")
	require.Error(t, err)
	assert.Less(t, time.Since(start), 900*time.Millisecond)
}

func TestMemoryCacheExpires(t *testing.T) {
	registry := &breedRegistry{}
	cache := NewMemoryCache(time.Minute)
	now := time.Now()
	cache.now = func() time.Time { return now }
	client := NewCatAPIClient(newRegistry(t, registry), 0, time.Millisecond, WithCache(cache))
	ctx := context.Background()

	_, err := client.ListBreeds(ctx)
	require.NoError(t, err)
	_, err = client.ListBreeds(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(1), registry.calls.Load())

	now = now.Add(2 * time.Minute)
	_, err = client.ListBreeds(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(2), registry.calls.Load())
}

type brokenCache struct{}

func (brokenCache) Get(context.Context) ([]Breed, bool, error) {
	return nil, false, errors.New("cache down")
}

func (brokenCache) Set(context.Context, []Breed) error {
	return errors.New("cache down")
}

func TestCacheFailuresFallThroughToRegistry(t *testing.T) {
	registry := &breedRegistry{}
	client := NewCatAPIClient(newRegistry(t, registry), 0, time.Millisecond, WithCache(brokenCache{}))

	breed, err := client.GetBreedByName(context.Background(), "american shorthair")
	require.NoError(t, err)
	assert.Equal(t, "asho", breed.Id)
}
