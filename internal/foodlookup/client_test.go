package foodlookup

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const productJSON = `{
	"status": 1,
	"product": {
		"product_name": "Peanut Butter",
		"brands": "Jif",
		"nutriments": {
			"energy-kcal_100g": 588,
			"proteins_100g": 25,
			"carbohydrates_100g": 20,
			"fat_100g": 50
		}
	}
}`

func newTestClient(upstream *httptest.Server, ttl time.Duration) *Client {
	return NewClient(Config{
		BaseURL:  upstream.URL,
		Timeout:  time.Second,
		CacheTTL: ttl,
	})
}

func TestClient_LookupSuccess(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/product/0037600109932", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(productJSON))
	}))
	defer upstream.Close()

	client := newTestClient(upstream, time.Hour)

	product, err := client.Lookup(context.Background(), "0037600109932")
	require.NoError(t, err)
	assert.Equal(t, "0037600109932", product.Barcode)
	assert.Equal(t, "Peanut Butter", product.Name)
	assert.Equal(t, "Jif", product.Brand)
	assert.Equal(t, float64(588), product.CaloriesPer100g)
	assert.Equal(t, float64(25), product.ProteinPer100g)
}

func TestClient_LookupCaches(t *testing.T) {
	var calls atomic.Int32
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(productJSON))
	}))
	defer upstream.Close()

	client := newTestClient(upstream, time.Hour)
	ctx := context.Background()

	_, err := client.Lookup(ctx, "123")
	require.NoError(t, err)
	_, err = client.Lookup(ctx, "123")
	require.NoError(t, err)

	assert.Equal(t, int32(1), calls.Load(), "second lookup must be served from cache")
}

func TestClient_LookupNotFound(t *testing.T) {
	var calls atomic.Int32
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer upstream.Close()

	client := newTestClient(upstream, time.Hour)
	ctx := context.Background()

	_, err := client.Lookup(ctx, "000")
	assert.ErrorIs(t, err, ErrNotFound)

	// Not-found answers are cached too.
	_, err = client.Lookup(ctx, "000")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_LookupEmptyProduct(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status": 0, "product": {}}`))
	}))
	defer upstream.Close()

	client := newTestClient(upstream, time.Hour)

	_, err := client.Lookup(context.Background(), "123")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClient_BreakerOpensOnRepeatedFailures(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer upstream.Close()

	client := newTestClient(upstream, time.Hour)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := client.Lookup(ctx, "123")
		require.ErrorIs(t, err, ErrUnavailable)
	}

	// The breaker is now open and answers without an upstream call.
	_, err := client.Lookup(ctx, "456")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestTTLCache_Expiry(t *testing.T) {
	cache := newTTLCache(20 * time.Millisecond)

	cache.put("k", &Product{Name: "x"})
	got, ok := cache.get("k")
	require.True(t, ok)
	assert.Equal(t, "x", got.Name)

	time.Sleep(30 * time.Millisecond)

	_, ok = cache.get("k")
	assert.False(t, ok)
}
