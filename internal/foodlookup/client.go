// Package foodlookup resolves barcodes to food products through an Open Food
// Facts compatible HTTP API, with a circuit breaker and a short-lived cache
// in front of the upstream.
package foodlookup

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// Lookup errors.
var (
	// ErrNotFound is returned when the barcode is unknown upstream.
	ErrNotFound = errors.New("product not found")

	// ErrUnavailable is returned when the upstream is down or the
	// circuit breaker is open.
	ErrUnavailable = errors.New("food lookup unavailable")
)

// Product is a resolved food product.
type Product struct {
	Barcode         string  `json:"barcode"`
	Name            string  `json:"name"`
	Brand           string  `json:"brand,omitempty"`
	CaloriesPer100g float64 `json:"caloriesPer100g,omitempty"`
	ProteinPer100g  float64 `json:"proteinPer100g,omitempty"`
	CarbsPer100g    float64 `json:"carbsPer100g,omitempty"`
	FatPer100g      float64 `json:"fatPer100g,omitempty"`
}

// productResponse is the upstream response shape.
type productResponse struct {
	Status  int `json:"status"`
	Product struct {
		ProductName string `json:"product_name"`
		Brands      string `json:"brands"`
		Nutriments  struct {
			EnergyKcal100g float64 `json:"energy-kcal_100g"`
			Proteins100g   float64 `json:"proteins_100g"`
			Carbs100g      float64 `json:"carbohydrates_100g"`
			Fat100g        float64 `json:"fat_100g"`
		} `json:"nutriments"`
	} `json:"product"`
}

// Config holds client configuration.
type Config struct {
	// BaseURL is the upstream API base, e.g.
	// "https://world.openfoodfacts.org/api/v2".
	BaseURL string

	// Timeout is the per-request timeout.
	Timeout time.Duration

	// CacheTTL is how long resolved products are cached.
	CacheTTL time.Duration

	// Logger for lookup events.
	Logger *zap.Logger
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		BaseURL:  "https://world.openfoodfacts.org/api/v2",
		Timeout:  5 * time.Second,
		CacheTTL: time.Hour,
	}
}

// Client looks up products by barcode.
type Client struct {
	http    *resty.Client
	breaker *gobreaker.CircuitBreaker
	cache   *ttlCache
	logger  *zap.Logger
}

// NewClient creates a lookup client.
func NewClient(cfg Config) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = time.Hour
	}

	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("User-Agent", "fittrack-server")

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "foodlookup",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("food lookup breaker state change",
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &Client{
		http:    httpClient,
		breaker: breaker,
		cache:   newTTLCache(cfg.CacheTTL),
		logger:  logger,
	}
}

// Lookup resolves a barcode. Cached products are served without touching
// the upstream; ErrNotFound results are cached too.
func (c *Client) Lookup(ctx context.Context, barcode string) (*Product, error) {
	if cached, ok := c.cache.get(barcode); ok {
		if cached == nil {
			return nil, ErrNotFound
		}
		return cached, nil
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.fetch(ctx, barcode)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, ErrUnavailable
		}
		c.logger.Warn("food lookup failed",
			zap.String("barcode", barcode),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	product := result.(*Product)
	c.cache.put(barcode, product)
	if product == nil {
		return nil, ErrNotFound
	}
	return product, nil
}

// fetch performs the upstream request. An unknown barcode is a
// successful nil answer rather than an error so that misses do not
// count against the circuit breaker.
func (c *Client) fetch(ctx context.Context, barcode string) (*Product, error) {
	var body productResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&body).
		SetPathParam("barcode", barcode).
		Get("/product/{barcode}")
	if err != nil {
		return nil, err
	}

	if resp.StatusCode() == http.StatusNotFound {
		return nil, nil
	}
	if resp.IsError() {
		return nil, fmt.Errorf("upstream status %d", resp.StatusCode())
	}
	if body.Status == 0 || body.Product.ProductName == "" {
		return nil, nil
	}

	return &Product{
		Barcode:         barcode,
		Name:            body.Product.ProductName,
		Brand:           body.Product.Brands,
		CaloriesPer100g: body.Product.Nutriments.EnergyKcal100g,
		ProteinPer100g:  body.Product.Nutriments.Proteins100g,
		CarbsPer100g:    body.Product.Nutriments.Carbs100g,
		FatPer100g:      body.Product.Nutriments.Fat100g,
	}, nil
}
