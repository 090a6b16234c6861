// Package catalog exposes the product price lookup used for best-effort
// event enrichment. The storefront backend maintains the cache; this service
// only reads it.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// ErrPriceUnknown is returned when no price is cached for a product.
var ErrPriceUnknown = errors.New("price unknown")

// PriceLookup resolves the current catalog price of a product.
type PriceLookup interface {
	Price(ctx context.Context, productID int64) (float64, error)
}

// RedisLookup reads prices from the shared Redis cache.
type RedisLookup struct {
	client *redis.Client
}

// NewRedisLookup creates a new price lookup
func NewRedisLookup(client *redis.Client) *RedisLookup {
	return &RedisLookup{client: client}
}

func (l *RedisLookup) Price(ctx context.Context, productID int64) (float64, error) {
	val, err := l.client.Get(ctx, "catalog:price:"+strconv.FormatInt(productID, 10)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrPriceUnknown
		}
		return 0, fmt.Errorf("failed to read price cache: %w", err)
	}

	price, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed cached price %q: %w", val, err)
	}
	return price, nil
}
