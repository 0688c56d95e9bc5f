package redisclient

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"travel-booking-service/internal/models"

	"github.com/go-redis/redis/v8"
)

const listingCacheTTL = 5 * time.Minute

type Client struct {
	rdb *redis.Client
}

// NewClient creates a new Redis client
func NewClient(addr, password string, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// GetClient returns the underlying Redis client
func (c *Client) GetClient() *redis.Client {
	return c.rdb
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// GetListing returns a cached listing, or nil on a cache miss
func (c *Client) GetListing(ctx context.Context, id int64) (*models.Listing, error) {
	raw, err := c.rdb.Get(ctx, listingKey(id)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var listing models.Listing
	if err := json.Unmarshal([]byte(raw), &listing); err != nil {
		return nil, fmt.Errorf("corrupt listing cache entry: %w", err)
	}
	return &listing, nil
}

// SetListing caches a listing with a TTL
func (c *Client) SetListing(ctx context.Context, listing *models.Listing) error {
	raw, err := json.Marshal(listing)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, listingKey(listing.ID), raw, listingCacheTTL).Err()
}

// InvalidateListing drops a listing from the cache
func (c *Client) InvalidateListing(ctx context.Context, id int64) error {
	return c.rdb.Del(ctx, listingKey(id)).Err()
}

// AcquireVerifyLock takes a short-lived lock serializing verification calls
// for one tx_ref
func (c *Client) AcquireVerifyLock(ctx context.Context, txRef string, ttl time.Duration) (bool, error) {
	return c.rdb.SetNX(ctx, verifyLockKey(txRef), "1", ttl).Result()
}

// ReleaseVerifyLock releases the verification lock
func (c *Client) ReleaseVerifyLock(ctx context.Context, txRef string) error {
	return c.rdb.Del(ctx, verifyLockKey(txRef)).Err()
}

func listingKey(id int64) string {
	return fmt.Sprintf("listing:%d", id)
}

func verifyLockKey(txRef string) string {
	return fmt.Sprintf("verify-lock:%s", txRef)
}
