// Package cache provides an optional Redis cache for seat-status
// reads. All methods degrade to no-ops when no client is configured,
// so the ledger never depends on Redis being reachable.
package cache

import (
	"context"
	"crypto/tls"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultTTL = 15 * time.Second

// SeatCache caches seats-remaining counts per trip for a short TTL and
// is invalidated on every booking or cancellation.
type SeatCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New returns a SeatCache over client; a nil client yields a
// pass-through cache.
func New(client *redis.Client, ttl time.Duration) *SeatCache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &SeatCache{client: client, ttl: ttl}
}

// Get returns the cached seat count for a trip, if present.
func (c *SeatCache) Get(ctx context.Context, tripID int64) (int, bool) {
	if c == nil || c.client == nil {
		return 0, false
	}
	val, err := c.client.Get(ctx, key(tripID)).Result()
	if err != nil {
		return 0, false
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Set stores the seat count for a trip.
func (c *SeatCache) Set(ctx context.Context, tripID int64, seats int) {
	if c == nil || c.client == nil {
		return
	}
	_ = c.client.Set(ctx, key(tripID), strconv.Itoa(seats), c.ttl).Err()
}

// Invalidate drops the cached count after a mutation.
func (c *SeatCache) Invalidate(ctx context.Context, tripID int64) {
	if c == nil || c.client == nil {
		return
	}
	_ = c.client.Del(ctx, key(tripID)).Err()
}

func key(tripID int64) string {
	return "seats:" + strconv.FormatInt(tripID, 10)
}

// NewRedisClient builds a Redis client from REDIS_ADDR (or
// REDIS_HOST/REDIS_PORT), REDIS_PASSWORD, REDIS_DB and REDIS_TLS.
// Returns nil when no server responds, and callers degrade gracefully.
func NewRedisClient() *redis.Client {
	host := os.Getenv("REDIS_HOST")
	port := os.Getenv("REDIS_PORT")
	addr := os.Getenv("REDIS_ADDR")
	if host != "" && port != "" {
		addr = host + ":" + port
	}
	if addr == "" {
		addr = "localhost:6379"
	}
	dbNum := 0
	if s := os.Getenv("REDIS_DB"); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			dbNum = n
		}
	}
	var tlsConf *tls.Config
	if v := os.Getenv("REDIS_TLS"); strings.EqualFold(v, "true") || v == "1" {
		tlsConf = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	client := redis.NewClient(&redis.Options{
		Addr:      addr,
		Password:  os.Getenv("REDIS_PASSWORD"),
		DB:        dbNum,
		TLSConfig: tlsConf,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil
	}
	return client
}
