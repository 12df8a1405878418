package store

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis wraps redis client.
type Redis struct {
	Client *redis.Client
}

// NewRedis connects to redis with short timeouts.
func NewRedis(addr string) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  1 * time.Second,
		WriteTimeout: 1 * time.Second,
	})
	return &Redis{Client: client}
}

// Healthy verifies redis connectivity.
func (r *Redis) Healthy(ctx context.Context) bool {
	if r == nil || r.Client == nil {
		return false
	}
	return r.Client.Ping(ctx).Err() == nil
}

// Close closes the client.
func (r *Redis) Close() error {
	if r == nil || r.Client == nil {
		return nil
	}
	return r.Client.Close()
}

// Lease is a TTL-bounded mutual exclusion slot shared across processes.
type Lease struct {
	client *redis.Client
	key    string
	owner  string
	ttl    time.Duration
}

// NewLease builds a lease on key held by owner for ttl once acquired.
func NewLease(r *Redis, key, owner string, ttl time.Duration) *Lease {
	return &Lease{client: r.Client, key: key, owner: owner, ttl: ttl}
}

// Acquire takes the lease if nobody holds it. The lease is not released;
// it expires after its TTL so at most one holder runs per TTL window.
func (l *Lease) Acquire(ctx context.Context) (bool, error) {
	return l.client.SetNX(ctx, l.key, l.owner, l.ttl).Result()
}
