package stockwatch

import (
	"context"
	"fmt"

	"github.com/ariefcatur/go-shop-backend.git/internal/redisx"
	"github.com/redis/go-redis/v9"
)

// Dedup remembers processed event ids. Seen reports whether the id was
// already handled and records it otherwise.
type Dedup interface {
	Seen(ctx context.Context, eventID string) bool
}

// RedisDedup keys event ids per consuming service with a TTL. Lookup errors
// count as not-seen: a Redis outage degrades to duplicate alerts, never to
// dropped ones.
type RedisDedup struct {
	Client  *redis.Client
	Service string
}

func (d *RedisDedup) Seen(ctx context.Context, eventID string) bool {
	key := fmt.Sprintf(redisx.KeyDedup, d.Service, eventID)
	if exists, _ := redisx.Exists(ctx, d.Client, key); exists {
		return true
	}
	_ = d.Client.Set(ctx, key, "1", redisx.TTLDedup).Err()
	return false
}
