package maven

import (
	"context"
	"time"

	"github.com/valkey-io/valkey-go"
)

// cacheMiss is the sentinel value stored for artifacts known to be absent
// from every configured remote.
const cacheMiss = "!"

// ProbeCache caches remote artifact probe outcomes across import runs.
type ProbeCache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string)
}

// ValkeyProbeCache stores probe outcomes in Valkey with a TTL. Cache errors
// are swallowed; resolution falls through to a live probe.
type ValkeyProbeCache struct {
	client valkey.Client
	ttl    time.Duration
}

func NewValkeyProbeCache(client valkey.Client, ttl time.Duration) *ValkeyProbeCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &ValkeyProbeCache{client: client, ttl: ttl}
}

func (c *ValkeyProbeCache) Get(ctx context.Context, key string) (string, bool) {
	resp := c.client.Do(ctx, c.client.B().Get().Key(key).Build())
	val, err := resp.ToString()
	if err != nil {
		return "", false
	}
	return val, true
}

func (c *ValkeyProbeCache) Set(ctx context.Context, key, value string) {
	c.client.Do(ctx, c.client.B().Set().Key(key).Value(value).Ex(c.ttl).Build())
}
