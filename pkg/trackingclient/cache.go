package trackingclient

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	redisstore "github.com/eko/gocache/store/redis/v4"
	"github.com/globaltrack/globaltrack/pkg/shipment"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// ShipmentCache keeps upstream answers for a short while so that replaying
// an animation does not hit the tracking API again
type ShipmentCache struct {
	Cache *cache.Cache[string]
}

func NewShipmentCache(client *redis.Client, expiration time.Duration) *ShipmentCache {
	redisStore := redisstore.NewRedis(client, store.WithExpiration(expiration))

	return &ShipmentCache{
		Cache: cache.New[string](redisStore),
	}
}

func cacheKey(code string) string {
	return fmt.Sprintf("tracking:%s", code)
}

func (c *ShipmentCache) Get(ctx context.Context, code string) (*shipment.Shipment, bool) {
	cached, err := c.Cache.Get(ctx, cacheKey(code))
	if err != nil || cached == "" {
		return nil, false
	}

	var s shipment.Shipment
	if err := json.Unmarshal([]byte(cached), &s); err != nil {
		log.Warn().Err(err).Str("code", code).Msg("Dropping undecodable cached shipment")
		return nil, false
	}

	return &s, true
}

func (c *ShipmentCache) Set(ctx context.Context, code string, s *shipment.Shipment) error {
	encoded, err := json.Marshal(s)
	if err != nil {
		return err
	}

	return c.Cache.Set(ctx, cacheKey(code), string(encoded))
}
