package cache

import (
	"context"

	"github.com/rs/zerolog/log"
)

// Remember serves key from the cache, falling back to load on any miss or cache error.
// A loaded value is written back in the background with the given TTL in seconds, so a
// failing cache never fails the read.
func Remember[T any](ctx context.Context, c RedisCache, key string, ttl int, load func(context.Context) (T, error)) (T, error) {
	var cached T
	if err := c.Get(ctx, key, &cached); err == nil {
		log.Debug().Str("cacheKey", key).Msg("cache hit")

		return cached, nil
	}

	value, err := load(ctx)
	if err != nil {
		return value, err
	}

	go func(ctx context.Context) {
		if err := c.Save(ctx, key, value, ttl); err != nil {
			log.Warn().Err(err).Str("cacheKey", key).Msg("failed to save to cache")
		}
	}(context.WithoutCancel(ctx))

	return value, nil
}
