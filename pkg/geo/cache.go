package geo

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"snaplink/pkg/logger"
	"snaplink/pkg/model"
	"snaplink/pkg/scheduling"
)

// CachedProvider memoizes estimates per ordered coordinate pair.
type CachedProvider struct {
	next   scheduling.DistanceProvider
	cache  *lru.Cache[string, scheduling.TravelEstimate]
	logger *logger.Logger
}

func NewCachedProvider(next scheduling.DistanceProvider, size int, log *logger.Logger) (*CachedProvider, error) {
	cache, err := lru.New[string, scheduling.TravelEstimate](size)
	if err != nil {
		return nil, fmt.Errorf("create geo cache: %w", err)
	}
	return &CachedProvider{
		next:   next,
		cache:  cache,
		logger: log.WithComponent("geo_cache"),
	}, nil
}

func (c *CachedProvider) DistanceAndTravelTime(ctx context.Context, from, to model.Location) (scheduling.TravelEstimate, error) {
	key := pairKey(from, to)
	if estimate, ok := c.cache.Get(key); ok {
		c.logger.Debug("geo cache hit", "key", key)
		return estimate, nil
	}

	estimate, err := c.next.DistanceAndTravelTime(ctx, from, to)
	if err != nil {
		return scheduling.TravelEstimate{}, err
	}
	c.cache.Add(key, estimate)
	return estimate, nil
}

func (c *CachedProvider) Len() int {
	return c.cache.Len()
}

func pairKey(from, to model.Location) string {
	return fmt.Sprintf("%.6f,%.6f>%.6f,%.6f", from.Latitude, from.Longitude, to.Latitude, to.Longitude)
}
