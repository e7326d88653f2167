// Movierec - Movie Recommendations and Viewing Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package recommend

import (
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto/v2"

	"github.com/tomtom215/movierec/internal/metrics"
)

// resultCache holds personalized responses. Entries are keyed by snapshot
// version, so a refresh makes every older entry unreachable.
type resultCache struct {
	cache *ristretto.Cache[string, *Response]
	ttl   time.Duration
}

// newResultCache returns nil when caching is disabled.
func newResultCache(maxEntries int64, ttl time.Duration) (*resultCache, error) {
	if ttl <= 0 || maxEntries <= 0 {
		return nil, nil
	}
	cache, err := ristretto.NewCache(&ristretto.Config[string, *Response]{
		NumCounters: maxEntries * 10,
		MaxCost:     maxEntries,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("create result cache: %w", err)
	}
	return &resultCache{cache: cache, ttl: ttl}, nil
}

func cacheKey(version uint64, userID, n int) string {
	return fmt.Sprintf("%d:%d:%d", version, userID, n)
}

func (c *resultCache) get(key string) (*Response, bool) {
	if c == nil {
		return nil, false
	}
	resp, ok := c.cache.Get(key)
	if ok {
		metrics.RecommendCacheHits.Inc()
	} else {
		metrics.RecommendCacheMisses.Inc()
	}
	return resp, ok
}

func (c *resultCache) set(key string, resp *Response) {
	if c == nil {
		return
	}
	c.cache.SetWithTTL(key, resp, 1, c.ttl)
}

// wait blocks until buffered writes are applied.
func (c *resultCache) wait() {
	if c != nil {
		c.cache.Wait()
	}
}

func (c *resultCache) close() {
	if c != nil {
		c.cache.Close()
	}
}
