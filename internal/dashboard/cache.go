package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/pfrederiksen/movewise/internal/logger"
	"github.com/pfrederiksen/movewise/internal/record"
)

// DefaultCacheTTL is how long a loaded table is served before reloading.
const DefaultCacheTTL = 30 * time.Second

// CachedSource serves the last table loaded from Source until it is older than TTL.
// Failed loads are not cached. A TTL of zero or less disables caching.
type CachedSource struct {
	Source Source
	TTL    time.Duration

	mu       sync.Mutex
	records  []record.StateRecord
	cachedAt time.Time
	now      func() time.Time
}

// NewCachedSource wraps src with a TTL cache
func NewCachedSource(src Source, ttl time.Duration) *CachedSource {
	return &CachedSource{Source: src, TTL: ttl, now: time.Now}
}

func (c *CachedSource) Records(ctx context.Context) ([]record.StateRecord, error) {
	if c.TTL <= 0 {
		return c.Source.Records(ctx)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.records != nil && c.now().Sub(c.cachedAt) <= c.TTL {
		logger.IncrCounter("table_cache_hits")
		return c.records, nil
	}

	t, err := c.Source.Records(ctx)
	if err != nil {
		return nil, err
	}
	c.records = t
	c.cachedAt = c.now()
	logger.IncrCounter("table_cache_loads")
	logger.SetGauge("table_rows", float64(len(t)))
	return t, nil
}

// Invalidate drops the cached table so the next call reloads it.
func (c *CachedSource) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = nil
	c.cachedAt = time.Time{}
}
