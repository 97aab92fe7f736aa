package geocoder

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/gss09/RegionMonitor/module/core/domain"
)

// coordPrecision quantizes cache keys (0.0001 degrees is about 11 m).
const coordPrecision = 1e-4

var _ Geocoder = (*Cached)(nil)

type cacheKey struct {
	latQ int32
	lonQ int32
}

type cacheEntry struct {
	place  domain.Place
	expiry time.Time
}

// Cached keeps successful lookups for hitTTL and incomplete places
// (no name or no locality) for missTTL. Errors are never cached.
type Cached struct {
	coder   Geocoder
	hitTTL  time.Duration
	missTTL time.Duration
	now     func() time.Time

	mu    sync.RWMutex
	cache map[cacheKey]cacheEntry
}

func NewCached(coder Geocoder, hitTTL, missTTL time.Duration) *Cached {
	return &Cached{
		coder:   coder,
		hitTTL:  hitTTL,
		missTTL: missTTL,
		now:     time.Now,
		cache:   make(map[cacheKey]cacheEntry),
	}
}

func (c *Cached) Name() string {
	return "cached " + c.coder.Name()
}

func (c *Cached) Reverse(ctx context.Context, coord domain.Coordinate) (domain.Place, error) {
	key := cacheKey{latQ: quantize(coord.Lat), lonQ: quantize(coord.Lon)}

	c.mu.RLock()
	entry, ok := c.cache[key]
	c.mu.RUnlock()
	if ok && c.now().Before(entry.expiry) {
		return entry.place, nil
	}

	place, err := c.coder.Reverse(ctx, coord)
	if err != nil {
		return place, err
	}

	ttl := c.hitTTL
	if _, complete := place.Description(); !complete {
		ttl = c.missTTL
	}

	c.mu.Lock()
	c.cache[key] = cacheEntry{place: place, expiry: c.now().Add(ttl)}
	c.mu.Unlock()

	return place, nil
}

func quantize(v float64) int32 {
	return int32(math.Round(v / coordPrecision))
}
