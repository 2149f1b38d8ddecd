package csvfile

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/couchcryptid/climate-dashboard/internal/domain"
	"github.com/couchcryptid/climate-dashboard/internal/observability"
)

const (
	datasetTemperature = "temperature"
	datasetSeaLevel    = "sea_level"
)

// Loader reads both datasets from a path. *Reader implements it.
type Loader interface {
	LoadTemperature(ctx context.Context, path string) ([]domain.TemperatureReading, error)
	LoadSeaLevel(ctx context.Context, path string) ([]domain.SeaLevelYear, error)
}

// CachedLoader wraps a Loader with a read-through cache keyed by dataset and path.
// Entries never expire: each distinct file is read and parsed at most once per
// process. The returned slices are shared and must be treated as read-only.
type CachedLoader struct {
	inner   Loader
	metrics *observability.Metrics

	temperatures *readThrough[[]domain.TemperatureReading]
	seaLevels    *readThrough[[]domain.SeaLevelYear]
}

// NewCachedLoader creates a cache decorator around a loader.
func NewCachedLoader(inner Loader, metrics *observability.Metrics) *CachedLoader {
	return &CachedLoader{
		inner:        inner,
		metrics:      metrics,
		temperatures: newReadThrough[[]domain.TemperatureReading](),
		seaLevels:    newReadThrough[[]domain.SeaLevelYear](),
	}
}

func (c *CachedLoader) LoadTemperature(ctx context.Context, path string) ([]domain.TemperatureReading, error) {
	readings, hit, err := c.temperatures.get(path, func() ([]domain.TemperatureReading, error) {
		start := time.Now()
		readings, err := c.inner.LoadTemperature(ctx, path)
		c.observeLoad(datasetTemperature, start, len(readings), err)
		return readings, err
	})
	c.observeLookup(datasetTemperature, hit)
	return readings, err
}

func (c *CachedLoader) LoadSeaLevel(ctx context.Context, path string) ([]domain.SeaLevelYear, error) {
	years, hit, err := c.seaLevels.get(path, func() ([]domain.SeaLevelYear, error) {
		start := time.Now()
		years, err := c.inner.LoadSeaLevel(ctx, path)
		c.observeLoad(datasetSeaLevel, start, len(years), err)
		return years, err
	})
	c.observeLookup(datasetSeaLevel, hit)
	return years, err
}

func (c *CachedLoader) observeLookup(dataset string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	c.metrics.LoadCache.WithLabelValues(dataset, result).Inc()
}

func (c *CachedLoader) observeLoad(dataset string, start time.Time, rows int, err error) {
	c.metrics.DatasetLoadDuration.WithLabelValues(dataset).Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.DatasetLoads.WithLabelValues(dataset, "error").Inc()
		return
	}
	c.metrics.DatasetLoads.WithLabelValues(dataset, "success").Inc()
	c.metrics.DatasetRows.WithLabelValues(dataset).Set(float64(rows))
}

// readThrough is a thread-safe, never-evicting memo keyed by string. Concurrent
// misses for the same key share a single load. Failed loads are not stored so a
// later call can retry.
type readThrough[V any] struct {
	mu      sync.RWMutex
	entries map[string]V
	group   singleflight.Group
}

func newReadThrough[V any]() *readThrough[V] {
	return &readThrough[V]{entries: make(map[string]V)}
}

// get returns the cached value for key, loading it on a miss. The boolean
// reports whether the value came from the cache.
func (c *readThrough[V]) get(key string, load func() (V, error)) (V, bool, error) {
	c.mu.RLock()
	v, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		return v, true, nil
	}

	res, err, _ := c.group.Do(key, func() (any, error) {
		c.mu.RLock()
		v, ok := c.entries[key]
		c.mu.RUnlock()
		if ok {
			return v, nil
		}

		v, err := load()
		if err != nil {
			return v, err
		}
		c.mu.Lock()
		c.entries[key] = v
		c.mu.Unlock()
		return v, nil
	})
	if err != nil {
		var zero V
		return zero, false, err
	}
	return res.(V), false, nil
}
