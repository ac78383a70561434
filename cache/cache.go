// Package cache keeps decoded archives in memory, keyed by the content of
// the raw bytes they were decoded from.
package cache

import (
	"fmt"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/singleflight"

	"github.com/32bitkid/bak/resource"
)

// Cache is safe for concurrent use. Image slices it returns are shared
// between callers and must not be modified.
type Cache struct {
	loader  *resource.Loader
	images  *lru.Cache[uint64, []*resource.Image]
	group   singleflight.Group
	metrics *Metrics
	logger  log.Logger
}

// New creates a cache in front of loader. A nil loader uses the default
// Loader and a nil logger discards output.
func New(cfg Config, loader *resource.Loader, reg prometheus.Registerer, logger log.Logger) (*Cache, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if loader == nil {
		loader = resource.NewLoader()
	}
	if logger == nil {
		logger = log.NewNopLogger()
	}

	c := &Cache{
		loader:  loader,
		metrics: NewMetrics(reg),
		logger:  logger,
	}

	images, err := lru.NewWithEvict(cfg.Size, func(key uint64, _ []*resource.Image) {
		c.metrics.Evictions.Inc()
		level.Debug(c.logger).Log("msg", "evicted archive", "key", strconv.FormatUint(key, 16))
	})
	if err != nil {
		return nil, fmt.Errorf("create LRU cache: %w", err)
	}
	c.images = images

	return c, nil
}

// Load returns the decoded images of raw, decoding it only if identical
// content is not already cached. Failed loads are not cached.
func (c *Cache) Load(raw []byte) ([]*resource.Image, error) {
	key := xxhash.Sum64(raw)

	if images, ok := c.images.Get(key); ok {
		c.metrics.Hits.Inc()
		return images, nil
	}
	c.metrics.Misses.Inc()

	v, err, _ := c.group.Do(strconv.FormatUint(key, 16), func() (interface{}, error) {
		images, err := c.loader.Load(raw)
		if err != nil {
			c.metrics.LoadErrors.Inc()
			return nil, err
		}
		c.images.Add(key, images)
		level.Debug(c.logger).Log("msg", "cached archive", "key", strconv.FormatUint(key, 16), "images", len(images))
		return images, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]*resource.Image), nil
}

func (c *Cache) Len() int { return c.images.Len() }

func (c *Cache) Purge() { c.images.Purge() }
