package cache

import (
	lru "github.com/hashicorp/golang-lru"
)

// Cache is a small process-local cache used to skip redundant store reads for
// keys that change rarely (seen sessions, seen spec versions).
type Cache interface {
	Get(key string) (interface{}, bool)
	Set(key string, value interface{})
	Contains(key string) bool
}

const DefaultCacheSize = 256

type LocalCache struct {
	*lru.Cache
}

func NewLocalCache(size int) (Cache, error) {
	cache, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &LocalCache{
		cache,
	}, nil
}

func (c *LocalCache) Get(key string) (interface{}, bool) {
	return c.Cache.Get(key)
}

func (c *LocalCache) Set(key string, value interface{}) {
	c.Cache.Add(key, value)
}

func (c *LocalCache) Contains(key string) bool {
	return c.Cache.Contains(key)
}
