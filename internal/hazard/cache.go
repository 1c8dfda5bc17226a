package hazard

import (
	"math"
	"sync"
)

// keyPrecision rounds cache coordinates to 4 decimal places (~11 m), well
// inside the resolution of the hazard maps.
const keyPrecision = 1e4

// Key identifies one cached SDS value.
type Key struct {
	Lat       float64
	Lon       float64
	SiteClass string
}

func NewKey(lat, lon float64, siteClass string) Key {
	if siteClass == "" {
		siteClass = DefaultSiteClass
	}
	return Key{
		Lat:       math.Round(lat*keyPrecision) / keyPrecision,
		Lon:       math.Round(lon*keyPrecision) / keyPrecision,
		SiteClass: siteClass,
	}
}

// Cache holds SDS values for the life of the process. There is no eviction;
// the key space (sites a user actually queries) stays small. Writes are
// last-write-wins per key.
type Cache struct {
	mu     sync.RWMutex
	values map[Key]float64
}

func NewCache() *Cache {
	return &Cache{values: make(map[Key]float64)}
}

func (c *Cache) Get(k Key) (float64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.values[k]
	return v, ok
}

func (c *Cache) Put(k Key, v float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[k] = v
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.values)
}
