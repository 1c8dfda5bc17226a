package hazard

import "context"

// Fetcher is the outbound half of the provider, satisfied by *Client.
type Fetcher interface {
	FetchSDS(ctx context.Context, lat, lon float64, siteClass string) (float64, error)
}

// Provider memoizes SDS lookups by rounded coordinates and site class.
// Concurrent misses on one key may issue duplicate fetches; both writes land
// under the cache mutex so readers never see a partial entry.
type Provider struct {
	fetcher Fetcher
	cache   *Cache
}

func NewProvider(fetcher Fetcher, cache *Cache) *Provider {
	if cache == nil {
		cache = NewCache()
	}
	return &Provider{fetcher: fetcher, cache: cache}
}

// SDS returns the cached value for the location when present, otherwise
// fetches, stores and returns it. A failed or canceled fetch is surfaced to
// the caller and nothing is cached.
func (p *Provider) SDS(ctx context.Context, lat, lon float64, siteClass string) (float64, error) {
	key := NewKey(lat, lon, siteClass)
	if v, ok := p.cache.Get(key); ok {
		return v, nil
	}
	v, err := p.fetcher.FetchSDS(ctx, lat, lon, key.SiteClass)
	if err != nil {
		return 0, err
	}
	p.cache.Put(key, v)
	return v, nil
}
