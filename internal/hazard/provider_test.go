package hazard

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDesignMapsServer(t *testing.T, hits *int64, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(hits, 1)
		assert.Equal(t, "/asce7-22.json", r.URL.Path)
		assert.NotEmpty(t, r.URL.Query().Get("latitude"))
		assert.NotEmpty(t, r.URL.Query().Get("siteClass"))
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(baseURL string) *Client {
	c := NewClient()
	c.BaseURL = baseURL
	return c
}

const goodBody = `{"response":{"data":{"sds":1.234}}}`

func TestProviderCachesByKey(t *testing.T) {
	var hits int64
	srv := newDesignMapsServer(t, &hits, goodBody)
	p := NewProvider(newTestClient(srv.URL), NewCache())

	ctx := context.Background()
	first, err := p.SDS(ctx, 37.8044, -122.2712, "")
	require.NoError(t, err)
	second, err := p.SDS(ctx, 37.8044, -122.2712, "")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int64(1), atomic.LoadInt64(&hits), "second call must be served from cache")
	assert.InDelta(t, 1.234, first, 1e-12)
}

func TestProviderRoundsCoordinates(t *testing.T) {
	var hits int64
	srv := newDesignMapsServer(t, &hits, goodBody)
	p := NewProvider(newTestClient(srv.URL), NewCache())

	ctx := context.Background()
	_, err := p.SDS(ctx, 37.80441, -122.27119, "")
	require.NoError(t, err)
	// Within the rounding precision: same key, no second fetch.
	_, err = p.SDS(ctx, 37.80442, -122.27121, "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), atomic.LoadInt64(&hits))

	// A genuinely different site misses.
	_, err = p.SDS(ctx, 34.0522, -118.2437, "")
	require.NoError(t, err)
	assert.Equal(t, int64(2), atomic.LoadInt64(&hits))
}

func TestProviderDistinguishesSiteClass(t *testing.T) {
	var hits int64
	srv := newDesignMapsServer(t, &hits, goodBody)
	p := NewProvider(newTestClient(srv.URL), NewCache())

	ctx := context.Background()
	_, err := p.SDS(ctx, 37.8044, -122.2712, "Default")
	require.NoError(t, err)
	_, err = p.SDS(ctx, 37.8044, -122.2712, "D")
	require.NoError(t, err)
	assert.Equal(t, int64(2), atomic.LoadInt64(&hits))
}

func TestFetchSDSMalformedResponses(t *testing.T) {
	cases := map[string]string{
		"missing field":  `{"response":{"data":{}}}`,
		"wrong type":     `{"response":{"data":{"sds":"high"}}}`,
		"negative value": `{"response":{"data":{"sds":-0.5}}}`,
		"not json":       `<html>maintenance</html>`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			var hits int64
			srv := newDesignMapsServer(t, &hits, body)
			c := newTestClient(srv.URL)
			_, err := c.FetchSDS(context.Background(), 37.8, -122.27, "Default")
			require.ErrorIs(t, err, ErrMalformedResponse)
		})
	}
}

func TestFetchSDSServiceUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, err := c.FetchSDS(context.Background(), 37.8, -122.27, "Default")
	require.ErrorIs(t, err, ErrServiceUnavailable)
}

func TestFetchSDSConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listens anymore

	c := newTestClient(srv.URL)
	_, err := c.FetchSDS(context.Background(), 37.8, -122.27, "Default")
	require.ErrorIs(t, err, ErrServiceUnavailable)
}

func TestProviderFailureNotCached(t *testing.T) {
	var hits int64
	fail := true
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
		if fail {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, goodBody)
	}))
	defer srv.Close()

	p := NewProvider(newTestClient(srv.URL), NewCache())
	ctx := context.Background()

	_, err := p.SDS(ctx, 37.8, -122.27, "")
	require.Error(t, err)

	fail = false
	v, err := p.SDS(ctx, 37.8, -122.27, "")
	require.NoError(t, err)
	assert.InDelta(t, 1.234, v, 1e-12)
	assert.Equal(t, int64(2), atomic.LoadInt64(&hits), "failure must not poison the cache")
}

func TestProviderCanceledContext(t *testing.T) {
	var hits int64
	srv := newDesignMapsServer(t, &hits, goodBody)
	p := NewProvider(newTestClient(srv.URL), NewCache())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := p.SDS(ctx, 37.8, -122.27, "")
	require.Error(t, err)
	assert.Equal(t, 0, p.cache.Len())
}

func TestCacheKeyNormalization(t *testing.T) {
	a := NewKey(37.80441, -122.27119, "")
	b := NewKey(37.80442, -122.27121, "Default")
	assert.Equal(t, a, b)

	c := NewKey(37.80441, -122.27119, "D")
	assert.NotEqual(t, a, c)
}
