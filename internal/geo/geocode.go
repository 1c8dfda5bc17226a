package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ErrGeocodeUnresolved means no coordinates could be derived for an address.
var ErrGeocodeUnresolved = errors.New("geocode_unresolved")

type Location struct {
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	DisplayName string  `json:"display_name"`
}

// Client resolves free-text addresses through the Nominatim search API.
type Client struct {
	BaseURL    string
	UserAgent  string // Nominatim requires an identifying agent
	HTTPClient *http.Client
}

func NewClient() *Client {
	return &Client{
		BaseURL:    "https://nominatim.openstreetmap.org",
		UserAgent:  "SimpleFpCalc",
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type searchHit struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Geocode returns the best match for an address. Any failure to produce
// coordinates, including transport errors, is reported as unresolved so the
// caller withholds the calculation rather than guessing a location.
func (c *Client) Geocode(ctx context.Context, address string) (Location, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return Location{}, fmt.Errorf("%w: empty address", ErrGeocodeUnresolved)
	}

	q := url.Values{}
	q.Set("q", address)
	q.Set("format", "json")
	q.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return Location{}, fmt.Errorf("%w: %v", ErrGeocodeUnresolved, err)
	}
	req.Header.Set("User-Agent", c.UserAgent)

	res, err := c.HTTPClient.Do(req)
	if err != nil {
		return Location{}, fmt.Errorf("%w: %v", ErrGeocodeUnresolved, err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return Location{}, fmt.Errorf("%w: geocoder returned %d", ErrGeocodeUnresolved, res.StatusCode)
	}

	var hits []searchHit
	if err := json.NewDecoder(res.Body).Decode(&hits); err != nil {
		return Location{}, fmt.Errorf("%w: %v", ErrGeocodeUnresolved, err)
	}
	if len(hits) == 0 {
		return Location{}, fmt.Errorf("%w: no match for %q", ErrGeocodeUnresolved, address)
	}

	lat, err := strconv.ParseFloat(hits[0].Lat, 64)
	if err != nil {
		return Location{}, fmt.Errorf("%w: bad latitude %q", ErrGeocodeUnresolved, hits[0].Lat)
	}
	lon, err := strconv.ParseFloat(hits[0].Lon, 64)
	if err != nil {
		return Location{}, fmt.Errorf("%w: bad longitude %q", ErrGeocodeUnresolved, hits[0].Lon)
	}
	return Location{Lat: lat, Lon: lon, DisplayName: hits[0].DisplayName}, nil
}
