package hazard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"time"
)

var (
	ErrServiceUnavailable = errors.New("service_unavailable")
	ErrMalformedResponse  = errors.New("malformed_response")
)

// DefaultSiteClass is the only site class this system requests.
const DefaultSiteClass = "Default"

// Client talks to the USGS design-maps web service.
type Client struct {
	BaseURL      string
	RiskCategory string // request attribute required by the API, fixed per client
	Title        string
	HTTPClient   *http.Client
}

func NewClient() *Client {
	return &Client{
		BaseURL:      "https://earthquake.usgs.gov/ws/designmaps",
		RiskCategory: "II",
		Title:        "SimpleFpCalc",
		HTTPClient:   &http.Client{Timeout: 15 * time.Second},
	}
}

type designResponse struct {
	Response struct {
		Data struct {
			SDS *float64 `json:"sds"`
		} `json:"data"`
	} `json:"response"`
}

// FetchSDS issues one request to the asce7-22 endpoint and extracts the sds
// field. Failures are surfaced, never defaulted.
func (c *Client) FetchSDS(ctx context.Context, lat, lon float64, siteClass string) (float64, error) {
	if siteClass == "" {
		siteClass = DefaultSiteClass
	}
	q := url.Values{}
	q.Set("latitude", fmt.Sprintf("%.6f", lat))
	q.Set("longitude", fmt.Sprintf("%.6f", lon))
	q.Set("riskCategory", c.RiskCategory)
	q.Set("siteClass", siteClass)
	q.Set("title", c.Title)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/asce7-22.json?"+q.Encode(), nil)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	res, err := c.HTTPClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("%w: design-maps service returned %d", ErrServiceUnavailable, res.StatusCode)
	}

	var body designResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	sds := body.Response.Data.SDS
	if sds == nil || math.IsNaN(*sds) || math.IsInf(*sds, 0) || *sds < 0 {
		return 0, fmt.Errorf("%w: sds field missing or not a usable number", ErrMalformedResponse)
	}
	return *sds, nil
}
