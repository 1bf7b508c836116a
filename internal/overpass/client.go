package overpass

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/heliomed/nearbycare/internal/upstream"
)

const (
	DefaultURL = "https://overpass-api.de/api/interpreter"

	// Op identifies map-data failures in upstream errors
	Op = "overpass"
)

// Point is a bare lat/lon pair as returned in a way's center
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Element is one raw feature of an Overpass response
type Element struct {
	Type   string            `json:"type"`
	ID     int64             `json:"id"`
	Lat    *float64          `json:"lat,omitempty"`
	Lon    *float64          `json:"lon,omitempty"`
	Center *Point            `json:"center,omitempty"`
	Tags   map[string]string `json:"tags,omitempty"`
}

type response struct {
	Elements []Element `json:"elements"`
}

// Fetcher runs a query against the map-data API over the caller's HTTP client
type Fetcher interface {
	Fetch(ctx context.Context, client *http.Client, query string) ([]Element, error)
}

// Client talks to an Overpass interpreter endpoint
type Client struct {
	endpoint  string
	userAgent string
}

// NewClient creates an Overpass client; an empty endpoint selects DefaultURL
func NewClient(endpoint, userAgent string) *Client {
	if endpoint == "" {
		endpoint = DefaultURL
	}
	return &Client{endpoint: endpoint, userAgent: userAgent}
}

// Fetch posts the query as the "data" form field and returns the elements
func (c *Client) Fetch(ctx context.Context, client *http.Client, query string) ([]Element, error) {
	form := url.Values{}
	form.Set("data", query)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, &upstream.Error{Op: Op, Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, &upstream.Error{Op: Op, Err: err}
	}
	defer resp.Body.Close()

	if err := upstream.CheckStatus(Op, resp); err != nil {
		return nil, err
	}

	var result response
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &upstream.Error{Op: Op, Err: fmt.Errorf("decoding response: %w", err)}
	}
	return result.Elements, nil
}
