// Package geocode resolves postal codes to coordinates through a Nominatim-compatible API
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/heliomed/nearbycare/internal/model"
	"github.com/heliomed/nearbycare/internal/upstream"
)

const (
	DefaultBaseURL = "https://nominatim.openstreetmap.org/search"
	DefaultCountry = "India"
	DefaultTimeout = 15 * time.Second

	// Op identifies geocoding failures in upstream errors
	Op = "geocode"
)

// ErrNotFound is returned when the upstream has no candidate for the postal code
var ErrNotFound = errors.New("postal code could not be geocoded")

// Geocoder resolves a postal code to a coordinate over the caller's HTTP client
type Geocoder interface {
	Lookup(ctx context.Context, client *http.Client, postalCode string) (model.Coordinate, error)
}

// Config holds settings for the Nominatim client
type Config struct {
	BaseURL   string
	Country   string
	UserAgent string
	Timeout   time.Duration
}

// NominatimClient queries the Nominatim search endpoint
type NominatimClient struct {
	cfg Config
}

// NewNominatimClient creates a geocoder, filling zero fields with defaults
func NewNominatimClient(cfg Config) *NominatimClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Country == "" {
		cfg.Country = DefaultCountry
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &NominatimClient{cfg: cfg}
}

type searchResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Lookup issues a single request using the given HTTP client. It never retries.
func (c *NominatimClient) Lookup(ctx context.Context, client *http.Client, postalCode string) (model.Coordinate, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	params := url.Values{}
	params.Set("postalcode", postalCode)
	params.Set("country", c.cfg.Country)
	params.Set("format", "json")
	params.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return model.Coordinate{}, &upstream.Error{Op: Op, Err: err}
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return model.Coordinate{}, &upstream.Error{Op: Op, Err: err}
	}
	defer resp.Body.Close()

	if err := upstream.CheckStatus(Op, resp); err != nil {
		return model.Coordinate{}, err
	}

	var results []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return model.Coordinate{}, &upstream.Error{Op: Op, Err: fmt.Errorf("decoding response: %w", err)}
	}
	if len(results) == 0 {
		return model.Coordinate{}, fmt.Errorf("%w: %s", ErrNotFound, postalCode)
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return model.Coordinate{}, &upstream.Error{Op: Op, Err: fmt.Errorf("parsing lat: %w", err)}
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return model.Coordinate{}, &upstream.Error{Op: Op, Err: fmt.Errorf("parsing lon: %w", err)}
	}

	return model.Coordinate{Lat: lat, Lon: lon}, nil
}
