package service

import (
	"net/http"
	"time"

	"github.com/heliomed/nearbycare/internal/geocode"
	"github.com/heliomed/nearbycare/internal/overpass"
	"github.com/heliomed/nearbycare/internal/upstream"
	"go.uber.org/zap"
)

// ClientFactory hands out the HTTP client for one search and a release func
// to call when the search is done.
type ClientFactory func() (*http.Client, func())

// PerSearchClients creates a fresh client for every search and drops its
// idle connections on release.
func PerSearchClients(connectTimeout, timeout time.Duration) ClientFactory {
	return func() (*http.Client, func()) {
		c := upstream.NewHTTPClient(connectTimeout, timeout)
		return c, c.CloseIdleConnections
	}
}

// SharedClient reuses one client across searches
func SharedClient(c *http.Client) ClientFactory {
	return func() (*http.Client, func()) {
		return c, func() {}
	}
}

// Service provides the nearby-location lookup
type Service struct {
	geocoder  geocode.Geocoder
	fetcher   overpass.Fetcher
	newClient ClientFactory
	logger    *zap.Logger
}

// NewService creates a new service instance
func NewService(
	geocoder geocode.Geocoder,
	fetcher overpass.Fetcher,
	newClient ClientFactory,
	logger *zap.Logger,
) *Service {
	if newClient == nil {
		newClient = PerSearchClients(10*time.Second, 30*time.Second)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		geocoder:  geocoder,
		fetcher:   fetcher,
		newClient: newClient,
		logger:    logger,
	}
}
