package service

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/heliomed/nearbycare/internal/model"
	"github.com/heliomed/nearbycare/internal/overpass"
	"go.uber.org/zap"
)

var indianZipRe = regexp.MustCompile(`^[0-9]{6}$`)

// ValidZipcode reports whether s is a 6-digit Indian postal code
func ValidZipcode(s string) bool {
	return indianZipRe.MatchString(s)
}

// FilterCategories keeps the allowed categories from the requested types, in
// canonical order and without duplicates. When nothing allowed remains, all
// categories are returned.
func FilterCategories(types []string) []model.PlaceCategory {
	requested := make(map[model.PlaceCategory]bool, len(types))
	for _, t := range types {
		if c, ok := model.ParseCategory(strings.ToLower(strings.TrimSpace(t))); ok {
			requested[c] = true
		}
	}

	var out []model.PlaceCategory
	for _, c := range model.AllCategories() {
		if requested[c] {
			out = append(out, c)
		}
	}
	if len(out) == 0 {
		return model.AllCategories()
	}
	return out
}

// validate checks the request and returns the effective radius.
// No network call happens before it passes.
func validate(req model.SearchRequest) (int, error) {
	if req.Zipcode != "" {
		if !ValidZipcode(req.Zipcode) {
			return 0, invalidRequest("Invalid Indian zipcode. Must be exactly 6 digits.")
		}
	} else {
		if req.Lat == nil || req.Lon == nil {
			return 0, invalidRequest("Provide either a zipcode or both lat and lon.")
		}
		if !(model.Coordinate{Lat: *req.Lat, Lon: *req.Lon}).Valid() {
			return 0, invalidRequest("Coordinates out of range.")
		}
	}

	radius := req.Radius
	if radius == 0 {
		radius = model.DefaultRadiusM
	}
	if radius < model.MinRadiusM || radius > model.MaxRadiusM {
		return 0, invalidRequest("Radius must be between %d and %d meters.", model.MinRadiusM, model.MaxRadiusM)
	}
	return radius, nil
}

// FindNearby resolves the search center, queries the map-data API once and
// returns the normalized places ordered by distance.
func (s *Service) FindNearby(ctx context.Context, req model.SearchRequest) (*model.SearchResponse, error) {
	radius, err := validate(req)
	if err != nil {
		return nil, err
	}
	categories := FilterCategories(req.Types)

	client, release := s.newClient()
	defer release()

	start := time.Now()

	var center model.Coordinate
	if req.Zipcode != "" {
		center, err = s.geocoder.Lookup(ctx, client, req.Zipcode)
		if err != nil {
			s.logger.Warn("Geocoding failed", zap.String("zipcode", req.Zipcode), zap.Error(err))
			return nil, classify(err)
		}
	} else {
		center = model.Coordinate{Lat: *req.Lat, Lon: *req.Lon}
	}

	query := overpass.BuildQuery(center, radius, categories)
	elements, err := s.fetcher.Fetch(ctx, client, query)
	if err != nil {
		s.logger.Error("Map-data query failed",
			zap.Float64("lat", center.Lat),
			zap.Float64("lon", center.Lon),
			zap.Int("radius_m", radius),
			zap.Error(err),
		)
		return nil, classify(err)
	}

	places, drops := overpass.Normalize(elements, center)

	s.logger.Info("Nearby search completed",
		zap.Float64("lat", center.Lat),
		zap.Float64("lon", center.Lon),
		zap.Int("radius_m", radius),
		zap.Int("elements", len(elements)),
		zap.Int("results", len(places)),
		zap.Int("dropped_duplicates", drops.Duplicates),
		zap.Int("dropped_unnamed", drops.Unnamed),
		zap.Int("dropped_no_coords", drops.NoCoordinates),
		zap.Duration("duration", time.Since(start)),
	)

	return &model.SearchResponse{
		CenterLat:  center.Lat,
		CenterLon:  center.Lon,
		RadiusM:    radius,
		Count:      len(places),
		Results:    places,
		Categories: categories,
		Dropped:    drops,
	}, nil
}
