// Package geo holds pure geographic helpers
package geo

import (
	"math"

	"github.com/heliomed/nearbycare/internal/model"
)

const earthRadiusKm = 6371.0

// HaversineKm returns the great-circle distance between two points in kilometers
func HaversineKm(a, b model.Coordinate) float64 {
	dLat := (b.Lat - a.Lat) * (math.Pi / 180.0)
	dLon := (b.Lon - a.Lon) * (math.Pi / 180.0)
	lat1Rad := a.Lat * (math.Pi / 180.0)
	lat2Rad := b.Lat * (math.Pi / 180.0)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return earthRadiusKm * c
}

// Round rounds v to the given number of decimal places
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
