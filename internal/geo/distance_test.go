package geo

import (
	"math"
	"testing"

	"github.com/heliomed/nearbycare/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestHaversineKm(t *testing.T) {
	tests := []struct {
		name     string
		a        model.Coordinate
		b        model.Coordinate
		expected float64 // km
		epsilon  float64
	}{
		{
			name:     "Same point",
			a:        model.Coordinate{Lat: 28.6328, Lon: 77.2197},
			b:        model.Coordinate{Lat: 28.6328, Lon: 77.2197},
			expected: 0.0,
			epsilon:  1e-9,
		},
		{
			name:     "Equator 1 degree latitude",
			a:        model.Coordinate{Lat: 0, Lon: 0},
			b:        model.Coordinate{Lat: 1, Lon: 0},
			expected: 111.19,
			epsilon:  111.19 * 0.005,
		},
		{
			name: "Delhi to Mumbai",
			a:    model.Coordinate{Lat: 28.6139, Lon: 77.2090},
			b:    model.Coordinate{Lat: 19.0760, Lon: 72.8777},
			// Approx 1148 km
			expected: 1148.0,
			epsilon:  10.0,
		},
		{
			name:     "North Pole to South Pole",
			a:        model.Coordinate{Lat: 90, Lon: 0},
			b:        model.Coordinate{Lat: -90, Lon: 0},
			expected: math.Pi * earthRadiusKm,
			epsilon:  1e-6,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HaversineKm(tt.a, tt.b)
			diff := math.Abs(got - tt.expected)
			assert.True(t, diff <= tt.epsilon,
				"Expected distance ~%.4f km, got %.4f km (diff %.6f > epsilon %.6f)",
				tt.expected, got, diff, tt.epsilon)
		})
	}
}

func TestHaversineKm_Symmetric(t *testing.T) {
	points := []model.Coordinate{
		{Lat: 28.6328, Lon: 77.2197},
		{Lat: -33.8688, Lon: 151.2093},
		{Lat: 51.5074, Lon: -0.1278},
		{Lat: 0, Lon: 179.9},
		{Lat: 0, Lon: -179.9},
	}

	for _, a := range points {
		assert.Zero(t, HaversineKm(a, a))
		for _, b := range points {
			ab := HaversineKm(a, b)
			ba := HaversineKm(b, a)
			assert.InEpsilon(t, ab+1, ba+1, 1e-9)
		}
	}
}

func TestRound(t *testing.T) {
	assert.Equal(t, 2.0, Round(1.999, 2))
	assert.Equal(t, 1.23, Round(1.2349, 2))
	assert.Equal(t, 4.57, Round(4.5678, 2))
	assert.Equal(t, 0.0, Round(0.001, 2))
}
