package model

const (
	DefaultRadiusM = 5000
	MinRadiusM     = 500
	MaxRadiusM     = 50000

	AddressNotAvailable = "Address not available"
	HoursNotAvailable   = "Not available"
)

// PlaceCategory is the kind of facility a caller can search for
type PlaceCategory string

const (
	CategoryPharmacy PlaceCategory = "pharmacy"
	CategoryHospital PlaceCategory = "hospital"
	CategoryClinic   PlaceCategory = "clinic"
)

// AllCategories returns the allowed categories in their canonical order
func AllCategories() []PlaceCategory {
	return []PlaceCategory{CategoryPharmacy, CategoryHospital, CategoryClinic}
}

// ParseCategory maps a raw string onto an allowed category
func ParseCategory(s string) (PlaceCategory, bool) {
	switch c := PlaceCategory(s); c {
	case CategoryPharmacy, CategoryHospital, CategoryClinic:
		return c, true
	}
	return "", false
}

// Coordinate represents geographic coordinates in degrees
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Valid reports whether the coordinate lies within the WGS84 ranges
func (c Coordinate) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

// NearbyPlace is a single normalized facility in a search result
type NearbyPlace struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Type     PlaceCategory `json:"type"`
	Address  string        `json:"address"`
	Lat      float64       `json:"lat"`
	Lon      float64       `json:"lon"`
	Distance float64       `json:"distance"` // km from search center
	Phone    *string       `json:"phone"`
	Website  *string       `json:"website"`
	Hours    string        `json:"hours"`
}
