package overpass

import (
	"sort"
	"strconv"
	"strings"

	"github.com/heliomed/nearbycare/internal/geo"
	"github.com/heliomed/nearbycare/internal/model"
)

var addressKeys = []string{"addr:street", "addr:city", "addr:district", "addr:state", "addr:postcode"}

// Normalize converts raw elements into places sorted by distance from center.
// Elements are dropped when their id was already seen, when they carry no
// name, or when no coordinate can be resolved.
func Normalize(elements []Element, center model.Coordinate) ([]model.NearbyPlace, model.DropStats) {
	var drops model.DropStats
	places := make([]model.NearbyPlace, 0, len(elements))
	seen := make(map[int64]struct{}, len(elements))

	for _, el := range elements {
		if _, dup := seen[el.ID]; dup {
			drops.Duplicates++
			continue
		}
		seen[el.ID] = struct{}{}

		name := firstTag(el.Tags, "name", "name:en")
		if name == "" {
			drops.Unnamed++
			continue
		}

		pos, ok := resolvePosition(el)
		if !ok {
			drops.NoCoordinates++
			continue
		}

		places = append(places, model.NearbyPlace{
			ID:       strconv.FormatInt(el.ID, 10),
			Name:     name,
			Type:     ResolveCategory(el.Tags["amenity"]),
			Address:  Address(el.Tags),
			Lat:      pos.Lat,
			Lon:      pos.Lon,
			Distance: geo.Round(geo.HaversineKm(center, pos), 2),
			Phone:    optionalTag(el.Tags, "phone", "contact:phone"),
			Website:  optionalTag(el.Tags, "website", "contact:website"),
			Hours:    tagOr(el.Tags, "opening_hours", model.HoursNotAvailable),
		})
	}

	sort.SliceStable(places, func(i, j int) bool {
		return places[i].Distance < places[j].Distance
	})
	return places, drops
}

// ResolveCategory maps an amenity tag to a category. Anything that is not
// explicitly a pharmacy or hospital is treated as a clinic.
func ResolveCategory(amenity string) model.PlaceCategory {
	switch amenity {
	case "pharmacy":
		return model.CategoryPharmacy
	case "hospital":
		return model.CategoryHospital
	default:
		return model.CategoryClinic
	}
}

// Address joins the non-empty structured address parts, falling back to the
// free-text address tag and then to a placeholder.
func Address(tags map[string]string) string {
	parts := make([]string, 0, len(addressKeys))
	for _, k := range addressKeys {
		if v := tags[k]; v != "" {
			parts = append(parts, v)
		}
	}
	if len(parts) > 0 {
		return strings.Join(parts, ", ")
	}
	return tagOr(tags, "address", model.AddressNotAvailable)
}

func resolvePosition(el Element) (model.Coordinate, bool) {
	if el.Lat != nil && el.Lon != nil {
		return model.Coordinate{Lat: *el.Lat, Lon: *el.Lon}, true
	}
	if el.Center != nil {
		return model.Coordinate{Lat: el.Center.Lat, Lon: el.Center.Lon}, true
	}
	return model.Coordinate{}, false
}

// firstTag returns the first non-empty value; a present but empty tag counts as missing
func firstTag(tags map[string]string, keys ...string) string {
	for _, k := range keys {
		if v := tags[k]; v != "" {
			return v
		}
	}
	return ""
}

func optionalTag(tags map[string]string, keys ...string) *string {
	if v := firstTag(tags, keys...); v != "" {
		return &v
	}
	return nil
}

func tagOr(tags map[string]string, key, fallback string) string {
	if v := tags[key]; v != "" {
		return v
	}
	return fallback
}
