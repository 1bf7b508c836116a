// Package overpass builds Overpass QL queries, fetches map features and
// normalizes them into nearby places.
package overpass

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/heliomed/nearbycare/internal/model"
)

// QueryTimeoutSeconds caps server-side execution of a query
const QueryTimeoutSeconds = 15

// categoryTags maps each category to the amenity tag values it covers.
// Read through TagsFor only.
var categoryTags = map[model.PlaceCategory][]string{
	model.CategoryPharmacy: {"pharmacy"},
	model.CategoryHospital: {"hospital"},
	model.CategoryClinic:   {"clinic", "doctors"},
}

// TagsFor returns a copy of the amenity tags for a category
func TagsFor(c model.PlaceCategory) []string {
	tags := categoryTags[c]
	out := make([]string, len(tags))
	copy(out, tags)
	return out
}

// BuildQuery returns an Overpass QL query matching nodes and ways tagged with
// any amenity of the requested categories within radiusM meters of center.
// Ways are returned with their center point.
func BuildQuery(center model.Coordinate, radiusM int, categories []model.PlaceCategory) string {
	lat := strconv.FormatFloat(center.Lat, 'f', -1, 64)
	lon := strconv.FormatFloat(center.Lon, 'f', -1, 64)
	around := fmt.Sprintf("(around:%d,%s,%s);", radiusM, lat, lon)

	seen := make(map[string]bool)
	var b strings.Builder
	fmt.Fprintf(&b, "[out:json][timeout:%d];\n(\n", QueryTimeoutSeconds)
	for _, c := range categories {
		for _, tag := range categoryTags[c] {
			if seen[tag] {
				continue
			}
			seen[tag] = true
			fmt.Fprintf(&b, "  node[\"amenity\"=%q]%s\n", tag, around)
			fmt.Fprintf(&b, "  way[\"amenity\"=%q]%s\n", tag, around)
		}
	}
	b.WriteString(");\nout center body;")
	return b.String()
}
