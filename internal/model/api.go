package model

import "time"

// SearchRequest represents the parameters of a nearby search.
// Zipcode takes precedence over Lat/Lon when set.
type SearchRequest struct {
	Zipcode string
	Lat     *float64
	Lon     *float64
	Radius  int
	Types   []string
}

// SearchResponse represents the response for a nearby search
type SearchResponse struct {
	CenterLat float64       `json:"center_lat"`
	CenterLon float64       `json:"center_lon"`
	RadiusM   int           `json:"radius_m"`
	Count     int           `json:"count"`
	Results   []NearbyPlace `json:"results"`

	// Not part of the wire envelope; kept for logging and search history
	Categories []PlaceCategory `json:"-"`
	Dropped    DropStats       `json:"-"`
}

// DropStats counts upstream features discarded during normalization
type DropStats struct {
	Duplicates    int `json:"duplicates"`
	Unnamed       int `json:"unnamed"`
	NoCoordinates int `json:"no_coordinates"`
}

// Total returns the number of discarded features
func (d DropStats) Total() int {
	return d.Duplicates + d.Unnamed + d.NoCoordinates
}

// SearchStatus is the outcome stored for a search
type SearchStatus string

const (
	SearchStatusOK     SearchStatus = "ok"
	SearchStatusFailed SearchStatus = "failed"
)

// SearchRecord represents a row in the search_history table
type SearchRecord struct {
	ID                string       `db:"id" json:"id"`
	Zipcode           *string      `db:"zipcode" json:"zipcode"`
	CenterLat         *float64     `db:"center_lat" json:"center_lat"`
	CenterLon         *float64     `db:"center_lon" json:"center_lon"`
	RadiusM           int          `db:"radius_m" json:"radius_m"`
	Categories        string       `db:"categories" json:"categories"`
	ResultCount       int          `db:"result_count" json:"result_count"`
	DroppedDuplicates int          `db:"dropped_duplicates" json:"dropped_duplicates"`
	DroppedUnnamed    int          `db:"dropped_unnamed" json:"dropped_unnamed"`
	DroppedNoCoords   int          `db:"dropped_no_coords" json:"dropped_no_coords"`
	Status            SearchStatus `db:"status" json:"status"`
	ErrorKind         *string      `db:"error_kind" json:"error_kind,omitempty"`
	DurationMs        int64        `db:"duration_ms" json:"duration_ms"`
	CreatedAt         time.Time    `db:"created_at" json:"created_at"`
}

// StatusCount is an aggregate of searches per status
type StatusCount struct {
	Status SearchStatus `db:"status" json:"status"`
	Count  int64        `db:"count" json:"count"`
}
