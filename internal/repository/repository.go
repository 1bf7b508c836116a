package repository

import (
	"context"

	"github.com/heliomed/nearbycare/internal/config"
	"github.com/heliomed/nearbycare/internal/model"
	"github.com/jmoiron/sqlx"
)

// SearchHistoryRepository defines operations for recorded searches
type SearchHistoryRepository interface {
	Record(ctx context.Context, rec *model.SearchRecord) error
	ListRecent(ctx context.Context, limit int) ([]model.SearchRecord, error)
	CountByStatus(ctx context.Context) ([]model.StatusCount, error)
}

// Container holds all repositories
type Container struct {
	SearchHistory SearchHistoryRepository
}

// NewRepositories creates repository implementations based on DB type
func NewRepositories(db *sqlx.DB, dbType config.DBType) *Container {
	if dbType == config.DBTypePostgreSQL {
		return &Container{
			SearchHistory: &pgSearchHistoryRepository{db: db},
		}
	}

	// Default to SQLite
	return &Container{
		SearchHistory: &sqliteSearchHistoryRepository{db: db},
	}
}

const insertSearchRecord = `
	INSERT INTO search_history (
		id, zipcode, center_lat, center_lon, radius_m, categories, result_count,
		dropped_duplicates, dropped_unnamed, dropped_no_coords, status, error_kind,
		duration_ms, created_at
	) VALUES (
		:id, :zipcode, :center_lat, :center_lon, :radius_m, :categories, :result_count,
		:dropped_duplicates, :dropped_unnamed, :dropped_no_coords, :status, :error_kind,
		:duration_ms, :created_at
	)`
