package repository

import (
	"context"

	"github.com/heliomed/nearbycare/internal/model"
	"github.com/jmoiron/sqlx"
)

type pgSearchHistoryRepository struct {
	db *sqlx.DB
}

func (r *pgSearchHistoryRepository) Record(ctx context.Context, rec *model.SearchRecord) error {
	_, err := r.db.NamedExecContext(ctx, insertSearchRecord, rec)
	return err
}

func (r *pgSearchHistoryRepository) ListRecent(ctx context.Context, limit int) ([]model.SearchRecord, error) {
	q := `
		SELECT
			id::text AS id, zipcode, center_lat, center_lon, radius_m, categories,
			result_count, dropped_duplicates, dropped_unnamed, dropped_no_coords,
			status, error_kind, duration_ms, created_at
		FROM search_history
		ORDER BY created_at DESC
		LIMIT $1
	`
	records := []model.SearchRecord{}
	if err := r.db.SelectContext(ctx, &records, q, limit); err != nil {
		return nil, err
	}
	return records, nil
}

func (r *pgSearchHistoryRepository) CountByStatus(ctx context.Context) ([]model.StatusCount, error) {
	q := `SELECT status, COUNT(*) AS count FROM search_history GROUP BY status ORDER BY status`
	counts := []model.StatusCount{}
	if err := r.db.SelectContext(ctx, &counts, q); err != nil {
		return nil, err
	}
	return counts, nil
}
