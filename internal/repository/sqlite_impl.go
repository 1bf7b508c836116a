package repository

import (
	"context"

	"github.com/heliomed/nearbycare/internal/model"
	"github.com/jmoiron/sqlx"
)

type sqliteSearchHistoryRepository struct {
	db *sqlx.DB
}

func (r *sqliteSearchHistoryRepository) Record(ctx context.Context, rec *model.SearchRecord) error {
	_, err := r.db.NamedExecContext(ctx, insertSearchRecord, rec)
	return err
}

func (r *sqliteSearchHistoryRepository) ListRecent(ctx context.Context, limit int) ([]model.SearchRecord, error) {
	q := `
		SELECT * FROM search_history
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?
	`
	records := []model.SearchRecord{}
	if err := r.db.SelectContext(ctx, &records, q, limit); err != nil {
		return nil, err
	}
	return records, nil
}

func (r *sqliteSearchHistoryRepository) CountByStatus(ctx context.Context) ([]model.StatusCount, error) {
	q := `SELECT status, COUNT(*) AS count FROM search_history GROUP BY status ORDER BY status`
	counts := []model.StatusCount{}
	if err := r.db.SelectContext(ctx, &counts, q); err != nil {
		return nil, err
	}
	return counts, nil
}
