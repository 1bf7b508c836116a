// Package history records completed searches for later inspection
package history

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/heliomed/nearbycare/internal/model"
	"github.com/heliomed/nearbycare/internal/repository"
	"github.com/heliomed/nearbycare/internal/service"
	"go.uber.org/zap"
)

const writeTimeout = 2 * time.Second

// Recorder stores one SearchRecord per search. Storage failures are logged
// and never reach the caller.
type Recorder struct {
	repo   repository.SearchHistoryRepository
	logger *zap.Logger
	now    func() time.Time
}

// NewRecorder creates a new recorder
func NewRecorder(repo repository.SearchHistoryRepository, logger *zap.Logger) *Recorder {
	return &Recorder{repo: repo, logger: logger, now: time.Now}
}

// Record builds the record for a finished search and stores it
func (r *Recorder) Record(ctx context.Context, req model.SearchRequest, resp *model.SearchResponse, searchErr error, elapsed time.Duration) {
	rec := Build(req, resp, searchErr, elapsed, r.now().UTC())

	// The request context may already be done once the response is written.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), writeTimeout)
	defer cancel()

	if err := r.repo.Record(ctx, rec); err != nil {
		r.logger.Warn("Failed to record search", zap.String("id", rec.ID), zap.Error(err))
	}
}

// List returns the most recent searches
func (r *Recorder) List(ctx context.Context, limit int) ([]model.SearchRecord, error) {
	return r.repo.ListRecent(ctx, limit)
}

// CountByStatus returns how many searches ended with each status
func (r *Recorder) CountByStatus(ctx context.Context) ([]model.StatusCount, error) {
	return r.repo.CountByStatus(ctx)
}

// Build converts a search outcome into a SearchRecord
func Build(req model.SearchRequest, resp *model.SearchResponse, searchErr error, elapsed time.Duration, at time.Time) *model.SearchRecord {
	rec := &model.SearchRecord{
		ID:         uuid.NewString(),
		RadiusM:    req.Radius,
		Status:     model.SearchStatusOK,
		DurationMs: elapsed.Milliseconds(),
		CreatedAt:  at,
	}
	if rec.RadiusM == 0 {
		rec.RadiusM = model.DefaultRadiusM
	}
	if req.Zipcode != "" {
		zip := req.Zipcode
		rec.Zipcode = &zip
	}

	categories := service.FilterCategories(req.Types)

	if resp != nil {
		lat, lon := resp.CenterLat, resp.CenterLon
		rec.CenterLat, rec.CenterLon = &lat, &lon
		rec.RadiusM = resp.RadiusM
		rec.ResultCount = resp.Count
		rec.DroppedDuplicates = resp.Dropped.Duplicates
		rec.DroppedUnnamed = resp.Dropped.Unnamed
		rec.DroppedNoCoords = resp.Dropped.NoCoordinates
		if len(resp.Categories) > 0 {
			categories = resp.Categories
		}
	} else if req.Zipcode == "" && req.Lat != nil && req.Lon != nil {
		lat, lon := *req.Lat, *req.Lon
		rec.CenterLat, rec.CenterLon = &lat, &lon
	}

	names := make([]string, len(categories))
	for i, c := range categories {
		names[i] = string(c)
	}
	rec.Categories = strings.Join(names, ",")

	if searchErr != nil {
		kind := string(service.KindOf(searchErr))
		rec.Status = model.SearchStatusFailed
		rec.ErrorKind = &kind
	}
	return rec
}
