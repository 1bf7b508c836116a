package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/heliomed/nearbycare/internal/config"
	"github.com/heliomed/nearbycare/internal/database"
	"github.com/heliomed/nearbycare/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRepo(t *testing.T) (*Container, func()) {
	cfg := config.DBConfig{Type: config.DBTypeMemory, Name: "repo_" + uuid.NewString()}
	db, err := database.Connect(context.Background(), cfg)
	require.NoError(t, err)

	require.NoError(t, database.Migrate(db, cfg, "../../migrations"))

	cleanup := func() {
		db.Close()
	}

	return NewRepositories(db, config.DBTypeMemory), cleanup
}

func strPtr(s string) *string { return &s }

func f64Ptr(v float64) *float64 { return &v }

func TestSearchHistoryRepository_RecordAndListRecent(t *testing.T) {
	repos, cleanup := setupRepo(t)
	defer cleanup()
	ctx := context.Background()

	base := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	records := []model.SearchRecord{
		{
			ID: uuid.NewString(), Zipcode: strPtr("110001"), CenterLat: f64Ptr(28.6328), CenterLon: f64Ptr(77.2197),
			RadiusM: 5000, Categories: "pharmacy,hospital,clinic", ResultCount: 2,
			DroppedDuplicates: 1, DroppedUnnamed: 1, Status: model.SearchStatusOK,
			DurationMs: 120, CreatedAt: base,
		},
		{
			ID: uuid.NewString(), Zipcode: strPtr("999999"), RadiusM: 5000, Categories: "pharmacy",
			Status: model.SearchStatusFailed, ErrorKind: strPtr("geocode_not_found"),
			DurationMs: 40, CreatedAt: base.Add(time.Minute),
		},
		{
			ID: uuid.NewString(), CenterLat: f64Ptr(19.076), CenterLon: f64Ptr(72.8777),
			RadiusM: 1000, Categories: "clinic", Status: model.SearchStatusOK, CreatedAt: base.Add(2 * time.Minute),
		},
	}
	for i := range records {
		require.NoError(t, repos.SearchHistory.Record(ctx, &records[i]))
	}

	recent, err := repos.SearchHistory.ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)

	assert.Equal(t, records[2].ID, recent[0].ID)
	assert.Nil(t, recent[0].Zipcode)
	require.NotNil(t, recent[0].CenterLat)
	assert.Equal(t, 19.076, *recent[0].CenterLat)

	assert.Equal(t, records[1].ID, recent[1].ID)
	assert.Equal(t, model.SearchStatusFailed, recent[1].Status)
	require.NotNil(t, recent[1].ErrorKind)
	assert.Equal(t, "geocode_not_found", *recent[1].ErrorKind)
	assert.Nil(t, recent[1].CenterLat)
	assert.True(t, base.Add(time.Minute).Equal(recent[1].CreatedAt))
}

func TestSearchHistoryRepository_CountByStatus(t *testing.T) {
	repos, cleanup := setupRepo(t)
	defer cleanup()
	ctx := context.Background()

	counts, err := repos.SearchHistory.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Empty(t, counts)

	for _, status := range []model.SearchStatus{model.SearchStatusOK, model.SearchStatusOK, model.SearchStatusFailed} {
		require.NoError(t, repos.SearchHistory.Record(ctx, &model.SearchRecord{
			ID: uuid.NewString(), RadiusM: 5000, Categories: "pharmacy", Status: status, CreatedAt: time.Now().UTC(),
		}))
	}

	counts, err = repos.SearchHistory.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.StatusCount{
		{Status: model.SearchStatusFailed, Count: 1},
		{Status: model.SearchStatusOK, Count: 2},
	}, counts)
}

func TestSearchHistoryRepository_DuplicateID(t *testing.T) {
	repos, cleanup := setupRepo(t)
	defer cleanup()
	ctx := context.Background()

	rec := &model.SearchRecord{ID: uuid.NewString(), RadiusM: 500, Categories: "clinic", Status: model.SearchStatusOK, CreatedAt: time.Now().UTC()}
	require.NoError(t, repos.SearchHistory.Record(ctx, rec))
	assert.Error(t, repos.SearchHistory.Record(ctx, rec))
}
