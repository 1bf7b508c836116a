package history

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/heliomed/nearbycare/internal/geocode"
	"github.com/heliomed/nearbycare/internal/model"
	"github.com/heliomed/nearbycare/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockSearchHistoryRepository implements repository.SearchHistoryRepository
type MockSearchHistoryRepository struct {
	mock.Mock
}

func (m *MockSearchHistoryRepository) Record(ctx context.Context, rec *model.SearchRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockSearchHistoryRepository) ListRecent(ctx context.Context, limit int) ([]model.SearchRecord, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.SearchRecord), args.Error(1)
}

func (m *MockSearchHistoryRepository) CountByStatus(ctx context.Context) ([]model.StatusCount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.StatusCount), args.Error(1)
}

var at = time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC)

func TestBuild_Success(t *testing.T) {
	resp := &model.SearchResponse{
		CenterLat:  28.6328,
		CenterLon:  77.2197,
		RadiusM:    5000,
		Count:      2,
		Categories: []model.PlaceCategory{model.CategoryPharmacy, model.CategoryHospital},
		Dropped:    model.DropStats{Duplicates: 1, Unnamed: 2, NoCoordinates: 3},
	}

	rec := Build(model.SearchRequest{Zipcode: "110001", Types: []string{"pharmacy", "hospital"}}, resp, nil, 1500*time.Millisecond, at)

	assert.NotEmpty(t, rec.ID)
	require.NotNil(t, rec.Zipcode)
	assert.Equal(t, "110001", *rec.Zipcode)
	assert.Equal(t, 28.6328, *rec.CenterLat)
	assert.Equal(t, 77.2197, *rec.CenterLon)
	assert.Equal(t, 5000, rec.RadiusM)
	assert.Equal(t, "pharmacy,hospital", rec.Categories)
	assert.Equal(t, 2, rec.ResultCount)
	assert.Equal(t, 1, rec.DroppedDuplicates)
	assert.Equal(t, 2, rec.DroppedUnnamed)
	assert.Equal(t, 3, rec.DroppedNoCoords)
	assert.Equal(t, model.SearchStatusOK, rec.Status)
	assert.Nil(t, rec.ErrorKind)
	assert.Equal(t, int64(1500), rec.DurationMs)
	assert.Equal(t, at, rec.CreatedAt)
}

func TestBuild_Failure(t *testing.T) {
	err := &service.Error{Kind: service.KindGeocodeNotFound, Err: geocode.ErrNotFound}

	rec := Build(model.SearchRequest{Zipcode: "999999"}, nil, err, time.Second, at)

	assert.Equal(t, model.SearchStatusFailed, rec.Status)
	require.NotNil(t, rec.ErrorKind)
	assert.Equal(t, "geocode_not_found", *rec.ErrorKind)
	assert.Nil(t, rec.CenterLat)
	assert.Equal(t, model.DefaultRadiusM, rec.RadiusM)
	assert.Equal(t, "pharmacy,hospital,clinic", rec.Categories)
}

func TestBuild_FailureWithCoordinates(t *testing.T) {
	lat, lon := 19.076, 72.8777
	rec := Build(model.SearchRequest{Lat: &lat, Lon: &lon, Radius: 800, Types: []string{"clinic"}}, nil, errors.New("boom"), 0, at)

	require.NotNil(t, rec.CenterLat)
	assert.Equal(t, 19.076, *rec.CenterLat)
	assert.Nil(t, rec.Zipcode)
	assert.Equal(t, 800, rec.RadiusM)
	assert.Equal(t, "clinic", rec.Categories)
	assert.Equal(t, "upstream", *rec.ErrorKind)
}

func TestRecorder_Record(t *testing.T) {
	repo := new(MockSearchHistoryRepository)
	repo.On("Record", mock.Anything, mock.MatchedBy(func(rec *model.SearchRecord) bool {
		return rec.Status == model.SearchStatusOK && rec.ResultCount == 1
	})).Return(nil).Once()

	r := NewRecorder(repo, zap.NewNop())
	r.Record(context.Background(), model.SearchRequest{Zipcode: "110001"}, &model.SearchResponse{Count: 1, RadiusM: 5000}, nil, time.Millisecond)

	repo.AssertExpectations(t)
}

func TestRecorder_Record_StorageErrorSwallowed(t *testing.T) {
	repo := new(MockSearchHistoryRepository)
	repo.On("Record", mock.Anything, mock.Anything).Return(errors.New("disk full"))

	r := NewRecorder(repo, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NotPanics(t, func() {
		r.Record(ctx, model.SearchRequest{Zipcode: "110001"}, nil, errors.New("boom"), 0)
	})
	repo.AssertNumberOfCalls(t, "Record", 1)
}

func TestRecorder_List(t *testing.T) {
	repo := new(MockSearchHistoryRepository)
	repo.On("ListRecent", mock.Anything, 20).Return([]model.SearchRecord{{ID: "a"}}, nil)

	records, err := NewRecorder(repo, zap.NewNop()).List(context.Background(), 20)

	require.NoError(t, err)
	assert.Len(t, records, 1)
}
