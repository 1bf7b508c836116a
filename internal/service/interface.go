package service

import (
	"context"

	"github.com/heliomed/nearbycare/internal/model"
)

// ServiceInterface defines the service interface for testing
type ServiceInterface interface {
	FindNearby(ctx context.Context, req model.SearchRequest) (*model.SearchResponse, error)
}
