package mocks

import (
	"context"

	"github.com/you/meddirsvc/domain"
)

// MockPlacesService implements domain.PlacesService for testing
type MockPlacesService struct {
	LookupFunc func(ctx context.Context, query string, byTitle bool) (*domain.PlaceInfo, error)
}

// NewMockPlacesService creates a new MockPlacesService with default behaviors
func NewMockPlacesService() *MockPlacesService {
	return &MockPlacesService{}
}

func (m *MockPlacesService) Lookup(ctx context.Context, query string, byTitle bool) (*domain.PlaceInfo, error) {
	if m.LookupFunc != nil {
		return m.LookupFunc(ctx, query, byTitle)
	}
	return &domain.PlaceInfo{BusinessStatus: "OPERATIONAL"}, nil
}
