package mocks

import (
	"context"

	"github.com/you/meddirsvc/domain"
)

// MockFacilityRepository implements domain.FacilityRepository for testing
type MockFacilityRepository struct {
	CreateFunc     func(ctx context.Context, facility *domain.Facility) error
	FindByIDFunc   func(ctx context.Context, category domain.ManageCategory, id uint) (*domain.Facility, error)
	ListFunc       func(ctx context.Context, filter domain.FacilityFilter) ([]*domain.Facility, int64, error)
	UpdateFunc     func(ctx context.Context, facility *domain.Facility) error
	SoftDeleteFunc func(ctx context.Context, category domain.ManageCategory, id uint) error
}

// NewMockFacilityRepository creates a new MockFacilityRepository with default behaviors
func NewMockFacilityRepository() *MockFacilityRepository {
	return &MockFacilityRepository{}
}

func (m *MockFacilityRepository) Create(ctx context.Context, facility *domain.Facility) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, facility)
	}
	return nil
}

func (m *MockFacilityRepository) FindByID(ctx context.Context, category domain.ManageCategory, id uint) (*domain.Facility, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, category, id)
	}
	return nil, domain.ErrFacilityNotFound
}

func (m *MockFacilityRepository) List(ctx context.Context, filter domain.FacilityFilter) ([]*domain.Facility, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return nil, 0, nil
}

func (m *MockFacilityRepository) Update(ctx context.Context, facility *domain.Facility) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, facility)
	}
	return nil
}

func (m *MockFacilityRepository) SoftDelete(ctx context.Context, category domain.ManageCategory, id uint) error {
	if m.SoftDeleteFunc != nil {
		return m.SoftDeleteFunc(ctx, category, id)
	}
	return nil
}
