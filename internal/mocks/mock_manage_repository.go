package mocks

import (
	"context"

	"github.com/you/meddirsvc/domain"
)

// MockManageRepository implements domain.ManageRepository for testing
type MockManageRepository struct {
	CreateFunc         func(ctx context.Context, grant *domain.ManageGrant) error
	ExistsFunc         func(ctx context.Context, userID uint, category domain.ManageCategory, entityID uint) (bool, error)
	ListByUserFunc     func(ctx context.Context, userID uint) ([]*domain.ManageGrant, error)
	DeleteFunc         func(ctx context.Context, id uint) error
	DeleteByEntityFunc func(ctx context.Context, category domain.ManageCategory, entityID uint) error
}

// NewMockManageRepository creates a new MockManageRepository with default behaviors
func NewMockManageRepository() *MockManageRepository {
	return &MockManageRepository{}
}

func (m *MockManageRepository) Create(ctx context.Context, grant *domain.ManageGrant) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, grant)
	}
	return nil
}

func (m *MockManageRepository) Exists(ctx context.Context, userID uint, category domain.ManageCategory, entityID uint) (bool, error) {
	if m.ExistsFunc != nil {
		return m.ExistsFunc(ctx, userID, category, entityID)
	}
	return false, nil
}

func (m *MockManageRepository) ListByUser(ctx context.Context, userID uint) ([]*domain.ManageGrant, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockManageRepository) Delete(ctx context.Context, id uint) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockManageRepository) DeleteByEntity(ctx context.Context, category domain.ManageCategory, entityID uint) error {
	if m.DeleteByEntityFunc != nil {
		return m.DeleteByEntityFunc(ctx, category, entityID)
	}
	return nil
}
