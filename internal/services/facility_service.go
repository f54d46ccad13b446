package services

import (
	"context"
	"fmt"

	"github.com/you/meddirsvc/domain"
)

// FacilityServiceImpl implements domain.FacilityService
type FacilityServiceImpl struct {
	facilityRepo domain.FacilityRepository
	manageRepo   domain.ManageRepository
}

// NewFacilityService creates a new facility service
func NewFacilityService(facilityRepo domain.FacilityRepository, manageRepo domain.ManageRepository) domain.FacilityService {
	return &FacilityServiceImpl{
		facilityRepo: facilityRepo,
		manageRepo:   manageRepo,
	}
}

// Get implements domain.FacilityService
func (s *FacilityServiceImpl) Get(ctx context.Context, category domain.ManageCategory, id uint) (*domain.Facility, error) {
	return s.facilityRepo.FindByID(ctx, category, id)
}

// List implements domain.FacilityService
func (s *FacilityServiceImpl) List(ctx context.Context, filter domain.FacilityFilter) ([]*domain.Facility, int64, error) {
	return s.facilityRepo.List(ctx, filter)
}

// Create implements domain.FacilityService
func (s *FacilityServiceImpl) Create(ctx context.Context, facility *domain.Facility) (*domain.Facility, error) {
	if err := s.facilityRepo.Create(ctx, facility); err != nil {
		return nil, fmt.Errorf("failed to create facility: %w", err)
	}
	return facility, nil
}

// Update implements domain.FacilityService
func (s *FacilityServiceImpl) Update(ctx context.Context, facility *domain.Facility) (*domain.Facility, error) {
	if err := s.facilityRepo.Update(ctx, facility); err != nil {
		return nil, err
	}
	return s.facilityRepo.FindByID(ctx, facility.Category, facility.ID)
}

// Delete implements domain.FacilityService. Grants on the facility are
// revoked in the same call so stale ownership cannot outlive the entity.
func (s *FacilityServiceImpl) Delete(ctx context.Context, category domain.ManageCategory, id uint) error {
	if err := s.facilityRepo.SoftDelete(ctx, category, id); err != nil {
		return err
	}
	if err := s.manageRepo.DeleteByEntity(ctx, category, id); err != nil {
		return fmt.Errorf("failed to revoke grants for deleted facility: %w", err)
	}
	return nil
}
