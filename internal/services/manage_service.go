package services

import (
	"context"
	"fmt"

	"github.com/you/meddirsvc/domain"
)

// ManageServiceImpl implements domain.ManageService
type ManageServiceImpl struct {
	manageRepo   domain.ManageRepository
	userRepo     domain.UserRepository
	facilityRepo domain.FacilityRepository
}

// NewManageService creates a new grant administration service
func NewManageService(manageRepo domain.ManageRepository, userRepo domain.UserRepository, facilityRepo domain.FacilityRepository) domain.ManageService {
	return &ManageServiceImpl{
		manageRepo:   manageRepo,
		userRepo:     userRepo,
		facilityRepo: facilityRepo,
	}
}

// Grant implements domain.ManageService. A grant must reference a live user
// and a live facility; duplicates are skipped rather than errored.
func (s *ManageServiceImpl) Grant(ctx context.Context, userID uint, category domain.ManageCategory, entityIDs []uint) ([]*domain.ManageGrant, error) {
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		return nil, err
	}

	grants := make([]*domain.ManageGrant, 0, len(entityIDs))
	for _, entityID := range entityIDs {
		if _, err := s.facilityRepo.FindByID(ctx, category, entityID); err != nil {
			return nil, err
		}

		exists, err := s.manageRepo.Exists(ctx, userID, category, entityID)
		if err != nil {
			return nil, fmt.Errorf("failed to check existing grant: %w", err)
		}
		if exists {
			continue
		}

		grant := &domain.ManageGrant{
			UserID:   userID,
			Category: category,
			EntityID: entityID,
		}
		if err := s.manageRepo.Create(ctx, grant); err != nil {
			return nil, fmt.Errorf("failed to create grant: %w", err)
		}
		grants = append(grants, grant)
	}

	return grants, nil
}

// ListByUser implements domain.ManageService
func (s *ManageServiceImpl) ListByUser(ctx context.Context, userID uint) ([]*domain.ManageGrant, error) {
	return s.manageRepo.ListByUser(ctx, userID)
}

// Revoke implements domain.ManageService
func (s *ManageServiceImpl) Revoke(ctx context.Context, grantID uint) error {
	return s.manageRepo.Delete(ctx, grantID)
}
