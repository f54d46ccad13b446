package services

import (
	"context"
	"errors"
	"testing"

	"github.com/you/meddirsvc/domain"
	"github.com/you/meddirsvc/internal/mocks"
)

func TestManageService_Grant(t *testing.T) {
	manageRepo := mocks.NewMockManageRepository()
	userRepo := mocks.NewMockUserRepository()
	facilityRepo := mocks.NewMockFacilityRepository()
	svc := NewManageService(manageRepo, userRepo, facilityRepo)
	ctx := context.Background()

	userRepo.FindByIDFunc = func(ctx context.Context, id uint) (*domain.User, error) {
		return &domain.User{ID: id, Role: domain.RoleManager}, nil
	}
	facilityRepo.FindByIDFunc = func(ctx context.Context, category domain.ManageCategory, id uint) (*domain.Facility, error) {
		return &domain.Facility{ID: id, Category: category}, nil
	}
	manageRepo.ExistsFunc = func(ctx context.Context, userID uint, category domain.ManageCategory, entityID uint) (bool, error) {
		return entityID == 10, nil // 10 is already granted
	}

	var created []uint
	manageRepo.CreateFunc = func(ctx context.Context, grant *domain.ManageGrant) error {
		created = append(created, grant.EntityID)
		return nil
	}

	grants, err := svc.Grant(ctx, 1, domain.CategoryHospital, []uint{10, 11, 12})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(grants) != 2 {
		t.Errorf("granted %d, want 2 (duplicate skipped)", len(grants))
	}
	if len(created) != 2 || created[0] != 11 || created[1] != 12 {
		t.Errorf("created = %v, want [11 12]", created)
	}
}

func TestManageService_Grant_UnknownUser(t *testing.T) {
	svc := NewManageService(mocks.NewMockManageRepository(), mocks.NewMockUserRepository(), mocks.NewMockFacilityRepository())

	_, err := svc.Grant(context.Background(), 99, domain.CategoryHospital, []uint{1})
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("error = %v, want ErrUserNotFound", err)
	}
}

func TestManageService_Grant_UnknownFacility(t *testing.T) {
	manageRepo := mocks.NewMockManageRepository()
	userRepo := mocks.NewMockUserRepository()
	userRepo.FindByIDFunc = func(ctx context.Context, id uint) (*domain.User, error) {
		return &domain.User{ID: id}, nil
	}
	svc := NewManageService(manageRepo, userRepo, mocks.NewMockFacilityRepository())

	_, err := svc.Grant(context.Background(), 1, domain.CategoryClinic, []uint{404})
	if !errors.Is(err, domain.ErrFacilityNotFound) {
		t.Fatalf("error = %v, want ErrFacilityNotFound", err)
	}
}

func TestFacilityService_Delete_RevokesGrants(t *testing.T) {
	facilityRepo := mocks.NewMockFacilityRepository()
	manageRepo := mocks.NewMockManageRepository()
	svc := NewFacilityService(facilityRepo, manageRepo)

	var revoked *domain.OwnershipCheck
	manageRepo.DeleteByEntityFunc = func(ctx context.Context, category domain.ManageCategory, entityID uint) error {
		revoked = &domain.OwnershipCheck{Category: category, EntityID: entityID}
		return nil
	}

	if err := svc.Delete(context.Background(), domain.CategoryPharmacy, 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if revoked == nil || revoked.Category != domain.CategoryPharmacy || revoked.EntityID != 3 {
		t.Errorf("revoked = %+v, want grants for pharmacy 3", revoked)
	}
}

func TestFacilityService_Delete_NotFound(t *testing.T) {
	facilityRepo := mocks.NewMockFacilityRepository()
	facilityRepo.SoftDeleteFunc = func(ctx context.Context, category domain.ManageCategory, id uint) error {
		return domain.ErrFacilityNotFound
	}
	manageRepo := mocks.NewMockManageRepository()

	revoked := false
	manageRepo.DeleteByEntityFunc = func(ctx context.Context, category domain.ManageCategory, entityID uint) error {
		revoked = true
		return nil
	}
	svc := NewFacilityService(facilityRepo, manageRepo)

	err := svc.Delete(context.Background(), domain.CategoryPharmacy, 404)
	if !errors.Is(err, domain.ErrFacilityNotFound) {
		t.Fatalf("error = %v, want ErrFacilityNotFound", err)
	}
	if revoked {
		t.Error("grants must not be touched when the delete itself fails")
	}
}
