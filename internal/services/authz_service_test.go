package services

import (
	"context"
	"errors"
	"testing"

	"github.com/you/meddirsvc/domain"
	"github.com/you/meddirsvc/internal/mocks"
)

func claimsWithRole(role domain.Role) *domain.TokenClaims {
	return &domain.TokenClaims{UserID: 42, Role: role, SessionID: "sess-1"}
}

func TestAuthzService_RequireRole(t *testing.T) {
	svc := NewAuthzService(mocks.NewMockManageRepository())

	ordered := []domain.Role{domain.RoleGuest, domain.RoleUser, domain.RoleManager, domain.RoleAdmin}

	for i, have := range ordered {
		for j, need := range ordered {
			err := svc.RequireRole(claimsWithRole(have), need)
			if j <= i && err != nil {
				t.Errorf("role %s checked against %s: unexpected deny: %v", have, need, err)
			}
			if j > i && !errors.Is(err, domain.ErrInsufficientRole) {
				t.Errorf("role %s checked against %s: error = %v, want ErrInsufficientRole", have, need, err)
			}
		}
	}
}

func TestAuthzService_RequireRole_NoClaims(t *testing.T) {
	svc := NewAuthzService(mocks.NewMockManageRepository())

	if err := svc.RequireRole(nil, domain.RoleGuest); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("error = %v, want ErrUnauthorized for absent credential", err)
	}
}

func TestAuthzService_RequireOwnership(t *testing.T) {
	check := domain.OwnershipCheck{Category: domain.CategoryHospital, EntityID: 7}

	tests := []struct {
		name          string
		claims        *domain.TokenClaims
		setupRepo     func(*mocks.MockManageRepository)
		expectedError error
	}{
		{
			name:   "admin passes with zero grants",
			claims: claimsWithRole(domain.RoleAdmin),
			setupRepo: func(repo *mocks.MockManageRepository) {
				repo.ExistsFunc = func(ctx context.Context, userID uint, category domain.ManageCategory, entityID uint) (bool, error) {
					t.Fatal("admin must not trigger a grant lookup")
					return false, nil
				}
			},
			expectedError: nil,
		},
		{
			name:   "manager with matching grant",
			claims: claimsWithRole(domain.RoleManager),
			setupRepo: func(repo *mocks.MockManageRepository) {
				repo.ExistsFunc = func(ctx context.Context, userID uint, category domain.ManageCategory, entityID uint) (bool, error) {
					if userID != 42 || category != domain.CategoryHospital || entityID != 7 {
						t.Errorf("lookup = (%d, %s, %d), want (42, hospital, 7)", userID, category, entityID)
					}
					return true, nil
				}
			},
			expectedError: nil,
		},
		{
			name:   "manager without grant",
			claims: claimsWithRole(domain.RoleManager),
			setupRepo: func(repo *mocks.MockManageRepository) {
				repo.ExistsFunc = func(ctx context.Context, userID uint, category domain.ManageCategory, entityID uint) (bool, error) {
					return false, nil
				}
			},
			expectedError: domain.ErrInsufficientRole,
		},
		{
			name:          "absent credential",
			claims:        nil,
			setupRepo:     func(repo *mocks.MockManageRepository) {},
			expectedError: domain.ErrUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := mocks.NewMockManageRepository()
			tt.setupRepo(repo)
			svc := NewAuthzService(repo)

			err := svc.RequireOwnership(context.Background(), tt.claims, check)
			if tt.expectedError == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.expectedError) {
				t.Fatalf("error = %v, want %v", err, tt.expectedError)
			}
		})
	}
}

func TestAuthzService_RequireOwnership_StoreFailure(t *testing.T) {
	repo := mocks.NewMockManageRepository()
	storeErr := errors.New("connection reset")
	repo.ExistsFunc = func(ctx context.Context, userID uint, category domain.ManageCategory, entityID uint) (bool, error) {
		return false, storeErr
	}
	svc := NewAuthzService(repo)

	err := svc.RequireOwnership(context.Background(), claimsWithRole(domain.RoleManager), domain.OwnershipCheck{Category: domain.CategoryPharmacy, EntityID: 1})
	if !errors.Is(err, storeErr) {
		t.Fatalf("error = %v, want wrapped store error", err)
	}
	if errors.Is(err, domain.ErrInsufficientRole) {
		t.Fatal("store failure must not look like a permission denial")
	}
}
