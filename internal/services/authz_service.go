package services

import (
	"context"
	"fmt"

	"github.com/you/meddirsvc/domain"
)

// AuthzServiceImpl implements domain.AuthzService. It assumes the credential
// has already been validated and is not expired; absent credentials must be
// rejected before either check is reached.
type AuthzServiceImpl struct {
	manageRepo domain.ManageRepository
}

// NewAuthzService creates a new authorizer
func NewAuthzService(manageRepo domain.ManageRepository) domain.AuthzService {
	return &AuthzServiceImpl{manageRepo: manageRepo}
}

// RequireRole implements domain.AuthzService. Exact-or-higher comparison
// against the role total order.
func (s *AuthzServiceImpl) RequireRole(claims *domain.TokenClaims, min domain.Role) error {
	if claims == nil {
		return domain.ErrUnauthorized
	}
	if !claims.Role.AtLeast(min) {
		return domain.ErrInsufficientRole
	}
	return nil
}

// RequireOwnership implements domain.AuthzService. Admin passes
// unconditionally; everyone else needs a live management grant on the exact
// entity. The lookup is a single read and never mutates state.
func (s *AuthzServiceImpl) RequireOwnership(ctx context.Context, claims *domain.TokenClaims, check domain.OwnershipCheck) error {
	if claims == nil {
		return domain.ErrUnauthorized
	}
	if claims.Role == domain.RoleAdmin {
		return nil
	}

	granted, err := s.manageRepo.Exists(ctx, claims.UserID, check.Category, check.EntityID)
	if err != nil {
		return fmt.Errorf("ownership lookup failed: %w", err)
	}
	if !granted {
		return domain.ErrInsufficientRole
	}
	return nil
}
