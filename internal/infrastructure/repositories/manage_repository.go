package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/you/meddirsvc/domain"
)

// ManageRepositoryImpl implements domain.ManageRepository using GORM
type ManageRepositoryImpl struct {
	db *gorm.DB
}

// DBManageGrant represents the database model for a management grant.
type DBManageGrant struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"index:idx_grant_lookup;index:idx_grant_user"`
	Category  string `gorm:"index:idx_grant_lookup;size:16"`
	EntityID  uint   `gorm:"index:idx_grant_lookup"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// TableName returns the table name for GORM
func (DBManageGrant) TableName() string {
	return "manage_grants"
}

// NewManageRepository creates a new management grant repository
func NewManageRepository(db *gorm.DB) domain.ManageRepository {
	return &ManageRepositoryImpl{db: db}
}

// Create implements domain.ManageRepository
func (r *ManageRepositoryImpl) Create(ctx context.Context, grant *domain.ManageGrant) error {
	dbGrant := &DBManageGrant{
		UserID:   grant.UserID,
		Category: grant.Category.String(),
		EntityID: grant.EntityID,
	}
	if err := r.db.WithContext(ctx).Create(dbGrant).Error; err != nil {
		return err
	}
	grant.ID = dbGrant.ID
	grant.CreatedAt = dbGrant.CreatedAt
	grant.UpdatedAt = dbGrant.UpdatedAt
	return nil
}

// Exists implements domain.ManageRepository. One indexed read; revoked
// (soft-deleted) grants never match.
func (r *ManageRepositoryImpl) Exists(ctx context.Context, userID uint, category domain.ManageCategory, entityID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&DBManageGrant{}).
		Where("user_id = ? AND category = ? AND entity_id = ?", userID, category.String(), entityID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListByUser implements domain.ManageRepository
func (r *ManageRepositoryImpl) ListByUser(ctx context.Context, userID uint) ([]*domain.ManageGrant, error) {
	var rows []DBManageGrant
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	grants := make([]*domain.ManageGrant, 0, len(rows))
	for i := range rows {
		grants = append(grants, r.dbToDomain(&rows[i]))
	}
	return grants, nil
}

// Delete implements domain.ManageRepository
func (r *ManageRepositoryImpl) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&DBManageGrant{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrGrantNotFound
	}
	return nil
}

// DeleteByEntity implements domain.ManageRepository. Used when a facility is
// soft-deleted so its grants die with it.
func (r *ManageRepositoryImpl) DeleteByEntity(ctx context.Context, category domain.ManageCategory, entityID uint) error {
	err := r.db.WithContext(ctx).
		Where("category = ? AND entity_id = ?", category.String(), entityID).
		Delete(&DBManageGrant{}).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return nil
}

func (r *ManageRepositoryImpl) dbToDomain(dbGrant *DBManageGrant) *domain.ManageGrant {
	category, err := domain.ParseManageCategory(dbGrant.Category)
	if err != nil {
		category = domain.ManageCategory(dbGrant.Category)
	}
	return &domain.ManageGrant{
		ID:        dbGrant.ID,
		UserID:    dbGrant.UserID,
		Category:  category,
		EntityID:  dbGrant.EntityID,
		CreatedAt: dbGrant.CreatedAt,
		UpdatedAt: dbGrant.UpdatedAt,
	}
}
