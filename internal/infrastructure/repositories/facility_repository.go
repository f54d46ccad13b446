package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/you/meddirsvc/domain"
)

// FacilityRepositoryImpl implements domain.FacilityRepository using GORM
type FacilityRepositoryImpl struct {
	db *gorm.DB
}

// DBFacility represents the database model for a directory entry. Hospitals,
// clinics and pharmacies share one column shape, discriminated by category.
type DBFacility struct {
	ID            uint   `gorm:"primaryKey"`
	Category      string `gorm:"index:idx_facility_cat;size:16"`
	Title         string `gorm:"index;size:255"`
	County        string `gorm:"index;size:64"`
	District      string `gorm:"index;size:64"`
	Address       string `gorm:"size:512"`
	Phone         string `gorm:"size:32"`
	Excerpt       string `gorm:"size:1024"`
	Keywords      string `gorm:"size:512"`
	Partner       bool   `gorm:"index"`
	GooglePlaceID string `gorm:"size:128"`
	Lat           float64
	Lng           float64
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     gorm.DeletedAt `gorm:"index"`
}

// TableName returns the table name for GORM
func (DBFacility) TableName() string {
	return "facilities"
}

// NewFacilityRepository creates a new facility repository
func NewFacilityRepository(db *gorm.DB) domain.FacilityRepository {
	return &FacilityRepositoryImpl{db: db}
}

// Create implements domain.FacilityRepository
func (r *FacilityRepositoryImpl) Create(ctx context.Context, facility *domain.Facility) error {
	dbFacility := r.domainToDB(facility)
	if err := r.db.WithContext(ctx).Create(dbFacility).Error; err != nil {
		return err
	}
	facility.ID = dbFacility.ID
	facility.CreatedAt = dbFacility.CreatedAt
	facility.UpdatedAt = dbFacility.UpdatedAt
	return nil
}

// FindByID implements domain.FacilityRepository
func (r *FacilityRepositoryImpl) FindByID(ctx context.Context, category domain.ManageCategory, id uint) (*domain.Facility, error) {
	var dbFacility DBFacility
	err := r.db.WithContext(ctx).
		Where("id = ? AND category = ?", id, category.String()).
		First(&dbFacility).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrFacilityNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbFacility), nil
}

// List implements domain.FacilityRepository
func (r *FacilityRepositoryImpl) List(ctx context.Context, filter domain.FacilityFilter) ([]*domain.Facility, int64, error) {
	q := r.db.WithContext(ctx).Model(&DBFacility{}).Where("category = ?", filter.Category.String())

	if filter.County != "" {
		q = q.Where("county = ?", filter.County)
	}
	if filter.District != "" {
		q = q.Where("district = ?", filter.District)
	}
	if filter.Keyword != "" {
		pattern := "%" + filter.Keyword + "%"
		q = q.Where("title LIKE ? OR keywords LIKE ?", pattern, pattern)
	}
	if filter.Partner != nil {
		q = q.Where("partner = ?", *filter.Partner)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}

	var rows []DBFacility
	err := q.Order("partner DESC, id ASC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	facilities := make([]*domain.Facility, 0, len(rows))
	for i := range rows {
		facilities = append(facilities, r.dbToDomain(&rows[i]))
	}
	return facilities, total, nil
}

// Update implements domain.FacilityRepository. Soft-deleted rows are never
// matched; a vanished target reports not-found.
func (r *FacilityRepositoryImpl) Update(ctx context.Context, facility *domain.Facility) error {
	dbFacility := r.domainToDB(facility)
	res := r.db.WithContext(ctx).
		Model(&DBFacility{}).
		Where("id = ? AND category = ?", facility.ID, facility.Category.String()).
		Updates(map[string]interface{}{
			"title":           dbFacility.Title,
			"county":          dbFacility.County,
			"district":        dbFacility.District,
			"address":         dbFacility.Address,
			"phone":           dbFacility.Phone,
			"excerpt":         dbFacility.Excerpt,
			"keywords":        dbFacility.Keywords,
			"partner":         dbFacility.Partner,
			"google_place_id": dbFacility.GooglePlaceID,
			"lat":             dbFacility.Lat,
			"lng":             dbFacility.Lng,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrFacilityNotFound
	}
	return nil
}

// SoftDelete implements domain.FacilityRepository
func (r *FacilityRepositoryImpl) SoftDelete(ctx context.Context, category domain.ManageCategory, id uint) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND category = ?", id, category.String()).
		Delete(&DBFacility{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrFacilityNotFound
	}
	return nil
}

func (r *FacilityRepositoryImpl) domainToDB(facility *domain.Facility) *DBFacility {
	return &DBFacility{
		ID:            facility.ID,
		Category:      facility.Category.String(),
		Title:         facility.Title,
		County:        facility.County,
		District:      facility.District,
		Address:       facility.Address,
		Phone:         facility.Phone,
		Excerpt:       facility.Excerpt,
		Keywords:      facility.Keywords,
		Partner:       facility.Partner,
		GooglePlaceID: facility.GooglePlaceID,
		Lat:           facility.Lat,
		Lng:           facility.Lng,
	}
}

func (r *FacilityRepositoryImpl) dbToDomain(dbFacility *DBFacility) *domain.Facility {
	category, err := domain.ParseManageCategory(dbFacility.Category)
	if err != nil {
		category = domain.ManageCategory(dbFacility.Category)
	}
	return &domain.Facility{
		ID:            dbFacility.ID,
		Category:      category,
		Title:         dbFacility.Title,
		County:        dbFacility.County,
		District:      dbFacility.District,
		Address:       dbFacility.Address,
		Phone:         dbFacility.Phone,
		Excerpt:       dbFacility.Excerpt,
		Keywords:      dbFacility.Keywords,
		Partner:       dbFacility.Partner,
		GooglePlaceID: dbFacility.GooglePlaceID,
		Lat:           dbFacility.Lat,
		Lng:           dbFacility.Lng,
		CreatedAt:     dbFacility.CreatedAt,
		UpdatedAt:     dbFacility.UpdatedAt,
	}
}
