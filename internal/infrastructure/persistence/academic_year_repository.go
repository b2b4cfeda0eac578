package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/schoolerp/backend/internal/domain/school"
	"github.com/schoolerp/backend/internal/domain/shared"
	"github.com/schoolerp/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormAcademicYearRepository implements AcademicYearRepository using GORM
type GormAcademicYearRepository struct {
	db *gorm.DB
}

// NewGormAcademicYearRepository creates a new GormAcademicYearRepository
func NewGormAcademicYearRepository(db *gorm.DB) *GormAcademicYearRepository {
	return &GormAcademicYearRepository{db: db}
}

// FindByID finds an academic year by its ID
func (r *GormAcademicYearRepository) FindByID(ctx context.Context, id uuid.UUID) (*school.AcademicYear, error) {
	var model models.AcademicYearModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForSchool finds an academic year by ID scoped to a school
func (r *GormAcademicYearRepository) FindByIDForSchool(ctx context.Context, schoolID, id uuid.UUID) (*school.AcademicYear, error) {
	var model models.AcademicYearModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Where("school_id = ? AND id = ?", schoolID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindActiveForSchool finds the school's currently active academic year
func (r *GormAcademicYearRepository) FindActiveForSchool(ctx context.Context, schoolID uuid.UUID) (*school.AcademicYear, error) {
	var model models.AcademicYearModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Where("school_id = ? AND is_active = ?", schoolID, true).
		Order("start_date DESC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save persists an academic year
func (r *GormAcademicYearRepository) Save(ctx context.Context, year *school.AcademicYear) error {
	var model models.AcademicYearModel
	model.FromDomain(year)
	return dbFromContext(ctx, r.db).WithContext(ctx).Save(&model).Error
}
