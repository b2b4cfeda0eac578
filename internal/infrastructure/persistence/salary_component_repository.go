package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/schoolerp/backend/internal/domain/payroll"
	"github.com/schoolerp/backend/internal/domain/shared"
	"github.com/schoolerp/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormSalaryComponentRepository implements SalaryComponentRepository using GORM
type GormSalaryComponentRepository struct {
	db *gorm.DB
}

// NewGormSalaryComponentRepository creates a new GormSalaryComponentRepository
func NewGormSalaryComponentRepository(db *gorm.DB) *GormSalaryComponentRepository {
	return &GormSalaryComponentRepository{db: db}
}

// FindByID finds a salary component by its ID
func (r *GormSalaryComponentRepository) FindByID(ctx context.Context, id uuid.UUID) (*payroll.SalaryComponent, error) {
	var model models.SalaryComponentModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindActiveForSchool finds all active salary components of a school
func (r *GormSalaryComponentRepository) FindActiveForSchool(ctx context.Context, schoolID uuid.UUID) ([]payroll.SalaryComponent, error) {
	var componentModels []models.SalaryComponentModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Where("school_id = ? AND is_active = ?", schoolID, true).
		Order("name ASC").
		Find(&componentModels).Error; err != nil {
		return nil, err
	}
	components := make([]payroll.SalaryComponent, len(componentModels))
	for i, model := range componentModels {
		components[i] = *model.ToDomain()
	}
	return components, nil
}

// Save persists a salary component
func (r *GormSalaryComponentRepository) Save(ctx context.Context, c *payroll.SalaryComponent) error {
	var model models.SalaryComponentModel
	model.FromDomain(c)
	return dbFromContext(ctx, r.db).WithContext(ctx).Save(&model).Error
}
