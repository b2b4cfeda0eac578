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

// GormGradeScaleRepository implements GradeScaleRepository using GORM
type GormGradeScaleRepository struct {
	db *gorm.DB
}

// NewGormGradeScaleRepository creates a new GormGradeScaleRepository
func NewGormGradeScaleRepository(db *gorm.DB) *GormGradeScaleRepository {
	return &GormGradeScaleRepository{db: db}
}

// FindActiveForSchool finds the school's currently active grade scale with its bands
func (r *GormGradeScaleRepository) FindActiveForSchool(ctx context.Context, schoolID uuid.UUID) (*school.GradeScale, error) {
	var model models.GradeScaleModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Preload("Bands", func(db *gorm.DB) *gorm.DB {
			return db.Order("min_percentage DESC")
		}).
		Where("school_id = ? AND is_active = ?", schoolID, true).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save persists a grade scale together with its bands
func (r *GormGradeScaleRepository) Save(ctx context.Context, scale *school.GradeScale) error {
	var model models.GradeScaleModel
	model.FromDomain(scale)
	return dbFromContext(ctx, r.db).WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		bands := model.Bands
		model.Bands = nil
		if err := tx.Save(&model).Error; err != nil {
			return err
		}
		if err := tx.Where("grade_scale_id = ?", model.ID).
			Delete(&models.GradeBandModel{}).Error; err != nil {
			return err
		}
		for i := range bands {
			if err := tx.Create(&bands[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
