package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/schoolerp/backend/internal/domain/fees"
	"github.com/schoolerp/backend/internal/domain/shared"
	"github.com/schoolerp/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormFeeStructureRepository implements FeeStructureRepository using GORM
type GormFeeStructureRepository struct {
	db *gorm.DB
}

// NewGormFeeStructureRepository creates a new GormFeeStructureRepository
func NewGormFeeStructureRepository(db *gorm.DB) *GormFeeStructureRepository {
	return &GormFeeStructureRepository{db: db}
}

// FindByID finds a fee structure by its ID with its items
func (r *GormFeeStructureRepository) FindByID(ctx context.Context, id uuid.UUID) (*fees.FeeStructure, error) {
	var model models.FeeStructureModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Preload("Items").
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForSchool finds a fee structure by ID scoped to a school
func (r *GormFeeStructureRepository) FindByIDForSchool(ctx context.Context, schoolID, id uuid.UUID) (*fees.FeeStructure, error) {
	var model models.FeeStructureModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Preload("Items").
		Where("school_id = ? AND id = ?", schoolID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByClassAndYear finds the structure charged to a class in one academic year
func (r *GormFeeStructureRepository) FindByClassAndYear(ctx context.Context, schoolID, classID, academicYearID uuid.UUID) (*fees.FeeStructure, error) {
	var model models.FeeStructureModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Preload("Items").
		Where("school_id = ? AND class_id = ? AND academic_year_id = ?", schoolID, classID, academicYearID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save persists a fee structure together with its items
func (r *GormFeeStructureRepository) Save(ctx context.Context, fs *fees.FeeStructure) error {
	var model models.FeeStructureModel
	model.FromDomain(fs)
	return dbFromContext(ctx, r.db).WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		items := model.Items
		model.Items = nil
		if err := tx.Save(&model).Error; err != nil {
			return err
		}

		currentItemIDs := make([]uuid.UUID, len(items))
		for i, item := range items {
			currentItemIDs[i] = item.ID
		}
		query := tx.Where("fee_structure_id = ?", model.ID)
		if len(currentItemIDs) > 0 {
			query = query.Where("id NOT IN ?", currentItemIDs)
		}
		if err := query.Delete(&models.FeeStructureItemModel{}).Error; err != nil {
			return err
		}

		for i := range items {
			if err := tx.Save(&items[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
