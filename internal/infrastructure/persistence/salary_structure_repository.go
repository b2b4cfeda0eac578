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

// GormSalaryStructureRepository implements SalaryStructureRepository using GORM
type GormSalaryStructureRepository struct {
	db *gorm.DB
}

// NewGormSalaryStructureRepository creates a new GormSalaryStructureRepository
func NewGormSalaryStructureRepository(db *gorm.DB) *GormSalaryStructureRepository {
	return &GormSalaryStructureRepository{db: db}
}

// FindByID finds a salary structure by its ID with its items
func (r *GormSalaryStructureRepository) FindByID(ctx context.Context, id uuid.UUID) (*payroll.SalaryStructure, error) {
	var model models.SalaryStructureModel
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

// FindActiveForTeacher finds a teacher's currently active salary structure
func (r *GormSalaryStructureRepository) FindActiveForTeacher(ctx context.Context, schoolID, teacherID uuid.UUID) (*payroll.SalaryStructure, error) {
	var model models.SalaryStructureModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Preload("Items").
		Where("school_id = ? AND teacher_id = ? AND is_active = ?", schoolID, teacherID, true).
		Order("effective_from DESC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save persists a salary structure together with its items
func (r *GormSalaryStructureRepository) Save(ctx context.Context, ss *payroll.SalaryStructure) error {
	var model models.SalaryStructureModel
	model.FromDomain(ss)
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
		query := tx.Where("salary_structure_id = ?", model.ID)
		if len(currentItemIDs) > 0 {
			query = query.Where("id NOT IN ?", currentItemIDs)
		}
		if err := query.Delete(&models.SalaryStructureItemModel{}).Error; err != nil {
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
