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

// GormTeacherSalaryRepository implements TeacherSalaryRepository using GORM
type GormTeacherSalaryRepository struct {
	db *gorm.DB
}

// NewGormTeacherSalaryRepository creates a new GormTeacherSalaryRepository
func NewGormTeacherSalaryRepository(db *gorm.DB) *GormTeacherSalaryRepository {
	return &GormTeacherSalaryRepository{db: db}
}

// FindByID finds a processed salary by its ID with its detail rows
func (r *GormTeacherSalaryRepository) FindByID(ctx context.Context, id uuid.UUID) (*payroll.TeacherSalary, error) {
	var model models.TeacherSalaryModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Preload("Details").
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForSchool finds a processed salary by ID scoped to a school
func (r *GormTeacherSalaryRepository) FindByIDForSchool(ctx context.Context, schoolID, id uuid.UUID) (*payroll.TeacherSalary, error) {
	var model models.TeacherSalaryModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Preload("Details").
		Where("school_id = ? AND id = ?", schoolID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByTeacherAndMonth finds one teacher's processed salary for one month
func (r *GormTeacherSalaryRepository) FindByTeacherAndMonth(ctx context.Context, schoolID, teacherID uuid.UUID, month, year int) (*payroll.TeacherSalary, error) {
	var model models.TeacherSalaryModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Preload("Details").
		Where("school_id = ? AND teacher_id = ? AND month = ? AND year = ?", schoolID, teacherID, month, year).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByMonth finds all processed salaries of a school for one month
func (r *GormTeacherSalaryRepository) FindByMonth(ctx context.Context, schoolID uuid.UUID, month, year int) ([]payroll.TeacherSalary, error) {
	var salaryModels []models.TeacherSalaryModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Preload("Details").
		Where("school_id = ? AND month = ? AND year = ?", schoolID, month, year).
		Order("created_at ASC").
		Find(&salaryModels).Error; err != nil {
		return nil, err
	}
	salaries := make([]payroll.TeacherSalary, len(salaryModels))
	for i, model := range salaryModels {
		salaries[i] = *model.ToDomain()
	}
	return salaries, nil
}

// Save persists a processed salary together with its detail rows
func (r *GormTeacherSalaryRepository) Save(ctx context.Context, ts *payroll.TeacherSalary) error {
	var model models.TeacherSalaryModel
	model.FromDomain(ts)
	return dbFromContext(ctx, r.db).WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		details := model.Details
		model.Details = nil
		if err := tx.Save(&model).Error; err != nil {
			return err
		}

		currentDetailIDs := make([]uuid.UUID, len(details))
		for i, d := range details {
			currentDetailIDs[i] = d.ID
		}
		query := tx.Where("teacher_salary_id = ?", model.ID)
		if len(currentDetailIDs) > 0 {
			query = query.Where("id NOT IN ?", currentDetailIDs)
		}
		if err := query.Delete(&models.TeacherSalaryDetailModel{}).Error; err != nil {
			return err
		}

		for i := range details {
			if err := tx.Save(&details[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
