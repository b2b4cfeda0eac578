package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/schoolerp/backend/internal/domain/exams"
	"github.com/schoolerp/backend/internal/domain/shared"
	"github.com/schoolerp/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormExamRepository implements ExamRepository using GORM
type GormExamRepository struct {
	db *gorm.DB
}

// NewGormExamRepository creates a new GormExamRepository
func NewGormExamRepository(db *gorm.DB) *GormExamRepository {
	return &GormExamRepository{db: db}
}

// FindByID finds an exam by its ID with its subjects
func (r *GormExamRepository) FindByID(ctx context.Context, id uuid.UUID) (*exams.Exam, error) {
	var model models.ExamModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Preload("Subjects").
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForSchool finds an exam by ID scoped to a school
func (r *GormExamRepository) FindByIDForSchool(ctx context.Context, schoolID, id uuid.UUID) (*exams.Exam, error) {
	var model models.ExamModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Preload("Subjects").
		Where("school_id = ? AND id = ?", schoolID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByClassAndYear finds all exams of a class in one academic year
func (r *GormExamRepository) FindByClassAndYear(ctx context.Context, schoolID, classID, academicYearID uuid.UUID) ([]exams.Exam, error) {
	var examModels []models.ExamModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Preload("Subjects").
		Where("school_id = ? AND class_id = ? AND academic_year_id = ?", schoolID, classID, academicYearID).
		Order("created_at ASC").
		Find(&examModels).Error; err != nil {
		return nil, err
	}
	result := make([]exams.Exam, len(examModels))
	for i, model := range examModels {
		result[i] = *model.ToDomain()
	}
	return result, nil
}

// Save persists an exam together with its subjects
func (r *GormExamRepository) Save(ctx context.Context, e *exams.Exam) error {
	var model models.ExamModel
	model.FromDomain(e)
	return dbFromContext(ctx, r.db).WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		subjects := model.Subjects
		model.Subjects = nil
		if err := tx.Save(&model).Error; err != nil {
			return err
		}

		currentSubjectIDs := make([]uuid.UUID, len(subjects))
		for i, s := range subjects {
			currentSubjectIDs[i] = s.ID
		}
		query := tx.Where("exam_id = ?", model.ID)
		if len(currentSubjectIDs) > 0 {
			query = query.Where("id NOT IN ?", currentSubjectIDs)
		}
		if err := query.Delete(&models.ExamSubjectModel{}).Error; err != nil {
			return err
		}

		for i := range subjects {
			if err := tx.Save(&subjects[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
