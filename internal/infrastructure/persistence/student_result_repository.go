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

// GormStudentResultRepository implements StudentResultRepository using GORM
type GormStudentResultRepository struct {
	db *gorm.DB
}

// NewGormStudentResultRepository creates a new GormStudentResultRepository
func NewGormStudentResultRepository(db *gorm.DB) *GormStudentResultRepository {
	return &GormStudentResultRepository{db: db}
}

// FindByExam finds all computed results of an exam ordered by rank
func (r *GormStudentResultRepository) FindByExam(ctx context.Context, schoolID, examID uuid.UUID) ([]exams.StudentResult, error) {
	var resultModels []models.StudentResultModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Where("school_id = ? AND exam_id = ?", schoolID, examID).
		Order("rank ASC").
		Find(&resultModels).Error; err != nil {
		return nil, err
	}
	results := make([]exams.StudentResult, len(resultModels))
	for i, model := range resultModels {
		results[i] = *model.ToDomain()
	}
	return results, nil
}

// FindByExamAndStudent finds one student's computed result on an exam
func (r *GormStudentResultRepository) FindByExamAndStudent(ctx context.Context, schoolID, examID, studentID uuid.UUID) (*exams.StudentResult, error) {
	var model models.StudentResultModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Where("school_id = ? AND exam_id = ? AND student_id = ?", schoolID, examID, studentID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// ReplaceForExam atomically swaps the full result set of an exam
func (r *GormStudentResultRepository) ReplaceForExam(ctx context.Context, schoolID, examID uuid.UUID, results []exams.StudentResult) error {
	return dbFromContext(ctx, r.db).WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("school_id = ? AND exam_id = ?", schoolID, examID).
			Delete(&models.StudentResultModel{}).Error; err != nil {
			return err
		}
		for i := range results {
			var model models.StudentResultModel
			model.FromDomain(&results[i])
			if err := tx.Create(&model).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
