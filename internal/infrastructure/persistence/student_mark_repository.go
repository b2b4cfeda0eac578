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

// GormStudentMarkRepository implements StudentMarkRepository using GORM
type GormStudentMarkRepository struct {
	db *gorm.DB
}

// NewGormStudentMarkRepository creates a new GormStudentMarkRepository
func NewGormStudentMarkRepository(db *gorm.DB) *GormStudentMarkRepository {
	return &GormStudentMarkRepository{db: db}
}

// FindByExam finds all marks entered on an exam
func (r *GormStudentMarkRepository) FindByExam(ctx context.Context, schoolID, examID uuid.UUID) ([]exams.StudentMark, error) {
	var markModels []models.StudentMarkModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Where("school_id = ? AND exam_id = ?", schoolID, examID).
		Order("created_at ASC").
		Find(&markModels).Error; err != nil {
		return nil, err
	}
	marks := make([]exams.StudentMark, len(markModels))
	for i, model := range markModels {
		marks[i] = *model.ToDomain()
	}
	return marks, nil
}

// FindByExamAndStudent finds one student's marks across an exam
func (r *GormStudentMarkRepository) FindByExamAndStudent(ctx context.Context, schoolID, examID, studentID uuid.UUID) ([]exams.StudentMark, error) {
	var markModels []models.StudentMarkModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Where("school_id = ? AND exam_id = ? AND student_id = ?", schoolID, examID, studentID).
		Order("created_at ASC").
		Find(&markModels).Error; err != nil {
		return nil, err
	}
	marks := make([]exams.StudentMark, len(markModels))
	for i, model := range markModels {
		marks[i] = *model.ToDomain()
	}
	return marks, nil
}

// FindBySubjectAndStudent finds the mark of one student on one exam paper
func (r *GormStudentMarkRepository) FindBySubjectAndStudent(ctx context.Context, schoolID, examSubjectID, studentID uuid.UUID) (*exams.StudentMark, error) {
	var model models.StudentMarkModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Where("school_id = ? AND exam_subject_id = ? AND student_id = ?", schoolID, examSubjectID, studentID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// CountBySubject counts the marks entered against one exam paper
func (r *GormStudentMarkRepository) CountBySubject(ctx context.Context, schoolID, examSubjectID uuid.UUID) (int64, error) {
	var count int64
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Model(&models.StudentMarkModel{}).
		Where("school_id = ? AND exam_subject_id = ?", schoolID, examSubjectID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save persists a mark
func (r *GormStudentMarkRepository) Save(ctx context.Context, m *exams.StudentMark) error {
	var model models.StudentMarkModel
	model.FromDomain(m)
	return dbFromContext(ctx, r.db).WithContext(ctx).Save(&model).Error
}
