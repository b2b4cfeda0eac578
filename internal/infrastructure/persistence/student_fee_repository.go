package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/schoolerp/backend/internal/domain/fees"
	"github.com/schoolerp/backend/internal/domain/shared"
	"github.com/schoolerp/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormStudentFeeRepository implements StudentFeeRepository using GORM
type GormStudentFeeRepository struct {
	db *gorm.DB
}

// NewGormStudentFeeRepository creates a new GormStudentFeeRepository
func NewGormStudentFeeRepository(db *gorm.DB) *GormStudentFeeRepository {
	return &GormStudentFeeRepository{db: db}
}

func (r *GormStudentFeeRepository) preloadDetails(db *gorm.DB) *gorm.DB {
	return db.Preload("Details", func(db *gorm.DB) *gorm.DB {
		return db.Order("year ASC, month ASC")
	})
}

// FindByID finds a student fee by its ID with its schedule details
func (r *GormStudentFeeRepository) FindByID(ctx context.Context, id uuid.UUID) (*fees.StudentFee, error) {
	var model models.StudentFeeModel
	if err := r.preloadDetails(dbFromContext(ctx, r.db).WithContext(ctx)).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForSchool finds a student fee by ID scoped to a school
func (r *GormStudentFeeRepository) FindByIDForSchool(ctx context.Context, schoolID, id uuid.UUID) (*fees.StudentFee, error) {
	var model models.StudentFeeModel
	if err := r.preloadDetails(dbFromContext(ctx, r.db).WithContext(ctx)).
		Where("school_id = ? AND id = ?", schoolID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByStudentAndYear finds a student's fee ledger for one academic year
func (r *GormStudentFeeRepository) FindByStudentAndYear(ctx context.Context, schoolID, studentID, academicYearID uuid.UUID) (*fees.StudentFee, error) {
	var model models.StudentFeeModel
	if err := r.preloadDetails(dbFromContext(ctx, r.db).WithContext(ctx)).
		Where("school_id = ? AND student_id = ? AND academic_year_id = ?", schoolID, studentID, academicYearID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByStudent finds all fee ledgers of a student across academic years
func (r *GormStudentFeeRepository) FindByStudent(ctx context.Context, schoolID, studentID uuid.UUID) ([]fees.StudentFee, error) {
	var feeModels []models.StudentFeeModel
	if err := r.preloadDetails(dbFromContext(ctx, r.db).WithContext(ctx)).
		Where("school_id = ? AND student_id = ?", schoolID, studentID).
		Order("created_at DESC").
		Find(&feeModels).Error; err != nil {
		return nil, err
	}
	studentFees := make([]fees.StudentFee, len(feeModels))
	for i, model := range feeModels {
		studentFees[i] = *model.ToDomain()
	}
	return studentFees, nil
}

// FindWithOverdueDetails finds fee ledgers carrying at least one unpaid month
// past its due date as of the given time
func (r *GormStudentFeeRepository) FindWithOverdueDetails(ctx context.Context, schoolID uuid.UUID, asOf time.Time, filter shared.Filter) ([]fees.StudentFee, error) {
	var ids []uuid.UUID
	query := dbFromContext(ctx, r.db).WithContext(ctx).
		Model(&models.StudentFeeDetailModel{}).
		Distinct("student_fee_details.student_fee_id").
		Joins("JOIN student_fees ON student_fees.id = student_fee_details.student_fee_id").
		Where("student_fees.school_id = ?", schoolID).
		Where("student_fees.status NOT IN ?", []fees.StudentFeeStatus{fees.StudentFeePaid, fees.StudentFeeWaived}).
		Where("student_fee_details.status <> ?", fees.DetailPaid).
		Where("student_fee_details.due_date < ?", asOf)
	if filter.PageSize > 0 {
		query = query.Limit(filter.PageSize).Offset((filter.Page - 1) * filter.PageSize)
	}
	if err := query.Pluck("student_fee_details.student_fee_id", &ids).Error; err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	var feeModels []models.StudentFeeModel
	if err := r.preloadDetails(dbFromContext(ctx, r.db).WithContext(ctx)).
		Where("id IN ?", ids).
		Find(&feeModels).Error; err != nil {
		return nil, err
	}
	studentFees := make([]fees.StudentFee, len(feeModels))
	for i, model := range feeModels {
		studentFees[i] = *model.ToDomain()
	}
	return studentFees, nil
}

// Save persists a student fee together with its schedule details
func (r *GormStudentFeeRepository) Save(ctx context.Context, sf *fees.StudentFee) error {
	var model models.StudentFeeModel
	model.FromDomain(sf)
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
		query := tx.Where("student_fee_id = ?", model.ID)
		if len(currentDetailIDs) > 0 {
			query = query.Where("id NOT IN ?", currentDetailIDs)
		}
		if err := query.Delete(&models.StudentFeeDetailModel{}).Error; err != nil {
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
