package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/schoolerp/backend/internal/domain/fees"
	"github.com/schoolerp/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormFeeDiscountRepository implements FeeDiscountRepository using GORM
type GormFeeDiscountRepository struct {
	db *gorm.DB
}

// NewGormFeeDiscountRepository creates a new GormFeeDiscountRepository
func NewGormFeeDiscountRepository(db *gorm.DB) *GormFeeDiscountRepository {
	return &GormFeeDiscountRepository{db: db}
}

// FindActiveForStudentAndYear finds a student's active discounts for one
// academic year
func (r *GormFeeDiscountRepository) FindActiveForStudentAndYear(ctx context.Context, schoolID, studentID, academicYearID uuid.UUID) ([]fees.FeeDiscount, error) {
	var discountModels []models.FeeDiscountModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Where("school_id = ? AND student_id = ? AND academic_year_id = ? AND is_active = ?",
			schoolID, studentID, academicYearID, true).
		Order("name ASC").
		Find(&discountModels).Error; err != nil {
		return nil, err
	}
	discounts := make([]fees.FeeDiscount, len(discountModels))
	for i, model := range discountModels {
		discounts[i] = *model.ToDomain()
	}
	return discounts, nil
}

// Save persists a fee discount
func (r *GormFeeDiscountRepository) Save(ctx context.Context, d *fees.FeeDiscount) error {
	var model models.FeeDiscountModel
	model.FromDomain(d)
	return dbFromContext(ctx, r.db).WithContext(ctx).Save(&model).Error
}
