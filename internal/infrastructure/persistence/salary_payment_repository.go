package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/schoolerp/backend/internal/domain/payroll"
	"github.com/schoolerp/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormSalaryPaymentRepository implements SalaryPaymentRepository using GORM
type GormSalaryPaymentRepository struct {
	db *gorm.DB
}

// NewGormSalaryPaymentRepository creates a new GormSalaryPaymentRepository
func NewGormSalaryPaymentRepository(db *gorm.DB) *GormSalaryPaymentRepository {
	return &GormSalaryPaymentRepository{db: db}
}

// FindBySalary finds all disbursements recorded against one processed salary
func (r *GormSalaryPaymentRepository) FindBySalary(ctx context.Context, schoolID, teacherSalaryID uuid.UUID) ([]payroll.SalaryPayment, error) {
	var paymentModels []models.SalaryPaymentModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Where("school_id = ? AND teacher_salary_id = ?", schoolID, teacherSalaryID).
		Order("payment_date ASC, created_at ASC").
		Find(&paymentModels).Error; err != nil {
		return nil, err
	}
	payments := make([]payroll.SalaryPayment, len(paymentModels))
	for i, model := range paymentModels {
		payments[i] = *model.ToDomain()
	}
	return payments, nil
}

// Save persists a salary disbursement
func (r *GormSalaryPaymentRepository) Save(ctx context.Context, p *payroll.SalaryPayment) error {
	var model models.SalaryPaymentModel
	model.FromDomain(p)
	return dbFromContext(ctx, r.db).WithContext(ctx).Save(&model).Error
}
