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

// GormFeePaymentRepository implements FeePaymentRepository using GORM
type GormFeePaymentRepository struct {
	db *gorm.DB
}

// NewGormFeePaymentRepository creates a new GormFeePaymentRepository
func NewGormFeePaymentRepository(db *gorm.DB) *GormFeePaymentRepository {
	return &GormFeePaymentRepository{db: db}
}

// FindByID finds a payment by its ID
func (r *GormFeePaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*fees.FeePayment, error) {
	var model models.FeePaymentModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByReceiptNumber finds a payment by its receipt number within a school
func (r *GormFeePaymentRepository) FindByReceiptNumber(ctx context.Context, schoolID uuid.UUID, receiptNumber string) (*fees.FeePayment, error) {
	var model models.FeePaymentModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Where("school_id = ? AND receipt_number = ?", schoolID, receiptNumber).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByStudentFee finds all payments recorded against one student fee
func (r *GormFeePaymentRepository) FindByStudentFee(ctx context.Context, schoolID, studentFeeID uuid.UUID) ([]fees.FeePayment, error) {
	var paymentModels []models.FeePaymentModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Where("school_id = ? AND student_fee_id = ?", schoolID, studentFeeID).
		Order("payment_date ASC, created_at ASC").
		Find(&paymentModels).Error; err != nil {
		return nil, err
	}
	payments := make([]fees.FeePayment, len(paymentModels))
	for i, model := range paymentModels {
		payments[i] = *model.ToDomain()
	}
	return payments, nil
}

// NextReceiptSequence returns the next receipt sequence for a school and month.
// Payments are never deleted, so counting the month's rows is monotonic. The
// unique index on receipt_number rejects the losing side of a rare race; Save
// reports that as ErrAlreadyExists so the caller can redraw and retry.
func (r *GormFeePaymentRepository) NextReceiptSequence(ctx context.Context, schoolID uuid.UUID, year int, month time.Month) (int, error) {
	monthStart := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0)

	var count int64
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Model(&models.FeePaymentModel{}).
		Where("school_id = ? AND payment_date >= ? AND payment_date < ?", schoolID, monthStart, monthEnd).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count) + 1, nil
}

// Save persists a payment. A receipt number collision maps to ErrAlreadyExists.
func (r *GormFeePaymentRepository) Save(ctx context.Context, p *fees.FeePayment) error {
	var model models.FeePaymentModel
	model.FromDomain(p)
	if err := dbFromContext(ctx, r.db).WithContext(ctx).Save(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}
