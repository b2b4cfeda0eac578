package fees

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/schoolerp/backend/internal/domain/shared"
)

// FeeStructureRepository defines persistence for fee structures
type FeeStructureRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*FeeStructure, error)
	FindByIDForSchool(ctx context.Context, schoolID, id uuid.UUID) (*FeeStructure, error)
	FindByClassAndYear(ctx context.Context, schoolID, classID, academicYearID uuid.UUID) (*FeeStructure, error)
	Save(ctx context.Context, fs *FeeStructure) error
}

// FeeDiscountRepository defines persistence for fee discounts
type FeeDiscountRepository interface {
	FindActiveForStudentAndYear(ctx context.Context, schoolID, studentID, academicYearID uuid.UUID) ([]FeeDiscount, error)
	Save(ctx context.Context, d *FeeDiscount) error
}

// StudentFeeRepository defines persistence for student fee ledgers. Save
// persists the aggregate together with its detail rows.
type StudentFeeRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*StudentFee, error)
	FindByIDForSchool(ctx context.Context, schoolID, id uuid.UUID) (*StudentFee, error)
	FindByStudentAndYear(ctx context.Context, schoolID, studentID, academicYearID uuid.UUID) (*StudentFee, error)
	FindByStudent(ctx context.Context, schoolID, studentID uuid.UUID) ([]StudentFee, error)
	FindWithOverdueDetails(ctx context.Context, schoolID uuid.UUID, asOf time.Time, filter shared.Filter) ([]StudentFee, error)
	Save(ctx context.Context, sf *StudentFee) error
}

// FeePaymentRepository defines persistence for payments. NextReceiptSequence
// must run inside the same transaction as Save so concurrent payments in one
// school and month cannot draw the same number.
type FeePaymentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*FeePayment, error)
	FindByReceiptNumber(ctx context.Context, schoolID uuid.UUID, receiptNumber string) (*FeePayment, error)
	FindByStudentFee(ctx context.Context, schoolID, studentFeeID uuid.UUID) ([]FeePayment, error)
	NextReceiptSequence(ctx context.Context, schoolID uuid.UUID, year int, month time.Month) (int, error)
	Save(ctx context.Context, p *FeePayment) error
}
