package fees

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	domainfees "github.com/schoolerp/backend/internal/domain/fees"
	"github.com/schoolerp/backend/internal/domain/school"
	"github.com/schoolerp/backend/internal/domain/shared"
	"github.com/schoolerp/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// FeeService handles fee structure setup, assignment and the payment ledger
type FeeService struct {
	structureRepo  domainfees.FeeStructureRepository
	discountRepo   domainfees.FeeDiscountRepository
	studentFeeRepo domainfees.StudentFeeRepository
	paymentRepo    domainfees.FeePaymentRepository
	schoolRepo     school.SchoolRepository
	yearRepo       school.AcademicYearRepository
	txManager      shared.TransactionManager
	events         shared.EventPublisher
	allocator      domainfees.AllocationStrategy
	clampDiscount  bool
	logger         *zap.Logger
}

// NewFeeService creates a new FeeService
func NewFeeService(
	structureRepo domainfees.FeeStructureRepository,
	discountRepo domainfees.FeeDiscountRepository,
	studentFeeRepo domainfees.StudentFeeRepository,
	paymentRepo domainfees.FeePaymentRepository,
	schoolRepo school.SchoolRepository,
	yearRepo school.AcademicYearRepository,
	txManager shared.TransactionManager,
	events shared.EventPublisher,
	clampDiscount bool,
	logger *zap.Logger,
) *FeeService {
	return &FeeService{
		structureRepo:  structureRepo,
		discountRepo:   discountRepo,
		studentFeeRepo: studentFeeRepo,
		paymentRepo:    paymentRepo,
		schoolRepo:     schoolRepo,
		yearRepo:       yearRepo,
		txManager:      txManager,
		events:         events,
		allocator:      domainfees.NewFIFOAllocationStrategy(),
		clampDiscount:  clampDiscount,
		logger:         logger,
	}
}

// CreateFeeStructureRequest represents a request to create a fee structure
type CreateFeeStructureRequest struct {
	SchoolID        uuid.UUID
	Name            string
	ClassID         uuid.UUID
	AcademicYearID  uuid.UUID
	DueDay          int
	Items           []domainfees.FeeStructureItem
	LateFeePercent  decimal.Decimal
	LateFeeFixed    decimal.Decimal
	GracePeriodDays int
}

// CreateFeeStructure creates the fee structure for a class and year
func (s *FeeService) CreateFeeStructure(ctx context.Context, req CreateFeeStructureRequest) (*domainfees.FeeStructure, error) {
	existing, err := s.structureRepo.FindByClassAndYear(ctx, req.SchoolID, req.ClassID, req.AcademicYearID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing structure: %w", err)
	}
	if existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A fee structure already exists for this class and year")
	}

	fs, err := domainfees.NewFeeStructure(req.SchoolID, req.Name, req.ClassID, req.AcademicYearID, req.DueDay, req.Items)
	if err != nil {
		return nil, err
	}
	if !req.LateFeePercent.IsZero() || !req.LateFeeFixed.IsZero() || req.GracePeriodDays > 0 {
		if err := fs.SetLateFeePolicy(req.LateFeePercent, req.LateFeeFixed, req.GracePeriodDays); err != nil {
			return nil, err
		}
	}
	if err := s.structureRepo.Save(ctx, fs); err != nil {
		return nil, fmt.Errorf("failed to save fee structure: %w", err)
	}
	return fs, nil
}

// CreateDiscountRequest represents a discount granted to one student for one
// academic year, optionally scoped to a single fee category.
type CreateDiscountRequest struct {
	SchoolID       uuid.UUID
	StudentID      uuid.UUID
	AcademicYearID uuid.UUID
	Name           string
	Type           domainfees.DiscountType
	Value          decimal.Decimal
	FeeCategoryID  *uuid.UUID
}

// CreateDiscount grants a discount to a student
func (s *FeeService) CreateDiscount(ctx context.Context, req CreateDiscountRequest) (*domainfees.FeeDiscount, error) {
	d, err := domainfees.NewFeeDiscount(req.SchoolID, req.StudentID, req.AcademicYearID, req.Name, req.Type, req.Value)
	if err != nil {
		return nil, err
	}
	if req.FeeCategoryID != nil {
		if err := d.ScopeToCategory(*req.FeeCategoryID); err != nil {
			return nil, err
		}
	}
	if err := s.discountRepo.Save(ctx, d); err != nil {
		return nil, fmt.Errorf("failed to save discount: %w", err)
	}
	return d, nil
}

// AssignFeeRequest represents a request to assign a fee structure to a student
type AssignFeeRequest struct {
	SchoolID       uuid.UUID
	StudentID      uuid.UUID
	FeeStructureID uuid.UUID
}

// AssignFee assigns a fee structure to a student and generates the monthly
// payment schedule for the academic year.
func (s *FeeService) AssignFee(ctx context.Context, req AssignFeeRequest) (*domainfees.StudentFee, error) {
	structure, err := s.structureRepo.FindByID(ctx, req.FeeStructureID)
	if err != nil {
		return nil, fmt.Errorf("failed to get fee structure: %w", err)
	}
	if structure.SchoolID != req.SchoolID {
		return nil, shared.ErrSchoolMismatch
	}

	existing, err := s.studentFeeRepo.FindByStudentAndYear(ctx, req.SchoolID, req.StudentID, structure.AcademicYearID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing assignment: %w", err)
	}
	if existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Student already has a fee assigned for this academic year")
	}

	year, err := s.yearRepo.FindByIDForSchool(ctx, req.SchoolID, structure.AcademicYearID)
	if err != nil {
		return nil, fmt.Errorf("failed to get academic year: %w", err)
	}

	all, err := s.discountRepo.FindActiveForStudentAndYear(ctx, req.SchoolID, req.StudentID, structure.AcademicYearID)
	if err != nil {
		return nil, fmt.Errorf("failed to get discounts: %w", err)
	}
	// A category-scoped discount only applies when the structure charges
	// that category.
	discounts := make([]domainfees.FeeDiscount, 0, len(all))
	for _, d := range all {
		if d.FeeCategoryID != nil && !structure.HasCategory(*d.FeeCategoryID) {
			continue
		}
		discounts = append(discounts, d)
	}

	sf, err := domainfees.NewStudentFee(req.SchoolID, req.StudentID, structure.ID, structure.AcademicYearID)
	if err != nil {
		return nil, err
	}
	if err := sf.GenerateSchedule(year.StartDate, year.EndDate, structure.MonthlyTotal(), discounts, structure.DueDay, s.clampDiscount); err != nil {
		return nil, err
	}
	if structure.HasNonMonthlyItems() {
		s.logger.Warn("fee structure has non-monthly items excluded from the schedule",
			zap.String("fee_structure_id", structure.ID.String()),
			zap.String("student_id", req.StudentID.String()))
	}

	if err := s.studentFeeRepo.Save(ctx, sf); err != nil {
		return nil, fmt.Errorf("failed to save student fee: %w", err)
	}
	s.publishEvents(ctx, sf)
	return sf, nil
}

// RecordPaymentRequest represents a payment against a student fee
type RecordPaymentRequest struct {
	SchoolID     uuid.UUID
	StudentFeeID uuid.UUID
	DetailID     uuid.UUID
	Amount       decimal.Decimal
	Method       domainfees.PaymentMethod
	PaymentDate  time.Time
}

// RecordPaymentResult represents the outcome of a recorded payment. Auto
// allocation creates one payment per settled month; PaymentsCreated is zero
// when the whole amount was excess.
type RecordPaymentResult struct {
	Payments        []*domainfees.FeePayment     `json:"payments"`
	PaymentsCreated int                          `json:"payments_created"`
	StudentFee      *domainfees.StudentFee       `json:"student_fee"`
	Allocation      *domainfees.AllocationResult `json:"allocation,omitempty"`
	ExcessAmount    decimal.Decimal              `json:"excess_amount"`
}

// RecordPayment settles a payment against one specific scheduled month
func (s *FeeService) RecordPayment(ctx context.Context, req RecordPaymentRequest) (*RecordPaymentResult, error) {
	if req.DetailID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_DETAIL", "Detail ID is required for a targeted payment")
	}
	var result *RecordPaymentResult
	err := s.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		sf, err := s.studentFeeRepo.FindByIDForSchool(txCtx, req.SchoolID, req.StudentFeeID)
		if err != nil {
			return fmt.Errorf("failed to get student fee: %w", err)
		}
		if err := sf.ApplyPayment(req.DetailID, valueobject.NewMoneyINR(req.Amount)); err != nil {
			return err
		}

		sch, err := s.schoolRepo.FindByID(txCtx, req.SchoolID)
		if err != nil {
			return fmt.Errorf("failed to get school: %w", err)
		}
		if err := s.studentFeeRepo.Save(txCtx, sf); err != nil {
			return fmt.Errorf("failed to save student fee: %w", err)
		}
		payment, err := s.createPayment(txCtx, sch.Code, sf, req.DetailID, req.Amount, req.Method, paymentDateOrNow(req.PaymentDate))
		if err != nil {
			return err
		}
		result = &RecordPaymentResult{
			Payments:        []*domainfees.FeePayment{payment},
			PaymentsCreated: 1,
			StudentFee:      sf,
			ExcessAmount:    decimal.Zero,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publishPaymentEvents(ctx, result)
	s.logPayment(result)
	return result, nil
}

// RecordPaymentAutoAllocate settles a payment oldest month first, creating one
// payment per settled month. Any amount beyond the full balance is reported
// back as excess and not recorded.
func (s *FeeService) RecordPaymentAutoAllocate(ctx context.Context, req RecordPaymentRequest) (*RecordPaymentResult, error) {
	var result *RecordPaymentResult
	err := s.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		sf, err := s.studentFeeRepo.FindByIDForSchool(txCtx, req.SchoolID, req.StudentFeeID)
		if err != nil {
			return fmt.Errorf("failed to get student fee: %w", err)
		}
		allocation, err := s.allocator.Allocate(sf, valueobject.NewMoneyINR(req.Amount))
		if err != nil {
			return err
		}
		result = &RecordPaymentResult{
			StudentFee:   sf,
			Allocation:   allocation,
			ExcessAmount: allocation.ExcessAmount,
		}
		if !allocation.AllocatedAmount.IsPositive() {
			// Nothing left to settle; the whole amount is excess
			return nil
		}

		sch, err := s.schoolRepo.FindByID(txCtx, req.SchoolID)
		if err != nil {
			return fmt.Errorf("failed to get school: %w", err)
		}
		if err := s.studentFeeRepo.Save(txCtx, sf); err != nil {
			return fmt.Errorf("failed to save student fee: %w", err)
		}
		paymentDate := paymentDateOrNow(req.PaymentDate)
		for _, slice := range allocation.Allocations {
			payment, err := s.createPayment(txCtx, sch.Code, sf, slice.DetailID, slice.Amount, req.Method, paymentDate)
			if err != nil {
				return err
			}
			result.Payments = append(result.Payments, payment)
		}
		result.PaymentsCreated = len(result.Payments)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publishPaymentEvents(ctx, result)
	s.logPayment(result)
	return result, nil
}

// createPayment draws the next receipt number and saves one payment. A lost
// race on the receipt unique index redraws the sequence and retries once.
// Must run inside the payment transaction.
func (s *FeeService) createPayment(
	ctx context.Context,
	schoolCode string,
	sf *domainfees.StudentFee,
	detailID uuid.UUID,
	amount decimal.Decimal,
	method domainfees.PaymentMethod,
	paymentDate time.Time,
) (*domainfees.FeePayment, error) {
	for attempt := 0; ; attempt++ {
		seq, err := s.paymentRepo.NextReceiptSequence(ctx, sf.SchoolID, paymentDate.Year(), paymentDate.Month())
		if err != nil {
			return nil, fmt.Errorf("failed to generate receipt sequence: %w", err)
		}
		receipt := domainfees.FormatReceiptNumber(schoolCode, paymentDate, seq)

		payment, err := domainfees.NewFeePayment(sf.SchoolID, sf.ID, detailID, sf.StudentID, valueobject.NewMoneyINR(amount), method, receipt, paymentDate)
		if err != nil {
			return nil, err
		}
		err = s.paymentRepo.Save(ctx, payment)
		if err == nil {
			return payment, nil
		}
		if !errors.Is(err, shared.ErrAlreadyExists) || attempt > 0 {
			return nil, fmt.Errorf("failed to save payment: %w", err)
		}
		s.logger.Warn("receipt number collision, redrawing sequence",
			zap.String("receipt_number", receipt))
	}
}

func paymentDateOrNow(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now()
	}
	return t
}

func (s *FeeService) publishPaymentEvents(ctx context.Context, result *RecordPaymentResult) {
	aggregates := []shared.AggregateRoot{result.StudentFee}
	for _, p := range result.Payments {
		aggregates = append(aggregates, p)
	}
	s.publishEvents(ctx, aggregates...)
}

// publishEvents drains and publishes the pending events of the aggregates.
// Publish failures are logged, not returned; the state change is already
// committed.
func (s *FeeService) publishEvents(ctx context.Context, aggregates ...shared.AggregateRoot) {
	if s.events == nil {
		return
	}
	for _, agg := range aggregates {
		pending := agg.GetDomainEvents()
		if len(pending) == 0 {
			continue
		}
		if err := s.events.Publish(ctx, pending...); err != nil {
			s.logger.Error("failed to publish domain events",
				zap.String("aggregate_id", agg.GetID().String()),
				zap.Error(err))
		}
		agg.ClearDomainEvents()
	}
}

func (s *FeeService) logPayment(result *RecordPaymentResult) {
	receipts := make([]string, len(result.Payments))
	for i, p := range result.Payments {
		receipts[i] = p.ReceiptNumber
	}
	s.logger.Info("fee payment recorded",
		zap.Strings("receipt_numbers", receipts),
		zap.String("student_fee_id", result.StudentFee.ID.String()),
		zap.Int("payments_created", result.PaymentsCreated),
		zap.String("status", string(result.StudentFee.Status)))
	if result.ExcessAmount.IsPositive() {
		s.logger.Warn("payment exceeded outstanding balance",
			zap.String("student_fee_id", result.StudentFee.ID.String()),
			zap.String("excess_amount", result.ExcessAmount.String()))
	}
}

// ApplyLateFees charges late fees on every overdue month across the school,
// using each fee structure's late fee policy. Returns the number of months
// charged.
func (s *FeeService) ApplyLateFees(ctx context.Context, schoolID uuid.UUID, asOf time.Time) (int, error) {
	charged := 0
	err := s.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		overdue, err := s.studentFeeRepo.FindWithOverdueDetails(txCtx, schoolID, asOf, shared.DefaultFilter())
		if err != nil {
			return fmt.Errorf("failed to list overdue fees: %w", err)
		}

		structures := make(map[uuid.UUID]*domainfees.FeeStructure)
		for i := range overdue {
			sf := &overdue[i]
			structure, ok := structures[sf.FeeStructureID]
			if !ok {
				structure, err = s.structureRepo.FindByID(txCtx, sf.FeeStructureID)
				if err != nil {
					return fmt.Errorf("failed to get fee structure: %w", err)
				}
				structures[sf.FeeStructureID] = structure
			}
			if structure.LateFeePercent.IsZero() && structure.LateFeeFixed.IsZero() {
				continue
			}

			applied := sf.ApplyLateFees(structure.LateFeePercent, structure.LateFeeFixed, structure.GracePeriodDays, asOf)
			if applied == 0 {
				continue
			}
			if err := s.studentFeeRepo.Save(txCtx, sf); err != nil {
				return fmt.Errorf("failed to save student fee: %w", err)
			}
			charged += applied
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	if charged > 0 {
		s.logger.Info("late fees applied",
			zap.String("school_id", schoolID.String()),
			zap.Int("months_charged", charged))
	}
	return charged, nil
}

// WaiveStudentFee writes off the remaining balance of a student fee
func (s *FeeService) WaiveStudentFee(ctx context.Context, schoolID, studentFeeID uuid.UUID, reason string) (*domainfees.StudentFee, error) {
	sf, err := s.studentFeeRepo.FindByIDForSchool(ctx, schoolID, studentFeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get student fee: %w", err)
	}
	if err := sf.Waive(reason); err != nil {
		return nil, err
	}
	if err := s.studentFeeRepo.Save(ctx, sf); err != nil {
		return nil, fmt.Errorf("failed to save student fee: %w", err)
	}
	s.publishEvents(ctx, sf)
	s.logger.Info("student fee waived",
		zap.String("student_fee_id", sf.ID.String()),
		zap.String("reason", reason))
	return sf, nil
}

// GetStudentFee returns a student fee with its schedule
func (s *FeeService) GetStudentFee(ctx context.Context, schoolID, studentFeeID uuid.UUID) (*domainfees.StudentFee, error) {
	return s.studentFeeRepo.FindByIDForSchool(ctx, schoolID, studentFeeID)
}

// GetPaymentByReceipt looks a payment up by its receipt number
func (s *FeeService) GetPaymentByReceipt(ctx context.Context, schoolID uuid.UUID, receiptNumber string) (*domainfees.FeePayment, error) {
	return s.paymentRepo.FindByReceiptNumber(ctx, schoolID, receiptNumber)
}

// ListPaymentsForFee returns every payment recorded against a student fee
func (s *FeeService) ListPaymentsForFee(ctx context.Context, schoolID, studentFeeID uuid.UUID) ([]domainfees.FeePayment, error) {
	return s.paymentRepo.FindByStudentFee(ctx, schoolID, studentFeeID)
}
