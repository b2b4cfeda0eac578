package payroll

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	domainpayroll "github.com/schoolerp/backend/internal/domain/payroll"
	"github.com/schoolerp/backend/internal/domain/school"
	"github.com/schoolerp/backend/internal/domain/shared"
	"github.com/schoolerp/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PayrollService handles salary setup, attendance and monthly processing
type PayrollService struct {
	componentRepo  domainpayroll.SalaryComponentRepository
	structureRepo  domainpayroll.SalaryStructureRepository
	attendanceRepo domainpayroll.TeacherAttendanceRepository
	salaryRepo     domainpayroll.TeacherSalaryRepository
	payoutRepo     domainpayroll.SalaryPaymentRepository
	holidayRepo    school.HolidayRepository
	txManager      shared.TransactionManager
	calculator     *domainpayroll.SalaryCalculator
	logger         *zap.Logger
}

// NewPayrollService creates a new PayrollService
func NewPayrollService(
	componentRepo domainpayroll.SalaryComponentRepository,
	structureRepo domainpayroll.SalaryStructureRepository,
	attendanceRepo domainpayroll.TeacherAttendanceRepository,
	salaryRepo domainpayroll.TeacherSalaryRepository,
	payoutRepo domainpayroll.SalaryPaymentRepository,
	holidayRepo school.HolidayRepository,
	txManager shared.TransactionManager,
	clampNetAtZero bool,
	logger *zap.Logger,
) *PayrollService {
	return &PayrollService{
		componentRepo:  componentRepo,
		structureRepo:  structureRepo,
		attendanceRepo: attendanceRepo,
		salaryRepo:     salaryRepo,
		payoutRepo:     payoutRepo,
		holidayRepo:    holidayRepo,
		txManager:      txManager,
		calculator:     domainpayroll.NewSalaryCalculator(clampNetAtZero),
		logger:         logger,
	}
}

// CreateSalaryComponent creates a school-level pay head
func (s *PayrollService) CreateSalaryComponent(ctx context.Context, schoolID uuid.UUID, name string, componentType domainpayroll.ComponentType, isPercentage bool) (*domainpayroll.SalaryComponent, error) {
	c, err := domainpayroll.NewSalaryComponent(schoolID, name, componentType, isPercentage)
	if err != nil {
		return nil, err
	}
	if err := s.componentRepo.Save(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to save component: %w", err)
	}
	return c, nil
}

// CreateSalaryStructureRequest represents a teacher's agreed pay
type CreateSalaryStructureRequest struct {
	SchoolID      uuid.UUID
	TeacherID     uuid.UUID
	BasicSalary   decimal.Decimal
	EffectiveFrom time.Time
	Items         []domainpayroll.SalaryStructureItem
}

// CreateSalaryStructure sets a teacher's pay structure, retiring any
// previously active one.
func (s *PayrollService) CreateSalaryStructure(ctx context.Context, req CreateSalaryStructureRequest) (*domainpayroll.SalaryStructure, error) {
	ss, err := domainpayroll.NewSalaryStructure(req.SchoolID, req.TeacherID, req.BasicSalary, req.EffectiveFrom, req.Items)
	if err != nil {
		return nil, err
	}

	err = s.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		current, err := s.structureRepo.FindActiveForTeacher(txCtx, req.SchoolID, req.TeacherID)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return fmt.Errorf("failed to check current structure: %w", err)
		}
		if current != nil {
			current.Deactivate()
			if err := s.structureRepo.Save(txCtx, current); err != nil {
				return fmt.Errorf("failed to retire current structure: %w", err)
			}
		}
		if err := s.structureRepo.Save(txCtx, ss); err != nil {
			return fmt.Errorf("failed to save structure: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ss, nil
}

// MarkAttendance records one teacher's attendance for one day
func (s *PayrollService) MarkAttendance(ctx context.Context, schoolID, teacherID uuid.UUID, day time.Time, status domainpayroll.AttendanceStatus) (*domainpayroll.TeacherAttendance, error) {
	a, err := domainpayroll.NewTeacherAttendance(schoolID, teacherID, day, status)
	if err != nil {
		return nil, err
	}
	if err := s.attendanceRepo.Save(ctx, a); err != nil {
		return nil, fmt.Errorf("failed to save attendance: %w", err)
	}
	return a, nil
}

// ProcessSalaryRequest represents a request to process one teacher's month.
// StructureID pins the run to a specific salary structure; left nil, the
// teacher's active structure is used. PresentDaysOverride replaces the count
// derived from attendance records.
type ProcessSalaryRequest struct {
	SchoolID            uuid.UUID
	TeacherID           uuid.UUID
	Month               int
	Year                int
	WorkingDays         int
	StructureID         *uuid.UUID
	PresentDaysOverride *decimal.Decimal
}

// ProcessSalary computes and freezes one teacher's pay for a month from the
// salary structure and that month's attendance. A month is processed once.
func (s *PayrollService) ProcessSalary(ctx context.Context, req ProcessSalaryRequest) (*domainpayroll.TeacherSalary, error) {
	if req.Month < 1 || req.Month > 12 {
		return nil, shared.NewDomainError("INVALID_MONTH", "Month must be between 1 and 12")
	}
	if req.WorkingDays < 0 {
		return nil, shared.NewDomainError("INVALID_WORKING_DAYS", "Working days cannot be negative")
	}
	if req.PresentDaysOverride != nil && req.PresentDaysOverride.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRESENT_DAYS", "Present days cannot be negative")
	}

	var ts *domainpayroll.TeacherSalary
	err := s.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		existing, err := s.salaryRepo.FindByTeacherAndMonth(txCtx, req.SchoolID, req.TeacherID, req.Month, req.Year)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return fmt.Errorf("failed to check existing salary: %w", err)
		}
		if existing != nil {
			return shared.NewDomainError("ALREADY_PROCESSED", "Salary for this month has already been processed")
		}

		structure, err := s.resolveStructure(txCtx, req)
		if err != nil {
			return err
		}

		presentDays, err := s.resolvePresentDays(txCtx, req)
		if err != nil {
			return err
		}

		holidayDays, err := s.holidayDaysInMonth(txCtx, req.SchoolID, time.Month(req.Month), req.Year)
		if err != nil {
			return err
		}
		effectiveDays := req.WorkingDays
		if effectiveDays > 0 {
			effectiveDays = domainpayroll.EffectiveWorkingDays(req.WorkingDays, holidayDays)
		}

		calc, err := s.calculator.Calculate(structure, presentDays, effectiveDays)
		if err != nil {
			return err
		}
		ts, err = domainpayroll.NewTeacherSalary(req.SchoolID, req.TeacherID, req.Month, req.Year, effectiveDays, presentDays, calc)
		if err != nil {
			return err
		}
		if err := s.salaryRepo.Save(txCtx, ts); err != nil {
			return fmt.Errorf("failed to save salary: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("salary processed",
		zap.String("teacher_id", req.TeacherID.String()),
		zap.Int("month", req.Month),
		zap.Int("year", req.Year),
		zap.String("net_salary", ts.NetSalary.String()))
	return ts, nil
}

// resolveStructure returns the structure the run is pinned to, or the
// teacher's active one. A pinned structure must belong to the same school
// and teacher.
func (s *PayrollService) resolveStructure(ctx context.Context, req ProcessSalaryRequest) (*domainpayroll.SalaryStructure, error) {
	if req.StructureID == nil {
		structure, err := s.structureRepo.FindActiveForTeacher(ctx, req.SchoolID, req.TeacherID)
		if err != nil {
			return nil, fmt.Errorf("failed to get salary structure: %w", err)
		}
		return structure, nil
	}
	structure, err := s.structureRepo.FindByID(ctx, *req.StructureID)
	if err != nil {
		return nil, fmt.Errorf("failed to get salary structure: %w", err)
	}
	if structure.SchoolID != req.SchoolID {
		return nil, shared.ErrSchoolMismatch
	}
	if structure.TeacherID != req.TeacherID {
		return nil, shared.NewDomainError("STRUCTURE_MISMATCH", "Salary structure belongs to another teacher")
	}
	return structure, nil
}

func (s *PayrollService) resolvePresentDays(ctx context.Context, req ProcessSalaryRequest) (decimal.Decimal, error) {
	if req.PresentDaysOverride != nil {
		return *req.PresentDaysOverride, nil
	}
	monthStart := time.Date(req.Year, time.Month(req.Month), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, -1)
	records, err := s.attendanceRepo.FindForTeacherInRange(ctx, req.SchoolID, req.TeacherID, monthStart, monthEnd)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to load attendance: %w", err)
	}
	return domainpayroll.Summarize(records).PresentDays, nil
}

func (s *PayrollService) holidayDaysInMonth(ctx context.Context, schoolID uuid.UUID, month time.Month, year int) (int, error) {
	monthStart := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, -1)
	holidays, err := s.holidayRepo.FindActiveInRange(ctx, schoolID, monthStart, monthEnd)
	if err != nil {
		return 0, fmt.Errorf("failed to load holidays: %w", err)
	}
	days := 0
	for i := range holidays {
		days += holidays[i].DaysInMonth(month, year)
	}
	return days, nil
}

// RecordSalaryPaymentRequest represents a salary disbursement
type RecordSalaryPaymentRequest struct {
	SchoolID        uuid.UUID
	TeacherSalaryID uuid.UUID
	Amount          decimal.Decimal
	Method          domainpayroll.PayoutMethod
	PaymentDate     time.Time
	Reference       string
}

// RecordSalaryPayment disburses against a processed month
func (s *PayrollService) RecordSalaryPayment(ctx context.Context, req RecordSalaryPaymentRequest) (*domainpayroll.SalaryPayment, error) {
	var payment *domainpayroll.SalaryPayment
	err := s.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		ts, err := s.salaryRepo.FindByIDForSchool(txCtx, req.SchoolID, req.TeacherSalaryID)
		if err != nil {
			return fmt.Errorf("failed to get salary: %w", err)
		}
		amount := valueobject.NewMoneyINR(req.Amount)
		if err := ts.ApplyPayment(amount); err != nil {
			return err
		}
		payment, err = domainpayroll.NewSalaryPayment(req.SchoolID, ts, amount, req.Method, req.PaymentDate, req.Reference)
		if err != nil {
			return err
		}
		if err := s.salaryRepo.Save(txCtx, ts); err != nil {
			return fmt.Errorf("failed to save salary: %w", err)
		}
		if err := s.payoutRepo.Save(txCtx, payment); err != nil {
			return fmt.Errorf("failed to save payment: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("salary payment recorded",
		zap.String("teacher_salary_id", req.TeacherSalaryID.String()),
		zap.String("amount", req.Amount.String()))
	return payment, nil
}

// GetSalary returns one processed month with its pay heads
func (s *PayrollService) GetSalary(ctx context.Context, schoolID, salaryID uuid.UUID) (*domainpayroll.TeacherSalary, error) {
	return s.salaryRepo.FindByIDForSchool(ctx, schoolID, salaryID)
}

// ListSalariesForMonth returns every processed salary of a month
func (s *PayrollService) ListSalariesForMonth(ctx context.Context, schoolID uuid.UUID, month, year int) ([]domainpayroll.TeacherSalary, error) {
	return s.salaryRepo.FindByMonth(ctx, schoolID, month, year)
}
