package payroll

import (
	"time"

	"github.com/google/uuid"
	"github.com/schoolerp/backend/internal/domain/shared"
	"github.com/schoolerp/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// SalaryStatus represents the payout state of a processed month
type SalaryStatus string

const (
	SalaryProcessed SalaryStatus = "PROCESSED"
	SalaryPaid      SalaryStatus = "PAID"
)

// PayoutMethod represents how a salary payment was disbursed
type PayoutMethod string

const (
	PayoutCash         PayoutMethod = "CASH"
	PayoutBankTransfer PayoutMethod = "BANK_TRANSFER"
	PayoutCheque       PayoutMethod = "CHEQUE"
	PayoutUPI          PayoutMethod = "UPI"
)

// IsValid checks if the payout method is valid
func (m PayoutMethod) IsValid() bool {
	switch m {
	case PayoutCash, PayoutBankTransfer, PayoutCheque, PayoutUPI:
		return true
	}
	return false
}

// TeacherSalaryDetail is one frozen pay head of a processed month
type TeacherSalaryDetail struct {
	shared.BaseEntity
	TeacherSalaryID uuid.UUID       `json:"teacher_salary_id"`
	ComponentID     uuid.UUID       `json:"component_id"`
	ComponentName   string          `json:"component_name"`
	Type            ComponentType   `json:"type"`
	Amount          decimal.Decimal `json:"amount"`
}

// TeacherSalary is one teacher's processed pay for one month. Processing
// freezes the calculation; the structure changing later does not touch it.
type TeacherSalary struct {
	shared.SchoolAggregateRoot
	TeacherID       uuid.UUID             `json:"teacher_id"`
	Month           int                   `json:"month"`
	Year            int                   `json:"year"`
	WorkingDays     int                   `json:"working_days"`
	PresentDays     decimal.Decimal       `json:"present_days"`
	GrossEarnings   decimal.Decimal       `json:"gross_earnings"`
	TotalDeductions decimal.Decimal       `json:"total_deductions"`
	NetSalary       decimal.Decimal       `json:"net_salary"`
	PaidAmount      decimal.Decimal       `json:"paid_amount"`
	Status          SalaryStatus          `json:"status"`
	Details         []TeacherSalaryDetail `json:"details"`
}

// NewTeacherSalary freezes a salary calculation for one month
func NewTeacherSalary(schoolID, teacherID uuid.UUID, month, year, workingDays int, presentDays decimal.Decimal, calc *SalaryCalculation) (*TeacherSalary, error) {
	if schoolID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SCHOOL", "School ID cannot be empty")
	}
	if teacherID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TEACHER", "Teacher ID cannot be empty")
	}
	if month < 1 || month > 12 {
		return nil, shared.NewDomainError("INVALID_MONTH", "Month must be between 1 and 12")
	}
	if calc == nil {
		return nil, shared.NewDomainError("INVALID_CALCULATION", "Salary calculation cannot be nil")
	}

	ts := &TeacherSalary{
		SchoolAggregateRoot: shared.NewSchoolAggregateRoot(schoolID),
		TeacherID:           teacherID,
		Month:               month,
		Year:                year,
		WorkingDays:         workingDays,
		PresentDays:         presentDays,
		GrossEarnings:       calc.GrossEarnings,
		TotalDeductions:     calc.TotalDeductions,
		NetSalary:           calc.NetSalary,
		PaidAmount:          decimal.Zero,
		Status:              SalaryProcessed,
	}
	ts.Details = make([]TeacherSalaryDetail, len(calc.Lines))
	for i, line := range calc.Lines {
		ts.Details[i] = TeacherSalaryDetail{
			BaseEntity:      shared.NewBaseEntity(),
			TeacherSalaryID: ts.ID,
			ComponentID:     line.ComponentID,
			ComponentName:   line.ComponentName,
			Type:            line.Type,
			Amount:          line.Amount,
		}
	}
	if !ts.NetSalary.IsPositive() {
		ts.Status = SalaryPaid
	}
	return ts, nil
}

// Remaining returns the amount still owed to the teacher
func (ts *TeacherSalary) Remaining() decimal.Decimal {
	return ts.NetSalary.Sub(ts.PaidAmount)
}

// ApplyPayment records a disbursement against the month's net
func (ts *TeacherSalary) ApplyPayment(amount valueobject.Money) error {
	if ts.Status == SalaryPaid {
		return shared.NewDomainError("ALREADY_PAID", "Salary for this month is already fully paid")
	}
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_PAYMENT", "Payment amount must be positive")
	}
	if amount.Amount().GreaterThan(ts.Remaining()) {
		return shared.NewDomainError("EXCEEDS_REMAINING", "Payment exceeds the remaining salary")
	}

	ts.PaidAmount = ts.PaidAmount.Add(amount.Amount())
	if !ts.Remaining().IsPositive() {
		ts.Status = SalaryPaid
	}
	ts.IncrementVersion()
	return nil
}

// SalaryPayment is an immutable record of a salary disbursement
type SalaryPayment struct {
	shared.SchoolAggregateRoot
	TeacherSalaryID uuid.UUID       `json:"teacher_salary_id"`
	TeacherID       uuid.UUID       `json:"teacher_id"`
	Amount          decimal.Decimal `json:"amount"`
	Method          PayoutMethod    `json:"method"`
	PaymentDate     time.Time       `json:"payment_date"`
	Reference       string          `json:"reference,omitempty"`
}

// NewSalaryPayment records a disbursement
func NewSalaryPayment(schoolID uuid.UUID, salary *TeacherSalary, amount valueobject.Money, method PayoutMethod, paymentDate time.Time, reference string) (*SalaryPayment, error) {
	if salary == nil {
		return nil, shared.NewDomainError("INVALID_SALARY", "Teacher salary cannot be nil")
	}
	if schoolID != salary.SchoolID {
		return nil, shared.ErrSchoolMismatch
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_PAYMENT", "Payment amount must be positive")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_METHOD", "Payout method is not valid")
	}
	if paymentDate.IsZero() {
		paymentDate = time.Now()
	}

	return &SalaryPayment{
		SchoolAggregateRoot: shared.NewSchoolAggregateRoot(schoolID),
		TeacherSalaryID:     salary.ID,
		TeacherID:           salary.TeacherID,
		Amount:              amount.Amount(),
		Method:              method,
		PaymentDate:         paymentDate,
		Reference:           reference,
	}, nil
}
