package fees

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/schoolerp/backend/internal/domain/shared"
	"github.com/schoolerp/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// StudentFeeStatus represents the settlement state of an assigned fee
type StudentFeeStatus string

const (
	StudentFeePending StudentFeeStatus = "PENDING"
	StudentFeePartial StudentFeeStatus = "PARTIAL"
	StudentFeePaid    StudentFeeStatus = "PAID"
	// StudentFeeOverdue and StudentFeeWaived are set externally, never
	// derived from paid totals.
	StudentFeeOverdue StudentFeeStatus = "OVERDUE"
	StudentFeeWaived  StudentFeeStatus = "WAIVED"
)

// FeeDetailStatus represents the settlement state of one scheduled month
type FeeDetailStatus string

const (
	DetailPending FeeDetailStatus = "PENDING"
	DetailPartial FeeDetailStatus = "PARTIAL"
	DetailPaid    FeeDetailStatus = "PAID"
)

// StudentFeeDetail is one month of the generated payment schedule
type StudentFeeDetail struct {
	shared.BaseEntity
	StudentFeeID uuid.UUID       `json:"student_fee_id"`
	Month        int             `json:"month"`
	Year         int             `json:"year"`
	Amount       decimal.Decimal `json:"amount"`
	LateFee      decimal.Decimal `json:"late_fee"`
	PaidAmount   decimal.Decimal `json:"paid_amount"`
	DueDate      time.Time       `json:"due_date"`
	Status       FeeDetailStatus `json:"status"`
}

// Outstanding returns the unpaid remainder for this month including late fee
func (d *StudentFeeDetail) Outstanding() decimal.Decimal {
	return d.Amount.Add(d.LateFee).Sub(d.PaidAmount)
}

func (d *StudentFeeDetail) deriveStatus() {
	switch {
	case !d.Outstanding().IsPositive():
		d.Status = DetailPaid
	case d.PaidAmount.IsPositive():
		d.Status = DetailPartial
	default:
		d.Status = DetailPending
	}
}

// StudentFee is the per-student fee ledger for one academic year. It owns the
// monthly schedule details and all payments settle against it.
type StudentFee struct {
	shared.SchoolAggregateRoot
	StudentID      uuid.UUID          `json:"student_id"`
	FeeStructureID uuid.UUID          `json:"fee_structure_id"`
	AcademicYearID uuid.UUID          `json:"academic_year_id"`
	TotalAmount    decimal.Decimal    `json:"total_amount"`
	DiscountAmount decimal.Decimal    `json:"discount_amount"`
	LateFeeAmount  decimal.Decimal    `json:"late_fee_amount"`
	PaidAmount     decimal.Decimal    `json:"paid_amount"`
	Status         StudentFeeStatus   `json:"status"`
	WaiveReason    string             `json:"waive_reason,omitempty"`
	Details        []StudentFeeDetail `json:"details"`
}

// NewStudentFee assigns a fee structure to a student. The schedule is empty
// until GenerateSchedule runs.
func NewStudentFee(schoolID, studentID, feeStructureID, academicYearID uuid.UUID) (*StudentFee, error) {
	if schoolID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SCHOOL", "School ID cannot be empty")
	}
	if studentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_STUDENT", "Student ID cannot be empty")
	}
	if feeStructureID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_FEE_STRUCTURE", "Fee structure ID cannot be empty")
	}
	if academicYearID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ACADEMIC_YEAR", "Academic year ID cannot be empty")
	}

	sf := &StudentFee{
		SchoolAggregateRoot: shared.NewSchoolAggregateRoot(schoolID),
		StudentID:           studentID,
		FeeStructureID:      feeStructureID,
		AcademicYearID:      academicYearID,
		Status:              StudentFeePending,
	}
	sf.AddDomainEvent(NewStudentFeeAssignedEvent(sf))
	return sf, nil
}

// GenerateSchedule creates one detail per calendar month between start and end
// inclusive, each charged the undiscounted monthly gross with the due date
// clamped to the last day of shorter months. The discounts are resolved once
// against the full-year base, so a fixed discount reduces the account total by
// exactly its value regardless of how many months the schedule spans.
func (sf *StudentFee) GenerateSchedule(start, end time.Time, monthlyGross decimal.Decimal, discounts []FeeDiscount, dueDay int, clampAtZero bool) error {
	if len(sf.Details) > 0 {
		return shared.NewDomainError("SCHEDULE_EXISTS", "Payment schedule has already been generated")
	}
	if end.Before(start) {
		return shared.NewDomainError("INVALID_DATE_RANGE", "Schedule end cannot be before start")
	}
	if dueDay < 1 || dueDay > 31 {
		return shared.NewDomainError("INVALID_DUE_DAY", "Due day must be between 1 and 31")
	}

	base := decimal.Zero
	cursor := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, time.UTC)
	for !cursor.After(last) {
		dueDate := clampToMonth(cursor.Year(), cursor.Month(), dueDay)
		sf.Details = append(sf.Details, StudentFeeDetail{
			BaseEntity:   shared.NewBaseEntity(),
			StudentFeeID: sf.ID,
			Month:        int(cursor.Month()),
			Year:         cursor.Year(),
			Amount:       monthlyGross,
			LateFee:      decimal.Zero,
			PaidAmount:   decimal.Zero,
			DueDate:      dueDate,
			Status:       DetailPending,
		})
		base = base.Add(monthlyGross)
		cursor = cursor.AddDate(0, 1, 0)
	}

	net, err := ResolveDiscount(base, discounts, clampAtZero)
	if err != nil {
		return err
	}
	sf.TotalAmount = net
	sf.DiscountAmount = base.Sub(net)
	sf.IncrementVersion()
	return nil
}

func clampToMonth(year int, month time.Month, day int) time.Time {
	lastDay := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Balance returns the amount still owed across all months
func (sf *StudentFee) Balance() decimal.Decimal {
	return sf.TotalAmount.Add(sf.LateFeeAmount).Sub(sf.PaidAmount)
}

// ApplyPayment settles an amount against one specific scheduled month
func (sf *StudentFee) ApplyPayment(detailID uuid.UUID, amount valueobject.Money) error {
	if sf.Status == StudentFeeWaived {
		return shared.NewDomainError("FEE_WAIVED", "Cannot record payments against a waived fee")
	}
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_PAYMENT", "Payment amount must be positive")
	}

	for i := range sf.Details {
		if sf.Details[i].ID != detailID {
			continue
		}
		detail := &sf.Details[i]
		if remaining := detail.Outstanding(); amount.Amount().GreaterThan(remaining) {
			return shared.NewDomainError("EXCEEDS_OUTSTANDING",
				fmt.Sprintf("Payment exceeds the outstanding amount of %s for this month", remaining.StringFixed(2)))
		}
		detail.PaidAmount = detail.PaidAmount.Add(amount.Amount())
		detail.deriveStatus()
		detail.UpdatedAt = time.Now()
		sf.Recompute()
		return nil
	}
	return shared.NewDomainError("DETAIL_NOT_FOUND", "Scheduled month not found on this fee")
}

// Recompute rolls the detail rows up into the aggregate totals and status.
// Safe to call repeatedly; the result depends only on the current details.
func (sf *StudentFee) Recompute() {
	paid := decimal.Zero
	lateFees := decimal.Zero
	allPaid := len(sf.Details) > 0
	anyPartial := false
	for i := range sf.Details {
		paid = paid.Add(sf.Details[i].PaidAmount)
		lateFees = lateFees.Add(sf.Details[i].LateFee)
		switch sf.Details[i].Status {
		case DetailPartial:
			anyPartial = true
			allPaid = false
		case DetailPending:
			allPaid = false
		}
	}
	sf.PaidAmount = paid
	sf.LateFeeAmount = lateFees

	if sf.Status == StudentFeeWaived {
		sf.IncrementVersion()
		return
	}
	switch {
	case allPaid:
		sf.Status = StudentFeePaid
	case anyPartial || paid.IsPositive():
		sf.Status = StudentFeePartial
	default:
		sf.Status = StudentFeePending
	}
	sf.IncrementVersion()
}

// ApplyLateFees charges the configured late fee on every month past its due
// date plus grace period that is not yet fully paid. A month already carrying
// a late fee is skipped, so repeated runs do not double charge. Returns the
// number of months charged.
func (sf *StudentFee) ApplyLateFees(percent, fixed decimal.Decimal, gracePeriodDays int, asOf time.Time) int {
	if sf.Status == StudentFeeWaived || sf.Status == StudentFeePaid {
		return 0
	}
	applied := 0
	for i := range sf.Details {
		detail := &sf.Details[i]
		if detail.Status == DetailPaid || !detail.LateFee.IsZero() {
			continue
		}
		cutoff := detail.DueDate.AddDate(0, 0, gracePeriodDays)
		if !asOf.After(cutoff) {
			continue
		}
		fee := detail.Amount.Mul(percent).Div(decimal.NewFromInt(100)).Add(fixed).Round(2)
		if !fee.IsPositive() {
			continue
		}
		detail.LateFee = fee
		detail.deriveStatus()
		detail.UpdatedAt = time.Now()
		applied++
	}
	if applied > 0 {
		sf.Recompute()
	}
	return applied
}

// HasOverdueDetails reports whether any unpaid month is past its due date
func (sf *StudentFee) HasOverdueDetails(asOf time.Time) bool {
	for i := range sf.Details {
		if sf.Details[i].Status != DetailPaid && asOf.After(sf.Details[i].DueDate) {
			return true
		}
	}
	return false
}

// Waive writes off the remaining balance. Recorded payments stay on the
// ledger; no further payments are accepted.
func (sf *StudentFee) Waive(reason string) error {
	if sf.Status == StudentFeePaid {
		return shared.NewDomainError("ALREADY_PAID", "A fully paid fee cannot be waived")
	}
	if sf.Status == StudentFeeWaived {
		return shared.NewDomainError("ALREADY_WAIVED", "Fee has already been waived")
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Waive reason cannot be empty")
	}
	sf.Status = StudentFeeWaived
	sf.WaiveReason = reason
	sf.IncrementVersion()
	sf.AddDomainEvent(NewStudentFeeWaivedEvent(sf, reason))
	return nil
}
