package fees

import (
	"strings"

	"github.com/google/uuid"
	"github.com/schoolerp/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// FeeFrequency represents how often a fee structure item is charged
type FeeFrequency string

const (
	FrequencyMonthly   FeeFrequency = "MONTHLY"
	FrequencyQuarterly FeeFrequency = "QUARTERLY"
	FrequencyOneTime   FeeFrequency = "ONE_TIME"
)

// IsValid checks if the frequency is a valid FeeFrequency
func (f FeeFrequency) IsValid() bool {
	switch f {
	case FrequencyMonthly, FrequencyQuarterly, FrequencyOneTime:
		return true
	}
	return false
}

// String returns the string representation of FeeFrequency
func (f FeeFrequency) String() string {
	return string(f)
}

// FeeStructureItem is a single category line of a fee structure, e.g.
// "Tuition 2500 MONTHLY" or "Admission 5000 ONE_TIME".
type FeeStructureItem struct {
	shared.BaseEntity
	FeeStructureID uuid.UUID       `json:"fee_structure_id"`
	CategoryID     uuid.UUID       `json:"category_id"`
	CategoryName   string          `json:"category_name"`
	Amount         decimal.Decimal `json:"amount"`
	Frequency      FeeFrequency    `json:"frequency"`
}

// FeeStructure defines what a class is charged in one academic year. There is
// exactly one structure per (class, academic year) within a school.
type FeeStructure struct {
	shared.SchoolAggregateRoot
	Name            string             `json:"name"`
	ClassID         uuid.UUID          `json:"class_id"`
	AcademicYearID  uuid.UUID          `json:"academic_year_id"`
	TotalAmount     decimal.Decimal    `json:"total_amount"`
	DueDay          int                `json:"due_day"`
	LateFeePercent  decimal.Decimal    `json:"late_fee_percent"`
	LateFeeFixed    decimal.Decimal    `json:"late_fee_fixed"`
	GracePeriodDays int                `json:"grace_period_days"`
	Items           []FeeStructureItem `json:"items"`
}

// NewFeeStructure creates a fee structure with its items. TotalAmount is
// derived from the items, not supplied by the caller.
func NewFeeStructure(
	schoolID uuid.UUID,
	name string,
	classID, academicYearID uuid.UUID,
	dueDay int,
	items []FeeStructureItem,
) (*FeeStructure, error) {
	if schoolID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SCHOOL", "School ID cannot be empty")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_STRUCTURE_NAME", "Fee structure name cannot be empty")
	}
	if classID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CLASS", "Class ID cannot be empty")
	}
	if academicYearID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ACADEMIC_YEAR", "Academic year ID cannot be empty")
	}
	if dueDay < 1 || dueDay > 31 {
		return nil, shared.NewDomainError("INVALID_DUE_DAY", "Due day must be between 1 and 31")
	}
	if len(items) == 0 {
		return nil, shared.NewDomainError("INVALID_ITEMS", "Fee structure requires at least one item")
	}
	for _, item := range items {
		if !item.Frequency.IsValid() {
			return nil, shared.NewDomainError("INVALID_FREQUENCY", "Fee item frequency is not valid")
		}
		if item.Amount.IsNegative() {
			return nil, shared.NewDomainError("INVALID_AMOUNT", "Fee item amount cannot be negative")
		}
	}

	fs := &FeeStructure{
		SchoolAggregateRoot: shared.NewSchoolAggregateRoot(schoolID),
		Name:                name,
		ClassID:             classID,
		AcademicYearID:      academicYearID,
		DueDay:              dueDay,
	}
	total := decimal.Zero
	fs.Items = make([]FeeStructureItem, len(items))
	for i, item := range items {
		item.BaseEntity = shared.NewBaseEntity()
		item.FeeStructureID = fs.ID
		fs.Items[i] = item
		total = total.Add(item.Amount)
	}
	fs.TotalAmount = total
	return fs, nil
}

// SetLateFeePolicy configures the late fee applied to overdue monthly details
func (fs *FeeStructure) SetLateFeePolicy(percent, fixed decimal.Decimal, gracePeriodDays int) error {
	if percent.IsNegative() || fixed.IsNegative() || gracePeriodDays < 0 {
		return shared.NewDomainError("INVALID_LATE_FEE", "Late fee policy values cannot be negative")
	}
	fs.LateFeePercent = percent
	fs.LateFeeFixed = fixed
	fs.GracePeriodDays = gracePeriodDays
	fs.IncrementVersion()
	return nil
}

// MonthlyTotal returns the sum of all MONTHLY items. Only this amount feeds
// the generated per-month schedule; other frequencies are excluded.
func (fs *FeeStructure) MonthlyTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range fs.Items {
		if item.Frequency == FrequencyMonthly {
			total = total.Add(item.Amount)
		}
	}
	return total
}

// HasCategory reports whether any item of the structure charges the category
func (fs *FeeStructure) HasCategory(categoryID uuid.UUID) bool {
	for _, item := range fs.Items {
		if item.CategoryID == categoryID {
			return true
		}
	}
	return false
}

// HasNonMonthlyItems reports whether the structure carries items that the
// monthly schedule generation will not distribute.
func (fs *FeeStructure) HasNonMonthlyItems() bool {
	for _, item := range fs.Items {
		if item.Frequency != FrequencyMonthly {
			return true
		}
	}
	return false
}
