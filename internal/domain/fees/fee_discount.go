package fees

import (
	"strings"

	"github.com/google/uuid"
	"github.com/schoolerp/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// DiscountType represents how a discount amount is computed
type DiscountType string

const (
	DiscountPercentage DiscountType = "PERCENTAGE"
	DiscountFixed      DiscountType = "FIXED"
)

// IsValid checks if the discount type is valid
func (d DiscountType) IsValid() bool {
	return d == DiscountPercentage || d == DiscountFixed
}

// FeeDiscount is a reduction granted to one student for one academic year,
// e.g. "Sibling 10%" or "Staff ward 500 flat". It may optionally be scoped
// to a single fee category.
type FeeDiscount struct {
	shared.SchoolAggregateRoot
	StudentID      uuid.UUID       `json:"student_id"`
	AcademicYearID uuid.UUID       `json:"academic_year_id"`
	FeeCategoryID  *uuid.UUID      `json:"fee_category_id,omitempty"`
	Name           string          `json:"name"`
	Type           DiscountType    `json:"type"`
	Value          decimal.Decimal `json:"value"`
	IsActive       bool            `json:"is_active"`
}

// NewFeeDiscount grants a discount to a student for an academic year
func NewFeeDiscount(schoolID, studentID, academicYearID uuid.UUID, name string, discountType DiscountType, value decimal.Decimal) (*FeeDiscount, error) {
	if schoolID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SCHOOL", "School ID cannot be empty")
	}
	if studentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_STUDENT", "Student ID cannot be empty")
	}
	if academicYearID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ACADEMIC_YEAR", "Academic year ID cannot be empty")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_DISCOUNT_NAME", "Discount name cannot be empty")
	}
	if !discountType.IsValid() {
		return nil, shared.NewDomainError("INVALID_DISCOUNT_TYPE", "Discount type must be PERCENTAGE or FIXED")
	}
	if value.IsNegative() {
		return nil, shared.NewDomainError("INVALID_DISCOUNT_VALUE", "Discount value cannot be negative")
	}
	if discountType == DiscountPercentage && value.GreaterThan(decimal.NewFromInt(100)) {
		return nil, shared.NewDomainError("INVALID_DISCOUNT_VALUE", "Percentage discount cannot exceed 100")
	}

	return &FeeDiscount{
		SchoolAggregateRoot: shared.NewSchoolAggregateRoot(schoolID),
		StudentID:           studentID,
		AcademicYearID:      academicYearID,
		Name:                name,
		Type:                discountType,
		Value:               value,
		IsActive:            true,
	}, nil
}

// ScopeToCategory limits the discount to one fee category
func (d *FeeDiscount) ScopeToCategory(categoryID uuid.UUID) error {
	if categoryID == uuid.Nil {
		return shared.NewDomainError("INVALID_CATEGORY", "Fee category ID cannot be empty")
	}
	d.FeeCategoryID = &categoryID
	d.IncrementVersion()
	return nil
}

// Deactivate retires the discount from future assignments
func (d *FeeDiscount) Deactivate() {
	d.IsActive = false
	d.IncrementVersion()
}

// Amount returns the monetary reduction this discount yields on the given base
func (d *FeeDiscount) Amount(base decimal.Decimal) decimal.Decimal {
	if d.Type == DiscountPercentage {
		return base.Mul(d.Value).Div(decimal.NewFromInt(100))
	}
	return d.Value
}

// ResolveDiscount computes the net payable for a base amount after applying
// every discount. Percentage discounts are always taken on the original base,
// not the running total, so stacking order does not change the result.
// Discounts are additive and uncapped: when they exceed the base the net goes
// negative unless clampAtZero floors it at zero.
func ResolveDiscount(base decimal.Decimal, discounts []FeeDiscount, clampAtZero bool) (decimal.Decimal, error) {
	if base.IsNegative() {
		return decimal.Zero, shared.NewDomainError("INVALID_AMOUNT", "Base amount cannot be negative")
	}

	totalDiscount := decimal.Zero
	for _, d := range discounts {
		totalDiscount = totalDiscount.Add(d.Amount(base))
	}

	net := base.Sub(totalDiscount)
	if clampAtZero && net.IsNegative() {
		net = decimal.Zero
	}
	return net.Round(2), nil
}
