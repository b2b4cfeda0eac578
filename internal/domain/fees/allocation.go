package fees

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/schoolerp/backend/internal/domain/shared"
	"github.com/schoolerp/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Allocation is one slice of a payment applied to a scheduled month
type Allocation struct {
	DetailID uuid.UUID       `json:"detail_id"`
	Month    int             `json:"month"`
	Year     int             `json:"year"`
	Amount   decimal.Decimal `json:"amount"`
}

// AllocationResult summarizes how an auto-allocated payment was spread
type AllocationResult struct {
	Allocations          []Allocation    `json:"allocations"`
	AllocatedAmount      decimal.Decimal `json:"allocated_amount"`
	ExcessAmount         decimal.Decimal `json:"excess_amount"`
	FullyPaidDetails     int             `json:"fully_paid_details"`
	PartiallyPaidDetails int             `json:"partially_paid_details"`
}

// AllocationStrategy decides how an untargeted payment is spread across the
// scheduled months of a student fee.
type AllocationStrategy interface {
	Name() string
	Allocate(fee *StudentFee, amount valueobject.Money) (*AllocationResult, error)
}

// FIFOAllocationStrategy settles the oldest unpaid months first. Any amount
// left after every month is settled is reported as excess, not stored.
type FIFOAllocationStrategy struct{}

// NewFIFOAllocationStrategy creates a FIFO allocation strategy
func NewFIFOAllocationStrategy() *FIFOAllocationStrategy {
	return &FIFOAllocationStrategy{}
}

// Name returns the strategy name
func (s *FIFOAllocationStrategy) Name() string {
	return "FIFO"
}

// Allocate spreads the amount over unpaid months in chronological order,
// mutating the fee details and recomputing the aggregate totals.
func (s *FIFOAllocationStrategy) Allocate(fee *StudentFee, amount valueobject.Money) (*AllocationResult, error) {
	if fee.Status == StudentFeeWaived {
		return nil, shared.NewDomainError("FEE_WAIVED", "Cannot record payments against a waived fee")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_PAYMENT", "Payment amount must be positive")
	}
	if len(fee.Details) == 0 {
		return nil, shared.NewDomainError("NO_SCHEDULE", "Fee has no payment schedule to allocate against")
	}

	order := make([]*StudentFeeDetail, 0, len(fee.Details))
	for i := range fee.Details {
		order = append(order, &fee.Details[i])
	}
	sort.SliceStable(order, func(i, j int) bool {
		if order[i].Year != order[j].Year {
			return order[i].Year < order[j].Year
		}
		return order[i].Month < order[j].Month
	})

	result := &AllocationResult{
		AllocatedAmount: decimal.Zero,
		ExcessAmount:    decimal.Zero,
	}
	remaining := amount.Amount()
	for _, detail := range order {
		if !remaining.IsPositive() {
			break
		}
		outstanding := detail.Outstanding()
		if !outstanding.IsPositive() {
			continue
		}

		applied := decimal.Min(remaining, outstanding)
		detail.PaidAmount = detail.PaidAmount.Add(applied)
		detail.deriveStatus()
		detail.UpdatedAt = time.Now()

		result.Allocations = append(result.Allocations, Allocation{
			DetailID: detail.ID,
			Month:    detail.Month,
			Year:     detail.Year,
			Amount:   applied,
		})
		result.AllocatedAmount = result.AllocatedAmount.Add(applied)
		if detail.Status == DetailPaid {
			result.FullyPaidDetails++
		} else {
			result.PartiallyPaidDetails++
		}
		remaining = remaining.Sub(applied)
	}

	result.ExcessAmount = remaining
	if result.AllocatedAmount.IsPositive() {
		fee.Recompute()
	}
	return result, nil
}
