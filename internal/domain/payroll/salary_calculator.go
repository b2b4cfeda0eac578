package payroll

import (
	"github.com/google/uuid"
	"github.com/schoolerp/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// SalaryLine is one computed pay head of a monthly salary
type SalaryLine struct {
	ComponentID   uuid.UUID       `json:"component_id"`
	ComponentName string          `json:"component_name"`
	Type          ComponentType   `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
}

// SalaryCalculation is the outcome of running a structure through one
// month's attendance.
type SalaryCalculation struct {
	Lines           []SalaryLine    `json:"lines"`
	GrossEarnings   decimal.Decimal `json:"gross_earnings"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
	NetSalary       decimal.Decimal `json:"net_salary"`
	AttendanceRatio decimal.Decimal `json:"attendance_ratio"`
}

// SalaryCalculator computes attendance-prorated monthly pay. Earnings scale
// with days present; deductions are charged in full. Percentage components
// are taken on the full basic salary before proration.
type SalaryCalculator struct {
	clampNetAtZero bool
}

// NewSalaryCalculator creates a salary calculator. With clampNetAtZero a
// month whose deductions exceed its earnings nets to zero instead of a
// negative carry.
func NewSalaryCalculator(clampNetAtZero bool) *SalaryCalculator {
	return &SalaryCalculator{clampNetAtZero: clampNetAtZero}
}

// Calculate produces the month's pay lines and totals. With workingDays
// zero or below, proration is skipped and the full structure is paid.
func (c *SalaryCalculator) Calculate(structure *SalaryStructure, presentDays decimal.Decimal, workingDays int) (*SalaryCalculation, error) {
	if structure == nil {
		return nil, shared.NewDomainError("INVALID_STRUCTURE", "Salary structure cannot be nil")
	}
	if presentDays.IsNegative() {
		return nil, shared.NewDomainError("INVALID_ATTENDANCE", "Present days cannot be negative")
	}

	ratio := decimal.NewFromInt(1)
	if workingDays > 0 {
		days := decimal.NewFromInt(int64(workingDays))
		if presentDays.GreaterThan(days) {
			return nil, shared.NewDomainError("INVALID_ATTENDANCE", "Present days cannot exceed working days")
		}
		ratio = presentDays.Div(days)
	}

	calc := &SalaryCalculation{
		GrossEarnings:   decimal.Zero,
		TotalDeductions: decimal.Zero,
		AttendanceRatio: ratio,
	}

	basic := structure.BasicSalary.Mul(ratio).Round(2)
	calc.Lines = append(calc.Lines, SalaryLine{
		ComponentName: "Basic",
		Type:          ComponentEarning,
		Amount:        basic,
	})
	calc.GrossEarnings = calc.GrossEarnings.Add(basic)

	hundred := decimal.NewFromInt(100)
	for _, item := range structure.Items {
		amount := item.Value
		if item.IsPercentage {
			amount = structure.BasicSalary.Mul(item.Value).Div(hundred)
		}
		if item.Type == ComponentEarning {
			amount = amount.Mul(ratio)
		}
		amount = amount.Round(2)

		calc.Lines = append(calc.Lines, SalaryLine{
			ComponentID:   item.ComponentID,
			ComponentName: item.ComponentName,
			Type:          item.Type,
			Amount:        amount,
		})
		if item.Type == ComponentEarning {
			calc.GrossEarnings = calc.GrossEarnings.Add(amount)
		} else {
			calc.TotalDeductions = calc.TotalDeductions.Add(amount)
		}
	}

	calc.GrossEarnings = calc.GrossEarnings.Round(2)
	calc.TotalDeductions = calc.TotalDeductions.Round(2)
	calc.NetSalary = calc.GrossEarnings.Sub(calc.TotalDeductions).Round(2)
	if c.clampNetAtZero && calc.NetSalary.IsNegative() {
		calc.NetSalary = decimal.Zero
	}
	return calc, nil
}
