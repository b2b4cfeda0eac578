package payroll

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/schoolerp/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ComponentType represents whether a salary component adds to or subtracts
// from pay
type ComponentType string

const (
	ComponentEarning   ComponentType = "EARNING"
	ComponentDeduction ComponentType = "DEDUCTION"
)

// IsValid checks if the component type is valid
func (c ComponentType) IsValid() bool {
	return c == ComponentEarning || c == ComponentDeduction
}

// SalaryComponent is a school-defined pay head, e.g. "HRA 20%" or "PF 1800"
type SalaryComponent struct {
	shared.SchoolAggregateRoot
	Name         string        `json:"name"`
	Type         ComponentType `json:"type"`
	IsPercentage bool          `json:"is_percentage"`
	IsActive     bool          `json:"is_active"`
}

// NewSalaryComponent creates a salary component
func NewSalaryComponent(schoolID uuid.UUID, name string, componentType ComponentType, isPercentage bool) (*SalaryComponent, error) {
	if schoolID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SCHOOL", "School ID cannot be empty")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_COMPONENT_NAME", "Component name cannot be empty")
	}
	if !componentType.IsValid() {
		return nil, shared.NewDomainError("INVALID_COMPONENT_TYPE", "Component type must be EARNING or DEDUCTION")
	}

	return &SalaryComponent{
		SchoolAggregateRoot: shared.NewSchoolAggregateRoot(schoolID),
		Name:                name,
		Type:                componentType,
		IsPercentage:        isPercentage,
		IsActive:            true,
	}, nil
}

// SalaryStructureItem binds a component to a teacher's structure with its
// value. Percentage values are taken on the basic salary.
type SalaryStructureItem struct {
	shared.BaseEntity
	SalaryStructureID uuid.UUID       `json:"salary_structure_id"`
	ComponentID       uuid.UUID       `json:"component_id"`
	ComponentName     string          `json:"component_name"`
	Type              ComponentType   `json:"type"`
	IsPercentage      bool            `json:"is_percentage"`
	Value             decimal.Decimal `json:"value"`
}

// SalaryStructure is a teacher's agreed pay: a basic salary plus component
// items. One active structure per teacher at a time.
type SalaryStructure struct {
	shared.SchoolAggregateRoot
	TeacherID     uuid.UUID             `json:"teacher_id"`
	BasicSalary   decimal.Decimal       `json:"basic_salary"`
	EffectiveFrom time.Time             `json:"effective_from"`
	IsActive      bool                  `json:"is_active"`
	Items         []SalaryStructureItem `json:"items"`
}

// NewSalaryStructure creates a salary structure with its component items
func NewSalaryStructure(schoolID, teacherID uuid.UUID, basicSalary decimal.Decimal, effectiveFrom time.Time, items []SalaryStructureItem) (*SalaryStructure, error) {
	if schoolID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SCHOOL", "School ID cannot be empty")
	}
	if teacherID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TEACHER", "Teacher ID cannot be empty")
	}
	if !basicSalary.IsPositive() {
		return nil, shared.NewDomainError("INVALID_BASIC_SALARY", "Basic salary must be positive")
	}
	for _, item := range items {
		if !item.Type.IsValid() {
			return nil, shared.NewDomainError("INVALID_COMPONENT_TYPE", "Component type must be EARNING or DEDUCTION")
		}
		if item.Value.IsNegative() {
			return nil, shared.NewDomainError("INVALID_COMPONENT_VALUE", "Component value cannot be negative")
		}
	}

	ss := &SalaryStructure{
		SchoolAggregateRoot: shared.NewSchoolAggregateRoot(schoolID),
		TeacherID:           teacherID,
		BasicSalary:         basicSalary,
		EffectiveFrom:       effectiveFrom,
		IsActive:            true,
	}
	ss.Items = make([]SalaryStructureItem, len(items))
	for i, item := range items {
		item.BaseEntity = shared.NewBaseEntity()
		item.SalaryStructureID = ss.ID
		ss.Items[i] = item
	}
	return ss, nil
}

// Deactivate retires the structure when a revised one takes effect
func (ss *SalaryStructure) Deactivate() {
	ss.IsActive = false
	ss.IncrementVersion()
}
