package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/schoolerp/backend/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

// SalaryComponentModel is the persistence model for the SalaryComponent aggregate root.
type SalaryComponentModel struct {
	SchoolAggregateModel
	Name         string                `gorm:"type:varchar(100);not null"`
	Type         payroll.ComponentType `gorm:"type:varchar(20);not null"`
	IsPercentage bool                  `gorm:"not null;default:false"`
	IsActive     bool                  `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (SalaryComponentModel) TableName() string {
	return "salary_components"
}

// ToDomain converts the persistence model to a domain SalaryComponent entity.
func (m *SalaryComponentModel) ToDomain() *payroll.SalaryComponent {
	return &payroll.SalaryComponent{
		SchoolAggregateRoot: m.ToDomainSchoolAggregateRoot(),
		Name:                m.Name,
		Type:                m.Type,
		IsPercentage:        m.IsPercentage,
		IsActive:            m.IsActive,
	}
}

// FromDomain populates the persistence model from a domain SalaryComponent entity.
func (m *SalaryComponentModel) FromDomain(c *payroll.SalaryComponent) {
	m.FromDomainSchoolAggregateRoot(c.SchoolAggregateRoot)
	m.Name = c.Name
	m.Type = c.Type
	m.IsPercentage = c.IsPercentage
	m.IsActive = c.IsActive
}

// SalaryStructureModel is the persistence model for the SalaryStructure aggregate root.
type SalaryStructureModel struct {
	SchoolAggregateModel
	TeacherID     uuid.UUID                  `gorm:"type:uuid;not null;index"`
	BasicSalary   decimal.Decimal            `gorm:"type:decimal(18,4);not null"`
	EffectiveFrom time.Time                  `gorm:"not null"`
	IsActive      bool                       `gorm:"not null;default:true;index"`
	Items         []SalaryStructureItemModel `gorm:"foreignKey:SalaryStructureID"`
}

// TableName returns the table name for GORM
func (SalaryStructureModel) TableName() string {
	return "salary_structures"
}

// SalaryStructureItemModel is the persistence model for one component item of a salary structure.
type SalaryStructureItemModel struct {
	BaseModel
	SalaryStructureID uuid.UUID             `gorm:"type:uuid;not null;index"`
	ComponentID       uuid.UUID             `gorm:"type:uuid;not null"`
	ComponentName     string                `gorm:"type:varchar(100);not null"`
	Type              payroll.ComponentType `gorm:"type:varchar(20);not null"`
	IsPercentage      bool                  `gorm:"not null;default:false"`
	Value             decimal.Decimal       `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (SalaryStructureItemModel) TableName() string {
	return "salary_structure_items"
}

// ToDomain converts the persistence model to a domain SalaryStructure entity.
func (m *SalaryStructureModel) ToDomain() *payroll.SalaryStructure {
	ss := &payroll.SalaryStructure{
		SchoolAggregateRoot: m.ToDomainSchoolAggregateRoot(),
		TeacherID:           m.TeacherID,
		BasicSalary:         m.BasicSalary,
		EffectiveFrom:       m.EffectiveFrom,
		IsActive:            m.IsActive,
	}
	ss.Items = make([]payroll.SalaryStructureItem, len(m.Items))
	for i, item := range m.Items {
		ss.Items[i] = payroll.SalaryStructureItem{
			BaseEntity:        item.BaseModel.ToDomain(),
			SalaryStructureID: item.SalaryStructureID,
			ComponentID:       item.ComponentID,
			ComponentName:     item.ComponentName,
			Type:              item.Type,
			IsPercentage:      item.IsPercentage,
			Value:             item.Value,
		}
	}
	return ss
}

// FromDomain populates the persistence model from a domain SalaryStructure entity.
func (m *SalaryStructureModel) FromDomain(ss *payroll.SalaryStructure) {
	m.FromDomainSchoolAggregateRoot(ss.SchoolAggregateRoot)
	m.TeacherID = ss.TeacherID
	m.BasicSalary = ss.BasicSalary
	m.EffectiveFrom = ss.EffectiveFrom
	m.IsActive = ss.IsActive
	m.Items = make([]SalaryStructureItemModel, len(ss.Items))
	for i, item := range ss.Items {
		m.Items[i] = SalaryStructureItemModel{
			SalaryStructureID: item.SalaryStructureID,
			ComponentID:       item.ComponentID,
			ComponentName:     item.ComponentName,
			Type:              item.Type,
			IsPercentage:      item.IsPercentage,
			Value:             item.Value,
		}
		m.Items[i].FromDomainBaseEntity(item.BaseEntity)
	}
}

// TeacherAttendanceModel is the persistence model for the TeacherAttendance aggregate root.
type TeacherAttendanceModel struct {
	SchoolAggregateModel
	TeacherID uuid.UUID                `gorm:"type:uuid;not null;uniqueIndex:idx_attendance_teacher_date,priority:1"`
	Date      time.Time                `gorm:"not null;uniqueIndex:idx_attendance_teacher_date,priority:2"`
	Status    payroll.AttendanceStatus `gorm:"type:varchar(20);not null"`
}

// TableName returns the table name for GORM
func (TeacherAttendanceModel) TableName() string {
	return "teacher_attendances"
}

// ToDomain converts the persistence model to a domain TeacherAttendance entity.
func (m *TeacherAttendanceModel) ToDomain() *payroll.TeacherAttendance {
	return &payroll.TeacherAttendance{
		SchoolAggregateRoot: m.ToDomainSchoolAggregateRoot(),
		TeacherID:           m.TeacherID,
		Date:                m.Date,
		Status:              m.Status,
	}
}

// FromDomain populates the persistence model from a domain TeacherAttendance entity.
func (m *TeacherAttendanceModel) FromDomain(a *payroll.TeacherAttendance) {
	m.FromDomainSchoolAggregateRoot(a.SchoolAggregateRoot)
	m.TeacherID = a.TeacherID
	m.Date = a.Date
	m.Status = a.Status
}

// TeacherSalaryModel is the persistence model for the TeacherSalary aggregate root.
type TeacherSalaryModel struct {
	SchoolAggregateModel
	TeacherID       uuid.UUID                  `gorm:"type:uuid;not null;uniqueIndex:idx_salary_teacher_month,priority:1"`
	Month           int                        `gorm:"not null;uniqueIndex:idx_salary_teacher_month,priority:2"`
	Year            int                        `gorm:"not null;uniqueIndex:idx_salary_teacher_month,priority:3"`
	WorkingDays     int                        `gorm:"not null"`
	PresentDays     decimal.Decimal            `gorm:"type:decimal(5,1);not null"`
	GrossEarnings   decimal.Decimal            `gorm:"type:decimal(18,4);not null"`
	TotalDeductions decimal.Decimal            `gorm:"type:decimal(18,4);not null"`
	NetSalary       decimal.Decimal            `gorm:"type:decimal(18,4);not null"`
	PaidAmount      decimal.Decimal            `gorm:"type:decimal(18,4);not null;default:0"`
	Status          payroll.SalaryStatus       `gorm:"type:varchar(20);not null;default:'PROCESSED';index"`
	Details         []TeacherSalaryDetailModel `gorm:"foreignKey:TeacherSalaryID"`
}

// TableName returns the table name for GORM
func (TeacherSalaryModel) TableName() string {
	return "teacher_salaries"
}

// TeacherSalaryDetailModel is the persistence model for one frozen pay head.
type TeacherSalaryDetailModel struct {
	BaseModel
	TeacherSalaryID uuid.UUID             `gorm:"type:uuid;not null;index"`
	ComponentID     uuid.UUID             `gorm:"type:uuid"`
	ComponentName   string                `gorm:"type:varchar(100);not null"`
	Type            payroll.ComponentType `gorm:"type:varchar(20);not null"`
	Amount          decimal.Decimal       `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (TeacherSalaryDetailModel) TableName() string {
	return "teacher_salary_details"
}

// ToDomain converts the persistence model to a domain TeacherSalary entity.
func (m *TeacherSalaryModel) ToDomain() *payroll.TeacherSalary {
	ts := &payroll.TeacherSalary{
		SchoolAggregateRoot: m.ToDomainSchoolAggregateRoot(),
		TeacherID:           m.TeacherID,
		Month:               m.Month,
		Year:                m.Year,
		WorkingDays:         m.WorkingDays,
		PresentDays:         m.PresentDays,
		GrossEarnings:       m.GrossEarnings,
		TotalDeductions:     m.TotalDeductions,
		NetSalary:           m.NetSalary,
		PaidAmount:          m.PaidAmount,
		Status:              m.Status,
	}
	ts.Details = make([]payroll.TeacherSalaryDetail, len(m.Details))
	for i, d := range m.Details {
		ts.Details[i] = payroll.TeacherSalaryDetail{
			BaseEntity:      d.BaseModel.ToDomain(),
			TeacherSalaryID: d.TeacherSalaryID,
			ComponentID:     d.ComponentID,
			ComponentName:   d.ComponentName,
			Type:            d.Type,
			Amount:          d.Amount,
		}
	}
	return ts
}

// FromDomain populates the persistence model from a domain TeacherSalary entity.
func (m *TeacherSalaryModel) FromDomain(ts *payroll.TeacherSalary) {
	m.FromDomainSchoolAggregateRoot(ts.SchoolAggregateRoot)
	m.TeacherID = ts.TeacherID
	m.Month = ts.Month
	m.Year = ts.Year
	m.WorkingDays = ts.WorkingDays
	m.PresentDays = ts.PresentDays
	m.GrossEarnings = ts.GrossEarnings
	m.TotalDeductions = ts.TotalDeductions
	m.NetSalary = ts.NetSalary
	m.PaidAmount = ts.PaidAmount
	m.Status = ts.Status
	m.Details = make([]TeacherSalaryDetailModel, len(ts.Details))
	for i, d := range ts.Details {
		m.Details[i] = TeacherSalaryDetailModel{
			TeacherSalaryID: d.TeacherSalaryID,
			ComponentID:     d.ComponentID,
			ComponentName:   d.ComponentName,
			Type:            d.Type,
			Amount:          d.Amount,
		}
		m.Details[i].FromDomainBaseEntity(d.BaseEntity)
	}
}

// SalaryPaymentModel is the persistence model for the SalaryPayment aggregate root.
type SalaryPaymentModel struct {
	SchoolAggregateModel
	TeacherSalaryID uuid.UUID            `gorm:"type:uuid;not null;index"`
	TeacherID       uuid.UUID            `gorm:"type:uuid;not null;index"`
	Amount          decimal.Decimal      `gorm:"type:decimal(18,4);not null"`
	Method          payroll.PayoutMethod `gorm:"type:varchar(20);not null"`
	PaymentDate     time.Time            `gorm:"not null;index"`
	Reference       string               `gorm:"type:varchar(200)"`
}

// TableName returns the table name for GORM
func (SalaryPaymentModel) TableName() string {
	return "salary_payments"
}

// ToDomain converts the persistence model to a domain SalaryPayment entity.
func (m *SalaryPaymentModel) ToDomain() *payroll.SalaryPayment {
	return &payroll.SalaryPayment{
		SchoolAggregateRoot: m.ToDomainSchoolAggregateRoot(),
		TeacherSalaryID:     m.TeacherSalaryID,
		TeacherID:           m.TeacherID,
		Amount:              m.Amount,
		Method:              m.Method,
		PaymentDate:         m.PaymentDate,
		Reference:           m.Reference,
	}
}

// FromDomain populates the persistence model from a domain SalaryPayment entity.
func (m *SalaryPaymentModel) FromDomain(p *payroll.SalaryPayment) {
	m.FromDomainSchoolAggregateRoot(p.SchoolAggregateRoot)
	m.TeacherSalaryID = p.TeacherSalaryID
	m.TeacherID = p.TeacherID
	m.Amount = p.Amount
	m.Method = p.Method
	m.PaymentDate = p.PaymentDate
	m.Reference = p.Reference
}
