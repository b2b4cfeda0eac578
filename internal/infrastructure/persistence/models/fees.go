package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/schoolerp/backend/internal/domain/fees"
	"github.com/shopspring/decimal"
)

// FeeStructureModel is the persistence model for the FeeStructure aggregate root.
type FeeStructureModel struct {
	SchoolAggregateModel
	Name            string                  `gorm:"type:varchar(200);not null"`
	ClassID         uuid.UUID               `gorm:"type:uuid;not null;uniqueIndex:idx_fee_structure_class_year,priority:1"`
	AcademicYearID  uuid.UUID               `gorm:"type:uuid;not null;uniqueIndex:idx_fee_structure_class_year,priority:2"`
	TotalAmount     decimal.Decimal         `gorm:"type:decimal(18,4);not null"`
	DueDay          int                     `gorm:"not null"`
	LateFeePercent  decimal.Decimal         `gorm:"type:decimal(7,4);not null;default:0"`
	LateFeeFixed    decimal.Decimal         `gorm:"type:decimal(18,4);not null;default:0"`
	GracePeriodDays int                     `gorm:"not null;default:0"`
	Items           []FeeStructureItemModel `gorm:"foreignKey:FeeStructureID"`
}

// TableName returns the table name for GORM
func (FeeStructureModel) TableName() string {
	return "fee_structures"
}

// FeeStructureItemModel is the persistence model for one category line of a fee structure.
type FeeStructureItemModel struct {
	BaseModel
	FeeStructureID uuid.UUID         `gorm:"type:uuid;not null;index"`
	CategoryID     uuid.UUID         `gorm:"type:uuid;not null"`
	CategoryName   string            `gorm:"type:varchar(100);not null"`
	Amount         decimal.Decimal   `gorm:"type:decimal(18,4);not null"`
	Frequency      fees.FeeFrequency `gorm:"type:varchar(20);not null"`
}

// TableName returns the table name for GORM
func (FeeStructureItemModel) TableName() string {
	return "fee_structure_items"
}

// ToDomain converts the persistence model to a domain FeeStructure entity.
func (m *FeeStructureModel) ToDomain() *fees.FeeStructure {
	fs := &fees.FeeStructure{
		SchoolAggregateRoot: m.ToDomainSchoolAggregateRoot(),
		Name:                m.Name,
		ClassID:             m.ClassID,
		AcademicYearID:      m.AcademicYearID,
		TotalAmount:         m.TotalAmount,
		DueDay:              m.DueDay,
		LateFeePercent:      m.LateFeePercent,
		LateFeeFixed:        m.LateFeeFixed,
		GracePeriodDays:     m.GracePeriodDays,
	}
	fs.Items = make([]fees.FeeStructureItem, len(m.Items))
	for i, item := range m.Items {
		fs.Items[i] = fees.FeeStructureItem{
			BaseEntity:     item.BaseModel.ToDomain(),
			FeeStructureID: item.FeeStructureID,
			CategoryID:     item.CategoryID,
			CategoryName:   item.CategoryName,
			Amount:         item.Amount,
			Frequency:      item.Frequency,
		}
	}
	return fs
}

// FromDomain populates the persistence model from a domain FeeStructure entity.
func (m *FeeStructureModel) FromDomain(fs *fees.FeeStructure) {
	m.FromDomainSchoolAggregateRoot(fs.SchoolAggregateRoot)
	m.Name = fs.Name
	m.ClassID = fs.ClassID
	m.AcademicYearID = fs.AcademicYearID
	m.TotalAmount = fs.TotalAmount
	m.DueDay = fs.DueDay
	m.LateFeePercent = fs.LateFeePercent
	m.LateFeeFixed = fs.LateFeeFixed
	m.GracePeriodDays = fs.GracePeriodDays
	m.Items = make([]FeeStructureItemModel, len(fs.Items))
	for i, item := range fs.Items {
		m.Items[i] = FeeStructureItemModel{
			FeeStructureID: item.FeeStructureID,
			CategoryID:     item.CategoryID,
			CategoryName:   item.CategoryName,
			Amount:         item.Amount,
			Frequency:      item.Frequency,
		}
		m.Items[i].FromDomainBaseEntity(item.BaseEntity)
	}
}

// FeeDiscountModel is the persistence model for the FeeDiscount aggregate root.
type FeeDiscountModel struct {
	SchoolAggregateModel
	StudentID      uuid.UUID         `gorm:"type:uuid;not null;index:idx_fee_discount_student_year,priority:1"`
	AcademicYearID uuid.UUID         `gorm:"type:uuid;not null;index:idx_fee_discount_student_year,priority:2"`
	FeeCategoryID  *uuid.UUID        `gorm:"type:uuid"`
	Name           string            `gorm:"type:varchar(100);not null"`
	Type           fees.DiscountType `gorm:"type:varchar(20);not null"`
	Value          decimal.Decimal   `gorm:"type:decimal(18,4);not null"`
	IsActive       bool              `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (FeeDiscountModel) TableName() string {
	return "fee_discounts"
}

// ToDomain converts the persistence model to a domain FeeDiscount entity.
func (m *FeeDiscountModel) ToDomain() *fees.FeeDiscount {
	return &fees.FeeDiscount{
		SchoolAggregateRoot: m.ToDomainSchoolAggregateRoot(),
		StudentID:           m.StudentID,
		AcademicYearID:      m.AcademicYearID,
		FeeCategoryID:       m.FeeCategoryID,
		Name:                m.Name,
		Type:                m.Type,
		Value:               m.Value,
		IsActive:            m.IsActive,
	}
}

// FromDomain populates the persistence model from a domain FeeDiscount entity.
func (m *FeeDiscountModel) FromDomain(d *fees.FeeDiscount) {
	m.FromDomainSchoolAggregateRoot(d.SchoolAggregateRoot)
	m.StudentID = d.StudentID
	m.AcademicYearID = d.AcademicYearID
	m.FeeCategoryID = d.FeeCategoryID
	m.Name = d.Name
	m.Type = d.Type
	m.Value = d.Value
	m.IsActive = d.IsActive
}

// StudentFeeModel is the persistence model for the StudentFee aggregate root.
type StudentFeeModel struct {
	SchoolAggregateModel
	StudentID      uuid.UUID               `gorm:"type:uuid;not null;uniqueIndex:idx_student_fee_year,priority:1"`
	FeeStructureID uuid.UUID               `gorm:"type:uuid;not null;index"`
	AcademicYearID uuid.UUID               `gorm:"type:uuid;not null;uniqueIndex:idx_student_fee_year,priority:2"`
	TotalAmount    decimal.Decimal         `gorm:"type:decimal(18,4);not null"`
	DiscountAmount decimal.Decimal         `gorm:"type:decimal(18,4);not null;default:0"`
	LateFeeAmount  decimal.Decimal         `gorm:"type:decimal(18,4);not null;default:0"`
	PaidAmount     decimal.Decimal         `gorm:"type:decimal(18,4);not null;default:0"`
	Status         fees.StudentFeeStatus   `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	WaiveReason    string                  `gorm:"type:varchar(500)"`
	Details        []StudentFeeDetailModel `gorm:"foreignKey:StudentFeeID"`
}

// TableName returns the table name for GORM
func (StudentFeeModel) TableName() string {
	return "student_fees"
}

// StudentFeeDetailModel is the persistence model for one scheduled month of a student fee.
type StudentFeeDetailModel struct {
	BaseModel
	StudentFeeID uuid.UUID            `gorm:"type:uuid;not null;index"`
	Month        int                  `gorm:"not null"`
	Year         int                  `gorm:"not null"`
	Amount       decimal.Decimal      `gorm:"type:decimal(18,4);not null"`
	LateFee      decimal.Decimal      `gorm:"type:decimal(18,4);not null;default:0"`
	PaidAmount   decimal.Decimal      `gorm:"type:decimal(18,4);not null;default:0"`
	DueDate      time.Time            `gorm:"not null;index"`
	Status       fees.FeeDetailStatus `gorm:"type:varchar(20);not null;default:'PENDING';index"`
}

// TableName returns the table name for GORM
func (StudentFeeDetailModel) TableName() string {
	return "student_fee_details"
}

// ToDomain converts the persistence model to a domain StudentFee entity.
func (m *StudentFeeModel) ToDomain() *fees.StudentFee {
	sf := &fees.StudentFee{
		SchoolAggregateRoot: m.ToDomainSchoolAggregateRoot(),
		StudentID:           m.StudentID,
		FeeStructureID:      m.FeeStructureID,
		AcademicYearID:      m.AcademicYearID,
		TotalAmount:         m.TotalAmount,
		DiscountAmount:      m.DiscountAmount,
		LateFeeAmount:       m.LateFeeAmount,
		PaidAmount:          m.PaidAmount,
		Status:              m.Status,
		WaiveReason:         m.WaiveReason,
	}
	sf.Details = make([]fees.StudentFeeDetail, len(m.Details))
	for i, d := range m.Details {
		sf.Details[i] = fees.StudentFeeDetail{
			BaseEntity:   d.BaseModel.ToDomain(),
			StudentFeeID: d.StudentFeeID,
			Month:        d.Month,
			Year:         d.Year,
			Amount:       d.Amount,
			LateFee:      d.LateFee,
			PaidAmount:   d.PaidAmount,
			DueDate:      d.DueDate,
			Status:       d.Status,
		}
	}
	return sf
}

// FromDomain populates the persistence model from a domain StudentFee entity.
func (m *StudentFeeModel) FromDomain(sf *fees.StudentFee) {
	m.FromDomainSchoolAggregateRoot(sf.SchoolAggregateRoot)
	m.StudentID = sf.StudentID
	m.FeeStructureID = sf.FeeStructureID
	m.AcademicYearID = sf.AcademicYearID
	m.TotalAmount = sf.TotalAmount
	m.DiscountAmount = sf.DiscountAmount
	m.LateFeeAmount = sf.LateFeeAmount
	m.PaidAmount = sf.PaidAmount
	m.Status = sf.Status
	m.WaiveReason = sf.WaiveReason
	m.Details = make([]StudentFeeDetailModel, len(sf.Details))
	for i, d := range sf.Details {
		m.Details[i] = StudentFeeDetailModel{
			StudentFeeID: d.StudentFeeID,
			Month:        d.Month,
			Year:         d.Year,
			Amount:       d.Amount,
			LateFee:      d.LateFee,
			PaidAmount:   d.PaidAmount,
			DueDate:      d.DueDate,
			Status:       d.Status,
		}
		m.Details[i].FromDomainBaseEntity(d.BaseEntity)
	}
}

// FeePaymentModel is the persistence model for the FeePayment aggregate root.
type FeePaymentModel struct {
	SchoolAggregateModel
	StudentFeeID  uuid.UUID          `gorm:"type:uuid;not null;index"`
	DetailID      uuid.UUID          `gorm:"type:uuid;not null;index"`
	StudentID     uuid.UUID          `gorm:"type:uuid;not null;index"`
	Amount        decimal.Decimal    `gorm:"type:decimal(18,4);not null"`
	Method        fees.PaymentMethod `gorm:"type:varchar(20);not null"`
	ReceiptNumber string             `gorm:"type:varchar(50);not null;uniqueIndex"`
	PaymentDate   time.Time          `gorm:"not null;index"`
	Reference     string             `gorm:"type:varchar(200)"`
	Notes         string             `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (FeePaymentModel) TableName() string {
	return "fee_payments"
}

// ToDomain converts the persistence model to a domain FeePayment entity.
func (m *FeePaymentModel) ToDomain() *fees.FeePayment {
	return &fees.FeePayment{
		SchoolAggregateRoot: m.ToDomainSchoolAggregateRoot(),
		StudentFeeID:        m.StudentFeeID,
		DetailID:            m.DetailID,
		StudentID:           m.StudentID,
		Amount:              m.Amount,
		Method:              m.Method,
		ReceiptNumber:       m.ReceiptNumber,
		PaymentDate:         m.PaymentDate,
		Reference:           m.Reference,
		Notes:               m.Notes,
	}
}

// FromDomain populates the persistence model from a domain FeePayment entity.
func (m *FeePaymentModel) FromDomain(p *fees.FeePayment) {
	m.FromDomainSchoolAggregateRoot(p.SchoolAggregateRoot)
	m.StudentFeeID = p.StudentFeeID
	m.DetailID = p.DetailID
	m.StudentID = p.StudentID
	m.Amount = p.Amount
	m.Method = p.Method
	m.ReceiptNumber = p.ReceiptNumber
	m.PaymentDate = p.PaymentDate
	m.Reference = p.Reference
	m.Notes = p.Notes
}
