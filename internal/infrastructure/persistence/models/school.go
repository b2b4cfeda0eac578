package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/schoolerp/backend/internal/domain/school"
	"github.com/shopspring/decimal"
)

// SchoolModel is the persistence model for the School aggregate root.
type SchoolModel struct {
	AggregateModel
	Code     string `gorm:"type:varchar(10);not null;uniqueIndex"`
	Name     string `gorm:"type:varchar(200);not null"`
	Address  string `gorm:"type:text"`
	Phone    string `gorm:"type:varchar(20)"`
	Email    string `gorm:"type:varchar(200)"`
	IsActive bool   `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (SchoolModel) TableName() string {
	return "schools"
}

// ToDomain converts the persistence model to a domain School entity.
func (m *SchoolModel) ToDomain() *school.School {
	return &school.School{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Code:              m.Code,
		Name:              m.Name,
		Address:           m.Address,
		Phone:             m.Phone,
		Email:             m.Email,
		IsActive:          m.IsActive,
	}
}

// FromDomain populates the persistence model from a domain School entity.
func (m *SchoolModel) FromDomain(s *school.School) {
	m.FromDomainAggregateRoot(s.BaseAggregateRoot)
	m.Code = s.Code
	m.Name = s.Name
	m.Address = s.Address
	m.Phone = s.Phone
	m.Email = s.Email
	m.IsActive = s.IsActive
}

// AcademicYearModel is the persistence model for the AcademicYear aggregate root.
type AcademicYearModel struct {
	SchoolAggregateModel
	Name      string    `gorm:"type:varchar(50);not null"`
	StartDate time.Time `gorm:"not null"`
	EndDate   time.Time `gorm:"not null"`
	IsActive  bool      `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (AcademicYearModel) TableName() string {
	return "academic_years"
}

// ToDomain converts the persistence model to a domain AcademicYear entity.
func (m *AcademicYearModel) ToDomain() *school.AcademicYear {
	return &school.AcademicYear{
		SchoolAggregateRoot: m.ToDomainSchoolAggregateRoot(),
		Name:                m.Name,
		StartDate:           m.StartDate,
		EndDate:             m.EndDate,
		IsActive:            m.IsActive,
	}
}

// FromDomain populates the persistence model from a domain AcademicYear entity.
func (m *AcademicYearModel) FromDomain(y *school.AcademicYear) {
	m.FromDomainSchoolAggregateRoot(y.SchoolAggregateRoot)
	m.Name = y.Name
	m.StartDate = y.StartDate
	m.EndDate = y.EndDate
	m.IsActive = y.IsActive
}

// GradeScaleModel is the persistence model for the GradeScale aggregate root.
type GradeScaleModel struct {
	SchoolAggregateModel
	Name     string           `gorm:"type:varchar(100);not null"`
	IsActive bool             `gorm:"not null;default:true;index"`
	Bands    []GradeBandModel `gorm:"foreignKey:GradeScaleID"`
}

// TableName returns the table name for GORM
func (GradeScaleModel) TableName() string {
	return "grade_scales"
}

// GradeBandModel is the persistence model for one row of a grade scale.
type GradeBandModel struct {
	BaseModel
	GradeScaleID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	MinPercentage decimal.Decimal `gorm:"type:decimal(7,4);not null"`
	MaxPercentage decimal.Decimal `gorm:"type:decimal(7,4);not null"`
	Name          string          `gorm:"type:varchar(10);not null"`
	GradePoint    decimal.Decimal `gorm:"type:decimal(5,2);not null"`
}

// TableName returns the table name for GORM
func (GradeBandModel) TableName() string {
	return "grade_bands"
}

// ToDomain converts the persistence model to a domain GradeScale entity.
func (m *GradeScaleModel) ToDomain() *school.GradeScale {
	gs := &school.GradeScale{
		SchoolAggregateRoot: m.ToDomainSchoolAggregateRoot(),
		Name:                m.Name,
		IsActive:            m.IsActive,
	}
	gs.Bands = make([]school.GradeBand, len(m.Bands))
	for i, b := range m.Bands {
		gs.Bands[i] = school.GradeBand{
			BaseEntity:    b.BaseModel.ToDomain(),
			GradeScaleID:  b.GradeScaleID,
			MinPercentage: b.MinPercentage,
			MaxPercentage: b.MaxPercentage,
			Name:          b.Name,
			GradePoint:    b.GradePoint,
		}
	}
	return gs
}

// FromDomain populates the persistence model from a domain GradeScale entity.
func (m *GradeScaleModel) FromDomain(gs *school.GradeScale) {
	m.FromDomainSchoolAggregateRoot(gs.SchoolAggregateRoot)
	m.Name = gs.Name
	m.IsActive = gs.IsActive
	m.Bands = make([]GradeBandModel, len(gs.Bands))
	for i, b := range gs.Bands {
		m.Bands[i] = GradeBandModel{
			GradeScaleID:  b.GradeScaleID,
			MinPercentage: b.MinPercentage,
			MaxPercentage: b.MaxPercentage,
			Name:          b.Name,
			GradePoint:    b.GradePoint,
		}
		m.Bands[i].FromDomainBaseEntity(b.BaseEntity)
	}
}

// HolidayModel is the persistence model for the Holiday aggregate root.
type HolidayModel struct {
	SchoolAggregateModel
	Name      string    `gorm:"type:varchar(100);not null"`
	StartDate time.Time `gorm:"not null;index"`
	EndDate   time.Time `gorm:"not null;index"`
	IsActive  bool      `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (HolidayModel) TableName() string {
	return "holidays"
}

// ToDomain converts the persistence model to a domain Holiday entity.
func (m *HolidayModel) ToDomain() *school.Holiday {
	return &school.Holiday{
		SchoolAggregateRoot: m.ToDomainSchoolAggregateRoot(),
		Name:                m.Name,
		StartDate:           m.StartDate,
		EndDate:             m.EndDate,
		IsActive:            m.IsActive,
	}
}

// FromDomain populates the persistence model from a domain Holiday entity.
func (m *HolidayModel) FromDomain(h *school.Holiday) {
	m.FromDomainSchoolAggregateRoot(h.SchoolAggregateRoot)
	m.Name = h.Name
	m.StartDate = h.StartDate
	m.EndDate = h.EndDate
	m.IsActive = h.IsActive
}
