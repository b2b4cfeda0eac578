package school

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/schoolerp/backend/internal/domain/shared"
)

// AcademicYear defines the date range that fee schedules and exams are scoped
// to, e.g. "2024-25" running June 2024 through April 2025.
type AcademicYear struct {
	shared.SchoolAggregateRoot
	Name      string    `json:"name"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	IsActive  bool      `json:"is_active"`
}

// NewAcademicYear creates a new academic year
func NewAcademicYear(schoolID uuid.UUID, name string, startDate, endDate time.Time) (*AcademicYear, error) {
	if schoolID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SCHOOL", "School ID cannot be empty")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_YEAR_NAME", "Academic year name cannot be empty")
	}
	if endDate.Before(startDate) {
		return nil, shared.NewDomainError("INVALID_DATE_RANGE", "Academic year end date cannot be before start date")
	}

	return &AcademicYear{
		SchoolAggregateRoot: shared.NewSchoolAggregateRoot(schoolID),
		Name:                name,
		StartDate:           startDate,
		EndDate:             endDate,
		IsActive:            true,
	}, nil
}

// Contains reports whether the given date falls within the academic year
func (y *AcademicYear) Contains(date time.Time) bool {
	return !date.Before(y.StartDate) && !date.After(y.EndDate)
}

// MonthCount returns the number of calendar months the year spans, counting
// both the start and end months. A start after the end yields zero.
func (y *AcademicYear) MonthCount() int {
	if y.StartDate.After(y.EndDate) {
		return 0
	}
	start := y.StartDate.Year()*12 + int(y.StartDate.Month())
	end := y.EndDate.Year()*12 + int(y.EndDate.Month())
	return end - start + 1
}
