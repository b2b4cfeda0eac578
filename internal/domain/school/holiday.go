package school

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/schoolerp/backend/internal/domain/shared"
)

// Holiday is a school closure period. Active holidays reduce the effective
// working days used by payroll attendance proration.
type Holiday struct {
	shared.SchoolAggregateRoot
	Name      string    `json:"name"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	IsActive  bool      `json:"is_active"`
}

// NewHoliday creates a new holiday
func NewHoliday(schoolID uuid.UUID, name string, startDate, endDate time.Time) (*Holiday, error) {
	if schoolID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SCHOOL", "School ID cannot be empty")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_HOLIDAY_NAME", "Holiday name cannot be empty")
	}
	if endDate.Before(startDate) {
		return nil, shared.NewDomainError("INVALID_DATE_RANGE", "Holiday end date cannot be before start date")
	}

	return &Holiday{
		SchoolAggregateRoot: shared.NewSchoolAggregateRoot(schoolID),
		Name:                name,
		StartDate:           startDate,
		EndDate:             endDate,
		IsActive:            true,
	}, nil
}

// DaysInMonth returns how many days of the holiday fall within the given
// month and year.
func (h *Holiday) DaysInMonth(month time.Month, year int) int {
	monthStart := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, -1)

	start := h.StartDate
	if start.Before(monthStart) {
		start = monthStart
	}
	end := h.EndDate
	if end.After(monthEnd) {
		end = monthEnd
	}
	if end.Before(start) {
		return 0
	}
	return int(end.Sub(start).Hours()/24) + 1
}
