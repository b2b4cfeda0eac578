package payroll

import (
	"time"

	"github.com/google/uuid"
	"github.com/schoolerp/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AttendanceStatus represents one day of a teacher's attendance
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "PRESENT"
	AttendanceAbsent  AttendanceStatus = "ABSENT"
	AttendanceLate    AttendanceStatus = "LATE"
	AttendanceHalfDay AttendanceStatus = "HALF_DAY"
	AttendanceOnLeave AttendanceStatus = "ON_LEAVE"
)

// IsValid checks if the attendance status is valid
func (s AttendanceStatus) IsValid() bool {
	switch s {
	case AttendancePresent, AttendanceAbsent, AttendanceLate, AttendanceHalfDay, AttendanceOnLeave:
		return true
	}
	return false
}

// TeacherAttendance is one teacher's attendance mark for one day
type TeacherAttendance struct {
	shared.SchoolAggregateRoot
	TeacherID uuid.UUID        `json:"teacher_id"`
	Date      time.Time        `json:"date"`
	Status    AttendanceStatus `json:"status"`
}

// NewTeacherAttendance records a day's attendance
func NewTeacherAttendance(schoolID, teacherID uuid.UUID, day time.Time, status AttendanceStatus) (*TeacherAttendance, error) {
	if schoolID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SCHOOL", "School ID cannot be empty")
	}
	if teacherID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TEACHER", "Teacher ID cannot be empty")
	}
	if day.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATE", "Attendance date cannot be empty")
	}
	if !status.IsValid() {
		return nil, shared.NewDomainError("INVALID_STATUS", "Attendance status is not valid")
	}

	return &TeacherAttendance{
		SchoolAggregateRoot: shared.NewSchoolAggregateRoot(schoolID),
		TeacherID:           teacherID,
		Date:                day,
		Status:              status,
	}, nil
}

// AttendanceSummary is the payroll view of a month of attendance marks
type AttendanceSummary struct {
	PresentDays decimal.Decimal `json:"present_days"`
	LeaveDays   int             `json:"leave_days"`
	AbsentDays  int             `json:"absent_days"`
	HalfDays    int             `json:"half_days"`
	LateDays    int             `json:"late_days"`
}

// Summarize folds attendance marks into payable days. A late mark pays as a
// full day; a half day pays half.
func Summarize(records []TeacherAttendance) AttendanceSummary {
	half := decimal.NewFromFloat(0.5)
	s := AttendanceSummary{PresentDays: decimal.Zero}
	for _, r := range records {
		switch r.Status {
		case AttendancePresent:
			s.PresentDays = s.PresentDays.Add(decimal.NewFromInt(1))
		case AttendanceLate:
			s.PresentDays = s.PresentDays.Add(decimal.NewFromInt(1))
			s.LateDays++
		case AttendanceHalfDay:
			s.PresentDays = s.PresentDays.Add(half)
			s.HalfDays++
		case AttendanceOnLeave:
			s.LeaveDays++
		case AttendanceAbsent:
			s.AbsentDays++
		}
	}
	return s
}

// EffectiveWorkingDays subtracts school holidays from the month's working
// days, never going below one day.
func EffectiveWorkingDays(workingDays, holidayDays int) int {
	effective := workingDays - holidayDays
	if effective < 1 {
		return 1
	}
	return effective
}
