package payroll

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SalaryComponentRepository defines persistence for salary components
type SalaryComponentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*SalaryComponent, error)
	FindActiveForSchool(ctx context.Context, schoolID uuid.UUID) ([]SalaryComponent, error)
	Save(ctx context.Context, c *SalaryComponent) error
}

// SalaryStructureRepository defines persistence for salary structures. Save
// persists the aggregate together with its items.
type SalaryStructureRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*SalaryStructure, error)
	FindActiveForTeacher(ctx context.Context, schoolID, teacherID uuid.UUID) (*SalaryStructure, error)
	Save(ctx context.Context, ss *SalaryStructure) error
}

// TeacherAttendanceRepository defines persistence for attendance marks.
// Save upserts on (teacher, date).
type TeacherAttendanceRepository interface {
	FindForTeacherInRange(ctx context.Context, schoolID, teacherID uuid.UUID, from, to time.Time) ([]TeacherAttendance, error)
	Save(ctx context.Context, a *TeacherAttendance) error
}

// TeacherSalaryRepository defines persistence for processed salaries. Save
// persists the aggregate together with its detail rows.
type TeacherSalaryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*TeacherSalary, error)
	FindByIDForSchool(ctx context.Context, schoolID, id uuid.UUID) (*TeacherSalary, error)
	FindByTeacherAndMonth(ctx context.Context, schoolID, teacherID uuid.UUID, month, year int) (*TeacherSalary, error)
	FindByMonth(ctx context.Context, schoolID uuid.UUID, month, year int) ([]TeacherSalary, error)
	Save(ctx context.Context, ts *TeacherSalary) error
}

// SalaryPaymentRepository defines persistence for salary disbursements
type SalaryPaymentRepository interface {
	FindBySalary(ctx context.Context, schoolID, teacherSalaryID uuid.UUID) ([]SalaryPayment, error)
	Save(ctx context.Context, p *SalaryPayment) error
}
