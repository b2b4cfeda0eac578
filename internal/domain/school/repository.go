package school

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SchoolRepository defines persistence for schools
type SchoolRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*School, error)
	FindByCode(ctx context.Context, code string) (*School, error)
	Save(ctx context.Context, s *School) error
}

// AcademicYearRepository defines persistence for academic years
type AcademicYearRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*AcademicYear, error)
	FindByIDForSchool(ctx context.Context, schoolID, id uuid.UUID) (*AcademicYear, error)
	FindActiveForSchool(ctx context.Context, schoolID uuid.UUID) (*AcademicYear, error)
	Save(ctx context.Context, year *AcademicYear) error
}

// GradeScaleRepository defines persistence for grade scales
type GradeScaleRepository interface {
	FindActiveForSchool(ctx context.Context, schoolID uuid.UUID) (*GradeScale, error)
	Save(ctx context.Context, scale *GradeScale) error
}

// HolidayRepository defines persistence for holidays
type HolidayRepository interface {
	FindActiveInRange(ctx context.Context, schoolID uuid.UUID, from, to time.Time) ([]Holiday, error)
	Save(ctx context.Context, holiday *Holiday) error
}
