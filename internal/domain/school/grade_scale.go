package school

import (
	"strings"

	"github.com/google/uuid"
	"github.com/schoolerp/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// GradeBand is a single row of a grade scale: percentages in
// [MinPercentage, MaxPercentage] map to the band's grade label and point.
type GradeBand struct {
	shared.BaseEntity
	GradeScaleID  uuid.UUID       `json:"grade_scale_id"`
	MinPercentage decimal.Decimal `json:"min_percentage"`
	MaxPercentage decimal.Decimal `json:"max_percentage"`
	Name          string          `json:"name"`
	GradePoint    decimal.Decimal `json:"grade_point"`
}

// GradeScale is a school's ordered set of grade bands used to label exam
// percentages. Bands must not overlap so that lookup is deterministic; the
// lookup itself still returns the first matching band.
type GradeScale struct {
	shared.SchoolAggregateRoot
	Name     string      `json:"name"`
	IsActive bool        `json:"is_active"`
	Bands    []GradeBand `json:"bands"`
}

// NewGradeScale creates a grade scale after validating the bands
func NewGradeScale(schoolID uuid.UUID, name string, bands []GradeBand) (*GradeScale, error) {
	if schoolID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SCHOOL", "School ID cannot be empty")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_SCALE_NAME", "Grade scale name cannot be empty")
	}
	if len(bands) == 0 {
		return nil, shared.NewDomainError("INVALID_BANDS", "Grade scale requires at least one band")
	}
	for _, b := range bands {
		if b.MaxPercentage.LessThan(b.MinPercentage) {
			return nil, shared.NewDomainError("INVALID_BAND_RANGE", "Grade band max percentage cannot be below min percentage")
		}
		if strings.TrimSpace(b.Name) == "" {
			return nil, shared.NewDomainError("INVALID_BAND_NAME", "Grade band name cannot be empty")
		}
	}
	if err := validateNoOverlap(bands); err != nil {
		return nil, err
	}

	gs := &GradeScale{
		SchoolAggregateRoot: shared.NewSchoolAggregateRoot(schoolID),
		Name:                name,
		IsActive:            true,
	}
	gs.Bands = make([]GradeBand, len(bands))
	for i, b := range bands {
		b.BaseEntity = shared.NewBaseEntity()
		b.GradeScaleID = gs.ID
		gs.Bands[i] = b
	}
	return gs, nil
}

// validateNoOverlap rejects band pairs whose percentage ranges intersect
func validateNoOverlap(bands []GradeBand) error {
	for i := range bands {
		for j := i + 1; j < len(bands); j++ {
			a, b := bands[i], bands[j]
			if !a.MinPercentage.GreaterThan(b.MaxPercentage) && !b.MinPercentage.GreaterThan(a.MaxPercentage) {
				return shared.NewDomainError("OVERLAPPING_BANDS",
					"Grade bands "+a.Name+" and "+b.Name+" have overlapping percentage ranges")
			}
		}
	}
	return nil
}

// Lookup returns the first band whose range contains the percentage, or nil
// when no band matches.
func (gs *GradeScale) Lookup(percentage decimal.Decimal) *GradeBand {
	for i := range gs.Bands {
		b := &gs.Bands[i]
		if percentage.GreaterThanOrEqual(b.MinPercentage) && percentage.LessThanOrEqual(b.MaxPercentage) {
			return b
		}
	}
	return nil
}
