package school

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	domainschool "github.com/schoolerp/backend/internal/domain/school"
	"github.com/schoolerp/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// SchoolService handles school onboarding and school-level calendars
type SchoolService struct {
	schoolRepo  domainschool.SchoolRepository
	yearRepo    domainschool.AcademicYearRepository
	scaleRepo   domainschool.GradeScaleRepository
	holidayRepo domainschool.HolidayRepository
	logger      *zap.Logger
}

// NewSchoolService creates a new SchoolService
func NewSchoolService(
	schoolRepo domainschool.SchoolRepository,
	yearRepo domainschool.AcademicYearRepository,
	scaleRepo domainschool.GradeScaleRepository,
	holidayRepo domainschool.HolidayRepository,
	logger *zap.Logger,
) *SchoolService {
	return &SchoolService{
		schoolRepo:  schoolRepo,
		yearRepo:    yearRepo,
		scaleRepo:   scaleRepo,
		holidayRepo: holidayRepo,
		logger:      logger,
	}
}

// CreateSchoolRequest represents a request to onboard a school
type CreateSchoolRequest struct {
	Code    string
	Name    string
	Address string
	Phone   string
	Email   string
}

// CreateSchool onboards a new school. The code must be unique as it prefixes
// receipt numbers.
func (s *SchoolService) CreateSchool(ctx context.Context, req CreateSchoolRequest) (*domainschool.School, error) {
	sch, err := domainschool.NewSchool(req.Code, req.Name)
	if err != nil {
		return nil, err
	}
	sch.Address = req.Address
	sch.Phone = req.Phone
	sch.Email = req.Email

	existing, err := s.schoolRepo.FindByCode(ctx, sch.Code)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, fmt.Errorf("failed to check school code: %w", err)
	}
	if existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A school with this code already exists")
	}

	if err := s.schoolRepo.Save(ctx, sch); err != nil {
		return nil, fmt.Errorf("failed to save school: %w", err)
	}
	s.logger.Info("school created", zap.String("school_id", sch.ID.String()), zap.String("code", sch.Code))
	return sch, nil
}

// GetSchool returns a school by ID
func (s *SchoolService) GetSchool(ctx context.Context, id uuid.UUID) (*domainschool.School, error) {
	return s.schoolRepo.FindByID(ctx, id)
}

// CreateAcademicYearRequest represents a request to open an academic year
type CreateAcademicYearRequest struct {
	SchoolID  uuid.UUID
	Name      string
	StartDate time.Time
	EndDate   time.Time
}

// CreateAcademicYear opens a new academic year for a school
func (s *SchoolService) CreateAcademicYear(ctx context.Context, req CreateAcademicYearRequest) (*domainschool.AcademicYear, error) {
	if _, err := s.schoolRepo.FindByID(ctx, req.SchoolID); err != nil {
		return nil, fmt.Errorf("failed to get school: %w", err)
	}
	year, err := domainschool.NewAcademicYear(req.SchoolID, req.Name, req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}
	if err := s.yearRepo.Save(ctx, year); err != nil {
		return nil, fmt.Errorf("failed to save academic year: %w", err)
	}
	return year, nil
}

// GetActiveAcademicYear returns the school's current academic year
func (s *SchoolService) GetActiveAcademicYear(ctx context.Context, schoolID uuid.UUID) (*domainschool.AcademicYear, error) {
	return s.yearRepo.FindActiveForSchool(ctx, schoolID)
}

// CreateGradeScaleRequest represents a request to set a school's grade scale
type CreateGradeScaleRequest struct {
	SchoolID uuid.UUID
	Name     string
	Bands    []domainschool.GradeBand
}

// CreateGradeScale sets the school's grade scale used by exam results
func (s *SchoolService) CreateGradeScale(ctx context.Context, req CreateGradeScaleRequest) (*domainschool.GradeScale, error) {
	scale, err := domainschool.NewGradeScale(req.SchoolID, req.Name, req.Bands)
	if err != nil {
		return nil, err
	}
	if err := s.scaleRepo.Save(ctx, scale); err != nil {
		return nil, fmt.Errorf("failed to save grade scale: %w", err)
	}
	return scale, nil
}

// CreateHolidayRequest represents a request to declare a holiday
type CreateHolidayRequest struct {
	SchoolID  uuid.UUID
	Name      string
	StartDate time.Time
	EndDate   time.Time
}

// CreateHoliday declares a school closure period
func (s *SchoolService) CreateHoliday(ctx context.Context, req CreateHolidayRequest) (*domainschool.Holiday, error) {
	h, err := domainschool.NewHoliday(req.SchoolID, req.Name, req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}
	if err := s.holidayRepo.Save(ctx, h); err != nil {
		return nil, fmt.Errorf("failed to save holiday: %w", err)
	}
	return h, nil
}
