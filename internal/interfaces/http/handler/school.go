package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	schoolapp "github.com/schoolerp/backend/internal/application/school"
	domainschool "github.com/schoolerp/backend/internal/domain/school"
	"github.com/schoolerp/backend/internal/interfaces/http/dto"
	"github.com/shopspring/decimal"
)

// SchoolHandler handles school onboarding and calendar endpoints
type SchoolHandler struct {
	BaseHandler
	schoolService *schoolapp.SchoolService
}

// NewSchoolHandler creates a new SchoolHandler
func NewSchoolHandler(schoolService *schoolapp.SchoolService) *SchoolHandler {
	return &SchoolHandler{schoolService: schoolService}
}

// CreateSchoolRequest is the request body for creating a school
type CreateSchoolRequest struct {
	Code    string `json:"code" binding:"required"`
	Name    string `json:"name" binding:"required"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email" binding:"omitempty,email"`
}

// CreateSchool handles POST /schools
func (h *SchoolHandler) CreateSchool(c *gin.Context) {
	var req CreateSchoolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, 400, dto.ErrCodeInvalidJSON, err.Error())
		return
	}

	sch, err := h.schoolService.CreateSchool(c.Request.Context(), schoolapp.CreateSchoolRequest{
		Code:    req.Code,
		Name:    req.Name,
		Address: req.Address,
		Phone:   req.Phone,
		Email:   req.Email,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, sch)
}

// GetSchool handles GET /schools/:id
func (h *SchoolHandler) GetSchool(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid school ID")
		return
	}

	sch, err := h.schoolService.GetSchool(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sch)
}

// CreateAcademicYearRequest is the request body for opening an academic year
type CreateAcademicYearRequest struct {
	Name      string    `json:"name" binding:"required"`
	StartDate time.Time `json:"start_date" binding:"required"`
	EndDate   time.Time `json:"end_date" binding:"required"`
}

// CreateAcademicYear handles POST /academic-years
func (h *SchoolHandler) CreateAcademicYear(c *gin.Context) {
	schoolID, err := getSchoolID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	var req CreateAcademicYearRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, 400, dto.ErrCodeInvalidJSON, err.Error())
		return
	}

	year, err := h.schoolService.CreateAcademicYear(c.Request.Context(), schoolapp.CreateAcademicYearRequest{
		SchoolID:  schoolID,
		Name:      req.Name,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, year)
}

// GetActiveAcademicYear handles GET /academic-years/active
func (h *SchoolHandler) GetActiveAcademicYear(c *gin.Context) {
	schoolID, err := getSchoolID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	year, err := h.schoolService.GetActiveAcademicYear(c.Request.Context(), schoolID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, year)
}

// GradeBandRequest is one band of a grade scale request
type GradeBandRequest struct {
	Name          string          `json:"name" binding:"required"`
	MinPercentage decimal.Decimal `json:"min_percentage"`
	MaxPercentage decimal.Decimal `json:"max_percentage"`
	GradePoint    decimal.Decimal `json:"grade_point"`
}

// CreateGradeScaleRequest is the request body for setting a grade scale
type CreateGradeScaleRequest struct {
	Name  string             `json:"name" binding:"required"`
	Bands []GradeBandRequest `json:"bands" binding:"required,min=1,dive"`
}

// CreateGradeScale handles POST /grade-scales
func (h *SchoolHandler) CreateGradeScale(c *gin.Context) {
	schoolID, err := getSchoolID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	var req CreateGradeScaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, 400, dto.ErrCodeInvalidJSON, err.Error())
		return
	}

	bands := make([]domainschool.GradeBand, len(req.Bands))
	for i, b := range req.Bands {
		bands[i] = domainschool.GradeBand{
			Name:          b.Name,
			MinPercentage: b.MinPercentage,
			MaxPercentage: b.MaxPercentage,
			GradePoint:    b.GradePoint,
		}
	}

	scale, err := h.schoolService.CreateGradeScale(c.Request.Context(), schoolapp.CreateGradeScaleRequest{
		SchoolID: schoolID,
		Name:     req.Name,
		Bands:    bands,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, scale)
}

// CreateHolidayRequest is the request body for declaring a holiday
type CreateHolidayRequest struct {
	Name      string    `json:"name" binding:"required"`
	StartDate time.Time `json:"start_date" binding:"required"`
	EndDate   time.Time `json:"end_date" binding:"required"`
}

// CreateHoliday handles POST /holidays
func (h *SchoolHandler) CreateHoliday(c *gin.Context) {
	schoolID, err := getSchoolID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	var req CreateHolidayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, 400, dto.ErrCodeInvalidJSON, err.Error())
		return
	}

	holiday, err := h.schoolService.CreateHoliday(c.Request.Context(), schoolapp.CreateHolidayRequest{
		SchoolID:  schoolID,
		Name:      req.Name,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, holiday)
}

// RegisterRoutes registers school routes
func (h *SchoolHandler) RegisterRoutes(r *gin.RouterGroup) {
	schools := r.Group("/schools")
	{
		schools.POST("", h.CreateSchool)
		schools.GET("/:id", h.GetSchool)
	}
	years := r.Group("/academic-years")
	{
		years.POST("", h.CreateAcademicYear)
		years.GET("/active", h.GetActiveAcademicYear)
	}
	r.POST("/grade-scales", h.CreateGradeScale)
	r.POST("/holidays", h.CreateHoliday)
}
