package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	payrollapp "github.com/schoolerp/backend/internal/application/payroll"
	domainpayroll "github.com/schoolerp/backend/internal/domain/payroll"
	"github.com/schoolerp/backend/internal/interfaces/http/dto"
	"github.com/shopspring/decimal"
)

// PayrollHandler handles salary setup, attendance and payout endpoints
type PayrollHandler struct {
	BaseHandler
	payrollService *payrollapp.PayrollService
}

// NewPayrollHandler creates a new PayrollHandler
func NewPayrollHandler(payrollService *payrollapp.PayrollService) *PayrollHandler {
	return &PayrollHandler{payrollService: payrollService}
}

// CreateComponentRequest is the request body for creating a pay head
type CreateComponentRequest struct {
	Name         string `json:"name" binding:"required"`
	Type         string `json:"type" binding:"required,oneof=EARNING DEDUCTION"`
	IsPercentage bool   `json:"is_percentage"`
}

// CreateComponent handles POST /payroll/components
func (h *PayrollHandler) CreateComponent(c *gin.Context) {
	schoolID, err := getSchoolID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	var req CreateComponentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, 400, dto.ErrCodeInvalidJSON, err.Error())
		return
	}

	component, err := h.payrollService.CreateSalaryComponent(c.Request.Context(), schoolID, req.Name, domainpayroll.ComponentType(req.Type), req.IsPercentage)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, component)
}

// SalaryItemRequest is one component line of a salary structure request
type SalaryItemRequest struct {
	ComponentID   uuid.UUID       `json:"component_id" binding:"required"`
	ComponentName string          `json:"component_name" binding:"required"`
	Type          string          `json:"type" binding:"required,oneof=EARNING DEDUCTION"`
	IsPercentage  bool            `json:"is_percentage"`
	Value         decimal.Decimal `json:"value" binding:"required"`
}

// CreateSalaryStructureRequest is the request body for setting a teacher's pay
type CreateSalaryStructureRequest struct {
	TeacherID     uuid.UUID           `json:"teacher_id" binding:"required"`
	BasicSalary   decimal.Decimal     `json:"basic_salary" binding:"required"`
	EffectiveFrom time.Time           `json:"effective_from" binding:"required"`
	Items         []SalaryItemRequest `json:"items" binding:"dive"`
}

// CreateSalaryStructure handles POST /payroll/structures
func (h *PayrollHandler) CreateSalaryStructure(c *gin.Context) {
	schoolID, err := getSchoolID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	var req CreateSalaryStructureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, 400, dto.ErrCodeInvalidJSON, err.Error())
		return
	}

	items := make([]domainpayroll.SalaryStructureItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = domainpayroll.SalaryStructureItem{
			ComponentID:   item.ComponentID,
			ComponentName: item.ComponentName,
			Type:          domainpayroll.ComponentType(item.Type),
			IsPercentage:  item.IsPercentage,
			Value:         item.Value,
		}
	}

	structure, err := h.payrollService.CreateSalaryStructure(c.Request.Context(), payrollapp.CreateSalaryStructureRequest{
		SchoolID:      schoolID,
		TeacherID:     req.TeacherID,
		BasicSalary:   req.BasicSalary,
		EffectiveFrom: req.EffectiveFrom,
		Items:         items,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, structure)
}

// MarkAttendanceRequest is the request body for marking a teacher's day
type MarkAttendanceRequest struct {
	TeacherID uuid.UUID `json:"teacher_id" binding:"required"`
	Date      time.Time `json:"date" binding:"required"`
	Status    string    `json:"status" binding:"required,oneof=PRESENT ABSENT LATE HALF_DAY ON_LEAVE"`
}

// MarkAttendance handles POST /payroll/attendance
func (h *PayrollHandler) MarkAttendance(c *gin.Context) {
	schoolID, err := getSchoolID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	var req MarkAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, 400, dto.ErrCodeInvalidJSON, err.Error())
		return
	}

	record, err := h.payrollService.MarkAttendance(c.Request.Context(), schoolID, req.TeacherID, req.Date, domainpayroll.AttendanceStatus(req.Status))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, record)
}

// ProcessSalaryRequest is the request body for processing a teacher's month.
// salary_structure_id pins the run to a specific structure instead of the
// active one; present_days overrides the attendance-derived count.
type ProcessSalaryRequest struct {
	TeacherID         uuid.UUID        `json:"teacher_id" binding:"required"`
	Month             int              `json:"month" binding:"required,min=1,max=12"`
	Year              int              `json:"year" binding:"required"`
	WorkingDays       int              `json:"working_days" binding:"min=0"`
	SalaryStructureID *uuid.UUID       `json:"salary_structure_id"`
	PresentDays       *decimal.Decimal `json:"present_days"`
}

// ProcessSalary handles POST /payroll/salaries/process
func (h *PayrollHandler) ProcessSalary(c *gin.Context) {
	schoolID, err := getSchoolID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	var req ProcessSalaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, 400, dto.ErrCodeInvalidJSON, err.Error())
		return
	}

	salary, err := h.payrollService.ProcessSalary(c.Request.Context(), payrollapp.ProcessSalaryRequest{
		SchoolID:            schoolID,
		TeacherID:           req.TeacherID,
		Month:               req.Month,
		Year:                req.Year,
		WorkingDays:         req.WorkingDays,
		StructureID:         req.SalaryStructureID,
		PresentDaysOverride: req.PresentDays,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, salary)
}

// RecordSalaryPaymentRequest is the request body for a salary disbursement
type RecordSalaryPaymentRequest struct {
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Method      string          `json:"method" binding:"required,oneof=CASH BANK_TRANSFER CHEQUE UPI"`
	PaymentDate time.Time       `json:"payment_date"`
	Reference   string          `json:"reference"`
}

// RecordSalaryPayment handles POST /payroll/salaries/:id/payments
func (h *PayrollHandler) RecordSalaryPayment(c *gin.Context) {
	schoolID, err := getSchoolID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	salaryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid salary ID")
		return
	}
	var req RecordSalaryPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, 400, dto.ErrCodeInvalidJSON, err.Error())
		return
	}
	paymentDate := req.PaymentDate
	if paymentDate.IsZero() {
		paymentDate = time.Now()
	}

	payment, err := h.payrollService.RecordSalaryPayment(c.Request.Context(), payrollapp.RecordSalaryPaymentRequest{
		SchoolID:        schoolID,
		TeacherSalaryID: salaryID,
		Amount:          req.Amount,
		Method:          domainpayroll.PayoutMethod(req.Method),
		PaymentDate:     paymentDate,
		Reference:       req.Reference,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, payment)
}

// GetSalary handles GET /payroll/salaries/:id
func (h *PayrollHandler) GetSalary(c *gin.Context) {
	schoolID, err := getSchoolID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	salaryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid salary ID")
		return
	}

	salary, err := h.payrollService.GetSalary(c.Request.Context(), schoolID, salaryID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, salary)
}

// ListSalaries handles GET /payroll/salaries?month=4&year=2025
func (h *PayrollHandler) ListSalaries(c *gin.Context) {
	schoolID, err := getSchoolID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil || month < 1 || month > 12 {
		h.BadRequest(c, "Invalid month")
		return
	}
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		h.BadRequest(c, "Invalid year")
		return
	}

	salaries, err := h.payrollService.ListSalariesForMonth(c.Request.Context(), schoolID, month, year)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, salaries)
}

// RegisterRoutes registers payroll routes
func (h *PayrollHandler) RegisterRoutes(r *gin.RouterGroup) {
	payroll := r.Group("/payroll")
	{
		payroll.POST("/components", h.CreateComponent)
		payroll.POST("/structures", h.CreateSalaryStructure)
		payroll.POST("/attendance", h.MarkAttendance)
		payroll.POST("/salaries/process", h.ProcessSalary)
		payroll.GET("/salaries", h.ListSalaries)
		payroll.GET("/salaries/:id", h.GetSalary)
		payroll.POST("/salaries/:id/payments", h.RecordSalaryPayment)
	}
}
