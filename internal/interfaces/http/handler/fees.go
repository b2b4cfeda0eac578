package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	feesapp "github.com/schoolerp/backend/internal/application/fees"
	domainfees "github.com/schoolerp/backend/internal/domain/fees"
	"github.com/schoolerp/backend/internal/interfaces/http/dto"
	"github.com/shopspring/decimal"
)

// FeeHandler handles fee structure, assignment and payment endpoints
type FeeHandler struct {
	BaseHandler
	feeService *feesapp.FeeService
}

// NewFeeHandler creates a new FeeHandler
func NewFeeHandler(feeService *feesapp.FeeService) *FeeHandler {
	return &FeeHandler{feeService: feeService}
}

// FeeStructureItemRequest is one category line of a fee structure request
type FeeStructureItemRequest struct {
	CategoryID   uuid.UUID       `json:"category_id" binding:"required"`
	CategoryName string          `json:"category_name" binding:"required"`
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	Frequency    string          `json:"frequency" binding:"required,oneof=MONTHLY QUARTERLY ONE_TIME"`
}

// CreateFeeStructureRequest is the request body for creating a fee structure
type CreateFeeStructureRequest struct {
	Name            string                    `json:"name" binding:"required"`
	ClassID         uuid.UUID                 `json:"class_id" binding:"required"`
	AcademicYearID  uuid.UUID                 `json:"academic_year_id" binding:"required"`
	DueDay          int                       `json:"due_day" binding:"required,min=1,max=28"`
	Items           []FeeStructureItemRequest `json:"items" binding:"required,min=1,dive"`
	LateFeePercent  decimal.Decimal           `json:"late_fee_percent"`
	LateFeeFixed    decimal.Decimal           `json:"late_fee_fixed"`
	GracePeriodDays int                       `json:"grace_period_days"`
}

// CreateFeeStructure handles POST /fees/structures
func (h *FeeHandler) CreateFeeStructure(c *gin.Context) {
	schoolID, err := getSchoolID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	var req CreateFeeStructureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, 400, dto.ErrCodeInvalidJSON, err.Error())
		return
	}

	items := make([]domainfees.FeeStructureItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = domainfees.FeeStructureItem{
			CategoryID:   item.CategoryID,
			CategoryName: item.CategoryName,
			Amount:       item.Amount,
			Frequency:    domainfees.FeeFrequency(item.Frequency),
		}
	}

	fs, err := h.feeService.CreateFeeStructure(c.Request.Context(), feesapp.CreateFeeStructureRequest{
		SchoolID:        schoolID,
		Name:            req.Name,
		ClassID:         req.ClassID,
		AcademicYearID:  req.AcademicYearID,
		DueDay:          req.DueDay,
		Items:           items,
		LateFeePercent:  req.LateFeePercent,
		LateFeeFixed:    req.LateFeeFixed,
		GracePeriodDays: req.GracePeriodDays,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, fs)
}

// CreateDiscountRequest is the request body for creating a discount. The
// discount binds to one student in one academic year; fee_category_id narrows
// it to a single category when set.
type CreateDiscountRequest struct {
	StudentID      uuid.UUID       `json:"student_id" binding:"required"`
	AcademicYearID uuid.UUID       `json:"academic_year_id" binding:"required"`
	FeeCategoryID  *uuid.UUID      `json:"fee_category_id"`
	Name           string          `json:"name" binding:"required"`
	Type           string          `json:"type" binding:"required,oneof=PERCENTAGE FIXED"`
	Value          decimal.Decimal `json:"value" binding:"required"`
}

// CreateDiscount handles POST /fees/discounts
func (h *FeeHandler) CreateDiscount(c *gin.Context) {
	schoolID, err := getSchoolID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	var req CreateDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, 400, dto.ErrCodeInvalidJSON, err.Error())
		return
	}

	d, err := h.feeService.CreateDiscount(c.Request.Context(), feesapp.CreateDiscountRequest{
		SchoolID:       schoolID,
		StudentID:      req.StudentID,
		AcademicYearID: req.AcademicYearID,
		FeeCategoryID:  req.FeeCategoryID,
		Name:           req.Name,
		Type:           domainfees.DiscountType(req.Type),
		Value:          req.Value,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, d)
}

// AssignFeeRequest is the request body for assigning a fee to a student. The
// student's active discounts for the structure's academic year are applied
// automatically.
type AssignFeeRequest struct {
	StudentID      uuid.UUID `json:"student_id" binding:"required"`
	FeeStructureID uuid.UUID `json:"fee_structure_id" binding:"required"`
}

// AssignFee handles POST /fees/assignments
func (h *FeeHandler) AssignFee(c *gin.Context) {
	schoolID, err := getSchoolID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	var req AssignFeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, 400, dto.ErrCodeInvalidJSON, err.Error())
		return
	}

	sf, err := h.feeService.AssignFee(c.Request.Context(), feesapp.AssignFeeRequest{
		SchoolID:       schoolID,
		StudentID:      req.StudentID,
		FeeStructureID: req.FeeStructureID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, sf)
}

// RecordPaymentRequest is the request body for recording a fee payment.
// DetailID targets one scheduled month; without it the amount is allocated
// oldest month first.
type RecordPaymentRequest struct {
	DetailID    *uuid.UUID      `json:"detail_id"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Method      string          `json:"method" binding:"required,oneof=CASH CARD UPI BANK_TRANSFER CHEQUE"`
	PaymentDate time.Time       `json:"payment_date"`
}

// RecordPayment handles POST /fees/student-fees/:id/payments
func (h *FeeHandler) RecordPayment(c *gin.Context) {
	schoolID, err := getSchoolID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	studentFeeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid student fee ID")
		return
	}
	var req RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, 400, dto.ErrCodeInvalidJSON, err.Error())
		return
	}

	appReq := feesapp.RecordPaymentRequest{
		SchoolID:     schoolID,
		StudentFeeID: studentFeeID,
		Amount:       req.Amount,
		Method:       domainfees.PaymentMethod(req.Method),
		PaymentDate:  req.PaymentDate,
	}

	var result *feesapp.RecordPaymentResult
	if req.DetailID != nil {
		appReq.DetailID = *req.DetailID
		result, err = h.feeService.RecordPayment(c.Request.Context(), appReq)
	} else {
		result, err = h.feeService.RecordPaymentAutoAllocate(c.Request.Context(), appReq)
	}
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// ApplyLateFeesRequest is the request body for a late fee run
type ApplyLateFeesRequest struct {
	AsOf time.Time `json:"as_of"`
}

// ApplyLateFees handles POST /fees/late-fees/apply
func (h *FeeHandler) ApplyLateFees(c *gin.Context) {
	schoolID, err := getSchoolID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	var req ApplyLateFeesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, 400, dto.ErrCodeInvalidJSON, err.Error())
		return
	}
	asOf := req.AsOf
	if asOf.IsZero() {
		asOf = time.Now()
	}

	charged, err := h.feeService.ApplyLateFees(c.Request.Context(), schoolID, asOf)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"months_charged": charged})
}

// WaiveFeeRequest is the request body for waiving a student fee
type WaiveFeeRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// WaiveFee handles POST /fees/student-fees/:id/waive
func (h *FeeHandler) WaiveFee(c *gin.Context) {
	schoolID, err := getSchoolID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	studentFeeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid student fee ID")
		return
	}
	var req WaiveFeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, 400, dto.ErrCodeInvalidJSON, err.Error())
		return
	}

	sf, err := h.feeService.WaiveStudentFee(c.Request.Context(), schoolID, studentFeeID, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sf)
}

// GetStudentFee handles GET /fees/student-fees/:id
func (h *FeeHandler) GetStudentFee(c *gin.Context) {
	schoolID, err := getSchoolID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	studentFeeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid student fee ID")
		return
	}

	sf, err := h.feeService.GetStudentFee(c.Request.Context(), schoolID, studentFeeID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sf)
}

// ListPayments handles GET /fees/student-fees/:id/payments
func (h *FeeHandler) ListPayments(c *gin.Context) {
	schoolID, err := getSchoolID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	studentFeeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid student fee ID")
		return
	}

	payments, err := h.feeService.ListPaymentsForFee(c.Request.Context(), schoolID, studentFeeID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payments)
}

// GetPaymentByReceipt handles GET /fees/payments/receipt/:number
func (h *FeeHandler) GetPaymentByReceipt(c *gin.Context) {
	schoolID, err := getSchoolID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	payment, err := h.feeService.GetPaymentByReceipt(c.Request.Context(), schoolID, c.Param("number"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payment)
}

// RegisterRoutes registers fee routes
func (h *FeeHandler) RegisterRoutes(r *gin.RouterGroup) {
	fees := r.Group("/fees")
	{
		fees.POST("/structures", h.CreateFeeStructure)
		fees.POST("/discounts", h.CreateDiscount)
		fees.POST("/assignments", h.AssignFee)
		fees.GET("/student-fees/:id", h.GetStudentFee)
		fees.POST("/student-fees/:id/payments", h.RecordPayment)
		fees.GET("/student-fees/:id/payments", h.ListPayments)
		fees.POST("/student-fees/:id/waive", h.WaiveFee)
		fees.POST("/late-fees/apply", h.ApplyLateFees)
		fees.GET("/payments/receipt/:number", h.GetPaymentByReceipt)
	}
}
