package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	examsapp "github.com/schoolerp/backend/internal/application/exams"
	"github.com/schoolerp/backend/internal/interfaces/http/dto"
	"github.com/shopspring/decimal"
)

// ExamHandler handles exam setup, mark entry and result endpoints
type ExamHandler struct {
	BaseHandler
	examService *examsapp.ExamService
}

// NewExamHandler creates a new ExamHandler
func NewExamHandler(examService *examsapp.ExamService) *ExamHandler {
	return &ExamHandler{examService: examService}
}

// CreateExamRequest is the request body for creating an exam
type CreateExamRequest struct {
	Name              string          `json:"name" binding:"required"`
	ClassID           uuid.UUID       `json:"class_id" binding:"required"`
	AcademicYearID    uuid.UUID       `json:"academic_year_id" binding:"required"`
	PassingPercentage decimal.Decimal `json:"passing_percentage"`
}

// CreateExam handles POST /exams
func (h *ExamHandler) CreateExam(c *gin.Context) {
	schoolID, err := getSchoolID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	var req CreateExamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, 400, dto.ErrCodeInvalidJSON, err.Error())
		return
	}

	exam, err := h.examService.CreateExam(c.Request.Context(), examsapp.CreateExamRequest{
		SchoolID:          schoolID,
		Name:              req.Name,
		ClassID:           req.ClassID,
		AcademicYearID:    req.AcademicYearID,
		PassingPercentage: req.PassingPercentage,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, exam)
}

// AddSubjectRequest is the request body for scheduling a paper on an exam
type AddSubjectRequest struct {
	SubjectID    uuid.UUID       `json:"subject_id" binding:"required"`
	SubjectName  string          `json:"subject_name" binding:"required"`
	MaxMarks     decimal.Decimal `json:"max_marks" binding:"required"`
	PassingMarks decimal.Decimal `json:"passing_marks"`
	IsOptional   bool            `json:"is_optional"`
	ExamDate     time.Time       `json:"exam_date" binding:"required"`
}

// AddSubject handles POST /exams/:id/subjects
func (h *ExamHandler) AddSubject(c *gin.Context) {
	schoolID, err := getSchoolID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	examID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid exam ID")
		return
	}
	var req AddSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, 400, dto.ErrCodeInvalidJSON, err.Error())
		return
	}

	exam, err := h.examService.AddExamSubject(c.Request.Context(), examsapp.AddExamSubjectRequest{
		SchoolID:     schoolID,
		ExamID:       examID,
		SubjectID:    req.SubjectID,
		SubjectName:  req.SubjectName,
		MaxMarks:     req.MaxMarks,
		PassingMarks: req.PassingMarks,
		IsOptional:   req.IsOptional,
		ExamDate:     req.ExamDate,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, exam)
}

// DeleteSubject handles DELETE /exams/:id/subjects/:subjectId
func (h *ExamHandler) DeleteSubject(c *gin.Context) {
	schoolID, err := getSchoolID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	examID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid exam ID")
		return
	}
	subjectID, err := uuid.Parse(c.Param("subjectId"))
	if err != nil {
		h.BadRequest(c, "Invalid subject ID")
		return
	}

	if err := h.examService.DeleteExamSubject(c.Request.Context(), schoolID, examID, subjectID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// MarkEntryRequest is one student's score in a mark entry batch
type MarkEntryRequest struct {
	StudentID     uuid.UUID       `json:"student_id" binding:"required"`
	MarksObtained decimal.Decimal `json:"marks_obtained"`
	IsAbsent      bool            `json:"is_absent"`
}

// EnterMarksRequest is the request body for a batch of scores on one paper
type EnterMarksRequest struct {
	SubjectID uuid.UUID          `json:"subject_id" binding:"required"`
	EnteredBy uuid.UUID          `json:"entered_by" binding:"required"`
	Entries   []MarkEntryRequest `json:"entries" binding:"required,min=1,dive"`
}

// EnterMarks handles POST /exams/:id/marks
func (h *ExamHandler) EnterMarks(c *gin.Context) {
	schoolID, err := getSchoolID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	examID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid exam ID")
		return
	}
	var req EnterMarksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, 400, dto.ErrCodeInvalidJSON, err.Error())
		return
	}

	entries := make([]examsapp.MarkEntry, len(req.Entries))
	for i, e := range req.Entries {
		entries[i] = examsapp.MarkEntry{
			StudentID:     e.StudentID,
			MarksObtained: e.MarksObtained,
			IsAbsent:      e.IsAbsent,
		}
	}

	results, err := h.examService.EnterMarks(c.Request.Context(), examsapp.EnterMarksRequest{
		SchoolID:  schoolID,
		ExamID:    examID,
		SubjectID: req.SubjectID,
		EnteredBy: req.EnteredBy,
		Entries:   entries,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, results)
}

// GenerateResults handles POST /exams/:id/results/generate
func (h *ExamHandler) GenerateResults(c *gin.Context) {
	schoolID, err := getSchoolID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	examID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid exam ID")
		return
	}

	results, err := h.examService.GenerateResults(c.Request.Context(), schoolID, examID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, results)
}

// PublishExam handles POST /exams/:id/publish
func (h *ExamHandler) PublishExam(c *gin.Context) {
	schoolID, err := getSchoolID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	examID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid exam ID")
		return
	}

	exam, err := h.examService.PublishExam(c.Request.Context(), schoolID, examID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, exam)
}

// GetResults handles GET /exams/:id/results
func (h *ExamHandler) GetResults(c *gin.Context) {
	schoolID, err := getSchoolID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	examID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid exam ID")
		return
	}

	results, err := h.examService.GetResults(c.Request.Context(), schoolID, examID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, results)
}

// GetStudentResult handles GET /exams/:id/results/:studentId
func (h *ExamHandler) GetStudentResult(c *gin.Context) {
	schoolID, err := getSchoolID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	examID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid exam ID")
		return
	}
	studentID, err := uuid.Parse(c.Param("studentId"))
	if err != nil {
		h.BadRequest(c, "Invalid student ID")
		return
	}

	result, err := h.examService.GetStudentResult(c.Request.Context(), schoolID, examID, studentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// RegisterRoutes registers exam routes
func (h *ExamHandler) RegisterRoutes(r *gin.RouterGroup) {
	exams := r.Group("/exams")
	{
		exams.POST("", h.CreateExam)
		exams.POST("/:id/subjects", h.AddSubject)
		exams.DELETE("/:id/subjects/:subjectId", h.DeleteSubject)
		exams.POST("/:id/marks", h.EnterMarks)
		exams.POST("/:id/results/generate", h.GenerateResults)
		exams.POST("/:id/publish", h.PublishExam)
		exams.GET("/:id/results", h.GetResults)
		exams.GET("/:id/results/:studentId", h.GetStudentResult)
	}
}
