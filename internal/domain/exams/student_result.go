package exams

import (
	"github.com/google/uuid"
	"github.com/schoolerp/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ResultStatus represents the pass/fail outcome of an exam result
type ResultStatus string

const (
	ResultPass ResultStatus = "PASS"
	ResultFail ResultStatus = "FAIL"
)

// StudentResult is the computed aggregate of one student's marks across an
// exam. It is derived data; re-running the calculator replaces it.
type StudentResult struct {
	shared.SchoolAggregateRoot
	ExamID         uuid.UUID       `json:"exam_id"`
	StudentID      uuid.UUID       `json:"student_id"`
	TotalMarks     decimal.Decimal `json:"total_marks"`
	MaxMarks       decimal.Decimal `json:"max_marks"`
	Percentage     decimal.Decimal `json:"percentage"`
	Grade          string          `json:"grade,omitempty"`
	GradePoint     decimal.Decimal `json:"grade_point"`
	Status         ResultStatus    `json:"status"`
	Rank           int             `json:"rank"`
	SubjectCount   int             `json:"subject_count"`
	FailedSubjects int             `json:"failed_subjects"`
	HasAbsence     bool            `json:"has_absence"`
}
