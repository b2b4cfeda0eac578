package exams

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/schoolerp/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ExamStatus represents the lifecycle state of an exam
type ExamStatus string

const (
	ExamScheduled ExamStatus = "SCHEDULED"
	ExamCompleted ExamStatus = "COMPLETED"
	ExamPublished ExamStatus = "PUBLISHED"
)

// ExamSubject is one paper of an exam with its marking bounds. An optional
// paper counts toward totals when attempted but never decides pass or fail.
type ExamSubject struct {
	shared.BaseEntity
	ExamID       uuid.UUID       `json:"exam_id"`
	SubjectID    uuid.UUID       `json:"subject_id"`
	SubjectName  string          `json:"subject_name"`
	MaxMarks     decimal.Decimal `json:"max_marks"`
	PassingMarks decimal.Decimal `json:"passing_marks"`
	IsOptional   bool            `json:"is_optional"`
	ExamDate     time.Time       `json:"exam_date"`
}

// Exam is a scheduled examination for one class in an academic year
type Exam struct {
	shared.SchoolAggregateRoot
	Name              string          `json:"name"`
	ClassID           uuid.UUID       `json:"class_id"`
	AcademicYearID    uuid.UUID       `json:"academic_year_id"`
	PassingPercentage decimal.Decimal `json:"passing_percentage"`
	Status            ExamStatus      `json:"status"`
	Subjects          []ExamSubject   `json:"subjects"`
}

// NewExam creates an exam with no subjects yet
func NewExam(schoolID uuid.UUID, name string, classID, academicYearID uuid.UUID, passingPercentage decimal.Decimal) (*Exam, error) {
	if schoolID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SCHOOL", "School ID cannot be empty")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_EXAM_NAME", "Exam name cannot be empty")
	}
	if classID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CLASS", "Class ID cannot be empty")
	}
	if academicYearID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ACADEMIC_YEAR", "Academic year ID cannot be empty")
	}
	if passingPercentage.IsNegative() || passingPercentage.GreaterThan(decimal.NewFromInt(100)) {
		return nil, shared.NewDomainError("INVALID_PASSING_PERCENTAGE", "Passing percentage must be between 0 and 100")
	}

	return &Exam{
		SchoolAggregateRoot: shared.NewSchoolAggregateRoot(schoolID),
		Name:                name,
		ClassID:             classID,
		AcademicYearID:      academicYearID,
		PassingPercentage:   passingPercentage,
		Status:              ExamScheduled,
	}, nil
}

// AddSubject schedules a paper on the exam
func (e *Exam) AddSubject(subjectID uuid.UUID, subjectName string, maxMarks, passingMarks decimal.Decimal, isOptional bool, examDate time.Time) (*ExamSubject, error) {
	if e.Status == ExamPublished {
		return nil, shared.NewDomainError("EXAM_PUBLISHED", "Cannot modify subjects on a published exam")
	}
	if subjectID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SUBJECT", "Subject ID cannot be empty")
	}
	if !maxMarks.IsPositive() {
		return nil, shared.NewDomainError("INVALID_MAX_MARKS", "Max marks must be positive")
	}
	if passingMarks.IsNegative() || passingMarks.GreaterThan(maxMarks) {
		return nil, shared.NewDomainError("INVALID_PASSING_MARKS", "Passing marks must be between 0 and max marks")
	}
	for _, s := range e.Subjects {
		if s.SubjectID == subjectID {
			return nil, shared.NewDomainError("SUBJECT_EXISTS", "Subject is already scheduled on this exam")
		}
	}

	subject := ExamSubject{
		BaseEntity:   shared.NewBaseEntity(),
		ExamID:       e.ID,
		SubjectID:    subjectID,
		SubjectName:  subjectName,
		MaxMarks:     maxMarks,
		PassingMarks: passingMarks,
		IsOptional:   isOptional,
		ExamDate:     examDate,
	}
	e.Subjects = append(e.Subjects, subject)
	e.IncrementVersion()
	return &e.Subjects[len(e.Subjects)-1], nil
}

// RemoveSubject drops a paper. The caller must first verify no marks have
// been entered against it.
func (e *Exam) RemoveSubject(subjectID uuid.UUID) error {
	if e.Status == ExamPublished {
		return shared.NewDomainError("EXAM_PUBLISHED", "Cannot modify subjects on a published exam")
	}
	for i, s := range e.Subjects {
		if s.SubjectID == subjectID {
			e.Subjects = append(e.Subjects[:i], e.Subjects[i+1:]...)
			e.IncrementVersion()
			return nil
		}
	}
	return shared.NewDomainError("SUBJECT_NOT_FOUND", "Subject is not scheduled on this exam")
}

// SubjectByID returns the scheduled paper for a subject, or nil
func (e *Exam) SubjectByID(subjectID uuid.UUID) *ExamSubject {
	for i := range e.Subjects {
		if e.Subjects[i].SubjectID == subjectID {
			return &e.Subjects[i]
		}
	}
	return nil
}

// Complete marks the exam as conducted
func (e *Exam) Complete() error {
	if e.Status != ExamScheduled {
		return shared.NewDomainError("INVALID_STATE", "Only a scheduled exam can be completed")
	}
	e.Status = ExamCompleted
	e.IncrementVersion()
	return nil
}

// Publish releases results to students. Publishing is final.
func (e *Exam) Publish() error {
	if e.Status != ExamCompleted {
		return shared.NewDomainError("INVALID_STATE", "Only a completed exam can be published")
	}
	e.Status = ExamPublished
	e.IncrementVersion()
	return nil
}
