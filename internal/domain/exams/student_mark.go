package exams

import (
	"time"

	"github.com/google/uuid"
	"github.com/schoolerp/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// StudentMark is one student's score on one exam paper. Re-entering marks
// for the same (exam, subject, student) replaces the earlier entry.
type StudentMark struct {
	shared.SchoolAggregateRoot
	ExamID        uuid.UUID       `json:"exam_id"`
	ExamSubjectID uuid.UUID       `json:"exam_subject_id"`
	SubjectID     uuid.UUID       `json:"subject_id"`
	StudentID     uuid.UUID       `json:"student_id"`
	MarksObtained decimal.Decimal `json:"marks_obtained"`
	IsAbsent      bool            `json:"is_absent"`
	Remarks       string          `json:"remarks,omitempty"`
	EnteredBy     uuid.UUID       `json:"entered_by"`
}

// NewStudentMark records a score against an exam paper. An absent student
// always carries zero marks.
func NewStudentMark(schoolID uuid.UUID, subject *ExamSubject, studentID uuid.UUID, marksObtained decimal.Decimal, isAbsent bool, enteredBy uuid.UUID) (*StudentMark, error) {
	if schoolID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SCHOOL", "School ID cannot be empty")
	}
	if subject == nil {
		return nil, shared.NewDomainError("SUBJECT_NOT_FOUND", "Subject is not scheduled on this exam")
	}
	if studentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_STUDENT", "Student ID cannot be empty")
	}
	if isAbsent {
		marksObtained = decimal.Zero
	}
	if marksObtained.IsNegative() {
		return nil, shared.NewDomainError("INVALID_MARKS", "Marks cannot be negative")
	}
	if marksObtained.GreaterThan(subject.MaxMarks) {
		return nil, shared.NewDomainError("MARKS_EXCEED_MAX", "Marks cannot exceed the paper's max marks")
	}

	return &StudentMark{
		SchoolAggregateRoot: shared.NewSchoolAggregateRoot(schoolID),
		ExamID:              subject.ExamID,
		ExamSubjectID:       subject.ID,
		SubjectID:           subject.SubjectID,
		StudentID:           studentID,
		MarksObtained:       marksObtained,
		IsAbsent:            isAbsent,
		EnteredBy:           enteredBy,
	}, nil
}

// Update replaces the recorded score, keeping upsert semantics
func (m *StudentMark) Update(subject *ExamSubject, marksObtained decimal.Decimal, isAbsent bool, enteredBy uuid.UUID) error {
	if subject == nil || subject.ID != m.ExamSubjectID {
		return shared.NewDomainError("SUBJECT_MISMATCH", "Mark does not belong to this exam paper")
	}
	if isAbsent {
		marksObtained = decimal.Zero
	}
	if marksObtained.IsNegative() {
		return shared.NewDomainError("INVALID_MARKS", "Marks cannot be negative")
	}
	if marksObtained.GreaterThan(subject.MaxMarks) {
		return shared.NewDomainError("MARKS_EXCEED_MAX", "Marks cannot exceed the paper's max marks")
	}
	m.MarksObtained = marksObtained
	m.IsAbsent = isAbsent
	m.EnteredBy = enteredBy
	m.UpdatedAt = time.Now()
	m.IncrementVersion()
	return nil
}
