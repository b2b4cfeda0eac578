package exams

import (
	"context"

	"github.com/google/uuid"
)

// ExamRepository defines persistence for exams. Save persists the aggregate
// together with its subjects.
type ExamRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Exam, error)
	FindByIDForSchool(ctx context.Context, schoolID, id uuid.UUID) (*Exam, error)
	FindByClassAndYear(ctx context.Context, schoolID, classID, academicYearID uuid.UUID) ([]Exam, error)
	Save(ctx context.Context, e *Exam) error
}

// StudentMarkRepository defines persistence for entered marks
type StudentMarkRepository interface {
	FindByExam(ctx context.Context, schoolID, examID uuid.UUID) ([]StudentMark, error)
	FindByExamAndStudent(ctx context.Context, schoolID, examID, studentID uuid.UUID) ([]StudentMark, error)
	FindBySubjectAndStudent(ctx context.Context, schoolID, examSubjectID, studentID uuid.UUID) (*StudentMark, error)
	CountBySubject(ctx context.Context, schoolID, examSubjectID uuid.UUID) (int64, error)
	Save(ctx context.Context, m *StudentMark) error
}

// StudentResultRepository defines persistence for computed results.
// ReplaceForExam atomically swaps the full result set of an exam.
type StudentResultRepository interface {
	FindByExam(ctx context.Context, schoolID, examID uuid.UUID) ([]StudentResult, error)
	FindByExamAndStudent(ctx context.Context, schoolID, examID, studentID uuid.UUID) (*StudentResult, error)
	ReplaceForExam(ctx context.Context, schoolID, examID uuid.UUID, results []StudentResult) error
}
