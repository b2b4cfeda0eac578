package exams

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	domainexams "github.com/schoolerp/backend/internal/domain/exams"
	"github.com/schoolerp/backend/internal/domain/school"
	"github.com/schoolerp/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ExamService handles exam setup, mark entry and result computation
type ExamService struct {
	examRepo   domainexams.ExamRepository
	markRepo   domainexams.StudentMarkRepository
	resultRepo domainexams.StudentResultRepository
	scaleRepo  school.GradeScaleRepository
	txManager  shared.TransactionManager
	calculator *domainexams.ResultCalculator
	logger     *zap.Logger
}

// NewExamService creates a new ExamService
func NewExamService(
	examRepo domainexams.ExamRepository,
	markRepo domainexams.StudentMarkRepository,
	resultRepo domainexams.StudentResultRepository,
	scaleRepo school.GradeScaleRepository,
	txManager shared.TransactionManager,
	logger *zap.Logger,
) *ExamService {
	return &ExamService{
		examRepo:   examRepo,
		markRepo:   markRepo,
		resultRepo: resultRepo,
		scaleRepo:  scaleRepo,
		txManager:  txManager,
		calculator: domainexams.NewResultCalculator(),
		logger:     logger,
	}
}

// CreateExamRequest represents a request to create an exam
type CreateExamRequest struct {
	SchoolID          uuid.UUID
	Name              string
	ClassID           uuid.UUID
	AcademicYearID    uuid.UUID
	PassingPercentage decimal.Decimal
}

// CreateExam schedules a new exam for a class
func (s *ExamService) CreateExam(ctx context.Context, req CreateExamRequest) (*domainexams.Exam, error) {
	e, err := domainexams.NewExam(req.SchoolID, req.Name, req.ClassID, req.AcademicYearID, req.PassingPercentage)
	if err != nil {
		return nil, err
	}
	if err := s.examRepo.Save(ctx, e); err != nil {
		return nil, fmt.Errorf("failed to save exam: %w", err)
	}
	return e, nil
}

// AddExamSubjectRequest represents a request to schedule a paper on an exam
type AddExamSubjectRequest struct {
	SchoolID     uuid.UUID
	ExamID       uuid.UUID
	SubjectID    uuid.UUID
	SubjectName  string
	MaxMarks     decimal.Decimal
	PassingMarks decimal.Decimal
	IsOptional   bool
	ExamDate     time.Time
}

// AddExamSubject schedules a paper on an exam
func (s *ExamService) AddExamSubject(ctx context.Context, req AddExamSubjectRequest) (*domainexams.Exam, error) {
	e, err := s.examRepo.FindByIDForSchool(ctx, req.SchoolID, req.ExamID)
	if err != nil {
		return nil, fmt.Errorf("failed to get exam: %w", err)
	}
	if _, err := e.AddSubject(req.SubjectID, req.SubjectName, req.MaxMarks, req.PassingMarks, req.IsOptional, req.ExamDate); err != nil {
		return nil, err
	}
	if err := s.examRepo.Save(ctx, e); err != nil {
		return nil, fmt.Errorf("failed to save exam: %w", err)
	}
	return e, nil
}

// DeleteExamSubject drops a paper from an exam. A paper with entered marks
// cannot be dropped.
func (s *ExamService) DeleteExamSubject(ctx context.Context, schoolID, examID, subjectID uuid.UUID) error {
	return s.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		e, err := s.examRepo.FindByIDForSchool(txCtx, schoolID, examID)
		if err != nil {
			return fmt.Errorf("failed to get exam: %w", err)
		}
		subject := e.SubjectByID(subjectID)
		if subject == nil {
			return shared.NewDomainError("SUBJECT_NOT_FOUND", "Subject is not scheduled on this exam")
		}

		count, err := s.markRepo.CountBySubject(txCtx, schoolID, subject.ID)
		if err != nil {
			return fmt.Errorf("failed to count marks: %w", err)
		}
		if count > 0 {
			return shared.NewDomainError("MARKS_EXIST", "Cannot delete a subject that already has marks entered")
		}

		if err := e.RemoveSubject(subjectID); err != nil {
			return err
		}
		if err := s.examRepo.Save(txCtx, e); err != nil {
			return fmt.Errorf("failed to save exam: %w", err)
		}
		return nil
	})
}

// MarkEntry is one student's score in an EnterMarks batch
type MarkEntry struct {
	StudentID     uuid.UUID
	MarksObtained decimal.Decimal
	IsAbsent      bool
}

// EnterMarksRequest represents a batch of scores for one exam paper
type EnterMarksRequest struct {
	SchoolID  uuid.UUID
	ExamID    uuid.UUID
	SubjectID uuid.UUID
	EnteredBy uuid.UUID
	Entries   []MarkEntry
}

// EnterMarks upserts a batch of scores for one paper and recomputes the
// exam's results, since any change can shift every rank.
func (s *ExamService) EnterMarks(ctx context.Context, req EnterMarksRequest) ([]domainexams.StudentResult, error) {
	if len(req.Entries) == 0 {
		return nil, shared.NewDomainError("INVALID_ENTRIES", "At least one mark entry is required")
	}

	var results []domainexams.StudentResult
	err := s.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		e, err := s.examRepo.FindByIDForSchool(txCtx, req.SchoolID, req.ExamID)
		if err != nil {
			return fmt.Errorf("failed to get exam: %w", err)
		}
		if e.Status == domainexams.ExamPublished {
			return shared.NewDomainError("EXAM_PUBLISHED", "Cannot enter marks on a published exam")
		}
		subject := e.SubjectByID(req.SubjectID)
		if subject == nil {
			return shared.NewDomainError("SUBJECT_NOT_FOUND", "Subject is not scheduled on this exam")
		}

		for _, entry := range req.Entries {
			existing, err := s.markRepo.FindBySubjectAndStudent(txCtx, req.SchoolID, subject.ID, entry.StudentID)
			if err != nil && !errors.Is(err, shared.ErrNotFound) {
				return fmt.Errorf("failed to check existing mark: %w", err)
			}

			var m *domainexams.StudentMark
			if existing != nil {
				if err := existing.Update(subject, entry.MarksObtained, entry.IsAbsent, req.EnteredBy); err != nil {
					return err
				}
				m = existing
			} else {
				m, err = domainexams.NewStudentMark(req.SchoolID, subject, entry.StudentID, entry.MarksObtained, entry.IsAbsent, req.EnteredBy)
				if err != nil {
					return err
				}
			}
			if err := s.markRepo.Save(txCtx, m); err != nil {
				return fmt.Errorf("failed to save mark: %w", err)
			}
		}

		results, err = s.recomputeResults(txCtx, e)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("marks entered",
		zap.String("exam_id", req.ExamID.String()),
		zap.String("subject_id", req.SubjectID.String()),
		zap.Int("entries", len(req.Entries)))
	return results, nil
}

// GenerateResults recomputes every result of an exam from the entered marks
func (s *ExamService) GenerateResults(ctx context.Context, schoolID, examID uuid.UUID) ([]domainexams.StudentResult, error) {
	var results []domainexams.StudentResult
	err := s.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		e, err := s.examRepo.FindByIDForSchool(txCtx, schoolID, examID)
		if err != nil {
			return fmt.Errorf("failed to get exam: %w", err)
		}
		results, err = s.recomputeResults(txCtx, e)
		return err
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// recomputeResults rebuilds and stores the full result set of an exam.
// Must run inside a transaction.
func (s *ExamService) recomputeResults(ctx context.Context, e *domainexams.Exam) ([]domainexams.StudentResult, error) {
	marks, err := s.markRepo.FindByExam(ctx, e.SchoolID, e.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load marks: %w", err)
	}

	scale, err := s.scaleRepo.FindActiveForSchool(ctx, e.SchoolID)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, fmt.Errorf("failed to load grade scale: %w", err)
		}
		scale = nil
	}

	results, err := s.calculator.Calculate(e, marks, scale)
	if err != nil {
		return nil, err
	}
	if err := s.resultRepo.ReplaceForExam(ctx, e.SchoolID, e.ID, results); err != nil {
		return nil, fmt.Errorf("failed to store results: %w", err)
	}
	return results, nil
}

// PublishExam finalizes an exam and releases its results
func (s *ExamService) PublishExam(ctx context.Context, schoolID, examID uuid.UUID) (*domainexams.Exam, error) {
	e, err := s.examRepo.FindByIDForSchool(ctx, schoolID, examID)
	if err != nil {
		return nil, fmt.Errorf("failed to get exam: %w", err)
	}
	if e.Status == domainexams.ExamScheduled {
		if err := e.Complete(); err != nil {
			return nil, err
		}
	}
	if err := e.Publish(); err != nil {
		return nil, err
	}
	if err := s.examRepo.Save(ctx, e); err != nil {
		return nil, fmt.Errorf("failed to save exam: %w", err)
	}
	s.logger.Info("exam published", zap.String("exam_id", e.ID.String()), zap.String("name", e.Name))
	return e, nil
}

// GetResults returns the stored results of an exam ordered by rank
func (s *ExamService) GetResults(ctx context.Context, schoolID, examID uuid.UUID) ([]domainexams.StudentResult, error) {
	return s.resultRepo.FindByExam(ctx, schoolID, examID)
}

// GetStudentResult returns one student's result on an exam
func (s *ExamService) GetStudentResult(ctx context.Context, schoolID, examID, studentID uuid.UUID) (*domainexams.StudentResult, error) {
	return s.resultRepo.FindByExamAndStudent(ctx, schoolID, examID, studentID)
}
