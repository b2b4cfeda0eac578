package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/schoolerp/backend/internal/domain/exams"
	"github.com/schoolerp/backend/internal/domain/school"
	"github.com/schoolerp/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormExamRepository_SaveAndReload(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormExamRepository(db)
	ctx := context.Background()
	schoolID := uuid.New()

	exam, err := exams.NewExam(schoolID, "Half Yearly", uuid.New(), uuid.New(), decimal.NewFromInt(33))
	require.NoError(t, err)
	_, err = exam.AddSubject(uuid.New(), "Mathematics", decimal.NewFromInt(100), decimal.NewFromInt(33), false, time.Now())
	require.NoError(t, err)
	science, err := exam.AddSubject(uuid.New(), "Science", decimal.NewFromInt(50), decimal.NewFromInt(17), false, time.Now())
	require.NoError(t, err)
	_, err = exam.AddSubject(uuid.New(), "Sanskrit", decimal.NewFromInt(100), decimal.NewFromInt(33), true, time.Now())
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, exam))

	loaded, err := repo.FindByIDForSchool(ctx, schoolID, exam.ID)
	require.NoError(t, err)
	assert.Len(t, loaded.Subjects, 3)
	assert.Equal(t, exams.ExamScheduled, loaded.Status)
	assert.False(t, loaded.SubjectByID(science.SubjectID).IsOptional)
	assert.True(t, loaded.Subjects[2].IsOptional)

	// Removing a subject drops its row on the next save
	require.NoError(t, loaded.RemoveSubject(science.SubjectID))
	require.NoError(t, repo.Save(ctx, loaded))

	reloaded, err := repo.FindByID(ctx, exam.ID)
	require.NoError(t, err)
	require.Len(t, reloaded.Subjects, 2)
	assert.Equal(t, "Mathematics", reloaded.Subjects[0].SubjectName)
}

func TestGormStudentMarkRepository_UpsertLookup(t *testing.T) {
	db := newTestDB(t)
	markRepo := NewGormStudentMarkRepository(db)
	examRepo := NewGormExamRepository(db)
	ctx := context.Background()
	schoolID := uuid.New()

	exam, err := exams.NewExam(schoolID, "Unit Test", uuid.New(), uuid.New(), decimal.NewFromInt(33))
	require.NoError(t, err)
	subject, err := exam.AddSubject(uuid.New(), "English", decimal.NewFromInt(100), decimal.NewFromInt(33), false, time.Now())
	require.NoError(t, err)
	require.NoError(t, examRepo.Save(ctx, exam))

	studentID := uuid.New()
	mark, err := exams.NewStudentMark(schoolID, subject, studentID, decimal.NewFromInt(72), false, uuid.New())
	require.NoError(t, err)
	require.NoError(t, markRepo.Save(ctx, mark))

	found, err := markRepo.FindBySubjectAndStudent(ctx, schoolID, subject.ID, studentID)
	require.NoError(t, err)
	assert.True(t, found.MarksObtained.Equal(decimal.NewFromInt(72)))

	require.NoError(t, found.Update(subject, decimal.NewFromInt(85), false, uuid.New()))
	require.NoError(t, markRepo.Save(ctx, found))

	count, err := markRepo.CountBySubject(ctx, schoolID, subject.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	byExam, err := markRepo.FindByExam(ctx, schoolID, exam.ID)
	require.NoError(t, err)
	require.Len(t, byExam, 1)
	assert.True(t, byExam[0].MarksObtained.Equal(decimal.NewFromInt(85)))
}

func TestGormStudentResultRepository_ReplaceForExam(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormStudentResultRepository(db)
	ctx := context.Background()
	schoolID := uuid.New()
	examID := uuid.New()

	makeResult := func(studentID uuid.UUID, pct int64, rank int) exams.StudentResult {
		return exams.StudentResult{
			SchoolAggregateRoot: shared.NewSchoolAggregateRoot(schoolID),
			ExamID:              examID,
			StudentID:           studentID,
			TotalMarks:          decimal.NewFromInt(pct),
			MaxMarks:            decimal.NewFromInt(100),
			Percentage:          decimal.NewFromInt(pct),
			Status:              exams.ResultPass,
			Rank:                rank,
			SubjectCount:        1,
		}
	}

	first := uuid.New()
	second := uuid.New()
	require.NoError(t, repo.ReplaceForExam(ctx, schoolID, examID, []exams.StudentResult{
		makeResult(first, 90, 1),
		makeResult(second, 70, 2),
	}))

	results, err := repo.FindByExam(ctx, schoolID, examID)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, first, results[0].StudentID)

	// A rerun replaces the previous set entirely
	require.NoError(t, repo.ReplaceForExam(ctx, schoolID, examID, []exams.StudentResult{
		makeResult(second, 95, 1),
	}))

	results, err = repo.FindByExam(ctx, schoolID, examID)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, second, results[0].StudentID)

	_, err = repo.FindByExamAndStudent(ctx, schoolID, examID, first)
	assert.True(t, errors.Is(err, shared.ErrNotFound))
}

func TestGormGradeScaleRepository_ActiveScaleWithBands(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormGradeScaleRepository(db)
	ctx := context.Background()
	schoolID := uuid.New()

	scale, err := school.NewGradeScale(schoolID, "CBSE", []school.GradeBand{
		{MinPercentage: decimal.NewFromInt(91), MaxPercentage: decimal.NewFromInt(100), Name: "A+", GradePoint: decimal.NewFromInt(10)},
		{MinPercentage: decimal.NewFromInt(81), MaxPercentage: decimal.NewFromInt(90), Name: "A", GradePoint: decimal.NewFromInt(9)},
		{MinPercentage: decimal.Zero, MaxPercentage: decimal.NewFromInt(80), Name: "B", GradePoint: decimal.NewFromInt(8)},
	})
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, scale))

	loaded, err := repo.FindActiveForSchool(ctx, schoolID)
	require.NoError(t, err)
	require.Len(t, loaded.Bands, 3)
	assert.Equal(t, "A+", loaded.Bands[0].Name)

	band := loaded.Lookup(decimal.NewFromInt(85))
	require.NotNil(t, band)
	assert.Equal(t, "A", band.Name)

	_, err = repo.FindActiveForSchool(ctx, uuid.New())
	assert.True(t, errors.Is(err, shared.ErrNotFound))
}

func TestGormHolidayRepository_FindActiveInRange(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormHolidayRepository(db)
	ctx := context.Background()
	schoolID := uuid.New()

	diwali, err := school.NewHoliday(schoolID, "Diwali",
		time.Date(2025, 10, 20, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 10, 25, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	summer, err := school.NewHoliday(schoolID, "Summer break",
		time.Date(2025, 5, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, diwali))
	require.NoError(t, repo.Save(ctx, summer))

	october := time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)
	found, err := repo.FindActiveInRange(ctx, schoolID, october, october.AddDate(0, 1, -1))
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Diwali", found[0].Name)
}
