package exams

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/schoolerp/backend/internal/domain/school"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mark(t *testing.T, e *Exam, subject *ExamSubject, studentID uuid.UUID, marks int64, absent bool) StudentMark {
	t.Helper()
	m, err := NewStudentMark(e.SchoolID, subject, studentID, decimal.NewFromInt(marks), absent, uuid.New())
	require.NoError(t, err)
	return *m
}

func testGradeScale(t *testing.T) *school.GradeScale {
	t.Helper()
	bands := []school.GradeBand{
		{MinPercentage: decimal.NewFromInt(90), MaxPercentage: decimal.NewFromInt(100), Name: "A+", GradePoint: decimal.NewFromInt(10)},
		{MinPercentage: decimal.NewFromInt(70), MaxPercentage: decimal.NewFromFloat(89.99), Name: "A", GradePoint: decimal.NewFromInt(9)},
		{MinPercentage: decimal.NewFromInt(33), MaxPercentage: decimal.NewFromFloat(69.99), Name: "C", GradePoint: decimal.NewFromInt(6)},
		{MinPercentage: decimal.NewFromInt(0), MaxPercentage: decimal.NewFromFloat(32.99), Name: "F", GradePoint: decimal.Zero},
	}
	gs, err := school.NewGradeScale(uuid.New(), "Default", bands)
	require.NoError(t, err)
	return gs
}

func TestResultCalculator_Calculate(t *testing.T) {
	calc := NewResultCalculator()

	t.Run("subject failure fails the result despite the percentage", func(t *testing.T) {
		e := newTestExam(t, 50)
		maths := addSubject(t, e, "Maths", 100, 33)
		science := addSubject(t, e, "Science", 100, 33)
		student := uuid.New()

		marks := []StudentMark{
			mark(t, e, maths, student, 80, false),
			mark(t, e, science, student, 20, false),
		}
		results, err := calc.Calculate(e, marks, nil)
		require.NoError(t, err)
		require.Len(t, results, 1)

		r := results[0]
		assert.True(t, r.Percentage.Equal(decimal.NewFromInt(50)))
		assert.Equal(t, ResultFail, r.Status)
		assert.Equal(t, 1, r.FailedSubjects)
	})

	t.Run("passes when every subject and the percentage clear", func(t *testing.T) {
		e := newTestExam(t, 50)
		maths := addSubject(t, e, "Maths", 100, 33)
		science := addSubject(t, e, "Science", 100, 33)
		student := uuid.New()

		marks := []StudentMark{
			mark(t, e, maths, student, 80, false),
			mark(t, e, science, student, 60, false),
		}
		results, err := calc.Calculate(e, marks, nil)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, ResultPass, results[0].Status)
		assert.True(t, results[0].Percentage.Equal(decimal.NewFromInt(70)))
	})

	t.Run("absence fails the result", func(t *testing.T) {
		e := newTestExam(t, 10)
		maths := addSubject(t, e, "Maths", 100, 0)
		science := addSubject(t, e, "Science", 100, 0)
		student := uuid.New()

		marks := []StudentMark{
			mark(t, e, maths, student, 95, false),
			mark(t, e, science, student, 0, true),
		}
		results, err := calc.Calculate(e, marks, nil)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, ResultFail, results[0].Status)
		assert.True(t, results[0].HasAbsence)
	})

	t.Run("optional subject never decides pass or fail", func(t *testing.T) {
		e := newTestExam(t, 10)
		maths := addSubject(t, e, "Maths", 100, 33)
		sanskrit, err := e.AddSubject(uuid.New(), "Sanskrit", decimal.NewFromInt(100), decimal.NewFromInt(33), true, time.Now())
		require.NoError(t, err)
		student := uuid.New()

		marks := []StudentMark{
			mark(t, e, maths, student, 80, false),
			mark(t, e, sanskrit, student, 10, false),
		}
		results, err := calc.Calculate(e, marks, nil)
		require.NoError(t, err)
		require.Len(t, results, 1)

		r := results[0]
		assert.Equal(t, ResultPass, r.Status)
		assert.Equal(t, 0, r.FailedSubjects)
		// The attempted optional paper still counts toward the totals
		assert.True(t, r.MaxMarks.Equal(decimal.NewFromInt(200)))
		assert.True(t, r.Percentage.Equal(decimal.NewFromInt(45)))
	})

	t.Run("absence on an optional subject does not fail the result", func(t *testing.T) {
		e := newTestExam(t, 10)
		maths := addSubject(t, e, "Maths", 100, 0)
		sanskrit, err := e.AddSubject(uuid.New(), "Sanskrit", decimal.NewFromInt(100), decimal.Zero, true, time.Now())
		require.NoError(t, err)
		student := uuid.New()

		marks := []StudentMark{
			mark(t, e, maths, student, 95, false),
			mark(t, e, sanskrit, student, 0, true),
		}
		results, err := calc.Calculate(e, marks, nil)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, ResultPass, results[0].Status)
		assert.False(t, results[0].HasAbsence)
	})

	t.Run("ranks by percentage without collapsing ties", func(t *testing.T) {
		e := newTestExam(t, 33)
		maths := addSubject(t, e, "Maths", 100, 33)
		a, b, c := uuid.New(), uuid.New(), uuid.New()

		marks := []StudentMark{
			mark(t, e, maths, a, 70, false),
			mark(t, e, maths, b, 90, false),
			mark(t, e, maths, c, 90, false),
		}
		results, err := calc.Calculate(e, marks, nil)
		require.NoError(t, err)
		require.Len(t, results, 3)

		assert.Equal(t, b, results[0].StudentID)
		assert.Equal(t, 1, results[0].Rank)
		assert.Equal(t, c, results[1].StudentID)
		assert.Equal(t, 2, results[1].Rank)
		assert.Equal(t, a, results[2].StudentID)
		assert.Equal(t, 3, results[2].Rank)
	})

	t.Run("missing subject marks shrink that student's base", func(t *testing.T) {
		e := newTestExam(t, 33)
		maths := addSubject(t, e, "Maths", 100, 33)
		addSubject(t, e, "Science", 100, 33)
		student := uuid.New()

		marks := []StudentMark{mark(t, e, maths, student, 80, false)}
		results, err := calc.Calculate(e, marks, nil)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, 1, results[0].SubjectCount)
		assert.True(t, results[0].MaxMarks.Equal(decimal.NewFromInt(100)))
		assert.True(t, results[0].Percentage.Equal(decimal.NewFromInt(80)))
	})

	t.Run("grades come from the scale when provided", func(t *testing.T) {
		e := newTestExam(t, 33)
		maths := addSubject(t, e, "Maths", 100, 33)
		student := uuid.New()

		marks := []StudentMark{mark(t, e, maths, student, 92, false)}
		results, err := calc.Calculate(e, marks, testGradeScale(t))
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "A+", results[0].Grade)
		assert.True(t, results[0].GradePoint.Equal(decimal.NewFromInt(10)))
	})

	t.Run("no marks yields no results", func(t *testing.T) {
		e := newTestExam(t, 33)
		addSubject(t, e, "Maths", 100, 33)
		results, err := calc.Calculate(e, nil, nil)
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("rejects an exam without subjects", func(t *testing.T) {
		e := newTestExam(t, 33)
		_, err := calc.Calculate(e, nil, nil)
		assert.Error(t, err)
	})

	t.Run("rejects marks from another exam", func(t *testing.T) {
		e := newTestExam(t, 33)
		addSubject(t, e, "Maths", 100, 33)

		other := newTestExam(t, 33)
		otherSubject := addSubject(t, other, "Maths", 100, 33)
		marks := []StudentMark{mark(t, other, otherSubject, uuid.New(), 50, false)}

		_, err := calc.Calculate(e, marks, nil)
		assert.Error(t, err)
	})
}
