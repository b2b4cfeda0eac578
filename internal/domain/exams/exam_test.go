package exams

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestExam(t *testing.T, passingPercentage int64) *Exam {
	t.Helper()
	e, err := NewExam(uuid.New(), "Mid Term", uuid.New(), uuid.New(), decimal.NewFromInt(passingPercentage))
	require.NoError(t, err)
	return e
}

func addSubject(t *testing.T, e *Exam, name string, maxMarks, passingMarks int64) *ExamSubject {
	t.Helper()
	s, err := e.AddSubject(uuid.New(), name, decimal.NewFromInt(maxMarks), decimal.NewFromInt(passingMarks), false, time.Now())
	require.NoError(t, err)
	return s
}

func TestExam_AddSubject(t *testing.T) {
	t.Run("adds subjects", func(t *testing.T) {
		e := newTestExam(t, 33)
		s := addSubject(t, e, "Mathematics", 100, 33)
		assert.Equal(t, e.ID, s.ExamID)
		assert.Len(t, e.Subjects, 1)
	})

	t.Run("rejects duplicate subject", func(t *testing.T) {
		e := newTestExam(t, 33)
		subjectID := uuid.New()
		_, err := e.AddSubject(subjectID, "Maths", decimal.NewFromInt(100), decimal.NewFromInt(33), false, time.Now())
		require.NoError(t, err)
		_, err = e.AddSubject(subjectID, "Maths", decimal.NewFromInt(100), decimal.NewFromInt(33), false, time.Now())
		assert.Error(t, err)
	})

	t.Run("rejects passing marks above max", func(t *testing.T) {
		e := newTestExam(t, 33)
		_, err := e.AddSubject(uuid.New(), "Maths", decimal.NewFromInt(50), decimal.NewFromInt(60), false, time.Now())
		assert.Error(t, err)
	})

	t.Run("rejects changes after publish", func(t *testing.T) {
		e := newTestExam(t, 33)
		s := addSubject(t, e, "Maths", 100, 33)
		require.NoError(t, e.Complete())
		require.NoError(t, e.Publish())

		_, err := e.AddSubject(uuid.New(), "Science", decimal.NewFromInt(100), decimal.NewFromInt(33), false, time.Now())
		assert.Error(t, err)
		assert.Error(t, e.RemoveSubject(s.SubjectID))
	})
}

func TestExam_RemoveSubject(t *testing.T) {
	e := newTestExam(t, 33)
	s := addSubject(t, e, "Maths", 100, 33)
	addSubject(t, e, "Science", 100, 33)

	require.NoError(t, e.RemoveSubject(s.SubjectID))
	assert.Len(t, e.Subjects, 1)
	assert.Error(t, e.RemoveSubject(s.SubjectID))
}

func TestExam_Lifecycle(t *testing.T) {
	e := newTestExam(t, 33)
	assert.Equal(t, ExamScheduled, e.Status)

	assert.Error(t, e.Publish())
	require.NoError(t, e.Complete())
	assert.Error(t, e.Complete())
	require.NoError(t, e.Publish())
	assert.Equal(t, ExamPublished, e.Status)
}

func TestNewStudentMark(t *testing.T) {
	e := newTestExam(t, 33)
	subject := addSubject(t, e, "Maths", 100, 33)

	t.Run("records a valid score", func(t *testing.T) {
		m, err := NewStudentMark(e.SchoolID, subject, uuid.New(), decimal.NewFromInt(85), false, uuid.New())
		require.NoError(t, err)
		assert.Equal(t, subject.ID, m.ExamSubjectID)
		assert.True(t, m.MarksObtained.Equal(decimal.NewFromInt(85)))
	})

	t.Run("absent forces zero marks", func(t *testing.T) {
		m, err := NewStudentMark(e.SchoolID, subject, uuid.New(), decimal.NewFromInt(40), true, uuid.New())
		require.NoError(t, err)
		assert.True(t, m.MarksObtained.IsZero())
		assert.True(t, m.IsAbsent)
	})

	t.Run("rejects marks above max", func(t *testing.T) {
		_, err := NewStudentMark(e.SchoolID, subject, uuid.New(), decimal.NewFromInt(101), false, uuid.New())
		assert.Error(t, err)
	})

	t.Run("rejects negative marks", func(t *testing.T) {
		_, err := NewStudentMark(e.SchoolID, subject, uuid.New(), decimal.NewFromInt(-1), false, uuid.New())
		assert.Error(t, err)
	})
}

func TestStudentMark_Update(t *testing.T) {
	e := newTestExam(t, 33)
	subject := addSubject(t, e, "Maths", 100, 33)
	m, err := NewStudentMark(e.SchoolID, subject, uuid.New(), decimal.NewFromInt(40), false, uuid.New())
	require.NoError(t, err)

	t.Run("replaces the score", func(t *testing.T) {
		require.NoError(t, m.Update(subject, decimal.NewFromInt(72), false, uuid.New()))
		assert.True(t, m.MarksObtained.Equal(decimal.NewFromInt(72)))
	})

	t.Run("rejects a different paper", func(t *testing.T) {
		other := addSubject(t, e, "Science", 100, 33)
		assert.Error(t, m.Update(other, decimal.NewFromInt(50), false, uuid.New()))
	})

	t.Run("rejects marks above max", func(t *testing.T) {
		assert.Error(t, m.Update(subject, decimal.NewFromInt(150), false, uuid.New()))
	})
}
