package exams

import (
	"sort"

	"github.com/google/uuid"
	"github.com/schoolerp/backend/internal/domain/school"
	"github.com/schoolerp/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ResultCalculator aggregates entered marks into per-student exam results
// and ranks them within the class.
type ResultCalculator struct{}

// NewResultCalculator creates a result calculator
func NewResultCalculator() *ResultCalculator {
	return &ResultCalculator{}
}

// Calculate computes one result per student from the marks entered for an
// exam. Subjects a student has no mark for are left out of that student's
// totals; students with no marks at all get no result. Ranks are assigned
// by descending percentage with no tie collapsing, ties keeping entry order.
// A nil grade scale leaves the grade fields empty.
func (c *ResultCalculator) Calculate(exam *Exam, marks []StudentMark, scale *school.GradeScale) ([]StudentResult, error) {
	if exam == nil {
		return nil, shared.NewDomainError("INVALID_EXAM", "Exam cannot be nil")
	}
	if len(exam.Subjects) == 0 {
		return nil, shared.NewDomainError("NO_SUBJECTS", "Exam has no subjects to calculate results for")
	}

	subjectByID := make(map[uuid.UUID]*ExamSubject, len(exam.Subjects))
	for i := range exam.Subjects {
		subjectByID[exam.Subjects[i].ID] = &exam.Subjects[i]
	}

	// Preserve first-seen order so rank tie-breaking is deterministic.
	var studentOrder []uuid.UUID
	marksByStudent := make(map[uuid.UUID][]StudentMark)
	for _, m := range marks {
		if m.ExamID != exam.ID {
			return nil, shared.NewDomainError("EXAM_MISMATCH", "Mark belongs to a different exam")
		}
		if _, seen := marksByStudent[m.StudentID]; !seen {
			studentOrder = append(studentOrder, m.StudentID)
		}
		marksByStudent[m.StudentID] = append(marksByStudent[m.StudentID], m)
	}

	hundred := decimal.NewFromInt(100)
	results := make([]StudentResult, 0, len(studentOrder))
	for _, studentID := range studentOrder {
		r := StudentResult{
			SchoolAggregateRoot: shared.NewSchoolAggregateRoot(exam.SchoolID),
			ExamID:              exam.ID,
			StudentID:           studentID,
			TotalMarks:          decimal.Zero,
			MaxMarks:            decimal.Zero,
		}
		for _, m := range marksByStudent[studentID] {
			subject, ok := subjectByID[m.ExamSubjectID]
			if !ok {
				continue
			}
			r.SubjectCount++
			r.TotalMarks = r.TotalMarks.Add(m.MarksObtained)
			r.MaxMarks = r.MaxMarks.Add(subject.MaxMarks)
			if m.IsAbsent && !subject.IsOptional {
				r.HasAbsence = true
			}
			if !subject.IsOptional && m.MarksObtained.LessThan(subject.PassingMarks) {
				r.FailedSubjects++
			}
		}
		if r.SubjectCount == 0 {
			continue
		}

		r.Percentage = r.TotalMarks.Mul(hundred).Div(r.MaxMarks).Round(2)
		if r.HasAbsence || r.FailedSubjects > 0 || r.Percentage.LessThan(exam.PassingPercentage) {
			r.Status = ResultFail
		} else {
			r.Status = ResultPass
		}
		if scale != nil {
			if band := scale.Lookup(r.Percentage); band != nil {
				r.Grade = band.Name
				r.GradePoint = band.GradePoint
			}
		}
		results = append(results, r)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Percentage.GreaterThan(results[j].Percentage)
	})
	for i := range results {
		results[i].Rank = i + 1
	}
	return results, nil
}
