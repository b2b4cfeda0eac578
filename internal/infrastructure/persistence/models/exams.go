package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/schoolerp/backend/internal/domain/exams"
	"github.com/shopspring/decimal"
)

// ExamModel is the persistence model for the Exam aggregate root.
type ExamModel struct {
	SchoolAggregateModel
	Name              string             `gorm:"type:varchar(200);not null"`
	ClassID           uuid.UUID          `gorm:"type:uuid;not null;index"`
	AcademicYearID    uuid.UUID          `gorm:"type:uuid;not null;index"`
	PassingPercentage decimal.Decimal    `gorm:"type:decimal(7,4);not null"`
	Status            exams.ExamStatus   `gorm:"type:varchar(20);not null;default:'SCHEDULED';index"`
	Subjects          []ExamSubjectModel `gorm:"foreignKey:ExamID"`
}

// TableName returns the table name for GORM
func (ExamModel) TableName() string {
	return "exams"
}

// ExamSubjectModel is the persistence model for one paper of an exam.
type ExamSubjectModel struct {
	BaseModel
	ExamID       uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_exam_subject,priority:1"`
	SubjectID    uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_exam_subject,priority:2"`
	SubjectName  string          `gorm:"type:varchar(100);not null"`
	MaxMarks     decimal.Decimal `gorm:"type:decimal(7,2);not null"`
	PassingMarks decimal.Decimal `gorm:"type:decimal(7,2);not null"`
	IsOptional   bool            `gorm:"not null;default:false"`
	ExamDate     time.Time
}

// TableName returns the table name for GORM
func (ExamSubjectModel) TableName() string {
	return "exam_subjects"
}

// ToDomain converts the persistence model to a domain Exam entity.
func (m *ExamModel) ToDomain() *exams.Exam {
	e := &exams.Exam{
		SchoolAggregateRoot: m.ToDomainSchoolAggregateRoot(),
		Name:                m.Name,
		ClassID:             m.ClassID,
		AcademicYearID:      m.AcademicYearID,
		PassingPercentage:   m.PassingPercentage,
		Status:              m.Status,
	}
	e.Subjects = make([]exams.ExamSubject, len(m.Subjects))
	for i, s := range m.Subjects {
		e.Subjects[i] = exams.ExamSubject{
			BaseEntity:   s.BaseModel.ToDomain(),
			ExamID:       s.ExamID,
			SubjectID:    s.SubjectID,
			SubjectName:  s.SubjectName,
			MaxMarks:     s.MaxMarks,
			PassingMarks: s.PassingMarks,
			IsOptional:   s.IsOptional,
			ExamDate:     s.ExamDate,
		}
	}
	return e
}

// FromDomain populates the persistence model from a domain Exam entity.
func (m *ExamModel) FromDomain(e *exams.Exam) {
	m.FromDomainSchoolAggregateRoot(e.SchoolAggregateRoot)
	m.Name = e.Name
	m.ClassID = e.ClassID
	m.AcademicYearID = e.AcademicYearID
	m.PassingPercentage = e.PassingPercentage
	m.Status = e.Status
	m.Subjects = make([]ExamSubjectModel, len(e.Subjects))
	for i, s := range e.Subjects {
		m.Subjects[i] = ExamSubjectModel{
			ExamID:       s.ExamID,
			SubjectID:    s.SubjectID,
			SubjectName:  s.SubjectName,
			MaxMarks:     s.MaxMarks,
			PassingMarks: s.PassingMarks,
			IsOptional:   s.IsOptional,
			ExamDate:     s.ExamDate,
		}
		m.Subjects[i].FromDomainBaseEntity(s.BaseEntity)
	}
}

// StudentMarkModel is the persistence model for the StudentMark aggregate root.
type StudentMarkModel struct {
	SchoolAggregateModel
	ExamID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	ExamSubjectID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_mark_subject_student,priority:1"`
	SubjectID     uuid.UUID       `gorm:"type:uuid;not null"`
	StudentID     uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_mark_subject_student,priority:2"`
	MarksObtained decimal.Decimal `gorm:"type:decimal(7,2);not null"`
	IsAbsent      bool            `gorm:"not null;default:false"`
	Remarks       string          `gorm:"type:varchar(500)"`
	EnteredBy     uuid.UUID       `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (StudentMarkModel) TableName() string {
	return "student_marks"
}

// ToDomain converts the persistence model to a domain StudentMark entity.
func (m *StudentMarkModel) ToDomain() *exams.StudentMark {
	return &exams.StudentMark{
		SchoolAggregateRoot: m.ToDomainSchoolAggregateRoot(),
		ExamID:              m.ExamID,
		ExamSubjectID:       m.ExamSubjectID,
		SubjectID:           m.SubjectID,
		StudentID:           m.StudentID,
		MarksObtained:       m.MarksObtained,
		IsAbsent:            m.IsAbsent,
		Remarks:             m.Remarks,
		EnteredBy:           m.EnteredBy,
	}
}

// FromDomain populates the persistence model from a domain StudentMark entity.
func (m *StudentMarkModel) FromDomain(mark *exams.StudentMark) {
	m.FromDomainSchoolAggregateRoot(mark.SchoolAggregateRoot)
	m.ExamID = mark.ExamID
	m.ExamSubjectID = mark.ExamSubjectID
	m.SubjectID = mark.SubjectID
	m.StudentID = mark.StudentID
	m.MarksObtained = mark.MarksObtained
	m.IsAbsent = mark.IsAbsent
	m.Remarks = mark.Remarks
	m.EnteredBy = mark.EnteredBy
}

// StudentResultModel is the persistence model for the StudentResult aggregate root.
type StudentResultModel struct {
	SchoolAggregateModel
	ExamID         uuid.UUID          `gorm:"type:uuid;not null;uniqueIndex:idx_result_exam_student,priority:1"`
	StudentID      uuid.UUID          `gorm:"type:uuid;not null;uniqueIndex:idx_result_exam_student,priority:2"`
	TotalMarks     decimal.Decimal    `gorm:"type:decimal(9,2);not null"`
	MaxMarks       decimal.Decimal    `gorm:"type:decimal(9,2);not null"`
	Percentage     decimal.Decimal    `gorm:"type:decimal(7,4);not null"`
	Grade          string             `gorm:"type:varchar(10)"`
	GradePoint     decimal.Decimal    `gorm:"type:decimal(5,2);not null;default:0"`
	Status         exams.ResultStatus `gorm:"type:varchar(10);not null"`
	Rank           int                `gorm:"not null;default:0"`
	SubjectCount   int                `gorm:"not null;default:0"`
	FailedSubjects int                `gorm:"not null;default:0"`
	HasAbsence     bool               `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (StudentResultModel) TableName() string {
	return "student_results"
}

// ToDomain converts the persistence model to a domain StudentResult entity.
func (m *StudentResultModel) ToDomain() *exams.StudentResult {
	return &exams.StudentResult{
		SchoolAggregateRoot: m.ToDomainSchoolAggregateRoot(),
		ExamID:              m.ExamID,
		StudentID:           m.StudentID,
		TotalMarks:          m.TotalMarks,
		MaxMarks:            m.MaxMarks,
		Percentage:          m.Percentage,
		Grade:               m.Grade,
		GradePoint:          m.GradePoint,
		Status:              m.Status,
		Rank:                m.Rank,
		SubjectCount:        m.SubjectCount,
		FailedSubjects:      m.FailedSubjects,
		HasAbsence:          m.HasAbsence,
	}
}

// FromDomain populates the persistence model from a domain StudentResult entity.
func (m *StudentResultModel) FromDomain(r *exams.StudentResult) {
	m.FromDomainSchoolAggregateRoot(r.SchoolAggregateRoot)
	m.ExamID = r.ExamID
	m.StudentID = r.StudentID
	m.TotalMarks = r.TotalMarks
	m.MaxMarks = r.MaxMarks
	m.Percentage = r.Percentage
	m.Grade = r.Grade
	m.GradePoint = r.GradePoint
	m.Status = r.Status
	m.Rank = r.Rank
	m.SubjectCount = r.SubjectCount
	m.FailedSubjects = r.FailedSubjects
	m.HasAbsence = r.HasAbsence
}
