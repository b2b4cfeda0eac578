package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/schoolerp/backend/internal/domain/payroll"
	"github.com/schoolerp/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTeacherAttendanceRepository implements TeacherAttendanceRepository using GORM
type GormTeacherAttendanceRepository struct {
	db *gorm.DB
}

// NewGormTeacherAttendanceRepository creates a new GormTeacherAttendanceRepository
func NewGormTeacherAttendanceRepository(db *gorm.DB) *GormTeacherAttendanceRepository {
	return &GormTeacherAttendanceRepository{db: db}
}

// FindForTeacherInRange finds a teacher's attendance marks within a date range
func (r *GormTeacherAttendanceRepository) FindForTeacherInRange(ctx context.Context, schoolID, teacherID uuid.UUID, from, to time.Time) ([]payroll.TeacherAttendance, error) {
	var attendanceModels []models.TeacherAttendanceModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Where("school_id = ? AND teacher_id = ? AND date >= ? AND date <= ?", schoolID, teacherID, from, to).
		Order("date ASC").
		Find(&attendanceModels).Error; err != nil {
		return nil, err
	}
	records := make([]payroll.TeacherAttendance, len(attendanceModels))
	for i, model := range attendanceModels {
		records[i] = *model.ToDomain()
	}
	return records, nil
}

// Save upserts an attendance mark on (teacher, date). Re-marking a day
// replaces the earlier status.
func (r *GormTeacherAttendanceRepository) Save(ctx context.Context, a *payroll.TeacherAttendance) error {
	var model models.TeacherAttendanceModel
	model.FromDomain(a)
	return dbFromContext(ctx, r.db).WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "teacher_id"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{"status", "updated_at", "version"}),
		}).
		Create(&model).Error
}
