package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/schoolerp/backend/internal/domain/school"
	"github.com/schoolerp/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormHolidayRepository implements HolidayRepository using GORM
type GormHolidayRepository struct {
	db *gorm.DB
}

// NewGormHolidayRepository creates a new GormHolidayRepository
func NewGormHolidayRepository(db *gorm.DB) *GormHolidayRepository {
	return &GormHolidayRepository{db: db}
}

// FindActiveInRange finds active holidays overlapping the given date range
func (r *GormHolidayRepository) FindActiveInRange(ctx context.Context, schoolID uuid.UUID, from, to time.Time) ([]school.Holiday, error) {
	var holidayModels []models.HolidayModel
	if err := dbFromContext(ctx, r.db).WithContext(ctx).
		Where("school_id = ? AND is_active = ? AND start_date <= ? AND end_date >= ?", schoolID, true, to, from).
		Order("start_date ASC").
		Find(&holidayModels).Error; err != nil {
		return nil, err
	}
	holidays := make([]school.Holiday, len(holidayModels))
	for i, model := range holidayModels {
		holidays[i] = *model.ToDomain()
	}
	return holidays, nil
}

// Save persists a holiday
func (r *GormHolidayRepository) Save(ctx context.Context, holiday *school.Holiday) error {
	var model models.HolidayModel
	model.FromDomain(holiday)
	return dbFromContext(ctx, r.db).WithContext(ctx).Save(&model).Error
}
