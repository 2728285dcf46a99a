package core

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"worktally.com/worktally/attendance/model"
	"worktally.com/worktally/core"
)

// UserProfiles resolves the rated profile of a user.
type UserProfiles interface {
	FindUserByID(ctx context.Context, id string) (*core.User, error)
}

// ClockRecordStore persists clock records. Create and SaveClockOut must be
// atomic with respect to the (user, date) key.
type ClockRecordStore interface {
	FindByUserAndDate(ctx context.Context, userID string, date string) (*model.ClockRecord, error)
	// Create inserts the record unless one already exists for its user and date,
	// in which case it returns ErrAlreadyClockedIn.
	Create(ctx context.Context, record *model.ClockRecord) error
	// SaveClockOut writes the clock-out time and derived fields only if the
	// record is still open, otherwise it returns ErrAlreadyClockedOut.
	SaveClockOut(ctx context.Context, record *model.ClockRecord) error
	// FindByUserAndDateRange returns records with start <= date <= end ordered by date.
	FindByUserAndDateRange(ctx context.Context, userID string, start string, end string) ([]model.ClockRecord, error)
}

type GormClockRecordStore struct {
	Dm *core.DatabaseManager
}

func NewGormClockRecordStore(dm *core.DatabaseManager) *GormClockRecordStore {
	return &GormClockRecordStore{Dm: dm}
}

func (s *GormClockRecordStore) FindByUserAndDate(ctx context.Context, userID string, date string) (*model.ClockRecord, error) {
	var record model.ClockRecord
	err := s.Dm.Exec(ctx, func(db *gorm.DB) error {
		return db.Where("user_id = ? AND date = ?", userID, date).Take(&record).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil // not found
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (s *GormClockRecordStore) Create(ctx context.Context, record *model.ClockRecord) error {
	return s.Dm.Exec(ctx, func(db *gorm.DB) error {
		// conflict on the unique (user_id, date) index inserts nothing
		result := db.Omit(clause.Associations).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "date"}},
			DoNothing: true,
		}).Create(record)
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
				return ErrAlreadyClockedIn
			}
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrAlreadyClockedIn
		}
		return nil
	})
}

func (s *GormClockRecordStore) SaveClockOut(ctx context.Context, record *model.ClockRecord) error {
	return s.Dm.Exec(ctx, func(db *gorm.DB) error {
		result := db.Model(&model.ClockRecord{}).
			Where("id = ? AND clock_out_time IS NULL", record.ID).
			Updates(map[string]any{
				"clock_out_time":        record.ClockOutTime,
				"actual_work_hours":     record.ActualWorkHours,
				"expected_daily_salary": record.ExpectedDailySalary,
				"actual_hourly_rate":    record.ActualHourlyRate,
				"updated_at":            time.Now(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrAlreadyClockedOut
		}
		return nil
	})
}

func (s *GormClockRecordStore) FindByUserAndDateRange(ctx context.Context, userID string, start string, end string) ([]model.ClockRecord, error) {
	var records []model.ClockRecord
	err := s.Dm.Exec(ctx, func(db *gorm.DB) error {
		return db.Where("user_id = ? AND date BETWEEN ? AND ?", userID, start, end).
			Order("date ASC").
			Find(&records).Error
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}
