package repository

import (
	"winehouse-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AttendanceRepository interface {
	// FindOpen returns the record of userID on date that has no clock-out yet,
	// or gorm.ErrRecordNotFound.
	FindOpen(userID uuid.UUID, date string) (*model.AttendanceRecord, error)
	// ClockIn inserts the record and flags the user active in one transaction
	ClockIn(record *model.AttendanceRecord) error
	// ClockOut closes the record (only if still open) and flags the user
	// inactive in one transaction. Returns ErrStaleWrite if already closed.
	ClockOut(record *model.AttendanceRecord) error
	FindByDate(date string) ([]model.AttendanceRecord, error)
	FindByUserID(userID uuid.UUID, limit int) ([]model.AttendanceRecord, error)
}

type attendanceRepo struct {
	db *gorm.DB
}

func NewAttendanceRepo(db *gorm.DB) AttendanceRepository {
	return &attendanceRepo{db}
}

func (r *attendanceRepo) FindOpen(userID uuid.UUID, date string) (*model.AttendanceRecord, error) {
	var record model.AttendanceRecord
	err := r.db.Where("user_id = ? AND date = ? AND time_out IS NULL", userID, date).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *attendanceRepo) ClockIn(record *model.AttendanceRecord) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("User").Create(record).Error; err != nil {
			return err
		}
		return tx.Model(&model.User{}).
			Where("id = ?", record.UserID).
			Updates(map[string]interface{}{
				"is_active":    true,
				"last_time_in": record.TimeIn,
			}).Error
	})
}

func (r *attendanceRepo) ClockOut(record *model.AttendanceRecord) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.AttendanceRecord{}).
			Where("id = ? AND time_out IS NULL", record.ID).
			Updates(map[string]interface{}{
				"time_out": record.TimeOut,
				"duration": record.Duration,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrStaleWrite
		}
		return tx.Model(&model.User{}).
			Where("id = ?", record.UserID).
			Updates(map[string]interface{}{
				"is_active":     false,
				"last_time_out": record.TimeOut,
			}).Error
	})
}

func (r *attendanceRepo) FindByDate(date string) ([]model.AttendanceRecord, error) {
	var records []model.AttendanceRecord
	err := r.db.Preload("User").
		Where("date = ?", date).
		Order("time_in ASC").
		Find(&records).Error
	return records, err
}

func (r *attendanceRepo) FindByUserID(userID uuid.UUID, limit int) ([]model.AttendanceRecord, error) {
	var records []model.AttendanceRecord
	query := r.db.Where("user_id = ?", userID).Order("time_in DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&records).Error
	return records, err
}
