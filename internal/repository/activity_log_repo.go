package repository

import (
	"winehouse-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ActivityLogFilter narrows activity listings; zero values mean "any"
type ActivityLogFilter struct {
	UserID *uuid.UUID
	Limit  int
}

type ActivityLogRepository interface {
	Create(entry *model.ActivityLog) error
	FindAll(filter ActivityLogFilter) ([]model.ActivityLog, error)
}

type activityLogRepo struct {
	db *gorm.DB
}

func NewActivityLogRepo(db *gorm.DB) ActivityLogRepository {
	return &activityLogRepo{db}
}

func (r *activityLogRepo) Create(entry *model.ActivityLog) error {
	return r.db.Create(entry).Error
}

func (r *activityLogRepo) FindAll(filter ActivityLogFilter) ([]model.ActivityLog, error) {
	var logs []model.ActivityLog

	query := r.db.Order("timestamp DESC")
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	err := query.Find(&logs).Error
	return logs, err
}
