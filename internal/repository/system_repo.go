package repository

import (
	"winehouse-pos/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SystemRepository interface {
	// EnsureSetting inserts key with value unless the key already exists
	EnsureSetting(key, value string) error
	Get(key string) (string, error)
}

type systemRepo struct {
	db *gorm.DB
}

func NewSystemRepo(db *gorm.DB) SystemRepository {
	return &systemRepo{db}
}

func (r *systemRepo) EnsureSetting(key, value string) error {
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.SystemSetting{Key: key, Value: value}).Error
}

func (r *systemRepo) Get(key string) (string, error) {
	var setting model.SystemSetting
	if err := r.db.First(&setting, "key = ?", key).Error; err != nil {
		return "", err
	}
	return setting.Value, nil
}
