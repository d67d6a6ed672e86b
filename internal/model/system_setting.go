package model

import "time"

// SystemSetting is a persisted key/value flag owned by the service itself
type SystemSetting struct {
	Key       string    `gorm:"type:varchar(100);primaryKey" json:"key"`
	Value     string    `gorm:"type:varchar(255);not null" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

const (
	// SettingAdminBootstrapped flips from "false" to "true" exactly once, when the
	// first account registers and is granted the admin role.
	SettingAdminBootstrapped = "admin_bootstrapped"

	SettingFalse = "false"
	SettingTrue  = "true"
)
