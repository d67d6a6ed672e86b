package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ActivityLog is an append-only audit entry written by every mutating operation
type ActivityLog struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	Username  string    `gorm:"type:varchar(100)" json:"username"`
	UserRole  string    `gorm:"type:varchar(20)" json:"user_role"`
	Action    string    `gorm:"type:varchar(100);not null;index" json:"action"`
	Details   string    `gorm:"type:text" json:"details"`
	Timestamp time.Time `gorm:"not null;index" json:"timestamp"`
}

func (l *ActivityLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
