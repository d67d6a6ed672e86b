package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AttendanceRecord is one clock-in/clock-out pair. Date is the shop-local
// calendar day (YYYY-MM-DD) of the clock-in.
type AttendanceRecord struct {
	ID       uuid.UUID  `gorm:"type:uuid;primary_key;" json:"id"`
	UserID   uuid.UUID  `gorm:"type:uuid;not null;index;uniqueIndex:idx_attendance_open,where:time_out IS NULL" json:"user_id"`
	User     *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Date     string     `gorm:"type:varchar(10);not null;index;uniqueIndex:idx_attendance_open,where:time_out IS NULL" json:"date"`
	TimeIn   time.Time  `gorm:"not null" json:"time_in"`
	TimeOut  *time.Time `json:"time_out,omitempty"`
	Duration *int       `json:"duration,omitempty"` // minutes
}

// IsOpen reports whether the record still waits for a clock-out
func (a *AttendanceRecord) IsOpen() bool {
	return a.TimeOut == nil
}

// Close stamps the clock-out time and the whole elapsed minutes
func (a *AttendanceRecord) Close(at time.Time) {
	minutes := int(at.Sub(a.TimeIn) / time.Minute)
	if minutes < 0 {
		minutes = 0
	}
	a.TimeOut = &at
	a.Duration = &minutes
}

func (a *AttendanceRecord) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
