package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type StatusType string

const (
	StatusExpired StatusType = "expired"
	StatusDamaged StatusType = "damaged"
)

type ReportState string

const (
	ReportPending  ReportState = "pending"
	ReportApproved ReportState = "approved"
	ReportRejected ReportState = "rejected"
)

// ReportRevision is a snapshot of a rejected report taken right before the
// reporter edits and resubmits it.
type ReportRevision struct {
	Notes       string      `json:"notes"`
	ImageURL    string      `json:"image_url,omitempty"`
	ReviewNotes string      `json:"review_notes,omitempty"`
	Status      ReportState `json:"status"`
	Timestamp   time.Time   `json:"timestamp"`
}

// ProductStatus is an expired/damaged product report.
// Lifecycle: pending -> approved | rejected, rejected -> pending (revision).
type ProductStatus struct {
	BaseModel
	ProductID   uuid.UUID   `gorm:"type:uuid;not null;index" json:"product_id" validate:"uuid_required"`
	ProductName string      `gorm:"type:varchar(255)" json:"product_name"`
	StockID     uuid.UUID   `gorm:"type:uuid;not null;index" json:"stock_id"`
	Type        StatusType  `gorm:"type:varchar(10);not null;index" json:"type" validate:"required,oneof=expired damaged"`
	Quantity    int         `gorm:"not null" json:"quantity" validate:"required,gt=0"`
	Notes       string      `gorm:"type:text" json:"notes"`
	ImageURL    string      `gorm:"type:text" json:"image_url,omitempty"`
	Status      ReportState `gorm:"type:varchar(10);not null;index" json:"status"`

	ReportedBy         uuid.UUID `gorm:"type:uuid;not null;index" json:"reported_by"`
	ReportedByUsername string    `gorm:"type:varchar(100)" json:"reported_by_username"`
	ReportedAt         time.Time `gorm:"not null" json:"reported_at"`

	ReviewedBy         *uuid.UUID `gorm:"type:uuid" json:"reviewed_by,omitempty"`
	ReviewedByUsername string     `gorm:"type:varchar(100)" json:"reviewed_by_username,omitempty"`
	ReviewedAt         *time.Time `json:"reviewed_at,omitempty"`
	ReviewNotes        string     `gorm:"type:text" json:"review_notes,omitempty"`

	EditedAt        *time.Time                          `json:"edited_at,omitempty"`
	PreviousReports datatypes.JSONSlice[ReportRevision] `gorm:"not null;default:'[]'" json:"previous_reports"`
}

// TableName specifies the table name for GORM
func (ProductStatus) TableName() string {
	return "product_statuses"
}

// ApplyReview records the reviewer's decision on the report
func (p *ProductStatus) ApplyReview(decision ReportState, notes string, reviewerID uuid.UUID, reviewerName string, at time.Time) {
	p.Status = decision
	p.ReviewNotes = notes
	p.ReviewedBy = &reviewerID
	p.ReviewedByUsername = reviewerName
	p.ReviewedAt = &at
}

// Revise snapshots the current version into PreviousReports, replaces the
// notes and image, and puts the report back into the review queue.
func (p *ProductStatus) Revise(notes, imageURL string, at time.Time) {
	p.PreviousReports = append(p.PreviousReports, ReportRevision{
		Notes:       p.Notes,
		ImageURL:    p.ImageURL,
		ReviewNotes: p.ReviewNotes,
		Status:      p.Status,
		Timestamp:   at,
	})
	p.Notes = notes
	p.ImageURL = imageURL
	p.Status = ReportPending
	p.EditedAt = &at
	p.ReviewedBy = nil
	p.ReviewedByUsername = ""
	p.ReviewedAt = nil
	p.ReviewNotes = ""
}
