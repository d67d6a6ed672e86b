package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Stock is one delivered lot of a product. Product and supplier names are
// snapshotted at creation so listings survive later renames.
type Stock struct {
	BaseModel
	ProductID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id" validate:"uuid_required"`
	ProductName     string          `gorm:"type:varchar(255)" json:"product_name"`
	ProductImageURL string          `gorm:"type:text" json:"product_image_url,omitempty"`
	SupplierID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"supplier_id" validate:"uuid_required"`
	SupplierName    string          `gorm:"type:varchar(255)" json:"supplier_name"`
	Quantity        int             `gorm:"not null;default:0;check:quantity >= 0" json:"quantity" validate:"gte=0"`
	Price           decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	DateAdded       time.Time       `gorm:"type:date;not null" json:"date_added" validate:"required"`
	ExpiryDate      time.Time       `gorm:"type:date;not null;index" json:"expiry_date" validate:"required"`

	CreatedByUserID *string `gorm:"type:varchar(255)" json:"created_by_user_id,omitempty"`
}
