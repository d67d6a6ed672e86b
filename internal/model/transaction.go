package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction is a sale posted against one stock lot
type Transaction struct {
	BaseModel
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id" validate:"uuid_required"`
	ProductName string          `gorm:"type:varchar(255)" json:"product_name"`
	StockID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"stock_id"`
	Quantity    int             `gorm:"not null" json:"quantity" validate:"required,gt=0"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	TotalPrice  decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"total_price"` // Snapshot price * quantity
	Date        time.Time       `gorm:"not null;index" json:"date"`

	// User tracking
	CreatedByUserID   *string `gorm:"type:varchar(255)" json:"created_by_user_id,omitempty"`
	CreatedByUsername string  `gorm:"type:varchar(100)" json:"created_by_username"`
}
