package model

// Product is a catalog entry. Products are immutable once created.
type Product struct {
	BaseModel
	Name     string `gorm:"type:varchar(255);not null" json:"name" validate:"required,max=255"`
	ImageURL string `gorm:"type:text" json:"image_url,omitempty" validate:"omitempty,max=2048"`

	// User tracking
	CreatedByUserID *string `gorm:"type:varchar(255)" json:"created_by_user_id,omitempty"`
}
