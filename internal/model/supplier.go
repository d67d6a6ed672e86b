package model

type Supplier struct {
	BaseModel
	Name          string `gorm:"type:varchar(255);not null" json:"name" validate:"required,max=255"`
	ContactNumber string `gorm:"type:varchar(11);not null" json:"contact_number" validate:"contact_number"`

	CreatedByUserID *string `gorm:"type:varchar(255)" json:"created_by_user_id,omitempty"`
}
