package model

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// User represents an application account (admin or staff)
type User struct {
	BaseModel
	Username string `gorm:"type:varchar(100);uniqueIndex;not null" json:"username" validate:"required,min=3,max=100"`
	Password string `gorm:"type:varchar(255);not null" json:"-"` // Hidden from JSON
	RoleID   *uint  `gorm:"index" json:"role_id"`
	Role     *Role  `gorm:"foreignKey:RoleID" json:"role,omitempty"`

	// Profile
	FirstName        string     `gorm:"type:varchar(100)" json:"first_name"`
	MiddleName       string     `gorm:"type:varchar(100)" json:"middle_name"`
	LastName         string     `gorm:"type:varchar(100)" json:"last_name"`
	Birthday         *time.Time `gorm:"type:date" json:"birthday,omitempty"`
	Address          string     `gorm:"type:text" json:"address"`
	ContactNumber    string     `gorm:"type:varchar(11)" json:"contact_number"`
	Email            string     `gorm:"type:varchar(255)" json:"email"`
	ProfileImage     string     `gorm:"type:text" json:"profile_image"`
	ProfileUpdatedAt *time.Time `json:"profile_updated_at,omitempty"`

	// Attendance: IsActive is true between clock-in and clock-out
	IsActive    bool       `gorm:"default:false" json:"is_active"`
	LastTimeIn  *time.Time `json:"last_time_in,omitempty"`
	LastTimeOut *time.Time `json:"last_time_out,omitempty"`

	TokenVersion string     `gorm:"type:varchar(255);default:''" json:"-"` // For single session enforcement
	LastSeenAt   *time.Time `json:"last_seen_at,omitempty"`                // For user presence
}

// SetPassword hashes and sets the user's password
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword verifies if the provided password matches the stored hash
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// RoleCode returns the code of the user's role, or "" when the role is not loaded
func (u *User) RoleCode() string {
	if u.Role == nil {
		return ""
	}
	return u.Role.Code
}

// IsAdmin reports whether the user holds the admin role
func (u *User) IsAdmin() bool {
	return u.RoleCode() == RoleAdmin
}

// HasPrivilege checks if the user's role grants a specific privilege
func (u *User) HasPrivilege(code string) bool {
	for _, c := range u.GetPrivilegeCodes() {
		if c == code {
			return true
		}
	}
	return false
}

// GetPrivilegeCodes returns a slice of all privilege codes for this user
func (u *User) GetPrivilegeCodes() []string {
	if u.Role == nil {
		return []string{}
	}
	return u.Role.PrivilegeCodes()
}

// UserResponse is used for API responses (without sensitive data)
type UserResponse struct {
	ID               uuid.UUID  `json:"id"`
	Username         string     `json:"username"`
	Role             string     `json:"role"`
	FirstName        string     `json:"first_name"`
	MiddleName       string     `json:"middle_name"`
	LastName         string     `json:"last_name"`
	Birthday         *time.Time `json:"birthday,omitempty"`
	Address          string     `json:"address"`
	ContactNumber    string     `json:"contact_number"`
	Email            string     `json:"email"`
	ProfileImage     string     `json:"profile_image"`
	ProfileUpdatedAt *time.Time `json:"profile_updated_at,omitempty"`
	IsActive         bool       `json:"is_active"`
	LastTimeIn       *time.Time `json:"last_time_in,omitempty"`
	LastTimeOut      *time.Time `json:"last_time_out,omitempty"`
	LastSeenAt       *time.Time `json:"last_seen_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	Privileges       []string   `json:"privileges"`
}

// ToResponse converts User to UserResponse
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:               u.ID,
		Username:         u.Username,
		Role:             u.RoleCode(),
		FirstName:        u.FirstName,
		MiddleName:       u.MiddleName,
		LastName:         u.LastName,
		Birthday:         u.Birthday,
		Address:          u.Address,
		ContactNumber:    u.ContactNumber,
		Email:            u.Email,
		ProfileImage:     u.ProfileImage,
		ProfileUpdatedAt: u.ProfileUpdatedAt,
		IsActive:         u.IsActive,
		LastTimeIn:       u.LastTimeIn,
		LastTimeOut:      u.LastTimeOut,
		LastSeenAt:       u.LastSeenAt,
		CreatedAt:        u.CreatedAt,
		Privileges:       u.GetPrivilegeCodes(),
	}
}
