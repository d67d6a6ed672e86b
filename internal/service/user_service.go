package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"winehouse-pos/internal/model"
	"winehouse-pos/internal/repository"
	"winehouse-pos/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserService interface {
	UpdateProfile(actor Actor, req *UpdateProfileRequest) (*model.UserResponse, error)
	DeleteUser(actor Actor, userID uuid.UUID) error
	GetAllUsers() ([]model.UserResponse, error)
	GetUserByID(id uuid.UUID) (*model.UserResponse, error)
}

type UpdateProfileRequest struct {
	FirstName     string  `json:"first_name" validate:"required,max=100"`
	MiddleName    string  `json:"middle_name" validate:"max=100"`
	LastName      string  `json:"last_name" validate:"required,max=100"`
	Birthday      *string `json:"birthday"` // Format: YYYY-MM-DD
	Address       string  `json:"address"`
	ContactNumber string  `json:"contact_number" validate:"omitempty,contact_number"`
	Email         string  `json:"email" validate:"omitempty,email"`
	ProfileImage  string  `json:"profile_image"`
}

type userService struct {
	userRepo repository.UserRepository
	activity ActivityService
	now      func() time.Time
}

func NewUserService(userRepo repository.UserRepository, activity ActivityService) UserService {
	return &userService{
		userRepo: userRepo,
		activity: activity,
		now:      time.Now,
	}
}

func (s *userService) UpdateProfile(actor Actor, req *UpdateProfileRequest) (*model.UserResponse, error) {
	if err := validator.FirstError(req); err != nil {
		return nil, invalid(err)
	}

	user, err := s.userRepo.FindByID(actor.ID)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}

	var birthday *time.Time
	if req.Birthday != nil && *req.Birthday != "" {
		parsed, err := time.Parse("2006-01-02", *req.Birthday)
		if err != nil {
			return nil, invalid(errors.New("birthday must use YYYY-MM-DD"))
		}
		birthday = &parsed
	}

	now := s.now()
	user.FirstName = strings.TrimSpace(req.FirstName)
	user.MiddleName = strings.TrimSpace(req.MiddleName)
	user.LastName = strings.TrimSpace(req.LastName)
	user.Birthday = birthday
	user.Address = req.Address
	user.ContactNumber = req.ContactNumber
	user.Email = req.Email
	user.ProfileImage = req.ProfileImage
	user.ProfileUpdatedAt = &now
	user.UpdatedBy = actor.ID.String()

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}

	s.activity.Record(actor, "Updated profile", "Updated profile information")

	resp := user.ToResponse()
	return &resp, nil
}

// DeleteUser permanently removes a staff account. Admin accounts cannot be deleted.
func (s *userService) DeleteUser(actor Actor, userID uuid.UUID) error {
	if !actor.IsAdmin() {
		return ErrForbidden
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return notFound(err, ErrUserNotFound)
	}
	if user.IsAdmin() {
		return ErrCannotDeleteAdmin
	}

	if err := s.userRepo.Delete(user.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	s.activity.Record(actor, "Deleted staff account", fmt.Sprintf("Deleted account: %s", user.Username))
	return nil
}

func (s *userService) GetAllUsers() ([]model.UserResponse, error) {
	users, err := s.userRepo.FindAll()
	if err != nil {
		return nil, err
	}

	responses := make([]model.UserResponse, len(users))
	for i, u := range users {
		responses[i] = u.ToResponse()
	}
	return responses, nil
}

func (s *userService) GetUserByID(id uuid.UUID) (*model.UserResponse, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	resp := user.ToResponse()
	return &resp, nil
}
