package service

import (
	"errors"
	"strings"
	"time"

	"winehouse-pos/internal/model"
	"winehouse-pos/internal/repository"
	"winehouse-pos/pkg/jwt"
	"winehouse-pos/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AuthService interface {
	Register(req *RegisterRequest) (*LoginResponse, error)
	Login(username, password string) (*LoginResponse, error)
	ChangePassword(userID uuid.UUID, oldPassword, newPassword string) error
	ValidateToken(tokenString string) (*TokenValidationResponse, error)
	Heartbeat(userID uuid.UUID) error
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=100"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginResponse struct {
	Token      string             `json:"token"`
	User       model.UserResponse `json:"user"`
	Role       *model.Role        `json:"role"`
	Privileges []string           `json:"privileges"`
}

type TokenValidationResponse struct {
	User       model.UserResponse `json:"user"`
	Role       *model.Role        `json:"role"`
	Privileges []string           `json:"privileges"`
}

type authService struct {
	userRepo    repository.UserRepository
	roleRepo    repository.RoleRepository
	activity    ActivityService
	hub         Publisher
	idleTimeout time.Duration
	now         func() time.Time
}

func NewAuthService(userRepo repository.UserRepository, roleRepo repository.RoleRepository, activity ActivityService, hub Publisher, idleTimeout time.Duration) AuthService {
	if idleTimeout <= 0 {
		idleTimeout = 5 * time.Minute
	}
	return &authService{
		userRepo:    userRepo,
		roleRepo:    roleRepo,
		activity:    activity,
		hub:         publisherOrNop(hub),
		idleTimeout: idleTimeout,
		now:         time.Now,
	}
}

// Register creates an account. The very first account becomes admin,
// every later one staff.
func (s *authService) Register(req *RegisterRequest) (*LoginResponse, error) {
	req.Username = strings.TrimSpace(req.Username)
	if err := validator.FirstError(req); err != nil {
		return nil, invalid(err)
	}

	if existing, err := s.userRepo.FindByUsername(req.Username); err == nil && existing != nil {
		return nil, ErrUsernameTaken
	}

	adminRole, err := s.roleRepo.FindByCode(model.RoleAdmin)
	if err != nil {
		return nil, errors.New("roles are not initialized")
	}
	staffRole, err := s.roleRepo.FindByCode(model.RoleStaff)
	if err != nil {
		return nil, errors.New("roles are not initialized")
	}

	now := s.now()
	user := &model.User{
		Username:     req.Username,
		TokenVersion: uuid.New().String(),
		LastSeenAt:   &now,
	}
	if err := user.SetPassword(req.Password); err != nil {
		return nil, errors.New("failed to hash password")
	}

	if err := s.userRepo.Register(user, adminRole, staffRole); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}

	actor := Actor{ID: user.ID, Username: user.Username, Role: user.RoleCode()}
	s.activity.Record(actor, "Registered account", "Created "+user.RoleCode()+" account: "+user.Username)

	return s.issue(user)
}

func (s *authService) Login(username, password string) (*LoginResponse, error) {
	user, err := s.userRepo.FindByUsername(strings.TrimSpace(username))
	if err != nil {
		return nil, notFound(err, ErrInvalidCredentials)
	}

	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}

	// Single session: a new token version invalidates older tokens
	now := s.now()
	user.TokenVersion = uuid.New().String()
	user.LastSeenAt = &now
	if err := s.userRepo.Update(user); err != nil {
		return nil, errors.New("failed to update session")
	}

	return s.issue(user)
}

func (s *authService) issue(user *model.User) (*LoginResponse, error) {
	token, err := jwt.GenerateToken(user.ID, user.Username, user.RoleCode(), user.GetPrivilegeCodes(), user.TokenVersion)
	if err != nil {
		return nil, errors.New("failed to generate token")
	}

	return &LoginResponse{
		Token:      token,
		User:       user.ToResponse(),
		Role:       user.Role,
		Privileges: user.GetPrivilegeCodes(),
	}, nil
}

func (s *authService) ChangePassword(userID uuid.UUID, oldPassword, newPassword string) error {
	if len(newPassword) < 6 {
		return invalid(errors.New("new password must be at least 6 characters"))
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return notFound(err, ErrUserNotFound)
	}

	if !user.CheckPassword(oldPassword) {
		return ErrWrongPassword
	}

	if err := user.SetPassword(newPassword); err != nil {
		return errors.New("failed to hash new password")
	}

	if err := s.userRepo.UpdatePassword(user.ID, user.Password); err != nil {
		return err
	}

	s.activity.Record(Actor{ID: user.ID, Username: user.Username, Role: user.RoleCode()}, "Changed password", "")
	return nil
}

func (s *authService) ValidateToken(tokenString string) (*TokenValidationResponse, error) {
	claims, err := jwt.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(claims.UserID)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}

	if user.TokenVersion != claims.TokenVersion {
		return nil, ErrSessionReplaced
	}

	// A session without heartbeats for longer than the idle timeout is over
	if user.LastSeenAt == nil || s.now().Sub(*user.LastSeenAt) > s.idleTimeout {
		return nil, ErrSessionTimeout
	}

	return &TokenValidationResponse{
		User:       user.ToResponse(),
		Role:       user.Role,
		Privileges: user.GetPrivilegeCodes(),
	}, nil
}

func (s *authService) Heartbeat(userID uuid.UUID) error {
	if err := s.userRepo.UpdateLastSeen(userID); err != nil {
		return err
	}

	s.hub.BroadcastJSON(map[string]interface{}{
		"type":         "user_status_update",
		"user_id":      userID.String(),
		"status":       "online",
		"last_seen_at": s.now(),
	})
	return nil
}
