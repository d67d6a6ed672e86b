package service

import (
	"errors"
	"log"
	"time"

	"winehouse-pos/internal/model"
	"winehouse-pos/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationService interface {
	NotifyUser(userID uuid.UUID, title, message string)
	NotifyRole(roleCode, title, message string)
	List(userID uuid.UUID) ([]model.Notification, error)
	UnreadCount(userID uuid.UUID) (int64, error)
	MarkRead(userID, notificationID uuid.UUID) error
}

type notificationService struct {
	repo     repository.NotificationRepository
	userRepo repository.UserRepository
	hub      Publisher
	now      func() time.Time
}

func NewNotificationService(repo repository.NotificationRepository, userRepo repository.UserRepository, hub Publisher) NotificationService {
	return &notificationService{
		repo:     repo,
		userRepo: userRepo,
		hub:      publisherOrNop(hub),
		now:      time.Now,
	}
}

func (s *notificationService) NotifyUser(userID uuid.UUID, title, message string) {
	s.deliver([]uuid.UUID{userID}, title, message)
}

// NotifyRole fans a notification out to every account holding the role
func (s *notificationService) NotifyRole(roleCode, title, message string) {
	users, err := s.userRepo.FindByRoleCode(roleCode)
	if err != nil {
		log.Printf("notify role %s: %v", roleCode, err)
		return
	}
	ids := make([]uuid.UUID, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	s.deliver(ids, title, message)
}

func (s *notificationService) deliver(userIDs []uuid.UUID, title, message string) {
	if len(userIDs) == 0 {
		return
	}

	now := s.now()
	batch := make([]model.Notification, 0, len(userIDs))
	for _, id := range userIDs {
		batch = append(batch, model.Notification{
			ID:        uuid.New(),
			UserID:    id,
			Title:     title,
			Message:   message,
			CreatedAt: now,
		})
	}

	if err := s.repo.CreateBatch(batch); err != nil {
		log.Printf("store notification %q: %v", title, err)
		return
	}

	for _, n := range batch {
		s.hub.SendJSON(n.UserID, map[string]interface{}{
			"type":         "notification",
			"notification": n,
		})
	}
}

func (s *notificationService) List(userID uuid.UUID) ([]model.Notification, error) {
	return s.repo.FindByUserID(userID)
}

func (s *notificationService) UnreadCount(userID uuid.UUID) (int64, error) {
	return s.repo.CountUnread(userID)
}

func (s *notificationService) MarkRead(userID, notificationID uuid.UUID) error {
	err := s.repo.MarkRead(notificationID, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotificationNotFound
	}
	return err
}
