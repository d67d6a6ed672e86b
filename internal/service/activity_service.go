package service

import (
	"log"
	"time"

	"winehouse-pos/internal/model"
	"winehouse-pos/internal/repository"

	"github.com/google/uuid"
)

type ActivityService interface {
	// Record appends an audit entry. Failures are logged, never returned:
	// the operation being audited has already been committed.
	Record(actor Actor, action, details string)
	List(filter ActivityFilter) ([]model.ActivityLog, error)
}

type ActivityFilter struct {
	UserID *uuid.UUID
	Limit  int
}

type activityService struct {
	repo repository.ActivityLogRepository
	now  func() time.Time
}

func NewActivityService(repo repository.ActivityLogRepository) ActivityService {
	return &activityService{repo: repo, now: time.Now}
}

func (s *activityService) Record(actor Actor, action, details string) {
	entry := &model.ActivityLog{
		UserID:    actor.ID,
		Username:  actor.Username,
		UserRole:  actor.Role,
		Action:    action,
		Details:   details,
		Timestamp: s.now(),
	}
	if err := s.repo.Create(entry); err != nil {
		log.Printf("activity log %q by %s: %v", action, actor.Username, err)
	}
}

func (s *activityService) List(filter ActivityFilter) ([]model.ActivityLog, error) {
	if filter.Limit <= 0 || filter.Limit > 500 {
		filter.Limit = 100
	}
	return s.repo.FindAll(repository.ActivityLogFilter{
		UserID: filter.UserID,
		Limit:  filter.Limit,
	})
}
