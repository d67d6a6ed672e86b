package service

import (
	"errors"
	"time"

	"winehouse-pos/internal/model"
	"winehouse-pos/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

type AttendanceService interface {
	ClockIn(actor Actor) (*model.AttendanceRecord, error)
	ClockOut(actor Actor) (*model.AttendanceRecord, error)
	Today() ([]model.AttendanceRecord, error)
	ActiveStaff() ([]model.UserResponse, error)
	History(userID uuid.UUID, limit int) ([]model.AttendanceRecord, error)
}

type attendanceService struct {
	repo     repository.AttendanceRepository
	userRepo repository.UserRepository
	activity ActivityService
	hub      Publisher
	loc      *time.Location
	now      func() time.Time
}

func NewAttendanceService(repo repository.AttendanceRepository, userRepo repository.UserRepository, activity ActivityService, hub Publisher, loc *time.Location) AttendanceService {
	if loc == nil {
		loc = time.UTC
	}
	return &attendanceService{
		repo:     repo,
		userRepo: userRepo,
		activity: activity,
		hub:      publisherOrNop(hub),
		loc:      loc,
		now:      time.Now,
	}
}

// today is the shop-local calendar date
func (s *attendanceService) today(at time.Time) string {
	return at.In(s.loc).Format(dateLayout)
}

func (s *attendanceService) ClockIn(actor Actor) (*model.AttendanceRecord, error) {
	now := s.now()
	date := s.today(now)

	if _, err := s.repo.FindOpen(actor.ID, date); err == nil {
		return nil, ErrAlreadyClockedIn
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	record := &model.AttendanceRecord{
		UserID: actor.ID,
		Date:   date,
		TimeIn: now,
	}
	if err := s.repo.ClockIn(record); err != nil {
		// The partial unique index catches a concurrent clock-in
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyClockedIn
		}
		return nil, err
	}

	s.activity.Record(actor, "Clocked in", "Time in: "+now.In(s.loc).Format("15:04"))
	s.broadcast(actor, "clock_in", record)
	return record, nil
}

func (s *attendanceService) ClockOut(actor Actor) (*model.AttendanceRecord, error) {
	now := s.now()

	record, err := s.repo.FindOpen(actor.ID, s.today(now))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotClockedIn
	} else if err != nil {
		return nil, err
	}

	record.Close(now)
	if err := s.repo.ClockOut(record); err != nil {
		if errors.Is(err, repository.ErrStaleWrite) {
			return nil, ErrNotClockedIn
		}
		return nil, err
	}

	s.activity.Record(actor, "Clocked out", "Time out: "+now.In(s.loc).Format("15:04"))
	s.broadcast(actor, "clock_out", record)
	return record, nil
}

func (s *attendanceService) broadcast(actor Actor, action string, record *model.AttendanceRecord) {
	s.hub.BroadcastJSON(map[string]interface{}{
		"type":     "attendance_update",
		"action":   action,
		"user_id":  actor.ID.String(),
		"username": actor.Username,
		"record":   record,
	})
}

func (s *attendanceService) Today() ([]model.AttendanceRecord, error) {
	return s.repo.FindByDate(s.today(s.now()))
}

// ActiveStaff lists staff accounts that are currently clocked in
func (s *attendanceService) ActiveStaff() ([]model.UserResponse, error) {
	users, err := s.userRepo.FindByRoleCode(model.RoleStaff)
	if err != nil {
		return nil, err
	}

	active := make([]model.UserResponse, 0, len(users))
	for _, u := range users {
		if u.IsActive {
			active = append(active, u.ToResponse())
		}
	}
	return active, nil
}

func (s *attendanceService) History(userID uuid.UUID, limit int) ([]model.AttendanceRecord, error) {
	if limit <= 0 || limit > 366 {
		limit = 31
	}
	return s.repo.FindByUserID(userID, limit)
}
