package service

import (
	"winehouse-pos/internal/model"

	"github.com/google/uuid"
)

// Actor is the authenticated caller of a service operation
type Actor struct {
	ID       uuid.UUID
	Username string
	Role     string
}

func (a Actor) IsAdmin() bool {
	return a.Role == model.RoleAdmin
}

// Publisher pushes realtime events to connected clients. Implementations
// must not block the caller.
type Publisher interface {
	BroadcastJSON(v interface{})
	SendJSON(userID uuid.UUID, v interface{})
}

type nopPublisher struct{}

func (nopPublisher) BroadcastJSON(interface{})       {}
func (nopPublisher) SendJSON(uuid.UUID, interface{}) {}

func publisherOrNop(p Publisher) Publisher {
	if p == nil {
		return nopPublisher{}
	}
	return p
}
