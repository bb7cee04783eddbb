package session

import (
	"fmt"
	"time"
)

type (
	MissingUserID struct{}

	SessionNotFound struct {
		SessionID string
	}

	ExpiredSession struct {
		SessionID string
		CreatedAt time.Time
		TTL       time.Duration
	}
)

func (MissingUserID) Error() string {
	return "session: cannot create a session without a user id"
}

func (SessionNotFound) Error() string {
	return "session: not found"
}

func (e ExpiredSession) Error() string {
	return fmt.Sprintf("session: created at %v expired after %v", e.CreatedAt.Format(time.RFC3339), e.TTL)
}
