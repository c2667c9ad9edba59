package contract

import (
	"context"
	"errors"

	"yoga-intelligence-be/internal/model"
)

var ErrSessionNotFound = errors.New("session not found")

// ISessionRegistry stores session records. Implementations expire idle
// records on their own.
type ISessionRegistry interface {
	Save(ctx context.Context, session *model.Session) error
	Get(ctx context.Context, sessionID string) (*model.Session, error)
	Delete(ctx context.Context, sessionID string) error
	Ping(ctx context.Context) error
}
