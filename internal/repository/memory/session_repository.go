package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"

	"yoga-intelligence-be/internal/model"
	"yoga-intelligence-be/internal/repository/contract"
)

type SessionRepository struct {
	cache *cache.Cache
}

var _ contract.ISessionRegistry = &SessionRepository{}

// NewSessionRepository keeps records for ttl after their last save and purges
// expired items every 10 minutes.
func NewSessionRepository(ttl time.Duration) *SessionRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &SessionRepository{
		cache: cache.New(ttl, 10*time.Minute),
	}
}

func (r *SessionRepository) Save(_ context.Context, session *model.Session) error {
	cp := *session
	r.cache.Set(session.ID, &cp, cache.DefaultExpiration)
	return nil
}

func (r *SessionRepository) Get(_ context.Context, sessionID string) (*model.Session, error) {
	if x, found := r.cache.Get(sessionID); found {
		cp := *x.(*model.Session)
		return &cp, nil
	}
	return nil, fmt.Errorf("%w: %s", contract.ErrSessionNotFound, sessionID)
}

func (r *SessionRepository) Delete(_ context.Context, sessionID string) error {
	r.cache.Delete(sessionID)
	return nil
}

func (r *SessionRepository) Ping(context.Context) error {
	return nil
}
