package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yoga-intelligence-be/internal/model"
	"yoga-intelligence-be/internal/repository/contract"
)

func TestSessionRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository(time.Minute)

	s := &model.Session{ID: "abc", State: model.SessionConnected, Connections: 1}
	require.NoError(t, repo.Save(ctx, s))
	s.Connections = 99

	got, err := repo.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, 1, got.Connections)

	got.State = model.SessionDisconnected
	again, _ := repo.Get(ctx, "abc")
	assert.Equal(t, model.SessionConnected, again.State)

	require.NoError(t, repo.Delete(ctx, "abc"))
	_, err = repo.Get(ctx, "abc")
	assert.ErrorIs(t, err, contract.ErrSessionNotFound)
	assert.NoError(t, repo.Ping(ctx))
}

func TestSessionRepositoryExpires(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository(20 * time.Millisecond)
	require.NoError(t, repo.Save(ctx, &model.Session{ID: "short"}))

	assert.Eventually(t, func() bool {
		_, err := repo.Get(ctx, "short")
		return err != nil
	}, time.Second, 10*time.Millisecond)
}
