package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yoga-intelligence-be/internal/model"
	"yoga-intelligence-be/internal/repository/contract"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "yoga:session:abc", Key("abc"))
}

func TestNewClientAcceptsBareAddr(t *testing.T) {
	c := NewClient("10.0.0.5:6380")
	defer c.Close()
	assert.Equal(t, "10.0.0.5:6380", c.Options().Addr)

	c2 := NewClient("redis://:pw@cache:6379/2")
	defer c2.Close()
	assert.Equal(t, "cache:6379", c2.Options().Addr)
	assert.Equal(t, 2, c2.Options().DB)
}

// Runs against a real server when REDIS_TEST_URL is set.
func TestSessionRepositoryRoundTrip(t *testing.T) {
	url := os.Getenv("REDIS_TEST_URL")
	if url == "" {
		t.Skip("REDIS_TEST_URL not set")
	}
	ctx := context.Background()
	client := NewClient(url)
	defer client.Close()
	repo := NewSessionRepository(client, time.Minute)
	require.NoError(t, repo.Ping(ctx))

	id := uuid.NewString()
	now := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, repo.Save(ctx, &model.Session{ID: id, State: model.SessionConnected, CreatedAt: now}))
	defer repo.Delete(ctx, id)

	got, err := repo.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.SessionConnected, got.State)
	assert.True(t, now.Equal(got.CreatedAt))

	require.NoError(t, repo.Delete(ctx, id))
	_, err = repo.Get(ctx, id)
	assert.ErrorIs(t, err, contract.ErrSessionNotFound)
}
