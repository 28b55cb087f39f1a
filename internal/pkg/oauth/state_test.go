package oauth

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { client.Close() })

	return client
}

func TestStateStore_GenerateState(t *testing.T) {
	rdb := setupTestRedis(t)
	store := NewStateStore(rdb)
	ctx := context.Background()

	state, err := store.GenerateState(ctx, "http://localhost:3000/dashboard")
	require.NoError(t, err)
	assert.Len(t, state, 64) // 32 bytes = 64 hex chars
}

func TestStateStore_ValidateState_Success(t *testing.T) {
	rdb := setupTestRedis(t)
	store := NewStateStore(rdb)
	ctx := context.Background()

	redirectURI := "http://localhost:3000/dashboard"
	state, err := store.GenerateState(ctx, redirectURI)
	require.NoError(t, err)

	result, err := store.ValidateState(ctx, state)
	require.NoError(t, err)
	assert.Equal(t, redirectURI, result)
}

func TestStateStore_ValidateState_Consumed(t *testing.T) {
	rdb := setupTestRedis(t)
	store := NewStateStore(rdb)
	ctx := context.Background()

	state, err := store.GenerateState(ctx, "http://localhost:3000")
	require.NoError(t, err)

	_, err = store.ValidateState(ctx, state)
	require.NoError(t, err)

	// state is one-shot
	_, err = store.ValidateState(ctx, state)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid or expired")
}

func TestStateStore_ValidateState_Invalid(t *testing.T) {
	rdb := setupTestRedis(t)
	store := NewStateStore(rdb)

	_, err := store.ValidateState(context.Background(), "not-a-real-state")
	assert.Error(t, err)
}

func TestStateStore_ValidateState_Empty(t *testing.T) {
	rdb := setupTestRedis(t)
	store := NewStateStore(rdb)

	_, err := store.ValidateState(context.Background(), "")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "empty state")
}
