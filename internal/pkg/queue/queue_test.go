package queue

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupQueue(t *testing.T) (*Queue, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewQueue(client, "test:events"), mr
}

func TestQueue_PushPop(t *testing.T) {
	q, _ := setupQueue(t)
	ctx := context.Background()

	msg := &EventMessage{
		UserID:     42,
		LinkID:     7,
		EventType:  "click",
		OccurredAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, q.Push(ctx, msg))

	got, err := q.Pop(ctx, time.Second)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(42), got.UserID)
	assert.Equal(t, int64(7), got.LinkID)
	assert.Equal(t, "click", got.EventType)
	assert.True(t, got.OccurredAt.Equal(msg.OccurredAt))
}

func TestQueue_FIFOOrder(t *testing.T) {
	q, _ := setupQueue(t)
	ctx := context.Background()

	for i := int64(1); i <= 3; i++ {
		require.NoError(t, q.Push(ctx, &EventMessage{UserID: i, EventType: "view"}))
	}

	length, err := q.Length(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), length)

	for i := int64(1); i <= 3; i++ {
		got, err := q.Pop(ctx, time.Second)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, i, got.UserID)
	}
}

func TestQueue_PopTimeout(t *testing.T) {
	q, _ := setupQueue(t)

	got, err := q.Pop(context.Background(), 50*time.Millisecond)
	require.NoError(t, err)
	assert.Nil(t, got)
}
