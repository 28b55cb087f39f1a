package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

type Queue struct {
	client    *redis.Client
	queueName string
}

// EventMessage is one click or profile-view event recorded from a public
// page. LinkID is zero for profile views.
type EventMessage struct {
	UserID     int64     `json:"user_id"`
	LinkID     int64     `json:"link_id,omitempty"`
	EventType  string    `json:"event_type"` // click | view
	OccurredAt time.Time `json:"occurred_at"`
}

func NewQueue(client *redis.Client, queueName string) *Queue {
	return &Queue{
		client:    client,
		queueName: queueName,
	}
}

// Push enqueues an event.
func (q *Queue) Push(ctx context.Context, msg *EventMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	return q.client.LPush(ctx, q.queueName, data).Err()
}

// Pop blocks until an event is available or the timeout elapses.
// Returns (nil, nil) on timeout.
func (q *Queue) Pop(ctx context.Context, timeout time.Duration) (*EventMessage, error) {
	result, err := q.client.BRPop(ctx, timeout, q.queueName).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to pop from queue: %w", err)
	}

	if len(result) < 2 {
		return nil, nil
	}

	var msg EventMessage
	if err := json.Unmarshal([]byte(result[1]), &msg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal message: %w", err)
	}

	return &msg, nil
}

// Length returns the number of pending events.
func (q *Queue) Length(ctx context.Context) (int64, error) {
	return q.client.LLen(ctx, q.queueName).Result()
}
