package pubsub

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
)

const (
	ChannelActivity = "linko:activity"
)

// ActivityMessage notifies a profile owner's dashboard about fresh traffic.
type ActivityMessage struct {
	Type       string `json:"type"`
	UserID     int64  `json:"user_id"`
	LinkID     int64  `json:"link_id,omitempty"`
	EventType  string `json:"event_type"`
	ClickCount int64  `json:"click_count,omitempty"`
	ViewCount  int64  `json:"view_count,omitempty"`
}

type Publisher struct {
	client *redis.Client
}

func NewPublisher(client *redis.Client) *Publisher {
	return &Publisher{client: client}
}

// PublishActivity publishes a traffic update for the owning user.
func (p *Publisher) PublishActivity(ctx context.Context, msg *ActivityMessage) error {
	msg.Type = "activity"

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal activity message: %w", err)
	}

	return p.client.Publish(ctx, ChannelActivity, data).Err()
}

type Subscriber struct {
	client *redis.Client
}

func NewSubscriber(client *redis.Client) *Subscriber {
	return &Subscriber{client: client}
}

// Subscribe delivers activity messages to the handler until ctx is done.
func (s *Subscriber) Subscribe(ctx context.Context, handler func(*ActivityMessage)) error {
	pubsub := s.client.Subscribe(ctx, ChannelActivity)
	defer pubsub.Close()

	ch := pubsub.Channel()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}

			var activity ActivityMessage
			if err := json.Unmarshal([]byte(msg.Payload), &activity); err != nil {
				continue // skip malformed payloads
			}

			handler(&activity)
		}
	}
}
