package worker

import (
	"context"
	"fmt"
	"log"

	"github.com/nestbio/linko/internal/model"
	"github.com/nestbio/linko/internal/pkg/pubsub"
	"github.com/nestbio/linko/internal/pkg/queue"
	"github.com/nestbio/linko/internal/repository"
)

// Processor folds queued click/view events into the live counters and
// the daily analytics rollups, then notifies the owner's dashboard.
type Processor struct {
	userRepo  *repository.UserRepository
	linkRepo  *repository.LinkRepository
	clickRepo *repository.ClickEventRepository
	publisher *pubsub.Publisher
}

func NewProcessor(
	userRepo *repository.UserRepository,
	linkRepo *repository.LinkRepository,
	clickRepo *repository.ClickEventRepository,
	publisher *pubsub.Publisher,
) *Processor {
	return &Processor{
		userRepo:  userRepo,
		linkRepo:  linkRepo,
		clickRepo: clickRepo,
		publisher: publisher,
	}
}

// Process applies one event. Counter updates are plain increments, so a
// redelivered event overcounts by one at worst; the rollup is the source
// the dashboard reads.
func (p *Processor) Process(ctx context.Context, msg *queue.EventMessage) error {
	activity := &pubsub.ActivityMessage{
		UserID:    msg.UserID,
		EventType: msg.EventType,
	}

	switch msg.EventType {
	case model.EventTypeView:
		if err := p.userRepo.IncrementViewCount(msg.UserID); err != nil {
			return fmt.Errorf("failed to increment view count: %w", err)
		}
		if err := p.clickRepo.IncrementDaily(msg.UserID, nil, model.EventTypeView, msg.OccurredAt, 1); err != nil {
			return fmt.Errorf("failed to update view rollup: %w", err)
		}

		user, err := p.userRepo.GetByID(msg.UserID)
		if err != nil {
			return err
		}
		activity.ViewCount = user.ViewCount

	case model.EventTypeClick:
		if err := p.linkRepo.IncrementClickCount(msg.LinkID); err != nil {
			return fmt.Errorf("failed to increment click count: %w", err)
		}
		linkID := msg.LinkID
		if err := p.clickRepo.IncrementDaily(msg.UserID, &linkID, model.EventTypeClick, msg.OccurredAt, 1); err != nil {
			return fmt.Errorf("failed to update click rollup: %w", err)
		}

		link, err := p.linkRepo.GetByID(msg.LinkID)
		if err != nil {
			return err
		}
		activity.LinkID = link.ID
		activity.ClickCount = link.ClickCount

	default:
		log.Printf("Skipping event with unknown type %q for user %d", msg.EventType, msg.UserID)
		return nil
	}

	if p.publisher != nil {
		if err := p.publisher.PublishActivity(ctx, activity); err != nil {
			log.Printf("Failed to publish activity for user %d: %v", msg.UserID, err)
		}
	}

	return nil
}
