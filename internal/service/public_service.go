package service

import (
	"context"
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/nestbio/linko/internal/model"
	"github.com/nestbio/linko/internal/model/dto"
	"github.com/nestbio/linko/internal/pkg/queue"
	"github.com/nestbio/linko/internal/repository"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrLinkNotFound    = errors.New("link not found")
)

// PublicService serves the unauthenticated page views. Counting happens
// asynchronously through the event queue so page loads stay fast.
type PublicService struct {
	userRepo   *repository.UserRepository
	linkRepo   *repository.LinkRepository
	eventQueue *queue.Queue
}

func NewPublicService(userRepo *repository.UserRepository, linkRepo *repository.LinkRepository, eventQueue *queue.Queue) *PublicService {
	return &PublicService{
		userRepo:   userRepo,
		linkRepo:   linkRepo,
		eventQueue: eventQueue,
	}
}

// GetProfile renders the public page payload and records the view.
// An owner previewing their own page (viewerID matches) is not counted.
func (s *PublicService) GetProfile(ctx context.Context, username string, viewerID int64) (*dto.PublicProfile, error) {
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	links, err := s.linkRepo.ListActiveByUser(user.ID)
	if err != nil {
		return nil, err
	}

	profile := &dto.PublicProfile{
		Username:         user.Username,
		FullName:         user.FullName,
		AvatarURL:        user.AvatarURL,
		Bio:              user.Bio,
		TemplateID:       user.TemplateID,
		ThemeColor:       user.ThemeColor,
		SensitiveContent: user.SensitiveContent,
		Links:            make([]*dto.PublicLink, 0, len(links)),
	}
	if user.ShowViewCount {
		count := user.ViewCount
		profile.ViewCount = &count
	}
	for _, link := range links {
		profile.Links = append(profile.Links, &dto.PublicLink{
			ID:             link.ID,
			Title:          link.Title,
			URL:            link.URL,
			Icon:           link.Icon,
			LinkType:       link.LinkType,
			IsAdultContent: link.IsAdultContent,
		})
	}

	if viewerID != user.ID {
		s.enqueue(ctx, &queue.EventMessage{
			UserID:     user.ID,
			EventType:  model.EventTypeView,
			OccurredAt: time.Now().UTC(),
		})
	}

	return profile, nil
}

// RecordClick resolves the link target and records the click. Inactive
// links are treated as gone.
func (s *PublicService) RecordClick(ctx context.Context, linkID int64) (*dto.ClickResponse, error) {
	link, err := s.linkRepo.GetByID(linkID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLinkNotFound
		}
		return nil, err
	}
	if !link.IsActive {
		return nil, ErrLinkNotFound
	}

	s.enqueue(ctx, &queue.EventMessage{
		UserID:     link.UserID,
		LinkID:     link.ID,
		EventType:  model.EventTypeClick,
		OccurredAt: time.Now().UTC(),
	})

	return &dto.ClickResponse{URL: link.URL}, nil
}

// RecordShare bumps a link's share counter synchronously; shares are
// rare enough to skip the queue.
func (s *PublicService) RecordShare(linkID int64) error {
	link, err := s.linkRepo.GetByID(linkID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLinkNotFound
		}
		return err
	}
	if !link.IsActive {
		return ErrLinkNotFound
	}
	return s.linkRepo.IncrementShareCount(link.ID)
}

// enqueue is best effort: a dropped analytics event never fails a
// public request.
func (s *PublicService) enqueue(ctx context.Context, msg *queue.EventMessage) {
	if s.eventQueue == nil {
		return
	}
	if err := s.eventQueue.Push(ctx, msg); err != nil {
		log.Printf("Failed to enqueue %s event for user %d: %v", msg.EventType, msg.UserID, err)
	}
}
