package service

import (
	"errors"

	"gorm.io/gorm"

	"github.com/nestbio/linko/config"
	"github.com/nestbio/linko/internal/model"
	"github.com/nestbio/linko/internal/model/dto"
	"github.com/nestbio/linko/internal/repository"
)

var (
	ErrLinkLimitReached = errors.New("free plan link limit reached")
	ErrNotLinkOwner     = errors.New("link does not belong to this user")
	ErrIncompleteOrder  = errors.New("reorder must include every link exactly once")
)

type LinkService struct {
	linkRepo *repository.LinkRepository
	userRepo *repository.UserRepository
	cfg      *config.Config
}

func NewLinkService(linkRepo *repository.LinkRepository, userRepo *repository.UserRepository, cfg *config.Config) *LinkService {
	return &LinkService{
		linkRepo: linkRepo,
		userRepo: userRepo,
		cfg:      cfg,
	}
}

func (s *LinkService) List(userID int64) ([]*model.Link, error) {
	return s.linkRepo.ListByUser(userID)
}

// Create appends a link at the end of the page. Free accounts are
// capped; premium accounts are unlimited.
func (s *LinkService) Create(userID int64, req *dto.CreateLinkRequest) (*model.Link, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if !user.IsPremium {
		count, err := s.linkRepo.CountByUser(userID)
		if err != nil {
			return nil, err
		}
		if count >= int64(s.cfg.Plans.FreeMaxLinks) {
			return nil, ErrLinkLimitReached
		}
	}

	maxPos, err := s.linkRepo.MaxPosition(userID)
	if err != nil {
		return nil, err
	}

	linkType := req.LinkType
	if linkType == "" {
		linkType = model.LinkTypeCustom
	}

	link := &model.Link{
		UserID:         userID,
		Title:          req.Title,
		URL:            req.URL,
		Icon:           req.Icon,
		LinkType:       linkType,
		Position:       maxPos + 1,
		IsActive:       true,
		IsAdultContent: req.IsAdultContent,
	}

	if err := s.linkRepo.Create(link); err != nil {
		return nil, err
	}

	return link, nil
}

func (s *LinkService) Update(userID, linkID int64, req *dto.UpdateLinkRequest) (*model.Link, error) {
	link, err := s.getOwned(userID, linkID)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if req.Title != nil {
		fields["title"] = *req.Title
		link.Title = *req.Title
	}
	if req.URL != nil {
		fields["url"] = *req.URL
		link.URL = *req.URL
	}
	if req.Icon != nil {
		fields["icon"] = *req.Icon
		link.Icon = *req.Icon
	}
	if req.IsActive != nil {
		fields["is_active"] = *req.IsActive
		link.IsActive = *req.IsActive
	}
	if req.IsAdultContent != nil {
		fields["is_adult_content"] = *req.IsAdultContent
		link.IsAdultContent = *req.IsAdultContent
	}

	if len(fields) > 0 {
		if err := s.linkRepo.UpdateFields(linkID, fields); err != nil {
			return nil, err
		}
	}

	return link, nil
}

func (s *LinkService) Delete(userID, linkID int64) error {
	if _, err := s.getOwned(userID, linkID); err != nil {
		return err
	}
	return s.linkRepo.Delete(linkID)
}

// Reorder replaces the page order. The request must list every link
// the user owns exactly once.
func (s *LinkService) Reorder(userID int64, req *dto.ReorderLinksRequest) error {
	count, err := s.linkRepo.CountByUser(userID)
	if err != nil {
		return err
	}
	if int64(len(req.LinkIDs)) != count {
		return ErrIncompleteOrder
	}
	seen := make(map[int64]struct{}, len(req.LinkIDs))
	for _, id := range req.LinkIDs {
		if _, dup := seen[id]; dup {
			return ErrIncompleteOrder
		}
		seen[id] = struct{}{}
	}

	if err := s.linkRepo.Reorder(userID, req.LinkIDs); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotLinkOwner
		}
		return err
	}
	return nil
}

func (s *LinkService) getOwned(userID, linkID int64) (*model.Link, error) {
	link, err := s.linkRepo.GetByID(linkID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLinkNotFound
		}
		return nil, err
	}
	if link.UserID != userID {
		return nil, ErrNotLinkOwner
	}
	return link, nil
}
