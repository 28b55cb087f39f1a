package service

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/nestbio/linko/config"
	"github.com/nestbio/linko/internal/model"
	"github.com/nestbio/linko/internal/model/dto"
	"github.com/nestbio/linko/internal/repository"
)

// AnalyticsService aggregates the daily rollups for the dashboard. The
// lookback window is clamped by plan.
type AnalyticsService struct {
	clickRepo *repository.ClickEventRepository
	linkRepo  *repository.LinkRepository
	userRepo  *repository.UserRepository
	cfg       *config.Config
}

func NewAnalyticsService(clickRepo *repository.ClickEventRepository, linkRepo *repository.LinkRepository, userRepo *repository.UserRepository, cfg *config.Config) *AnalyticsService {
	return &AnalyticsService{
		clickRepo: clickRepo,
		linkRepo:  linkRepo,
		userRepo:  userRepo,
		cfg:       cfg,
	}
}

// Summary returns totals, per-link and per-day breakdowns for the last
// `days` days. Free accounts see at most the free window.
func (s *AnalyticsService) Summary(userID int64, days int) (*dto.AnalyticsSummary, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	maxDays := s.cfg.Plans.FreeAnalyticsDays
	if user.IsPremium {
		maxDays = s.cfg.Plans.PremiumAnalyticsDays
	}
	if days <= 0 || days > maxDays {
		days = maxDays
	}

	since := time.Now().UTC().AddDate(0, 0, -(days - 1))

	totalViews, err := s.clickRepo.SumByUserSince(userID, model.EventTypeView, since)
	if err != nil {
		return nil, err
	}
	totalClicks, err := s.clickRepo.SumByUserSince(userID, model.EventTypeClick, since)
	if err != nil {
		return nil, err
	}

	summary := &dto.AnalyticsSummary{
		TotalViews:  totalViews,
		TotalClicks: totalClicks,
		RangeDays:   days,
		Links:       []*dto.LinkStats{},
		Daily:       []*dto.DailyStats{},
	}

	links, err := s.linkRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	clicksByLink, err := s.clickRepo.SumByLinkSince(userID, model.EventTypeClick, since)
	if err != nil {
		return nil, err
	}
	for _, link := range links {
		summary.Links = append(summary.Links, &dto.LinkStats{
			LinkID:     link.ID,
			Title:      link.Title,
			ClickCount: clicksByLink[link.ID],
			ShareCount: link.ShareCount,
		})
	}

	events, err := s.clickRepo.ListByUserSince(userID, since)
	if err != nil {
		return nil, err
	}
	daily := make(map[string]*dto.DailyStats)
	for _, ev := range events {
		day := ev.Day.UTC().Format("2006-01-02")
		stats, ok := daily[day]
		if !ok {
			stats = &dto.DailyStats{Day: day}
			daily[day] = stats
			summary.Daily = append(summary.Daily, stats)
		}
		switch ev.EventType {
		case model.EventTypeView:
			stats.Views += ev.Count
		case model.EventTypeClick:
			stats.Clicks += ev.Count
		}
	}

	return summary, nil
}
