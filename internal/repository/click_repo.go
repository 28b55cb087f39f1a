package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/nestbio/linko/internal/model"
)

type ClickEventRepository struct {
	db *gorm.DB
}

func NewClickEventRepository(db *gorm.DB) *ClickEventRepository {
	return &ClickEventRepository{db: db}
}

// IncrementDaily bumps the rollup row for (user, link, type, day),
// creating it on first sight. The worker is the sole writer, so
// update-then-create is race-free here.
func (r *ClickEventRepository) IncrementDaily(userID int64, linkID *int64, eventType string, day time.Time, delta int64) error {
	day = truncateDay(day)

	q := r.db.Model(&model.ClickEvent{}).
		Where("user_id = ? AND event_type = ? AND day = ?", userID, eventType, day)
	if linkID == nil {
		q = q.Where("link_id IS NULL")
	} else {
		q = q.Where("link_id = ?", *linkID)
	}

	res := q.Update("count", gorm.Expr("count + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}

	return r.db.Create(&model.ClickEvent{
		UserID:    userID,
		LinkID:    linkID,
		EventType: eventType,
		Day:       day,
		Count:     delta,
	}).Error
}

// ListByUserSince returns rollup rows for a user from the given day on.
func (r *ClickEventRepository) ListByUserSince(userID int64, since time.Time) ([]*model.ClickEvent, error) {
	var events []*model.ClickEvent
	err := r.db.Where("user_id = ? AND day >= ?", userID, truncateDay(since)).
		Order("day ASC").
		Find(&events).Error
	return events, err
}

// SumByUserSince totals counts per event type from the given day on.
func (r *ClickEventRepository) SumByUserSince(userID int64, eventType string, since time.Time) (int64, error) {
	var total *int64
	err := r.db.Model(&model.ClickEvent{}).
		Where("user_id = ? AND event_type = ? AND day >= ?", userID, eventType, truncateDay(since)).
		Select("SUM(count)").Scan(&total).Error
	if err != nil {
		return 0, err
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}

// SumByLinkSince totals counts per link from the given day on.
func (r *ClickEventRepository) SumByLinkSince(userID int64, eventType string, since time.Time) (map[int64]int64, error) {
	var rows []struct {
		LinkID *int64
		Total  int64
	}
	err := r.db.Model(&model.ClickEvent{}).
		Where("user_id = ? AND event_type = ? AND day >= ? AND link_id IS NOT NULL", userID, eventType, truncateDay(since)).
		Select("link_id, SUM(count) AS total").
		Group("link_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	totals := make(map[int64]int64, len(rows))
	for _, row := range rows {
		if row.LinkID != nil {
			totals[*row.LinkID] = row.Total
		}
	}
	return totals, nil
}

// DeleteOlderThan drops rollup rows before the cutoff day.
func (r *ClickEventRepository) DeleteOlderThan(cutoff time.Time) (int64, error) {
	res := r.db.Where("day < ?", truncateDay(cutoff)).Delete(&model.ClickEvent{})
	return res.RowsAffected, res.Error
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
