package model

import (
	"time"
)

const (
	EventTypeClick = "click"
	EventTypeView  = "view"
)

// ClickEvent is a per-day rollup of clicks/views, written by the worker.
// LinkID is nil for profile views.
type ClickEvent struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	UserID    int64     `gorm:"not null;index:idx_click_user_day" json:"user_id"`
	LinkID    *int64    `gorm:"index" json:"link_id,omitempty"`
	EventType string    `gorm:"size:10;not null" json:"event_type"`
	Day       time.Time `gorm:"not null;index:idx_click_user_day" json:"day"`
	Count     int64     `gorm:"default:0" json:"count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ClickEvent) TableName() string {
	return "click_events"
}
