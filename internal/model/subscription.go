package model

import (
	"time"
)

// Subscription statuses as delivered by Stripe. A user without a row is on
// the free plan; rows are never deleted, only flipped to canceled.
const (
	SubStatusActive     = "active"
	SubStatusTrialing   = "trialing"
	SubStatusPastDue    = "past_due"
	SubStatusCanceled   = "canceled"
	SubStatusIncomplete = "incomplete"
)

// Subscription mirrors one Stripe subscription lifecycle. The Stripe
// subscription id is the primary key so webhook retries upsert in place.
type Subscription struct {
	ID                string    `gorm:"primaryKey;size:100" json:"id"`
	UserID            int64     `gorm:"not null;index" json:"user_id"`
	Plan              string    `gorm:"size:20;not null" json:"plan"` // only "premium" is recorded
	Status            string    `gorm:"size:20;not null;index" json:"status"`
	CurrentPeriodEnd  time.Time `gorm:"not null" json:"current_period_end"`
	CancelAtPeriodEnd bool      `gorm:"default:false" json:"cancel_at_period_end"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}

// Entitled reports whether this subscription grants premium access.
func (s *Subscription) Entitled() bool {
	return s.Status == SubStatusActive || s.Status == SubStatusTrialing
}
