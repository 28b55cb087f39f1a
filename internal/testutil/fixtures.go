package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/nestbio/linko/internal/model"
)

var fixtureSeq int64

func nextSeq() int64 {
	return atomic.AddInt64(&fixtureSeq, 1)
}

// TestUser creates a verified user with sensible defaults.
func TestUser(t *testing.T, db *gorm.DB, opts ...func(*model.User)) *model.User {
	t.Helper()

	seq := nextSeq()
	email := fmt.Sprintf("test_%d@example.com", seq)
	passwordHash := "$2a$10$abcdefghijklmnopqrstuvwxyz123456" // bcrypt hash placeholder
	user := &model.User{
		Username:      fmt.Sprintf("testuser_%d", seq),
		Email:         &email,
		PasswordHash:  &passwordHash,
		TemplateID:    "island-minimal",
		ThemeColor:    "blue",
		ShowViewCount: true,
		EmailVerified: true,
	}

	for _, opt := range opts {
		opt(user)
	}

	// gorm skips zero-valued fields with a default tag on insert and then
	// reads the column default (true) back into the struct, so a false
	// ShowViewCount must be persisted with an explicit update after create.
	showViewCount := user.ShowViewCount

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	if !showViewCount {
		if err := db.Model(user).Update("show_view_count", false).Error; err != nil {
			t.Fatalf("Failed to update test user: %v", err)
		}
		user.ShowViewCount = false
	}

	return user
}

func WithUsername(username string) func(*model.User) {
	return func(u *model.User) {
		u.Username = username
	}
}

func WithEmail(email string) func(*model.User) {
	return func(u *model.User) {
		u.Email = &email
	}
}

func WithPremium() func(*model.User) {
	return func(u *model.User) {
		u.IsPremium = true
	}
}

func WithStripeCustomer(customerID string) func(*model.User) {
	return func(u *model.User) {
		u.StripeCustomerID = &customerID
	}
}

func WithTemplate(templateID string) func(*model.User) {
	return func(u *model.User) {
		u.TemplateID = templateID
	}
}

func WithHiddenViewCount() func(*model.User) {
	return func(u *model.User) {
		u.ShowViewCount = false
	}
}

// TestLink creates a link for the user.
func TestLink(t *testing.T, db *gorm.DB, userID int64, opts ...func(*model.Link)) *model.Link {
	t.Helper()

	seq := nextSeq()
	link := &model.Link{
		UserID:   userID,
		Title:    fmt.Sprintf("Link %d", seq),
		URL:      fmt.Sprintf("https://example.com/%d", seq),
		LinkType: model.LinkTypeCustom,
		IsActive: true,
	}

	for _, opt := range opts {
		opt(link)
	}

	// gorm skips zero-valued fields with a default tag on insert and then
	// reads the column default (true) back into the struct, so a false
	// IsActive must be persisted with an explicit update after create.
	isActive := link.IsActive

	if err := db.Create(link).Error; err != nil {
		t.Fatalf("Failed to create test link: %v", err)
	}

	if !isActive {
		if err := db.Model(link).Update("is_active", false).Error; err != nil {
			t.Fatalf("Failed to update test link: %v", err)
		}
		link.IsActive = false
	}

	return link
}

func WithPosition(pos int) func(*model.Link) {
	return func(l *model.Link) {
		l.Position = pos
	}
}

func WithInactive() func(*model.Link) {
	return func(l *model.Link) {
		l.IsActive = false
	}
}

func WithLinkType(linkType string) func(*model.Link) {
	return func(l *model.Link) {
		l.LinkType = linkType
	}
}

// TestSubscription creates an active premium subscription for the user.
func TestSubscription(t *testing.T, db *gorm.DB, userID int64, opts ...func(*model.Subscription)) *model.Subscription {
	t.Helper()

	sub := &model.Subscription{
		ID:               fmt.Sprintf("sub_test_%d", nextSeq()),
		UserID:           userID,
		Plan:             "premium",
		Status:           model.SubStatusActive,
		CurrentPeriodEnd: time.Now().Add(30 * 24 * time.Hour),
	}

	for _, opt := range opts {
		opt(sub)
	}

	if err := db.Create(sub).Error; err != nil {
		t.Fatalf("Failed to create test subscription: %v", err)
	}

	return sub
}

func WithStatus(status string) func(*model.Subscription) {
	return func(s *model.Subscription) {
		s.Status = status
	}
}

func WithCancelAtPeriodEnd() func(*model.Subscription) {
	return func(s *model.Subscription) {
		s.CancelAtPeriodEnd = true
	}
}
