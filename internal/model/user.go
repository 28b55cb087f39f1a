package model

import (
	"time"
)

type User struct {
	ID           int64   `gorm:"primaryKey" json:"id"`
	Username     string  `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Email        *string `gorm:"size:100;uniqueIndex" json:"email,omitempty"`
	PasswordHash *string `gorm:"size:255" json:"-"`
	FullName     string  `gorm:"size:100" json:"full_name"`
	AvatarURL    string  `gorm:"size:500" json:"avatar_url"`
	Bio          string  `gorm:"type:text" json:"bio"`
	GithubID     *string `gorm:"column:github_id;size:50;uniqueIndex" json:"-"`

	// Public page appearance.
	TemplateID       string `gorm:"size:50;default:island-minimal" json:"template_id"`
	ThemeColor       string `gorm:"size:20;default:blue" json:"theme_color"`
	ShowViewCount    bool   `gorm:"default:true" json:"show_view_count"`
	SensitiveContent bool   `gorm:"default:false" json:"sensitive_content"`
	ViewCount        int64  `gorm:"default:0" json:"view_count"`

	// Billing entitlement projection. IsPremium mirrors the current
	// subscription's status (active/trialing) and is the only field the
	// rest of the app reads to gate premium features.
	StripeCustomerID *string `gorm:"size:100;uniqueIndex" json:"-"`
	IsPremium        bool    `gorm:"default:false" json:"is_premium"`
	SubscriptionID   *string `gorm:"size:100" json:"-"`

	EmailVerified          bool       `gorm:"default:false" json:"email_verified"`
	VerificationCode       *string    `gorm:"size:100" json:"-"`
	VerificationExpiresAt  *time.Time `json:"-"`
	PasswordResetCode      *string    `gorm:"size:100" json:"-"`
	PasswordResetExpiresAt *time.Time `json:"-"`
	CreatedAt              time.Time  `json:"created_at"`
	UpdatedAt              time.Time  `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
