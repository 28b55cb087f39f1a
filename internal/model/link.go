package model

import (
	"time"
)

// LinkType distinguishes social links (fixed base URL) from custom ones.
const (
	LinkTypeCustom    = "custom"
	LinkTypeX         = "x"
	LinkTypeInstagram = "instagram"
	LinkTypeFacebook  = "facebook"
	LinkTypeYoutube   = "youtube"
	LinkTypeLinkedin  = "linkedin"
	LinkTypeGithub    = "github"
	LinkTypeTiktok    = "tiktok"
)

type Link struct {
	ID             int64     `gorm:"primaryKey" json:"id"`
	UserID         int64     `gorm:"not null;index" json:"user_id"`
	Title          string    `gorm:"size:100;not null" json:"title"`
	URL            string    `gorm:"size:1000;not null" json:"url"`
	Icon           string    `gorm:"size:100" json:"icon"`
	LinkType       string    `gorm:"size:20;default:custom" json:"link_type"`
	Position       int       `gorm:"default:0;index" json:"position"`
	IsActive       bool      `gorm:"default:true" json:"is_active"`
	IsAdultContent bool      `gorm:"default:false" json:"is_adult_content"`
	ClickCount     int64     `gorm:"default:0" json:"click_count"`
	ShareCount     int64     `gorm:"default:0" json:"share_count"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (Link) TableName() string {
	return "links"
}
