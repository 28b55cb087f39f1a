package dto

// PublicProfile is the payload rendered on a user's public page.
// Email and billing internals are never exposed here.
type PublicProfile struct {
	Username         string        `json:"username"`
	FullName         string        `json:"full_name"`
	AvatarURL        string        `json:"avatar_url"`
	Bio              string        `json:"bio"`
	TemplateID       string        `json:"template_id"`
	ThemeColor       string        `json:"theme_color"`
	SensitiveContent bool          `json:"sensitive_content"`
	ViewCount        *int64        `json:"view_count,omitempty"` // nil when the owner hides it
	Links            []*PublicLink `json:"links"`
}

type PublicLink struct {
	ID             int64  `json:"id"`
	Title          string `json:"title"`
	URL            string `json:"url"`
	Icon           string `json:"icon"`
	LinkType       string `json:"link_type"`
	IsAdultContent bool   `json:"is_adult_content"`
}

type ClickResponse struct {
	URL string `json:"url"`
}
