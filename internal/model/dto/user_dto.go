package dto

type UserInfo struct {
	ID               int64  `json:"id"`
	Username         string `json:"username"`
	Email            string `json:"email,omitempty"`
	FullName         string `json:"full_name"`
	AvatarURL        string `json:"avatar_url"`
	Bio              string `json:"bio"`
	TemplateID       string `json:"template_id"`
	ThemeColor       string `json:"theme_color"`
	ShowViewCount    bool   `json:"show_view_count"`
	SensitiveContent bool   `json:"sensitive_content"`
	ViewCount        int64  `json:"view_count"`
	IsPremium        bool   `json:"is_premium"`
	EmailVerified    bool   `json:"email_verified"`
	CreatedAt        string `json:"created_at,omitempty"`
}

type UpdateProfileRequest struct {
	Username         *string `json:"username" binding:"omitempty,min=3,max=30"`
	FullName         *string `json:"full_name" binding:"omitempty,max=100"`
	Bio              *string `json:"bio" binding:"omitempty,max=500"`
	ThemeColor       *string `json:"theme_color"`
	ShowViewCount    *bool   `json:"show_view_count"`
	SensitiveContent *bool   `json:"sensitive_content"`
}

type SetTemplateRequest struct {
	TemplateID string `json:"template_id" binding:"required"`
}
