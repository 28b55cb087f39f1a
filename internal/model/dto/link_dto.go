package dto

type CreateLinkRequest struct {
	Title          string `json:"title" binding:"required,max=100"`
	URL            string `json:"url" binding:"required,url,max=1000"`
	Icon           string `json:"icon" binding:"omitempty,max=100"`
	LinkType       string `json:"link_type" binding:"omitempty,oneof=custom x instagram facebook youtube linkedin github tiktok"`
	IsAdultContent bool   `json:"is_adult_content"`
}

type UpdateLinkRequest struct {
	Title          *string `json:"title" binding:"omitempty,max=100"`
	URL            *string `json:"url" binding:"omitempty,url,max=1000"`
	Icon           *string `json:"icon" binding:"omitempty,max=100"`
	IsActive       *bool   `json:"is_active"`
	IsAdultContent *bool   `json:"is_adult_content"`
}

// ReorderLinksRequest carries the full ordering of the user's links;
// positions are assigned from the slice order.
type ReorderLinksRequest struct {
	LinkIDs []int64 `json:"link_ids" binding:"required,min=1"`
}
