package dto

type AnalyticsSummary struct {
	TotalViews  int64         `json:"total_views"`
	TotalClicks int64         `json:"total_clicks"`
	RangeDays   int           `json:"range_days"`
	Links       []*LinkStats  `json:"links"`
	Daily       []*DailyStats `json:"daily"`
}

type LinkStats struct {
	LinkID     int64  `json:"link_id"`
	Title      string `json:"title"`
	ClickCount int64  `json:"click_count"`
	ShareCount int64  `json:"share_count"`
}

type DailyStats struct {
	Day    string `json:"day"`
	Views  int64  `json:"views"`
	Clicks int64  `json:"clicks"`
}
