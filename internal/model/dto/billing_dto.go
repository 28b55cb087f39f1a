package dto

type CheckoutRequest struct {
	PriceID string `json:"price_id" binding:"required"`
}

type CheckoutResponse struct {
	URL string `json:"url"`
}

type SubscriptionInfo struct {
	ID                string `json:"id"`
	Plan              string `json:"plan"`
	Status            string `json:"status"`
	CurrentPeriodEnd  string `json:"current_period_end"`
	CancelAtPeriodEnd bool   `json:"cancel_at_period_end"`
}
