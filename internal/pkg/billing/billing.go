package billing

import (
	"context"
	"errors"
)

var (
	ErrInvalidSignature = errors.New("webhook signature verification failed")
	ErrMalformedEvent   = errors.New("malformed webhook event payload")
)

// Event is a verified, partially decoded billing-provider event. For
// customer.subscription.* events Subscription carries the payload object;
// for invoice events only the referenced subscription id is extracted and
// the full object must be retrieved separately.
type Event struct {
	ID                    string
	Type                  string
	Subscription          *Subscription
	InvoiceSubscriptionID string
}

// Subscription is the lean view of a provider subscription this app needs.
// Timestamps stay as raw unix seconds; validation happens in the service.
type Subscription struct {
	ID                string `json:"id"`
	CustomerID        string `json:"customer"`
	Status            string `json:"status"`
	CancelAtPeriodEnd bool   `json:"cancel_at_period_end"`
	CurrentPeriodEnd  int64  `json:"current_period_end"`
	Created           int64  `json:"created"`
}

type Customer struct {
	ID       string
	Email    string
	Metadata map[string]string
}

type CheckoutParams struct {
	CustomerID string
	PriceID    string
	SuccessURL string
	CancelURL  string
}

type CheckoutSession struct {
	ID  string
	URL string
}

// Client is the payment-provider surface the billing service depends on.
// The Stripe implementation lives in stripe.go; tests inject a fake.
type Client interface {
	// VerifyAndDecode authenticates a webhook delivery. It must be handed
	// the exact raw request body; any re-serialization breaks the signature.
	VerifyAndDecode(payload []byte, sigHeader string) (*Event, error)

	RetrieveCustomer(ctx context.Context, id string) (*Customer, error)
	RetrieveSubscription(ctx context.Context, id string) (*Subscription, error)
	CreateCustomer(ctx context.Context, email string, metadata map[string]string) (*Customer, error)
	CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*CheckoutSession, error)
	CancelAtPeriodEnd(ctx context.Context, subscriptionID string) error
}
