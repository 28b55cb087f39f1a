package billing

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
	"github.com/stripe/stripe-go/v82/webhook"

	"github.com/nestbio/linko/config"
)

// StripeClient implements Client against the Stripe API. It is constructed
// once at startup and injected; there is no package-level key state.
type StripeClient struct {
	api           *client.API
	webhookSecret string
}

func NewStripeClient(cfg *config.StripeConfig) *StripeClient {
	return &StripeClient{
		api:           client.New(cfg.SecretKey, nil),
		webhookSecret: cfg.WebhookSecret,
	}
}

func (c *StripeClient) VerifyAndDecode(payload []byte, sigHeader string) (*Event, error) {
	ev, err := webhook.ConstructEventWithOptions(payload, sigHeader, c.webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	out := &Event{
		ID:   ev.ID,
		Type: string(ev.Type),
	}

	switch {
	case strings.HasPrefix(out.Type, "customer.subscription."):
		var sub Subscription
		if err := json.Unmarshal(ev.Data.Raw, &sub); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
		}
		out.Subscription = &sub
	case strings.HasPrefix(out.Type, "invoice."):
		var inv struct {
			Subscription string `json:"subscription"`
		}
		if err := json.Unmarshal(ev.Data.Raw, &inv); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
		}
		out.InvoiceSubscriptionID = inv.Subscription
	}

	return out, nil
}

func (c *StripeClient) RetrieveCustomer(ctx context.Context, id string) (*Customer, error) {
	params := &stripe.CustomerParams{}
	params.Context = ctx

	cust, err := c.api.Customers.Get(id, params)
	if err != nil {
		return nil, fmt.Errorf("retrieve customer %s: %w", id, err)
	}

	return &Customer{
		ID:       cust.ID,
		Email:    cust.Email,
		Metadata: cust.Metadata,
	}, nil
}

func (c *StripeClient) RetrieveSubscription(ctx context.Context, id string) (*Subscription, error) {
	params := &stripe.SubscriptionParams{}
	params.Context = ctx

	s, err := c.api.Subscriptions.Get(id, params)
	if err != nil {
		return nil, fmt.Errorf("retrieve subscription %s: %w", id, err)
	}

	sub := &Subscription{
		ID:                s.ID,
		Status:            string(s.Status),
		CancelAtPeriodEnd: s.CancelAtPeriodEnd,
		Created:           s.Created,
	}
	if s.Customer != nil {
		sub.CustomerID = s.Customer.ID
	}
	// Since the Basil API the period end lives on the subscription items.
	if s.Items != nil && len(s.Items.Data) > 0 {
		sub.CurrentPeriodEnd = s.Items.Data[0].CurrentPeriodEnd
	}

	return sub, nil
}

func (c *StripeClient) CreateCustomer(ctx context.Context, email string, metadata map[string]string) (*Customer, error) {
	params := &stripe.CustomerParams{
		Email: stripe.String(email),
	}
	params.Context = ctx
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	cust, err := c.api.Customers.New(params)
	if err != nil {
		return nil, fmt.Errorf("create customer: %w", err)
	}

	return &Customer{
		ID:       cust.ID,
		Email:    cust.Email,
		Metadata: cust.Metadata,
	}, nil
}

func (c *StripeClient) CreateCheckoutSession(ctx context.Context, p CheckoutParams) (*CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Customer: stripe.String(p.CustomerID),
		Mode:     stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(p.PriceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(p.SuccessURL),
		CancelURL:  stripe.String(p.CancelURL),
	}
	params.Context = ctx

	sess, err := c.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}

	return &CheckoutSession{ID: sess.ID, URL: sess.URL}, nil
}

func (c *StripeClient) CancelAtPeriodEnd(ctx context.Context, subscriptionID string) error {
	params := &stripe.SubscriptionParams{
		CancelAtPeriodEnd: stripe.Bool(true),
	}
	params.Context = ctx

	if _, err := c.api.Subscriptions.Update(subscriptionID, params); err != nil {
		return fmt.Errorf("cancel subscription %s: %w", subscriptionID, err)
	}
	return nil
}
