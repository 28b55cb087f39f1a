package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/nestbio/linko/config"
	"github.com/nestbio/linko/internal/model"
	"github.com/nestbio/linko/internal/model/dto"
	"github.com/nestbio/linko/internal/pkg/billing"
	"github.com/nestbio/linko/internal/repository"
)

var (
	ErrMissingUserMapping = errors.New("billing customer is not mapped to a user")
	ErrInvalidTimestamp   = errors.New("subscription carries an invalid period end")
	ErrNoSubscription     = errors.New("user has no subscription")
	ErrAlreadyPremium     = errors.New("user already has an active subscription")
)

// WebhookOutcome reports what a verified webhook delivery did. Skipped
// deliveries were acknowledged without any state change.
type WebhookOutcome struct {
	EventID    string
	EventType  string
	Skipped    bool
	SkipReason string
}

// BillingService reconciles provider subscription events into the local
// subscriptions table and the per-user entitlement flag, and initiates
// checkout sessions.
type BillingService struct {
	client   billing.Client
	userRepo *repository.UserRepository
	subRepo  *repository.SubscriptionRepository
	cfg      *config.Config
}

func NewBillingService(client billing.Client, userRepo *repository.UserRepository, subRepo *repository.SubscriptionRepository, cfg *config.Config) *BillingService {
	return &BillingService{
		client:   client,
		userRepo: userRepo,
		subRepo:  subRepo,
		cfg:      cfg,
	}
}

// HandleWebhookEvent verifies and applies one webhook delivery.
//
// Error classification matters to the caller: billing.ErrInvalidSignature,
// billing.ErrMalformedEvent, ErrMissingUserMapping and ErrInvalidTimestamp
// are permanent and must not be retried; any other error is transient and
// the provider should redeliver.
func (s *BillingService) HandleWebhookEvent(ctx context.Context, payload []byte, sigHeader string) (*WebhookOutcome, error) {
	ev, err := s.client.VerifyAndDecode(payload, sigHeader)
	if err != nil {
		return nil, err
	}

	outcome := &WebhookOutcome{EventID: ev.ID, EventType: ev.Type}

	switch {
	case strings.HasPrefix(ev.Type, "customer.subscription."):
		if ev.Subscription == nil {
			return nil, billing.ErrMalformedEvent
		}
		deleted := ev.Type == "customer.subscription.deleted"
		return s.reconcile(ctx, outcome, ev.Subscription, deleted)

	case ev.Type == "invoice.paid" || ev.Type == "invoice.payment_succeeded":
		if ev.InvoiceSubscriptionID == "" {
			// one-off invoices carry no subscription
			outcome.Skipped = true
			outcome.SkipReason = "invoice has no subscription"
			return outcome, nil
		}
		sub, err := s.client.RetrieveSubscription(ctx, ev.InvoiceSubscriptionID)
		if err != nil {
			return nil, fmt.Errorf("failed to retrieve subscription %s: %w", ev.InvoiceSubscriptionID, err)
		}
		return s.reconcile(ctx, outcome, sub, false)

	default:
		outcome.Skipped = true
		outcome.SkipReason = "unhandled event type"
		return outcome, nil
	}
}

// reconcile upserts the subscription row and projects the entitlement
// onto the owning user. Applying the same event twice converges to the
// same state.
func (s *BillingService) reconcile(ctx context.Context, outcome *WebhookOutcome, sub *billing.Subscription, deleted bool) (*WebhookOutcome, error) {
	// incomplete subscriptions are checkout sessions that never paid;
	// nothing is written until they transition
	if !deleted && sub.Status == model.SubStatusIncomplete {
		outcome.Skipped = true
		outcome.SkipReason = "subscription is incomplete"
		return outcome, nil
	}

	userID, err := s.resolveUser(ctx, sub)
	if err != nil {
		return nil, err
	}

	status := sub.Status
	if deleted {
		status = model.SubStatusCanceled
	}

	row := &model.Subscription{
		ID:                sub.ID,
		UserID:            userID,
		Plan:              "premium",
		Status:            status,
		CancelAtPeriodEnd: sub.CancelAtPeriodEnd,
	}
	if !deleted {
		if sub.CurrentPeriodEnd <= 0 {
			return nil, ErrInvalidTimestamp
		}
		row.CurrentPeriodEnd = time.Unix(sub.CurrentPeriodEnd, 0).UTC()
	} else if sub.CurrentPeriodEnd > 0 {
		row.CurrentPeriodEnd = time.Unix(sub.CurrentPeriodEnd, 0).UTC()
	}

	if err := s.subRepo.Upsert(row); err != nil {
		return nil, fmt.Errorf("failed to upsert subscription %s: %w", sub.ID, err)
	}

	if deleted || !row.Entitled() {
		if err := s.userRepo.UpdateEntitlement(userID, false, nil); err != nil {
			return nil, fmt.Errorf("failed to clear entitlement for user %d: %w", userID, err)
		}
	} else {
		subID := sub.ID
		if err := s.userRepo.UpdateEntitlement(userID, true, &subID); err != nil {
			return nil, fmt.Errorf("failed to grant entitlement for user %d: %w", userID, err)
		}
	}

	log.Printf("Billing: reconciled subscription %s (user=%d status=%s)", sub.ID, userID, status)
	return outcome, nil
}

// resolveUser maps the provider customer to a local user: first by the
// stored customer id, then by the user_id metadata stamped at customer
// creation.
func (s *BillingService) resolveUser(ctx context.Context, sub *billing.Subscription) (int64, error) {
	if sub.CustomerID == "" {
		return 0, ErrMissingUserMapping
	}

	user, err := s.userRepo.GetByStripeCustomerID(sub.CustomerID)
	if err == nil {
		return user.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}

	customer, err := s.client.RetrieveCustomer(ctx, sub.CustomerID)
	if err != nil {
		return 0, fmt.Errorf("failed to retrieve customer %s: %w", sub.CustomerID, err)
	}

	raw, ok := customer.Metadata["user_id"]
	if !ok {
		return 0, ErrMissingUserMapping
	}
	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, ErrMissingUserMapping
	}

	user, err = s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrMissingUserMapping
		}
		return 0, err
	}

	// heal the mapping so the next event resolves without an API call
	if _, err := s.userRepo.SetStripeCustomerIDIfEmpty(user.ID, sub.CustomerID); err != nil {
		return 0, err
	}

	return user.ID, nil
}

// CreateCheckout opens a subscription checkout session, creating the
// provider customer on first use.
func (s *BillingService) CreateCheckout(ctx context.Context, userID int64, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if user.IsPremium {
		return nil, ErrAlreadyPremium
	}

	customerID, err := s.ensureCustomer(ctx, user)
	if err != nil {
		return nil, err
	}

	priceID := req.PriceID
	if priceID == "" {
		priceID = s.cfg.Stripe.PremiumPriceID
	}

	session, err := s.client.CreateCheckoutSession(ctx, billing.CheckoutParams{
		CustomerID: customerID,
		PriceID:    priceID,
		SuccessURL: s.cfg.App.BaseURL + "/dashboard?checkout=success",
		CancelURL:  s.cfg.App.BaseURL + "/dashboard?checkout=canceled",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	return &dto.CheckoutResponse{URL: session.URL}, nil
}

// ensureCustomer returns the user's provider customer id, creating one
// lazily. Concurrent requests race on the conditional write; the loser
// re-reads and uses the winner's customer.
func (s *BillingService) ensureCustomer(ctx context.Context, user *model.User) (string, error) {
	if user.StripeCustomerID != nil && *user.StripeCustomerID != "" {
		return *user.StripeCustomerID, nil
	}

	emailAddr := ""
	if user.Email != nil {
		emailAddr = *user.Email
	}

	customer, err := s.client.CreateCustomer(ctx, emailAddr, map[string]string{
		"user_id":  strconv.FormatInt(user.ID, 10),
		"username": user.Username,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create customer: %w", err)
	}

	won, err := s.userRepo.SetStripeCustomerIDIfEmpty(user.ID, customer.ID)
	if err != nil {
		return "", err
	}
	if !won {
		fresh, err := s.userRepo.GetByID(user.ID)
		if err != nil {
			return "", err
		}
		if fresh.StripeCustomerID == nil || *fresh.StripeCustomerID == "" {
			return "", fmt.Errorf("customer id missing after lost race for user %d", user.ID)
		}
		return *fresh.StripeCustomerID, nil
	}

	return customer.ID, nil
}

// Cancel flags the current subscription to end at the period boundary.
// Entitlement stays until the deletion event arrives.
func (s *BillingService) Cancel(ctx context.Context, userID int64) (*dto.SubscriptionInfo, error) {
	sub, err := s.subRepo.GetCurrentByUser(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoSubscription
		}
		return nil, err
	}
	if !sub.Entitled() {
		return nil, ErrNoSubscription
	}

	if err := s.client.CancelAtPeriodEnd(ctx, sub.ID); err != nil {
		return nil, fmt.Errorf("failed to cancel subscription %s: %w", sub.ID, err)
	}

	if err := s.subRepo.UpdateCancelAtPeriodEnd(sub.ID, true); err != nil {
		return nil, err
	}
	sub.CancelAtPeriodEnd = true

	return buildSubscriptionInfo(sub), nil
}

// GetSubscription returns the user's current subscription, or
// ErrNoSubscription for free accounts.
func (s *BillingService) GetSubscription(userID int64) (*dto.SubscriptionInfo, error) {
	sub, err := s.subRepo.GetCurrentByUser(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoSubscription
		}
		return nil, err
	}
	return buildSubscriptionInfo(sub), nil
}

func buildSubscriptionInfo(sub *model.Subscription) *dto.SubscriptionInfo {
	return &dto.SubscriptionInfo{
		ID:                sub.ID,
		Plan:              sub.Plan,
		Status:            sub.Status,
		CurrentPeriodEnd:  sub.CurrentPeriodEnd.UTC().Format(time.RFC3339),
		CancelAtPeriodEnd: sub.CancelAtPeriodEnd,
	}
}
