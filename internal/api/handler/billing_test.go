package handler

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/nestbio/linko/config"
	"github.com/nestbio/linko/internal/model"
	"github.com/nestbio/linko/internal/model/dto"
	"github.com/nestbio/linko/internal/pkg/billing"
	"github.com/nestbio/linko/internal/pkg/response"
	"github.com/nestbio/linko/internal/repository"
	"github.com/nestbio/linko/internal/service"
	"github.com/nestbio/linko/internal/testutil"
)

// stubBillingClient hands back a canned event from VerifyAndDecode.
type stubBillingClient struct {
	event     *billing.Event
	verifyErr error
	customers map[string]*billing.Customer
}

func (s *stubBillingClient) VerifyAndDecode(payload []byte, sigHeader string) (*billing.Event, error) {
	if s.verifyErr != nil {
		return nil, s.verifyErr
	}
	return s.event, nil
}

func (s *stubBillingClient) RetrieveCustomer(ctx context.Context, id string) (*billing.Customer, error) {
	if c, ok := s.customers[id]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("no such customer: %s", id)
}

func (s *stubBillingClient) RetrieveSubscription(ctx context.Context, id string) (*billing.Subscription, error) {
	return nil, fmt.Errorf("no such subscription: %s", id)
}

func (s *stubBillingClient) CreateCustomer(ctx context.Context, email string, metadata map[string]string) (*billing.Customer, error) {
	return &billing.Customer{ID: "cus_stub", Email: email, Metadata: metadata}, nil
}

func (s *stubBillingClient) CreateCheckoutSession(ctx context.Context, params billing.CheckoutParams) (*billing.CheckoutSession, error) {
	return &billing.CheckoutSession{ID: "cs_stub", URL: "https://checkout.example.com/cs_stub"}, nil
}

func (s *stubBillingClient) CancelAtPeriodEnd(ctx context.Context, subscriptionID string) error {
	return nil
}

func setupBillingHandler(t *testing.T, client billing.Client) (*BillingHandler, *gorm.DB) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })

	cfg := &config.Config{
		App:    config.AppConfig{BaseURL: "https://linko.bio"},
		Stripe: config.StripeConfig{PremiumPriceID: "price_premium"},
	}

	billingService := service.NewBillingService(
		client,
		repository.NewUserRepository(db),
		repository.NewSubscriptionRepository(db),
		cfg,
	)
	return NewBillingHandler(billingService), db
}

func TestBillingHandler_Webhook_Received(t *testing.T) {
	stub := &stubBillingClient{}
	handler, db := setupBillingHandler(t, stub)
	user := testutil.TestUser(t, db, testutil.WithStripeCustomer("cus_1"))

	stub.event = &billing.Event{
		ID:   "evt_1",
		Type: "customer.subscription.created",
		Subscription: &billing.Subscription{
			ID:               "sub_1",
			CustomerID:       "cus_1",
			Status:           "active",
			CurrentPeriodEnd: time.Now().Add(24 * time.Hour).Unix(),
		},
	}

	router := gin.New()
	router.POST("/webhooks/stripe", handler.Webhook)

	w := performRequest(router, "POST", "/webhooks/stripe", gin.H{})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "received")

	var fresh model.User
	require.NoError(t, db.First(&fresh, user.ID).Error)
	assert.True(t, fresh.IsPremium)
}

func TestBillingHandler_Webhook_BadSignatureIs400(t *testing.T) {
	stub := &stubBillingClient{verifyErr: billing.ErrInvalidSignature}
	handler, _ := setupBillingHandler(t, stub)

	router := gin.New()
	router.POST("/webhooks/stripe", handler.Webhook)

	w := performRequest(router, "POST", "/webhooks/stripe", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBillingHandler_Webhook_MissingMappingIs400(t *testing.T) {
	stub := &stubBillingClient{
		customers: map[string]*billing.Customer{
			"cus_orphan": {ID: "cus_orphan", Metadata: map[string]string{}},
		},
	}
	handler, _ := setupBillingHandler(t, stub)

	stub.event = &billing.Event{
		ID:   "evt_1",
		Type: "customer.subscription.created",
		Subscription: &billing.Subscription{
			ID:               "sub_1",
			CustomerID:       "cus_orphan",
			Status:           "active",
			CurrentPeriodEnd: time.Now().Add(24 * time.Hour).Unix(),
		},
	}

	router := gin.New()
	router.POST("/webhooks/stripe", handler.Webhook)

	w := performRequest(router, "POST", "/webhooks/stripe", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBillingHandler_Webhook_SkippedEvent(t *testing.T) {
	stub := &stubBillingClient{event: &billing.Event{ID: "evt_1", Type: "charge.refunded"}}
	handler, _ := setupBillingHandler(t, stub)

	router := gin.New()
	router.POST("/webhooks/stripe", handler.Webhook)

	w := performRequest(router, "POST", "/webhooks/stripe", gin.H{})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "skipped")
}

func TestBillingHandler_CreateCheckout(t *testing.T) {
	handler, db := setupBillingHandler(t, &stubBillingClient{})
	user := testutil.TestUser(t, db)

	router := gin.New()
	router.Use(mockAuth(user.ID))
	router.POST("/billing/checkout", handler.CreateCheckout)

	w := performRequest(router, "POST", "/billing/checkout", dto.CheckoutRequest{PriceID: "price_premium"})
	resp := parseResponse(t, w)
	require.Equal(t, response.CodeSuccess, resp.Code)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "https://checkout.example.com/cs_stub", data["url"])
}

func TestBillingHandler_CreateCheckout_AlreadyPremium(t *testing.T) {
	handler, db := setupBillingHandler(t, &stubBillingClient{})
	user := testutil.TestUser(t, db, testutil.WithPremium())

	router := gin.New()
	router.Use(mockAuth(user.ID))
	router.POST("/billing/checkout", handler.CreateCheckout)

	w := performRequest(router, "POST", "/billing/checkout", dto.CheckoutRequest{PriceID: "price_premium"})
	resp := parseResponse(t, w)
	assert.Equal(t, response.CodeDuplicateAction, resp.Code)
}

func TestBillingHandler_GetSubscription_None(t *testing.T) {
	handler, db := setupBillingHandler(t, &stubBillingClient{})
	user := testutil.TestUser(t, db)

	router := gin.New()
	router.Use(mockAuth(user.ID))
	router.GET("/billing/subscription", handler.GetSubscription)

	w := performRequest(router, "GET", "/billing/subscription", nil)
	resp := parseResponse(t, w)
	assert.Equal(t, response.CodeResourceNotFound, resp.Code)
}

func TestBillingHandler_CancelSubscription(t *testing.T) {
	handler, db := setupBillingHandler(t, &stubBillingClient{})
	user := testutil.TestUser(t, db, testutil.WithPremium())
	testutil.TestSubscription(t, db, user.ID)

	router := gin.New()
	router.Use(mockAuth(user.ID))
	router.POST("/billing/cancel", handler.CancelSubscription)

	w := performRequest(router, "POST", "/billing/cancel", nil)
	resp := parseResponse(t, w)
	require.Equal(t, response.CodeSuccess, resp.Code)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, true, data["cancel_at_period_end"])
}
