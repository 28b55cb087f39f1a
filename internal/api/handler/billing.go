package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nestbio/linko/internal/api/middleware"
	"github.com/nestbio/linko/internal/model/dto"
	"github.com/nestbio/linko/internal/pkg/billing"
	"github.com/nestbio/linko/internal/pkg/response"
	"github.com/nestbio/linko/internal/service"
)

type BillingHandler struct {
	billingService *service.BillingService
}

func NewBillingHandler(billingService *service.BillingService) *BillingHandler {
	return &BillingHandler{
		billingService: billingService,
	}
}

// CreateCheckout opens a subscription checkout session
// POST /api/v1/billing/checkout
func (h *BillingHandler) CreateCheckout(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req dto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	resp, err := h.billingService.CreateCheckout(c.Request.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAlreadyPremium):
			response.DuplicateError(c, err.Error())
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, resp)
}

// GetSubscription returns the current subscription
// GET /api/v1/billing/subscription
func (h *BillingHandler) GetSubscription(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	info, err := h.billingService.GetSubscription(userID)
	if err != nil {
		if errors.Is(err, service.ErrNoSubscription) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.Success(c, info)
}

// CancelSubscription flags the subscription to end at the period boundary
// POST /api/v1/billing/cancel
func (h *BillingHandler) CancelSubscription(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	info, err := h.billingService.Cancel(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrNoSubscription) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.Success(c, info)
}

// Webhook receives provider deliveries
// POST /webhooks/stripe
//
// Unlike the rest of the API this endpoint speaks raw HTTP statuses:
// 2xx acknowledges, 400 tells the provider to stop retrying a
// permanently bad delivery, anything else triggers redelivery.
func (h *BillingHandler) Webhook(c *gin.Context) {
	payload, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read body"})
		return
	}

	outcome, err := h.billingService.HandleWebhookEvent(
		c.Request.Context(),
		payload,
		c.GetHeader("Stripe-Signature"),
	)
	if err != nil {
		if isPermanentWebhookError(err) {
			log.Printf("Billing webhook rejected: %v", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		log.Printf("Billing webhook failed, provider will retry: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "temporary failure"})
		return
	}

	if outcome.Skipped {
		c.JSON(http.StatusOK, gin.H{"skipped": true, "reason": outcome.SkipReason})
		return
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}

// isPermanentWebhookError reports whether retrying the delivery can
// never succeed.
func isPermanentWebhookError(err error) bool {
	return errors.Is(err, billing.ErrInvalidSignature) ||
		errors.Is(err, billing.ErrMalformedEvent) ||
		errors.Is(err, service.ErrMissingUserMapping) ||
		errors.Is(err, service.ErrInvalidTimestamp)
}
