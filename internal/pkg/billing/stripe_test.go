package billing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nestbio/linko/config"
)

const testWebhookSecret = "whsec_test_secret"

// signPayload builds a Stripe-Signature header (t=...,v1=...) the same way
// Stripe's servers sign deliveries.
func signPayload(payload []byte, secret string, ts time.Time) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.", ts.Unix())
	mac.Write(payload)
	return fmt.Sprintf("t=%d,v1=%s", ts.Unix(), hex.EncodeToString(mac.Sum(nil)))
}

func newTestStripeClient() *StripeClient {
	return NewStripeClient(&config.StripeConfig{
		SecretKey:     "sk_test_xxx",
		WebhookSecret: testWebhookSecret,
	})
}

func subscriptionEventJSON(eventType, subID, customerID, status string, periodEnd int64) []byte {
	return []byte(fmt.Sprintf(`{
		"id": "evt_test_1",
		"type": %q,
		"data": {
			"object": {
				"id": %q,
				"customer": %q,
				"status": %q,
				"cancel_at_period_end": false,
				"current_period_end": %d,
				"created": 1700000000
			}
		}
	}`, eventType, subID, customerID, status, periodEnd))
}

func TestVerifyAndDecode_SubscriptionEvent(t *testing.T) {
	c := newTestStripeClient()
	payload := subscriptionEventJSON("customer.subscription.updated", "sub_123", "cus_456", "active", 1800000000)
	header := signPayload(payload, testWebhookSecret, time.Now())

	ev, err := c.VerifyAndDecode(payload, header)
	require.NoError(t, err)

	assert.Equal(t, "evt_test_1", ev.ID)
	assert.Equal(t, "customer.subscription.updated", ev.Type)
	require.NotNil(t, ev.Subscription)
	assert.Equal(t, "sub_123", ev.Subscription.ID)
	assert.Equal(t, "cus_456", ev.Subscription.CustomerID)
	assert.Equal(t, "active", ev.Subscription.Status)
	assert.Equal(t, int64(1800000000), ev.Subscription.CurrentPeriodEnd)
}

func TestVerifyAndDecode_InvoiceEvent(t *testing.T) {
	c := newTestStripeClient()
	payload := []byte(`{
		"id": "evt_test_2",
		"type": "invoice.paid",
		"data": {"object": {"id": "in_1", "subscription": "sub_789"}}
	}`)
	header := signPayload(payload, testWebhookSecret, time.Now())

	ev, err := c.VerifyAndDecode(payload, header)
	require.NoError(t, err)

	assert.Equal(t, "invoice.paid", ev.Type)
	assert.Nil(t, ev.Subscription)
	assert.Equal(t, "sub_789", ev.InvoiceSubscriptionID)
}

func TestVerifyAndDecode_MutatedBody(t *testing.T) {
	c := newTestStripeClient()
	payload := subscriptionEventJSON("customer.subscription.updated", "sub_123", "cus_456", "active", 1800000000)
	header := signPayload(payload, testWebhookSecret, time.Now())

	// Flip one byte after signing.
	mutated := append([]byte{}, payload...)
	mutated[len(mutated)-2] = ' '

	_, err := c.VerifyAndDecode(mutated, header)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifyAndDecode_WrongSecret(t *testing.T) {
	c := newTestStripeClient()
	payload := subscriptionEventJSON("customer.subscription.created", "sub_1", "cus_1", "active", 1800000000)
	header := signPayload(payload, "whsec_other", time.Now())

	_, err := c.VerifyAndDecode(payload, header)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifyAndDecode_UnrecognizedType(t *testing.T) {
	c := newTestStripeClient()
	payload := []byte(`{"id": "evt_3", "type": "charge.refunded", "data": {"object": {"id": "ch_1"}}}`)
	header := signPayload(payload, testWebhookSecret, time.Now())

	ev, err := c.VerifyAndDecode(payload, header)
	require.NoError(t, err)
	assert.Equal(t, "charge.refunded", ev.Type)
	assert.Nil(t, ev.Subscription)
	assert.Empty(t, ev.InvoiceSubscriptionID)
}
