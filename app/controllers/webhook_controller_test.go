package controllers

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWebhookApp() *fiber.App {
	app := fiber.New()
	app.Post("/api/webhooks/stripe", HandleStripeWebhook)
	return app
}

func TestStripeWebhookWithoutSecretReturns503(t *testing.T) {
	t.Setenv("STRIPE_WEBHOOK_SECRET", "")

	app := newWebhookApp()
	req := httptest.NewRequest("POST", "/api/webhooks/stripe", strings.NewReader(`{"id":"evt_1"}`))
	req.Header.Set("Stripe-Signature", "t=1,v1=abc")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}

func TestStripeWebhookRejectsMissingSignature(t *testing.T) {
	t.Setenv("STRIPE_WEBHOOK_SECRET", "whsec_test")

	app := newWebhookApp()
	req := httptest.NewRequest("POST", "/api/webhooks/stripe", strings.NewReader(`{"id":"evt_1"}`))

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestStripeWebhookRejectsInvalidSignature(t *testing.T) {
	t.Setenv("STRIPE_WEBHOOK_SECRET", "whsec_test")

	app := newWebhookApp()
	req := httptest.NewRequest("POST", "/api/webhooks/stripe", strings.NewReader(`{"id":"evt_1"}`))
	req.Header.Set("Stripe-Signature", "t=1,v1=deadbeef")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestStripeWebhookRejectsEmptyBody(t *testing.T) {
	t.Setenv("STRIPE_WEBHOOK_SECRET", "whsec_test")

	app := newWebhookApp()
	req := httptest.NewRequest("POST", "/api/webhooks/stripe", nil)
	req.Header.Set("Stripe-Signature", "t=1,v1=abc")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
