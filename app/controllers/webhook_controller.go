package controllers

import (
	"encoding/json"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/stripe/stripe-go/v82/webhook"

	"github.com/gustavolopes/lojify/internal/pkg/billing"
	"github.com/gustavolopes/lojify/internal/pkg/env"
)

const webhookBodyLimit = 1024 * 1024 // 1 MiB

// stripeEventObject is the minimal slice of the event payload the
// reconciler needs; the full object stays in the stored raw payload.
type stripeEventObject struct {
	ID       string `json:"id"`
	Customer string `json:"customer"`
}

// HandleStripeWebhook verifies the Stripe signature and hands the event to
// the billing service. Events are recorded idempotently, so Stripe retries
// are safe.
func HandleStripeWebhook(c *fiber.Ctx) error {
	secret := strings.TrimSpace(env.GetEnv("STRIPE_WEBHOOK_SECRET", ""))
	if secret == "" {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error":   "unavailable",
			"message": "webhook secret não configurado",
		})
	}

	payload := c.Body()
	if len(payload) == 0 || len(payload) > webhookBodyLimit {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "validation_error",
			"message": "payload inválido",
		})
	}

	sigHeader := c.Get("Stripe-Signature")
	if strings.TrimSpace(sigHeader) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "validation_error",
			"message": "assinatura Stripe ausente",
		})
	}

	event, err := webhook.ConstructEventWithOptions(payload, sigHeader, secret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "validation_error",
			"message": "assinatura Stripe inválida",
		})
	}

	var obj stripeEventObject
	if len(event.Data.Raw) > 0 {
		if err := json.Unmarshal(event.Data.Raw, &obj); err != nil {
			log.Printf("[WEBHOOK] evento %s com payload não decodificável: %v", event.ID, err)
		}
	}

	err = billingService.HandleWebhookEvent(c.Context(), billing.WebhookEventInput{
		ProviderEventID: event.ID,
		EventType:       string(event.Type),
		PayloadJSON:     string(payload),
		SignatureValid:  true,
		CustomerID:      obj.Customer,
	})
	if err != nil {
		log.Printf("[WEBHOOK] falha ao processar evento %s (%s): %v", event.ID, event.Type, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal_server_error",
			"message": "falha ao processar evento",
		})
	}
	return c.JSON(fiber.Map{"received": true})
}
