package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gustavolopes/lojify/internal/pkg/apperr"
	"github.com/gustavolopes/lojify/internal/pkg/billing"
	"github.com/gustavolopes/lojify/internal/pkg/database"
	"github.com/gustavolopes/lojify/internal/pkg/usercontext"
)

var billingService *billing.Service

// InitializeSubscriptionController wires the billing service. Must run after
// database setup.
func InitializeSubscriptionController() {
	billingService = billing.NewServiceFromDB(database.GetDB())
}

// SetBillingService overrides the billing service, used by tests.
func SetBillingService(svc *billing.Service) {
	billingService = svc
}

// HandleSubscriptionCheck reconciles and returns the store's entitlement.
func HandleSubscriptionCheck(c *fiber.Ctx) error {
	ent, err := billingService.CheckSubscription(c.Context(), usercontext.GetStoreID(c))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(ent)
}

type checkoutRequest struct {
	Plan string `json:"plan"`
}

// HandleSubscriptionCheckout creates a provider checkout session and returns
// its URL.
func HandleSubscriptionCheckout(c *fiber.Ctx) error {
	var req checkoutRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return errorJSON(c, apperr.Validation("corpo da requisição inválido"))
		}
	}

	url, err := billingService.CreateCheckout(c.Context(), usercontext.GetStoreID(c), req.Plan)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(fiber.Map{"url": url})
}

// HandleSubscriptionAdminGet returns a store's locally persisted subscription
// record for the admin dashboard, without touching the provider.
func HandleSubscriptionAdminGet(c *fiber.Ctx) error {
	storeID, err := parseIDParam(c, "id")
	if err != nil {
		return errorJSON(c, err)
	}
	sub, err := billingService.GetLocalSubscription(storeID)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(fiber.Map{
		"subscription": sub,
		"active":       sub.IsActive(),
	})
}

// HandleSubscriptionPortal creates a provider self-service portal session.
func HandleSubscriptionPortal(c *fiber.Ctx) error {
	url, err := billingService.OpenPortal(c.Context(), usercontext.GetStoreID(c))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(fiber.Map{"url": url})
}
