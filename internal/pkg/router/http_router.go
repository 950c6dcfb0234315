package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gustavolopes/lojify/app/controllers"
	"github.com/gustavolopes/lojify/internal/pkg/constants"
	"github.com/gustavolopes/lojify/internal/pkg/middleware"
	"github.com/gustavolopes/lojify/internal/pkg/session"
)

type HttpRouter struct {
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	// init session
	session.NewSessionStore()

	// Apply UserContext middleware globally as first middleware
	app.Use(middleware.UserContextMiddleware)

	// Controllers with service dependencies
	controllers.InitializeSubscriptionController()
	controllers.InitializeProductController()

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Stripe delivers webhooks outside the rate-limited API group.
	app.Post(constants.WebhooksRoute+"/stripe", controllers.HandleStripeWebhook)
}

func NewHttpRouter() *HttpRouter {
	return &HttpRouter{}
}
