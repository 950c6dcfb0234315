package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/gustavolopes/lojify/app/controllers"
	"github.com/gustavolopes/lojify/internal/pkg/constants"
	"github.com/gustavolopes/lojify/internal/pkg/middleware"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	app.Use(constants.APIRoute, limiter.New(limiter.Config{Max: 100}))

	// Authentication
	auth := app.Group(constants.AuthRoute)
	auth.Post("/login", controllers.HandleLogin)
	auth.Post("/logout", controllers.HandleLogout)
	auth.Get("/me", controllers.HandleMe)
	auth.Post("/client/request-code", controllers.HandleClientRequestCode)
	auth.Post("/client/verify", controllers.HandleClientVerifyCode)

	// Stores: self-registration is public, listing is admin only
	stores := app.Group(constants.StoresRoute)
	stores.Post("/", controllers.HandleStoreRegister)
	stores.Get("/", middleware.RequireAdminAuth, controllers.HandleStoreList)
	stores.Get("/:id/subscription", middleware.RequireAdminAuth, controllers.HandleSubscriptionAdminGet)
	stores.Get("/me", middleware.RequireStoreAuth, controllers.HandleStoreMe)
	stores.Put("/me", middleware.RequireStoreAuth, controllers.HandleStoreUpdate)
	stores.Get("/:slug", controllers.HandleStoreBySlug)

	// Public storefront catalog
	app.Get(constants.CatalogRoute+"/:slug", controllers.HandleCatalogBySlug)

	// Clients (store management)
	clients := app.Group(constants.ClientsRoute, middleware.RequireStoreAuth)
	clients.Post("/", controllers.HandleClientCreate)
	clients.Get("/", controllers.HandleClientList)
	clients.Get("/:id", controllers.HandleClientGet)
	clients.Put("/:id", controllers.HandleClientUpdate)
	clients.Delete("/:id", controllers.HandleClientDelete)

	// Products (store management)
	products := app.Group(constants.ProductsRoute, middleware.RequireStoreAuth)
	products.Post("/", controllers.HandleProductCreate)
	products.Get("/", controllers.HandleProductList)
	products.Put("/:id", controllers.HandleProductUpdate)
	products.Delete("/:id", controllers.HandleProductDelete)
	products.Post("/:id/image", controllers.HandleProductImageUpload)

	// Orders: clients place, stores advance, anyone tracks by UUID
	orders := app.Group(constants.OrdersRoute)
	orders.Post("/", controllers.HandleOrderCreate)
	orders.Get("/", controllers.HandleOrderList)
	orders.Get("/track/:uuid", controllers.HandleOrderTrack)
	orders.Get("/:id", controllers.HandleOrderGet)
	orders.Put("/:id/status", controllers.HandleOrderUpdateStatus)

	// Subscription and entitlement
	subscription := app.Group(constants.SubscriptionRoute, middleware.RequireStoreAuth)
	subscription.Get("/", controllers.HandleSubscriptionCheck)
	subscription.Post("/checkout", controllers.HandleSubscriptionCheckout)
	subscription.Post("/customer-portal", controllers.HandleSubscriptionPortal)
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}
