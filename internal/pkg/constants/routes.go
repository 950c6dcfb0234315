package constants

// Static route constants
const (
	APIRoute          = "/api"
	AuthRoute         = "/api/auth"
	CatalogRoute      = "/api/catalog"
	StoresRoute       = "/api/stores"
	ClientsRoute      = "/api/clients"
	ProductsRoute     = "/api/products"
	OrdersRoute       = "/api/orders"
	SubscriptionRoute = "/api/subscription"
	WebhooksRoute     = "/api/webhooks"
)
