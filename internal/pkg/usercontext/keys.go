package usercontext

// Shared Locals/session keys used across controllers and middlewares
const (
	AuthKey          = "authenticated"
	KeyUserID        = "user_id"
	KeyUserType      = "user_type"
	KeyStoreID       = "store_id"
	KeyStoreSlug     = "store_slug"
	KeyDisplayName   = "display_name"
	KeyFromProtected = "from_protected"
)
