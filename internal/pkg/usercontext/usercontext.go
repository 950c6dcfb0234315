package usercontext

import "github.com/gofiber/fiber/v2"

// UserContext represents the complete identity context for a request. For
// store sessions StoreID carries the tenant; every downstream operation takes
// it as an explicit parameter, never as ambient global state.
type UserContext struct {
	UserID      uint   `json:"user_id"`
	UserType    string `json:"user_type"`
	StoreID     uint   `json:"store_id"`
	StoreSlug   string `json:"store_slug"`
	DisplayName string `json:"display_name"`
	IsLoggedIn  bool   `json:"is_logged_in"`
}

// GetUserContext retrieves the user context from fiber context
// Returns a default anonymous context if none is set
func GetUserContext(c *fiber.Ctx) UserContext {
	if ctx := c.Locals("USER_CONTEXT"); ctx != nil {
		return ctx.(UserContext)
	}
	return UserContext{IsLoggedIn: false}
}

// IsLoggedIn checks if the current user is logged in
func IsLoggedIn(c *fiber.Ctx) bool {
	return GetUserContext(c).IsLoggedIn
}

// IsAdmin checks if the current user is an admin
func IsAdmin(c *fiber.Ctx) bool {
	ctx := GetUserContext(c)
	return ctx.IsLoggedIn && ctx.UserType == "admin"
}

// IsStore checks if the current session belongs to a store
func IsStore(c *fiber.Ctx) bool {
	ctx := GetUserContext(c)
	return ctx.IsLoggedIn && ctx.UserType == "store"
}

// GetStoreID returns the current session's store ID, or 0 for non-store sessions
func GetStoreID(c *fiber.Ctx) uint {
	return GetUserContext(c).StoreID
}
