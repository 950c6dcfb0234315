package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gustavolopes/lojify/internal/pkg/usercontext"
)

// RequireStoreAuth ensures a logged-in store session for API routes and
// returns JSON 401 otherwise.
func RequireStoreAuth(c *fiber.Ctx) error {
	if !usercontext.IsStore(c) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":   "unauthorized",
			"message": "login de loja necessário",
		})
	}
	return c.Next()
}

// RequireAdminAuth ensures a logged-in admin session.
func RequireAdminAuth(c *fiber.Ctx) error {
	if !usercontext.IsAdmin(c) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":   "unauthorized",
			"message": "login de administrador necessário",
		})
	}
	return c.Next()
}
