package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gustavolopes/lojify/internal/pkg/session"
	"github.com/gustavolopes/lojify/internal/pkg/usercontext"
)

// UserContextMiddleware sets up the complete user context for every request.
// This centralizes session handling so controllers read identity from one
// place only.
func UserContextMiddleware(c *fiber.Ctx) error {
	anonymous := func() error {
		c.Locals("USER_CONTEXT", usercontext.UserContext{IsLoggedIn: false})
		c.Locals(usercontext.KeyFromProtected, false)
		return c.Next()
	}

	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		// On error: treat as anonymous user
		return anonymous()
	}

	userID := sess.Get(usercontext.KeyUserID)
	if userID == nil {
		return anonymous()
	}

	userType, _ := sess.Get(usercontext.KeyUserType).(string)
	displayName, _ := sess.Get(usercontext.KeyDisplayName).(string)
	storeID, _ := sess.Get(usercontext.KeyStoreID).(uint)
	storeSlug, _ := sess.Get(usercontext.KeyStoreSlug).(string)

	userCtx := usercontext.UserContext{
		UserID:      userID.(uint),
		UserType:    userType,
		StoreID:     storeID,
		StoreSlug:   storeSlug,
		DisplayName: displayName,
		IsLoggedIn:  true,
	}
	c.Locals("USER_CONTEXT", userCtx)
	c.Locals(usercontext.KeyFromProtected, true)

	return c.Next()
}
