package auth

import (
	"net/url"
	"strings"

	"fieldexpense-backend/internal/config"
	"fieldexpense-backend/internal/flash"

	"github.com/gofiber/fiber/v2"
)

const (
	CtxUserIDKey   = "user_id"
	CtxUsernameKey = "username"
	CtxIsAdminKey  = "is_admin"
)

// RequireSession resolves the principal from the session cookie and stores it
// in request locals. Without a valid session the browser is sent to the login
// page, carrying the originally requested path for the post-login redirect.
func RequireSession(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenStr := c.Cookies(SessionCookie)
		if tokenStr == "" {
			return redirectToLogin(c)
		}

		claims, err := ParseToken(cfg.SessionSecret, tokenStr)
		if err != nil {
			ClearSessionCookie(c)
			return redirectToLogin(c)
		}

		c.Locals(CtxUserIDKey, claims.UserID)
		c.Locals(CtxUsernameKey, claims.Username)
		c.Locals(CtxIsAdminKey, claims.IsAdmin)

		return c.Next()
	}
}

// RequireAdmin rejects non-admin principals with a flash message and a
// redirect back to the dashboard. It must run after RequireSession.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		isAdmin, ok := c.Locals(CtxIsAdminKey).(bool)
		if !ok || !isAdmin {
			flash.Set(c, flash.LevelDanger, "administrator access required")
			return c.Redirect("/dashboard", fiber.StatusSeeOther)
		}
		return c.Next()
	}
}

func redirectToLogin(c *fiber.Ctx) error {
	target := "/login"
	if path := c.OriginalURL(); path != "" && path != "/" {
		target += "?next=" + url.QueryEscape(path)
	}
	return c.Redirect(target, fiber.StatusSeeOther)
}

// PrincipalID returns the authenticated user id set by RequireSession.
func PrincipalID(c *fiber.Ctx) (uint, bool) {
	id, ok := c.Locals(CtxUserIDKey).(uint)
	return id, ok
}

func PrincipalName(c *fiber.Ctx) string {
	name, _ := c.Locals(CtxUsernameKey).(string)
	return name
}

// SafeNext reduces a caller-supplied post-login target to a local path.
// Anything absolute or scheme-relative falls back to the dashboard.
func SafeNext(next string) string {
	next = strings.TrimSpace(next)
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return "/dashboard"
	}
	return next
}
