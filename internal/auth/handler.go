package auth

import (
	"errors"
	"log/slog"
	"net/url"

	"fieldexpense-backend/internal/audit"
	"fieldexpense-backend/internal/config"
	"fieldexpense-backend/internal/database"
	"fieldexpense-backend/internal/flash"
	"fieldexpense-backend/internal/form"
	"fieldexpense-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// HomeHandler sends authenticated principals to the dashboard and everyone
// else to the landing page.
func HomeHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if tokenStr := c.Cookies(SessionCookie); tokenStr != "" {
			if _, err := ParseToken(cfg.SessionSecret, tokenStr); err == nil {
				return c.Redirect("/dashboard", fiber.StatusSeeOther)
			}
		}
		return c.JSON(fiber.Map{"page": "home"})
	}
}

func LoginPageHandler() fiber.Handler {
	return pageHandler("login")
}

// LoginHandler authenticates the submitted credentials and establishes the
// session. On success the browser goes back to the page it originally asked
// for, or to the dashboard.
func LoginHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p := form.New(func(name string) string { return c.FormValue(name) })
		username := p.String("username", true)
		password := p.String("password", true)
		next := c.Query("next", c.FormValue("next"))

		if err := p.Err(); err != nil {
			flash.Set(c, flash.LevelDanger, err.Error())
			return c.Redirect(loginPath(next), fiber.StatusSeeOther)
		}

		user, err := Authenticate(database.DB, username, password)
		if err != nil {
			if errors.Is(err, ErrInvalidCredentials) {
				flash.Set(c, flash.LevelDanger, "invalid username or password")
				return c.Redirect(loginPath(next), fiber.StatusSeeOther)
			}
			slog.Error("login failed", "username", username, "error", err)
			return fiber.NewError(fiber.StatusInternalServerError, "login failed")
		}

		token, err := GenerateToken(cfg.SessionSecret, user)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not create session")
		}
		SetSessionCookie(c, token)

		return c.Redirect(SafeNext(next), fiber.StatusSeeOther)
	}
}

func RegisterPageHandler() fiber.Handler {
	return pageHandler("register")
}

func RegisterHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p := form.New(func(name string) string { return c.FormValue(name) })
		username := p.String("username", true)
		email := p.String("email", true)
		password := p.String("password", true)

		if err := p.Err(); err != nil {
			flash.Set(c, flash.LevelDanger, err.Error())
			return c.Redirect("/register", fiber.StatusSeeOther)
		}

		user, err := Register(database.DB, username, email, password)
		if err != nil {
			switch {
			case errors.Is(err, ErrDuplicateUsername):
				flash.Set(c, flash.LevelDanger, "username already exists")
			case errors.Is(err, ErrDuplicateEmail):
				flash.Set(c, flash.LevelDanger, "email already exists")
			default:
				slog.Error("registration failed", "username", username, "error", err)
				flash.Set(c, flash.LevelDanger, "registration failed")
			}
			return c.Redirect("/register", fiber.StatusSeeOther)
		}

		if logErr := audit.WriteLog(database.DB, audit.LogOptions{
			UserID:      user.ID,
			UserName:    user.Username,
			EntityType:  "user",
			EntityID:    user.ID,
			Action:      models.AuditActionCreate,
			Description: "user registered: " + user.Username,
		}); logErr != nil {
			slog.Warn("audit log write failed", "error", logErr)
		}

		flash.Set(c, flash.LevelSuccess, "registration successful, please log in")
		return c.Redirect("/login", fiber.StatusSeeOther)
	}
}

// ForgotPasswordHandler is a placeholder; the reset flow is not implemented.
func ForgotPasswordHandler() fiber.Handler {
	return pageHandler("forgot-password")
}

func LogoutHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ClearSessionCookie(c)
		return c.Redirect("/", fiber.StatusSeeOther)
	}
}

func pageHandler(page string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		resp := fiber.Map{"page": page}
		if msg, ok := flash.Pop(c); ok {
			resp["flash"] = msg
		}
		return c.JSON(resp)
	}
}

func loginPath(next string) string {
	if next == "" {
		return "/login"
	}
	return "/login?next=" + url.QueryEscape(next)
}
