package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"fieldexpense-backend/internal/config"
	"fieldexpense-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

func testConfig() *config.Config {
	return &config.Config{
		SessionSecret: "0123456789abcdef0123456789abcdef",
	}
}

func newGuardedApp(cfg *config.Config) *fiber.App {
	app := fiber.New()
	session := app.Group("", RequireSession(cfg))
	session.Get("/dashboard", func(c *fiber.Ctx) error {
		id, _ := PrincipalID(c)
		return c.JSON(fiber.Map{"user_id": id})
	})
	adminRoutes := session.Group("/admin", RequireAdmin())
	adminRoutes.Get("", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func sessionCookieFor(t *testing.T, cfg *config.Config, user *models.User) *http.Cookie {
	t.Helper()
	token, err := GenerateToken(cfg.SessionSecret, user)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}
	return &http.Cookie{Name: SessionCookie, Value: token}
}

func TestRequireSessionRedirectsToLogin(t *testing.T) {
	app := newGuardedApp(testConfig())

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", resp.StatusCode)
	}
	if got := resp.Header.Get("Location"); got != "/login?next=%2Fdashboard" {
		t.Errorf("Location = %q, want original path preserved", got)
	}
}

func TestRequireSessionAcceptsValidToken(t *testing.T) {
	cfg := testConfig()
	app := newGuardedApp(cfg)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(sessionCookieFor(t, cfg, &models.User{ID: 7, Username: "bob"}))

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
}

func TestRequireSessionRejectsTamperedToken(t *testing.T) {
	cfg := testConfig()
	app := newGuardedApp(cfg)

	other := &config.Config{SessionSecret: "ffffffffffffffffffffffffffffffff"}
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(sessionCookieFor(t, other, &models.User{ID: 7, Username: "bob"}))

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("status = %d, want redirect to login", resp.StatusCode)
	}
}

func TestRequireAdmin(t *testing.T) {
	cfg := testConfig()
	app := newGuardedApp(cfg)

	t.Run("non-admin redirected to dashboard", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.AddCookie(sessionCookieFor(t, cfg, &models.User{ID: 7, Username: "bob"}))

		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusSeeOther {
			t.Fatalf("status = %d, want 303", resp.StatusCode)
		}
		if got := resp.Header.Get("Location"); got != "/dashboard" {
			t.Errorf("Location = %q, want /dashboard", got)
		}
	})

	t.Run("admin allowed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.AddCookie(sessionCookieFor(t, cfg, &models.User{ID: 1, Username: "admin", IsAdmin: true}))

		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want 200", resp.StatusCode)
		}
	})
}

func TestSafeNext(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", "/dashboard"},
		{"/data_collection", "/data_collection"},
		{"https://evil.example", "/dashboard"},
		{"//evil.example", "/dashboard"},
	}
	for _, tc := range cases {
		if got := SafeNext(tc.in); got != tc.want {
			t.Errorf("SafeNext(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
