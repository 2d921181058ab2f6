package admin

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"fieldexpense-backend/internal/auth"
	"fieldexpense-backend/internal/database"
	"fieldexpense-backend/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func newAdminApp(t *testing.T) *fiber.App {
	t.Helper()

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(auth.CtxUserIDKey, uint(1))
		c.Locals(auth.CtxUsernameKey, "admin")
		c.Locals(auth.CtxIsAdminKey, true)
		return c.Next()
	})
	app.Get("/admin", OverviewHandler())
	app.Post("/admin/sites", CreateSiteHandler())
	app.Post("/admin/teams", CreateTeamHandler())
	return app
}

func postForm(t *testing.T, app *fiber.App, path string, values url.Values) *http.Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}

func TestOverviewListsEverything(t *testing.T) {
	db := newTestDB(t)
	database.Use(db)

	user := models.User{Username: "admin", Email: "admin@example.com", PasswordHash: "x", IsAdmin: true}
	team := models.Team{Name: "Road Crew"}
	site := models.Site{Name: "Site 1"}
	member := models.Member{Name: "Alice"}
	for _, m := range []any{&user, &team, &site, &member} {
		if err := db.Create(m).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	older := models.ExpenseRecord{Date: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), MemberName: "Alice", RecordType: models.RecordTypeIndividual, SiteID: site.ID, PersonCount: 1, UserID: user.ID, MemberID: member.ID}
	newer := models.ExpenseRecord{Date: time.Date(2026, 8, 2, 0, 0, 0, 0, time.UTC), MemberName: "Alice", RecordType: models.RecordTypeIndividual, SiteID: site.ID, PersonCount: 1, UserID: user.ID, MemberID: member.ID}
	for _, r := range []*models.ExpenseRecord{&older, &newer} {
		if err := db.Create(r).Error; err != nil {
			t.Fatalf("seed record: %v", err)
		}
	}

	app := newAdminApp(t)
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/admin", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	var payload struct {
		Users   []UserResponse   `json:"users"`
		Teams   []TeamResponse   `json:"teams"`
		Sites   []SiteResponse   `json:"sites"`
		Records []RecordResponse `json:"records"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("parse response: %v", err)
	}

	if len(payload.Users) != 1 || len(payload.Teams) != 1 || len(payload.Sites) != 1 {
		t.Errorf("collections = %d users, %d teams, %d sites; want 1 each", len(payload.Users), len(payload.Teams), len(payload.Sites))
	}
	if len(payload.Records) != 2 {
		t.Fatalf("records = %d, want 2", len(payload.Records))
	}
	if payload.Records[0].Date != "2026-08-02" {
		t.Errorf("records not ordered newest first: %v", payload.Records[0].Date)
	}
}

func TestCreateSite(t *testing.T) {
	database.Use(newTestDB(t))
	app := newAdminApp(t)

	resp := postForm(t, app, "/admin/sites", url.Values{"name": {"Site 9"}, "location": {"north"}})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}

	t.Run("duplicate name rejected", func(t *testing.T) {
		dup := postForm(t, app, "/admin/sites", url.Values{"name": {"Site 9"}})
		defer dup.Body.Close()
		if dup.StatusCode != http.StatusConflict {
			t.Errorf("status = %d, want 409", dup.StatusCode)
		}
	})
}

func TestCreateTeam(t *testing.T) {
	database.Use(newTestDB(t))
	app := newAdminApp(t)

	resp := postForm(t, app, "/admin/teams", url.Values{"name": {"Road Crew"}, "description": {"field team"}})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}

	t.Run("name required", func(t *testing.T) {
		bad := postForm(t, app, "/admin/teams", url.Values{"description": {"no name"}})
		defer bad.Body.Close()
		if bad.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", bad.StatusCode)
		}
	})
}
