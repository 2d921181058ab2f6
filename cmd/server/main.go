package main

import (
	"log/slog"
	"os"
	"strings"

	"fieldexpense-backend/internal/admin"
	"fieldexpense-backend/internal/auth"
	"fieldexpense-backend/internal/config"
	"fieldexpense-backend/internal/dashboard"
	"fieldexpense-backend/internal/database"
	"fieldexpense-backend/internal/expense"
	"fieldexpense-backend/internal/export"
	"fieldexpense-backend/pkg/logging"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	logging.Setup()

	cfg := config.Load()
	database.Init(cfg)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			slog.Error("unexpected error", "path", c.Path(), "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "unexpected server error",
			})
		},
	})

	app.Use(logger.New())

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(corsOrigins, ","),
		AllowHeaders:     "Origin, Content-Type, Accept",
		AllowMethods:     "GET,POST,OPTIONS",
		AllowCredentials: true,
	}))

	// Public
	app.Get("/", auth.HomeHandler(cfg))
	app.Get("/login", auth.LoginPageHandler())
	app.Post("/login", auth.LoginHandler(cfg))
	app.Get("/register", auth.RegisterPageHandler())
	app.Post("/register", auth.RegisterHandler())
	app.Get("/forgot-password", auth.ForgotPasswordHandler())
	app.Post("/forgot-password", auth.ForgotPasswordHandler())

	// Session required
	session := app.Group("", auth.RequireSession(cfg))
	session.Get("/logout", auth.LogoutHandler())
	session.Get("/dashboard", dashboard.Handler())
	session.Get("/data_collection", expense.DataCollectionPageHandler())
	session.Post("/data_collection", expense.SubmitExpenseHandler())
	session.Get("/export/csv", export.CSVHandler())
	session.Get("/export/xlsx", export.XLSXHandler())

	// Admin only
	adminRoutes := session.Group("/admin", auth.RequireAdmin())
	adminRoutes.Get("", admin.OverviewHandler())
	adminRoutes.Post("/sites", admin.CreateSiteHandler())
	adminRoutes.Post("/teams", admin.CreateTeamHandler())

	slog.Info("server listening", "port", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
