package adminRoutes

import (
	"academy/config"
	dashboardController "academy/controllers/dashboard"
	settingsController "academy/controllers/settings"
	"academy/database"
	"academy/middleware"
	settingsValidator "academy/validators/settings"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminRoutes sets up the settings and dashboard routes.
func SetupAdminRoutes(app *fiber.App, db *database.Database, cfg *config.Config) {
	settingsCtl := settingsController.New(db)
	dashboardCtl := dashboardController.New(db)

	protected := middleware.Protected(cfg.JWTKey)

	settingsGroup := app.Group("/api/admin/settings")
	settingsGroup.Get("/", protected, settingsCtl.Get)
	settingsGroup.Put("/", protected, settingsValidator.Update(), settingsCtl.Update)

	dashGroup := app.Group("/api/admin/dashboard")
	dashGroup.Get("/", protected, dashboardCtl.Stats)
}
