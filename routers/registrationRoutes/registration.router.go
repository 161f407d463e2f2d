package registrationRoutes

import (
	"academy/config"
	registrationController "academy/controllers/registration"
	"academy/database"
	"academy/middleware"
	registrationValidator "academy/validators/registration"

	"github.com/gofiber/fiber/v2"
)

// SetupRegistrationRoutes sets up the public intake endpoint and the admin
// registration management routes.
func SetupRegistrationRoutes(app *fiber.App, db *database.Database, cfg *config.Config) {
	ctl := registrationController.New(db, cfg)

	// Public registration form submission
	app.Post("/api/registrations", registrationValidator.Create(), ctl.Create)

	protected := middleware.Protected(cfg.JWTKey)
	adminGroup := app.Group("/api/admin/registrations")

	// Linking service (registered before /:id so the paths do not clash)
	adminGroup.Post("/link", protected, registrationValidator.Link(), ctl.Link)
	adminGroup.Post("/move", protected, registrationValidator.Link(), ctl.Move)
	adminGroup.Post("/fanout", protected, registrationValidator.Fanout(), ctl.Fanout)

	// Registration CRUD
	adminGroup.Get("/", protected, registrationValidator.List(), ctl.List)
	adminGroup.Post("/", protected, registrationValidator.Create(), ctl.AdminCreate)
	adminGroup.Get("/:id", protected, registrationValidator.IDParam(), ctl.Get)
	adminGroup.Put("/:id", protected, registrationValidator.IDParam(), registrationValidator.Update(), ctl.Update)
	adminGroup.Patch("/:id/status", protected, registrationValidator.IDParam(), registrationValidator.UpdateStatus(), ctl.UpdateStatus)
	adminGroup.Delete("/:id", protected, registrationValidator.IDParam(), ctl.Delete)
}
