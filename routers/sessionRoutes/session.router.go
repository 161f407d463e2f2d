package sessionRoutes

import (
	"academy/config"
	registrationController "academy/controllers/registration"
	sessionController "academy/controllers/session"
	"academy/database"
	"academy/middleware"
	registrationValidator "academy/validators/registration"
	sessionValidator "academy/validators/session"

	"github.com/gofiber/fiber/v2"
)

// SetupSessionRoutes sets up the public availability query and the admin
// session management routes.
func SetupSessionRoutes(app *fiber.App, db *database.Database, cfg *config.Config) {
	ctl := sessionController.New(db, cfg)
	regCtl := registrationController.New(db, cfg)

	// Public availability listing (polled by the registration form)
	app.Get("/api/sessions/available", sessionValidator.Available(), ctl.Available)

	protected := middleware.Protected(cfg.JWTKey)
	adminGroup := app.Group("/api/admin/sessions")

	// Session CRUD
	adminGroup.Get("/", protected, ctl.List)
	adminGroup.Post("/", protected, sessionValidator.Create(), ctl.Create)
	adminGroup.Get("/:id", protected, sessionValidator.IDParam(), ctl.Get)
	adminGroup.Put("/:id", protected, sessionValidator.IDParam(), sessionValidator.Update(), ctl.Update)
	adminGroup.Delete("/:id", protected, sessionValidator.IDParam(), ctl.Delete)

	// Participants
	adminGroup.Get("/:id/participants", protected, sessionValidator.IDParam(), ctl.Participants)
	adminGroup.Post("/:id/participants", protected, registrationValidator.ParticipantAction(), regCtl.ParticipantAction)
}
