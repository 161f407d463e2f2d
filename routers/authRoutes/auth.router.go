package authRoutes

import (
	"academy/config"
	authController "academy/controllers/auth"
	"academy/middleware"
	authValidator "academy/validators/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app *fiber.App, cfg *config.Config) {
	ctl := authController.New(cfg)

	authGroup := app.Group("/api/auth")

	authGroup.Post("/login", authValidator.Login(), ctl.Login)
	authGroup.Get("/verify", middleware.Protected(cfg.JWTKey), ctl.Verify)
}
