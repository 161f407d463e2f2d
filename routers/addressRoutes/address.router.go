package addressRoutes

import (
	"academy/config"
	addressController "academy/controllers/address"

	"github.com/gofiber/fiber/v2"
)

// SetupAddressRoutes sets up the public postcode lookup proxy.
func SetupAddressRoutes(app *fiber.App, cfg *config.Config) {
	ctl := addressController.New(cfg)

	app.Get("/api/address/lookup", ctl.Lookup)
}
