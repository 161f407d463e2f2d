package addressController

import (
	"log"
	"time"

	"academy/config"
	"academy/middleware"

	"github.com/go-resty/resty/v2"
	"github.com/gofiber/fiber/v2"
)

// Controller proxies postcode lookups to the external address API so the
// vendor key never reaches the browser. The upstream response is passed
// through opaquely.
type Controller struct {
	Cfg    *config.Config
	Client *resty.Client
}

func New(cfg *config.Config) *Controller {
	return &Controller{
		Cfg:    cfg,
		Client: resty.New().SetTimeout(10 * time.Second),
	}
}

// Lookup resolves a postcode + house number pair.
func (ctl *Controller) Lookup(c *fiber.Ctx) error {
	postcode := c.Query("postcode")
	houseNumber := c.Query("house_number")
	if postcode == "" || houseNumber == "" {
		return middleware.ValidationErrorResponse(c, map[string]string{
			"query": "Both postcode and house_number are required!",
		})
	}

	resp, err := ctl.Client.R().
		SetHeader("X-Api-Key", ctl.Cfg.PostcodeApiKey).
		SetQueryParams(map[string]string{
			"postcode": postcode,
			"number":   houseNumber,
		}).
		Get(ctl.Cfg.PostcodeApiURL)
	if err != nil {
		log.Printf("Error calling postcode API: %v", err)
		return middleware.ErrorResponse(c, fiber.StatusBadGateway, "Address lookup failed!")
	}
	if resp.IsError() {
		log.Printf("Postcode API returned %d for %s %s", resp.StatusCode(), postcode, houseNumber)
		return middleware.ErrorResponse(c, fiber.StatusBadGateway, "Address lookup failed!")
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Status(fiber.StatusOK).Send(resp.Body())
}
