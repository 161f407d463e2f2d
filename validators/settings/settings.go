package settingsValidator

import (
	"strings"

	"academy/middleware"

	"github.com/gofiber/fiber/v2"
)

// SettingEntry is one key/value pair in an update payload.
type SettingEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// UpdateRequest is a validated settings upsert payload.
type UpdateRequest struct {
	Settings []SettingEntry `json:"settings"`
}

// Update validator middleware
func Update() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body!")
		}

		if len(reqData.Settings) == 0 {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"settings": "At least one setting is required!",
			})
		}

		errors := make(map[string]string)
		for _, entry := range reqData.Settings {
			if strings.TrimSpace(entry.Key) == "" {
				errors["key"] = "Setting keys cannot be empty!"
			}
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedSettings", reqData)
		return c.Next()
	}
}
