package sessionValidator

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"academy/middleware"
	"academy/models"

	"github.com/gofiber/fiber/v2"
)

// Helper to validate "HH:MM" times
func isValidTime(value string) bool {
	re := regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
	return re.MatchString(value)
}

// CreateRequest is a validated session creation payload.
type CreateRequest struct {
	TrainingType            string `json:"training_type"`
	SessionDate             string `json:"session_date"` // YYYY-MM-DD
	StartTime               string `json:"start_time"`
	EndTime                 string `json:"end_time"`
	Location                string `json:"location"`
	Description             string `json:"description"`
	MaxParticipants         int    `json:"max_participants"`
	Status                  string `json:"status"`
	AllowPublicRegistration *bool  `json:"allow_public_registration"`

	// ParsedDate is filled in by the validator.
	ParsedDate time.Time `json:"-"`
}

// UpdateRequest carries optional session field updates.
type UpdateRequest struct {
	TrainingType            *string `json:"training_type"`
	SessionDate             *string `json:"session_date"`
	StartTime               *string `json:"start_time"`
	EndTime                 *string `json:"end_time"`
	Location                *string `json:"location"`
	Description             *string `json:"description"`
	MaxParticipants         *int    `json:"max_participants"`
	Status                  *string `json:"status"`
	AllowPublicRegistration *bool   `json:"allow_public_registration"`

	ParsedDate *time.Time `json:"-"`
}

// AvailableRequest carries the optional availability filter.
type AvailableRequest struct {
	TrainingType string `query:"training_type"`
}

// Create validator middleware
func Create() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body!")
		}

		errors := make(map[string]string)

		if strings.TrimSpace(reqData.TrainingType) == "" {
			errors["training_type"] = "Training type is required!"
		}
		if reqData.SessionDate == "" {
			errors["session_date"] = "Session date is required!"
		} else if parsed, err := time.Parse("2006-01-02", reqData.SessionDate); err != nil {
			errors["session_date"] = "Session date must be formatted as YYYY-MM-DD!"
		} else {
			reqData.ParsedDate = parsed
		}
		if reqData.MaxParticipants < 1 {
			errors["max_participants"] = "Max participants must be greater than 0!"
		}
		if reqData.StartTime != "" && !isValidTime(reqData.StartTime) {
			errors["start_time"] = "Start time must be formatted as HH:MM!"
		}
		if reqData.EndTime != "" && !isValidTime(reqData.EndTime) {
			errors["end_time"] = "End time must be formatted as HH:MM!"
		}
		if reqData.Status != "" && !models.ValidSessionStatus(reqData.Status) {
			errors["status"] = "Status must be one of: open, full, cancelled, completed!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedSession", reqData)
		return c.Next()
	}
}

// Update validator middleware
func Update() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body!")
		}

		errors := make(map[string]string)

		if reqData.TrainingType != nil && strings.TrimSpace(*reqData.TrainingType) == "" {
			errors["training_type"] = "Training type cannot be empty!"
		}
		if reqData.SessionDate != nil {
			if parsed, err := time.Parse("2006-01-02", *reqData.SessionDate); err != nil {
				errors["session_date"] = "Session date must be formatted as YYYY-MM-DD!"
			} else {
				reqData.ParsedDate = &parsed
			}
		}
		if reqData.MaxParticipants != nil && *reqData.MaxParticipants < 1 {
			errors["max_participants"] = "Max participants must be greater than 0!"
		}
		if reqData.StartTime != nil && *reqData.StartTime != "" && !isValidTime(*reqData.StartTime) {
			errors["start_time"] = "Start time must be formatted as HH:MM!"
		}
		if reqData.EndTime != nil && *reqData.EndTime != "" && !isValidTime(*reqData.EndTime) {
			errors["end_time"] = "End time must be formatted as HH:MM!"
		}
		if reqData.Status != nil && !models.ValidSessionStatus(*reqData.Status) {
			errors["status"] = "Status must be one of: open, full, cancelled, completed!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedSessionUpdate", reqData)
		return c.Next()
	}
}

// Available validator middleware
func Available() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(AvailableRequest)
		if err := c.QueryParser(reqData); err != nil {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid query parameters!")
		}

		c.Locals("validatedAvailable", reqData)
		return c.Next()
	}
}

// IDParam validates the :id path parameter.
func IDParam() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.Atoi(c.Params("id"))
		if err != nil || id < 1 {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid session id!")
		}

		c.Locals("sessionID", uint(id))
		return c.Next()
	}
}
