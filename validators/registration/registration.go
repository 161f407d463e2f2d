package registrationValidator

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"academy/middleware"
	"academy/models"

	"github.com/gofiber/fiber/v2"
)

// Helper to validate email format
func isValidEmail(email string) bool {
	re := regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	return re.MatchString(email)
}

// dedupeIDs drops duplicate ids while keeping the original order.
func dedupeIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// CreateRequest is a validated registration submission (public form or
// admin manual entry).
type CreateRequest struct {
	FirstName   string   `json:"first_name"`
	Infix       string   `json:"infix"`
	LastName    string   `json:"last_name"`
	BirthDate   string   `json:"birth_date"`
	BirthPlace  string   `json:"birth_place"`
	Email       string   `json:"email"`
	Phone       string   `json:"phone"`
	Street      string   `json:"street"`
	HouseNumber string   `json:"house_number"`
	Postcode    string   `json:"postcode"`
	City        string   `json:"city"`
	CompanyName *string  `json:"company_name"`
	CompanyRole *string  `json:"company_role"`
	Trainings   []string `json:"trainings"`
	SessionID   *uint    `json:"session_id"`
	Notes       string   `json:"notes"`
}

// UpdateRequest carries optional registration field updates. Status changes
// go through their own endpoint.
type UpdateRequest struct {
	FirstName   *string  `json:"first_name"`
	Infix       *string  `json:"infix"`
	LastName    *string  `json:"last_name"`
	BirthDate   *string  `json:"birth_date"`
	BirthPlace  *string  `json:"birth_place"`
	Email       *string  `json:"email"`
	Phone       *string  `json:"phone"`
	Street      *string  `json:"street"`
	HouseNumber *string  `json:"house_number"`
	Postcode    *string  `json:"postcode"`
	City        *string  `json:"city"`
	CompanyName *string  `json:"company_name"`
	CompanyRole *string  `json:"company_role"`
	Trainings   []string `json:"trainings"`
	Notes       *string  `json:"notes"`
}

// UpdateStatusRequest is a validated status change.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// LinkRequest binds a set of registrations to exactly one session. Used by
// both the link and move endpoints, which share semantics.
type LinkRequest struct {
	RegistrationIDs []uint `json:"registration_ids"`
	SessionID       uint   `json:"session_id"`
}

// FanoutRequest clones registrations across multiple target sessions and
// removes the originals.
type FanoutRequest struct {
	RegistrationIDs []uint `json:"registration_ids"`
	SessionIDs      []uint `json:"session_ids"`
	Duplicate       bool   `json:"duplicate"`
}

// ParticipantActionRequest moves or duplicates participants into the
// session named in the path.
type ParticipantActionRequest struct {
	ParticipantIDs []uint `json:"participant_ids"`
	Action         string `json:"action"` // "move" or "duplicate"
}

// ListRequest carries admin list filters and pagination.
type ListRequest struct {
	Page         *int   `query:"page"`
	Limit        *int   `query:"limit"`
	Status       string `query:"status"`
	SessionID    *uint  `query:"session_id"`
	TrainingType string `query:"training_type"`
	Unassigned   bool   `query:"unassigned"`
}

// Create validator middleware
func Create() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body!")
		}

		errors := make(map[string]string)

		if strings.TrimSpace(reqData.FirstName) == "" {
			errors["first_name"] = "First name is required!"
		}
		if strings.TrimSpace(reqData.LastName) == "" {
			errors["last_name"] = "Last name is required!"
		}
		if reqData.Email == "" || !isValidEmail(reqData.Email) {
			errors["email"] = "Invalid email!"
		}
		if len(reqData.Trainings) == 0 {
			errors["trainings"] = "At least one training is required!"
		}
		if reqData.BirthDate != "" {
			if _, err := time.Parse("2006-01-02", reqData.BirthDate); err != nil {
				errors["birth_date"] = "Birth date must be formatted as YYYY-MM-DD!"
			}
		}
		if reqData.SessionID != nil && *reqData.SessionID == 0 {
			errors["session_id"] = "Invalid session id!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedRegistration", reqData)
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

		if reqData.Email != nil && !isValidEmail(*reqData.Email) {
			errors["email"] = "Invalid email!"
		}
		if reqData.FirstName != nil && strings.TrimSpace(*reqData.FirstName) == "" {
			errors["first_name"] = "First name cannot be empty!"
		}
		if reqData.LastName != nil && strings.TrimSpace(*reqData.LastName) == "" {
			errors["last_name"] = "Last name cannot be empty!"
		}
		if reqData.BirthDate != nil && *reqData.BirthDate != "" {
			if _, err := time.Parse("2006-01-02", *reqData.BirthDate); err != nil {
				errors["birth_date"] = "Birth date must be formatted as YYYY-MM-DD!"
			}
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedRegistrationUpdate", reqData)
		return c.Next()
	}
}

// UpdateStatus validator middleware
func UpdateStatus() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateStatusRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body!")
		}

		if !models.ValidRegistrationStatus(reqData.Status) {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"status": "Status must be one of: new, in_review, approved, rejected, completed!",
			})
		}

		c.Locals("validatedStatus", reqData)
		return c.Next()
	}
}

// Link validator middleware, shared by the link and move endpoints.
func Link() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(LinkRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body!")
		}

		errors := make(map[string]string)

		reqData.RegistrationIDs = dedupeIDs(reqData.RegistrationIDs)
		if len(reqData.RegistrationIDs) == 0 {
			errors["registration_ids"] = "At least one registration id is required!"
		}
		if reqData.SessionID == 0 {
			errors["session_id"] = "Session id is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedLink", reqData)
		return c.Next()
	}
}

// Fanout validator middleware
func Fanout() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(FanoutRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body!")
		}

		errors := make(map[string]string)

		reqData.RegistrationIDs = dedupeIDs(reqData.RegistrationIDs)
		reqData.SessionIDs = dedupeIDs(reqData.SessionIDs)

		if len(reqData.RegistrationIDs) == 0 {
			errors["registration_ids"] = "At least one registration id is required!"
		}
		if len(reqData.SessionIDs) == 0 {
			errors["session_ids"] = "At least two target session ids are required!"
		} else if len(reqData.SessionIDs) == 1 {
			errors["session_ids"] = "Use the link endpoint for a single target session!"
		}
		if !reqData.Duplicate {
			errors["duplicate"] = "The duplicate flag must be set to confirm fan-out duplication!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedFanout", reqData)
		return c.Next()
	}
}

// ParticipantAction validator middleware. Also validates the session id in
// the path.
func ParticipantAction() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sessionID, err := strconv.Atoi(c.Params("id"))
		if err != nil || sessionID < 1 {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid session id!")
		}

		reqData := new(ParticipantActionRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body!")
		}

		errors := make(map[string]string)

		reqData.ParticipantIDs = dedupeIDs(reqData.ParticipantIDs)
		if len(reqData.ParticipantIDs) == 0 {
			errors["participant_ids"] = "At least one participant id is required!"
		}
		if reqData.Action != "move" && reqData.Action != "duplicate" {
			errors["action"] = "Action must be either move or duplicate!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("sessionID", uint(sessionID))
		c.Locals("validatedParticipantAction", reqData)
		return c.Next()
	}
}

// List validator middleware
func List() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(ListRequest)
		if err := c.QueryParser(reqData); err != nil {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid query parameters!")
		}

		errors := make(map[string]string)

		if reqData.Page != nil && *reqData.Page < 1 {
			errors["page"] = "Page must be greater than 0!"
		}
		if reqData.Limit != nil && *reqData.Limit < 1 {
			errors["limit"] = "Limit must be greater than 0!"
		}
		if reqData.Status != "" && !models.ValidRegistrationStatus(reqData.Status) {
			errors["status"] = "Unknown status filter!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedRegistrationList", reqData)
		return c.Next()
	}
}

// IDParam validates the :id path parameter.
func IDParam() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.Atoi(c.Params("id"))
		if err != nil || id < 1 {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid registration id!")
		}

		c.Locals("registrationID", uint(id))
		return c.Next()
	}
}
