package authController

import (
	"log"
	"time"

	"academy/config"
	"academy/middleware"
	authValidator "academy/validators/auth"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

// Controller is the admin authentication gate. There is a single fixed
// admin identity configured at startup, no user table.
type Controller struct {
	Cfg *config.Config
}

func New(cfg *config.Config) *Controller {
	return &Controller{Cfg: cfg}
}

// Login validates the fixed admin credentials and issues a bearer token.
// Wrong username and wrong password produce the same response.
func (ctl *Controller) Login(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedLogin").(*authValidator.LoginRequest)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request data!")
	}

	if reqData.Username != ctl.Cfg.AdminUsername {
		return middleware.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid username or password!")
	}
	if err := bcrypt.CompareHashAndPassword(ctl.Cfg.AdminPasswordHash, []byte(reqData.Password)); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid username or password!")
	}

	token, err := middleware.GenerateJWT(reqData.Username, ctl.Cfg.JWTKey)
	if err != nil {
		log.Printf("Error generating token: %v", err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to process your request!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Login successful!", fiber.Map{
		"token":      token,
		"expires_in": int64(middleware.TokenValidity / time.Second),
	})
}

// Verify reports the identity behind a valid token. The Protected
// middleware has already rejected anything invalid.
func (ctl *Controller) Verify(c *fiber.Ctx) error {
	username, _ := c.Locals("username").(string)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Token is valid!", fiber.Map{
		"username": username,
		"role":     "admin",
	})
}
