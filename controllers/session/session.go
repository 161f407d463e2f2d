package sessionController

import (
	"errors"
	"log"

	"academy/config"
	"academy/database"
	"academy/middleware"
	"academy/models"
	sessionValidator "academy/validators/session"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/now"
	"gorm.io/gorm"
)

// countSelect joins each session with its derived headcount. The counts
// are computed on every read, never stored.
const countSelect = "training_sessions.*, " +
	"COUNT(registrations.id) AS registered_count, " +
	"training_sessions.max_participants - COUNT(registrations.id) AS available_spots"

// Controller handles session scheduling and the availability query.
type Controller struct {
	DB  *database.Database
	Cfg *config.Config
}

func New(db *database.Database, cfg *config.Config) *Controller {
	return &Controller{DB: db, Cfg: cfg}
}

func (ctl *Controller) withCounts() *gorm.DB {
	return ctl.DB.Db.Model(&models.TrainingSession{}).
		Select(countSelect).
		Joins("LEFT JOIN registrations ON registrations.session_id = training_sessions.id").
		Group("training_sessions.id")
}

// Available lists sessions that can accept a new public registration:
// open, today or later, public registration allowed, and strictly under
// capacity. Read-only; safe for UI polling.
func (ctl *Controller) Available(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedAvailable").(*sessionValidator.AvailableRequest)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request data!")
	}

	db := ctl.withCounts().
		Where("training_sessions.status = ?", models.SessionStatusOpen).
		Where("training_sessions.allow_public_registration = ?", true).
		Where("training_sessions.session_date >= ?", now.BeginningOfDay()).
		Having("COUNT(registrations.id) < training_sessions.max_participants").
		Order("training_sessions.session_date ASC, training_sessions.start_time ASC")

	if reqData.TrainingType != "" {
		db = db.Where("training_sessions.training_type = ?", reqData.TrainingType)
	}

	var sessions []models.SessionWithCount
	if err := db.Find(&sessions).Error; err != nil {
		log.Printf("Error fetching available sessions: %v", err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch sessions!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Available sessions fetched successfully!", sessions)
}

// Create adds a new session.
func (ctl *Controller) Create(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedSession").(*sessionValidator.CreateRequest)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request data!")
	}

	session := models.TrainingSession{
		TrainingType:            reqData.TrainingType,
		SessionDate:             reqData.ParsedDate,
		StartTime:               reqData.StartTime,
		EndTime:                 reqData.EndTime,
		Location:                reqData.Location,
		Description:             reqData.Description,
		MaxParticipants:         reqData.MaxParticipants,
		Status:                  models.SessionStatusOpen,
		AllowPublicRegistration: true,
	}
	if reqData.Status != "" {
		session.Status = reqData.Status
	}
	if reqData.AllowPublicRegistration != nil {
		session.AllowPublicRegistration = *reqData.AllowPublicRegistration
	}

	if err := ctl.DB.Db.Create(&session).Error; err != nil {
		log.Printf("Error saving session: %v", err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create session!")
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Session created successfully!", models.SessionWithCount{
		TrainingSession: session,
		RegisteredCount: 0,
		AvailableSpots:  int64(session.MaxParticipants),
	})
}

// List returns all sessions with their headcounts for the back-office.
func (ctl *Controller) List(c *fiber.Ctx) error {
	var sessions []models.SessionWithCount
	err := ctl.withCounts().
		Order("training_sessions.session_date ASC, training_sessions.start_time ASC").
		Find(&sessions).Error
	if err != nil {
		log.Printf("Error fetching sessions: %v", err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch sessions!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Sessions fetched successfully!", sessions)
}

// Get returns one session with its headcount.
func (ctl *Controller) Get(c *fiber.Ctx) error {
	id := c.Locals("sessionID").(uint)

	var session models.SessionWithCount
	err := ctl.withCounts().
		Where("training_sessions.id = ?", id).
		First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.ErrorResponse(c, fiber.StatusNotFound, "Session not found!")
		}
		log.Printf("Error loading session %d: %v", id, err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch session!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Session fetched successfully!", session)
}

// Participants lists the registrations linked to a session.
func (ctl *Controller) Participants(c *fiber.Ctx) error {
	id := c.Locals("sessionID").(uint)

	var session models.TrainingSession
	if err := ctl.DB.Db.First(&session, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.ErrorResponse(c, fiber.StatusNotFound, "Session not found!")
		}
		log.Printf("Error loading session %d: %v", id, err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch participants!")
	}

	var participants []models.Registration
	if err := ctl.DB.Db.Where("session_id = ?", id).Order("created_at asc").Find(&participants).Error; err != nil {
		log.Printf("Error fetching participants for session %d: %v", id, err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch participants!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Participants fetched successfully!", fiber.Map{
		"session":      session,
		"participants": participants,
	})
}

// Update applies field updates to a session.
func (ctl *Controller) Update(c *fiber.Ctx) error {
	id := c.Locals("sessionID").(uint)

	reqData, ok := c.Locals("validatedSessionUpdate").(*sessionValidator.UpdateRequest)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request data!")
	}

	var session models.TrainingSession
	if err := ctl.DB.Db.First(&session, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.ErrorResponse(c, fiber.StatusNotFound, "Session not found!")
		}
		log.Printf("Error loading session %d: %v", id, err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update session!")
	}

	if reqData.TrainingType != nil {
		session.TrainingType = *reqData.TrainingType
	}
	if reqData.ParsedDate != nil {
		session.SessionDate = *reqData.ParsedDate
	}
	if reqData.StartTime != nil {
		session.StartTime = *reqData.StartTime
	}
	if reqData.EndTime != nil {
		session.EndTime = *reqData.EndTime
	}
	if reqData.Location != nil {
		session.Location = *reqData.Location
	}
	if reqData.Description != nil {
		session.Description = *reqData.Description
	}
	if reqData.MaxParticipants != nil {
		session.MaxParticipants = *reqData.MaxParticipants
	}
	if reqData.Status != nil {
		session.Status = *reqData.Status
	}
	if reqData.AllowPublicRegistration != nil {
		session.AllowPublicRegistration = *reqData.AllowPublicRegistration
	}

	if err := ctl.DB.Db.Save(&session).Error; err != nil {
		log.Printf("Error updating session %d: %v", id, err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update session!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Session updated successfully!", session)
}

// Delete removes a session. Refused while any registration still
// references it; the registrations stay untouched either way.
func (ctl *Controller) Delete(c *fiber.Ctx) error {
	id := c.Locals("sessionID").(uint)

	var count int64
	if err := ctl.DB.Db.Model(&models.Registration{}).Where("session_id = ?", id).Count(&count).Error; err != nil {
		log.Printf("Error counting registrations for session %d: %v", id, err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete session!")
	}
	if count > 0 {
		return middleware.ErrorResponse(c, fiber.StatusConflict, "Session still has linked registrations!")
	}

	result := ctl.DB.Db.Delete(&models.TrainingSession{}, id)
	if result.Error != nil {
		log.Printf("Error deleting session %d: %v", id, result.Error)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete session!")
	}
	if result.RowsAffected == 0 {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, "Session not found!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Session deleted successfully!", nil)
}
