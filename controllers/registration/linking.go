package registrationController

import (
	"errors"
	"log"

	"academy/middleware"
	"academy/models"
	registrationValidator "academy/validators/registration"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Link binds every named registration to one target session. Idempotent
// per registration; capacity is deliberately not checked here — an
// administrator may overbook a session.
func (ctl *Controller) Link(c *fiber.Ctx) error {
	return ctl.linkToSession(c, "Registrations linked to session successfully!")
}

// Move is the same server-side operation as Link; it exists as a separate
// endpoint so callers can express intent.
func (ctl *Controller) Move(c *fiber.Ctx) error {
	return ctl.linkToSession(c, "Registrations moved to session successfully!")
}

func (ctl *Controller) linkToSession(c *fiber.Ctx, successMsg string) error {
	reqData, ok := c.Locals("validatedLink").(*registrationValidator.LinkRequest)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request data!")
	}

	db := ctl.DB.Db

	var session models.TrainingSession
	if err := db.First(&session, reqData.SessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.ErrorResponse(c, fiber.StatusNotFound, "Session not found!")
		}
		log.Printf("Error loading session %d: %v", reqData.SessionID, err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to link registrations!")
	}

	var count int64
	if err := db.Model(&models.Registration{}).Where("id IN ?", reqData.RegistrationIDs).Count(&count).Error; err != nil {
		log.Printf("Error checking registrations: %v", err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to link registrations!")
	}
	if count != int64(len(reqData.RegistrationIDs)) {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, "One or more registrations not found!")
	}

	result := db.Model(&models.Registration{}).
		Where("id IN ?", reqData.RegistrationIDs).
		Updates(map[string]interface{}{"session_id": session.ID})
	if result.Error != nil {
		log.Printf("Error linking registrations to session %d: %v", session.ID, result.Error)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to link registrations!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, successMsg, fiber.Map{
		"session_id": session.ID,
		"updated":    result.RowsAffected,
	})
}

// Fanout clones every source registration into every target session, then
// deletes the sources. The whole clone-then-delete sequence runs inside a
// single transaction: if anything fails, nothing is kept.
func (ctl *Controller) Fanout(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedFanout").(*registrationValidator.FanoutRequest)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request data!")
	}

	tx := ctl.DB.Db.Begin()
	if tx.Error != nil {
		log.Printf("Error starting transaction: %v", tx.Error)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to duplicate registrations!")
	}

	var targets []models.TrainingSession
	if err := tx.Where("id IN ?", reqData.SessionIDs).Find(&targets).Error; err != nil {
		tx.Rollback()
		log.Printf("Error loading target sessions: %v", err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to duplicate registrations!")
	}
	if len(targets) != len(reqData.SessionIDs) {
		tx.Rollback()
		return middleware.ErrorResponse(c, fiber.StatusNotFound, "One or more target sessions not found!")
	}

	var sources []models.Registration
	if err := tx.Where("id IN ?", reqData.RegistrationIDs).Find(&sources).Error; err != nil {
		tx.Rollback()
		log.Printf("Error loading source registrations: %v", err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to duplicate registrations!")
	}
	if len(sources) != len(reqData.RegistrationIDs) {
		tx.Rollback()
		return middleware.ErrorResponse(c, fiber.StatusNotFound, "One or more registrations not found!")
	}

	newIDs := make([]uint, 0, len(sources)*len(targets))
	for _, target := range targets {
		for _, source := range sources {
			clone := source.Clone(target.ID)
			if err := tx.Create(&clone).Error; err != nil {
				tx.Rollback()
				log.Printf("Error cloning registration %d into session %d: %v", source.ID, target.ID, err)
				return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to duplicate registrations!")
			}
			newIDs = append(newIDs, clone.ID)
		}
	}

	if err := tx.Delete(&models.Registration{}, reqData.RegistrationIDs).Error; err != nil {
		tx.Rollback()
		log.Printf("Error deleting source registrations: %v", err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to duplicate registrations!")
	}

	if err := tx.Commit().Error; err != nil {
		log.Printf("Error committing fan-out duplicate: %v", err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to duplicate registrations!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Registrations duplicated across sessions successfully!", fiber.Map{
		"created": len(newIDs),
		"new_ids": newIDs,
		"deleted": len(sources),
	})
}

// ParticipantAction moves or duplicates participants into the session in
// the path. Unlike Fanout, duplicating here keeps the originals untouched.
func (ctl *Controller) ParticipantAction(c *fiber.Ctx) error {
	sessionID := c.Locals("sessionID").(uint)

	reqData, ok := c.Locals("validatedParticipantAction").(*registrationValidator.ParticipantActionRequest)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request data!")
	}

	db := ctl.DB.Db

	var session models.TrainingSession
	if err := db.First(&session, sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.ErrorResponse(c, fiber.StatusNotFound, "Session not found!")
		}
		log.Printf("Error loading session %d: %v", sessionID, err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update participants!")
	}

	if reqData.Action == "move" {
		var count int64
		if err := db.Model(&models.Registration{}).Where("id IN ?", reqData.ParticipantIDs).Count(&count).Error; err != nil {
			log.Printf("Error checking participants: %v", err)
			return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update participants!")
		}
		if count != int64(len(reqData.ParticipantIDs)) {
			return middleware.ErrorResponse(c, fiber.StatusNotFound, "One or more participants not found!")
		}

		result := db.Model(&models.Registration{}).
			Where("id IN ?", reqData.ParticipantIDs).
			Updates(map[string]interface{}{"session_id": session.ID})
		if result.Error != nil {
			log.Printf("Error moving participants to session %d: %v", session.ID, result.Error)
			return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update participants!")
		}

		return middleware.JsonResponse(c, fiber.StatusOK, true, "Participants moved successfully!", fiber.Map{
			"session_id": session.ID,
			"moved":      result.RowsAffected,
		})
	}

	// duplicate: clone into the target, originals stay as they are
	tx := db.Begin()
	if tx.Error != nil {
		log.Printf("Error starting transaction: %v", tx.Error)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to duplicate participants!")
	}

	var sources []models.Registration
	if err := tx.Where("id IN ?", reqData.ParticipantIDs).Find(&sources).Error; err != nil {
		tx.Rollback()
		log.Printf("Error loading participants: %v", err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to duplicate participants!")
	}
	if len(sources) != len(reqData.ParticipantIDs) {
		tx.Rollback()
		return middleware.ErrorResponse(c, fiber.StatusNotFound, "One or more participants not found!")
	}

	newIDs := make([]uint, 0, len(sources))
	for _, source := range sources {
		clone := source.Clone(session.ID)
		if err := tx.Create(&clone).Error; err != nil {
			tx.Rollback()
			log.Printf("Error cloning participant %d into session %d: %v", source.ID, session.ID, err)
			return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to duplicate participants!")
		}
		newIDs = append(newIDs, clone.ID)
	}

	if err := tx.Commit().Error; err != nil {
		log.Printf("Error committing participant duplicate: %v", err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to duplicate participants!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Participants duplicated successfully!", fiber.Map{
		"session_id": session.ID,
		"created":    len(newIDs),
		"new_ids":    newIDs,
	})
}
