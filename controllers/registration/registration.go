package registrationController

import (
	"errors"
	"log"

	"academy/config"
	"academy/database"
	"academy/middleware"
	"academy/models"
	"academy/utils"
	registrationValidator "academy/validators/registration"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Controller handles registration intake and admin management.
type Controller struct {
	DB  *database.Database
	Cfg *config.Config
}

func New(db *database.Database, cfg *config.Config) *Controller {
	return &Controller{DB: db, Cfg: cfg}
}

// Create handles a public registration submission. When a session is
// chosen, the session row is locked and the headcount re-checked inside
// one transaction so two concurrent submissions cannot overshoot the
// capacity between check and insert.
func (ctl *Controller) Create(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedRegistration").(*registrationValidator.CreateRequest)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request data!")
	}

	registration := registrationFromRequest(reqData)

	if reqData.SessionID == nil {
		if err := ctl.DB.Db.Create(&registration).Error; err != nil {
			log.Printf("Error saving registration: %v", err)
			return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create registration!")
		}
	} else {
		tx := ctl.DB.Db.Begin()
		if tx.Error != nil {
			log.Printf("Error starting transaction: %v", tx.Error)
			return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create registration!")
		}

		var session models.TrainingSession
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND status = ? AND allow_public_registration = ?",
				*reqData.SessionID, models.SessionStatusOpen, true).
			First(&session).Error
		if err != nil {
			tx.Rollback()
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return middleware.ErrorResponse(c, fiber.StatusNotFound, "Session not found or not open for registration!")
			}
			log.Printf("Error loading session %d: %v", *reqData.SessionID, err)
			return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create registration!")
		}

		var count int64
		if err := tx.Model(&models.Registration{}).Where("session_id = ?", session.ID).Count(&count).Error; err != nil {
			tx.Rollback()
			log.Printf("Error counting registrations for session %d: %v", session.ID, err)
			return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create registration!")
		}
		if count >= int64(session.MaxParticipants) {
			tx.Rollback()
			return middleware.ErrorResponse(c, fiber.StatusConflict, "Session is full!")
		}

		registration.SessionID = &session.ID
		if err := tx.Create(&registration).Error; err != nil {
			tx.Rollback()
			log.Printf("Error saving registration: %v", err)
			return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create registration!")
		}
		if err := tx.Commit().Error; err != nil {
			log.Printf("Error committing registration: %v", err)
			return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create registration!")
		}
	}

	// Best effort, never fails the request.
	go utils.SendRegistrationNotification(ctl.Cfg, registration)

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Registration received successfully!", registration)
}

// AdminCreate handles manual entry by an administrator, optionally
// pre-bound to a session. Admin entries do not check capacity; the
// administrator may deliberately overbook.
func (ctl *Controller) AdminCreate(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedRegistration").(*registrationValidator.CreateRequest)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request data!")
	}

	registration := registrationFromRequest(reqData)

	if reqData.SessionID != nil {
		var session models.TrainingSession
		if err := ctl.DB.Db.First(&session, *reqData.SessionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return middleware.ErrorResponse(c, fiber.StatusNotFound, "Session not found!")
			}
			log.Printf("Error loading session %d: %v", *reqData.SessionID, err)
			return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create registration!")
		}
		registration.SessionID = &session.ID
	}

	if err := ctl.DB.Db.Create(&registration).Error; err != nil {
		log.Printf("Error saving registration: %v", err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create registration!")
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Registration created successfully!", registration)
}

// List returns registrations for the back-office, filtered and paginated.
func (ctl *Controller) List(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedRegistrationList").(*registrationValidator.ListRequest)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request data!")
	}

	db := ctl.DB.Db.Model(&models.Registration{})

	if reqData.Status != "" {
		db = db.Where("status = ?", reqData.Status)
	}
	if reqData.SessionID != nil {
		db = db.Where("session_id = ?", *reqData.SessionID)
	}
	if reqData.Unassigned {
		db = db.Where("session_id IS NULL")
	}
	if reqData.TrainingType != "" {
		// Trainings is stored as a JSON array of training-type identifiers.
		db = db.Where("trainings LIKE ?", "%\""+reqData.TrainingType+"\"%")
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		log.Printf("Error counting registrations: %v", err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch registrations!")
	}

	page := 1
	limit := int(total)
	if reqData.Page != nil && reqData.Limit != nil {
		page = *reqData.Page
		limit = *reqData.Limit
		db = db.Offset((page - 1) * limit).Limit(limit)
	}

	var registrations []models.Registration
	if err := db.Order("created_at desc").Find(&registrations).Error; err != nil {
		log.Printf("Error fetching registrations: %v", err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch registrations!")
	}

	response := fiber.Map{
		"registrations": registrations,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Registrations fetched successfully!", response)
}

// Get returns one registration by id.
func (ctl *Controller) Get(c *fiber.Ctx) error {
	id := c.Locals("registrationID").(uint)

	var registration models.Registration
	if err := ctl.DB.Db.First(&registration, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.ErrorResponse(c, fiber.StatusNotFound, "Registration not found!")
		}
		log.Printf("Error loading registration %d: %v", id, err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch registration!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Registration fetched successfully!", registration)
}

// Update applies field updates to a registration.
func (ctl *Controller) Update(c *fiber.Ctx) error {
	id := c.Locals("registrationID").(uint)

	reqData, ok := c.Locals("validatedRegistrationUpdate").(*registrationValidator.UpdateRequest)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request data!")
	}

	var registration models.Registration
	if err := ctl.DB.Db.First(&registration, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.ErrorResponse(c, fiber.StatusNotFound, "Registration not found!")
		}
		log.Printf("Error loading registration %d: %v", id, err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update registration!")
	}

	applyUpdate(&registration, reqData)

	if err := ctl.DB.Db.Save(&registration).Error; err != nil {
		log.Printf("Error updating registration %d: %v", id, err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update registration!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Registration updated successfully!", registration)
}

// UpdateStatus changes a registration's status. Statuses never change
// automatically; this endpoint is the only transition path.
func (ctl *Controller) UpdateStatus(c *fiber.Ctx) error {
	id := c.Locals("registrationID").(uint)

	reqData, ok := c.Locals("validatedStatus").(*registrationValidator.UpdateStatusRequest)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request data!")
	}

	var registration models.Registration
	if err := ctl.DB.Db.First(&registration, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.ErrorResponse(c, fiber.StatusNotFound, "Registration not found!")
		}
		log.Printf("Error loading registration %d: %v", id, err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update status!")
	}

	registration.Status = reqData.Status
	if err := ctl.DB.Db.Save(&registration).Error; err != nil {
		log.Printf("Error updating registration %d status: %v", id, err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update status!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Status updated successfully!", registration)
}

// Delete removes a registration. Hard delete, no tombstone.
func (ctl *Controller) Delete(c *fiber.Ctx) error {
	id := c.Locals("registrationID").(uint)

	result := ctl.DB.Db.Delete(&models.Registration{}, id)
	if result.Error != nil {
		log.Printf("Error deleting registration %d: %v", id, result.Error)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete registration!")
	}
	if result.RowsAffected == 0 {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, "Registration not found!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Registration deleted successfully!", nil)
}

func registrationFromRequest(reqData *registrationValidator.CreateRequest) models.Registration {
	return models.Registration{
		FirstName:   reqData.FirstName,
		Infix:       reqData.Infix,
		LastName:    reqData.LastName,
		BirthDate:   reqData.BirthDate,
		BirthPlace:  reqData.BirthPlace,
		Email:       reqData.Email,
		Phone:       reqData.Phone,
		Street:      reqData.Street,
		HouseNumber: reqData.HouseNumber,
		Postcode:    reqData.Postcode,
		City:        reqData.City,
		CompanyName: reqData.CompanyName,
		CompanyRole: reqData.CompanyRole,
		Trainings:   reqData.Trainings,
		Status:      models.RegistrationStatusNew,
		Notes:       reqData.Notes,
	}
}

func applyUpdate(registration *models.Registration, reqData *registrationValidator.UpdateRequest) {
	if reqData.FirstName != nil {
		registration.FirstName = *reqData.FirstName
	}
	if reqData.Infix != nil {
		registration.Infix = *reqData.Infix
	}
	if reqData.LastName != nil {
		registration.LastName = *reqData.LastName
	}
	if reqData.BirthDate != nil {
		registration.BirthDate = *reqData.BirthDate
	}
	if reqData.BirthPlace != nil {
		registration.BirthPlace = *reqData.BirthPlace
	}
	if reqData.Email != nil {
		registration.Email = *reqData.Email
	}
	if reqData.Phone != nil {
		registration.Phone = *reqData.Phone
	}
	if reqData.Street != nil {
		registration.Street = *reqData.Street
	}
	if reqData.HouseNumber != nil {
		registration.HouseNumber = *reqData.HouseNumber
	}
	if reqData.Postcode != nil {
		registration.Postcode = *reqData.Postcode
	}
	if reqData.City != nil {
		registration.City = *reqData.City
	}
	if reqData.CompanyName != nil {
		registration.CompanyName = reqData.CompanyName
	}
	if reqData.CompanyRole != nil {
		registration.CompanyRole = reqData.CompanyRole
	}
	if reqData.Trainings != nil {
		registration.Trainings = reqData.Trainings
	}
	if reqData.Notes != nil {
		registration.Notes = *reqData.Notes
	}
}
