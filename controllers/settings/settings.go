package settingsController

import (
	"log"

	"academy/database"
	"academy/middleware"
	"academy/models"
	settingsValidator "academy/validators/settings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm/clause"
)

// Controller handles the admin-editable site settings.
type Controller struct {
	DB *database.Database
}

func New(db *database.Database) *Controller {
	return &Controller{DB: db}
}

// Get returns all settings as a key/value map.
func (ctl *Controller) Get(c *fiber.Ctx) error {
	var settings []models.Setting
	if err := ctl.DB.Db.Order("key asc").Find(&settings).Error; err != nil {
		log.Printf("Error fetching settings: %v", err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch settings!")
	}

	values := make(map[string]string, len(settings))
	for _, s := range settings {
		values[s.Key] = s.Value
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Settings fetched successfully!", values)
}

// Update upserts the given settings in one transaction.
func (ctl *Controller) Update(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedSettings").(*settingsValidator.UpdateRequest)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request data!")
	}

	tx := ctl.DB.Db.Begin()
	if tx.Error != nil {
		log.Printf("Error starting transaction: %v", tx.Error)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update settings!")
	}

	for _, entry := range reqData.Settings {
		setting := models.Setting{Key: entry.Key, Value: entry.Value}
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).Create(&setting).Error
		if err != nil {
			tx.Rollback()
			log.Printf("Error saving setting %q: %v", entry.Key, err)
			return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update settings!")
		}
	}

	if err := tx.Commit().Error; err != nil {
		log.Printf("Error committing settings update: %v", err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update settings!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Settings updated successfully!", fiber.Map{
		"updated": len(reqData.Settings),
	})
}
