package dashboardController

import (
	"log"

	"academy/database"
	"academy/middleware"
	"academy/models"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/now"
)

// Controller serves the back-office overview numbers.
type Controller struct {
	DB *database.Database
}

func New(db *database.Database) *Controller {
	return &Controller{DB: db}
}

// Stats returns registration counts per status plus the load of upcoming
// sessions.
func (ctl *Controller) Stats(c *fiber.Ctx) error {
	db := ctl.DB.Db

	var total int64
	if err := db.Model(&models.Registration{}).Count(&total).Error; err != nil {
		log.Printf("Error counting registrations: %v", err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch dashboard stats!")
	}

	var unassigned int64
	if err := db.Model(&models.Registration{}).Where("session_id IS NULL").Count(&unassigned).Error; err != nil {
		log.Printf("Error counting unassigned registrations: %v", err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch dashboard stats!")
	}

	type statusCount struct {
		Status string `json:"status"`
		Count  int64  `json:"count"`
	}
	var byStatus []statusCount
	err := db.Model(&models.Registration{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Find(&byStatus).Error
	if err != nil {
		log.Printf("Error counting registrations per status: %v", err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch dashboard stats!")
	}

	statusCounts := make(map[string]int64, len(models.RegistrationStatuses))
	for _, s := range models.RegistrationStatuses {
		statusCounts[s] = 0
	}
	for _, sc := range byStatus {
		statusCounts[sc.Status] = sc.Count
	}

	var upcoming []models.SessionWithCount
	err = db.Model(&models.TrainingSession{}).
		Select("training_sessions.*, "+
			"COUNT(registrations.id) AS registered_count, "+
			"training_sessions.max_participants - COUNT(registrations.id) AS available_spots").
		Joins("LEFT JOIN registrations ON registrations.session_id = training_sessions.id").
		Where("training_sessions.session_date >= ?", now.BeginningOfDay()).
		Where("training_sessions.status <> ?", models.SessionStatusCancelled).
		Group("training_sessions.id").
		Order("training_sessions.session_date ASC, training_sessions.start_time ASC").
		Limit(10).
		Find(&upcoming).Error
	if err != nil {
		log.Printf("Error fetching upcoming sessions: %v", err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch dashboard stats!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Dashboard stats fetched successfully!", fiber.Map{
		"registrations": fiber.Map{
			"total":      total,
			"unassigned": unassigned,
			"by_status":  statusCounts,
		},
		"upcoming_sessions": upcoming,
	})
}
