package utils

import (
	"fmt"
	"log"
	"time"

	"academy/config"
	"academy/database"
	"academy/models"

	"github.com/jinzhu/now"
	"github.com/robfig/cron/v3"
)

// logReminder logs reminder events with timestamp
func logReminder(message string) {
	log.Printf("[SESSION-REMINDER %s] %s", time.Now().Format(time.RFC3339), message)
}

// StartSessionReminder schedules the daily digest of tomorrow's sessions.
// The job is read-only: it never changes session or registration state.
func StartSessionReminder(db *database.Database, cfg *config.Config) *cron.Cron {
	c := cron.New()
	if _, err := c.AddFunc("0 7 * * *", func() { sendSessionReminder(db, cfg) }); err != nil {
		log.Fatalf("Failed to schedule session reminder: %v", err)
	}
	c.Start()
	logReminder("Scheduled daily digest at 07:00")
	return c
}

func sendSessionReminder(db *database.Database, cfg *config.Config) {
	if cfg.NotifyEmail == "" || cfg.EmailSender == "" {
		return
	}

	tomorrow := now.BeginningOfDay().AddDate(0, 0, 1)
	dayAfter := tomorrow.AddDate(0, 0, 1)

	var sessions []models.SessionWithCount
	err := db.Db.Model(&models.TrainingSession{}).
		Select("training_sessions.*, "+
			"COUNT(registrations.id) AS registered_count, "+
			"training_sessions.max_participants - COUNT(registrations.id) AS available_spots").
		Joins("LEFT JOIN registrations ON registrations.session_id = training_sessions.id").
		Where("training_sessions.session_date >= ? AND training_sessions.session_date < ?", tomorrow, dayAfter).
		Where("training_sessions.status <> ?", models.SessionStatusCancelled).
		Group("training_sessions.id").
		Order("training_sessions.start_time ASC").
		Find(&sessions).Error
	if err != nil {
		logReminder("Error fetching tomorrow's sessions: " + err.Error())
		return
	}
	if len(sessions) == 0 {
		return
	}

	rows := ""
	for _, s := range sessions {
		rows += fmt.Sprintf(
			"<tr><td>%s</td><td>%s - %s</td><td>%s</td><td>%d / %d</td></tr>",
			s.TrainingType, s.StartTime, s.EndTime, s.Location, s.RegisteredCount, s.MaxParticipants,
		)
	}

	body := getEmailTemplate("Sessions Tomorrow", fmt.Sprintf(`
		<p>Sessions scheduled for %s:</p>
		<table>
			<tr><th>Training</th><th>Time</th><th>Location</th><th>Participants</th></tr>
			%s
		</table>
	`, tomorrow.Format("Monday 2 January 2006"), rows))

	subject := fmt.Sprintf("%d session(s) scheduled tomorrow", len(sessions))
	if err := SendEmail(cfg, []string{cfg.NotifyEmail}, subject, body); err != nil {
		logReminder("Error sending digest: " + err.Error())
		return
	}
	logReminder(fmt.Sprintf("Sent digest covering %d session(s)", len(sessions)))
}
