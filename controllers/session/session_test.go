package sessionController_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"academy/config"
	"academy/database"
	"academy/middleware"
	"academy/models"
	sessionRoutes "academy/routers/sessionRoutes"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupTest(t *testing.T) (*fiber.App, *database.Database, *config.Config) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	db := &database.Database{Db: gdb}
	require.NoError(t, db.Migrate())
	t.Cleanup(func() { _ = db.Close() })

	cfg := &config.Config{
		JWTKey:        "test-secret",
		AdminUsername: "admin",
	}

	app := fiber.New()
	sessionRoutes.SetupSessionRoutes(app, db, cfg)
	return app, db, cfg
}

func adminToken(t *testing.T, cfg *config.Config) string {
	t.Helper()
	token, err := middleware.GenerateJWT(cfg.AdminUsername, cfg.JWTKey)
	require.NoError(t, err)
	return token
}

func doJSON(t *testing.T, app *fiber.App, method, path string, payload interface{}, token string) (*http.Response, map[string]interface{}) {
	t.Helper()

	var raw []byte
	if payload != nil {
		var err error
		raw, err = json.Marshal(payload)
		require.NoError(t, err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp, body
}

func seedSession(t *testing.T, db *database.Database, session models.TrainingSession) models.TrainingSession {
	t.Helper()
	require.NoError(t, db.Db.Create(&session).Error)
	return session
}

func seedRegistrations(t *testing.T, db *database.Database, sessionID uint, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		registration := models.Registration{
			FirstName: "Jo",
			LastName:  "Tester",
			Email:     fmt.Sprintf("person%d-s%d@example.com", i, sessionID),
			Trainings: []string{"basic-training"},
			Status:    models.RegistrationStatusNew,
			SessionID: &sessionID,
		}
		require.NoError(t, db.Db.Create(&registration).Error)
	}
}

func availableSessions(t *testing.T, app *fiber.App, query string) []map[string]interface{} {
	t.Helper()
	resp, body := doJSON(t, app, http.MethodGet, "/api/sessions/available"+query, nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	raw, ok := body["data"].([]interface{})
	if !ok {
		return nil
	}
	sessions := make([]map[string]interface{}, len(raw))
	for i, entry := range raw {
		sessions[i] = entry.(map[string]interface{})
	}
	return sessions
}

func TestCreateSessionRoundTrip(t *testing.T) {
	app, _, cfg := setupTest(t)
	token := adminToken(t, cfg)

	resp, body := doJSON(t, app, http.MethodPost, "/api/admin/sessions", fiber.Map{
		"training_type":    "forklift",
		"session_date":     "2030-05-20",
		"start_time":       "09:30",
		"end_time":         "16:00",
		"location":         "Hall B",
		"description":      "Forklift certification day",
		"max_participants": 8,
	}, token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	created := body["data"].(map[string]interface{})
	id := created["id"].(float64)
	require.NotZero(t, id)
	assert.EqualValues(t, 0, created["registered_count"])
	assert.EqualValues(t, 8, created["available_spots"])

	resp, body = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/admin/sessions/%.0f", id), nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	stored := body["data"].(map[string]interface{})
	assert.Equal(t, "forklift", stored["training_type"])
	assert.Equal(t, "09:30", stored["start_time"])
	assert.Equal(t, "16:00", stored["end_time"])
	assert.Equal(t, "Hall B", stored["location"])
	assert.EqualValues(t, 8, stored["max_participants"])
	assert.Equal(t, "open", stored["status"])
	assert.Equal(t, true, stored["allow_public_registration"])
	assert.EqualValues(t, 0, stored["registered_count"])
	assert.NotEmpty(t, stored["created_at"])
}

func TestCreateSessionValidation(t *testing.T) {
	app, _, cfg := setupTest(t)
	token := adminToken(t, cfg)

	resp, body := doJSON(t, app, http.MethodPost, "/api/admin/sessions", fiber.Map{
		"session_date":     "20-05-2030",
		"start_time":       "9am",
		"max_participants": 0,
	}, token)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	fields := body["data"].(map[string]interface{})
	assert.Contains(t, fields, "training_type")
	assert.Contains(t, fields, "session_date")
	assert.Contains(t, fields, "start_time")
	assert.Contains(t, fields, "max_participants")
}

func TestAvailabilityRules(t *testing.T) {
	app, db, _ := setupTest(t)
	future := time.Now().AddDate(0, 0, 7)

	open := seedSession(t, db, models.TrainingSession{
		TrainingType: "basic", SessionDate: future, StartTime: "09:00",
		MaxParticipants: 5, Status: models.SessionStatusOpen, AllowPublicRegistration: true,
	})
	seedRegistrations(t, db, open.ID, 2)

	atCapacity := seedSession(t, db, models.TrainingSession{
		TrainingType: "basic", SessionDate: future, StartTime: "10:00",
		MaxParticipants: 2, Status: models.SessionStatusOpen, AllowPublicRegistration: true,
	})
	seedRegistrations(t, db, atCapacity.ID, 2)

	seedSession(t, db, models.TrainingSession{
		TrainingType: "basic", SessionDate: future, StartTime: "11:00",
		MaxParticipants: 5, Status: models.SessionStatusCancelled, AllowPublicRegistration: true,
	})
	seedSession(t, db, models.TrainingSession{
		TrainingType: "basic", SessionDate: time.Now().AddDate(0, 0, -7), StartTime: "09:00",
		MaxParticipants: 5, Status: models.SessionStatusOpen, AllowPublicRegistration: true,
	})
	seedSession(t, db, models.TrainingSession{
		TrainingType: "basic", SessionDate: future, StartTime: "12:00",
		MaxParticipants: 5, Status: models.SessionStatusOpen, AllowPublicRegistration: false,
	})

	sessions := availableSessions(t, app, "")
	require.Len(t, sessions, 1)
	assert.EqualValues(t, open.ID, sessions[0]["id"])
	assert.EqualValues(t, 2, sessions[0]["registered_count"])
	assert.EqualValues(t, 3, sessions[0]["available_spots"])
}

func TestAvailabilityReflectsUnlink(t *testing.T) {
	app, db, _ := setupTest(t)

	session := seedSession(t, db, models.TrainingSession{
		TrainingType: "basic", SessionDate: time.Now().AddDate(0, 0, 7), StartTime: "09:00",
		MaxParticipants: 2, Status: models.SessionStatusOpen, AllowPublicRegistration: true,
	})
	seedRegistrations(t, db, session.ID, 2)

	require.Empty(t, availableSessions(t, app, ""))

	// Unlink one participant; the session reopens with one spot.
	var registration models.Registration
	require.NoError(t, db.Db.Where("session_id = ?", session.ID).First(&registration).Error)
	require.NoError(t, db.Db.Model(&registration).Update("session_id", nil).Error)

	sessions := availableSessions(t, app, "")
	require.Len(t, sessions, 1)
	assert.EqualValues(t, session.ID, sessions[0]["id"])
	assert.EqualValues(t, 1, sessions[0]["available_spots"])
}

func TestAvailabilityOrderingAndFilter(t *testing.T) {
	app, db, _ := setupTest(t)

	nextWeek := time.Now().AddDate(0, 0, 7)
	later := seedSession(t, db, models.TrainingSession{
		TrainingType: "basic", SessionDate: nextWeek.AddDate(0, 0, 7), StartTime: "09:00",
		MaxParticipants: 5, Status: models.SessionStatusOpen, AllowPublicRegistration: true,
	})
	earlyAfternoon := seedSession(t, db, models.TrainingSession{
		TrainingType: "advanced", SessionDate: nextWeek, StartTime: "13:00",
		MaxParticipants: 5, Status: models.SessionStatusOpen, AllowPublicRegistration: true,
	})
	earlyMorning := seedSession(t, db, models.TrainingSession{
		TrainingType: "basic", SessionDate: nextWeek, StartTime: "08:00",
		MaxParticipants: 5, Status: models.SessionStatusOpen, AllowPublicRegistration: true,
	})

	sessions := availableSessions(t, app, "")
	require.Len(t, sessions, 3)
	assert.EqualValues(t, earlyMorning.ID, sessions[0]["id"])
	assert.EqualValues(t, earlyAfternoon.ID, sessions[1]["id"])
	assert.EqualValues(t, later.ID, sessions[2]["id"])

	filtered := availableSessions(t, app, "?training_type=advanced")
	require.Len(t, filtered, 1)
	assert.EqualValues(t, earlyAfternoon.ID, filtered[0]["id"])
}

func TestDeleteSessionGuard(t *testing.T) {
	app, db, cfg := setupTest(t)
	token := adminToken(t, cfg)

	session := seedSession(t, db, models.TrainingSession{
		TrainingType: "basic", SessionDate: time.Now().AddDate(0, 0, 7), StartTime: "09:00",
		MaxParticipants: 5, Status: models.SessionStatusOpen, AllowPublicRegistration: true,
	})
	seedRegistrations(t, db, session.ID, 1)

	path := fmt.Sprintf("/api/admin/sessions/%d", session.ID)
	resp, _ := doJSON(t, app, http.MethodDelete, path, nil, token)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// Both the session and its registration are untouched.
	var sessionCount, regCount int64
	require.NoError(t, db.Db.Model(&models.TrainingSession{}).Count(&sessionCount).Error)
	require.NoError(t, db.Db.Model(&models.Registration{}).Count(&regCount).Error)
	assert.EqualValues(t, 1, sessionCount)
	assert.EqualValues(t, 1, regCount)

	// After unlinking, the delete goes through.
	require.NoError(t, db.Db.Model(&models.Registration{}).Where("session_id = ?", session.ID).
		Update("session_id", nil).Error)

	resp, _ = doJSON(t, app, http.MethodDelete, path, nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, db.Db.Model(&models.TrainingSession{}).Count(&sessionCount).Error)
	assert.EqualValues(t, 0, sessionCount)

	resp, _ = doJSON(t, app, http.MethodDelete, path, nil, token)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUpdateSession(t *testing.T) {
	app, db, cfg := setupTest(t)
	token := adminToken(t, cfg)

	session := seedSession(t, db, models.TrainingSession{
		TrainingType: "basic", SessionDate: time.Now().AddDate(0, 0, 7), StartTime: "09:00",
		MaxParticipants: 5, Status: models.SessionStatusOpen, AllowPublicRegistration: true,
	})

	path := fmt.Sprintf("/api/admin/sessions/%d", session.ID)
	resp, _ := doJSON(t, app, http.MethodPut, path, fiber.Map{
		"max_participants": 12,
		"status":           "full",
		"location":         "Hall C",
	}, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var stored models.TrainingSession
	require.NoError(t, db.Db.First(&stored, session.ID).Error)
	assert.Equal(t, 12, stored.MaxParticipants)
	assert.Equal(t, models.SessionStatusFull, stored.Status)
	assert.Equal(t, "Hall C", stored.Location)
	assert.Equal(t, "basic", stored.TrainingType)

	resp, _ = doJSON(t, app, http.MethodPut, path, fiber.Map{"status": "paused"}, token)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestParticipantsListing(t *testing.T) {
	app, db, cfg := setupTest(t)
	token := adminToken(t, cfg)

	session := seedSession(t, db, models.TrainingSession{
		TrainingType: "basic", SessionDate: time.Now().AddDate(0, 0, 7), StartTime: "09:00",
		MaxParticipants: 5, Status: models.SessionStatusOpen, AllowPublicRegistration: true,
	})
	seedRegistrations(t, db, session.ID, 3)

	path := fmt.Sprintf("/api/admin/sessions/%d/participants", session.ID)
	resp, body := doJSON(t, app, http.MethodGet, path, nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data := body["data"].(map[string]interface{})
	assert.Len(t, data["participants"], 3)

	resp, _ = doJSON(t, app, http.MethodGet, "/api/admin/sessions/9999/participants", nil, token)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
