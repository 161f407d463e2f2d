package registrationController_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"academy/config"
	"academy/database"
	"academy/middleware"
	"academy/models"
	registrationRoutes "academy/routers/registrationRoutes"
	sessionRoutes "academy/routers/sessionRoutes"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
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

	hash, err := bcrypt.GenerateFromPassword([]byte("sup3rsecret"), bcrypt.MinCost)
	require.NoError(t, err)
	cfg := &config.Config{
		JWTKey:            "test-secret",
		AdminUsername:     "admin",
		AdminPasswordHash: hash,
	}

	app := fiber.New()
	registrationRoutes.SetupRegistrationRoutes(app, db, cfg)
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

	var reader *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
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

func seedSession(t *testing.T, db *database.Database, date time.Time, max int, status string, allowPublic bool) models.TrainingSession {
	t.Helper()
	session := models.TrainingSession{
		TrainingType:            "basic-training",
		SessionDate:             date,
		StartTime:               "09:00",
		EndTime:                 "17:00",
		Location:                "Main hall",
		MaxParticipants:         max,
		Status:                  status,
		AllowPublicRegistration: allowPublic,
	}
	require.NoError(t, db.Db.Create(&session).Error)
	return session
}

func seedRegistration(t *testing.T, db *database.Database, email string, sessionID *uint) models.Registration {
	t.Helper()
	registration := models.Registration{
		FirstName: "Jo",
		LastName:  "Tester",
		Email:     email,
		Trainings: []string{"basic-training"},
		Status:    models.RegistrationStatusNew,
		SessionID: sessionID,
	}
	require.NoError(t, db.Db.Create(&registration).Error)
	return registration
}

func submission(email string, sessionID *uint) fiber.Map {
	payload := fiber.Map{
		"first_name": "Jo",
		"last_name":  "Tester",
		"email":      email,
		"trainings":  []string{"basic-training"},
	}
	if sessionID != nil {
		payload["session_id"] = *sessionID
	}
	return payload
}

func TestPublicCreateWithoutSession(t *testing.T) {
	app, db, _ := setupTest(t)

	resp, body := doJSON(t, app, http.MethodPost, "/api/registrations", submission("jo@example.com", nil), "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, true, body["success"])

	data := body["data"].(map[string]interface{})
	assert.Equal(t, "new", data["status"])
	assert.Nil(t, data["session_id"])

	var count int64
	require.NoError(t, db.Db.Model(&models.Registration{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestPublicCreateValidation(t *testing.T) {
	app, _, _ := setupTest(t)

	resp, body := doJSON(t, app, http.MethodPost, "/api/registrations", fiber.Map{
		"first_name": "Jo",
		"email":      "not-an-email",
	}, "")
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	fields := body["data"].(map[string]interface{})
	assert.Contains(t, fields, "last_name")
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "trainings")
}

func TestPublicCreateWithSession(t *testing.T) {
	app, db, _ := setupTest(t)
	session := seedSession(t, db, time.Now().AddDate(0, 0, 7), 2, models.SessionStatusOpen, true)

	resp, body := doJSON(t, app, http.MethodPost, "/api/registrations", submission("jo@example.com", &session.ID), "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	data := body["data"].(map[string]interface{})
	assert.EqualValues(t, session.ID, data["session_id"])
}

func TestPublicCreateSessionFull(t *testing.T) {
	app, db, _ := setupTest(t)
	session := seedSession(t, db, time.Now().AddDate(0, 0, 7), 1, models.SessionStatusOpen, true)
	seedRegistration(t, db, "first@example.com", &session.ID)

	resp, _ := doJSON(t, app, http.MethodPost, "/api/registrations", submission("late@example.com", &session.ID), "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	var count int64
	require.NoError(t, db.Db.Model(&models.Registration{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestPublicCreateSessionNotAccepting(t *testing.T) {
	app, db, _ := setupTest(t)

	cancelled := seedSession(t, db, time.Now().AddDate(0, 0, 7), 5, models.SessionStatusCancelled, true)
	private := seedSession(t, db, time.Now().AddDate(0, 0, 7), 5, models.SessionStatusOpen, false)
	missing := uint(9999)

	for name, id := range map[string]uint{
		"cancelled session": cancelled.ID,
		"private session":   private.ID,
		"unknown session":   missing,
	} {
		resp, _ := doJSON(t, app, http.MethodPost, "/api/registrations", submission("jo@example.com", &id), "")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, name)
	}
}

func TestConcurrentPublicRegistrationsDoNotOvershoot(t *testing.T) {
	app, db, _ := setupTest(t)

	// Single connection serializes sqlite writes, mirroring the row lock
	// the Postgres path takes.
	sqlDB, err := db.Db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	capacity := 3
	session := seedSession(t, db, time.Now().AddDate(0, 0, 7), capacity, models.SessionStatusOpen, true)

	numRequests := 20
	var created int32
	var full int32
	var other int32

	var wg sync.WaitGroup
	wg.Add(numRequests)
	for i := 0; i < numRequests; i++ {
		go func(n int) {
			defer wg.Done()

			payload, _ := json.Marshal(submission(fmt.Sprintf("race%d@example.com", n), &session.ID))
			req := httptest.NewRequest(http.MethodPost, "/api/registrations", bytes.NewReader(payload))
			req.Header.Set("Content-Type", "application/json")

			resp, err := app.Test(req, -1)
			if err != nil {
				atomic.AddInt32(&other, 1)
				return
			}
			switch resp.StatusCode {
			case http.StatusCreated:
				atomic.AddInt32(&created, 1)
			case http.StatusConflict:
				atomic.AddInt32(&full, 1)
			default:
				atomic.AddInt32(&other, 1)
			}
		}(i)
	}
	wg.Wait()

	assert.EqualValues(t, capacity, created)
	assert.EqualValues(t, numRequests-capacity, full)
	assert.EqualValues(t, 0, other)

	var count int64
	require.NoError(t, db.Db.Model(&models.Registration{}).Where("session_id = ?", session.ID).Count(&count).Error)
	assert.EqualValues(t, capacity, count)
}

func TestAdminCreateMayOverbook(t *testing.T) {
	app, db, cfg := setupTest(t)
	token := adminToken(t, cfg)

	session := seedSession(t, db, time.Now().AddDate(0, 0, 7), 1, models.SessionStatusOpen, true)
	seedRegistration(t, db, "first@example.com", &session.ID)

	// Manual entry bypasses the capacity check on purpose.
	resp, _ := doJSON(t, app, http.MethodPost, "/api/admin/registrations", submission("extra@example.com", &session.ID), token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var count int64
	require.NoError(t, db.Db.Model(&models.Registration{}).Where("session_id = ?", session.ID).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestAdminEndpointsRequireToken(t *testing.T) {
	app, _, _ := setupTest(t)

	resp, _ := doJSON(t, app, http.MethodGet, "/api/admin/registrations", nil, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAdminListFilters(t *testing.T) {
	app, db, cfg := setupTest(t)
	token := adminToken(t, cfg)

	session := seedSession(t, db, time.Now().AddDate(0, 0, 7), 10, models.SessionStatusOpen, true)
	bound := seedRegistration(t, db, "bound@example.com", &session.ID)
	loose := seedRegistration(t, db, "loose@example.com", nil)
	require.NoError(t, db.Db.Model(&models.Registration{}).Where("id = ?", loose.ID).
		Update("status", models.RegistrationStatusApproved).Error)

	resp, body := doJSON(t, app, http.MethodGet, "/api/admin/registrations?unassigned=true", nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]interface{})
	regs := data["registrations"].([]interface{})
	require.Len(t, regs, 1)
	assert.EqualValues(t, loose.ID, regs[0].(map[string]interface{})["id"])

	resp, body = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/admin/registrations?session_id=%d", session.ID), nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data = body["data"].(map[string]interface{})
	regs = data["registrations"].([]interface{})
	require.Len(t, regs, 1)
	assert.EqualValues(t, bound.ID, regs[0].(map[string]interface{})["id"])

	resp, body = doJSON(t, app, http.MethodGet, "/api/admin/registrations?status=approved", nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data = body["data"].(map[string]interface{})
	assert.Len(t, data["registrations"], 1)

	resp, _ = doJSON(t, app, http.MethodGet, "/api/admin/registrations?status=bogus", nil, token)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestUpdateStatus(t *testing.T) {
	app, db, cfg := setupTest(t)
	token := adminToken(t, cfg)
	registration := seedRegistration(t, db, "jo@example.com", nil)

	path := fmt.Sprintf("/api/admin/registrations/%d/status", registration.ID)
	resp, body := doJSON(t, app, http.MethodPatch, path, fiber.Map{"status": "approved"}, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "approved", body["data"].(map[string]interface{})["status"])

	resp, _ = doJSON(t, app, http.MethodPatch, path, fiber.Map{"status": "archived"}, token)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPatch, "/api/admin/registrations/9999/status", fiber.Map{"status": "approved"}, token)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUpdateFields(t *testing.T) {
	app, db, cfg := setupTest(t)
	token := adminToken(t, cfg)
	registration := seedRegistration(t, db, "old@example.com", nil)

	path := fmt.Sprintf("/api/admin/registrations/%d", registration.ID)
	resp, _ := doJSON(t, app, http.MethodPut, path, fiber.Map{
		"email": "new@example.com",
		"city":  "Nijmegen",
	}, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var stored models.Registration
	require.NoError(t, db.Db.First(&stored, registration.ID).Error)
	assert.Equal(t, "new@example.com", stored.Email)
	assert.Equal(t, "Nijmegen", stored.City)
	assert.Equal(t, "Jo", stored.FirstName)
}

func TestDeleteRegistrationIsHard(t *testing.T) {
	app, db, cfg := setupTest(t)
	token := adminToken(t, cfg)
	registration := seedRegistration(t, db, "jo@example.com", nil)

	path := fmt.Sprintf("/api/admin/registrations/%d", registration.ID)
	resp, _ := doJSON(t, app, http.MethodDelete, path, nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var count int64
	require.NoError(t, db.Db.Model(&models.Registration{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)

	resp, _ = doJSON(t, app, http.MethodDelete, path, nil, token)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
