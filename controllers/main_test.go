package controller_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"teamforge/config"
	"teamforge/models"
	"teamforge/realtime"
	"teamforge/routes"
)

// fakeBlob satisfies storage.BlobStore without a real object store
type fakeBlob struct{}

func (fakeBlob) GenerateUploadURL(_ context.Context, prefix string) (string, string, error) {
	fileID := fmt.Sprintf("%s/%s", prefix, uuid.NewString())
	return fileID, "http://blob.test/upload/" + fileID, nil
}

func (fakeBlob) GetFileURL(_ context.Context, fileID string) (string, error) {
	return "http://blob.test/files/" + fileID, nil
}

// setupTestApp wires the full route surface against a fresh in-memory
// database and returns the app plus the database handle for direct checks.
func setupTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, config.MigrateDB(db))

	config.DB = db
	config.AppConfig.JWTSecret = "test-secret"
	config.AppConfig.RateLimitApply = 1000
	config.AppConfig.Redis.Enabled = false

	app := fiber.New()
	routes.SetupRoutes(app, db, realtime.NewHub(), fakeBlob{})
	return app, db
}

type apiResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

// doJSON performs a request against the app and decodes the envelope
func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (int, apiResponse) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(buf)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var envelope apiResponse
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &envelope)
	}
	return resp.StatusCode, envelope
}

// registerUser creates an account and returns its token and user id
func registerUser(t *testing.T, app *fiber.App, email string) (string, uint) {
	t.Helper()

	status, resp := doJSON(t, app, http.MethodPost, "/auth/register", "", map[string]interface{}{
		"email":    email,
		"password": "password123",
		"name":     "Test User",
	})
	require.Equal(t, http.StatusCreated, status)

	var auth struct {
		AccessToken string      `json:"access_token"`
		User        models.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &auth))
	require.NotEmpty(t, auth.AccessToken)
	return auth.AccessToken, auth.User.ID
}

// registerAdmin creates an account and grants it the admin flag. The token
// is re-issued afterwards so it reflects the updated row.
func registerAdmin(t *testing.T, app *fiber.App, db *gorm.DB, email string) (string, uint) {
	t.Helper()

	_, userID := registerUser(t, app, email)
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", userID).Update("is_admin", true).Error)

	status, resp := doJSON(t, app, http.MethodPost, "/auth/login", "", map[string]interface{}{
		"email":    email,
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, status)

	var auth struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &auth))
	return auth.AccessToken, userID
}

// createProfile fills in the minimum profile for a user
func createProfile(t *testing.T, app *fiber.App, token, firstName string) {
	t.Helper()

	status, _ := doJSON(t, app, http.MethodPost, "/api/v1/profiles/", token, map[string]interface{}{
		"first_name": firstName,
		"last_name":  "Tester",
		"skills":     []string{"go"},
		"experience": "intermediate",
	})
	require.Equal(t, http.StatusCreated, status)
}
