package controller_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"teamforge/models"
)

func TestProfileLifecycle(t *testing.T) {
	app, _ := setupTestApp(t)
	token, _ := registerUser(t, app, "profile@example.com")

	// No profile before create
	status, resp := doJSON(t, app, http.MethodGet, "/api/v1/profiles/me", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "null", string(resp.Data))

	// Create
	status, resp = doJSON(t, app, http.MethodPost, "/api/v1/profiles/", token, map[string]interface{}{
		"first_name": "Ada",
		"last_name":  "Lovelace",
		"bio":        "First programmer",
		"skills":     []string{"go", "math"},
		"experience": "advanced",
	})
	require.Equal(t, http.StatusCreated, status)

	var profile models.Profile
	require.NoError(t, json.Unmarshal(resp.Data, &profile))
	assert.False(t, profile.IsVerified)
	assert.Equal(t, "Ada", profile.FirstName)
	assert.ElementsMatch(t, []string{"go", "math"}, profile.Skills)

	// Second create conflicts
	status, _ = doJSON(t, app, http.MethodPost, "/api/v1/profiles/", token, map[string]interface{}{
		"first_name": "Ada",
		"last_name":  "Lovelace",
		"skills":     []string{},
		"experience": "advanced",
	})
	assert.Equal(t, http.StatusConflict, status)

	// Visible immediately after create
	status, resp = doJSON(t, app, http.MethodGet, "/api/v1/profiles/me", token, nil)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(resp.Data, &profile))
	assert.Equal(t, "Lovelace", profile.LastName)

	// Partial update only touches provided fields
	status, resp = doJSON(t, app, http.MethodPut, "/api/v1/profiles/me", token, map[string]interface{}{
		"bio": "Analytical engine notes",
	})
	require.Equal(t, http.StatusOK, status)

	status, resp = doJSON(t, app, http.MethodGet, "/api/v1/profiles/me", token, nil)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(resp.Data, &profile))
	assert.Equal(t, "Analytical engine notes", profile.Bio)
	assert.Equal(t, "Ada", profile.FirstName)
}

func TestProfileValidation(t *testing.T) {
	app, _ := setupTestApp(t)
	token, _ := registerUser(t, app, "invalid-profile@example.com")

	status, _ := doJSON(t, app, http.MethodPost, "/api/v1/profiles/", token, map[string]interface{}{
		"first_name": "Grace",
		"last_name":  "Hopper",
		"skills":     []string{},
		"experience": "legendary", // not a valid level
	})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestResumeUploadFlow(t *testing.T) {
	app, db := setupTestApp(t)
	token, userID := registerUser(t, app, "resume@example.com")
	createProfile(t, app, token, "Resume")

	// Generate an upload slot
	status, resp := doJSON(t, app, http.MethodPost, "/api/v1/uploads", token, nil)
	require.Equal(t, http.StatusOK, status)

	var upload struct {
		FileID    string `json:"file_id"`
		UploadURL string `json:"upload_url"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &upload))
	require.NotEmpty(t, upload.FileID)
	require.NotEmpty(t, upload.UploadURL)

	// Record it on the profile
	status, _ = doJSON(t, app, http.MethodPost, "/api/v1/profiles/me/resume", token, map[string]interface{}{
		"resume_id": upload.FileID,
	})
	require.Equal(t, http.StatusOK, status)

	var profile models.Profile
	require.NoError(t, db.Where("user_id = ?", userID).First(&profile).Error)
	require.NotNil(t, profile.ResumeID)
	assert.Equal(t, upload.FileID, *profile.ResumeID)

	// Resolve to a download URL
	status, resp = doJSON(t, app, http.MethodGet, "/api/v1/profiles/resume-url?resume_id="+upload.FileID, token, nil)
	require.Equal(t, http.StatusOK, status)

	var link struct {
		URL string `json:"url"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &link))
	assert.Contains(t, link.URL, upload.FileID)
}

func TestProfileRequiresAuth(t *testing.T) {
	app, _ := setupTestApp(t)

	status, _ := doJSON(t, app, http.MethodGet, "/api/v1/profiles/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}
