package controller_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"teamforge/models"
)

func TestGroupApplicationPendingGuard(t *testing.T) {
	app, db := setupTestApp(t)
	adminToken, _ := registerAdmin(t, app, db, "admin@example.com")
	token, userID := registerUser(t, app, "applicant@example.com")
	createProfile(t, app, token, "Applicant")

	body := map[string]interface{}{"resume_id": "resumes/abc", "cover_letter": "hi"}

	// First submission goes through
	status, resp := doJSON(t, app, http.MethodPost, "/api/v1/applications/group", token, body)
	require.Equal(t, http.StatusCreated, status)

	var application models.Application
	require.NoError(t, json.Unmarshal(resp.Data, &application))
	assert.Equal(t, models.ApplicationStatusPending, application.Status)
	assert.Equal(t, userID, application.ApplicantID)

	// Second submission while the first is pending conflicts
	status, _ = doJSON(t, app, http.MethodPost, "/api/v1/applications/group", token, body)
	assert.Equal(t, http.StatusConflict, status)

	// Review the first to a non-pending status
	status, _ = doJSON(t, app, http.MethodPut,
		fmt.Sprintf("/api/v1/applications/%d/review", application.ID), adminToken,
		map[string]interface{}{"status": "rejected", "review_notes": "not yet"})
	require.Equal(t, http.StatusOK, status)

	// A fresh submission now succeeds
	status, _ = doJSON(t, app, http.MethodPost, "/api/v1/applications/group", token, body)
	assert.Equal(t, http.StatusCreated, status)
}

func TestReviewNotifiesApplicant(t *testing.T) {
	app, db := setupTestApp(t)
	adminToken, _ := registerAdmin(t, app, db, "admin@example.com")
	token, userID := registerUser(t, app, "hopeful@example.com")

	status, resp := doJSON(t, app, http.MethodPost, "/api/v1/applications/group", token,
		map[string]interface{}{"resume_id": "resumes/xyz"})
	require.Equal(t, http.StatusCreated, status)

	var application models.Application
	require.NoError(t, json.Unmarshal(resp.Data, &application))

	status, _ = doJSON(t, app, http.MethodPut,
		fmt.Sprintf("/api/v1/applications/%d/review", application.ID), adminToken,
		map[string]interface{}{"status": "shortlisted"})
	require.Equal(t, http.StatusOK, status)

	var notifications []models.Notification
	require.NoError(t, db.Where("user_id = ? AND type = ?",
		userID, models.NotificationApplicationUpdate).Find(&notifications).Error)
	require.NotEmpty(t, notifications)
	assert.Contains(t, notifications[len(notifications)-1].Message, "shortlisted")

	var reviewed models.Application
	require.NoError(t, db.First(&reviewed, application.ID).Error)
	assert.Equal(t, models.ApplicationStatusShortlisted, reviewed.Status)
	assert.NotNil(t, reviewed.ReviewedAt)
	assert.NotNil(t, reviewed.ReviewedBy)
}

func TestReviewRequiresAdmin(t *testing.T) {
	app, _ := setupTestApp(t)
	token, _ := registerUser(t, app, "plain@example.com")

	status, _ := doJSON(t, app, http.MethodPut, "/api/v1/applications/1/review", token,
		map[string]interface{}{"status": "approved"})
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = doJSON(t, app, http.MethodGet, "/api/v1/applications/pending-group", token, nil)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestWolfPackApplication(t *testing.T) {
	app, _ := setupTestApp(t)
	leaderToken, _ := registerUser(t, app, "leader@example.com")
	token, _ := registerUser(t, app, "wolf@example.com")

	// Missing team
	status, _ := doJSON(t, app, http.MethodPost, "/api/v1/applications/wolf-pack", token,
		map[string]interface{}{"team_id": 999, "resume_id": "resumes/w"})
	assert.Equal(t, http.StatusNotFound, status)

	// Leader makes a wolf pack with room for one more
	status, resp := doJSON(t, app, http.MethodPost, "/api/v1/teams/", leaderToken, map[string]interface{}{
		"name":        "Night Pack",
		"description": "hunting bugs",
		"type":        "wolf_pack",
		"max_members": 2,
		"tags":        []string{"backend"},
	})
	require.Equal(t, http.StatusCreated, status)

	var team models.Team
	require.NoError(t, json.Unmarshal(resp.Data, &team))

	// Application accepted
	status, _ = doJSON(t, app, http.MethodPost, "/api/v1/applications/wolf-pack", token,
		map[string]interface{}{"team_id": team.ID, "resume_id": "resumes/w"})
	require.Equal(t, http.StatusCreated, status)

	// Duplicate (non-rejected) application to the same team conflicts
	status, _ = doJSON(t, app, http.MethodPost, "/api/v1/applications/wolf-pack", token,
		map[string]interface{}{"team_id": team.ID, "resume_id": "resumes/w"})
	assert.Equal(t, http.StatusConflict, status)

	// Fill the team, then a third user's application bounces off capacity
	fillerToken, _ := registerUser(t, app, "filler@example.com")
	status, _ = doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/v1/teams/%d/join", team.ID), fillerToken, nil)
	require.Equal(t, http.StatusOK, status)

	thirdToken, _ := registerUser(t, app, "third@example.com")
	status, _ = doJSON(t, app, http.MethodPost, "/api/v1/applications/wolf-pack", thirdToken,
		map[string]interface{}{"team_id": team.ID, "resume_id": "resumes/t"})
	assert.Equal(t, http.StatusConflict, status)
}

func TestGetMyApplications(t *testing.T) {
	app, _ := setupTestApp(t)
	token, _ := registerUser(t, app, "lister@example.com")

	status, _ := doJSON(t, app, http.MethodPost, "/api/v1/applications/group", token,
		map[string]interface{}{"resume_id": "resumes/1"})
	require.Equal(t, http.StatusCreated, status)

	status, resp := doJSON(t, app, http.MethodGet, "/api/v1/applications/mine", token, nil)
	require.Equal(t, http.StatusOK, status)

	var applications []models.Application
	require.NoError(t, json.Unmarshal(resp.Data, &applications))
	require.Len(t, applications, 1)
	assert.Equal(t, models.ApplicationTypeGroup, applications[0].Type)
}
