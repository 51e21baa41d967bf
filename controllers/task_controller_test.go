package controller_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"teamforge/models"
)

func TestAssignTaskFansOutNotifications(t *testing.T) {
	app, db := setupTestApp(t)
	adminToken, _ := registerAdmin(t, app, db, "admin@example.com")

	leaderToken, leaderID := registerUser(t, app, "leader@example.com")
	team := createTeam(t, app, leaderToken, 4)

	memberToken, memberID := registerUser(t, app, "member@example.com")
	status, _ := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/v1/teams/%d/join", team.ID), memberToken, nil)
	require.Equal(t, http.StatusOK, status)

	status, resp := doJSON(t, app, http.MethodPost, "/api/v1/tasks", adminToken, map[string]interface{}{
		"team_id":     team.ID,
		"title":       "Ship the MVP",
		"description": "end to end demo",
		"due_date":    time.Now().Add(7 * 24 * time.Hour).UnixMilli(),
		"priority":    "high",
		"week":        1,
	})
	require.Equal(t, http.StatusCreated, status)

	var task models.Task
	require.NoError(t, json.Unmarshal(resp.Data, &task))
	assert.Equal(t, models.TaskStatusAssigned, task.Status)

	var notified int64
	require.NoError(t, db.Model(&models.Notification{}).
		Where("user_id IN ? AND type = ?", []uint{leaderID, memberID}, models.NotificationTaskAssigned).
		Count(&notified).Error)
	assert.EqualValues(t, 2, notified)
}

func TestAssignTaskRequiresAdmin(t *testing.T) {
	app, _ := setupTestApp(t)
	token, _ := registerUser(t, app, "plain@example.com")
	team := createTeam(t, app, token, 4)

	status, _ := doJSON(t, app, http.MethodPost, "/api/v1/tasks", token, map[string]interface{}{
		"team_id":  team.ID,
		"title":    "sneaky",
		"due_date": time.Now().UnixMilli(),
		"priority": "low",
		"week":     1,
	})
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = doJSON(t, app, http.MethodGet, "/api/v1/tasks", token, nil)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestUpdateTaskStatus(t *testing.T) {
	app, db := setupTestApp(t)
	adminToken, _ := registerAdmin(t, app, db, "admin@example.com")
	leaderToken, _ := registerUser(t, app, "leader@example.com")
	team := createTeam(t, app, leaderToken, 4)

	status, resp := doJSON(t, app, http.MethodPost, "/api/v1/tasks", adminToken, map[string]interface{}{
		"team_id":  team.ID,
		"title":    "Weekly report",
		"due_date": time.Now().Add(48 * time.Hour).UnixMilli(),
		"priority": "medium",
		"week":     2,
	})
	require.Equal(t, http.StatusCreated, status)

	var task models.Task
	require.NoError(t, json.Unmarshal(resp.Data, &task))

	// Non-members cannot touch it, even authenticated
	outsiderToken, _ := registerUser(t, app, "outsider@example.com")
	status, _ = doJSON(t, app, http.MethodPut, fmt.Sprintf("/api/v1/tasks/%d/status", task.ID),
		outsiderToken, map[string]interface{}{"status": "in_progress"})
	assert.Equal(t, http.StatusConflict, status)

	// Members can; completion stamps the time
	status, _ = doJSON(t, app, http.MethodPut, fmt.Sprintf("/api/v1/tasks/%d/status", task.ID),
		leaderToken, map[string]interface{}{"status": "completed", "submission_notes": "done early"})
	require.Equal(t, http.StatusOK, status)

	var stored models.Task
	require.NoError(t, db.First(&stored, task.ID).Error)
	assert.Equal(t, models.TaskStatusCompleted, stored.Status)
	assert.Equal(t, "done early", stored.SubmissionNotes)
	require.NotNil(t, stored.CompletedAt)

	// Missing task
	status, _ = doJSON(t, app, http.MethodPut, "/api/v1/tasks/999/status",
		leaderToken, map[string]interface{}{"status": "in_progress"})
	assert.Equal(t, http.StatusNotFound, status)
}

func TestGetAllTasksWeekFilter(t *testing.T) {
	app, db := setupTestApp(t)
	adminToken, _ := registerAdmin(t, app, db, "admin@example.com")
	leaderToken, _ := registerUser(t, app, "leader@example.com")
	team := createTeam(t, app, leaderToken, 4)

	for week := 1; week <= 2; week++ {
		status, _ := doJSON(t, app, http.MethodPost, "/api/v1/tasks", adminToken, map[string]interface{}{
			"team_id":  team.ID,
			"title":    fmt.Sprintf("Week %d task", week),
			"due_date": time.Now().Add(time.Duration(week) * 24 * time.Hour).UnixMilli(),
			"priority": "low",
			"week":     week,
		})
		require.Equal(t, http.StatusCreated, status)
	}

	status, resp := doJSON(t, app, http.MethodGet, "/api/v1/tasks?week=2", adminToken, nil)
	require.Equal(t, http.StatusOK, status)

	var tasks []struct {
		models.Task
		Team *models.Team `json:"team"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &tasks))
	require.Len(t, tasks, 1)
	assert.Equal(t, 2, tasks[0].Week)
	require.NotNil(t, tasks[0].Team)
	assert.Equal(t, team.ID, tasks[0].Team.ID)

	// Team task listing, newest first
	status, resp = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/v1/teams/%d/tasks", team.ID), leaderToken, nil)
	require.Equal(t, http.StatusOK, status)

	var teamTasks []models.Task
	require.NoError(t, json.Unmarshal(resp.Data, &teamTasks))
	assert.Len(t, teamTasks, 2)
}
