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

func TestChatMembershipGate(t *testing.T) {
	app, _ := setupTestApp(t)
	leaderToken, _ := registerUser(t, app, "leader@example.com")
	team := createTeam(t, app, leaderToken, 4)

	outsiderToken, _ := registerUser(t, app, "outsider@example.com")

	status, _ := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/v1/teams/%d/messages", team.ID),
		outsiderToken, map[string]interface{}{"content": "let me in"})
	assert.Equal(t, http.StatusConflict, status)

	status, _ = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/v1/teams/%d/messages", team.ID),
		outsiderToken, nil)
	assert.Equal(t, http.StatusConflict, status)
}

func TestSendAndListMessages(t *testing.T) {
	app, _ := setupTestApp(t)
	leaderToken, _ := registerUser(t, app, "leader@example.com")
	createProfile(t, app, leaderToken, "Leader")
	team := createTeam(t, app, leaderToken, 4)

	status, _ := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/v1/teams/%d/messages", team.ID),
		leaderToken, map[string]interface{}{"content": "first"})
	require.Equal(t, http.StatusCreated, status)

	fileID := "chat/attachment-1"
	status, _ = doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/v1/teams/%d/messages", team.ID),
		leaderToken, map[string]interface{}{"content": "see attached", "type": "file", "file_id": fileID})
	require.Equal(t, http.StatusCreated, status)

	status, resp := doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/v1/teams/%d/messages", team.ID),
		leaderToken, nil)
	require.Equal(t, http.StatusOK, status)

	var messages []struct {
		models.Message
		Sender  *models.Profile `json:"sender"`
		FileURL string          `json:"file_url"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &messages))
	require.Len(t, messages, 2)

	// Chronological order with sender profile and resolved file URL
	assert.Equal(t, "first", messages[0].Content)
	require.NotNil(t, messages[0].Sender)
	assert.Equal(t, "Leader", messages[0].Sender.FirstName)
	assert.Equal(t, models.MessageTypeText, messages[0].Type)
	assert.Contains(t, messages[1].FileURL, fileID)
}

func TestSoftDeleteMessage(t *testing.T) {
	app, db := setupTestApp(t)
	leaderToken, _ := registerUser(t, app, "leader@example.com")
	team := createTeam(t, app, leaderToken, 4)

	memberToken, _ := registerUser(t, app, "member@example.com")
	status, _ := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/v1/teams/%d/join", team.ID), memberToken, nil)
	require.Equal(t, http.StatusOK, status)

	status, resp := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/v1/teams/%d/messages", team.ID),
		leaderToken, map[string]interface{}{"content": "oops"})
	require.Equal(t, http.StatusCreated, status)

	var message models.Message
	require.NoError(t, json.Unmarshal(resp.Data, &message))

	// Only the sender may delete
	status, _ = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/v1/messages/%d", message.ID), memberToken, nil)
	assert.Equal(t, http.StatusConflict, status)

	status, _ = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/v1/messages/%d", message.ID), leaderToken, nil)
	require.Equal(t, http.StatusOK, status)

	// Excluded from the listing
	status, resp = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/v1/teams/%d/messages", team.ID),
		leaderToken, nil)
	require.Equal(t, http.StatusOK, status)

	var messages []models.Message
	require.NoError(t, json.Unmarshal(resp.Data, &messages))
	assert.Empty(t, messages)

	// But the row itself survives with the flag set
	var stored models.Message
	require.NoError(t, db.First(&stored, message.ID).Error)
	assert.True(t, stored.IsDeleted)
}
