package controller

import (
	"log"

	"github.com/gofiber/websocket/v2"

	"teamforge/models"
	"teamforge/realtime"
	"teamforge/utils"
)

// HandleTeamStreamWS streams chat messages for one team over a websocket.
// The JWT middleware runs before the upgrade, so the caller is already in
// locals; membership is checked before subscribing.
func (cc *ChatController) HandleTeamStreamWS(c *websocket.Conn) {
	defer c.Close()

	user, ok := c.Locals("user").(*models.User)
	if !ok {
		return
	}
	teamID := utils.ParseUint(c.Params("id"))

	member, err := isTeamMember(cc.DB, teamID, user.ID)
	if err != nil || !member {
		_ = c.WriteJSON(map[string]string{"error": "not a member of this team"})
		return
	}

	events, unsubscribe := cc.Hub.Subscribe(realtime.TeamChannel(teamID))
	defer unsubscribe()

	// Drain the client side so closed connections are noticed
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			if err := c.WriteJSON(event); err != nil {
				log.Printf("Error writing to team stream: %v", err)
				return
			}
		case <-done:
			return
		}
	}
}

// HandleNotificationStreamWS streams the caller's notification feed
func (nc *NotificationController) HandleNotificationStreamWS(c *websocket.Conn) {
	defer c.Close()

	user, ok := c.Locals("user").(*models.User)
	if !ok {
		return
	}

	events, unsubscribe := nc.Hub.Subscribe(realtime.UserChannel(user.ID))
	defer unsubscribe()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			if err := c.WriteJSON(event); err != nil {
				log.Printf("Error writing to notification stream: %v", err)
				return
			}
		case <-done:
			return
		}
	}
}
