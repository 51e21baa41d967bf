package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"teamforge/models"
	"teamforge/realtime"
	"teamforge/storage"
	"teamforge/utils"
)

type ChatController struct {
	DB     *gorm.DB
	Hub    *realtime.Hub
	Blob   storage.BlobStore
	Logger *logrus.Logger
}

func NewChatController(db *gorm.DB, hub *realtime.Hub, blob storage.BlobStore, logger *logrus.Logger) *ChatController {
	return &ChatController{
		DB:     db,
		Hub:    hub,
		Blob:   blob,
		Logger: logger,
	}
}

// isTeamMember reports whether the user has a membership row for the team
func isTeamMember(db *gorm.DB, teamID, userID uint) (bool, error) {
	var count int64
	err := db.Model(&models.TeamMember{}).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		Count(&count).Error
	return count > 0, err
}

// SendMessage appends a chat message and broadcasts it to the team channel
func (cc *ChatController) SendMessage(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	teamID := utils.ParseUint(c.Params("id"))

	var input struct {
		Content string  `json:"content" validate:"required,max=10000"`
		Type    string  `json:"type" validate:"omitempty,oneof=text file system"`
		FileID  *string `json:"file_id"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	member, err := isTeamMember(cc.DB, teamID, user.ID)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to check membership", err)
	}
	if !member {
		return utils.ErrorResponse(c, fiber.StatusConflict, "Not authorized to send messages to this team", nil)
	}

	messageType := input.Type
	if messageType == "" {
		messageType = models.MessageTypeText
	}

	message := models.Message{
		TeamID:   teamID,
		SenderID: user.ID,
		Content:  input.Content,
		Type:     messageType,
		FileID:   input.FileID,
		SentAt:   time.Now(),
	}
	if err := cc.DB.Create(&message).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to send message", err)
	}

	cc.Hub.Publish(realtime.TeamChannel(teamID), "message", message)

	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(message))
}

type chatMessage struct {
	models.Message
	SenderProfile *models.Profile `json:"sender"`
	FileURL       string          `json:"file_url,omitempty"`
}

// GetTeamMessages lists the non-deleted messages of a team in chronological
// order, with sender profiles and resolved file URLs joined in
func (cc *ChatController) GetTeamMessages(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	teamID := utils.ParseUint(c.Params("id"))

	member, err := isTeamMember(cc.DB, teamID, user.ID)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to check membership", err)
	}
	if !member {
		return utils.ErrorResponse(c, fiber.StatusConflict, "Not authorized to view messages for this team", nil)
	}

	var messages []models.Message
	if err := cc.DB.
		Where("team_id = ? AND is_deleted = ?", teamID, false).
		Order("sent_at ASC").
		Find(&messages).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load messages", err)
	}

	result := make([]chatMessage, 0, len(messages))
	for _, message := range messages {
		entry := chatMessage{Message: message}
		var sender models.Profile
		if err := cc.DB.Where("user_id = ?", message.SenderID).First(&sender).Error; err == nil {
			entry.SenderProfile = &sender
		}
		if message.FileID != nil {
			if fileURL, err := cc.Blob.GetFileURL(c.Context(), *message.FileID); err == nil {
				entry.FileURL = fileURL
			}
		}
		result = append(result, entry)
	}

	return c.JSON(utils.SuccessResponse(result))
}

// DeleteMessage soft-deletes a message. Only the original sender may do
// this; the row itself is never removed.
func (cc *ChatController) DeleteMessage(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	messageID := utils.ParseUint(c.Params("id"))

	var message models.Message
	if err := cc.DB.First(&message, messageID).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Message not found", nil)
	}

	if message.SenderID != user.ID {
		return utils.ErrorResponse(c, fiber.StatusConflict, "Not authorized to delete this message", nil)
	}

	if err := cc.DB.Model(&message).Update("is_deleted", true).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete message", err)
	}

	cc.Logger.WithFields(logrus.Fields{
		"message_id": message.ID,
		"sender_id":  user.ID,
	}).Info("message deleted")

	return c.JSON(utils.SuccessResponse(fiber.Map{"message_id": message.ID}))
}
