package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"teamforge/models"
	"teamforge/realtime"
	"teamforge/utils"
)

type NotificationController struct {
	DB     *gorm.DB
	Hub    *realtime.Hub
	Logger *logrus.Logger
}

func NewNotificationController(db *gorm.DB, hub *realtime.Hub, logger *logrus.Logger) *NotificationController {
	return &NotificationController{
		DB:     db,
		Hub:    hub,
		Logger: logger,
	}
}

// GetMyNotifications returns the caller's latest 50 notifications
func (nc *NotificationController) GetMyNotifications(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var notifications []models.Notification
	if err := nc.DB.Where("user_id = ?", user.ID).
		Order("created_at DESC").
		Limit(50).
		Find(&notifications).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load notifications", err)
	}

	return c.JSON(utils.SuccessResponse(notifications))
}

// GetUnreadCount returns how many unread notifications the caller has
func (nc *NotificationController) GetUnreadCount(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var count int64
	if err := nc.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", user.ID, false).
		Count(&count).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to count notifications", err)
	}

	return c.JSON(utils.SuccessResponse(fiber.Map{"count": count}))
}

// MarkAsRead flips one notification, checking ownership first
func (nc *NotificationController) MarkAsRead(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	notificationID := utils.ParseUint(c.Params("id"))

	var notification models.Notification
	if err := nc.DB.First(&notification, notificationID).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Notification not found", nil)
	}

	if notification.UserID != user.ID {
		return utils.ErrorResponse(c, fiber.StatusConflict, "Not authorized", nil)
	}

	if err := nc.DB.Model(&notification).Update("is_read", true).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update notification", err)
	}

	return c.JSON(utils.SuccessResponse(fiber.Map{"notification_id": notification.ID}))
}

// MarkAllAsRead flips every unread notification for the caller in a single
// batch update and returns how many rows changed. Calling it again
// immediately returns 0.
func (nc *NotificationController) MarkAllAsRead(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	res := nc.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", user.ID, false).
		Update("is_read", true)
	if res.Error != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update notifications", res.Error)
	}

	return c.JSON(utils.SuccessResponse(fiber.Map{"updated": res.RowsAffected}))
}
