package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"teamforge/models"
	"teamforge/utils"
)

type AdminController struct {
	DB     *gorm.DB
	Logger *logrus.Logger
}

func NewAdminController(db *gorm.DB, logger *logrus.Logger) *AdminController {
	return &AdminController{
		DB:     db,
		Logger: logger,
	}
}

// GetSetting reads one platform setting by key
func (ac *AdminController) GetSetting(c *fiber.Ctx) error {
	key := c.Params("key")

	var setting models.AdminSetting
	if err := ac.DB.Where("key = ?", key).First(&setting).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Setting not found", nil)
	}

	return c.JSON(utils.SuccessResponse(setting))
}

// SetSetting creates or updates one platform setting
func (ac *AdminController) SetSetting(c *fiber.Ctx) error {
	admin := c.Locals("user").(*models.User)
	key := c.Params("key")

	var input struct {
		Value string `json:"value" validate:"required,max=1000"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	var setting models.AdminSetting
	err := ac.DB.Where("key = ?", key).First(&setting).Error
	if err != nil {
		setting = models.AdminSetting{Key: key, Value: input.Value, UpdatedBy: admin.ID}
		err = ac.DB.Create(&setting).Error
	} else {
		err = ac.DB.Model(&setting).Updates(map[string]interface{}{
			"value":      input.Value,
			"updated_by": admin.ID,
		}).Error
	}
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to save setting", err)
	}

	ac.Logger.WithFields(logrus.Fields{
		"key":        key,
		"updated_by": admin.ID,
	}).Info("admin setting changed")

	return c.JSON(utils.SuccessResponse(setting))
}

// GetPlatformStats returns the headline counts for the admin dashboard
func (ac *AdminController) GetPlatformStats(c *fiber.Ctx) error {
	var stats struct {
		Users               int64 `json:"users"`
		Profiles            int64 `json:"profiles"`
		PendingApplications int64 `json:"pending_applications"`
		FormingTeams        int64 `json:"forming_teams"`
		ActiveTeams         int64 `json:"active_teams"`
		OpenProjects        int64 `json:"open_projects"`
	}

	ac.DB.Model(&models.User{}).Count(&stats.Users)
	ac.DB.Model(&models.Profile{}).Count(&stats.Profiles)
	ac.DB.Model(&models.Application{}).
		Where("type = ? AND status = ?", models.ApplicationTypeGroup, models.ApplicationStatusPending).
		Count(&stats.PendingApplications)
	ac.DB.Model(&models.Team{}).Where("status = ?", models.TeamStatusForming).Count(&stats.FormingTeams)
	ac.DB.Model(&models.Team{}).Where("status = ?", models.TeamStatusActive).Count(&stats.ActiveTeams)
	ac.DB.Model(&models.Project{}).Where("status = ?", models.ProjectStatusOpen).Count(&stats.OpenProjects)

	return c.JSON(utils.SuccessResponse(stats))
}
