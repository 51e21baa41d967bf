package controller

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"teamforge/models"
	"teamforge/realtime"
	"teamforge/utils"
)

type ApplicationController struct {
	DB     *gorm.DB
	Hub    *realtime.Hub
	Logger *logrus.Logger
}

func NewApplicationController(db *gorm.DB, hub *realtime.Hub, logger *logrus.Logger) *ApplicationController {
	return &ApplicationController{
		DB:     db,
		Hub:    hub,
		Logger: logger,
	}
}

// pushNotifications re-broadcasts committed notification rows to their
// recipients' live feeds
func pushNotifications(hub *realtime.Hub, notifications []models.Notification) {
	for i := range notifications {
		hub.Publish(realtime.UserChannel(notifications[i].UserID), "notification", notifications[i])
	}
}

// SubmitGroupApplication files a request to be placed into an admin-formed
// group. At most one pending group application per user; the check and the
// insert share one transaction.
func (ac *ApplicationController) SubmitGroupApplication(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var input struct {
		ResumeID    string `json:"resume_id" validate:"required"`
		CoverLetter string `json:"cover_letter" validate:"omitempty,max=5000"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	var application models.Application
	var created []models.Notification

	err := ac.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Application{}).
			Where("applicant_id = ? AND type = ? AND status = ?",
				user.ID, models.ApplicationTypeGroup, models.ApplicationStatusPending).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return fiber.NewError(fiber.StatusConflict, "You already have a pending group application")
		}

		application = models.Application{
			ApplicantID: user.ID,
			Type:        models.ApplicationTypeGroup,
			Status:      models.ApplicationStatusPending,
			ResumeID:    input.ResumeID,
			CoverLetter: input.CoverLetter,
		}
		if err := tx.Create(&application).Error; err != nil {
			return err
		}

		// Notify every admin that a new application is waiting for review
		var admins []models.User
		if err := tx.Where("is_admin = ?", true).Find(&admins).Error; err != nil {
			return err
		}
		for _, admin := range admins {
			notification := models.Notification{
				UserID:    admin.ID,
				Type:      models.NotificationApplicationUpdate,
				Title:     "New Group Application",
				Message:   "A new group application has been submitted",
				RelatedID: strconv.Itoa(int(application.ID)),
			}
			if err := tx.Create(&notification).Error; err != nil {
				return err
			}
			created = append(created, notification)
		}
		return nil
	})
	if err != nil {
		if ferr, ok := err.(*fiber.Error); ok {
			return utils.ErrorResponse(c, ferr.Code, ferr.Message, nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to submit application", err)
	}

	pushNotifications(ac.Hub, created)

	ac.Logger.WithFields(logrus.Fields{
		"user_id":        user.ID,
		"application_id": application.ID,
	}).Info("group application submitted")

	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(application))
}

// SubmitWolfPackApplication files a direct application to an existing team
func (ac *ApplicationController) SubmitWolfPackApplication(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var input struct {
		TeamID      uint   `json:"team_id" validate:"required"`
		ResumeID    string `json:"resume_id" validate:"required"`
		CoverLetter string `json:"cover_letter" validate:"omitempty,max=5000"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	var application models.Application

	err := ac.DB.Transaction(func(tx *gorm.DB) error {
		var team models.Team
		if err := tx.First(&team, input.TeamID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Team not found")
		}
		if team.CurrentMembers >= team.MaxMembers {
			return fiber.NewError(fiber.StatusConflict, "Team is full")
		}

		var count int64
		if err := tx.Model(&models.Application{}).
			Where("applicant_id = ? AND team_id = ? AND status <> ?",
				user.ID, input.TeamID, models.ApplicationStatusRejected).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return fiber.NewError(fiber.StatusConflict, "You have already applied to this team")
		}

		application = models.Application{
			ApplicantID: user.ID,
			TeamID:      &input.TeamID,
			Type:        models.ApplicationTypeWolfPack,
			Status:      models.ApplicationStatusPending,
			ResumeID:    input.ResumeID,
			CoverLetter: input.CoverLetter,
		}
		return tx.Create(&application).Error
	})
	if err != nil {
		if ferr, ok := err.(*fiber.Error); ok {
			return utils.ErrorResponse(c, ferr.Code, ferr.Message, nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to submit application", err)
	}

	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(application))
}

// GetMyApplications lists the caller's applications, newest first, with the
// target team joined in for wolf pack entries
func (ac *ApplicationController) GetMyApplications(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var applications []models.Application
	if err := ac.DB.Preload("Team").
		Where("applicant_id = ?", user.ID).
		Order("created_at DESC").
		Find(&applications).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load applications", err)
	}

	return c.JSON(utils.SuccessResponse(applications))
}

type pendingApplication struct {
	models.Application
	Profile *models.Profile `json:"profile"`
}

// GetPendingGroupApplications lists every pending group application with
// the applicant's profile, for the admin review queue
func (ac *ApplicationController) GetPendingGroupApplications(c *fiber.Ctx) error {
	var applications []models.Application
	if err := ac.DB.
		Where("type = ? AND status = ?", models.ApplicationTypeGroup, models.ApplicationStatusPending).
		Order("created_at DESC").
		Find(&applications).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load applications", err)
	}

	result := make([]pendingApplication, 0, len(applications))
	for _, app := range applications {
		entry := pendingApplication{Application: app}
		var profile models.Profile
		if err := ac.DB.Where("user_id = ?", app.ApplicantID).First(&profile).Error; err == nil {
			entry.Profile = &profile
		}
		result = append(result, entry)
	}

	return c.JSON(utils.SuccessResponse(result))
}

// ReviewApplication sets the review outcome and notifies the applicant
func (ac *ApplicationController) ReviewApplication(c *fiber.Ctx) error {
	reviewer := c.Locals("user").(*models.User)
	applicationID := utils.ParseUint(c.Params("id"))

	var input struct {
		Status      string `json:"status" validate:"required,oneof=approved rejected shortlisted"`
		ReviewNotes string `json:"review_notes" validate:"omitempty,max=5000"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	var application models.Application
	var notification models.Notification

	err := ac.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&application, applicationID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Application not found")
		}

		now := time.Now()
		if err := tx.Model(&application).Updates(map[string]interface{}{
			"status":       input.Status,
			"reviewed_at":  now,
			"reviewed_by":  reviewer.ID,
			"review_notes": input.ReviewNotes,
		}).Error; err != nil {
			return err
		}

		notification = models.Notification{
			UserID:    application.ApplicantID,
			Type:      models.NotificationApplicationUpdate,
			Title:     "Application Update",
			Message:   fmt.Sprintf("Your application has been %s", input.Status),
			RelatedID: strconv.Itoa(int(application.ID)),
		}
		return tx.Create(&notification).Error
	})
	if err != nil {
		if ferr, ok := err.(*fiber.Error); ok {
			return utils.ErrorResponse(c, ferr.Code, ferr.Message, nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to review application", err)
	}

	pushNotifications(ac.Hub, []models.Notification{notification})

	ac.Logger.WithFields(logrus.Fields{
		"application_id": application.ID,
		"status":         input.Status,
		"reviewed_by":    reviewer.ID,
	}).Info("application reviewed")

	return c.JSON(utils.SuccessResponse(application))
}
