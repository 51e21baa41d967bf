package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"teamforge/models"
	"teamforge/storage"
	"teamforge/utils"
)

type ProfileController struct {
	DB     *gorm.DB
	Blob   storage.BlobStore
	Logger *logrus.Logger
}

func NewProfileController(db *gorm.DB, blob storage.BlobStore, logger *logrus.Logger) *ProfileController {
	return &ProfileController{
		DB:     db,
		Blob:   blob,
		Logger: logger,
	}
}

// GetCurrentProfile returns the caller's profile, or null data before one
// has been created
func (pc *ProfileController) GetCurrentProfile(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var profile models.Profile
	if err := pc.DB.Where("user_id = ?", user.ID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(utils.SuccessResponse(nil))
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load profile", err)
	}

	return c.JSON(utils.SuccessResponse(profile))
}

// CreateProfile creates the caller's profile. One profile per user.
func (pc *ProfileController) CreateProfile(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var input struct {
		FirstName    string   `json:"first_name" validate:"required,max=100"`
		LastName     string   `json:"last_name" validate:"required,max=100"`
		Bio          string   `json:"bio" validate:"omitempty,max=2000"`
		Skills       []string `json:"skills"`
		Experience   string   `json:"experience" validate:"required,oneof=beginner intermediate advanced"`
		LinkedinURL  string   `json:"linkedin_url" validate:"omitempty,url"`
		GithubURL    string   `json:"github_url" validate:"omitempty,url"`
		PortfolioURL string   `json:"portfolio_url" validate:"omitempty,url"`
	}

	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	var existing models.Profile
	if err := pc.DB.Where("user_id = ?", user.ID).First(&existing).Error; err == nil {
		return utils.ErrorResponse(c, fiber.StatusConflict, "Profile already exists", nil)
	}

	profile := models.Profile{
		UserID:       user.ID,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Bio:          input.Bio,
		Skills:       models.StringList(input.Skills),
		Experience:   input.Experience,
		LinkedinURL:  input.LinkedinURL,
		GithubURL:    input.GithubURL,
		PortfolioURL: input.PortfolioURL,
		IsVerified:   false,
	}

	if err := pc.DB.Create(&profile).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create profile", err)
	}

	pc.Logger.WithFields(logrus.Fields{
		"user_id":    user.ID,
		"profile_id": profile.ID,
	}).Info("profile created")

	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(profile))
}

// UpdateProfile patches only the fields present in the request
func (pc *ProfileController) UpdateProfile(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var input struct {
		FirstName    *string  `json:"first_name" validate:"omitempty,max=100"`
		LastName     *string  `json:"last_name" validate:"omitempty,max=100"`
		Bio          *string  `json:"bio" validate:"omitempty,max=2000"`
		Skills       []string `json:"skills"`
		Experience   *string  `json:"experience" validate:"omitempty,oneof=beginner intermediate advanced"`
		LinkedinURL  *string  `json:"linkedin_url" validate:"omitempty,url"`
		GithubURL    *string  `json:"github_url" validate:"omitempty,url"`
		PortfolioURL *string  `json:"portfolio_url" validate:"omitempty,url"`
	}

	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	var profile models.Profile
	if err := pc.DB.Where("user_id = ?", user.ID).First(&profile).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Profile not found", nil)
	}

	updates := map[string]interface{}{}
	if input.FirstName != nil {
		updates["first_name"] = *input.FirstName
	}
	if input.LastName != nil {
		updates["last_name"] = *input.LastName
	}
	if input.Bio != nil {
		updates["bio"] = *input.Bio
	}
	if input.Skills != nil {
		updates["skills"] = models.StringList(input.Skills)
	}
	if input.Experience != nil {
		updates["experience"] = *input.Experience
	}
	if input.LinkedinURL != nil {
		updates["linkedin_url"] = *input.LinkedinURL
	}
	if input.GithubURL != nil {
		updates["github_url"] = *input.GithubURL
	}
	if input.PortfolioURL != nil {
		updates["portfolio_url"] = *input.PortfolioURL
	}

	if len(updates) > 0 {
		if err := pc.DB.Model(&profile).Updates(updates).Error; err != nil {
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update profile", err)
		}
	}

	return c.JSON(utils.SuccessResponse(profile))
}

// GenerateUploadURL returns a presigned URL the client uploads directly to,
// plus the file id to reference afterwards
func (pc *ProfileController) GenerateUploadURL(c *fiber.Ctx) error {
	fileID, uploadURL, err := pc.Blob.GenerateUploadURL(c.Context(), "resumes")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to generate upload URL", err)
	}

	return c.JSON(utils.SuccessResponse(fiber.Map{
		"file_id":    fileID,
		"upload_url": uploadURL,
	}))
}

// UploadResume records the uploaded resume's file id on the profile
func (pc *ProfileController) UploadResume(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var input struct {
		ResumeID string `json:"resume_id" validate:"required"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	var profile models.Profile
	if err := pc.DB.Where("user_id = ?", user.ID).First(&profile).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Profile not found", nil)
	}

	if err := pc.DB.Model(&profile).Update("resume_id", input.ResumeID).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to save resume", err)
	}

	return c.JSON(utils.SuccessResponse(fiber.Map{"resume_id": input.ResumeID}))
}

// GetResumeURL resolves a resume file id to a presigned download URL
func (pc *ProfileController) GetResumeURL(c *fiber.Ctx) error {
	resumeID := c.Query("resume_id")
	if resumeID == "" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "resume_id is required", nil)
	}

	fileURL, err := pc.Blob.GetFileURL(c.Context(), resumeID)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to resolve file URL", err)
	}

	return c.JSON(utils.SuccessResponse(fiber.Map{"url": fileURL}))
}
