package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"teamforge/models"
	"teamforge/utils"
)

type ProjectController struct {
	DB     *gorm.DB
	Logger *logrus.Logger
}

func NewProjectController(db *gorm.DB, logger *logrus.Logger) *ProjectController {
	return &ProjectController{
		DB:     db,
		Logger: logger,
	}
}

// CreateProject posts a new opportunity with status "open"
func (pc *ProjectController) CreateProject(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var input struct {
		Title               string   `json:"title" validate:"required,max=200"`
		Description         string   `json:"description" validate:"omitempty,max=5000"`
		Category            string   `json:"category" validate:"required,oneof=startup learning freelance open_source"`
		RequiredSkills      []string `json:"required_skills"`
		TimeCommitment      string   `json:"time_commitment" validate:"required,oneof=part_time full_time flexible"`
		Duration            string   `json:"duration" validate:"omitempty,max=200"`
		Compensation        string   `json:"compensation" validate:"omitempty,max=200"`
		SpotsAvailable      int      `json:"spots_available" validate:"required,min=1"`
		ApplicationDeadline *int64   `json:"application_deadline"`
		Tags                []string `json:"tags"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	project := models.Project{
		Title:          input.Title,
		Description:    input.Description,
		Category:       input.Category,
		Status:         models.ProjectStatusOpen,
		CreatedBy:      user.ID,
		RequiredSkills: models.StringList(input.RequiredSkills),
		TimeCommitment: input.TimeCommitment,
		Duration:       input.Duration,
		Compensation:   input.Compensation,
		SpotsAvailable: input.SpotsAvailable,
		Tags:           models.StringList(input.Tags),
	}
	if input.ApplicationDeadline != nil {
		deadline := time.UnixMilli(*input.ApplicationDeadline)
		project.ApplicationDeadline = &deadline
	}

	if err := pc.DB.Create(&project).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create project", err)
	}

	pc.Logger.WithFields(logrus.Fields{
		"project_id": project.ID,
		"created_by": user.ID,
	}).Info("project created")

	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(project))
}

type projectSummary struct {
	models.Project
	CreatorProfile *models.Profile `json:"creator"`
}

// GetProjects lists projects, optionally filtered by category or status,
// newest first, with creator profiles joined in
func (pc *ProjectController) GetProjects(c *fiber.Ctx) error {
	query := pc.DB.Order("created_at DESC")
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	} else if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var projects []models.Project
	if err := query.Find(&projects).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load projects", err)
	}

	result := make([]projectSummary, 0, len(projects))
	for _, project := range projects {
		entry := projectSummary{Project: project}
		var creator models.Profile
		if err := pc.DB.Where("user_id = ?", project.CreatedBy).First(&creator).Error; err == nil {
			entry.CreatorProfile = &creator
		}
		result = append(result, entry)
	}

	return c.JSON(utils.SuccessResponse(result))
}

// GetProjectDetails returns one project with its creator's profile
func (pc *ProjectController) GetProjectDetails(c *fiber.Ctx) error {
	projectID := utils.ParseUint(c.Params("id"))

	var project models.Project
	if err := pc.DB.First(&project, projectID).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Project not found", nil)
	}

	entry := projectSummary{Project: project}
	var creator models.Profile
	if err := pc.DB.Where("user_id = ?", project.CreatedBy).First(&creator).Error; err == nil {
		entry.CreatorProfile = &creator
	}

	return c.JSON(utils.SuccessResponse(entry))
}

// GetMyProjects lists the projects the caller created
func (pc *ProjectController) GetMyProjects(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var projects []models.Project
	if err := pc.DB.Where("created_by = ?", user.ID).
		Order("created_at DESC").
		Find(&projects).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load projects", err)
	}

	return c.JSON(utils.SuccessResponse(projects))
}

// UpdateProjectStatus moves a project through its lifecycle, creator-only
func (pc *ProjectController) UpdateProjectStatus(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	projectID := utils.ParseUint(c.Params("id"))

	var input struct {
		Status string `json:"status" validate:"required,oneof=open in_progress completed paused"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	var project models.Project
	if err := pc.DB.First(&project, projectID).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Project not found", nil)
	}

	if project.CreatedBy != user.ID {
		return utils.ErrorResponse(c, fiber.StatusConflict, "Not authorized to update this project", nil)
	}

	if err := pc.DB.Model(&project).Update("status", input.Status).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update project", err)
	}

	return c.JSON(utils.SuccessResponse(project))
}
