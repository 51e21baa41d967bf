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

type TaskController struct {
	DB     *gorm.DB
	Hub    *realtime.Hub
	Logger *logrus.Logger
}

func NewTaskController(db *gorm.DB, hub *realtime.Hub, logger *logrus.Logger) *TaskController {
	return &TaskController{
		DB:     db,
		Hub:    hub,
		Logger: logger,
	}
}

// AssignTask creates a task for a team and notifies every current member.
// The insert and the notification fan-out commit together.
func (kc *TaskController) AssignTask(c *fiber.Ctx) error {
	admin := c.Locals("user").(*models.User)

	var input struct {
		TeamID      uint   `json:"team_id" validate:"required"`
		Title       string `json:"title" validate:"required,max=200"`
		Description string `json:"description" validate:"omitempty,max=5000"`
		DueDate     int64  `json:"due_date" validate:"required"`
		Priority    string `json:"priority" validate:"required,oneof=low medium high"`
		Week        int    `json:"week" validate:"required,min=1"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	var task models.Task
	var created []models.Notification

	err := kc.DB.Transaction(func(tx *gorm.DB) error {
		var team models.Team
		if err := tx.First(&team, input.TeamID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Team not found")
		}

		task = models.Task{
			TeamID:      input.TeamID,
			Title:       input.Title,
			Description: input.Description,
			AssignedBy:  admin.ID,
			DueDate:     time.UnixMilli(input.DueDate),
			Status:      models.TaskStatusAssigned,
			Priority:    input.Priority,
			Week:        input.Week,
		}
		if err := tx.Create(&task).Error; err != nil {
			return err
		}

		var members []models.TeamMember
		if err := tx.Where("team_id = ?", input.TeamID).Find(&members).Error; err != nil {
			return err
		}
		for _, member := range members {
			notification := models.Notification{
				UserID:    member.UserID,
				Type:      models.NotificationTaskAssigned,
				Title:     "New Task Assigned",
				Message:   fmt.Sprintf("Your team has been assigned: %s", input.Title),
				RelatedID: strconv.Itoa(int(task.ID)),
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
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to assign task", err)
	}

	pushNotifications(kc.Hub, created)

	kc.Logger.WithFields(logrus.Fields{
		"task_id":     task.ID,
		"team_id":     input.TeamID,
		"assigned_by": admin.ID,
	}).Info("task assigned")

	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(task))
}

// GetTeamTasks lists a team's tasks, newest first
func (kc *TaskController) GetTeamTasks(c *fiber.Ctx) error {
	teamID := utils.ParseUint(c.Params("id"))

	var tasks []models.Task
	if err := kc.DB.Where("team_id = ?", teamID).
		Order("created_at DESC").
		Find(&tasks).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load tasks", err)
	}

	return c.JSON(utils.SuccessResponse(tasks))
}

// UpdateTaskStatus lets a member of the task's team move it through its
// lifecycle. Completion stamps completed_at.
func (kc *TaskController) UpdateTaskStatus(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	taskID := utils.ParseUint(c.Params("id"))

	var input struct {
		Status          string `json:"status" validate:"required,oneof=assigned in_progress completed overdue"`
		SubmissionNotes string `json:"submission_notes" validate:"omitempty,max=5000"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	var task models.Task
	if err := kc.DB.First(&task, taskID).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Task not found", nil)
	}

	var count int64
	if err := kc.DB.Model(&models.TeamMember{}).
		Where("team_id = ? AND user_id = ?", task.TeamID, user.ID).
		Count(&count).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to check membership", err)
	}
	if count == 0 {
		return utils.ErrorResponse(c, fiber.StatusConflict, "Not authorized to update this task", nil)
	}

	updates := map[string]interface{}{"status": input.Status}
	if input.SubmissionNotes != "" {
		updates["submission_notes"] = input.SubmissionNotes
	}
	if input.Status == models.TaskStatusCompleted {
		updates["completed_at"] = time.Now()
	}

	if err := kc.DB.Model(&task).Updates(updates).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update task", err)
	}

	return c.JSON(utils.SuccessResponse(task))
}

type taskWithTeam struct {
	models.Task
	TeamInfo *models.Team `json:"team"`
}

// GetAllTasks lists every task for the admin view, optionally filtered by
// week, with the owning team joined in
func (kc *TaskController) GetAllTasks(c *fiber.Ctx) error {
	query := kc.DB.Order("created_at DESC")
	if week := c.QueryInt("week"); week > 0 {
		query = query.Where("week = ?", week)
	}

	var tasks []models.Task
	if err := query.Find(&tasks).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load tasks", err)
	}

	result := make([]taskWithTeam, 0, len(tasks))
	for _, task := range tasks {
		entry := taskWithTeam{Task: task}
		var team models.Team
		if err := kc.DB.First(&team, task.TeamID).Error; err == nil {
			entry.TeamInfo = &team
		}
		result = append(result, entry)
	}

	return c.JSON(utils.SuccessResponse(result))
}
