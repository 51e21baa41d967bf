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

type TeamController struct {
	DB     *gorm.DB
	Hub    *realtime.Hub
	Logger *logrus.Logger
}

func NewTeamController(db *gorm.DB, hub *realtime.Hub, logger *logrus.Logger) *TeamController {
	return &TeamController{
		DB:     db,
		Hub:    hub,
		Logger: logger,
	}
}

// CreateTeam inserts the team with the creator as leader in one transaction
func (tc *TeamController) CreateTeam(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var input struct {
		Name         string   `json:"name" validate:"required,max=200"`
		Description  string   `json:"description" validate:"omitempty,max=2000"`
		Type         string   `json:"type" validate:"required,oneof=group_application wolf_pack startup"`
		MaxMembers   int      `json:"max_members" validate:"required,min=1,max=20"`
		Tags         []string `json:"tags"`
		Requirements string   `json:"requirements" validate:"omitempty,max=2000"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	team := models.Team{
		Name:           input.Name,
		Description:    input.Description,
		Type:           input.Type,
		Status:         models.TeamStatusForming,
		MaxMembers:     input.MaxMembers,
		CurrentMembers: 1,
		CreatedBy:      user.ID,
		Tags:           models.StringList(input.Tags),
		Requirements:   input.Requirements,
	}

	err := tc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&team).Error; err != nil {
			return err
		}
		membership := models.TeamMember{
			TeamID:   team.ID,
			UserID:   user.ID,
			Role:     models.RoleLeader,
			JoinedAt: time.Now(),
		}
		return tx.Create(&membership).Error
	})
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create team", err)
	}

	tc.Logger.WithFields(logrus.Fields{
		"team_id":    team.ID,
		"created_by": user.ID,
		"type":       team.Type,
	}).Info("team created")

	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(team))
}

type teamSummary struct {
	models.Team
	Creator      *models.Profile `json:"creator"`
	MembersCount int64           `json:"members_count"`
}

// GetTeamsByType lists forming teams of the given type, newest first, with
// the creator's profile and live member count joined in
func (tc *TeamController) GetTeamsByType(c *fiber.Ctx) error {
	teamType := c.Query("type")
	if teamType == "" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "type is required", nil)
	}

	var teams []models.Team
	if err := tc.DB.
		Where("type = ? AND status = ?", teamType, models.TeamStatusForming).
		Order("created_at DESC").
		Find(&teams).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load teams", err)
	}

	result := make([]teamSummary, 0, len(teams))
	for _, team := range teams {
		entry := teamSummary{Team: team}
		var creator models.Profile
		if err := tc.DB.Where("user_id = ?", team.CreatedBy).First(&creator).Error; err == nil {
			entry.Creator = &creator
		}
		if err := tc.DB.Model(&models.TeamMember{}).
			Where("team_id = ?", team.ID).
			Count(&entry.MembersCount).Error; err != nil {
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load teams", err)
		}
		result = append(result, entry)
	}

	return c.JSON(utils.SuccessResponse(result))
}

type memberTeam struct {
	models.Team
	Role string `json:"role"`
}

// GetMyTeams lists the teams the caller belongs to with their role in each
func (tc *TeamController) GetMyTeams(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var memberships []models.TeamMember
	if err := tc.DB.Where("user_id = ?", user.ID).Find(&memberships).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load memberships", err)
	}

	result := make([]memberTeam, 0, len(memberships))
	for _, membership := range memberships {
		var team models.Team
		if err := tc.DB.First(&team, membership.TeamID).Error; err != nil {
			continue
		}
		result = append(result, memberTeam{Team: team, Role: membership.Role})
	}

	return c.JSON(utils.SuccessResponse(result))
}

type teamMemberDetail struct {
	models.TeamMember
	Profile *models.Profile `json:"profile"`
}

type teamDetails struct {
	models.Team
	MemberDetails []teamMemberDetail `json:"members"`
}

// GetTeamDetails returns the team with all members and their profiles
func (tc *TeamController) GetTeamDetails(c *fiber.Ctx) error {
	teamID := utils.ParseUint(c.Params("id"))

	var team models.Team
	if err := tc.DB.First(&team, teamID).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Team not found", nil)
	}

	var members []models.TeamMember
	if err := tc.DB.Where("team_id = ?", team.ID).Find(&members).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load members", err)
	}

	details := teamDetails{Team: team, MemberDetails: make([]teamMemberDetail, 0, len(members))}
	for _, member := range members {
		entry := teamMemberDetail{TeamMember: member}
		var profile models.Profile
		if err := tc.DB.Where("user_id = ?", member.UserID).First(&profile).Error; err == nil {
			entry.Profile = &profile
		}
		details.MemberDetails = append(details.MemberDetails, entry)
	}

	return c.JSON(utils.SuccessResponse(details))
}

// JoinTeam adds the caller to a team. Capacity is enforced by a conditional
// increment so two concurrent joins cannot both pass the check; the counter
// update and the membership insert share one transaction.
func (tc *TeamController) JoinTeam(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	teamID := utils.ParseUint(c.Params("id"))

	err := tc.DB.Transaction(func(tx *gorm.DB) error {
		var team models.Team
		if err := tx.First(&team, teamID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Team not found")
		}

		var count int64
		if err := tx.Model(&models.TeamMember{}).
			Where("team_id = ? AND user_id = ?", teamID, user.ID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return fiber.NewError(fiber.StatusConflict, "Already a member of this team")
		}

		res := tx.Model(&models.Team{}).
			Where("id = ? AND current_members < max_members", teamID).
			UpdateColumn("current_members", gorm.Expr("current_members + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusConflict, "Team is full")
		}

		membership := models.TeamMember{
			TeamID:   teamID,
			UserID:   user.ID,
			Role:     models.RoleMember,
			JoinedAt: time.Now(),
		}
		return tx.Create(&membership).Error
	})
	if err != nil {
		if ferr, ok := err.(*fiber.Error); ok {
			return utils.ErrorResponse(c, ferr.Code, ferr.Message, nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to join team", err)
	}

	tc.Logger.WithFields(logrus.Fields{
		"team_id": teamID,
		"user_id": user.ID,
	}).Info("user joined team")

	return c.JSON(utils.SuccessResponse(fiber.Map{"team_id": teamID}))
}

// groupSizeSettings reads the formation sizes, falling back to 4/2
func (tc *TeamController) groupSizeSettings(tx *gorm.DB) (int, int) {
	groupSize, minSize := 4, 2
	var setting models.AdminSetting
	if err := tx.Where("key = ?", models.SettingGroupSize).First(&setting).Error; err == nil {
		if v, err := strconv.Atoi(setting.Value); err == nil && v > 1 {
			groupSize = v
		}
	}
	if err := tx.Where("key = ?", models.SettingMinGroupSize).First(&setting).Error; err == nil {
		if v, err := strconv.Atoi(setting.Value); err == nil && v > 0 {
			minSize = v
		}
	}
	return groupSize, minSize
}

// FormGroups partitions the given applications into consecutive groups of
// the configured size. Every chunk that reaches the minimum size becomes an
// active team: members added, applications approved, one notification per
// member. A trailing chunk below the minimum is skipped entirely, its
// applications left pending. The whole batch commits or none of it does.
func (tc *TeamController) FormGroups(c *fiber.Ctx) error {
	admin := c.Locals("user").(*models.User)

	var input struct {
		ApplicationIDs []uint `json:"application_ids" validate:"required,min=1"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	var teamIDs []uint
	var created []models.Notification

	err := tc.DB.Transaction(func(tx *gorm.DB) error {
		groupSize, minSize := tc.groupSizeSettings(tx)

		// Resolve in the order given; unknown ids are skipped
		applications := make([]models.Application, 0, len(input.ApplicationIDs))
		for _, id := range input.ApplicationIDs {
			var app models.Application
			if err := tx.First(&app, id).Error; err != nil {
				continue
			}
			applications = append(applications, app)
		}

		for i := 0; i < len(applications); i += groupSize {
			end := i + groupSize
			if end > len(applications) {
				end = len(applications)
			}
			chunk := applications[i:end]
			if len(chunk) < minSize {
				continue
			}

			now := time.Now()
			team := models.Team{
				Name:           fmt.Sprintf("Group %d", i/groupSize+1),
				Description:    "Auto-formed group from applications",
				Type:           models.TeamTypeGroupApplication,
				Status:         models.TeamStatusActive,
				MaxMembers:     groupSize,
				CurrentMembers: len(chunk),
				CreatedBy:      admin.ID,
				FormedAt:       &now,
				Tags:           models.StringList{},
			}
			if err := tx.Create(&team).Error; err != nil {
				return err
			}

			for _, app := range chunk {
				membership := models.TeamMember{
					TeamID:   team.ID,
					UserID:   app.ApplicantID,
					Role:     models.RoleMember,
					JoinedAt: now,
				}
				if err := tx.Create(&membership).Error; err != nil {
					return err
				}

				if err := tx.Model(&models.Application{}).
					Where("id = ?", app.ID).
					Updates(map[string]interface{}{
						"status":      models.ApplicationStatusApproved,
						"reviewed_at": now,
						"reviewed_by": admin.ID,
					}).Error; err != nil {
					return err
				}

				notification := models.Notification{
					UserID:    app.ApplicantID,
					Type:      models.NotificationTeamFormed,
					Title:     "Team Formed!",
					Message:   "You've been placed in a team. Check your dashboard!",
					RelatedID: strconv.Itoa(int(team.ID)),
				}
				if err := tx.Create(&notification).Error; err != nil {
					return err
				}
				created = append(created, notification)
			}

			teamIDs = append(teamIDs, team.ID)
		}
		return nil
	})
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to form groups", err)
	}

	pushNotifications(tc.Hub, created)

	tc.Logger.WithFields(logrus.Fields{
		"teams_formed": len(teamIDs),
		"formed_by":    admin.ID,
	}).Info("groups formed from applications")

	return c.JSON(utils.SuccessResponse(fiber.Map{"team_ids": teamIDs}))
}
