package routes

import (
	controller "teamforge/controllers"
	"teamforge/middleware"
	"teamforge/realtime"
	"teamforge/storage"
	"teamforge/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/websocket/v2"
	"gorm.io/gorm"
)

func SetupAuthRoutes(app *fiber.App) {
	auth := app.Group("/auth", logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	// Public auth endpoints
	auth.Post("/register", controller.Register)
	auth.Post("/login", controller.Login)
	auth.Post("/refresh", controller.RefreshToken)

	// Protected auth endpoints
	protectedAuth := auth.Group("", middleware.Protected())
	protectedAuth.Post("/logout", controller.Logout)
	protectedAuth.Get("/me", controller.GetCurrentUser)
}

func SetupAPIRoutes(app *fiber.App, db *gorm.DB, hub *realtime.Hub, blob storage.BlobStore) {
	appLogger := utils.NewLogger()

	profileController := controller.NewProfileController(db, blob, appLogger)
	applicationController := controller.NewApplicationController(db, hub, appLogger)
	teamController := controller.NewTeamController(db, hub, appLogger)
	taskController := controller.NewTaskController(db, hub, appLogger)
	chatController := controller.NewChatController(db, hub, blob, appLogger)
	notificationController := controller.NewNotificationController(db, hub, appLogger)
	projectController := controller.NewProjectController(db, appLogger)
	adminController := controller.NewAdminController(db, appLogger)

	api := app.Group("/api/v1", middleware.Protected(), logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	// Profile routes
	profile := api.Group("/profiles")
	profile.Get("/me", profileController.GetCurrentProfile)
	profile.Post("/", profileController.CreateProfile)
	profile.Put("/me", profileController.UpdateProfile)
	profile.Post("/me/resume", profileController.UploadResume)
	profile.Get("/resume-url", profileController.GetResumeURL)
	api.Post("/uploads", profileController.GenerateUploadURL)

	// Application routes; submissions are rate limited per user
	application := api.Group("/applications")
	application.Post("/group", middleware.ApplicationRateLimiter(), applicationController.SubmitGroupApplication)
	application.Post("/wolf-pack", middleware.ApplicationRateLimiter(), applicationController.SubmitWolfPackApplication)
	application.Get("/mine", applicationController.GetMyApplications)
	application.Get("/pending-group", middleware.AdminOnly(), applicationController.GetPendingGroupApplications)
	application.Put("/:id/review", middleware.AdminOnly(), applicationController.ReviewApplication)

	// Team routes. "mine" before ":id" so it is not shadowed.
	team := api.Group("/teams")
	team.Post("/", teamController.CreateTeam)
	team.Get("/", teamController.GetTeamsByType)
	team.Get("/mine", teamController.GetMyTeams)
	team.Post("/form-groups", middleware.AdminOnly(), teamController.FormGroups)
	team.Get("/:id", teamController.GetTeamDetails)
	team.Post("/:id/join", teamController.JoinTeam)

	// Task routes
	api.Post("/tasks", middleware.AdminOnly(), taskController.AssignTask)
	api.Get("/tasks", middleware.AdminOnly(), taskController.GetAllTasks)
	api.Put("/tasks/:id/status", taskController.UpdateTaskStatus)
	team.Get("/:id/tasks", taskController.GetTeamTasks)

	// Chat routes
	team.Post("/:id/messages", chatController.SendMessage)
	team.Get("/:id/messages", chatController.GetTeamMessages)
	api.Delete("/messages/:id", chatController.DeleteMessage)

	// Notification routes
	notification := api.Group("/notifications")
	notification.Get("/", notificationController.GetMyNotifications)
	notification.Get("/unread-count", notificationController.GetUnreadCount)
	notification.Put("/read-all", notificationController.MarkAllAsRead)
	notification.Put("/:id/read", notificationController.MarkAsRead)

	// Project routes
	project := api.Group("/projects")
	project.Post("/", projectController.CreateProject)
	project.Get("/", projectController.GetProjects)
	project.Get("/mine", projectController.GetMyProjects)
	project.Get("/:id", projectController.GetProjectDetails)
	project.Put("/:id/status", projectController.UpdateProjectStatus)

	// Admin routes
	admin := api.Group("/admin", middleware.AdminOnly())
	admin.Get("/settings/:key", adminController.GetSetting)
	admin.Put("/settings/:key", adminController.SetSetting)
	admin.Get("/stats", adminController.GetPlatformStats)

	// Websocket streams; the JWT middleware runs before the upgrade
	team.Get("/:id/stream", websocket.New(chatController.HandleTeamStreamWS))
	notification.Get("/stream", websocket.New(notificationController.HandleNotificationStreamWS))
}

func SetupRoutes(app *fiber.App, db *gorm.DB, hub *realtime.Hub, blob storage.BlobStore) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	SetupAuthRoutes(app)
	SetupAPIRoutes(app, db, hub, blob)

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   "Not Found",
			"message": "The requested resource was not found",
		})
	})
}
