package handlers

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/issue-tracker-api/internal/constants"
	"github.com/yukikurage/issue-tracker-api/internal/middleware"
	"github.com/yukikurage/issue-tracker-api/internal/repository"
	"github.com/yukikurage/issue-tracker-api/internal/services"
	"gorm.io/gorm"
)

// App bundles the repositories and services behind the HTTP API.
type App struct {
	ProjectRepo repository.ProjectRepository
	TaskRepo    repository.TaskRepository

	Auth        *services.AuthService
	Users       *services.UserService
	Roles       *services.RoleService
	Projects    *services.ProjectService
	Tasks       *services.TaskService
	Comments    *services.CommentService
	TimeLogs    *services.TimeLogService
	Maintenance *services.MaintenanceService
}

// NewApp wires repositories and services on top of db. drafter may be nil,
// in which case task drafting answers 503.
func NewApp(db *gorm.DB, drafter services.TaskDrafter) *App {
	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	maintenance := services.NewMaintenanceService(taskRepo)

	return &App{
		ProjectRepo: projectRepo,
		TaskRepo:    taskRepo,
		Auth:        services.NewAuthService(userRepo),
		Users:       services.NewUserService(userRepo, projectRepo),
		Roles:       services.NewRoleService(roleRepo),
		Projects:    services.NewProjectService(projectRepo, userRepo, roleRepo),
		Tasks:       services.NewTaskService(taskRepo, projectRepo, maintenance, drafter),
		Comments:    services.NewCommentService(repository.NewCommentRepository(db)),
		TimeLogs:    services.NewTimeLogService(repository.NewTimeLogRepository(db)),
		Maintenance: maintenance,
	}
}

// NewRouter builds the gin engine with sessions backed by store.
func NewRouter(app *App, store sessions.Store) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.RequestLogger(), gin.Recovery())
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Issue Tracker API is running",
		})
	})

	RegisterRoutes(r.Group("/api"), app)
	return r
}

// RegisterRoutes mounts every API endpoint on api.
func RegisterRoutes(api *gin.RouterGroup, app *App) {
	authHandler := NewAuthHandler(app.Auth)
	userHandler := NewUserHandler(app.Users)
	roleHandler := NewRoleHandler(app.Roles)
	projectHandler := NewProjectHandler(app.Projects, app.Tasks)
	taskHandler := NewTaskHandler(app.Tasks)
	activityHandler := NewActivityHandler(app.Comments, app.TimeLogs)

	projectAccess := middleware.RequireProjectAccess(app.ProjectRepo)
	managerOnly := middleware.RequireProjectManager()
	taskAccess := middleware.RequireTaskAccess(app.TaskRepo, app.ProjectRepo)

	// Auth routes (public)
	auth := api.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/logout", authHandler.Logout)
	}
	api.POST("/users", authHandler.Signup)

	users := api.Group("/users")
	users.Use(middleware.RequireAuth())
	{
		users.GET("", userHandler.ListUsers)
		users.GET("/me", authHandler.GetCurrentUser)
		users.GET("/project-role", userHandler.ProjectRole)
		users.GET("/:id", userHandler.GetUser)
		users.PATCH("/:id", userHandler.UpdateUser)
		users.DELETE("/:id", userHandler.DeleteUser)
	}

	roles := api.Group("/roles")
	roles.Use(middleware.RequireAuth())
	{
		roles.GET("", roleHandler.ListRoles)
		roles.POST("", roleHandler.CreateRole)
		roles.GET("/:id", roleHandler.GetRole)
		roles.PATCH("/:id", roleHandler.UpdateRole)
		roles.DELETE("/:id", roleHandler.DeleteRole)
	}

	projects := api.Group("/projects")
	projects.Use(middleware.RequireAuth())
	{
		projects.GET("", projectHandler.ListProjects)
		projects.POST("", projectHandler.CreateProject)
		projects.GET("/:id", projectAccess, projectHandler.GetProject)
		projects.PATCH("/:id", projectAccess, managerOnly, projectHandler.UpdateProject)
		projects.DELETE("/:id", projectAccess, managerOnly, projectHandler.DeleteProject)
		projects.GET("/:id/members", projectAccess, projectHandler.ListMembers)
		projects.POST("/:id/members", projectAccess, managerOnly, projectHandler.AddMembers)
		projects.POST("/:id/members/role", projectAccess, managerOnly, projectHandler.ChangeMemberRole)
		projects.DELETE("/:id/members/:user_id", projectAccess, managerOnly, projectHandler.RemoveMember)
		projects.GET("/:id/candidates", projectAccess, projectHandler.ListCandidates)
		projects.GET("/:id/info", projectAccess, projectHandler.GetProjectInfo)
		projects.POST("/:id/tasks/draft", projectAccess, projectHandler.DraftTasks)
	}

	tasks := api.Group("/tasks")
	tasks.Use(middleware.RequireAuth())
	{
		tasks.GET("", taskHandler.ListTasks)
		tasks.POST("", taskHandler.CreateTask)
		tasks.GET("/:id", taskAccess, taskHandler.GetTask)
		tasks.PATCH("/:id", taskAccess, taskHandler.UpdateTask)
		tasks.DELETE("/:id", taskAccess, taskHandler.DeleteTask)
		tasks.GET("/:id/related", taskAccess, taskHandler.RelatedTasks)
		tasks.POST("/:id/connect", taskAccess, taskHandler.Connect)
		tasks.GET("/:id/comments", taskAccess, activityHandler.ListComments)
		tasks.POST("/:id/comments", taskAccess, activityHandler.CreateComment)
		tasks.DELETE("/:id/comments/:comment_id", taskAccess, activityHandler.DeleteComment)
		tasks.GET("/:id/time-logs", taskAccess, activityHandler.ListTimeLogs)
		tasks.POST("/:id/time-logs", taskAccess, activityHandler.CreateTimeLog)
		tasks.DELETE("/:id/time-logs/:log_id", taskAccess, activityHandler.DeleteTimeLog)
	}
}
