package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/openswad/swad-backend/internal/config"
	"github.com/openswad/swad-backend/internal/handler"
	"github.com/openswad/swad-backend/internal/middleware"
	"github.com/openswad/swad-backend/internal/model"
	"github.com/openswad/swad-backend/internal/response"
	"github.com/openswad/swad-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth         *handler.AuthHandler
	Institution  *handler.InstitutionHandler
	Centre       *handler.CentreHandler
	Degree       *handler.DegreeHandler
	Course       *handler.CourseHandler
	Group        *handler.GroupHandler
	Enrollment   *handler.EnrollmentHandler
	Notification *handler.NotificationHandler
	User         *handler.UserHandler
	WS           *handler.WSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Apply brotli middleware globally.
	router.Use(middleware.Brotli())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for auth routes (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/login", handlers.Auth.Login)

		// Authenticated profile routes
		auth.POST("/logout", middleware.RequireJWT(authService), handlers.Auth.Logout)
		auth.GET("/me", middleware.RequireJWT(authService), handlers.Auth.Me)
	}

	// ─── 2. Course Group (JWT + Single Device) ─────────────────────────
	api := router.Group("/api/v1")
	api.Use(
		middleware.RequireJWT(authService),
		middleware.CheckSingleDeviceSession(authService),
	)
	{
		// Hierarchy browsing
		api.GET("/institutions",
			middleware.RequirePermission(string(model.PermissionHierarchyRead)),
			handlers.Institution.ListInstitutions,
		)
		api.GET("/institutions/:id/centres",
			middleware.RequirePermission(string(model.PermissionHierarchyRead)),
			handlers.Centre.ListCentres,
		)
		api.GET("/centres/:id/degrees",
			middleware.RequirePermission(string(model.PermissionHierarchyRead)),
			handlers.Degree.ListDegrees,
		)
		api.GET("/degrees/:id/courses",
			middleware.RequirePermission(string(model.PermissionCoursesRead)),
			handlers.Course.ListCourses,
		)
		api.GET("/courses/:id",
			middleware.RequirePermission(string(model.PermissionCoursesRead)),
			handlers.Course.GetCourse,
		)
		api.GET("/my-courses", handlers.Course.ListMyCourses)

		// Course membership (teachers of the course and admins)
		api.GET("/courses/:id/members",
			middleware.RequireAnyPermission(
				string(model.PermissionCourseUsersWrite),
				string(model.PermissionEnrollmentManage),
			),
			handlers.Course.ListCourseMembers,
		)
		api.POST("/courses/:id/members",
			middleware.RequireAnyPermission(
				string(model.PermissionCourseUsersWrite),
				string(model.PermissionEnrollmentManage),
			),
			handlers.Course.AddCourseMember,
		)
		api.DELETE("/courses/:id/members/:user_id",
			middleware.RequireAnyPermission(
				string(model.PermissionCourseUsersWrite),
				string(model.PermissionEnrollmentManage),
			),
			handlers.Course.RemoveCourseMember,
		)

		// Group listing and enrollment
		api.GET("/courses/:id/groups",
			middleware.RequirePermission(string(model.PermissionGroupsRead)),
			handlers.Group.ListCourseGroups,
		)
		api.PUT("/courses/:id/my-groups", handlers.Enrollment.ChangeMyGroups)
		api.PUT("/courses/:id/users/:user_id/groups",
			middleware.RequirePermission(string(model.PermissionEnrollmentManage)),
			handlers.Enrollment.ChangeUserGroups,
		)

		// Group management (teachers of the course and admins)
		api.POST("/courses/:id/group-types",
			middleware.RequirePermission(string(model.PermissionGroupsWrite)),
			handlers.Group.CreateGroupType,
		)
		api.PUT("/group-types/:id",
			middleware.RequirePermission(string(model.PermissionGroupsWrite)),
			handlers.Group.UpdateGroupType,
		)
		api.DELETE("/group-types/:id",
			middleware.RequirePermission(string(model.PermissionGroupsWrite)),
			handlers.Group.DeleteGroupType,
		)
		api.POST("/group-types/:id/groups",
			middleware.RequirePermission(string(model.PermissionGroupsWrite)),
			handlers.Group.CreateGroup,
		)
		api.PUT("/groups/:id",
			middleware.RequirePermission(string(model.PermissionGroupsWrite)),
			handlers.Group.UpdateGroup,
		)
		api.PATCH("/groups/:id/open",
			middleware.RequirePermission(string(model.PermissionGroupsWrite)),
			handlers.Group.SetGroupOpen,
		)
		api.DELETE("/groups/:id",
			middleware.RequirePermission(string(model.PermissionGroupsWrite)),
			handlers.Group.DeleteGroup,
		)
		api.GET("/groups/:id/members",
			middleware.RequirePermission(string(model.PermissionGroupsWrite)),
			handlers.Group.ListGroupMembers,
		)
		api.GET("/courses/:id/groups/export",
			middleware.RequirePermission(string(model.PermissionGroupsWrite)),
			handlers.Group.ExportCourseGroups,
		)

		// Notification inbox
		api.GET("/notifications", handlers.Notification.ListNotifications)
		api.PATCH("/notifications/:id/read", handlers.Notification.MarkNotificationRead)
		api.POST("/notifications/read-all", handlers.Notification.MarkAllNotificationsRead)
	}

	// ─── 3. WebSocket Group (WS Auth) ──────────────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireWSAuth(authService))
	{
		ws.GET("/notifications", handlers.WS.NotificationStream)
	}

	// ─── 4. Admin Group (JWT + RBAC) ───────────────────────────────────
	adminAPI := router.Group("/api/v1/admin")
	adminAPI.Use(middleware.RequireJWT(authService))
	{
		// Hierarchy management
		adminAPI.POST("/institutions",
			middleware.RequirePermission(string(model.PermissionHierarchyWrite)),
			handlers.Institution.CreateInstitution,
		)
		adminAPI.PUT("/institutions/:id",
			middleware.RequirePermission(string(model.PermissionHierarchyWrite)),
			handlers.Institution.UpdateInstitution,
		)
		adminAPI.DELETE("/institutions/:id",
			middleware.RequirePermission(string(model.PermissionHierarchyWrite)),
			handlers.Institution.DeleteInstitution,
		)
		adminAPI.POST("/institutions/:id/centres",
			middleware.RequirePermission(string(model.PermissionHierarchyWrite)),
			handlers.Centre.CreateCentre,
		)
		adminAPI.PUT("/centres/:id",
			middleware.RequirePermission(string(model.PermissionHierarchyWrite)),
			handlers.Centre.UpdateCentre,
		)
		adminAPI.DELETE("/centres/:id",
			middleware.RequirePermission(string(model.PermissionHierarchyWrite)),
			handlers.Centre.DeleteCentre,
		)
		adminAPI.POST("/centres/:id/degrees",
			middleware.RequirePermission(string(model.PermissionHierarchyWrite)),
			handlers.Degree.CreateDegree,
		)
		adminAPI.PUT("/degrees/:id",
			middleware.RequirePermission(string(model.PermissionHierarchyWrite)),
			handlers.Degree.UpdateDegree,
		)
		adminAPI.DELETE("/degrees/:id",
			middleware.RequirePermission(string(model.PermissionHierarchyWrite)),
			handlers.Degree.DeleteDegree,
		)

		// Course management
		adminAPI.POST("/degrees/:id/courses",
			middleware.RequirePermission(string(model.PermissionCoursesWrite)),
			handlers.Course.CreateCourse,
		)
		adminAPI.PUT("/courses/:id",
			middleware.RequirePermission(string(model.PermissionCoursesWrite)),
			handlers.Course.UpdateCourse,
		)
		adminAPI.DELETE("/courses/:id",
			middleware.RequirePermission(string(model.PermissionCoursesWrite)),
			handlers.Course.DeleteCourse,
		)

		// Account management
		adminAPI.GET("/users",
			middleware.RequirePermission(string(model.PermissionUsersWrite)),
			handlers.User.ListUsers,
		)
		adminAPI.GET("/users/:id",
			middleware.RequirePermission(string(model.PermissionUsersWrite)),
			handlers.User.GetUser,
		)
		adminAPI.POST("/users",
			middleware.RequirePermission(string(model.PermissionUsersWrite)),
			handlers.User.CreateUser,
		)
		adminAPI.PUT("/users/:id",
			middleware.RequirePermission(string(model.PermissionUsersWrite)),
			handlers.User.UpdateUser,
		)
		adminAPI.DELETE("/users/:id",
			middleware.RequirePermission(string(model.PermissionUsersWrite)),
			handlers.User.DeleteUser,
		)
		adminAPI.POST("/users/:id/reset-session",
			middleware.RequirePermission(string(model.PermissionUsersWrite)),
			handlers.Auth.ResetUserSession,
		)
	}

	return router
}
