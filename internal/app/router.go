package app

import (
	"youth_hub_backend/docs"
	"youth_hub_backend/internal/middleware"
	"youth_hub_backend/internal/model"
	"youth_hub_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c)

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(a.services.auth), middleware.ActivityMiddleware(repos.user))
	{
		a.registerAuthorizedRoutes(authGroup, c)
	}

	// 3. 管理员相关接口
	a.registerAdminRoutes(router, c)
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	router.GET("/health", c.health.HealthCheck)

	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}
}

func (a *App) registerAuthorizedRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.POST("/logout", c.auth.Logout)
	rg.GET("/auth/user", c.auth.GetCurrentUser)
	rg.PUT("/user/profile", c.user.UpdateProfile)
	rg.GET("/counsellors", c.user.GetCounsellors)

	// 辅导预约
	sessions := rg.Group("/sessions")
	{
		sessions.POST("", c.session.CreateSession)
		sessions.GET("/student", c.session.GetStudentSessions)
		sessions.GET("/counsellor", middleware.RoleMiddleware(model.Counsellor), c.session.GetCounsellorSessions)
		sessions.GET("/pending", middleware.RoleMiddleware(model.Counsellor), c.session.GetPendingSessions)
		sessions.GET("/all", middleware.RoleMiddleware(model.Admin), c.session.GetAllSessions)
		sessions.GET("/:id", c.session.GetSession)
		sessions.PATCH("/:id", c.session.UpdateSession)
	}

	// 心理教育资源
	resources := rg.Group("/resources")
	{
		resources.GET("", c.resource.GetResources)
		resources.GET("/:id", c.resource.GetResource)
		resources.POST("", middleware.RoleMiddleware(model.Counsellor), c.resource.CreateResource)
		resources.POST("/upload", middleware.RoleMiddleware(model.Counsellor), c.resource.UploadResourceFile)
		resources.PATCH("/:id", middleware.RoleMiddleware(model.Counsellor), c.resource.UpdateResource)
		resources.DELETE("/:id", middleware.RoleMiddleware(model.Counsellor), c.resource.DeleteResource)
	}

	// 私信
	messages := rg.Group("/messages")
	{
		messages.POST("", c.message.SendMessage)
		messages.GET("/conversations", c.message.GetConversations)
		messages.GET("/:userId", c.message.GetConversation)
		messages.PATCH("/:id/read", c.message.MarkMessageRead)
	}

	// 学习进度
	progress := rg.Group("/progress")
	{
		progress.POST("", c.progress.UpsertProgress)
		progress.GET("", c.progress.GetProgress)
		progress.GET("/user/:userId", middleware.RoleMiddleware(model.Counsellor), c.progress.GetUserProgress)
	}

	// 通知
	notifications := rg.Group("/notifications")
	{
		notifications.GET("", c.notification.GetNotifications)
		notifications.PATCH("/:id/read", c.notification.MarkNotificationRead)
	}
}

func (a *App) registerAdminRoutes(router *gin.Engine, c *controllers) {
	admin := router.Group("/api")
	admin.Use(middleware.AuthMiddleware(a.services.auth), middleware.RoleMiddleware(model.Admin))
	{
		admin.GET("/analytics/stats", c.analytics.GetStats)
		admin.GET("/admin/users", c.user.ListUsers)
		admin.PATCH("/admin/users/:id/role", c.user.ChangeRole)
		admin.PATCH("/admin/users/:id/disable", c.user.SetDisabled)
	}
}
