package router

import (
	"Tabletop_Community/internal/handler"
	"Tabletop_Community/internal/middleware"
	"Tabletop_Community/internal/pkg"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func InitRouter(db *gorm.DB, emailCfg pkg.SMTPConfig) *gin.Engine {
	r := gin.Default()

	user := handler.NewUserHandler(db)
	email := handler.NewEmailHandler(emailCfg)
	project := handler.NewProjectHandler(db)
	event := handler.NewEventHandler(db)
	job := handler.NewJobHandler(db)
	resource := handler.NewResourceHandler(db)

	// 邮件相关接口
	emailGroup := r.Group("/api/email")
	{
		emailGroup.POST("/:scope/code", email.SendCode)
	}

	// 用户相关接口
	userGroup := r.Group("/api/user")
	{
		userGroup.POST("/register", user.Register)
		userGroup.POST("/login", user.Login)
		userGroup.POST("/reset", user.ResetPassword)
	}

	// token相关接口
	tokenGroup := r.Group("/api/token")
	{
		tokenGroup.POST("/refresh", user.TokenRefresh)
	}

	// 登录态接口
	authGroup := r.Group("/api/auth")
	authGroup.Use(middleware.AuthMiddleware())
	{
		authGroup.POST("/logout", user.Logout)
		authGroup.POST("/change-password", user.ChangePassword)
	}

	// 项目公开读接口，浏览计数对匿名开放（私有项目在服务层拦截）
	projectPublic := r.Group("/api/project")
	projectPublic.Use(middleware.OptionalAuthMiddleware())
	{
		projectPublic.GET("/list", project.List)
		projectPublic.GET("/:id", project.Get)
		projectPublic.GET("/:id/journal", project.Journal)
		projectPublic.GET("/:id/gallery", project.Gallery)
		projectPublic.POST("/:id/view", project.View)
	}

	// 项目写接口
	projectGroup := r.Group("/api/project")
	projectGroup.Use(middleware.AuthMiddleware())
	{
		projectGroup.POST("/create", project.Create)
		projectGroup.POST("/:id/update", project.Update)
		projectGroup.POST("/:id/stage", project.UpdateStage)
		projectGroup.POST("/:id/follow", project.Follow)
		projectGroup.POST("/:id/unfollow", project.Unfollow)
		projectGroup.POST("/:id/like", project.Like)
		projectGroup.POST("/:id/journal", project.AddJournalEntry)
		projectGroup.POST("/:id/gallery", project.AddGalleryImage)
		projectGroup.POST("/:id/reset-counters", project.ResetCounters)
	}

	// 活动相关接口
	eventPublic := r.Group("/api/event")
	{
		eventPublic.GET("/list", event.List)
		eventPublic.GET("/:id", event.Get)
		eventPublic.GET("/:id/attendees", event.Attendees)
	}
	eventGroup := r.Group("/api/event")
	eventGroup.Use(middleware.AuthMiddleware())
	{
		eventGroup.POST("/create", event.Create)
		eventGroup.POST("/:id/rsvp", event.RSVP)
		eventGroup.POST("/:id/cancel", event.Cancel)
		eventGroup.POST("/:id/promote", event.Promote)
		eventGroup.POST("/:id/approve", event.Approve)
	}

	// 招聘相关接口
	jobPublic := r.Group("/api/job")
	{
		jobPublic.GET("/list", job.List)
		jobPublic.GET("/:id", job.Get)
	}
	jobGroup := r.Group("/api/job")
	jobGroup.Use(middleware.AuthMiddleware())
	{
		jobGroup.POST("/create", job.Create)
		jobGroup.POST("/:id/apply", job.Apply)
		jobGroup.GET("/:id/applications", job.Applications)
		jobGroup.POST("/application/:id/review", job.Review)
	}

	// 资源相关接口
	resourcePublic := r.Group("/api/resource")
	resourcePublic.Use(middleware.OptionalAuthMiddleware())
	{
		resourcePublic.GET("/list", resource.List)
		resourcePublic.GET("/:id", resource.Get)
		resourcePublic.GET("/:id/reviews", resource.Reviews)
	}
	resourceGroup := r.Group("/api/resource")
	resourceGroup.Use(middleware.AuthMiddleware())
	{
		resourceGroup.POST("/submit", resource.Submit)
		resourceGroup.POST("/:id/moderate", resource.Moderate)
		resourceGroup.POST("/:id/review", resource.AddReview)
		resourceGroup.POST("/review/:id/helpful", resource.MarkHelpful)
	}

	return r
}
