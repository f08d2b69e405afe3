package app

import (
	"lms_backend/docs"
	"lms_backend/internal/config"
	"lms_backend/internal/middleware"
	"lms_backend/internal/model"

	"lms_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
	}

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		a.registerStudentRoutes(authGroup, c)
	}

	// 3. 管理员相关接口
	a.registerAdminRoutes(router, c, repos)
}

func (a *App) registerStudentRoutes(rg *gin.RouterGroup, c *controllers) {
	// 课程与选课
	rg.GET("/courses", c.course.List)
	rg.GET("/courses/:id", c.course.Get)
	rg.POST("/courses/:id/enroll", c.enrollment.Enroll)
	rg.GET("/enrollments", c.enrollment.ListMine)
	rg.POST("/enrollments/:id/progress", c.enrollment.RecordProgress)

	// 考试
	rg.GET("/exam/eligibility", c.exam.GetEligibility)
	rg.GET("/exam/questions", c.exam.GetExamQuestions)
	rg.POST("/exam/submit", c.exam.SubmitExam)
	rg.GET("/exam/history", c.exam.ListHistory)
	rg.GET("/exam/history/:id", c.exam.GetHistoryDetail)

	// 证书
	rg.GET("/certificates/mine", c.certificate.Mine)
}

func (a *App) registerAdminRoutes(router *gin.Engine, c *controllers, repos *repositories) {
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(a.Config), middleware.ActivityMiddleware(repos.user))
	admin.Use(middleware.RoleMiddleware(model.Admin))
	{
		// 课程与材料管理
		admin.POST("/courses", c.course.Create)
		admin.PUT("/courses/:id", c.course.Update)
		admin.DELETE("/courses/:id", c.course.Delete)
		admin.POST("/courses/:id/materials", c.course.CreateMaterial)
		admin.PUT("/materials/:id", c.course.UpdateMaterial)
		admin.DELETE("/materials/:id", c.course.DeleteMaterial)

		// 题库管理
		admin.GET("/questions", c.question.List)
		admin.POST("/questions", c.question.Create)
		admin.GET("/questions/:id", c.question.Get)
		admin.PUT("/questions/:id", c.question.Update)
		admin.DELETE("/questions/:id", c.question.Delete)

		// 考试配置
		admin.GET("/exam-settings", c.settings.Get)
		admin.PUT("/exam-settings", c.settings.Update)

		// 证书管理
		admin.GET("/certificates", c.certificate.List)
		admin.POST("/certificates/:userId/issue", c.certificate.Issue)
	}
}
