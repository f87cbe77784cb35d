package app

import (
	"quiz_iq_backend/docs"
	"quiz_iq_backend/internal/middleware"
	"quiz_iq_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers) {
	docs.SwaggerInfo.BasePath = "/api"
	if a.Config.Server.Mode != gin.ReleaseMode {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))
	}

	router.GET("/metrics", monitoring.PrometheusHandler())

	api := router.Group("/api")
	api.Use(middleware.SessionMiddleware(a.services.auth))

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(api, c)

	// 2. 需要用户登录的路由
	userGroup := api.Group("")
	userGroup.Use(middleware.RequireUser())
	a.registerUserRoutes(userGroup, c)

	// 3. 管理员相关接口
	a.registerAdminRoutes(api, c)
}

func (a *App) registerPublicRoutes(api *gin.RouterGroup, c *controllers) {
	api.GET("/health", c.health.HealthCheck)

	auth := api.Group("/auth")
	{
		auth.POST("/send-otp", a.otpLimiter.Middleware(), c.auth.SendOTP)
		auth.POST("/verify-otp", a.otpLimiter.Middleware(), c.auth.VerifyOTP)
		auth.POST("/login-without-otp", c.auth.LoginWithoutOTP)
		auth.POST("/logout", c.auth.Logout)
	}

	api.GET("/subjects", c.subject.ListSubjects)
	api.GET("/iq-grades", c.iqGrade.ListGlobal)
	api.GET("/iq-grades/:subjectId", c.iqGrade.ListForSubject)
	api.GET("/payment-settings", c.payment.GetSettings)
}

func (a *App) registerUserRoutes(user *gin.RouterGroup, c *controllers) {
	user.GET("/auth/me", c.auth.Me)
	user.PATCH("/users/profile", c.auth.UpdateProfile)

	user.GET("/quizzes/:id", c.quiz.GetQuiz)
	user.POST("/quizzes/:id/submit", c.quiz.Submit)
	user.GET("/attempts", c.quiz.ListMyAttempts)
	user.GET("/attempts/:id", c.quiz.GetAttempt)

	payments := user.Group("/payments")
	{
		payments.POST("/initialize", c.payment.Initialize)
		payments.GET("/verify/:reference", c.payment.Verify)
		payments.GET("/user", c.payment.ListMine)
	}
}

func (a *App) registerAdminRoutes(api *gin.RouterGroup, c *controllers) {
	admin := api.Group("/admin")
	{
		admin.GET("/setup-needed", c.auth.SetupNeeded)
		admin.POST("/setup", c.auth.SetupAdmin)
		admin.POST("/login", c.auth.AdminLogin)
	}

	authorized := admin.Group("")
	authorized.Use(middleware.RequireAdmin())
	{
		authorized.GET("/me", c.auth.AdminMe)
		authorized.GET("/admins", c.auth.ListAdmins)
		authorized.POST("/admins", c.auth.CreateAdmin)
		authorized.DELETE("/admins/:id", c.auth.DeleteAdmin)

		authorized.GET("/subjects", c.subject.AdminListSubjects)
		authorized.POST("/subjects", c.subject.CreateSubject)
		authorized.PATCH("/subjects/:id", c.subject.UpdateSubject)
		authorized.DELETE("/subjects/:id", c.subject.DeleteSubject)

		authorized.GET("/quizzes", c.quiz.ListQuizzes)
		authorized.POST("/quizzes", c.quiz.CreateQuiz)
		authorized.GET("/quizzes/:id", c.quiz.AdminGetQuiz)
		authorized.PATCH("/quizzes/:id", c.quiz.UpdateQuiz)
		authorized.DELETE("/quizzes/:id", c.quiz.DeleteQuiz)

		authorized.GET("/quizzes/:id/questions", c.question.ListQuestions)
		authorized.POST("/quizzes/:id/questions", c.question.CreateQuestion)
		authorized.PATCH("/questions/:id", c.question.UpdateQuestion)
		authorized.DELETE("/questions/:id", c.question.DeleteQuestion)

		authorized.GET("/quizzes/:id/scenarios", c.question.ListScenarios)
		authorized.POST("/quizzes/:id/scenarios", c.question.CreateScenario)
		authorized.PATCH("/quizzes/:id/scenarios/:scenarioId", c.question.UpdateScenario)
		authorized.DELETE("/quizzes/:id/scenarios/:scenarioId", c.question.DeleteScenario)

		authorized.GET("/iq-grades", c.iqGrade.AdminList)
		authorized.POST("/iq-grades", c.iqGrade.Create)
		authorized.PATCH("/iq-grades/:id", c.iqGrade.Update)
		authorized.DELETE("/iq-grades/:id", c.iqGrade.Delete)

		authorized.GET("/attempts", c.quiz.ListAllAttempts)
		authorized.GET("/payments", c.payment.ListAll)
		authorized.PATCH("/payment-settings", c.payment.UpdateSettings)
	}
}
