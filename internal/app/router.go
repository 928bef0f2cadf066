package app

import (
	"quiz_backend/docs"
	"quiz_backend/internal/config"
	"quiz_backend/internal/middleware"
	"quiz_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// Public routes: the gate never looks at the Authorization header here.
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)

		public.GET("/quizzes", c.quiz.List)
		public.GET("/quizzes/:id", c.quiz.Get)
	}

	// Results accept both registered users and guests; a valid token keys the
	// result by user id, otherwise the guest token does.
	results := router.Group("/api/results")
	results.Use(middleware.TryAuthMiddleware(cfg))
	{
		results.POST("", c.result.Submit)
		results.GET("", c.result.Get)
	}

	// Authorized routes.
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		authGroup.GET("/profile", c.auth.GetProfile)

		authGroup.GET("/users", c.user.List)
		authGroup.GET("/users/:id", c.user.Get)
		authGroup.DELETE("/users/:id", c.user.Delete)

		authGroup.POST("/quizzes", c.quiz.Create)
		authGroup.PUT("/quizzes/:id", c.quiz.Update)
		authGroup.DELETE("/quizzes/:id", c.quiz.Delete)

		authGroup.GET("/user-quizzes", c.quiz.ListMine)
		authGroup.GET("/user-quizzes/dashboard", c.quiz.Dashboard)
		authGroup.GET("/user-quizzes/:id", c.quiz.GetMine)
	}
}
