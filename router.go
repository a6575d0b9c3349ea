package main

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/yakir1992/todoapp/config"
	"github.com/yakir1992/todoapp/handler"
	"github.com/yakir1992/todoapp/middleware"
)

// authService is everything the router needs from the account layer.
type authService interface {
	handler.AuthService
	middleware.Authenticator
	middleware.SessionToucher
}

type routerDeps struct {
	Config     config.ServerConfig
	Logger     *slog.Logger
	Todos      handler.TodoService
	Auth       authService
	Health     handler.ConnectivityTester
	Revocation handler.RevocationChecker
}

func setupRouter(d routerDeps) *gin.Engine {
	router := gin.New()

	router.Use(middleware.RequestTracingMiddleware(d.Logger))
	router.Use(middleware.RecoveryMiddleware(d.Logger))
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.CORSMiddleware(d.Config.AllowedOrigins))
	router.Use(middleware.RequestSizeLimiter(d.Config.MaxBodyBytes))

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	todoHandler := handler.NewTodoHandler(d.Todos, d.Logger)
	authHandler := handler.NewAuthHandler(d.Auth, d.Logger)
	healthHandler := handler.NewHealthHandler(d.Health, d.Revocation, d.Config.HealthTimeout)

	// Public routes (no authentication required)
	public := router.Group("/api", middleware.NoStore())
	{
		public.GET("/health", healthHandler.Health)

		auth := public.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)
		}
	}

	// Protected routes (authentication required)
	protected := router.Group("/api",
		middleware.NoStore(),
		middleware.AuthMiddleware(d.Auth),
		middleware.SessionActivity(d.Auth, d.Logger),
	)
	{
		user := protected.Group("/user")
		{
			user.GET("/profile", authHandler.Profile)
			user.POST("/logout", authHandler.Logout)
		}

		protected.GET("/sessions/active", authHandler.ActiveSessions)

		todos := protected.Group("/todos")
		{
			todos.GET("", todoHandler.GetTodos)
			todos.GET("/stats", todoHandler.GetStats)
			todos.POST("", todoHandler.CreateTodo)
			todos.PATCH("/:id", todoHandler.UpdateTodo)
			todos.DELETE("/:id", todoHandler.DeleteTodo)
		}
	}

	return router
}
