package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/studygo/planner/api/handler"
)

type Handlers struct {
	Auth     *apiHandler.AuthHandler
	Task     *apiHandler.TaskHandler
	Progress *apiHandler.ProgressHandler
	Health   *apiHandler.HealthHandler
}

func New(handlers Handlers, sessionMiddleware func(fasthttp.RequestHandler) fasthttp.RequestHandler) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	// Auth routes
	r.POST("/api/v1/auth/register", handlers.Auth.Register)
	r.POST("/api/v1/auth/login", handlers.Auth.Login)
	r.POST("/api/v1/auth/logout", handlers.Auth.Logout)

	// Session-guarded routes
	r.GET("/api/v1/progress", sessionMiddleware(handlers.Progress.GetProgress))
	r.GET("/api/v1/badges", sessionMiddleware(handlers.Progress.GetBadges))

	r.GET("/api/v1/tasks", sessionMiddleware(handlers.Task.GetTasks))
	r.POST("/api/v1/tasks", sessionMiddleware(handlers.Task.CreateTask))
	r.POST("/api/v1/tasks/{id}/complete", sessionMiddleware(handlers.Task.CompleteTask))
	r.DELETE("/api/v1/tasks/{id}", sessionMiddleware(handlers.Task.DeleteTask))

	return r
}
