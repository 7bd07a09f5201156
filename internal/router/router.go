package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/taskstack/backend/api/handler"
)

type Handlers struct {
	Task   *apiHandler.TaskHandler
	Health *apiHandler.HealthHandler
}

func New(handlers Handlers, accessLog func(fasthttp.RequestHandler) fasthttp.RequestHandler) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	r.GET("/tasks", accessLog(handlers.Task.ListTasks))
	r.POST("/tasks", accessLog(handlers.Task.CreateTask))
	r.GET("/tasks/{id}", accessLog(handlers.Task.GetTask))
	r.PUT("/tasks/{id}", accessLog(handlers.Task.UpdateTask))
	r.DELETE("/tasks/{id}", accessLog(handlers.Task.DeleteTask))

	return r
}
