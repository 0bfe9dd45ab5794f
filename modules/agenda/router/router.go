package router

import (
	"calctl/core/middleware"
	"calctl/modules/agenda/controller"

	"github.com/labstack/echo/v4"
)

// AgendaRouter registers query routes.
type AgendaRouter struct {
	AgendaController *controller.AgendaController
}

func NewAgendaRouter(agendaController *controller.AgendaController) *AgendaRouter {
	return &AgendaRouter{
		AgendaController: agendaController,
	}
}

func (r *AgendaRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1", mw.BasicAuth())

	v1.GET("/list", r.AgendaController.ListEvents)
	v1.GET("/search", r.AgendaController.Search)
	v1.GET("/agenda", r.AgendaController.Agenda)
}
