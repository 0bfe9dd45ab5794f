package agenda

import (
	"calctl/core/config"
	"calctl/core/middleware"
	"calctl/modules/agenda/controller"
	"calctl/modules/agenda/router"
	"calctl/modules/agenda/service"
	"calctl/modules/event/repository"

	"github.com/labstack/echo/v4"
)

// Init wires the agenda module and registers its routes.
func Init(e *echo.Echo, cfg *config.Config, repo repository.EventRepositoryInterface, mw *middleware.Middleware) {
	svc := service.NewAgendaService(repo, cfg.WeekStart)
	ctrl := controller.NewAgendaController(svc)
	rtr := router.NewAgendaRouter(ctrl)

	rtr.Setup(e, mw)
}
