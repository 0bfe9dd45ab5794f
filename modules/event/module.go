package event

import (
	"calctl/core/middleware"
	"calctl/modules/event/controller"
	"calctl/modules/event/repository"
	"calctl/modules/event/router"
	"calctl/modules/event/service"

	"github.com/labstack/echo/v4"
)

// Init wires the event module and registers its routes.
func Init(e *echo.Echo, repo repository.EventRepositoryInterface, mw *middleware.Middleware) {
	svc := service.NewEventService(repo)
	ctrl := controller.NewEventController(svc)
	rtr := router.NewEventRouter(ctrl)

	rtr.Setup(e, mw)
}
