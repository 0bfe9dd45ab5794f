package ics

import (
	"calctl/core/config"
	"calctl/core/middleware"
	"calctl/modules/event/repository"
	eventservice "calctl/modules/event/service"
	"calctl/modules/ics/controller"
	"calctl/modules/ics/service"

	"github.com/labstack/echo/v4"
)

// Init wires the calendar feed route.
func Init(e *echo.Echo, cfg *config.Config, repo repository.EventRepositoryInterface, mw *middleware.Middleware) {
	svc := service.NewICSService(repo, eventservice.NewEventService(repo), cfg.CalendarName)
	ctrl := controller.NewICSController(svc)

	e.GET("/calendar.ics", ctrl.Feed, mw.BasicAuth())
}
