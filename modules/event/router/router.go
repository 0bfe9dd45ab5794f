package router

import (
	"calctl/core/middleware"
	"calctl/modules/event/controller"

	"github.com/labstack/echo/v4"
)

// EventRouter registers event routes.
type EventRouter struct {
	EventController *controller.EventController
}

func NewEventRouter(eventController *controller.EventController) *EventRouter {
	return &EventRouter{
		EventController: eventController,
	}
}

func (r *EventRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1", mw.BasicAuth())

	events := v1.Group("/events")
	events.POST("", r.EventController.CreateEvent)
	events.GET("", r.EventController.ListEvents)
	events.DELETE("", r.EventController.DeleteByDate)
	events.GET("/:id", r.EventController.GetEvent)
	events.PUT("/:id", r.EventController.UpdateEvent)
	events.DELETE("/:id", r.EventController.DeleteEvent)
}
