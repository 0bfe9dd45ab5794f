package controller

import (
	"calctl/core/controller"
	"calctl/core/errors"
	"calctl/modules/event/dto"
	"calctl/modules/event/service"

	"github.com/labstack/echo/v4"
)

// EventController handles event HTTP requests.
type EventController struct {
	controller.BaseController
	EventService service.EventServiceInterface
}

func NewEventController(svc service.EventServiceInterface) *EventController {
	return &EventController{
		BaseController: controller.NewBaseController(),
		EventService:   svc,
	}
}

// CreateEvent handles POST /events. ?force=true schedules over conflicts.
func (c *EventController) CreateEvent(ctx echo.Context) error {
	var req dto.CreateEventRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}
	if ctx.QueryParam("force") == "true" {
		req.Force = true
	}

	result, appErr := c.EventService.Create(ctx.Request().Context(), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Event created")
}

// GetEvent handles GET /events/:id.
func (c *EventController) GetEvent(ctx echo.Context) error {
	result, appErr := c.EventService.Get(ctx.Request().Context(), ctx.Param("id"))
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Event found")
}

// ListEvents handles GET /events.
func (c *EventController) ListEvents(ctx echo.Context) error {
	result, appErr := c.EventService.List(ctx.Request().Context())
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Events listed")
}

// UpdateEvent handles PUT /events/:id.
func (c *EventController) UpdateEvent(ctx echo.Context) error {
	var req dto.UpdateEventRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}
	if ctx.QueryParam("force") == "true" {
		req.Force = true
	}

	result, appErr := c.EventService.Update(ctx.Request().Context(), ctx.Param("id"), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Event updated")
}

// DeleteEvent handles DELETE /events/:id.
func (c *EventController) DeleteEvent(ctx echo.Context) error {
	result, appErr := c.EventService.Delete(ctx.Request().Context(), ctx.Param("id"))
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Event deleted")
}

// DeleteByDate handles DELETE /events?date=YYYY-MM-DD.
func (c *EventController) DeleteByDate(ctx echo.Context) error {
	date := ctx.QueryParam("date")
	if date == "" {
		return c.BadRequest(errors.ErrInvalidInput, "date query parameter is required")
	}

	result, appErr := c.EventService.DeleteByDate(ctx.Request().Context(), date)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Events deleted")
}
