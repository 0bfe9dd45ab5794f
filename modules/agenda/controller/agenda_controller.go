package controller

import (
	"calctl/core/controller"
	"calctl/core/errors"
	"calctl/modules/agenda/dto"
	"calctl/modules/agenda/service"

	"github.com/labstack/echo/v4"
)

// AgendaController handles read-only query requests.
type AgendaController struct {
	controller.BaseController
	AgendaService service.AgendaServiceInterface
}

func NewAgendaController(svc service.AgendaServiceInterface) *AgendaController {
	return &AgendaController{
		BaseController: controller.NewBaseController(),
		AgendaService:  svc,
	}
}

// ListEvents handles GET /list with from/to/today/week filters.
func (c *AgendaController) ListEvents(ctx echo.Context) error {
	var req dto.ListRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid query parameters")
	}

	reqCtx := ctx.Request().Context()
	switch {
	case req.Today:
		events, appErr := c.AgendaService.FilterToday(reqCtx, "")
		if appErr != nil {
			return c.ErrorResponse(ctx, appErr)
		}
		return c.SuccessResponse(ctx, events, "Events listed")
	case req.Week:
		events, appErr := c.AgendaService.FilterWeek(reqCtx, "")
		if appErr != nil {
			return c.ErrorResponse(ctx, appErr)
		}
		return c.SuccessResponse(ctx, events, "Events listed")
	case req.From != "" || req.To != "":
		events, appErr := c.AgendaService.FilterByRange(reqCtx, req.From, req.To)
		if appErr != nil {
			return c.ErrorResponse(ctx, appErr)
		}
		return c.SuccessResponse(ctx, events, "Events listed")
	default:
		events, appErr := c.AgendaService.ListUpcoming(reqCtx, "")
		if appErr != nil {
			return c.ErrorResponse(ctx, appErr)
		}
		return c.SuccessResponse(ctx, events, "Events listed")
	}
}

// Search handles GET /search?q=...&title_only=true.
func (c *AgendaController) Search(ctx echo.Context) error {
	query := ctx.QueryParam("q")
	titleOnly := ctx.QueryParam("title_only") == "true"

	events, appErr := c.AgendaService.Search(ctx.Request().Context(), query, titleOnly)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, events, "Search completed")
}

// Agenda handles GET /agenda?date=...&week=true.
func (c *AgendaController) Agenda(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	if ctx.QueryParam("week") == "true" {
		agenda, appErr := c.AgendaService.WeekAgenda(reqCtx, ctx.QueryParam("date"))
		if appErr != nil {
			return c.ErrorResponse(ctx, appErr)
		}
		return c.SuccessResponse(ctx, agenda, "Agenda built")
	}

	agenda, appErr := c.AgendaService.DayAgenda(reqCtx, ctx.QueryParam("date"))
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, agenda, "Agenda built")
}
