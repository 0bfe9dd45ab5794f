package controller

import (
	"net/http"

	"calctl/core/controller"
	"calctl/modules/ics/service"

	"github.com/labstack/echo/v4"
)

// ICSController serves the calendar feed.
type ICSController struct {
	controller.BaseController
	ICSService service.ICSServiceInterface
}

func NewICSController(svc service.ICSServiceInterface) *ICSController {
	return &ICSController{
		BaseController: controller.NewBaseController(),
		ICSService:     svc,
	}
}

// Feed handles GET /calendar.ics, optionally limited with ?from=&to=.
func (c *ICSController) Feed(ctx echo.Context) error {
	result, appErr := c.ICSService.Export(ctx.Request().Context(), ctx.QueryParam("from"), ctx.QueryParam("to"))
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	ctx.Response().Header().Set(echo.HeaderContentDisposition, `inline; filename="`+result.Filename+`"`)
	return ctx.Blob(http.StatusOK, "text/calendar; charset=utf-8", result.Data)
}
