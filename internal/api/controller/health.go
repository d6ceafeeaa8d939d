package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (c *Controller) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, c.service.Health(ctx.Request().Context()))
}
