package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/ougirez/energy-mock/internal/domain"
	"github.com/ougirez/energy-mock/internal/pkg/logger"
)

func (c *Controller) GetEstimatedData(ctx echo.Context) error {
	var req domain.EstimatedDataRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}
	if err := ctx.Validate(&req); err != nil {
		return err
	}

	logger.Infof(ctx.Request().Context(), "request: spid=%s, house=%s, sts=%s, ets=%s, time_units=%s",
		req.ServiceProvider, req.House, req.Sts, req.Ets, req.TimeUnits)

	resp, err := c.service.GetEstimatedData(ctx.Request().Context(), req)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, resp)
}
