package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/ougirez/energy-mock/internal/domain"
	"github.com/ougirez/energy-mock/internal/pkg/constants"
	"github.com/ougirez/energy-mock/internal/pkg/logger"
)

func httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	msg := err.Error()
	code := http.StatusInternalServerError
	for e := err; e != nil; e = errors.Unwrap(e) {
		if ce, ok := e.(*constants.CodedError); ok {
			code = ce.Code()
			break
		}
		if he, ok := e.(*echo.HTTPError); ok {
			code = he.Code
			if m, ok := he.Message.(string); ok {
				msg = m
			}
			break
		}
	}

	if code >= http.StatusInternalServerError {
		logger.Errorf(c.Request().Context(), "%s %s: %s", c.Request().Method, c.Request().URL.Path, err.Error())
		msg = "Internal server error: " + msg
	}

	_ = c.JSON(code, domain.ErrorResponse{
		Message: msg,
		Code:    code,
	})
}
