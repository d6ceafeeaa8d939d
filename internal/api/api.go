package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/ougirez/energy-mock/internal/api/controller"
	"github.com/ougirez/energy-mock/internal/service/energy"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const EstimatedDataPath = "/0.2/estimated_data"

type APIService struct {
	router        *echo.Echo
	energyService *energy.Service
}

func (svc *APIService) Serve(addr string) error {
	err := svc.router.Start(addr)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (svc *APIService) Shutdown(ctx context.Context) error {
	return svc.router.Shutdown(ctx)
}

func (svc *APIService) Handler() http.Handler {
	return svc.router
}

// NewAPIService wires the routes. gatherer backs /metrics and may be nil.
func NewAPIService(energyService *energy.Service, gatherer prometheus.Gatherer) (*APIService, error) {
	svc := &APIService{router: echo.New(), energyService: energyService}

	svc.router.HideBanner = true
	svc.router.HidePort = true
	svc.router.Logger.SetLevel(log.WARN)
	svc.router.Validator = NewValidator()
	svc.router.Binder = NewBinder()
	svc.router.JSONSerializer = JSONSerializer{}
	svc.router.HTTPErrorHandler = httpErrorHandler
	svc.router.Use(middleware.Recover())
	svc.router.Use(RequestIDMiddleware())
	svc.router.Use(RequestLoggerMiddleware())

	cntrl := controller.NewController(svc.energyService)

	svc.router.GET(EstimatedDataPath, cntrl.GetEstimatedData)
	svc.router.GET("/health", cntrl.Health)

	if gatherer != nil {
		svc.router.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	return svc, nil
}
