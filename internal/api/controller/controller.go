package controller

import (
	"github.com/ougirez/energy-mock/internal/service/energy"
)

type Controller struct {
	service *energy.Service
}

func NewController(service *energy.Service) *Controller {
	return &Controller{service: service}
}
