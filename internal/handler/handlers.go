package handler

import (
	"github.com/deppfellow/software-engineers/internal/server"
	"github.com/deppfellow/software-engineers/internal/service"
)

// Handlers groups all HTTP handlers so the router receives them as one value.
type Handlers struct {
	Health            *HealthHandler
	OpenAPI           *OpenAPIHandler
	SoftwareEngineers *SoftwareEngineerHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:            NewHealthHandler(s),
		OpenAPI:           NewOpenAPIHandler(s),
		SoftwareEngineers: NewSoftwareEngineerHandler(s, services.SoftwareEngineers),
	}
}
