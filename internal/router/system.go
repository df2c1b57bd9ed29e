package router

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/software-engineers/internal/handler"
)

// registerSystemRoutes registers the endpoints that are not part of the API:
// health status, the docs UI and the static assets it loads.
func registerSystemRoutes(r *echo.Echo, h *handler.Handlers) {
	r.GET("/status", h.Health.CheckHealth)

	r.Static("/static", handler.StaticDir)

	r.GET("/docs", h.OpenAPI.ServeOpenAPIUI)
}
