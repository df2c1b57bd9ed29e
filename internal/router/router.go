// Package router initializes the HTTP router (using Echo).
//
// It registers the middlewares and defines the API route groups,
// mapping specific paths to their corresponding handlers
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/software-engineers/internal/handler"
	"github.com/deppfellow/software-engineers/internal/middleware"
	"github.com/deppfellow/software-engineers/internal/server"
)

// NewRouter builds the echo instance with the global middleware chain, the
// system routes and the versioned API.
func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true

	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	router.Use(
		middlewares.RateLimit.Limiter(),
		middlewares.Global.CORS(),
		middlewares.Global.Secure(),
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.RequestLogger(),
		middlewares.Global.Recover(),
	)

	registerSystemRoutes(router, h)

	v1 := router.Group("/api/v1")
	registerSoftwareEngineerRoutes(v1, h.SoftwareEngineers)

	return router
}
