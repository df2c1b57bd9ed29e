package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/software-engineers/internal/handler"
)

func registerSoftwareEngineerRoutes(v1 *echo.Group, h *handler.SoftwareEngineerHandler) {
	engineers := v1.Group("/software-engineers")

	list := handler.Handle(h.Handler, h.GetSoftwareEngineers, http.StatusOK)
	create := handler.HandleCreated(h.Handler, h.CreateSoftwareEngineer, http.StatusCreated)

	// the collection answers with and without a trailing slash
	for _, path := range []string{"", "/"} {
		engineers.GET(path, list)
		engineers.POST(path, create)
	}

	engineers.GET("/:id", handler.Handle(h.Handler, h.GetSoftwareEngineerByID, http.StatusOK))
	engineers.PUT("/:id", handler.Handle(h.Handler, h.UpdateSoftwareEngineer, http.StatusOK))
	engineers.DELETE("/:id", handler.HandleNoContent(h.Handler, h.DeleteSoftwareEngineer, http.StatusNoContent))
}
