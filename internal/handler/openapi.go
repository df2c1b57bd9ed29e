package handler

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/software-engineers/internal/server"
)

// StaticDir holds openapi.html and openapi.json, relative to the working directory.
const StaticDir = "static"

// OpenAPIHandler serves the API documentation UI. The page loads its
// renderer from a CDN and fetches /static/openapi.json.
type OpenAPIHandler struct {
	Handler
	dir string
}

func NewOpenAPIHandler(s *server.Server) *OpenAPIHandler {
	return &OpenAPIHandler{
		Handler: NewHandler(s),
		dir:     StaticDir,
	}
}

// ServeOpenAPIUI serves openapi.html uncached so doc edits show up immediately.
func (h *OpenAPIHandler) ServeOpenAPIUI(c echo.Context) error {
	templateBytes, err := os.ReadFile(filepath.Join(h.dir, "openapi.html"))

	c.Response().Header().Set("Cache-Control", "no-cache")

	if err != nil {
		return fmt.Errorf("failed to read OpenAPI UI template: %w", err)
	}

	if err := c.HTML(http.StatusOK, string(templateBytes)); err != nil {
		return fmt.Errorf("failed to write HTML response: %w", err)
	}

	return nil
}
