package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/deppfellow/software-engineers/internal/middleware"
	"github.com/deppfellow/software-engineers/internal/server"
)

// HealthHandler reports whether the service and its dependencies are
// reachable, for load balancers and uptime monitors.
type HealthHandler struct {
	Handler
}

func NewHealthHandler(s *server.Server) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
	}
}

// CheckHealth returns 200 when every configured check passes, 503 otherwise.
// The redis check only runs when Redis is configured.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()

	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	checks := make(map[string]interface{})
	response := map[string]interface{}{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"environment": h.server.Config.Primary.Env,
		"database":    h.server.DB.Driver,
		"checks":      checks,
	}

	healthChecks := h.server.Config.Observability.HealthChecks
	isHealthy := true

	if healthChecks.Has("database") {
		if !h.runCheck(c.Request().Context(), logger, checks, "database", h.server.DB.Ping) {
			isHealthy = false
		}
	}

	if healthChecks.Has("redis") && h.server.Redis != nil {
		ping := func(ctx context.Context) error {
			return h.server.Redis.Ping(ctx).Err()
		}
		// redis is optional: a failure is reported but the service stays healthy
		h.runCheck(c.Request().Context(), logger, checks, "redis", ping)
	}

	if !isHealthy {
		response["status"] = "unhealthy"

		logger.Warn().
			Dur("total_duration", time.Since(start)).
			Msg("health check failed")

		h.recordHealthCheckError(map[string]interface{}{
			"check_type":        "overall",
			"operation":         "health_check",
			"error_type":        "overall_unhealthy",
			"total_duration_ms": time.Since(start).Milliseconds(),
		})

		return c.JSON(http.StatusServiceUnavailable, response)
	}

	logger.Debug().
		Dur("total_duration", time.Since(start)).
		Msg("health check passed")

	if err := c.JSON(http.StatusOK, response); err != nil {
		logger.Error().Err(err).Msg("failed to write JSON response")
		return fmt.Errorf("failed to write JSON response: %w", err)
	}

	return nil
}

func (h *HealthHandler) runCheck(
	parent context.Context,
	logger zerolog.Logger,
	checks map[string]interface{},
	name string,
	ping func(ctx context.Context) error,
) bool {
	ctx, cancel := context.WithTimeout(parent, h.server.Config.Observability.HealthChecks.Timeout)
	defer cancel()

	checkStart := time.Now()
	err := ping(ctx)
	elapsed := time.Since(checkStart)

	if err != nil {
		checks[name] = map[string]interface{}{
			"status":        "unhealthy",
			"response_time": elapsed.String(),
			"error":         err.Error(),
		}

		logger.Error().
			Err(err).
			Dur("response_time", elapsed).
			Msgf("%s health check failed", name)

		h.recordHealthCheckError(map[string]interface{}{
			"check_type":       name,
			"operation":        "health_check",
			"error_type":       name + "_unhealthy",
			"response_time_ms": elapsed.Milliseconds(),
			"error_message":    err.Error(),
		})
		return false
	}

	checks[name] = map[string]interface{}{
		"status":        "healthy",
		"response_time": elapsed.String(),
	}

	logger.Debug().
		Dur("response_time", elapsed).
		Msgf("%s health check passed", name)
	return true
}

func (h *HealthHandler) recordHealthCheckError(attrs map[string]interface{}) {
	if app := h.server.LoggerService.GetApplication(); app != nil {
		app.RecordCustomEvent("HealthCheckError", attrs)
	}
}
