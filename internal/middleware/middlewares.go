package middleware

import (
	"github.com/newrelic/go-agent/v3/newrelic"

	"github.com/deppfellow/software-engineers/internal/server"
)

// Middlewares groups all middleware components used by the HTTP server so
// the router receives them as one value.
type Middlewares struct {
	// Global holds CORS, request logging, recovery, secure headers and the
	// global error handler.
	Global *GlobalMiddlewares

	// ContextEnhancer attaches a request-scoped logger to every request.
	ContextEnhancer *ContextEnhancer

	// Tracing installs the New Relic transaction and custom attributes.
	Tracing *TracingMiddleware

	// RateLimit enforces the per-IP request rate.
	RateLimit *RateLimitMiddleware
}

// NewMiddlewares constructs all middleware components.
// Tracing degrades to a no-op when New Relic is not configured.
func NewMiddlewares(s *server.Server) *Middlewares {
	var nrApp *newrelic.Application
	if s.LoggerService != nil {
		nrApp = s.LoggerService.GetApplication()
	}

	return &Middlewares{
		Global:          NewGlobalMiddlewares(s),
		ContextEnhancer: NewContextEnhancer(s),
		Tracing:         NewTracingMiddleware(s, nrApp),
		RateLimit:       NewRateLimitMiddleware(s),
	}
}
