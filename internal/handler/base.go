package handler

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/integrations/nrpkgerrors"
	"github.com/newrelic/go-agent/v3/newrelic"

	"github.com/deppfellow/software-engineers/internal/middleware"
	"github.com/deppfellow/software-engineers/internal/server"
	"github.com/deppfellow/software-engineers/internal/validation"
)

// Handler holds the shared application dependencies of concrete handlers.
type Handler struct {
	server *server.Server
}

func NewHandler(s *server.Server) Handler {
	return Handler{server: s}
}

// Request is satisfied by a pointer to a request struct: PReq is *Req.
// A fresh Req is allocated for every request.
type Request[Req any] interface {
	*Req
	validation.Validatable
}

// HandlerFunc is a typed endpoint receiving a bound and validated request.
type HandlerFunc[Req any, PReq Request[Req], Res any] func(c echo.Context, req PReq) (Res, error)

// HandlerFuncNoContent is a typed endpoint that writes no response body.
type HandlerFuncNoContent[Req any, PReq Request[Req]] func(c echo.Context, req PReq) error

// HandlerFuncCreated is a typed endpoint returning the location of the
// resource it created.
type HandlerFuncCreated[Req any, PReq Request[Req]] func(c echo.Context, req PReq) (string, error)

// ResponseHandler writes a successful result and decorates the New Relic
// transaction for that response type.
type ResponseHandler interface {
	Handle(c echo.Context, result interface{}) error
	GetOperation() string
	AddAttributes(txn *newrelic.Transaction, result interface{})
}

// JSONResponseHandler writes JSON responses with a given status code.
type JSONResponseHandler struct {
	status int
}

func (h JSONResponseHandler) Handle(c echo.Context, result interface{}) error {
	return c.JSON(h.status, result)
}

func (h JSONResponseHandler) GetOperation() string {
	return "handler"
}

func (h JSONResponseHandler) AddAttributes(txn *newrelic.Transaction, result interface{}) {
	// http.status_code is set by EnhanceTracing
}

type NoContentResponseHandler struct {
	status int
}

func (h NoContentResponseHandler) Handle(c echo.Context, result interface{}) error {
	return c.NoContent(h.status)
}

func (h NoContentResponseHandler) GetOperation() string {
	return "handler_no_content"
}

func (h NoContentResponseHandler) AddAttributes(txn *newrelic.Transaction, result interface{}) {}

// CreatedResponseHandler sets the Location header from the result and writes
// an empty body.
type CreatedResponseHandler struct {
	status int
}

func (h CreatedResponseHandler) Handle(c echo.Context, result interface{}) error {
	if location, ok := result.(string); ok && location != "" {
		c.Response().Header().Set(echo.HeaderLocation, location)
	}
	return c.NoContent(h.status)
}

func (h CreatedResponseHandler) GetOperation() string {
	return "handler_created"
}

func (h CreatedResponseHandler) AddAttributes(txn *newrelic.Transaction, result interface{}) {
	if txn == nil {
		return
	}
	if location, ok := result.(string); ok {
		txn.AddAttribute("resource.location", location)
	}
}

// handleRequest is the shared execution pipeline of every typed handler:
// binding and validation, logging, New Relic attributes, timings and
// response writing.
func handleRequest[Req any, PReq Request[Req]](
	c echo.Context,
	handler func(c echo.Context, req PReq) (interface{}, error),
	responseHandler ResponseHandler,
) error {
	start := time.Now()
	method := c.Request().Method
	route := c.Path()

	txn := newrelic.FromContext(c.Request().Context())
	if txn != nil {
		txn.AddAttribute("handler.name", route)
		responseHandler.AddAttributes(txn, nil)
	}

	logger := middleware.GetLogger(c).With().
		Str("operation", responseHandler.GetOperation()).
		Str("method", method).
		Str("route", route).
		Logger()

	logger.Debug().Msg("handling request")

	validationStart := time.Now()
	req := PReq(new(Req))
	if err := validation.BindAndValidate(c, req); err != nil {
		validationDuration := time.Since(validationStart)

		logger.Warn().
			Err(err).
			Dur("validation_duration", validationDuration).
			Msg("request validation failed")

		if txn != nil {
			txn.NoticeError(nrpkgerrors.Wrap(err))
			txn.AddAttribute("validation.status", "failed")
			txn.AddAttribute("validation.duration_ms", validationDuration.Milliseconds())
		}

		return err
	}

	validationDuration := time.Since(validationStart)
	if txn != nil {
		txn.AddAttribute("validation.status", "success")
		txn.AddAttribute("validation.duration_ms", validationDuration.Milliseconds())
	}

	handlerStart := time.Now()
	result, err := handler(c, req)
	handlerDuration := time.Since(handlerStart)

	if err != nil {
		totalDuration := time.Since(start)

		logger.Error().
			Err(err).
			Dur("handler_duration", handlerDuration).
			Dur("total_duration", totalDuration).
			Msg("handler execution failed")

		if txn != nil {
			txn.NoticeError(nrpkgerrors.Wrap(err))
			txn.AddAttribute("handler.status", "error")
			txn.AddAttribute("handler.duration_ms", handlerDuration.Milliseconds())
			txn.AddAttribute("total.duration_ms", totalDuration.Milliseconds())
		}
		return err
	}

	totalDuration := time.Since(start)
	if txn != nil {
		txn.AddAttribute("handler.status", "success")
		txn.AddAttribute("handler.duration_ms", handlerDuration.Milliseconds())
		txn.AddAttribute("total.duration_ms", totalDuration.Milliseconds())
		responseHandler.AddAttributes(txn, result)
	}

	logger.Debug().
		Dur("handler_duration", handlerDuration).
		Dur("validation_duration", validationDuration).
		Dur("total_duration", totalDuration).
		Msg("request completed successfully")

	return responseHandler.Handle(c, result)
}

// Handle registers a typed handler whose result is written as JSON with status.
//
//	router.GET("/:id", handler.Handle(h.Handler, h.GetSoftwareEngineerByID, http.StatusOK))
func Handle[Req any, PReq Request[Req], Res any](
	h Handler,
	handler HandlerFunc[Req, PReq, Res],
	status int,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		return handleRequest[Req, PReq](c, func(c echo.Context, req PReq) (interface{}, error) {
			return handler(c, req)
		}, JSONResponseHandler{status: status})
	}
}

// HandleNoContent is Handle for endpoints without a response body.
func HandleNoContent[Req any, PReq Request[Req]](
	h Handler,
	handler HandlerFuncNoContent[Req, PReq],
	status int,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		return handleRequest[Req, PReq](c, func(c echo.Context, req PReq) (interface{}, error) {
			return nil, handler(c, req)
		}, NoContentResponseHandler{status: status})
	}
}

// HandleCreated is Handle for endpoints answering with a Location header
// and an empty body.
func HandleCreated[Req any, PReq Request[Req]](
	h Handler,
	handler HandlerFuncCreated[Req, PReq],
	status int,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		return handleRequest[Req, PReq](c, func(c echo.Context, req PReq) (interface{}, error) {
			return handler(c, req)
		}, CreatedResponseHandler{status: status})
	}
}
