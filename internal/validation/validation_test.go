package validation

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/software-engineers/internal/errs"
)

type sampleRequest struct {
	ID    int64  `param:"id" json:"-"`
	Name  string `json:"name" validate:"required,max=5"`
	Level int    `json:"level" validate:"min=1"`
}

func (r *sampleRequest) Validate() error {
	return Struct(r)
}

type customRequest struct{}

func (r *customRequest) Validate() error {
	return CustomValidationErrors{{Field: "name", Message: "is reserved"}}
}

type plainErrorRequest struct{}

func (r *plainErrorRequest) Validate() error {
	return errors.New("boom")
}

func newContext(method, body string, paramValues ...string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(method, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c := e.NewContext(req, httptest.NewRecorder())
	if len(paramValues) > 0 {
		c.SetParamNames("id")
		c.SetParamValues(paramValues...)
	}
	return c
}

func TestBindAndValidate_OK(t *testing.T) {
	c := newContext(http.MethodPut, `{"id": 99, "name":"Lupo","level":2}`, "7")

	req := &sampleRequest{}
	require.NoError(t, BindAndValidate(c, req))
	assert.Equal(t, &sampleRequest{ID: 7, Name: "Lupo", Level: 2}, req)
}

func TestBindAndValidate_MalformedJSON(t *testing.T) {
	c := newContext(http.MethodPost, `{"name":`)

	err := BindAndValidate(c, &sampleRequest{})

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "BAD_REQUEST", httpErr.Code)
	assert.NotEmpty(t, httpErr.Message)
}

func TestBindAndValidate_InvalidPathParam(t *testing.T) {
	c := newContext(http.MethodGet, "", "abc")

	err := BindAndValidate(c, &sampleRequest{})

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
}

func TestBindAndValidate_FieldErrors(t *testing.T) {
	c := newContext(http.MethodPost, `{"name":"far too long","level":0}`)

	err := BindAndValidate(c, &sampleRequest{})

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, "Validation failed", httpErr.Message)
	assert.True(t, httpErr.Override)
	assert.ElementsMatch(t, []errs.FieldError{
		{Field: "name", Error: "must not exceed 5 characters"},
		{Field: "level", Error: "must be at least 1"},
	}, httpErr.Errors)
}

func TestExtractValidationError(t *testing.T) {
	_, fieldErrors := extractValidationError((&customRequest{}).Validate())
	assert.Equal(t, []errs.FieldError{{Field: "name", Error: "is reserved"}}, fieldErrors)

	_, fieldErrors = extractValidationError((&plainErrorRequest{}).Validate())
	assert.Equal(t, []errs.FieldError{{Field: "request", Error: "boom"}}, fieldErrors)

	_, fieldErrors = extractValidationError(Struct(&sampleRequest{Level: 1}))
	assert.Equal(t, []errs.FieldError{{Field: "name", Error: "is required"}}, fieldErrors)
}
