package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errThin = errors.New("too few rows")

func TestClassify(t *testing.T) {
	rules := []ErrorRule{
		{Targets: []error{errThin}, Status: http.StatusBadRequest},
		{Targets: []error{http.ErrHandlerTimeout}, Status: http.StatusServiceUnavailable, Message: "slow upstream"},
	}

	e := Classify(fmt.Errorf("build: %w", errThin), rules...)
	assert.Equal(t, http.StatusBadRequest, e.Status)
	assert.Equal(t, "ERR_BAD_REQUEST", e.Code)
	assert.Equal(t, "build: too few rows", e.Message)
	assert.ErrorIs(t, e, errThin)

	e = Classify(http.ErrHandlerTimeout, rules...)
	assert.Equal(t, "ERR_UNAVAILABLE", e.Code)
	assert.Equal(t, "slow upstream", e.Message)

	e = Classify(errors.New("disk full"), rules...)
	assert.Equal(t, http.StatusInternalServerError, e.Status)
}

type windowRequest struct {
	Start  string `query:"start" validate:"omitempty,datetime=2006-01-02"`
	Window int    `query:"window" validate:"omitempty,gte=1,lte=30"`
}

func TestReadAndValidateRequest(t *testing.T) {
	e := echo.New()
	newCtx := func(target string) echo.Context {
		return e.NewContext(httptest.NewRequest(http.MethodGet, target, nil), httptest.NewRecorder())
	}

	req := &windowRequest{}
	assert.Nil(t, ReadAndValidateRequest(newCtx("/?start=2024-01-05&window=3"), req))
	assert.Equal(t, 3, req.Window)

	errs := ReadAndValidateRequest(newCtx("/?start=05/01/2024&window=40"), &windowRequest{})
	require.Len(t, errs, 2)
	assert.Equal(t, "start", errs[0].Field)
	assert.Equal(t, "ERR_DATETIME", errs[0].Code)
	assert.Equal(t, "window", errs[1].Field)
	assert.Equal(t, "window must be at most 30", errs[1].Message)
	assert.Equal(t, "30", errs[1].Params["max"])
}

func TestFailWritesEnvelope(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	require.NoError(t, Fail(c, BadRequestError("split must be after start").WithParam("split", "2020-01-01")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var env struct {
		Status int        `json:"status"`
		Errors []AppError `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, http.StatusBadRequest, env.Status)
	require.Len(t, env.Errors, 1)
	assert.Equal(t, "2020-01-01", env.Errors[0].Params["split"])
}

func TestServerRecoversPanics(t *testing.T) {
	s := NewServer(panicHandler{})
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

type panicHandler struct{}

func (panicHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/boom", func(echo.Context) error { panic("boom") })
}
