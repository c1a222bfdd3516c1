package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Handler registers its routes on the shared echo instance.
type Handler interface {
	RegisterRoutes(e *echo.Echo)
}

// Envelope is the body of every API response.
type Envelope struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
}

// JSON writes an envelope carrying data with the given status.
func JSON(c echo.Context, status int, data interface{}) error {
	return c.JSON(status, Envelope{Status: status, Message: http.StatusText(status), Data: data})
}

// OK writes a 200 envelope.
func OK(c echo.Context, data interface{}) error {
	return JSON(c, http.StatusOK, data)
}

// Invalid writes a 400 envelope listing request validation failures.
func Invalid(c echo.Context, errs []ValidationError) error {
	return c.JSON(http.StatusBadRequest, Envelope{
		Status:  http.StatusBadRequest,
		Message: http.StatusText(http.StatusBadRequest),
		Errors:  errs,
	})
}

// Fail writes err as an envelope. Errors that are not an *AppError become a bare 500.
func Fail(c echo.Context, err error) error {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		appErr = NewAppError(http.StatusInternalServerError, "something went wrong")
	}
	return c.JSON(appErr.Status, Envelope{
		Status:  appErr.Status,
		Message: http.StatusText(appErr.Status),
		Errors:  []*AppError{appErr},
	})
}
