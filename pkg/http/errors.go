package http

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is an error the API reports to clients with a status code.
type AppError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Params  map[string]interface{} `json:"params,omitempty"`
	Status  int                    `json:"-"`
	Err     error                  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

// NewAppError creates an error whose code is derived from status.
func NewAppError(status int, message string) *AppError {
	return &AppError{Code: codeFor(status), Message: message, Status: status}
}

// WithParam attaches a detail shown to the client.
func (e *AppError) WithParam(key string, value interface{}) *AppError {
	if e.Params == nil {
		e.Params = make(map[string]interface{})
	}
	e.Params[key] = value
	return e
}

// WithError records the cause. It is logged, never serialized.
func (e *AppError) WithError(err error) *AppError {
	e.Err = err
	return e
}

// BadRequestError creates a 400 error.
func BadRequestError(message string) *AppError {
	return NewAppError(http.StatusBadRequest, message)
}

// ErrorRule maps any of Targets to Status. An empty Message reports the error text.
type ErrorRule struct {
	Targets []error
	Status  int
	Message string
}

// Classify returns the AppError for the first rule err matches, else a 500.
func Classify(err error, rules ...ErrorRule) *AppError {
	for _, r := range rules {
		for _, target := range r.Targets {
			if !errors.Is(err, target) {
				continue
			}
			msg := r.Message
			if msg == "" {
				msg = err.Error()
			}
			return NewAppError(r.Status, msg).WithError(err)
		}
	}
	return NewAppError(http.StatusInternalServerError, "pipeline failed").WithError(err)
}

func codeFor(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "ERR_BAD_REQUEST"
	case http.StatusUnprocessableEntity:
		return "ERR_UNPROCESSABLE"
	case http.StatusServiceUnavailable:
		return "ERR_UNAVAILABLE"
	case http.StatusNotFound:
		return "ERR_NOT_FOUND"
	default:
		return "ERR_INTERNAL"
	}
}
