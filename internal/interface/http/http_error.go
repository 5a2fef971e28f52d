package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/ritwiksharan/event-recommendor/pkg/errors"
)

// HTTPError carries the status, stable error code, and caller-facing message
// for one error response.
type HTTPError struct {
	Status  int
	Code    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// NewHTTPError is a helper to build an HTTPError instance.
func NewHTTPError(status int, code, message string, err error) *HTTPError {
	return &HTTPError{Status: status, Code: code, Message: message, Err: err}
}

// domainHTTPError translates a domain error into the response envelope.
// Invalid-request errors surface as 400 under their own code; anything else
// becomes a 500 under the handler's fallback code so internals stay opaque.
func domainHTTPError(err error, fallbackCode string) *HTTPError {
	if apperrors.IsCode(err, apperrors.CodeInvalidRequest) {
		return NewHTTPError(http.StatusBadRequest, apperrors.CodeInvalidRequest, err.Error(), err)
	}
	return NewHTTPError(http.StatusInternalServerError, fallbackCode, err.Error(), err)
}

func asHTTPError(err error) *HTTPError {
	if err == nil {
		return nil
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return domainHTTPError(err, "internal_error")
	}
	return &HTTPError{
		Status:  http.StatusInternalServerError,
		Code:    "internal_error",
		Message: "something went wrong",
		Err:     err,
	}
}

func abortWithError(c *gin.Context, err *HTTPError) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}
