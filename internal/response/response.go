// Package response renders the uniform API envelope used on every success
// and error path: {status, code, message, data}.
package response

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/contacthub/contacthub/internal/apperr"
)

type Body struct {
	Status  int         `json:"status"`
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

func Success(c echo.Context, message string, data interface{}) error {
	return c.JSON(http.StatusOK, Body{
		Status:  http.StatusOK,
		Code:    "SUCCESS",
		Message: message,
		Data:    data,
	})
}

func Error(c echo.Context, status int, code, message string) error {
	return c.JSON(status, Body{
		Status:  status,
		Code:    code,
		Message: message,
	})
}

// ErrorHandler is installed as echo's HTTPErrorHandler. Domain errors keep
// their code and status; anything unexpected degrades to a generic 500
// without leaking internals.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		_ = Error(c, appErr.Status, appErr.Code, appErr.Message)
		return
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		msg, ok := httpErr.Message.(string)
		if !ok {
			msg = http.StatusText(httpErr.Code)
		}
		_ = Error(c, httpErr.Code, codeForStatus(httpErr.Code), msg)
		return
	}

	c.Logger().Error(err)
	_ = Error(c, http.StatusInternalServerError, apperr.ErrInternal.Code, apperr.ErrInternal.Message)
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "BAD_REQUEST"
	case http.StatusUnauthorized:
		return "UNAUTHORIZED"
	case http.StatusForbidden:
		return "FORBIDDEN"
	case http.StatusNotFound:
		return "NOT_FOUND"
	default:
		return "INTERNAL_ERROR"
	}
}
