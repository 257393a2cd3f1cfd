package handler

import (
	stderrors "errors"
	"fmt"

	"github.com/labstack/echo/v4"

	"salespipeline/internal/errors"
)

// badRequest reports input that could not be decoded as a validation failure.
func badRequest(err error) error {
	msg := err.Error()
	var he *echo.HTTPError
	if stderrors.As(err, &he) {
		msg = fmt.Sprint(he.Message)
	}
	return mapError(errors.NewValidationError("", msg))
}

func mapError(err error) error {
	httpErr := errors.MapErrorToHTTP(err)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}
