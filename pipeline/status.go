package pipeline

import (
	"net/http"

	"github.com/YuminosukeSato/regplot/pkg/errors"
)

const (
	msgRenderFailed = "Error rendering chart"
	msgInternal     = "internal server error"
)

// StatusOf maps a Run failure to an HTTP status and a client-facing message.
// Request and data problems are 400 and keep the underlying message; render
// failures and unknown errors are 500 with a fixed message.
func StatusOf(err error) (int, string) {
	var (
		inputErr   *errors.InputMissingError
		invalidErr *errors.InvalidRequestError
		parseErr   *errors.ParseError
		columnErr  *errors.MissingColumnError
		fitErr     *errors.FitError
		renderErr  *errors.RenderError
	)
	switch {
	case err == nil:
		return http.StatusOK, ""
	case errors.As(err, &inputErr):
		return http.StatusBadRequest, inputErr.Error()
	case errors.As(err, &invalidErr):
		return http.StatusBadRequest, invalidErr.Error()
	case errors.As(err, &parseErr):
		return http.StatusBadRequest, parseErr.Error()
	case errors.As(err, &columnErr):
		return http.StatusBadRequest, columnErr.Error()
	case errors.As(err, &fitErr):
		return http.StatusBadRequest, fitErr.Error()
	case errors.As(err, &renderErr):
		return http.StatusInternalServerError, msgRenderFailed
	default:
		return http.StatusInternalServerError, msgInternal
	}
}

func errorType(err error) string {
	switch {
	case errors.As(err, new(*errors.InputMissingError)):
		return "InputMissingError"
	case errors.As(err, new(*errors.InvalidRequestError)):
		return "InvalidRequestError"
	case errors.As(err, new(*errors.ParseError)):
		return "ParseError"
	case errors.As(err, new(*errors.MissingColumnError)):
		return "MissingColumnError"
	case errors.As(err, new(*errors.FitError)):
		return "FitError"
	case errors.As(err, new(*errors.RenderError)):
		return "RenderError"
	default:
		return "InternalError"
	}
}
