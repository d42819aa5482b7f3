package apperr

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
)

// GlobalErrorHandler maps the error taxonomy onto HTTP responses. Handlers
// return errors and never write error bodies themselves.
func GlobalErrorHandler() echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, body := translate(err)
		if status >= http.StatusInternalServerError {
			slog.Error("Request failed", "uri", c.Request().RequestURI, "error", err)
		}
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(status)
			return
		}
		_ = c.JSON(status, body)
	}
}

func translate(err error) (int, map[string]string) {
	var (
		ve *ValidationError
		de *DataStoreError
		nf *NotFoundError
		ue *UnauthorizedError
		fe *ForbiddenError
		ce *ConflictError
		he *echo.HTTPError
	)

	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest, map[string]string{"error": ve.Message, "title": "validation error"}
	case errors.As(err, &nf):
		return http.StatusNotFound, map[string]string{"error": nf.Error()}
	case errors.As(err, &ue):
		return http.StatusUnauthorized, map[string]string{"error": ue.Message}
	case errors.As(err, &fe):
		return http.StatusForbidden, map[string]string{"error": fe.Message}
	case errors.As(err, &ce):
		return http.StatusConflict, map[string]string{"error": ce.Message}
	case errors.As(err, &de):
		return http.StatusInternalServerError, map[string]string{"error": "internal server error"}
	case errors.As(err, &he):
		return he.Code, map[string]string{"error": fmt.Sprintf("%v", he.Message)}
	}

	slog.Error("Unhandled error", "error", err)
	return http.StatusInternalServerError, map[string]string{"error": "internal server error"}
}
