package middleware

import (
	"net/http"

	domainerrors "rewards/internal/domain/errors"
	"rewards/internal/errors"

	"github.com/labstack/echo/v4"
)

// responseStatus is the status the client will see. A handler error is rendered
// by the HTTP error handler only after the middleware chain unwinds.
func responseStatus(c echo.Context, err error) int {
	if c.Response().Committed {
		return c.Response().Status
	}
	if err == nil {
		if status := c.Response().Status; status != 0 {
			return status
		}

		return http.StatusOK
	}

	var appErr domainerrors.AppError
	if errors.As(err, &appErr) {
		return appErr.HTTPCode()
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Code
	}

	return http.StatusInternalServerError
}
