package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/ticketing-core/internal/ticketing"
)

// writeEngineErr maps a ticketing.Error's Kind onto the HTTP status table
// and writes the JSON error body; any other error is reported as 500.
func writeEngineErr(c echo.Context, err error) error {
	tErr, ok := ticketing.AsError(err)
	if !ok {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	status := http.StatusInternalServerError
	switch tErr.Kind {
	case ticketing.InvalidInput, ticketing.StateMismatch:
		status = http.StatusBadRequest
	case ticketing.NotFound:
		status = http.StatusNotFound
	case ticketing.WrongEvent, ticketing.Unavailable, ticketing.RetryableConflict:
		status = http.StatusConflict
	case ticketing.Forbidden:
		status = http.StatusForbidden
	case ticketing.InfraUnavailable:
		status = http.StatusServiceUnavailable
	}

	body := echo.Map{"error": string(tErr.Kind), "message": tErr.Message}
	if len(tErr.Labels) > 0 {
		body["seats"] = tErr.Labels
	}
	return c.JSON(status, body)
}
