package middleware

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// principalID normalizes the "user_id" context value JWTAuth stores —
// a float64 once decoded from the JWT's numeric "sub" claim — into a
// uint64 for comparison against the X-User-ID header.
func principalID(v any) (uint64, bool) {
	switch t := v.(type) {
	case uint64:
		return t, true
	case float64:
		return uint64(t), true
	case string:
		n, err := strconv.ParseUint(t, 10, 64)
		return n, err == nil
	}
	return 0, false
}

// RequireUserHeader layers the ticketing domain's X-User-ID/X-User-Priority
// header contract on top of JWTAuth: it must run after JWTAuth so
// "user_id" is already in context. A caller-supplied X-User-ID that
// disagrees with the bearer token's principal is rejected outright —
// the header exists for downstream logging/tracing, not as a second
// identity source. X-User-Priority, when present, is stashed as
// "declared_priority" for handlers that accept an advisory priority
// signal without requiring it in the request body.
func RequireUserHeader() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if raw := c.Request().Header.Get("X-User-ID"); raw != "" {
				headerID, err := strconv.ParseUint(raw, 10, 64)
				if err != nil {
					return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid X-User-ID"})
				}
				if principal, ok := principalID(c.Get("user_id")); ok && principal != headerID {
					return c.JSON(http.StatusForbidden, echo.Map{"error": "X-User-ID does not match authenticated principal"})
				}
			}
			if p := c.Request().Header.Get("X-User-Priority"); p != "" {
				c.Set("declared_priority", p)
			}
			return next(c)
		}
	}
}
