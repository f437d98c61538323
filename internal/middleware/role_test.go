package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestRequireRole(t *testing.T) {
	cases := []struct {
		name       string
		roleVal    any
		allowed    []string
		wantStatus int
		wantCalled bool
	}{
		{"allowed role", "ADMIN", []string{"ADMIN"}, http.StatusOK, true},
		{"one of several allowed", "OWNER", []string{"ADMIN", "OWNER"}, http.StatusOK, true},
		{"disallowed role", "CUSTOMER", []string{"ADMIN"}, http.StatusForbidden, false},
		{"missing role", nil, []string{"ADMIN"}, http.StatusForbidden, false},
		{"wrong-typed role", 42, []string{"ADMIN"}, http.StatusForbidden, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			if tc.roleVal != nil {
				c.Set("role", tc.roleVal)
			}

			called := false
			next := func(c echo.Context) error {
				called = true
				return c.NoContent(http.StatusOK)
			}

			mw := RequireRole(tc.allowed...)
			if err := mw(next)(c); err != nil {
				t.Fatalf("middleware returned error: %v", err)
			}
			if called != tc.wantCalled {
				t.Errorf("next called = %v, want %v", called, tc.wantCalled)
			}
			if rec.Code != tc.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tc.wantStatus)
			}
		})
	}
}
