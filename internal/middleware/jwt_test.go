package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/iliyamo/ticketing-core/internal/utils"
	"github.com/labstack/echo/v4"
)

func TestJWTAuthMissingBearer(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := JWTAuth("secret")(func(c echo.Context) error { return c.NoContent(http.StatusOK) })(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestJWTAuthRejectsWrongSecret(t *testing.T) {
	tok, err := utils.NewAccessToken("right-secret", 7, "CUSTOMER", 15)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok.Token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err = JWTAuth("wrong-secret")(func(c echo.Context) error { return c.NoContent(http.StatusOK) })(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestJWTAuthSetsUserIDAndRole(t *testing.T) {
	tok, err := utils.NewAccessToken("shared-secret", 99, "ADMIN", 15)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok.Token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var gotUserID any
	var gotRole any
	next := func(c echo.Context) error {
		gotUserID = c.Get("user_id")
		gotRole = c.Get("role")
		return c.NoContent(http.StatusOK)
	}

	if err := JWTAuth("shared-secret")(next)(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if fmt.Sprint(gotUserID) != "99" {
		t.Errorf("user_id = %v, want 99", gotUserID)
	}
	if gotRole != "ADMIN" {
		t.Errorf("role = %v, want ADMIN", gotRole)
	}
}
