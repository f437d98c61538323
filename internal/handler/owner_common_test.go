package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func newTestContext(idParam string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(idParam)
	return c
}

func TestGetUserID(t *testing.T) {
	cases := []struct {
		name    string
		set     any
		want    uint64
		wantErr bool
	}{
		{"float64 JWT claim", float64(7), 7, false},
		{"uint64", uint64(7), 7, false},
		{"int", 7, 7, false},
		{"int64", int64(7), 7, false},
		{"numeric string", "7", 7, false},
		{"missing", nil, 0, true},
		{"garbage string", "nope", 0, true},
	}
	for _, tc := range cases {
		c := newTestContext("")
		if tc.set != nil {
			c.Set("user_id", tc.set)
		}
		got, err := getUserID(c)
		if (err != nil) != tc.wantErr {
			t.Errorf("%s: err = %v, wantErr = %v", tc.name, err, tc.wantErr)
			continue
		}
		if !tc.wantErr && got != tc.want {
			t.Errorf("%s: got = %d, want %d", tc.name, got, tc.want)
		}
	}
}

func TestParseIDParam(t *testing.T) {
	c := newTestContext("123")
	got, err := parseIDParam(c, "id")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 123 {
		t.Errorf("got = %d, want 123", got)
	}

	bad := newTestContext("not-a-number")
	if _, err := parseIDParam(bad, "id"); err == nil {
		t.Error("expected error for non-numeric id")
	}
}
