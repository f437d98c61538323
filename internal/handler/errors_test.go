package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/ticketing-core/internal/ticketing"
)

func TestWriteEngineErrMapsKindToStatus(t *testing.T) {
	cases := []struct {
		kind   ticketing.Kind
		status int
	}{
		{ticketing.InvalidInput, http.StatusBadRequest},
		{ticketing.StateMismatch, http.StatusBadRequest},
		{ticketing.NotFound, http.StatusNotFound},
		{ticketing.WrongEvent, http.StatusConflict},
		{ticketing.Unavailable, http.StatusConflict},
		{ticketing.RetryableConflict, http.StatusConflict},
		{ticketing.Forbidden, http.StatusForbidden},
		{ticketing.InfraUnavailable, http.StatusServiceUnavailable},
	}

	for _, tc := range cases {
		e := echo.New()
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := &ticketing.Error{Kind: tc.kind, Message: "boom"}
		if handlerErr := writeEngineErr(c, err); handlerErr != nil {
			t.Fatalf("writeEngineErr returned error: %v", handlerErr)
		}
		if rec.Code != tc.status {
			t.Errorf("kind %s: status = %d, want %d", tc.kind, rec.Code, tc.status)
		}

		var body map[string]any
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("invalid JSON body: %v", err)
		}
		if body["error"] != string(tc.kind) {
			t.Errorf("body error = %v, want %q", body["error"], tc.kind)
		}
	}
}

func TestWriteEngineErrNonTicketingErrorIs500(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := writeEngineErr(c, errors.New("db exploded")); err != nil {
		t.Fatalf("writeEngineErr returned error: %v", err)
	}
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestWriteEngineErrIncludesSeatLabels(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := &ticketing.Error{Kind: ticketing.Unavailable, Message: "taken", Labels: []string{"A1", "A2"}}
	if handlerErr := writeEngineErr(c, err); handlerErr != nil {
		t.Fatalf("writeEngineErr returned error: %v", handlerErr)
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	seats, ok := body["seats"].([]any)
	if !ok || len(seats) != 2 {
		t.Errorf("seats = %v", body["seats"])
	}
}
