package ticketing

import (
	"errors"
	"testing"
)

func TestAsError(t *testing.T) {
	e := newErr(InvalidInput, "bad seat count")
	te, ok := AsError(e)
	if !ok {
		t.Fatal("expected ok=true for a *Error")
	}
	if te.Kind != InvalidInput || te.Message != "bad seat count" {
		t.Errorf("unexpected fields: %+v", te)
	}

	if _, ok := AsError(errors.New("plain")); ok {
		t.Error("expected ok=false for a non-*Error")
	}
}

func TestUnavailableErrCarriesLabels(t *testing.T) {
	err := unavailableErr([]string{"A1", "A2"})
	te, ok := AsError(err)
	if !ok {
		t.Fatal("expected ok=true")
	}
	if te.Kind != Unavailable {
		t.Errorf("Kind = %q, want %q", te.Kind, Unavailable)
	}
	if len(te.Labels) != 2 || te.Labels[0] != "A1" {
		t.Errorf("Labels = %v", te.Labels)
	}
	if err.Error() == "" {
		t.Error("Error() should not be empty")
	}
}
