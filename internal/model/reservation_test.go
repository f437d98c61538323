package model

import "testing"

func TestReservationIsTerminal(t *testing.T) {
	cases := []struct {
		status string
		want   bool
	}{
		{ReservationActive, false},
		{ReservationConfirmed, true},
		{ReservationExpired, true},
		{ReservationCancelled, true},
	}
	for _, tc := range cases {
		r := &Reservation{Status: tc.status}
		if got := r.IsTerminal(); got != tc.want {
			t.Errorf("status %s: IsTerminal() = %v, want %v", tc.status, got, tc.want)
		}
	}
}
