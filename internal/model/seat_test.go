package model

import "testing"

func TestSeatIsAvailable(t *testing.T) {
	cases := []struct {
		status string
		want   bool
	}{
		{SeatAvailable, true},
		{SeatReserved, false},
		{SeatBooked, false},
		{SeatBlocked, false},
	}
	for _, tc := range cases {
		s := &Seat{Status: tc.status}
		if got := s.IsAvailable(); got != tc.want {
			t.Errorf("status %s: IsAvailable() = %v, want %v", tc.status, got, tc.want)
		}
	}
}
