package queue

import "testing"

func TestSeatList(t *testing.T) {
	cases := []struct {
		in   []string
		want string
	}{
		{nil, "[]"},
		{[]string{}, "[]"},
		{[]string{"A1"}, "[A1]"},
		{[]string{"A1", "A2", "B3"}, "[A1,A2,B3]"},
	}
	for _, tc := range cases {
		if got := seatList(tc.in); got != tc.want {
			t.Errorf("seatList(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
