package queue

import "testing"

func TestPriorityFromTier(t *testing.T) {
	cases := map[string]Priority{
		"HIGH":    PriorityHigh,
		"high":    PriorityHigh,
		"LOW":     PriorityLow,
		"low":     PriorityLow,
		"NORMAL":  PriorityNormal,
		"":        PriorityNormal,
		"bogus":   PriorityNormal,
	}
	for tier, want := range cases {
		if got := PriorityFromTier(tier); got != want {
			t.Errorf("PriorityFromTier(%q) = %q, want %q", tier, got, want)
		}
	}
}

func TestUintToA(t *testing.T) {
	cases := map[uint64]string{
		0:          "0",
		7:          "7",
		42:        "42",
		1000000000: "1000000000",
	}
	for in, want := range cases {
		if got := uintToA(in); got != want {
			t.Errorf("uintToA(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestStreamKey(t *testing.T) {
	if got := streamKey(17, PriorityHigh); got != "ticketing:queue:17:high" {
		t.Errorf("streamKey = %q", got)
	}
}
