package model

import (
	"testing"
	"time"
)

func TestAcceptsSales(t *testing.T) {
	future := time.Now().Add(time.Hour)
	past := time.Now().Add(-time.Hour)

	cases := []struct {
		name string
		e    Event
		want bool
	}{
		{"upcoming is not on sale", Event{Status: EventUpcoming}, false},
		{"on sale, no sale_start_at", Event{Status: EventOnSale}, true},
		{"on sale, sale_start_at in the past", Event{Status: EventOnSale, SaleStartAt: &past}, true},
		{"on sale, sale_start_at in the future", Event{Status: EventOnSale, SaleStartAt: &future}, false},
		{"sold out", Event{Status: EventSoldOut}, false},
		{"cancelled", Event{Status: EventCanceled}, false},
	}
	for _, tc := range cases {
		if got := tc.e.AcceptsSales(); got != tc.want {
			t.Errorf("%s: AcceptsSales() = %v, want %v", tc.name, got, tc.want)
		}
	}
}
