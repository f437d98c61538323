package queue

import (
	"context"
	"testing"

	"github.com/iliyamo/ticketing-core/internal/ticketing"
)

func TestSubmitRejectsSeatCountBeforeTouchingInfra(t *testing.T) {
	// Service is built with nil Stream/Status/Workers: Submit must reject
	// an out-of-range seat count before dereferencing any of them.
	svc := NewService(nil, nil, nil, 4)

	cases := [][]uint64{
		{},
		{1, 2, 3, 4, 5},
	}
	for _, seatIDs := range cases {
		_, err := svc.Submit(context.Background(), 1, 1, seatIDs, PriorityNormal, nil)
		if err == nil {
			t.Fatalf("Submit(%v): expected an error, got nil", seatIDs)
		}
		tErr, ok := err.(*ticketing.Error)
		if !ok {
			t.Fatalf("Submit(%v): expected *ticketing.Error, got %T", seatIDs, err)
		}
		if tErr.Kind != ticketing.InvalidInput {
			t.Errorf("Submit(%v): Kind = %v, want %v", seatIDs, tErr.Kind, ticketing.InvalidInput)
		}
	}
}
