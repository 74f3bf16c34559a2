package domain

import (
	"testing"
	"time"
)

func TestCanTransition_AllPairs(t *testing.T) {
	all := []OrderStatus{
		OrderStatusPending,
		OrderStatusConfirmed,
		OrderStatusPreparing,
		OrderStatusReady,
		OrderStatusOutForDelivery,
		OrderStatusDelivered,
		OrderStatusCancelled,
	}

	legal := func(from, to OrderStatus) bool {
		if from.IsTerminal() {
			return false
		}
		if to == OrderStatusCancelled {
			return true
		}
		return from.sequenceIndex()+1 == to.sequenceIndex() && to.sequenceIndex() > 0
	}

	for _, from := range all {
		for _, to := range all {
			want := legal(from, to)
			if got := CanTransition(from, to); got != want {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestCanTransition_TerminalFinality(t *testing.T) {
	targets := []OrderStatus{
		OrderStatusPending,
		OrderStatusConfirmed,
		OrderStatusDelivered,
		OrderStatusCancelled,
	}
	for _, terminal := range []OrderStatus{OrderStatusDelivered, OrderStatusCancelled} {
		for _, to := range targets {
			if CanTransition(terminal, to) {
				t.Errorf("expected no transition out of %s, but %s was accepted", terminal, to)
			}
		}
	}
}

func TestCanTransition_NoSkipsOrBackwardMoves(t *testing.T) {
	if CanTransition(OrderStatusConfirmed, OrderStatusOutForDelivery) {
		t.Error("confirmed -> out_for_delivery should be rejected")
	}
	if CanTransition(OrderStatusReady, OrderStatusPreparing) {
		t.Error("ready -> preparing should be rejected")
	}
	if CanTransition(OrderStatusPreparing, OrderStatusPreparing) {
		t.Error("self transition should be rejected")
	}
}

func TestOrderStatus_Valid(t *testing.T) {
	if !OrderStatusCancelled.Valid() {
		t.Error("cancelled should be valid")
	}
	if OrderStatus("refunded").Valid() {
		t.Error("unknown status should be invalid")
	}
}

func TestProjectDelivery(t *testing.T) {
	createdAt := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	est := ProjectDelivery(createdAt, 30, 15)

	if want := createdAt.Add(45 * time.Minute); !est.Estimate.Equal(want) {
		t.Fatalf("estimate = %v, want %v", est.Estimate, want)
	}
	if want := est.Estimate.Add(-5 * time.Minute); !est.WindowStart.Equal(want) {
		t.Fatalf("window start = %v, want %v", est.WindowStart, want)
	}
	if want := est.Estimate.Add(10 * time.Minute); !est.WindowEnd.Equal(want) {
		t.Fatalf("window end = %v, want %v", est.WindowEnd, want)
	}
}
