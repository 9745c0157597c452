package lifecycle

import "testing"

func TestParseRejectsFreeFormStatuses(t *testing.T) {
	if _, ok := Parse("Delivered "); !ok {
		t.Fatalf("expected trimmed lowercase parse to succeed")
	}
	if _, ok := Parse("shipped-ish"); ok {
		t.Fatalf("expected unknown status to be rejected")
	}
	if _, ok := Parse(""); ok {
		t.Fatalf("expected empty status to be rejected")
	}
}

func TestTransitionTable(t *testing.T) {
	allowed := []struct{ from, to Status }{
		{StatusPending, StatusApproved},
		{StatusPending, StatusRejected},
		{StatusApproved, StatusPicked},
		{StatusApproved, StatusInTransit},
		{StatusPicked, StatusInTransit},
		{StatusInTransit, StatusOutForDelivery},
		{StatusInTransit, StatusDelivered},
		{StatusOutForDelivery, StatusDelivered},
	}
	for _, tc := range allowed {
		if !CanTransition(tc.from, tc.to) {
			t.Fatalf("expected %s -> %s to be allowed", tc.from, tc.to)
		}
	}

	denied := []struct{ from, to Status }{
		{StatusPending, StatusDelivered},
		{StatusPending, StatusPicked},
		{StatusApproved, StatusPending},
		{StatusDelivered, StatusInTransit},
		{StatusRejected, StatusApproved},
		{StatusDelivered, StatusDelivered},
	}
	for _, tc := range denied {
		if CanTransition(tc.from, tc.to) {
			t.Fatalf("expected %s -> %s to be denied", tc.from, tc.to)
		}
	}
}

func TestTerminalStatuses(t *testing.T) {
	for _, status := range []Status{StatusDelivered, StatusRejected} {
		if !IsTerminal(status) {
			t.Fatalf("expected %s to be terminal", status)
		}
	}
	for _, status := range []Status{StatusPending, StatusApproved, StatusPicked, StatusInTransit, StatusOutForDelivery} {
		if IsTerminal(status) {
			t.Fatalf("expected %s to be non-terminal", status)
		}
	}
}
