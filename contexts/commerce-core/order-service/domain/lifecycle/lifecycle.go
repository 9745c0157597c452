package lifecycle

import "strings"

// Order status is a closed enumeration with an explicit transition table.
// Arbitrary status strings are rejected before they reach a store.

type Status string

const (
	StatusPending        Status = "pending"
	StatusApproved       Status = "approved"
	StatusPicked         Status = "picked"
	StatusInTransit      Status = "in_transit"
	StatusOutForDelivery Status = "out_for_delivery"
	StatusDelivered      Status = "delivered"
	StatusRejected       Status = "rejected"
)

var transitions = map[Status][]Status{
	StatusPending:        {StatusApproved, StatusRejected},
	StatusApproved:       {StatusPicked, StatusInTransit},
	StatusPicked:         {StatusInTransit},
	StatusInTransit:      {StatusOutForDelivery, StatusDelivered},
	StatusOutForDelivery: {StatusDelivered},
	StatusDelivered:      nil,
	StatusRejected:       nil,
}

func Parse(raw string) (Status, bool) {
	status := Status(strings.ToLower(strings.TrimSpace(raw)))
	_, ok := transitions[status]
	return status, ok
}

func IsValid(status Status) bool {
	_, ok := transitions[status]
	return ok
}

// IsTerminal reports whether no transition leaves the status.
func IsTerminal(status Status) bool {
	next, ok := transitions[status]
	return ok && len(next) == 0
}

func CanTransition(from Status, to Status) bool {
	for _, candidate := range transitions[from] {
		if candidate == to {
			return true
		}
	}
	return false
}
