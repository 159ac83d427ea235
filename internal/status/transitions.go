package status

// transitions is the single source of truth for which status an order may
// move to next. Delivered and Cancelled are terminal.
var transitions = map[Status][]Status{
	StatusPending:       {StatusAccepted, StatusCancelled},
	StatusAccepted:      {StatusGoingToPickup, StatusCancelled},
	StatusGoingToPickup: {StatusDelivered, StatusCancelled},
	StatusDelivered:     {},
	StatusCancelled:     {},
}

// AllowedTransitions returns the statuses the given status may move to.
// Unknown statuses have no allowed transitions.
func AllowedTransitions(current Status) []Status {
	next, ok := transitions[current]
	if !ok {
		return nil
	}
	out := make([]Status, len(next))
	copy(out, next)
	return out
}

// CanTransition reports whether moving from one status to another is
// permitted by the table.
func CanTransition(from, to Status) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
