package status

import "strings"

// Status is the canonical order lifecycle stage. Every code or title coming
// off the wire is normalized to one of these at the boundary; all
// comparisons elsewhere are against this type, never raw strings.
type Status string

const (
	StatusPending       Status = "Pending"
	StatusAccepted      Status = "Accepted"
	StatusGoingToPickup Status = "Going to Pickup"
	StatusDelivered     Status = "Delivered"
	StatusCancelled     Status = "Cancelled"
	StatusUnknown       Status = ""
)

// legacyDeliveredCode is the numeric code older order records carry for a
// delivered order. Kept for backward compatibility with the invoice check.
const legacyDeliveredCode = "106"

// Title returns the human-readable canonical name.
func (s Status) Title() string {
	return string(s)
}

// ParseTitle maps a status title to its canonical value, case-insensitively.
// Unrecognized titles map to StatusUnknown.
func ParseTitle(title string) Status {
	switch strings.ToLower(strings.TrimSpace(title)) {
	case "pending":
		return StatusPending
	case "accepted":
		return StatusAccepted
	case "going to pickup":
		return StatusGoingToPickup
	case "delivered":
		return StatusDelivered
	case "cancelled":
		return StatusCancelled
	default:
		return StatusUnknown
	}
}

// IsDelivered reports whether a raw stored status value means delivered,
// accepting either the canonical title or the legacy numeric code.
func IsDelivered(raw string) bool {
	return ParseTitle(raw) == StatusDelivered || raw == legacyDeliveredCode
}

// IsTerminal reports whether no further transitions are possible.
func (s Status) IsTerminal() bool {
	return len(transitions[s]) == 0
}
