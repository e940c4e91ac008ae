package models

// Status is the lifecycle state of a reservation.
type Status string

const (
	StatusReserved  Status = "reserved"
	StatusFulfilled Status = "fulfilled"
	StatusCancelled Status = "cancelled"
)

// Statuses lists every valid status in lifecycle order.
var Statuses = []Status{StatusReserved, StatusFulfilled, StatusCancelled}

// ParseStatus returns the Status named by s, or false if s is not one of them.
func ParseStatus(s string) (Status, bool) {
	for _, st := range Statuses {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

func (s Status) Valid() bool {
	_, ok := ParseStatus(string(s))
	return ok
}

// Terminal reports whether no transition may leave s.
func (s Status) Terminal() bool {
	return s == StatusFulfilled || s == StatusCancelled
}

// CanTransitionTo reports whether s -> next is an allowed transition.
// Only reserved -> fulfilled and reserved -> cancelled exist.
func (s Status) CanTransitionTo(next Status) bool {
	return s == StatusReserved && next.Terminal()
}
