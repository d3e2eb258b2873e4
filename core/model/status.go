package model

import "fmt"

// BidReason is the terminal classification of a bid.
type BidReason int

const (
	ReasonNone BidReason = iota
	ReasonForceRejected
	ReasonTimeConflict
	ReasonHourLimitExceeded
	ReasonNotTrained
	ReasonSameDay
	ReasonAlreadyAssigned
	ReasonReceived
)

// BidOutcome records why a bid left a driver's active list. Round is set for
// the outcomes decided by a matching round.
type BidOutcome struct {
	Reason BidReason
	Round  int
}

// IsZero reports whether no outcome was ever recorded.
func (o BidOutcome) IsZero() bool { return o.Reason == ReasonNone }

func (o BidOutcome) String() string {
	switch o.Reason {
	case ReasonForceRejected:
		return "Force Rejected"
	case ReasonTimeConflict:
		return "Time Conflict"
	case ReasonHourLimitExceeded:
		return "Hour Limit Exceeded"
	case ReasonNotTrained:
		return "Not SpEd trained"
	case ReasonSameDay:
		return "Already received bid on same day"
	case ReasonAlreadyAssigned:
		return fmt.Sprintf("Route already assigned on iteration %d", o.Round)
	case ReasonReceived:
		return fmt.Sprintf("Received Bid on iteration %d", o.Round)
	default:
		return ""
	}
}

// Label returns a short snake_case name for r, suitable for metric labels.
func (r BidReason) Label() string {
	switch r {
	case ReasonForceRejected:
		return "force_rejected"
	case ReasonTimeConflict:
		return "time_conflict"
	case ReasonHourLimitExceeded:
		return "hour_limit"
	case ReasonNotTrained:
		return "not_trained"
	case ReasonSameDay:
		return "same_day"
	case ReasonAlreadyAssigned:
		return "already_assigned"
	case ReasonReceived:
		return "received"
	default:
		return "none"
	}
}
