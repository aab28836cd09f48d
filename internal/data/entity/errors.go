package entity

import "errors"

// Domain errors surfaced by repositories and services. Handlers map these
// to HTTP responses with errors.Is, so conflict, validation, state and
// not-found failures stay distinguishable to the client.
var (
	// ErrSeatTaken: at least one requested seat already has an active
	// claim. The whole reservation is rejected, nothing is left claimed.
	ErrSeatTaken = errors.New("seat already taken")

	// ErrScheduleNotBookable: schedule is inactive, departed, or has
	// fewer free seats than requested.
	ErrScheduleNotBookable = errors.New("schedule not bookable")

	// ErrSeatNotFound: a seat id does not exist on the schedule's bus.
	ErrSeatNotFound = errors.New("seat not found")

	// ErrInvalidStateTransition: the booking state machine rejects the
	// requested transition (cancelled and refunded are terminal).
	ErrInvalidStateTransition = errors.New("invalid booking state transition")

	// ErrHoldExpired: a pending booking outlived its hold window; its
	// seats have been released.
	ErrHoldExpired = errors.New("booking hold expired")
)
