package models

import "errors"

// Failure taxonomy shared by services and handlers. Every failure path in
// the services maps to exactly one of these; handlers translate them to
// HTTP statuses in one place.
var (
	ErrEventNotFound        = errors.New("event not found")
	ErrBookingNotFound      = errors.New("booking not found")
	ErrCategoryNotFound     = errors.New("ticket category not found")
	ErrInsufficientCapacity = errors.New("not enough tickets")
	ErrValidation           = errors.New("invalid request")
	ErrInvalidStatus        = errors.New("invalid booking status")
	ErrForbidden            = errors.New("not enough rights")
	ErrConflict             = errors.New("event has related bookings")

	// ErrTransientConflict is the only retryable condition: a storage-level
	// serialization or deadlock failure that survived the retry budget.
	ErrTransientConflict = errors.New("storage conflict, retry later")
)

func IsNotFound(err error) bool {
	return errors.Is(err, ErrEventNotFound) || errors.Is(err, ErrBookingNotFound)
}

func IsCallerError(err error) bool {
	return errors.Is(err, ErrCategoryNotFound) ||
		errors.Is(err, ErrInsufficientCapacity) ||
		errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidStatus)
}
