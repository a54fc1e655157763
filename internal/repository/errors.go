// Package repository defines error values shared across repositories.
// These sentinels let handlers map failure scenarios onto stable HTTP
// codes without inspecting driver errors. CapacityError is the one
// structured error: it carries the remaining spot count so the API can
// tell the caller how many seats are still available.
package repository

import (
	"errors"
	"fmt"
)

// ErrClassNotFound is returned when a class id references no row.
var ErrClassNotFound = errors.New("class not found")

// ErrClassInactive is returned when a booking targets a class whose
// is_active flag is off. Handlers treat this the same as a missing
// class (404) but callers inside the engine can tell the two apart.
var ErrClassInactive = errors.New("class is inactive")

// ErrBookingNotFound is returned when a booking id references no row.
var ErrBookingNotFound = errors.New("booking not found")

// ErrDuplicateBooking is returned when the caller already holds an
// active (non-cancelled) booking for the same class and date.
var ErrDuplicateBooking = errors.New("already booked for this class and date")

// ErrBookingFinal is returned when an update attempts a status
// transition out of cancelled or completed. Neither state has a
// defined exit.
var ErrBookingFinal = errors.New("booking is in a terminal state")

// ErrTrainerNotFound is returned when a trainer id references no row.
var ErrTrainerNotFound = errors.New("trainer not found")

// ErrApplicationNotFound is returned when a membership application id
// references no row.
var ErrApplicationNotFound = errors.New("membership application not found")

// ErrDuplicateApplication is returned when an email already has a
// pending or approved membership application.
var ErrDuplicateApplication = errors.New("an active application already exists for this email")

// ErrAlreadySubscribed is returned when a newsletter signup reuses an
// existing email address.
var ErrAlreadySubscribed = errors.New("email already subscribed")

// CapacityError reports a reservation that would exceed a class's
// capacity for the requested date. Available is capacity minus the live
// sum of participants across non-cancelled bookings, computed inside
// the same transaction that rejected the reservation.
type CapacityError struct {
	Available int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("not enough spots available (%d left)", e.Available)
}
