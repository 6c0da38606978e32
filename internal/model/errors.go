package model

import "errors"

// Domain sentinel errors.  Repositories and services return these so
// that handlers can map each one deterministically to a response code:
// not-found → 404, validation → 400, conflict and state errors → 409,
// forbidden → 403.
var (
	// ErrShowtimeNotFound indicates the target showtime does not exist.
	ErrShowtimeNotFound = errors.New("showtime not found")

	// ErrBookingNotFound indicates the booking is absent or not owned
	// by the requesting user.  Ownership failures deliberately look the
	// same as missing rows to avoid leaking other users' booking IDs.
	ErrBookingNotFound = errors.New("booking not found")

	// ErrSeatConflict indicates at least one requested seat is already
	// held by an active booking for the same showtime.
	ErrSeatConflict = errors.New("seat already booked")

	// ErrInvalidSeats indicates an empty or malformed seat list.
	ErrInvalidSeats = errors.New("invalid seat selection")

	// ErrInvalidTransition indicates an illegal booking status change,
	// such as an owner cancelling a booking that is not pending.
	ErrInvalidTransition = errors.New("illegal booking status transition")

	// ErrShowtimeCanceled indicates an attempt to book a showtime whose
	// administrative flag is set to canceled.
	ErrShowtimeCanceled = errors.New("showtime is canceled")

	// ErrBookingPaid indicates an attempt to delete a paid booking.
	// Paid bookings must be cancelled instead to preserve financial
	// history.
	ErrBookingPaid = errors.New("booking is paid and cannot be deleted")

	// ErrInvalidStatus indicates an unknown booking or payment status
	// value supplied to an administrative override.
	ErrInvalidStatus = errors.New("unknown status value")

	// ErrForbidden indicates the caller lacks the role required for an
	// administrative operation.
	ErrForbidden = errors.New("forbidden")
)
