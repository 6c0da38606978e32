package model

import (
	"fmt"
	"strings"
	"time"
)

// Booking status values.  A booking counts against seat inventory only
// while it is PENDING or CONFIRMED.  CANCELLED and COMPLETED bookings
// keep their booked_seats rows for history but no longer hold seats.
const (
	BookingPending   = "PENDING"
	BookingConfirmed = "CONFIRMED"
	BookingCancelled = "CANCELLED"
	BookingCompleted = "COMPLETED"
)

// Payment status values.  PaymentDate is stamped when a booking
// transitions into PAID.
const (
	PaymentUnpaid   = "UNPAID"
	PaymentPaid     = "PAID"
	PaymentRefunded = "REFUNDED"
)

// Booking records a user's purchase of one or more seats for a showtime.
// TotalSeats must always equal the number of booked_seats rows owned by
// the booking and TotalPriceCents the sum of their prices.
type Booking struct {
	ID              uint64     // bookings.id
	UserID          uint64     // bookings.user_id
	ShowtimeID      uint64     // bookings.showtime_id
	Code            string     // bookings.code
	TotalSeats      uint32     // bookings.total_seats
	TotalPriceCents uint32     // bookings.total_price_cents
	BookingStatus   string     // bookings.booking_status
	PaymentStatus   string     // bookings.payment_status
	PaymentMethod   string     // bookings.payment_method
	PaymentDate     *time.Time // bookings.payment_date (nullable)
	CreatedAt       time.Time  // bookings.created_at
	UpdatedAt       time.Time  // bookings.updated_at
}

// BookedSeat binds one physical seat to exactly one booking.  The
// showtime ID is denormalized onto the row so that the active booked
// set for a showtime can be derived without touching bookings twice.
type BookedSeat struct {
	ID         uint64 // booked_seats.id
	BookingID  uint64 // booked_seats.booking_id
	ShowtimeID uint64 // booked_seats.showtime_id
	RowLabel   string // booked_seats.row_label
	SeatNumber uint32 // booked_seats.seat_number
	SeatType   string // booked_seats.seat_type
	PriceCents uint32 // booked_seats.price_cents
}

// IsActiveBookingStatus reports whether a booking in the given status
// still holds its seats against capacity.
func IsActiveBookingStatus(s string) bool {
	return s == BookingPending || s == BookingConfirmed
}

// CanCancel reports whether the owner may cancel a booking in the given
// status.  Only PENDING bookings are owner-cancellable; everything else
// requires an administrative override.
func CanCancel(s string) bool {
	return s == BookingPending
}

// ValidBookingStatus reports whether s is one of the four booking states.
func ValidBookingStatus(s string) bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCancelled, BookingCompleted:
		return true
	}
	return false
}

// ValidPaymentStatus reports whether s is a known payment state.
func ValidPaymentStatus(s string) bool {
	switch s {
	case PaymentUnpaid, PaymentPaid, PaymentRefunded:
		return true
	}
	return false
}

// ReconcileBookingStatus maps a stored booking status onto the status it
// should carry given the showtime's end and the current time.  A
// CONFIRMED booking whose showtime has ended becomes COMPLETED; a
// COMPLETED booking whose showtime has not yet ended (the showtime was
// rescheduled later) reverts to CONFIRMED.  All other statuses pass
// through unchanged.  The function is pure and idempotent so that
// concurrent readers may apply it freely.
func ReconcileBookingStatus(status string, showEnd, now time.Time) string {
	switch status {
	case BookingConfirmed:
		if now.After(showEnd) {
			return BookingCompleted
		}
	case BookingCompleted:
		if !now.After(showEnd) {
			return BookingConfirmed
		}
	}
	return status
}

// SeatKey normalizes a (row, number) pair into the canonical key used
// for conflict detection.  Row labels are trimmed and upper-cased so
// that "a1" and "A1" collide.
func SeatKey(row string, number uint32) string {
	return fmt.Sprintf("%s-%d", strings.ToUpper(strings.TrimSpace(row)), number)
}
