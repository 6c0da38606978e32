// Package queue contains the RabbitMQ integration for booking
// lifecycle events: the publisher used after a booking commits and the
// background consumer that appends events to logs/booking.log.
package queue

import (
	"time"

	"github.com/google/uuid"
)

// Event types carried on the booking.events queue.
const (
	EventBookingConfirmed = "booking.confirmed"
	EventBookingCancelled = "booking.cancelled"
)

// BookingEvent is the message published for every booking lifecycle
// change.  EventID makes deliveries traceable and deduplicatable by
// downstream consumers; the rest mirrors the booking at the moment the
// event occurred.
type BookingEvent struct {
	EventID         string   `json:"event_id"`
	Type            string   `json:"type"`
	BookingID       uint64   `json:"booking_id"`
	UserID          uint64   `json:"user_id"`
	ShowtimeID      uint64   `json:"showtime_id"`
	Code            string   `json:"code"`
	TotalSeats      uint32   `json:"total_seats"`
	TotalPriceCents uint32   `json:"total_price_cents"`
	SeatLabels      []string `json:"seat_labels"`
	OccurredAt      string   `json:"occurred_at"`
}

// NewBookingEvent assembles a BookingEvent with a fresh event ID and an
// RFC3339 UTC occurrence timestamp.
func NewBookingEvent(eventType string, bookingID, userID, showtimeID uint64, code string, totalSeats, totalPriceCents uint32, seatLabels []string, occurredAt time.Time) BookingEvent {
	return BookingEvent{
		EventID:         uuid.NewString(),
		Type:            eventType,
		BookingID:       bookingID,
		UserID:          userID,
		ShowtimeID:      showtimeID,
		Code:            code,
		TotalSeats:      totalSeats,
		TotalPriceCents: totalPriceCents,
		SeatLabels:      seatLabels,
		OccurredAt:      occurredAt.UTC().Format(time.RFC3339),
	}
}
