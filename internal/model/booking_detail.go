package model

import "time"

// BookingSeatView is the seat shape returned inside booking details.
type BookingSeatView struct {
	Row        string `json:"row"`
	Number     uint32 `json:"number"`
	SeatType   string `json:"seat_type"`
	PriceCents uint32 `json:"price_cents"`
}

// BookingDetail aggregates a booking with its showtime, movie, theater
// and seat information for display to callers.  ShowtimeStatus is the
// derived screening phase and is filled in by the service layer on
// every read; it is never stored.
type BookingDetail struct {
	ID               uint64            `json:"id"`
	UserID           uint64            `json:"user_id"`
	ShowtimeID       uint64            `json:"showtime_id"`
	Code             string            `json:"code"`
	MovieTitle       string            `json:"movie_title"`
	TheaterName      string            `json:"theater_name"`
	ShowDate         string            `json:"show_date"`
	StartTime        string            `json:"start_time"`
	DurationMinutes  int               `json:"duration_minutes"`
	ShowtimeCanceled bool              `json:"-"`
	ShowtimeStatus   string            `json:"showtime_status"`
	TotalSeats       uint32            `json:"total_seats"`
	TotalPriceCents  uint32            `json:"total_price_cents"`
	BookingStatus    string            `json:"booking_status"`
	PaymentStatus    string            `json:"payment_status"`
	PaymentMethod    string            `json:"payment_method"`
	PaymentDate      *string           `json:"payment_date,omitempty"`
	CreatedAt        string            `json:"created_at"`
	Seats            []BookingSeatView `json:"seats"`
}

// Window returns the start and end of the booked showtime's viewing
// window in UTC.
func (d *BookingDetail) Window() (start, end time.Time, err error) {
	start, err = CombineShowDateTime(d.ShowDate, d.StartTime)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end = start.Add(time.Duration(d.DurationMinutes) * time.Minute)
	return start, end, nil
}
