package model

import "time"

// Dynamic showtime status values.  These are derived from wall-clock
// time on every read and are never written back to the showtimes table.
// They are distinct from booking status, which tracks business
// disposition rather than screening time.
const (
	ShowtimeScheduled = "SCHEDULED"
	ShowtimeShowing   = "SHOWING"
	ShowtimeCompleted = "COMPLETED"
	ShowtimeCanceled  = "CANCELED"
)

// Showtime identifies a scheduled screening of a movie in a theater.
// Date and time are stored in DB format ("2006-01-02" / "15:04:05",
// both UTC) following the conventions of the rest of the schema.
// IsCanceled is the administrative flag; everything else about the
// screening phase is derived, never stored.
type Showtime struct {
	ID         uint64 // showtimes.id
	MovieID    uint64 // showtimes.movie_id
	TheaterID  uint64 // showtimes.theater_id
	ShowDate   string // showtimes.show_date ("2006-01-02", UTC)
	StartTime  string // showtimes.start_time ("15:04:05", UTC)
	PriceCents uint32 // showtimes.price_cents, flat per-seat price
	IsCanceled bool   // showtimes.is_canceled
	CreatedAt  string // showtimes.created_at
	UpdatedAt  string // showtimes.updated_at
}

// ShowtimeDetail joins a showtime with its movie and theater read
// models.  It carries everything the booking engine needs: the movie
// duration for the viewing window and the theater capacity for
// availability math.
type ShowtimeDetail struct {
	Showtime
	MovieTitle      string // movies.title
	DurationMinutes int    // movies.duration_minutes
	TheaterName     string // theaters.name
	TotalSeats      uint32 // theaters.total_seats
}

// CombineShowDateTime parses the stored date and time strings into a
// single UTC instant marking the start of the viewing window.
func CombineShowDateTime(showDate, startTime string) (time.Time, error) {
	return time.Parse("2006-01-02 15:04:05", showDate+" "+startTime)
}
