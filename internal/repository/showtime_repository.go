// Package repository contains the data access layer of the booking
// engine.  Repositories are thin structs over *sql.DB; methods with a
// Tx suffix participate in a caller-owned transaction and never commit
// or roll back themselves.  All timestamps are stored in UTC.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/cinetick/booking-engine/internal/model"
)

// formatShowDate renders a DATE column value in the "2006-01-02" form
// the domain layer expects.  With parseTime=true the driver hands DATE
// columns back as time.Time; letting database/sql stringify them would
// produce RFC3339 and break the viewing-window math downstream.
func formatShowDate(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// ShowtimeRepo provides read access to the showtime catalog.  The
// catalog itself is maintained by an external collaborator; the booking
// engine only consumes it, so there are no mutation methods here.
type ShowtimeRepo struct {
	db *sql.DB
}

// NewShowtimeRepo constructs a ShowtimeRepo bound to the given database.
func NewShowtimeRepo(db *sql.DB) *ShowtimeRepo { return &ShowtimeRepo{db: db} }

// GetDetail returns a showtime joined with its movie and theater read
// models.  It returns model.ErrShowtimeNotFound when no row matches.
func (r *ShowtimeRepo) GetDetail(ctx context.Context, id uint64) (*model.ShowtimeDetail, error) {
	const q = `SELECT st.id, st.movie_id, st.theater_id, st.show_date, st.start_time,
					  st.price_cents, st.is_canceled,
					  m.title, m.duration_minutes,
					  t.name, t.total_seats
			   FROM showtimes st
			   JOIN movies m ON m.id = st.movie_id
			   JOIN theaters t ON t.id = st.theater_id
			   WHERE st.id = ?`
	var d model.ShowtimeDetail
	var showDate time.Time
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&d.ID, &d.MovieID, &d.TheaterID, &showDate, &d.StartTime,
		&d.PriceCents, &d.IsCanceled,
		&d.MovieTitle, &d.DurationMinutes,
		&d.TheaterName, &d.TotalSeats,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrShowtimeNotFound
		}
		return nil, err
	}
	d.ShowDate = formatShowDate(showDate)
	return &d, nil
}

// List returns all showtimes joined with movie and theater details,
// ordered by date and start time.  Listing is a display path; callers
// derive the dynamic status per row before returning to clients.
func (r *ShowtimeRepo) List(ctx context.Context) ([]model.ShowtimeDetail, error) {
	const q = `SELECT st.id, st.movie_id, st.theater_id, st.show_date, st.start_time,
					  st.price_cents, st.is_canceled,
					  m.title, m.duration_minutes,
					  t.name, t.total_seats
			   FROM showtimes st
			   JOIN movies m ON m.id = st.movie_id
			   JOIN theaters t ON t.id = st.theater_id
			   ORDER BY st.show_date, st.start_time, st.id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.ShowtimeDetail, 0)
	for rows.Next() {
		var d model.ShowtimeDetail
		var showDate time.Time
		if err := rows.Scan(
			&d.ID, &d.MovieID, &d.TheaterID, &showDate, &d.StartTime,
			&d.PriceCents, &d.IsCanceled,
			&d.MovieTitle, &d.DurationMinutes,
			&d.TheaterName, &d.TotalSeats,
		); err != nil {
			return nil, err
		}
		d.ShowDate = formatShowDate(showDate)
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// LockTx takes a row lock on the showtime inside the supplied
// transaction.  Concurrent seat allocations for the same showtime
// serialize on this lock, which makes the check-then-insert sequence in
// BookingRepo.Create safe.  Returns model.ErrShowtimeNotFound when the
// showtime does not exist.
func (r *ShowtimeRepo) LockTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	var locked uint64
	err := tx.QueryRowContext(ctx, `SELECT id FROM showtimes WHERE id = ? FOR UPDATE`, id).Scan(&locked)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ErrShowtimeNotFound
	}
	return err
}
