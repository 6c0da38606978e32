package repository

import (
	"context"
	"database/sql"

	"github.com/cinetick/booking-engine/internal/model"
)

// SeatInventoryRepo computes seat availability for showtimes.  The
// booked set for a showtime is the distinct (row, number) pairs of
// booked_seats rows whose owning booking is still active (PENDING or
// CONFIRMED).  Cancelled and completed bookings keep their seat rows
// but drop out of this query, which is how cancellation frees seats
// without any explicit release step.
type SeatInventoryRepo struct {
	db *sql.DB
}

// NewSeatInventoryRepo constructs a SeatInventoryRepo bound to the
// given database.
func NewSeatInventoryRepo(db *sql.DB) *SeatInventoryRepo { return &SeatInventoryRepo{db: db} }

const bookedKeysQuery = `SELECT DISTINCT bs.row_label, bs.seat_number
	FROM booked_seats bs
	JOIN bookings b ON b.id = bs.booking_id
	WHERE bs.showtime_id = ? AND b.booking_status IN ('PENDING', 'CONFIRMED')`

func scanSeatKeys(rows *sql.Rows) (map[string]struct{}, error) {
	keys := make(map[string]struct{})
	for rows.Next() {
		var row string
		var num uint32
		if err := rows.Scan(&row, &num); err != nil {
			return nil, err
		}
		keys[model.SeatKey(row, num)] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return keys, nil
}

// BookedSeatKeys returns the set of case-normalized seat keys currently
// held by active bookings for the showtime.  This is the display-path
// variant: it reads committed state without locking.
func (r *SeatInventoryRepo) BookedSeatKeys(ctx context.Context, showtimeID uint64) (map[string]struct{}, error) {
	rows, err := r.db.QueryContext(ctx, bookedKeysQuery, showtimeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSeatKeys(rows)
}

// BookedSeatKeysTx is the write-path variant of BookedSeatKeys.  It
// runs inside the caller's transaction so the allocation check sees the
// same snapshot the insert will commit against.  Callers must have
// locked the showtime row first (ShowtimeRepo.LockTx) to serialize
// concurrent allocations.
func (r *SeatInventoryRepo) BookedSeatKeysTx(ctx context.Context, tx *sql.Tx, showtimeID uint64) (map[string]struct{}, error) {
	rows, err := tx.QueryContext(ctx, bookedKeysQuery, showtimeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSeatKeys(rows)
}

// AvailableSeats returns the number of open seats for a showtime:
// theater capacity minus the active booked count, floored at zero.
func (r *SeatInventoryRepo) AvailableSeats(ctx context.Context, showtimeID uint64) (uint32, error) {
	const q = `SELECT t.total_seats,
					  (SELECT COUNT(DISTINCT bs.row_label, bs.seat_number)
					   FROM booked_seats bs
					   JOIN bookings b ON b.id = bs.booking_id
					   WHERE bs.showtime_id = st.id
						 AND b.booking_status IN ('PENDING', 'CONFIRMED'))
			   FROM showtimes st
			   JOIN theaters t ON t.id = st.theater_id
			   WHERE st.id = ?`
	var capacity, booked uint32
	if err := r.db.QueryRowContext(ctx, q, showtimeID).Scan(&capacity, &booked); err != nil {
		if err == sql.ErrNoRows {
			return 0, model.ErrShowtimeNotFound
		}
		return 0, err
	}
	if booked >= capacity {
		return 0, nil
	}
	return capacity - booked, nil
}
