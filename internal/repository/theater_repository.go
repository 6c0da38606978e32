package repository

import (
	"context"
	"database/sql"

	"github.com/cinetick/booking-engine/internal/model"
)

// TheaterRepo provides read access to theater seat-map topology.
// Capacity comes from the showtime joins; the topology only decorates
// seat maps and validates requested seat ids.
type TheaterRepo struct {
	db *sql.DB
}

// NewTheaterRepo constructs a TheaterRepo bound to the given database.
func NewTheaterRepo(db *sql.DB) *TheaterRepo { return &TheaterRepo{db: db} }

// SeatMap returns the theater's topology cells ordered by row and seat
// number.  An empty slice means the theater has no stored topology and
// seat legality cannot be validated for it.
func (r *TheaterRepo) SeatMap(ctx context.Context, theaterID uint64) ([]model.SeatMapCell, error) {
	const q = `SELECT row_label, seat_number, seat_type
			   FROM theater_seats
			   WHERE theater_id = ?
			   ORDER BY row_label, seat_number`
	rows, err := r.db.QueryContext(ctx, q, theaterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	cells := make([]model.SeatMapCell, 0)
	for rows.Next() {
		var c model.SeatMapCell
		if err := rows.Scan(&c.RowLabel, &c.SeatNumber, &c.SeatType); err != nil {
			return nil, err
		}
		cells = append(cells, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return cells, nil
}
