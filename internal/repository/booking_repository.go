package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/cinetick/booking-engine/internal/model"
)

// BookingRepo provides persistence for bookings and their seats.  The
// Create path owns the central correctness property of the engine: no
// two active bookings may ever claim the same (row, number) pair for a
// showtime.  It enforces that with a per-showtime row lock and an
// in-transaction re-derivation of the booked set, so the check and the
// insert commit as one unit.
type BookingRepo struct {
	db        *sql.DB
	showtimes *ShowtimeRepo
	inventory *SeatInventoryRepo
}

// NewBookingRepo constructs a BookingRepo.  The showtime and inventory
// repositories must be non-nil; Create uses them for the lock and the
// transactional conflict check.
func NewBookingRepo(db *sql.DB, showtimes *ShowtimeRepo, inventory *SeatInventoryRepo) *BookingRepo {
	if showtimes == nil || inventory == nil {
		panic("nil repository passed to NewBookingRepo")
	}
	return &BookingRepo{db: db, showtimes: showtimes, inventory: inventory}
}

// Create inserts a booking and its seats atomically.  Within one
// transaction it (1) locks the showtime row, (2) re-derives the active
// booked-seat set, (3) returns model.ErrSeatConflict if any requested
// seat is taken, and (4) inserts the booking row plus one booked_seats
// row per seat.  The generated ID and DB timestamps are populated on b.
// The booking code is checked for uniqueness inside the same
// transaction; the UNIQUE index on bookings.code is the backstop.
func (r *BookingRepo) Create(ctx context.Context, b *model.Booking, seats []model.BookedSeat) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := r.showtimes.LockTx(ctx, tx, b.ShowtimeID); err != nil {
		return err
	}

	taken, err := r.inventory.BookedSeatKeysTx(ctx, tx, b.ShowtimeID)
	if err != nil {
		return err
	}
	for _, s := range seats {
		if _, ok := taken[model.SeatKey(s.RowLabel, s.SeatNumber)]; ok {
			return model.ErrSeatConflict
		}
	}

	var exists bool
	if err := tx.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM bookings WHERE code = ?)`, b.Code,
	).Scan(&exists); err != nil {
		return err
	}
	if exists {
		return ErrDuplicateCode
	}

	var payDate interface{}
	if b.PaymentDate != nil {
		payDate = b.PaymentDate.UTC().Format("2006-01-02 15:04:05")
	}
	const ins = `INSERT INTO bookings
		(user_id, showtime_id, code, total_seats, total_price_cents,
		 booking_status, payment_status, payment_method, payment_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, ins,
		b.UserID, b.ShowtimeID, b.Code, b.TotalSeats, b.TotalPriceCents,
		b.BookingStatus, b.PaymentStatus, b.PaymentMethod, payDate,
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)

	query := `INSERT INTO booked_seats (booking_id, showtime_id, row_label, seat_number, seat_type, price_cents) VALUES `
	args := make([]interface{}, 0, len(seats)*6)
	for i, s := range seats {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?, ?)"
		args = append(args, b.ID, b.ShowtimeID, strings.ToUpper(strings.TrimSpace(s.RowLabel)), s.SeatNumber, s.SeatType, s.PriceCents)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return err
	}

	const sel = `SELECT created_at, updated_at FROM bookings WHERE id = ?`
	if err := tx.QueryRowContext(ctx, sel, b.ID).Scan(&b.CreatedAt, &b.UpdatedAt); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// ErrDuplicateCode indicates a freshly generated booking code collided
// with an existing one.  Callers regenerate and retry.
var ErrDuplicateCode = errors.New("booking code already exists")

const bookingDetailColumns = `b.id, b.user_id, b.showtime_id, b.code,
	b.total_seats, b.total_price_cents, b.booking_status, b.payment_status,
	b.payment_method, b.payment_date, b.created_at,
	m.title, m.duration_minutes, t.name,
	st.show_date, st.start_time, st.is_canceled`

const bookingDetailFrom = ` FROM bookings b
	JOIN showtimes st ON st.id = b.showtime_id
	JOIN movies m ON m.id = st.movie_id
	JOIN theaters t ON t.id = st.theater_id`

func scanBookingDetail(scan func(dest ...interface{}) error) (*model.BookingDetail, error) {
	var d model.BookingDetail
	var payDate sql.NullTime
	var createdAt time.Time
	var showDate time.Time
	err := scan(
		&d.ID, &d.UserID, &d.ShowtimeID, &d.Code,
		&d.TotalSeats, &d.TotalPriceCents, &d.BookingStatus, &d.PaymentStatus,
		&d.PaymentMethod, &payDate, &createdAt,
		&d.MovieTitle, &d.DurationMinutes, &d.TheaterName,
		&showDate, &d.StartTime, &d.ShowtimeCanceled,
	)
	if err != nil {
		return nil, err
	}
	d.ShowDate = formatShowDate(showDate)
	if payDate.Valid {
		iso := payDate.Time.UTC().Format(time.RFC3339)
		d.PaymentDate = &iso
	}
	d.CreatedAt = createdAt.UTC().Format(time.RFC3339)
	d.Seats = []model.BookingSeatView{}
	return &d, nil
}

// loadSeats populates the Seats slice of every detail in place.  Seats
// are fetched for all bookings in a single IN query and matched back by
// booking id.
func (r *BookingRepo) loadSeats(ctx context.Context, details []*model.BookingDetail) error {
	if len(details) == 0 {
		return nil
	}
	index := make(map[uint64]*model.BookingDetail, len(details))
	ids := make([]interface{}, 0, len(details))
	placeholders := make([]string, 0, len(details))
	for _, d := range details {
		index[d.ID] = d
		ids = append(ids, d.ID)
		placeholders = append(placeholders, "?")
	}
	q := `SELECT booking_id, row_label, seat_number, seat_type, price_cents
		  FROM booked_seats
		  WHERE booking_id IN (` + strings.Join(placeholders, ",") + `)
		  ORDER BY booking_id, row_label, seat_number`
	rows, err := r.db.QueryContext(ctx, q, ids...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var bid uint64
		var v model.BookingSeatView
		if err := rows.Scan(&bid, &v.Row, &v.Number, &v.SeatType, &v.PriceCents); err != nil {
			return err
		}
		if d, ok := index[bid]; ok {
			d.Seats = append(d.Seats, v)
		}
	}
	return rows.Err()
}

// GetForUser returns a booking detail scoped to its owner.  Missing
// rows and rows owned by other users both yield model.ErrBookingNotFound.
func (r *BookingRepo) GetForUser(ctx context.Context, bookingID, userID uint64) (*model.BookingDetail, error) {
	q := `SELECT ` + bookingDetailColumns + bookingDetailFrom + ` WHERE b.id = ? AND b.user_id = ?`
	d, err := scanBookingDetail(r.db.QueryRowContext(ctx, q, bookingID, userID).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrBookingNotFound
		}
		return nil, err
	}
	if err := r.loadSeats(ctx, []*model.BookingDetail{d}); err != nil {
		return nil, err
	}
	return d, nil
}

// GetByID returns a booking detail without an ownership check.  It is
// reserved for administrative callers.
func (r *BookingRepo) GetByID(ctx context.Context, bookingID uint64) (*model.BookingDetail, error) {
	q := `SELECT ` + bookingDetailColumns + bookingDetailFrom + ` WHERE b.id = ?`
	d, err := scanBookingDetail(r.db.QueryRowContext(ctx, q, bookingID).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrBookingNotFound
		}
		return nil, err
	}
	if err := r.loadSeats(ctx, []*model.BookingDetail{d}); err != nil {
		return nil, err
	}
	return d, nil
}

// ListForUser returns all bookings for the given user, newest first,
// with showtime, movie, theater and seat details populated.
func (r *BookingRepo) ListForUser(ctx context.Context, userID uint64) ([]*model.BookingDetail, error) {
	q := `SELECT ` + bookingDetailColumns + bookingDetailFrom + ` WHERE b.user_id = ? ORDER BY b.created_at DESC, b.id DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	details := make([]*model.BookingDetail, 0)
	for rows.Next() {
		d, err := scanBookingDetail(rows.Scan)
		if err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.loadSeats(ctx, details); err != nil {
		return nil, err
	}
	return details, nil
}

// UpdateStatusGuarded flips booking_status from one specific value to
// another and reports whether a row actually changed.  The WHERE guard
// on the old status makes the flip idempotent and safe under concurrent
// readers performing the same reconciliation.
func (r *BookingRepo) UpdateStatusGuarded(ctx context.Context, bookingID uint64, from, to string) (bool, error) {
	const q = `UPDATE bookings SET booking_status = ? WHERE id = ? AND booking_status = ?`
	res, err := r.db.ExecContext(ctx, q, to, bookingID, from)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ForceStatus sets booking_status unconditionally.  Administrative
// override; the pending-only cancellation rule is enforced above this
// layer, not here.
func (r *BookingRepo) ForceStatus(ctx context.Context, bookingID uint64, status string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE bookings SET booking_status = ? WHERE id = ?`, status, bookingID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// RowsAffected is 0 both for missing rows and for no-op updates;
		// distinguish with an existence check.
		var exists bool
		if err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM bookings WHERE id = ?)`, bookingID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return model.ErrBookingNotFound
		}
	}
	return nil
}

// UpdatePayment sets payment_status and, when paidAt is non-nil, stamps
// payment_date.  A nil paidAt leaves the existing payment_date intact.
func (r *BookingRepo) UpdatePayment(ctx context.Context, bookingID uint64, status string, paidAt *time.Time) error {
	var err error
	if paidAt != nil {
		_, err = r.db.ExecContext(ctx,
			`UPDATE bookings SET payment_status = ?, payment_date = ? WHERE id = ?`,
			status, paidAt.UTC().Format("2006-01-02 15:04:05"), bookingID)
	} else {
		_, err = r.db.ExecContext(ctx,
			`UPDATE bookings SET payment_status = ? WHERE id = ?`, status, bookingID)
	}
	return err
}

// Delete removes a booking and its booked_seats rows in one
// transaction.  The paid-booking guard lives in the service layer;
// this method only guarantees the two deletes commit together.
func (r *BookingRepo) Delete(ctx context.Context, bookingID uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if _, err := tx.ExecContext(ctx, `DELETE FROM booked_seats WHERE booking_id = ?`, bookingID); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM bookings WHERE id = ?`, bookingID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return model.ErrBookingNotFound
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// Stats aggregates booking counts per status, the number of tickets
// sold and the revenue collected from paid bookings.
type Stats struct {
	TotalBookings     uint64 `json:"total_bookings"`
	PendingBookings   uint64 `json:"pending_bookings"`
	ConfirmedBookings uint64 `json:"confirmed_bookings"`
	CancelledBookings uint64 `json:"cancelled_bookings"`
	CompletedBookings uint64 `json:"completed_bookings"`
	TicketsSold       uint64 `json:"tickets_sold"`
	RevenueCents      uint64 `json:"revenue_cents"`
}

// GetStats computes aggregate counts and paid revenue across all
// bookings.  Tickets and revenue count only PAID bookings so refunds
// and unpaid rows never inflate the totals.
func (r *BookingRepo) GetStats(ctx context.Context) (*Stats, error) {
	const q = `SELECT
		COUNT(*),
		COALESCE(SUM(booking_status = 'PENDING'), 0),
		COALESCE(SUM(booking_status = 'CONFIRMED'), 0),
		COALESCE(SUM(booking_status = 'CANCELLED'), 0),
		COALESCE(SUM(booking_status = 'COMPLETED'), 0),
		COALESCE(SUM(CASE WHEN payment_status = 'PAID' THEN total_seats ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN payment_status = 'PAID' THEN total_price_cents ELSE 0 END), 0)
		FROM bookings`
	var s Stats
	if err := r.db.QueryRowContext(ctx, q).Scan(
		&s.TotalBookings, &s.PendingBookings, &s.ConfirmedBookings,
		&s.CancelledBookings, &s.CompletedBookings, &s.TicketsSold, &s.RevenueCents,
	); err != nil {
		return nil, err
	}
	return &s, nil
}
