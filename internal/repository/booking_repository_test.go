package repository

import (
	"context"
	"os"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/cinetick/booking-engine/internal/model"
)

var bookingDetailTestCols = []string{
	"id", "user_id", "showtime_id", "code",
	"total_seats", "total_price_cents", "booking_status", "payment_status",
	"payment_method", "payment_date", "created_at",
	"title", "duration_minutes", "name",
	"show_date", "start_time", "is_canceled",
}

func TestGetForUserRendersDetail(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	created := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	paid := time.Date(2026, 3, 1, 9, 31, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE b.id = ? AND b.user_id = ?`)).
		WithArgs(uint64(9), uint64(7)).
		WillReturnRows(sqlmock.NewRows(bookingDetailTestCols).AddRow(
			9, 7, 10, "TIX-20260301093000-ABCDEF",
			2, 2400, "CONFIRMED", "PAID",
			"card", paid, created,
			"Arrival", 116, "Hall 1",
			time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), "20:00:00", false,
		))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM booked_seats`)).
		WithArgs(uint64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"booking_id", "row_label", "seat_number", "seat_type", "price_cents"}).
			AddRow(9, "A", 1, "STANDARD", 1200).
			AddRow(9, "A", 2, "STANDARD", 1200))

	repo := NewBookingRepo(db, NewShowtimeRepo(db), NewSeatInventoryRepo(db))
	d, err := repo.GetForUser(context.Background(), 9, 7)
	require.NoError(t, err)

	// DATE comes back from the driver as time.Time and must be rendered
	// as "2006-01-02", not RFC3339, or the window math below breaks.
	require.Equal(t, "2026-03-14", d.ShowDate)
	start, end, err := d.Window()
	require.NoError(t, err)
	require.Equal(t, time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC), start)
	require.Equal(t, time.Date(2026, 3, 14, 21, 56, 0, 0, time.UTC), end)

	require.Equal(t, "2026-03-01T09:30:00Z", d.CreatedAt)
	require.NotNil(t, d.PaymentDate)
	require.Equal(t, "2026-03-01T09:31:00Z", *d.PaymentDate)
	require.Len(t, d.Seats, 2)
	require.Equal(t, model.BookingSeatView{Row: "A", Number: 1, SeatType: "STANDARD", PriceCents: 1200}, d.Seats[0])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetForUserUnpaidHasNoPaymentDate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE b.id = ? AND b.user_id = ?`)).
		WithArgs(uint64(9), uint64(7)).
		WillReturnRows(sqlmock.NewRows(bookingDetailTestCols).AddRow(
			9, 7, 10, "TIX-20260301093000-ABCDEF",
			1, 1200, "PENDING", "UNPAID",
			"", nil, time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC),
			"Arrival", 116, "Hall 1",
			time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), "20:00:00", false,
		))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM booked_seats`)).
		WithArgs(uint64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"booking_id", "row_label", "seat_number", "seat_type", "price_cents"}))

	repo := NewBookingRepo(db, NewShowtimeRepo(db), NewSeatInventoryRepo(db))
	d, err := repo.GetForUser(context.Background(), 9, 7)
	require.NoError(t, err)
	require.Nil(t, d.PaymentDate)
	require.NoError(t, mock.ExpectationsWereMet())
}

// The columns the insert and read paths name must all exist in the
// bookings schema.
func TestBookingsSchemaCoversQueriedColumns(t *testing.T) {
	raw, err := os.ReadFile("../../migrations/001_init.sql")
	require.NoError(t, err)

	schema := string(raw)
	start := strings.Index(schema, "CREATE TABLE IF NOT EXISTS bookings (")
	require.GreaterOrEqual(t, start, 0)
	block := schema[start:]
	end := strings.Index(block, "ENGINE=")
	require.GreaterOrEqual(t, end, 0)
	block = block[:end]

	cols := []string{
		"id", "user_id", "showtime_id", "code",
		"total_seats", "total_price_cents",
		"booking_status", "payment_status", "payment_method", "payment_date",
		"created_at", "updated_at",
	}
	for _, col := range cols {
		require.Regexp(t, `(?m)^\s+`+col+`\s`, block, "bookings table is missing column %s", col)
	}
}
