package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/cinetick/booking-engine/internal/model"
)

func TestAvailableSeats(t *testing.T) {
	ctx := context.Background()
	pattern := regexp.QuoteMeta(`COUNT(DISTINCT bs.row_label, bs.seat_number)`)

	t.Run("capacity minus active booked", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(pattern).
			WithArgs(uint64(10)).
			WillReturnRows(sqlmock.NewRows([]string{"total_seats", "booked"}).AddRow(50, 2))

		got, err := NewSeatInventoryRepo(db).AvailableSeats(ctx, 10)
		require.NoError(t, err)
		require.Equal(t, uint32(48), got)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("booked count at capacity floors at zero", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(pattern).
			WithArgs(uint64(10)).
			WillReturnRows(sqlmock.NewRows([]string{"total_seats", "booked"}).AddRow(50, 50))

		got, err := NewSeatInventoryRepo(db).AvailableSeats(ctx, 10)
		require.NoError(t, err)
		require.Equal(t, uint32(0), got)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown showtime", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(pattern).
			WithArgs(uint64(404)).
			WillReturnRows(sqlmock.NewRows([]string{"total_seats", "booked"}))

		_, err = NewSeatInventoryRepo(db).AvailableSeats(ctx, 404)
		require.ErrorIs(t, err, model.ErrShowtimeNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestBookedSeatKeys(t *testing.T) {
	ctx := context.Background()

	// The query must count only bookings that still hold their seats.
	pattern := regexp.QuoteMeta(`b.booking_status IN ('PENDING', 'CONFIRMED')`)

	t.Run("normalizes keys", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(pattern).
			WithArgs(uint64(10)).
			WillReturnRows(sqlmock.NewRows([]string{"row_label", "seat_number"}).
				AddRow("a", 1).
				AddRow("B", 12))

		keys, err := NewSeatInventoryRepo(db).BookedSeatKeys(ctx, 10)
		require.NoError(t, err)
		require.Equal(t, map[string]struct{}{"A-1": {}, "B-12": {}}, keys)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no active bookings", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(pattern).
			WithArgs(uint64(10)).
			WillReturnRows(sqlmock.NewRows([]string{"row_label", "seat_number"}))

		keys, err := NewSeatInventoryRepo(db).BookedSeatKeys(ctx, 10)
		require.NoError(t, err)
		require.Empty(t, keys)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
