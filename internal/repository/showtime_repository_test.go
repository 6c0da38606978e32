package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/cinetick/booking-engine/internal/model"
)

// With parseTime=true the driver returns DATE columns as time.Time.
// The repository must render them back into "2006-01-02" so that the
// viewing-window math can recombine date and start time.
func TestGetDetailFormatsShowDate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	cols := []string{
		"id", "movie_id", "theater_id", "show_date", "start_time",
		"price_cents", "is_canceled",
		"title", "duration_minutes", "name", "total_seats",
	}
	mock.ExpectQuery(regexp.QuoteMeta(`JOIN theaters t ON t.id = st.theater_id`)).
		WithArgs(uint64(10)).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(
			10, 1, 2, time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), "20:00:00",
			1200, false,
			"Arrival", 116, "Hall 1", 50,
		))

	d, err := NewShowtimeRepo(db).GetDetail(context.Background(), 10)
	require.NoError(t, err)
	require.Equal(t, "2026-03-14", d.ShowDate)

	start, err := model.CombineShowDateTime(d.ShowDate, d.StartTime)
	require.NoError(t, err)
	require.Equal(t, time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC), start)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetDetailUnknownShowtime(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`JOIN theaters t ON t.id = st.theater_id`)).
		WithArgs(uint64(404)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err = NewShowtimeRepo(db).GetDetail(context.Background(), 404)
	require.ErrorIs(t, err, model.ErrShowtimeNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
