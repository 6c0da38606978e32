package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveShowtimeStatus(t *testing.T) {
	start := time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC)
	const duration = 120

	cases := []struct {
		name     string
		now      time.Time
		canceled bool
		want     string
	}{
		{"one minute before start", start.Add(-time.Minute), false, ShowtimeScheduled},
		{"one minute after start", start.Add(time.Minute), false, ShowtimeShowing},
		{"one minute past the end", start.Add(121 * time.Minute), false, ShowtimeCompleted},
		{"exactly at start", start, false, ShowtimeShowing},
		{"exactly at end", start.Add(120 * time.Minute), false, ShowtimeShowing},
		{"canceled before start", start.Add(-time.Hour), true, ShowtimeCanceled},
		{"canceled while showing", start.Add(time.Minute), true, ShowtimeCanceled},
		{"canceled after end", start.Add(3 * time.Hour), true, ShowtimeCanceled},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ResolveShowtimeStatus(start, duration, tc.canceled, tc.now)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestReconcileBookingStatus(t *testing.T) {
	end := time.Date(2026, 3, 14, 22, 0, 0, 0, time.UTC)

	t.Run("confirmed booking completes after the show ends", func(t *testing.T) {
		got := ReconcileBookingStatus(BookingConfirmed, end, end.Add(time.Second))
		assert.Equal(t, BookingCompleted, got)
	})
	t.Run("confirmed booking stays confirmed during the show", func(t *testing.T) {
		got := ReconcileBookingStatus(BookingConfirmed, end, end.Add(-time.Hour))
		assert.Equal(t, BookingConfirmed, got)
	})
	t.Run("completed booking reverts when the showtime moves later", func(t *testing.T) {
		got := ReconcileBookingStatus(BookingCompleted, end, end.Add(-time.Hour))
		assert.Equal(t, BookingConfirmed, got)
	})
	t.Run("terminal and pending statuses pass through", func(t *testing.T) {
		after := end.Add(time.Hour)
		assert.Equal(t, BookingCancelled, ReconcileBookingStatus(BookingCancelled, end, after))
		assert.Equal(t, BookingPending, ReconcileBookingStatus(BookingPending, end, after))
	})
	t.Run("idempotent", func(t *testing.T) {
		now := end.Add(time.Hour)
		once := ReconcileBookingStatus(BookingConfirmed, end, now)
		twice := ReconcileBookingStatus(once, end, now)
		assert.Equal(t, once, twice)
	})
}

func TestSeatKey(t *testing.T) {
	assert.Equal(t, "A-1", SeatKey("a", 1))
	assert.Equal(t, "A-1", SeatKey(" A ", 1))
	assert.Equal(t, "AB-12", SeatKey("ab", 12))
	assert.NotEqual(t, SeatKey("A", 1), SeatKey("A", 11))
}

func TestCanCancel(t *testing.T) {
	assert.True(t, CanCancel(BookingPending))
	assert.False(t, CanCancel(BookingConfirmed))
	assert.False(t, CanCancel(BookingCancelled))
	assert.False(t, CanCancel(BookingCompleted))
}

func TestIsActiveBookingStatus(t *testing.T) {
	assert.True(t, IsActiveBookingStatus(BookingPending))
	assert.True(t, IsActiveBookingStatus(BookingConfirmed))
	assert.False(t, IsActiveBookingStatus(BookingCancelled))
	assert.False(t, IsActiveBookingStatus(BookingCompleted))
}

func TestCombineShowDateTime(t *testing.T) {
	got, err := CombineShowDateTime("2026-03-14", "20:30:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 14, 20, 30, 0, 0, time.UTC), got)

	_, err = CombineShowDateTime("14-03-2026", "20:30:00")
	assert.Error(t, err)
}

func TestBookingDetailWindow(t *testing.T) {
	d := &BookingDetail{ShowDate: "2026-03-14", StartTime: "20:00:00", DurationMinutes: 90}
	start, end, err := d.Window()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC), start)
	assert.Equal(t, start.Add(90*time.Minute), end)
}
