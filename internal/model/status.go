package model

import "time"

// ResolveShowtimeStatus derives the display status of a showtime from
// the administrative cancel flag, the start of the viewing window, the
// movie duration and the current time.  It is a pure function: now is
// always supplied by the caller, never read from a global clock, so
// fixed timestamps can drive it in tests.
//
// The cancel flag wins over everything.  Otherwise the window
// [start, start+duration] splits time into SCHEDULED, SHOWING and
// COMPLETED; both boundary instants count as SHOWING.
func ResolveShowtimeStatus(start time.Time, durationMinutes int, canceled bool, now time.Time) string {
	if canceled {
		return ShowtimeCanceled
	}
	end := start.Add(time.Duration(durationMinutes) * time.Minute)
	if now.Before(start) {
		return ShowtimeScheduled
	}
	if now.After(end) {
		return ShowtimeCompleted
	}
	return ShowtimeShowing
}
