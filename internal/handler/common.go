package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/cinetick/booking-engine/internal/model"
)

// getUserID extracts the user_id placed into the context by the JWT
// middleware and converts it to uint64.  Claims decoded from JSON come
// through as float64; tokens minted in-process may carry native ints.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// writeDomainError maps each domain sentinel to its response code
// exactly once, so every handler surfaces the same taxonomy:
// not-found 404, validation 400, conflict/state 409, forbidden 403.
// Anything unrecognized is an internal error.
func writeDomainError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, model.ErrShowtimeNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "showtime not found"})
	case errors.Is(err, model.ErrBookingNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
	case errors.Is(err, model.ErrInvalidSeats):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid seat selection"})
	case errors.Is(err, model.ErrInvalidStatus):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status value"})
	case errors.Is(err, model.ErrSeatConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": "seat already booked"})
	case errors.Is(err, model.ErrInvalidTransition):
		return c.JSON(http.StatusConflict, echo.Map{"error": "illegal booking status transition"})
	case errors.Is(err, model.ErrShowtimeCanceled):
		return c.JSON(http.StatusConflict, echo.Map{"error": "showtime is canceled"})
	case errors.Is(err, model.ErrBookingPaid):
		return c.JSON(http.StatusConflict, echo.Map{"error": "paid bookings must be cancelled, not deleted"})
	case errors.Is(err, model.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}
