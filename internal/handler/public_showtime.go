// This file defines handlers for the public browsing API.  These
// routes let unauthenticated users browse showtimes and seat maps.
// Statuses are derived from wall-clock time on every request; nothing
// here mutates state, so the routes are safe to put behind the response
// cache middleware.
package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cinetick/booking-engine/internal/model"
	"github.com/cinetick/booking-engine/internal/repository"
)

// PublicHandler aggregates the read-side repositories for browsing.
// The clock is injected so the derived statuses are testable with
// fixed timestamps.
type PublicHandler struct {
	ShowtimeRepo  *repository.ShowtimeRepo
	TheaterRepo   *repository.TheaterRepo
	InventoryRepo *repository.SeatInventoryRepo
	Now           func() time.Time
}

// NewPublicHandler constructs a PublicHandler.  A nil clock defaults to
// time.Now in UTC.
func NewPublicHandler(showtimes *repository.ShowtimeRepo, theaters *repository.TheaterRepo, inventory *repository.SeatInventoryRepo, now func() time.Time) *PublicHandler {
	if showtimes == nil || theaters == nil || inventory == nil {
		panic("nil repository passed to NewPublicHandler")
	}
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &PublicHandler{ShowtimeRepo: showtimes, TheaterRepo: theaters, InventoryRepo: inventory, Now: now}
}

// PublicShowtime is the sanitized showtime shape for list and detail
// responses.
type PublicShowtime struct {
	ID             uint64 `json:"id"`
	MovieTitle     string `json:"movie_title"`
	DurationMin    int    `json:"duration_minutes"`
	TheaterName    string `json:"theater_name"`
	ShowDate       string `json:"show_date"`
	StartTime      string `json:"start_time"`
	PriceCents     uint32 `json:"price_cents"`
	Status         string `json:"status"`
	AvailableSeats uint32 `json:"available_seats"`
}

// SeatMapEntry is one topology cell decorated with its booked flag.
type SeatMapEntry struct {
	Row      string `json:"row"`
	Number   uint32 `json:"number"`
	SeatType string `json:"seat_type"`
	Booked   bool   `json:"booked"`
}

func (h *PublicHandler) toPublic(d *model.ShowtimeDetail, available uint32) PublicShowtime {
	status := model.ShowtimeCanceled
	if start, err := model.CombineShowDateTime(d.ShowDate, d.StartTime); err == nil {
		status = model.ResolveShowtimeStatus(start, d.DurationMinutes, d.IsCanceled, h.Now())
	}
	return PublicShowtime{
		ID:             d.ID,
		MovieTitle:     d.MovieTitle,
		DurationMin:    d.DurationMinutes,
		TheaterName:    d.TheaterName,
		ShowDate:       d.ShowDate,
		StartTime:      d.StartTime,
		PriceCents:     d.PriceCents,
		Status:         status,
		AvailableSeats: available,
	}
}

// availableForDisplay computes open seats for a display response.  On a
// query error the full capacity is reported rather than failing the
// page; display is non-authoritative, and the booking write path
// re-derives the set transactionally anyway.
func (h *PublicHandler) availableForDisplay(c echo.Context, showtimeID uint64, capacity uint32) uint32 {
	available, err := h.InventoryRepo.AvailableSeats(c.Request().Context(), showtimeID)
	if err != nil {
		return capacity
	}
	return available
}

// ListShowtimes handles GET /v1/showtimes.
func (h *PublicHandler) ListShowtimes(c echo.Context) error {
	details, err := h.ShowtimeRepo.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load showtimes"})
	}
	items := make([]PublicShowtime, 0, len(details))
	for i := range details {
		d := &details[i]
		items = append(items, h.toPublic(d, h.availableForDisplay(c, d.ID, d.TotalSeats)))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetShowtime handles GET /v1/showtimes/:id.
func (h *PublicHandler) GetShowtime(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid showtime id"})
	}
	d, err := h.ShowtimeRepo.GetDetail(c.Request().Context(), id)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"item": h.toPublic(d, h.availableForDisplay(c, d.ID, d.TotalSeats))})
}

// GetSeatMap handles GET /v1/showtimes/:id/seats.  Topology cells are
// marked booked when their case-normalized (row, number) key appears in
// the active booked set.  When the booked set cannot be loaded, the map
// is rendered entirely free; the authoritative check still happens at
// booking time.
func (h *PublicHandler) GetSeatMap(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid showtime id"})
	}
	ctx := c.Request().Context()
	d, err := h.ShowtimeRepo.GetDetail(ctx, id)
	if err != nil {
		return writeDomainError(c, err)
	}
	cells, err := h.TheaterRepo.SeatMap(ctx, d.TheaterID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load seat map"})
	}
	booked, err := h.InventoryRepo.BookedSeatKeys(ctx, id)
	if err != nil {
		booked = map[string]struct{}{}
	}
	available := h.availableForDisplay(c, d.ID, d.TotalSeats)
	entries := make([]SeatMapEntry, 0, len(cells))
	for _, cell := range cells {
		_, taken := booked[model.SeatKey(cell.RowLabel, cell.SeatNumber)]
		entries = append(entries, SeatMapEntry{
			Row:      cell.RowLabel,
			Number:   cell.SeatNumber,
			SeatType: cell.SeatType,
			Booked:   taken,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"showtime":        h.toPublic(d, available),
		"seats":           entries,
		"total_seats":     d.TotalSeats,
		"available_seats": available,
	})
}
