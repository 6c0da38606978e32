package handler

// Administrative booking endpoints.  These sit behind the ADMIN role
// middleware and reuse the same service as the customer paths with
// relaxed ownership checks.  Admins may override statuses that the
// owner state machine would refuse, but a paid booking can never be
// deleted, only cancelled.

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/cinetick/booking-engine/internal/service"
)

// AdminBookingHandler exposes back-office booking operations.
type AdminBookingHandler struct {
	Service *service.BookingService
}

// NewAdminBookingHandler constructs an AdminBookingHandler.
func NewAdminBookingHandler(svc *service.BookingService) *AdminBookingHandler {
	if svc == nil {
		panic("nil service passed to NewAdminBookingHandler")
	}
	return &AdminBookingHandler{Service: svc}
}

func bookingIDParam(c echo.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	return id, err == nil && id != 0
}

// SetPaymentStatus handles PATCH /v1/admin/bookings/:id/payment with a
// body of {"payment_status": "UNPAID"|"PAID"|"REFUNDED"}.  Transitions
// into PAID stamp the payment date.
func (h *AdminBookingHandler) SetPaymentStatus(c echo.Context) error {
	bookingID, ok := bookingIDParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var body struct {
		PaymentStatus string `json:"payment_status"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	detail, err := h.Service.SetPaymentStatus(c.Request().Context(), bookingID, body.PaymentStatus)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"item": detail})
}

// SetBookingStatus handles PATCH /v1/admin/bookings/:id/status with a
// body of {"booking_status": ...}.  Any of the four states is allowed;
// this is the administrative override of the pending-only rule.
func (h *AdminBookingHandler) SetBookingStatus(c echo.Context) error {
	bookingID, ok := bookingIDParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var body struct {
		BookingStatus string `json:"booking_status"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	detail, err := h.Service.SetBookingStatus(c.Request().Context(), bookingID, body.BookingStatus)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"item": detail})
}

// Delete handles DELETE /v1/admin/bookings/:id.  The booking and its
// seats are removed in one unit of work; paid bookings are refused
// with 409.
func (h *AdminBookingHandler) Delete(c echo.Context) error {
	bookingID, ok := bookingIDParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	if err := h.Service.DeleteBooking(c.Request().Context(), bookingID); err != nil {
		return writeDomainError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Stats handles GET /v1/admin/bookings/stats.
func (h *AdminBookingHandler) Stats(c echo.Context) error {
	stats, err := h.Service.GetBookingStats(c.Request().Context())
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"item": stats})
}
