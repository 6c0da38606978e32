package service

// Administrative overrides layered on the same storage primitives as
// the customer paths, with relaxed checks: forced status changes bypass
// the pending-only cancellation rule, and deletion physically removes
// rows instead of flipping statuses.  Admins never take ownership of a
// booking; these operations are not scoped to a user.

import (
	"context"

	"github.com/cinetick/booking-engine/internal/model"
	"github.com/cinetick/booking-engine/internal/repository"
)

// SetPaymentStatus forces a booking's payment status to one of
// UNPAID/PAID/REFUNDED.  The payment date is stamped on the transition
// into PAID; other transitions leave the stored date untouched so the
// original payment moment survives a refund.
func (s *BookingService) SetPaymentStatus(ctx context.Context, bookingID uint64, status string) (*model.BookingDetail, error) {
	if !model.ValidPaymentStatus(status) {
		return nil, model.ErrInvalidStatus
	}
	d, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if status == model.PaymentPaid && d.PaymentStatus != model.PaymentPaid {
		paidAt := s.now()
		if err := s.bookings.UpdatePayment(ctx, bookingID, status, &paidAt); err != nil {
			return nil, err
		}
	} else {
		if err := s.bookings.UpdatePayment(ctx, bookingID, status, nil); err != nil {
			return nil, err
		}
	}
	d, err = s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	s.decorate(ctx, d)
	return d, nil
}

// SetBookingStatus forces a booking into any of the four states.  This
// deliberately bypasses the owner state machine; it is the escape
// hatch for support workflows such as refund-driven cancellations of
// confirmed bookings.
func (s *BookingService) SetBookingStatus(ctx context.Context, bookingID uint64, status string) (*model.BookingDetail, error) {
	if !model.ValidBookingStatus(status) {
		return nil, model.ErrInvalidStatus
	}
	if err := s.bookings.ForceStatus(ctx, bookingID, status); err != nil {
		return nil, err
	}
	d, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	s.decorate(ctx, d)
	return d, nil
}

// DeleteBooking removes a booking and its seats in one unit of work.
// Paid bookings are refused: financial history must be preserved, so
// they can only be cancelled.
func (s *BookingService) DeleteBooking(ctx context.Context, bookingID uint64) error {
	d, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if d.PaymentStatus == model.PaymentPaid {
		return model.ErrBookingPaid
	}
	return s.bookings.Delete(ctx, bookingID)
}

// GetBookingStats returns aggregate booking counts and paid revenue.
func (s *BookingService) GetBookingStats(ctx context.Context) (*repository.Stats, error) {
	return s.bookings.GetStats(ctx)
}
