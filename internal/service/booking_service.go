// Package service implements the booking lifecycle manager.  It sits
// between the HTTP handlers and the repositories, owning the seat
// allocation invariant, the booking state machine and the lazy
// reconciliation of confirmed/completed statuses.  Stores are consumed
// through small interfaces so the lifecycle logic can be exercised
// against in-memory fakes.
package service

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/cinetick/booking-engine/internal/model"
	"github.com/cinetick/booking-engine/internal/queue"
	"github.com/cinetick/booking-engine/internal/repository"
)

// ShowtimeStore supplies showtime read models joined with movie and
// theater data.
type ShowtimeStore interface {
	GetDetail(ctx context.Context, id uint64) (*model.ShowtimeDetail, error)
}

// TheaterStore supplies seat-map topology for seat legality checks.
type TheaterStore interface {
	SeatMap(ctx context.Context, theaterID uint64) ([]model.SeatMapCell, error)
}

// InventoryStore computes the active booked-seat set for a showtime.
// The service uses it only for the cheap pre-check; the authoritative
// conflict check happens inside BookingStore.Create.
type InventoryStore interface {
	BookedSeatKeys(ctx context.Context, showtimeID uint64) (map[string]struct{}, error)
}

// BookingStore persists bookings.  Create must be atomic: the conflict
// check against active seats and the insert of the booking plus its
// seats commit as one unit, returning model.ErrSeatConflict when any
// requested seat is already held.
type BookingStore interface {
	Create(ctx context.Context, b *model.Booking, seats []model.BookedSeat) error
	GetForUser(ctx context.Context, bookingID, userID uint64) (*model.BookingDetail, error)
	GetByID(ctx context.Context, bookingID uint64) (*model.BookingDetail, error)
	ListForUser(ctx context.Context, userID uint64) ([]*model.BookingDetail, error)
	UpdateStatusGuarded(ctx context.Context, bookingID uint64, from, to string) (bool, error)
	ForceStatus(ctx context.Context, bookingID uint64, status string) error
	UpdatePayment(ctx context.Context, bookingID uint64, status string, paidAt *time.Time) error
	Delete(ctx context.Context, bookingID uint64) error
	GetStats(ctx context.Context) (*repository.Stats, error)
}

// EventPublisher emits booking lifecycle events.  Publishing is
// best-effort: failures are logged and never abort or roll back the
// booking they describe.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.BookingEvent) error
}

// BookingService is the booking lifecycle manager.  The clock is
// injected so every time-derived decision is reproducible in tests.
type BookingService struct {
	showtimes ShowtimeStore
	theaters  TheaterStore
	inventory InventoryStore
	bookings  BookingStore
	publisher EventPublisher
	now       func() time.Time
}

// NewBookingService constructs a BookingService.  The publisher may be
// nil, in which case events are silently skipped.  A nil clock defaults
// to time.Now in UTC.
func NewBookingService(showtimes ShowtimeStore, theaters TheaterStore, inventory InventoryStore, bookings BookingStore, publisher EventPublisher, now func() time.Time) *BookingService {
	if showtimes == nil || theaters == nil || inventory == nil || bookings == nil {
		panic("nil store passed to NewBookingService")
	}
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &BookingService{
		showtimes: showtimes,
		theaters:  theaters,
		inventory: inventory,
		bookings:  bookings,
		publisher: publisher,
		now:       now,
	}
}

// SeatInput is one requested seat in a booking request.  The price is
// not client-controlled: every seat is charged the showtime's flat
// per-seat price.
type SeatInput struct {
	Row      string `json:"row"`
	Number   uint32 `json:"number"`
	SeatType string `json:"seat_type"`
}

// CreateBookingInput carries everything CreateBooking needs besides the
// authenticated user.
type CreateBookingInput struct {
	ShowtimeID    uint64      `json:"showtime_id"`
	Seats         []SeatInput `json:"seats"`
	PaymentMethod string      `json:"payment_method"`
}

// codeRetries bounds regeneration attempts on a booking code collision.
const codeRetries = 3

// CreateBooking validates the request, allocates the seats and persists
// the booking atomically.  This system books and pays in a single step:
// new bookings are created CONFIRMED and PAID with the payment date
// stamped.  Two concurrent calls requesting overlapping seats on the
// same showtime yield exactly one success and one model.ErrSeatConflict.
func (s *BookingService) CreateBooking(ctx context.Context, userID uint64, in CreateBookingInput) (*model.BookingDetail, error) {
	seats, err := s.normalizeSeats(in.Seats)
	if err != nil {
		return nil, err
	}

	show, err := s.showtimes.GetDetail(ctx, in.ShowtimeID)
	if err != nil {
		return nil, err
	}
	if show.IsCanceled {
		return nil, model.ErrShowtimeCanceled
	}

	if err := s.validateAgainstSeatMap(ctx, show.TheaterID, seats); err != nil {
		return nil, err
	}

	// Cheap pre-check against committed state.  A stale read here only
	// costs an extra round trip; the write path re-derives the set
	// inside its own transaction and is the authority.
	if taken, err := s.inventory.BookedSeatKeys(ctx, in.ShowtimeID); err == nil {
		for _, seat := range seats {
			if _, ok := taken[model.SeatKey(seat.Row, seat.Number)]; ok {
				return nil, model.ErrSeatConflict
			}
		}
	}

	now := s.now()
	booking := &model.Booking{
		UserID:        userID,
		ShowtimeID:    in.ShowtimeID,
		TotalSeats:    uint32(len(seats)),
		BookingStatus: model.BookingConfirmed,
		PaymentStatus: model.PaymentPaid,
		PaymentMethod: in.PaymentMethod,
		PaymentDate:   &now,
	}
	rows := make([]model.BookedSeat, 0, len(seats))
	for _, seat := range seats {
		rows = append(rows, model.BookedSeat{
			ShowtimeID: in.ShowtimeID,
			RowLabel:   seat.Row,
			SeatNumber: seat.Number,
			SeatType:   seat.SeatType,
			PriceCents: show.PriceCents,
		})
		booking.TotalPriceCents += show.PriceCents
	}

	for attempt := 0; ; attempt++ {
		booking.Code = GenerateBookingCode(now)
		err = s.bookings.Create(ctx, booking, rows)
		if err == nil {
			break
		}
		if err == repository.ErrDuplicateCode && attempt < codeRetries {
			continue
		}
		return nil, err
	}

	s.publish(ctx, queue.EventBookingConfirmed, booking, seatLabels(rows))

	detail, err := s.bookings.GetForUser(ctx, booking.ID, userID)
	if err != nil {
		return nil, err
	}
	s.decorate(ctx, detail)
	return detail, nil
}

// CancelBooking cancels a booking owned by userID.  Only PENDING
// bookings may be cancelled by their owner; anything else is an illegal
// transition.  Seats are not freed explicitly; leaving the active
// statuses is what releases them from inventory.
func (s *BookingService) CancelBooking(ctx context.Context, bookingID, userID uint64) (*model.BookingDetail, error) {
	d, err := s.bookings.GetForUser(ctx, bookingID, userID)
	if err != nil {
		return nil, err
	}
	if !model.CanCancel(d.BookingStatus) {
		return nil, model.ErrInvalidTransition
	}
	ok, err := s.bookings.UpdateStatusGuarded(ctx, bookingID, model.BookingPending, model.BookingCancelled)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Lost a race with another writer; the booking is no longer pending.
		return nil, model.ErrInvalidTransition
	}
	d.BookingStatus = model.BookingCancelled
	s.publishDetail(ctx, queue.EventBookingCancelled, d)
	s.decorate(ctx, d)
	return d, nil
}

// GetBooking returns one booking scoped to its owner with derived
// status fields reconciled.
func (s *BookingService) GetBooking(ctx context.Context, bookingID, userID uint64) (*model.BookingDetail, error) {
	d, err := s.bookings.GetForUser(ctx, bookingID, userID)
	if err != nil {
		return nil, err
	}
	s.decorate(ctx, d)
	return d, nil
}

// ListBookings returns all bookings for a user, newest first, each
// passed through status reconciliation.
func (s *BookingService) ListBookings(ctx context.Context, userID uint64) ([]*model.BookingDetail, error) {
	details, err := s.bookings.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, d := range details {
		s.decorate(ctx, d)
	}
	return details, nil
}

// normalizeSeats validates and canonicalizes the requested seat list.
// Empty lists, blank row labels, zero seat numbers and duplicate seats
// within the request are all rejected as model.ErrInvalidSeats.
func (s *BookingService) normalizeSeats(in []SeatInput) ([]SeatInput, error) {
	if len(in) == 0 {
		return nil, model.ErrInvalidSeats
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]SeatInput, 0, len(in))
	for _, seat := range in {
		seat.Row = strings.TrimSpace(seat.Row)
		if seat.Row == "" || seat.Number == 0 {
			return nil, model.ErrInvalidSeats
		}
		key := model.SeatKey(seat.Row, seat.Number)
		if _, dup := seen[key]; dup {
			return nil, model.ErrInvalidSeats
		}
		seen[key] = struct{}{}
		if seat.SeatType == "" {
			seat.SeatType = model.SeatStandard
		}
		out = append(out, seat)
	}
	return out, nil
}

// validateAgainstSeatMap rejects seats that do not exist in the
// theater's topology or that target EMPTY cells.  Theaters without
// stored topology skip the check and rely on capacity accounting only.
// Seat types are corrected from the map so clients cannot upgrade a
// STANDARD cell to VIP by mislabeling it.
func (s *BookingService) validateAgainstSeatMap(ctx context.Context, theaterID uint64, seats []SeatInput) error {
	cells, err := s.theaters.SeatMap(ctx, theaterID)
	if err != nil {
		return err
	}
	if len(cells) == 0 {
		return nil
	}
	types := make(map[string]string, len(cells))
	for _, c := range cells {
		types[model.SeatKey(c.RowLabel, c.SeatNumber)] = c.SeatType
	}
	for i, seat := range seats {
		t, ok := types[model.SeatKey(seat.Row, seat.Number)]
		if !ok || t == model.SeatEmpty {
			return model.ErrInvalidSeats
		}
		seats[i].SeatType = t
	}
	return nil
}

// decorate fills the derived showtime status and lazily reconciles the
// confirmed/completed booking status against the viewing window.  The
// guarded update is idempotent, so concurrent readers may race on it
// freely; a failed reconciliation keeps the stored status and is
// retried on the next read.
func (s *BookingService) decorate(ctx context.Context, d *model.BookingDetail) {
	start, end, err := d.Window()
	if err != nil {
		return
	}
	now := s.now()
	d.ShowtimeStatus = model.ResolveShowtimeStatus(start, d.DurationMinutes, d.ShowtimeCanceled, now)
	want := model.ReconcileBookingStatus(d.BookingStatus, end, now)
	if want == d.BookingStatus {
		return
	}
	if ok, err := s.bookings.UpdateStatusGuarded(ctx, d.ID, d.BookingStatus, want); err == nil && ok {
		d.BookingStatus = want
	}
}

func seatLabels(rows []model.BookedSeat) []string {
	labels := make([]string, 0, len(rows))
	for _, r := range rows {
		labels = append(labels, model.SeatKey(r.RowLabel, r.SeatNumber))
	}
	return labels
}

func (s *BookingService) publish(ctx context.Context, eventType string, b *model.Booking, seats []string) {
	if s.publisher == nil {
		return
	}
	ev := queue.NewBookingEvent(eventType, b.ID, b.UserID, b.ShowtimeID, b.Code, b.TotalSeats, b.TotalPriceCents, seats, s.now())
	if err := s.publisher.Publish(ctx, ev); err != nil {
		log.Printf("booking-events: publish %s for booking %d failed: %v", eventType, b.ID, err)
	}
}

func (s *BookingService) publishDetail(ctx context.Context, eventType string, d *model.BookingDetail) {
	if s.publisher == nil {
		return
	}
	labels := make([]string, 0, len(d.Seats))
	for _, seat := range d.Seats {
		labels = append(labels, model.SeatKey(seat.Row, seat.Number))
	}
	ev := queue.NewBookingEvent(eventType, d.ID, d.UserID, d.ShowtimeID, d.Code, d.TotalSeats, d.TotalPriceCents, labels, s.now())
	if err := s.publisher.Publish(ctx, ev); err != nil {
		log.Printf("booking-events: publish %s for booking %d failed: %v", eventType, d.ID, err)
	}
}
