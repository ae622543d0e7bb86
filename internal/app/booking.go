package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"hotel_booking/internal/adapters/observability"
	"hotel_booking/internal/domain"
)

type BookingService struct {
	hotels   domain.HotelRepository
	bookings domain.BookingRepository
	payments domain.PaymentProcessor
	orphans  domain.OrphanQueue
	sessions *SessionService
	currency string
	now      func() time.Time
}

func NewBookingService(h domain.HotelRepository, b domain.BookingRepository, p domain.PaymentProcessor, currency string) *BookingService {
	if currency == "" {
		currency = "usd"
	}
	return &BookingService{hotels: h, bookings: b, payments: p, currency: currency, now: time.Now}
}

// WithOrphanQueue sets where intents go when the inline cancel after a failed
// booking write does not succeed.
func (s *BookingService) WithOrphanQueue(q domain.OrphanQueue) *BookingService {
	s.orphans = q
	return s
}

// WithSessions links reconciliation to the caller's checkout state.
func (s *BookingService) WithSessions(ss *SessionService) *BookingService {
	s.sessions = ss
	return s
}

// Reconcile produces exactly one payment intent and one booking per
// reservation attempt. A prior intent id that matches a booking of the caller
// updates that booking in place; anything else creates a new intent and row.
func (s *BookingService) Reconcile(ctx context.Context, in domain.BookingInput, paymentIntentID string) (domain.ReconcileResult, error) {
	caller, ok := domain.IdentityFrom(ctx)
	if !ok {
		observability.ObserveReconcile("unauthorized")
		return domain.ReconcileResult{}, domain.ErrUnauthorized
	}
	res, err := s.reconcile(ctx, caller, in, paymentIntentID)
	switch {
	case err == nil && res.Updated:
		observability.ObserveReconcile("updated")
	case err == nil:
		observability.ObserveReconcile("created")
	case errors.Is(err, domain.ErrConflict):
		observability.ObserveReconcile("conflict")
	default:
		observability.ObserveReconcile("error")
	}
	return res, err
}

func (s *BookingService) reconcile(ctx context.Context, caller domain.Identity, in domain.BookingInput, paymentIntentID string) (domain.ReconcileResult, error) {
	if err := validateInput(in); err != nil {
		return domain.ReconcileResult{}, err
	}
	hotel, err := s.hotels.GetHotel(ctx, in.HotelID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ReconcileResult{}, fmt.Errorf("hotel %s: %w", in.HotelID, err)
		}
		return domain.ReconcileResult{}, fmt.Errorf("load hotel %s: %w: %w", in.HotelID, domain.ErrExternal, err)
	}
	room, ok := roomOf(hotel, in.RoomID)
	if !ok {
		return domain.ReconcileResult{}, fmt.Errorf("room %s in hotel %s: %w", in.RoomID, in.HotelID, domain.ErrNotFound)
	}

	// the session's intent continues the attempt only for the room it was issued on
	if paymentIntentID == "" && s.sessions != nil {
		if st, ok, err := s.sessions.Get(ctx); err != nil {
			log.Warn().Err(err).Str("user_id", caller.UserID).Msg("booking session read failed")
		} else if ok && st.Room.ID == in.RoomID {
			paymentIntentID = st.PaymentIntentID
		}
	}

	if paymentIntentID != "" {
		found, err := s.bookings.FindByPaymentIntent(ctx, paymentIntentID, caller.UserID)
		switch {
		case err == nil:
			return s.update(ctx, found, caller, hotel, in)
		case errors.Is(err, domain.ErrNotFound):
			// first attempt, or an id issued to someone else
		default:
			return domain.ReconcileResult{}, fmt.Errorf("find booking by intent: %w: %w", domain.ErrExternal, err)
		}
	}
	return s.create(ctx, caller, hotel, room, in)
}

func (s *BookingService) update(ctx context.Context, b domain.Booking, caller domain.Identity, hotel domain.Hotel, in domain.BookingInput) (domain.ReconcileResult, error) {
	if b.PaymentStatus {
		return domain.ReconcileResult{}, fmt.Errorf("booking %s already paid: %w", b.ID, domain.ErrConflict)
	}
	applyBookingInput(&b, in, caller, hotel, s.currency)
	if err := s.bookings.UpdateBooking(ctx, b); err != nil {
		return domain.ReconcileResult{}, fmt.Errorf("update booking %s: %w: %w", b.ID, domain.ErrExternal, err)
	}
	log.Info().Str("booking_id", b.ID).Str("payment_intent_id", b.PaymentIntentID).Msg("booking updated")
	return domain.ReconcileResult{Booking: b, Updated: true}, nil
}

func (s *BookingService) create(ctx context.Context, caller domain.Identity, hotel domain.Hotel, room domain.Room, in domain.BookingInput) (domain.ReconcileResult, error) {
	intent, err := s.payments.CreateIntent(ctx, domain.IntentRequest{
		Amount:   in.TotalPrice * 100,
		Currency: s.currency,
		Metadata: map[string]string{"user_id": caller.UserID, "hotel_id": in.HotelID, "room_id": in.RoomID},
	})
	if err != nil {
		return domain.ReconcileResult{}, fmt.Errorf("create payment intent: %w: %w", domain.ErrExternal, err)
	}

	b := domain.Booking{
		ID:              uuid.NewString(),
		PaymentIntentID: intent.ID,
		BookedAt:        s.now().UTC(),
	}
	applyBookingInput(&b, in, caller, hotel, s.currency)
	if err := s.bookings.CreateBooking(ctx, b); err != nil {
		s.compensate(context.WithoutCancel(ctx), intent.ID)
		return domain.ReconcileResult{}, fmt.Errorf("create booking: %w: %w", domain.ErrExternal, err)
	}
	log.Info().Str("booking_id", b.ID).Str("payment_intent_id", intent.ID).Int64("amount", intent.Amount).Msg("booking created")

	if s.sessions != nil {
		if err := s.sessions.AttachPayment(ctx, room, intent); err != nil {
			log.Warn().Err(err).Str("user_id", caller.UserID).Msg("booking session update failed")
		}
	}
	return domain.ReconcileResult{Booking: b, Intent: &intent}, nil
}

// compensate cancels an intent whose booking row could not be written. When
// the cancel itself fails the id is queued for the sweeper.
func (s *BookingService) compensate(ctx context.Context, intentID string) {
	cerr := s.payments.CancelIntent(ctx, intentID)
	if cerr == nil {
		observability.ObserveOrphan("cancelled")
		log.Warn().Str("payment_intent_id", intentID).Msg("payment intent cancelled after booking write failure")
		return
	}
	if s.orphans != nil {
		err := s.orphans.Push(ctx, intentID)
		if err == nil {
			observability.ObserveOrphan("queued")
			log.Warn().Err(cerr).Str("payment_intent_id", intentID).Msg("payment intent queued for sweep")
			return
		}
		log.Error().Err(err).Str("payment_intent_id", intentID).Msg("orphan queue push failed")
	}
	log.Error().Err(cerr).Str("payment_intent_id", intentID).Msg("payment intent left without booking")
}

// MarkPaid flags the caller's booking for the given intent as paid and clears
// the caller's checkout state.
func (s *BookingService) MarkPaid(ctx context.Context, paymentIntentID string) error {
	caller, ok := domain.IdentityFrom(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}
	if err := s.bookings.MarkPaid(ctx, paymentIntentID, caller.UserID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return err
		}
		return fmt.Errorf("mark paid %s: %w: %w", paymentIntentID, domain.ErrExternal, err)
	}
	if s.sessions != nil {
		if err := s.sessions.Reset(ctx); err != nil {
			log.Warn().Err(err).Str("user_id", caller.UserID).Msg("booking session reset failed")
		}
	}
	return nil
}

func (s *BookingService) ListOwn(ctx context.Context) ([]domain.Booking, error) {
	caller, ok := domain.IdentityFrom(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	return s.bookings.ListByUser(ctx, caller.UserID)
}

// ListForHotel is restricted to the hotel's owner.
func (s *BookingService) ListForHotel(ctx context.Context, hotelID string) ([]domain.Booking, error) {
	caller, ok := domain.IdentityFrom(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	h, err := s.hotels.GetHotel(ctx, hotelID)
	if err != nil {
		return nil, err
	}
	if h.OwnerID != caller.UserID {
		return nil, domain.ErrForbidden
	}
	return s.bookings.ListByHotel(ctx, hotelID)
}

func roomOf(h domain.Hotel, roomID string) (domain.Room, bool) {
	for _, r := range h.Rooms {
		if r.ID == roomID {
			return r, true
		}
	}
	return domain.Room{}, false
}
