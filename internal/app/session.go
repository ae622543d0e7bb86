package app

import (
	"context"
	"fmt"
	"time"

	"hotel_booking/internal/domain"
)

// SessionService keeps one BookRoomState per user between room selection and
// checkout.
type SessionService struct {
	store  domain.Cache
	hotels domain.HotelRepository
	ttl    time.Duration
}

func NewSessionService(store domain.Cache, hotels domain.HotelRepository, ttl time.Duration) *SessionService {
	return &SessionService{store: store, hotels: hotels, ttl: ttl}
}

func sessionKey(userID string) string { return "booking-session:" + userID }

func (s *SessionService) Get(ctx context.Context) (domain.BookRoomState, bool, error) {
	caller, ok := domain.IdentityFrom(ctx)
	if !ok {
		return domain.BookRoomState{}, false, domain.ErrUnauthorized
	}
	var st domain.BookRoomState
	found, err := s.store.Get(ctx, sessionKey(caller.UserID), &st)
	if err != nil {
		return domain.BookRoomState{}, false, fmt.Errorf("read booking session: %w", err)
	}
	return st, found, nil
}

// SelectRoom loads the room, prices the range and records it as the caller's
// current selection.
func (s *SessionService) SelectRoom(ctx context.Context, roomID string, start, end time.Time, breakfast bool) (domain.BookRoomState, error) {
	if _, ok := domain.IdentityFrom(ctx); !ok {
		return domain.BookRoomState{}, domain.ErrUnauthorized
	}
	if start.IsZero() || end.IsZero() {
		return domain.BookRoomState{}, &domain.ValidationError{Fields: map[string]string{"dateRange": "please select a date range"}}
	}
	if end.Before(start) {
		return domain.BookRoomState{}, &domain.ValidationError{Fields: map[string]string{"endDate": "must not be before startDate"}}
	}
	room, err := s.hotels.GetRoom(ctx, roomID)
	if err != nil {
		return domain.BookRoomState{}, err
	}
	_, total := TotalPrice(&start, &end, room.Price, breakfast)
	return s.SetRoomData(ctx, domain.BookRoomState{
		Room:              room,
		TotalPrice:        total,
		BreakfastIncluded: breakfast,
		StartDate:         start.UTC(),
		EndDate:           end.UTC(),
	})
}

// SetRoomData records the room selection. The payment fields survive only
// while the same room stays selected; picking another room starts a new
// reservation attempt.
func (s *SessionService) SetRoomData(ctx context.Context, st domain.BookRoomState) (domain.BookRoomState, error) {
	prev, found, err := s.Get(ctx)
	if err != nil {
		return domain.BookRoomState{}, err
	}
	st.ClientSecret, st.PaymentIntentID = "", ""
	if found && prev.Room.ID == st.Room.ID {
		st.ClientSecret, st.PaymentIntentID = prev.ClientSecret, prev.PaymentIntentID
	}
	return st, s.put(ctx, st)
}

// AttachPayment stores the client secret and intent id issued for the
// caller's current attempt on room. A session holding another room is
// replaced, so the intent is only ever offered back for the room it was
// priced on.
func (s *SessionService) AttachPayment(ctx context.Context, room domain.Room, pi domain.PaymentIntent) error {
	st, _, err := s.Get(ctx)
	if err != nil {
		return err
	}
	if st.Room.ID != room.ID {
		st = domain.BookRoomState{Room: room}
	}
	st.ClientSecret = pi.ClientSecret
	st.PaymentIntentID = pi.ID
	return s.put(ctx, st)
}

func (s *SessionService) Reset(ctx context.Context) error {
	caller, ok := domain.IdentityFrom(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}
	if err := s.store.Del(ctx, sessionKey(caller.UserID)); err != nil {
		return fmt.Errorf("reset booking session: %w", err)
	}
	return nil
}

func (s *SessionService) put(ctx context.Context, st domain.BookRoomState) error {
	caller, ok := domain.IdentityFrom(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}
	if err := s.store.Set(ctx, sessionKey(caller.UserID), st, int(s.ttl.Seconds())); err != nil {
		return fmt.Errorf("write booking session: %w", err)
	}
	return nil
}
