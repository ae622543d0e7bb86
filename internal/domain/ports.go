package domain

import (
	"context"
	"io"
)

type HotelRepository interface {
	// Write paths
	CreateHotel(ctx context.Context, h Hotel) error
	UpdateHotel(ctx context.Context, h Hotel) error
	DeleteHotel(ctx context.Context, id string) error
	CreateRoom(ctx context.Context, r Room) error
	UpdateRoom(ctx context.Context, r Room) error
	DeleteRoom(ctx context.Context, id string) error

	// Read paths
	GetHotel(ctx context.Context, id string) (Hotel, error)
	GetRoom(ctx context.Context, id string) (Room, error)
	ListHotels(ctx context.Context, f HotelFilter) ([]Hotel, error)
	ListHotelsByOwner(ctx context.Context, ownerID string) ([]Hotel, error)
}

type BookingRepository interface {
	// FindByPaymentIntent is scoped to the caller: a booking owned by another
	// user is reported as ErrNotFound.
	FindByPaymentIntent(ctx context.Context, paymentIntentID, userID string) (Booking, error)
	CreateBooking(ctx context.Context, b Booking) error
	UpdateBooking(ctx context.Context, b Booking) error
	MarkPaid(ctx context.Context, paymentIntentID, userID string) error
	ExistsForPaymentIntent(ctx context.Context, paymentIntentID string) (bool, error)
	ListByUser(ctx context.Context, userID string) ([]Booking, error)
	ListByHotel(ctx context.Context, hotelID string) ([]Booking, error)
}

type PaymentProcessor interface {
	CreateIntent(ctx context.Context, req IntentRequest) (PaymentIntent, error)
	CancelIntent(ctx context.Context, id string) error
}

type ImageStore interface {
	Upload(ctx context.Context, key, contentType string, body io.ReadSeeker) (url string, err error)
	Delete(ctx context.Context, key string) error
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// OrphanQueue holds payment-intent ids whose booking write failed and whose
// compensating cancel could not be completed inline.
type OrphanQueue interface {
	Push(ctx context.Context, paymentIntentID string) error
	Pop(ctx context.Context, n int) ([]string, error)
}

type UserDirectory interface {
	GetUser(ctx context.Context, userID string) (Identity, error)
}
