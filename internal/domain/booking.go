package domain

import "time"

type Booking struct {
	ID                string    `json:"id" db:"id"`
	UserID            string    `json:"userId" db:"user_id"`
	UserName          string    `json:"userName" db:"user_name"`
	UserEmail         string    `json:"userEmail" db:"user_email"`
	HotelID           string    `json:"hotelId" db:"hotel_id"`
	RoomID            string    `json:"roomId" db:"room_id"`
	HotelOwnerID      string    `json:"hotelOwnerId" db:"hotel_owner_id"`
	StartDate         time.Time `json:"startDate" db:"start_date"`
	EndDate           time.Time `json:"endDate" db:"end_date"`
	BreakfastIncluded bool      `json:"breakFastIncluded" db:"breakfast_included"`
	Currency          string    `json:"currency" db:"currency"`
	TotalPrice        int64     `json:"totalPrice" db:"total_price"`
	PaymentStatus     bool      `json:"paymentStatus" db:"payment_status"`
	PaymentIntentID   string    `json:"paymentIntentId" db:"payment_intent_id"`
	BookedAt          time.Time `json:"bookedAt" db:"booked_at"`
}

// BookingInput is the payload a caller submits when starting or revising a
// reservation attempt.
type BookingInput struct {
	HotelID           string    `json:"hotelId" validate:"required"`
	RoomID            string    `json:"roomId" validate:"required"`
	StartDate         time.Time `json:"startDate" validate:"required"`
	EndDate           time.Time `json:"endDate" validate:"required,gtefield=StartDate"`
	BreakfastIncluded bool      `json:"breakFastIncluded"`
	TotalPrice        int64     `json:"totalPrice" validate:"gte=1"`
}

// PaymentIntent is the subset of the processor's object the client needs to
// complete payment.
type PaymentIntent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
	Status       string `json:"status"`
}

type IntentRequest struct {
	Amount   int64 // minor units
	Currency string
	Metadata map[string]string
}

// ReconcileResult carries exactly one of Intent (create path) or Updated (update path).
type ReconcileResult struct {
	Booking Booking
	Intent  *PaymentIntent
	Updated bool
}

// BookRoomState is the per-user checkout state handed from room selection
// to the checkout screen.
type BookRoomState struct {
	Room              Room      `json:"room"`
	TotalPrice        int64     `json:"totalPrice"`
	BreakfastIncluded bool      `json:"breakFastIncluded"`
	StartDate         time.Time `json:"startDate"`
	EndDate           time.Time `json:"endDate"`
	ClientSecret      string    `json:"clientSecret,omitempty"`
	PaymentIntentID   string    `json:"paymentIntentId,omitempty"`
}
