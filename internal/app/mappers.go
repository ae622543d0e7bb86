package app

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"hotel_booking/internal/domain"
)

/********** form payload -> entity **********/

func newHotel(in domain.HotelInput, ownerID string, now time.Time) domain.Hotel {
	h := domain.Hotel{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		CreatedAt: now,
	}
	applyHotelInput(&h, in, now)
	return h
}

// applyHotelInput overwrites every form-controlled field; identity, owner and
// creation time are preserved.
func applyHotelInput(h *domain.Hotel, in domain.HotelInput, now time.Time) {
	h.Title = strings.TrimSpace(in.Title)
	h.Description = strings.TrimSpace(in.Description)
	h.Image = strings.TrimSpace(in.Image)
	h.Country = strings.TrimSpace(in.Country)
	h.State = strings.TrimSpace(in.State)
	h.City = strings.TrimSpace(in.City)
	h.Address = strings.TrimSpace(in.Address)
	h.LocationDescription = strings.TrimSpace(in.LocationDescription)
	h.HotelAmenities = in.HotelAmenities
	h.UpdatedAt = now
}

func newRoom(in domain.RoomInput, hotelID string, now time.Time) domain.Room {
	r := domain.Room{
		ID:        uuid.NewString(),
		HotelID:   hotelID,
		CreatedAt: now,
	}
	applyRoomInput(&r, in, now)
	return r
}

func applyRoomInput(r *domain.Room, in domain.RoomInput, now time.Time) {
	r.Title = strings.TrimSpace(in.Title)
	r.Description = strings.TrimSpace(in.Description)
	r.BedCount = in.BedCount
	r.GuestCount = in.GuestCount
	r.BathroomCount = in.BathroomCount
	r.KingBed = in.KingBed
	r.QueenBed = in.QueenBed
	r.Image = strings.TrimSpace(in.Image)
	r.Price = in.Price
	r.RoomAmenities = in.RoomAmenities
	r.UpdatedAt = now
}

/********** booking payload -> entity **********/

// applyBookingInput stamps the caller snapshot and payload onto b. The
// payment-intent id and booking id are left untouched.
func applyBookingInput(b *domain.Booking, in domain.BookingInput, caller domain.Identity, hotel domain.Hotel, currency string) {
	b.UserID = caller.UserID
	b.UserName = caller.FirstName
	b.UserEmail = caller.Email
	b.HotelID = in.HotelID
	b.RoomID = in.RoomID
	b.HotelOwnerID = hotel.OwnerID
	b.StartDate = in.StartDate.UTC()
	b.EndDate = in.EndDate.UTC()
	b.BreakfastIncluded = in.BreakfastIncluded
	b.TotalPrice = in.TotalPrice
	b.Currency = currency
}

/********** tiny helpers **********/

// ImageKey returns the object key of an uploaded image: everything after the
// last "/" of its URL. A bare key is returned unchanged.
func ImageKey(src string) string {
	src = strings.TrimSpace(src)
	if i := strings.LastIndexByte(src, '/'); i >= 0 {
		return src[i+1:]
	}
	return src
}

// hotelImageKeys collects the hotel image and every room image, skipping blanks
// and duplicates.
func hotelImageKeys(h domain.Hotel) []string {
	seen := make(map[string]struct{}, len(h.Rooms)+1)
	out := make([]string, 0, len(h.Rooms)+1)
	add := func(src string) {
		k := ImageKey(src)
		if k == "" {
			return
		}
		if _, ok := seen[k]; ok {
			return
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	add(h.Image)
	for _, r := range h.Rooms {
		add(r.Image)
	}
	return out
}
