package domain

import "time"

type Hotel struct {
	ID                  string `json:"id" db:"id"`
	OwnerID             string `json:"userId" db:"owner_id"`
	Title               string `json:"title" db:"title"`
	Description         string `json:"description" db:"description"`
	Image               string `json:"image" db:"image"`
	Country             string `json:"country" db:"country"`
	State               string `json:"state" db:"state"`
	City                string `json:"city" db:"city"`
	Address             string `json:"address" db:"address"`
	LocationDescription string `json:"locationDescription" db:"location_description"`
	HotelAmenities      `json:"amenities"`
	CreatedAt           time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt           time.Time `json:"updatedAt" db:"updated_at"`
	Rooms               []Room    `json:"rooms" db:"-"`
}

// HotelAmenities are display-only flags, persisted as individual columns.
type HotelAmenities struct {
	Gym         bool `json:"gym" db:"gym"`
	Spa         bool `json:"spa" db:"spa"`
	Bar         bool `json:"bar" db:"bar"`
	Laundry     bool `json:"laundry" db:"laundry"`
	Restaurant  bool `json:"restaurant" db:"restaurant"`
	Shopping    bool `json:"shopping" db:"shopping"`
	FreeParking bool `json:"freeParking" db:"free_parking"`
	BikeRental  bool `json:"bikeRental" db:"bike_rental"`
	FreeWifi    bool `json:"freeWifi" db:"free_wifi"`
	MovieNights bool `json:"movieNights" db:"movie_nights"`
	Pool        bool `json:"swimmingPool" db:"pool"`
	CoffeeShop  bool `json:"coffeeShop" db:"coffee_shop"`
	Breakfast   bool `json:"breakfast" db:"breakfast"`
}

type Room struct {
	ID            string `json:"id" db:"id"`
	HotelID       string `json:"hotelId" db:"hotel_id"`
	Title         string `json:"title" db:"title"`
	Description   string `json:"description" db:"description"`
	BedCount      int    `json:"bedCount" db:"bed_count"`
	GuestCount    int    `json:"guestCount" db:"guest_count"`
	BathroomCount int    `json:"bathroomCount" db:"bathroom_count"`
	KingBed       int    `json:"kingBed" db:"king_bed"`
	QueenBed      int    `json:"queenBed" db:"queen_bed"`
	Image         string `json:"image" db:"image"`
	Price         int64  `json:"roomPrice" db:"price"`
	RoomAmenities `json:"amenities"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" db:"updated_at"`
}

type RoomAmenities struct {
	RoomService  bool `json:"roomService" db:"room_service"`
	TV           bool `json:"TV" db:"tv"`
	Balcony      bool `json:"balcony" db:"balcony"`
	FreeWifi     bool `json:"freeWifi" db:"free_wifi"`
	CityView     bool `json:"cityView" db:"city_view"`
	OceanView    bool `json:"oceanView" db:"ocean_view"`
	ForestView   bool `json:"forestView" db:"forest_view"`
	MountainView bool `json:"mountainView" db:"mountain_view"`
	AirCondition bool `json:"airCondition" db:"air_condition"`
	SoundProof   bool `json:"soundProof" db:"sound_proof"`
}

// HotelFilter narrows the listing read path. Empty fields are not applied.
type HotelFilter struct {
	Title   string
	Country string
	City    string
}

func (f HotelFilter) Empty() bool {
	return f.Title == "" && f.Country == "" && f.City == ""
}

// HotelInput is the create/update form payload for a hotel.
type HotelInput struct {
	Title               string `json:"title" validate:"required,min=3"`
	Description         string `json:"description" validate:"required,min=10"`
	Image               string `json:"image" validate:"required"`
	Country             string `json:"country" validate:"required,min=1"`
	State               string `json:"state" validate:"required,min=2"`
	City                string `json:"city" validate:"required,min=2"`
	Address             string `json:"address" validate:"required,min=10"`
	LocationDescription string `json:"locationDescription" validate:"required,min=10"`
	HotelAmenities      `json:"amenities"`
}

// RoomInput is the create/update form payload for a room. HotelID is only
// read on create.
type RoomInput struct {
	HotelID       string `json:"hotelId"`
	Title         string `json:"title" validate:"required,min=3"`
	Description   string `json:"description" validate:"required,min=10"`
	BedCount      int    `json:"bedCount" validate:"gte=1"`
	GuestCount    int    `json:"guestCount" validate:"gte=1"`
	BathroomCount int    `json:"bathroomCount" validate:"gte=1"`
	KingBed       int    `json:"kingBed" validate:"gte=0"`
	QueenBed      int    `json:"queenBed" validate:"gte=0"`
	Image         string `json:"image" validate:"required"`
	Price         int64  `json:"roomPrice" validate:"gte=1"`
	RoomAmenities `json:"amenities"`
}
