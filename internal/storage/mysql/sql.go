package mysql

const hotelColumns = `id, owner_id, title, description, image, country, state, city, address,
  location_description, gym, spa, bar, laundry, restaurant, shopping, free_parking,
  bike_rental, free_wifi, movie_nights, pool, coffee_shop, breakfast, created_at, updated_at`

const roomColumns = `id, hotel_id, title, description, bed_count, guest_count, bathroom_count,
  king_bed, queen_bed, image, price, room_service, tv, balcony, free_wifi, city_view,
  ocean_view, forest_view, mountain_view, air_condition, sound_proof, created_at, updated_at`

const bookingColumns = `id, user_id, user_name, user_email, hotel_id, room_id, hotel_owner_id,
  start_date, end_date, breakfast_included, currency, total_price, payment_status,
  payment_intent_id, booked_at`

const insertHotelSQL = `
INSERT INTO hotels (` + hotelColumns + `)
VALUES
  (:id, :owner_id, :title, :description, :image, :country, :state, :city, :address,
   :location_description, :gym, :spa, :bar, :laundry, :restaurant, :shopping, :free_parking,
   :bike_rental, :free_wifi, :movie_nights, :pool, :coffee_shop, :breakfast, :created_at, :updated_at)
`

const updateHotelSQL = `
UPDATE hotels SET
  title                = :title,
  description          = :description,
  image                = :image,
  country              = :country,
  state                = :state,
  city                 = :city,
  address              = :address,
  location_description = :location_description,
  gym                  = :gym,
  spa                  = :spa,
  bar                  = :bar,
  laundry              = :laundry,
  restaurant           = :restaurant,
  shopping             = :shopping,
  free_parking         = :free_parking,
  bike_rental          = :bike_rental,
  free_wifi            = :free_wifi,
  movie_nights         = :movie_nights,
  pool                 = :pool,
  coffee_shop          = :coffee_shop,
  breakfast            = :breakfast,
  updated_at           = :updated_at
WHERE id = :id
`

const insertRoomSQL = `
INSERT INTO rooms (` + roomColumns + `)
VALUES
  (:id, :hotel_id, :title, :description, :bed_count, :guest_count, :bathroom_count,
   :king_bed, :queen_bed, :image, :price, :room_service, :tv, :balcony, :free_wifi, :city_view,
   :ocean_view, :forest_view, :mountain_view, :air_condition, :sound_proof, :created_at, :updated_at)
`

const updateRoomSQL = `
UPDATE rooms SET
  title          = :title,
  description    = :description,
  bed_count      = :bed_count,
  guest_count    = :guest_count,
  bathroom_count = :bathroom_count,
  king_bed       = :king_bed,
  queen_bed      = :queen_bed,
  image          = :image,
  price          = :price,
  room_service   = :room_service,
  tv             = :tv,
  balcony        = :balcony,
  free_wifi      = :free_wifi,
  city_view      = :city_view,
  ocean_view     = :ocean_view,
  forest_view    = :forest_view,
  mountain_view  = :mountain_view,
  air_condition  = :air_condition,
  sound_proof    = :sound_proof,
  updated_at     = :updated_at
WHERE id = :id
`

// Rooms and bookings go with their hotel through ON DELETE CASCADE.
const deleteHotelSQL = `DELETE FROM hotels WHERE id = ?`
const deleteRoomSQL = `DELETE FROM rooms WHERE id = ?`

const getHotelSQL = `SELECT ` + hotelColumns + ` FROM hotels WHERE id = ?`
const getRoomSQL = `SELECT ` + roomColumns + ` FROM rooms WHERE id = ?`

// Expanded with sqlx.In.
const roomsForHotelsSQL = `SELECT ` + roomColumns + ` FROM rooms WHERE hotel_id IN (?) ORDER BY created_at, id`

// -----------------------------------------------------------------------------
// BOOKINGS
// -----------------------------------------------------------------------------

const insertBookingSQL = `
INSERT INTO bookings (` + bookingColumns + `)
VALUES
  (:id, :user_id, :user_name, :user_email, :hotel_id, :room_id, :hotel_owner_id,
   :start_date, :end_date, :breakfast_included, :currency, :total_price, :payment_status,
   :payment_intent_id, :booked_at)
`

// The owner guard keeps a forged payment-intent id from touching another user's row.
const updateBookingSQL = `
UPDATE bookings SET
  user_name          = :user_name,
  user_email         = :user_email,
  hotel_id           = :hotel_id,
  room_id            = :room_id,
  hotel_owner_id     = :hotel_owner_id,
  start_date         = :start_date,
  end_date           = :end_date,
  breakfast_included = :breakfast_included,
  currency           = :currency,
  total_price        = :total_price
WHERE payment_intent_id = :payment_intent_id AND user_id = :user_id AND payment_status = FALSE
`

const findBookingByIntentSQL = `SELECT ` + bookingColumns + ` FROM bookings WHERE payment_intent_id = ? AND user_id = ?`

const markPaidSQL = `UPDATE bookings SET payment_status = TRUE WHERE payment_intent_id = ? AND user_id = ?`

const bookingExistsSQL = `SELECT EXISTS(SELECT 1 FROM bookings WHERE payment_intent_id = ?)`

const bookingsByUserSQL = `SELECT ` + bookingColumns + ` FROM bookings WHERE user_id = ? ORDER BY booked_at DESC, id DESC`

const bookingsByHotelSQL = `SELECT ` + bookingColumns + ` FROM bookings WHERE hotel_id = ? ORDER BY booked_at DESC, id DESC`
