package app_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"

	"hotel_booking/internal/domain"
)

func ptr[T any](v T) *T { return &v }

func as(userID string) context.Context {
	return domain.WithIdentity(context.Background(), domain.Identity{
		UserID: userID, FirstName: "name-" + userID, Email: userID + "@example.com",
	})
}

// ---- hotels ----

type fakeRepo struct {
	mu     sync.Mutex
	hotels map[string]domain.Hotel
	rooms  map[string]domain.Room
	gets   int
	err    error // returned from writes when set
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{hotels: map[string]domain.Hotel{}, rooms: map[string]domain.Room{}}
}

func (f *fakeRepo) seed(h domain.Hotel) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rooms := h.Rooms
	h.Rooms = nil
	f.hotels[h.ID] = h
	for _, r := range rooms {
		r.HotelID = h.ID
		f.rooms[r.ID] = r
	}
}

func (f *fakeRepo) CreateHotel(_ context.Context, h domain.Hotel) error {
	if f.err != nil {
		return f.err
	}
	f.seed(h)
	return nil
}

func (f *fakeRepo) UpdateHotel(_ context.Context, h domain.Hotel) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	h.Rooms = nil
	f.hotels[h.ID] = h
	return nil
}

func (f *fakeRepo) DeleteHotel(_ context.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.hotels, id)
	for rid, r := range f.rooms {
		if r.HotelID == id {
			delete(f.rooms, rid)
		}
	}
	return nil
}

func (f *fakeRepo) CreateRoom(_ context.Context, r domain.Room) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rooms[r.ID] = r
	return nil
}

func (f *fakeRepo) UpdateRoom(ctx context.Context, r domain.Room) error { return f.CreateRoom(ctx, r) }

func (f *fakeRepo) DeleteRoom(_ context.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.rooms, id)
	return nil
}

func (f *fakeRepo) GetHotel(_ context.Context, id string) (domain.Hotel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	h, ok := f.hotels[id]
	if !ok {
		return domain.Hotel{}, domain.ErrNotFound
	}
	h.Rooms = f.roomsOf(id)
	return h, nil
}

func (f *fakeRepo) GetRoom(_ context.Context, id string) (domain.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rooms[id]
	if !ok {
		return domain.Room{}, domain.ErrNotFound
	}
	return r, nil
}

func (f *fakeRepo) ListHotels(_ context.Context, flt domain.HotelFilter) ([]domain.Hotel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.Hotel{}
	for _, h := range f.hotels {
		if (flt.Country == "" || h.Country == flt.Country) && (flt.City == "" || h.City == flt.City) {
			h.Rooms = f.roomsOf(h.ID)
			out = append(out, h)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeRepo) ListHotelsByOwner(_ context.Context, ownerID string) ([]domain.Hotel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.Hotel{}
	for _, h := range f.hotels {
		if h.OwnerID == ownerID {
			out = append(out, h)
		}
	}
	return out, nil
}

func (f *fakeRepo) roomsOf(hotelID string) []domain.Room {
	out := []domain.Room{}
	for _, r := range f.rooms {
		if r.HotelID == hotelID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ---- cache (JSON round-trip, like the Redis adapter) ----

type fakeCache struct {
	mu    sync.Mutex
	store map[string][]byte
	ttls  map[string]int
}

func newFakeCache() *fakeCache {
	return &fakeCache{store: map[string][]byte{}, ttls: map[string]int{}}
}

func (c *fakeCache) Get(_ context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *fakeCache) Set(_ context.Context, key string, v any, ttlSec int) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[key] = b
	c.ttls[key] = ttlSec
	return nil
}

func (c *fakeCache) Del(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.store, key)
	return nil
}

func (c *fakeCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.store[key]
	return ok
}

// ---- images ----

type fakeImages struct {
	mu      sync.Mutex
	deleted []string
	failOn  string
}

func (f *fakeImages) Upload(_ context.Context, key, _ string, _ io.ReadSeeker) (string, error) {
	return "https://cdn.example.com/" + key, nil
}

func (f *fakeImages) Delete(_ context.Context, key string) error {
	if key == f.failOn {
		return errors.New("storage unavailable")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, key)
	return nil
}

// ---- bookings ----

type fakeBookings struct {
	mu        sync.Mutex
	rows      map[string]domain.Booking // by payment intent id
	createErr error
	findErr   error
	existsErr error
	creates   int
	updates   int
}

func newFakeBookings() *fakeBookings { return &fakeBookings{rows: map[string]domain.Booking{}} }

func (f *fakeBookings) FindByPaymentIntent(_ context.Context, pi, userID string) (domain.Booking, error) {
	if f.findErr != nil {
		return domain.Booking{}, f.findErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.rows[pi]
	if !ok || b.UserID != userID {
		return domain.Booking{}, domain.ErrNotFound
	}
	return b, nil
}

func (f *fakeBookings) CreateBooking(_ context.Context, b domain.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates++
	if f.createErr != nil {
		return f.createErr
	}
	if _, dup := f.rows[b.PaymentIntentID]; dup {
		return domain.ErrConflict
	}
	f.rows[b.PaymentIntentID] = b
	return nil
}

func (f *fakeBookings) UpdateBooking(_ context.Context, b domain.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates++
	f.rows[b.PaymentIntentID] = b
	return nil
}

func (f *fakeBookings) MarkPaid(_ context.Context, pi, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.rows[pi]
	if !ok || b.UserID != userID {
		return domain.ErrNotFound
	}
	b.PaymentStatus = true
	f.rows[pi] = b
	return nil
}

func (f *fakeBookings) ExistsForPaymentIntent(_ context.Context, pi string) (bool, error) {
	if f.existsErr != nil {
		return false, f.existsErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.rows[pi]
	return ok, nil
}

func (f *fakeBookings) ListByUser(_ context.Context, userID string) ([]domain.Booking, error) {
	return f.filter(func(b domain.Booking) bool { return b.UserID == userID }), nil
}

func (f *fakeBookings) ListByHotel(_ context.Context, hotelID string) ([]domain.Booking, error) {
	return f.filter(func(b domain.Booking) bool { return b.HotelID == hotelID }), nil
}

func (f *fakeBookings) filter(keep func(domain.Booking) bool) []domain.Booking {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.Booking{}
	for _, b := range f.rows {
		if keep(b) {
			out = append(out, b)
		}
	}
	return out
}

// ---- payments ----

type fakePayments struct {
	mu        sync.Mutex
	created   []domain.IntentRequest
	cancelled []string
	cancelErr map[string]error
	createErr error
	next      int
}

func (f *fakePayments) CreateIntent(_ context.Context, req domain.IntentRequest) (domain.PaymentIntent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return domain.PaymentIntent{}, f.createErr
	}
	f.created = append(f.created, req)
	f.next++
	id := fmt.Sprintf("pi_%d", f.next)
	return domain.PaymentIntent{
		ID: id, ClientSecret: id + "_secret", Amount: req.Amount, Currency: req.Currency, Status: "requires_payment_method",
	}, nil
}

func (f *fakePayments) CancelIntent(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.cancelErr[id]; err != nil {
		return err
	}
	f.cancelled = append(f.cancelled, id)
	return nil
}

// ---- orphan queue ----

type fakeQueue struct {
	mu      sync.Mutex
	ids     map[string]struct{}
	pushErr error
}

func newFakeQueue(ids ...string) *fakeQueue {
	q := &fakeQueue{ids: map[string]struct{}{}}
	for _, id := range ids {
		q.ids[id] = struct{}{}
	}
	return q
}

func (q *fakeQueue) Push(_ context.Context, id string) error {
	if q.pushErr != nil {
		return q.pushErr
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.ids[id] = struct{}{}
	return nil
}

func (q *fakeQueue) Pop(_ context.Context, n int) ([]string, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := []string{}
	for id := range q.ids {
		if len(out) == n {
			break
		}
		out = append(out, id)
		delete(q.ids, id)
	}
	sort.Strings(out)
	return out, nil
}

func (q *fakeQueue) list() []string {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]string, 0, len(q.ids))
	for id := range q.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
