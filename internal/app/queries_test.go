package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"hotel_booking/internal/app"
	"hotel_booking/internal/domain"
)

func seedHotel(repo *fakeRepo) domain.Hotel {
	h := domain.Hotel{
		ID: "h1", OwnerID: "owner_1", Title: "Sea Breeze", Country: "PT", City: "Lisbon",
		Image: "https://cdn.example.com/hotel.jpg",
		Rooms: []domain.Room{
			{ID: "r1", Title: "Double", Price: 100, Image: "https://cdn.example.com/r1.jpg"},
			{ID: "r2", Title: "Suite", Price: 250, Image: "https://cdn.example.com/r2.jpg"},
		},
	}
	repo.seed(h)
	return h
}

func TestQueryService_GetHotel_UsesCache(t *testing.T) {
	repo := newFakeRepo()
	seedHotel(repo)
	cache := newFakeCache()
	svc := app.NewQueryService(repo, cache, 5*time.Minute)
	ctx := context.Background()

	h, err := svc.GetHotel(ctx, "h1")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if h.Title != "Sea Breeze" || len(h.Rooms) != 2 {
		t.Fatalf("unexpected hotel: %+v", h)
	}
	if !cache.has("hotel:h1") || cache.ttls["hotel:h1"] != 300 {
		t.Fatalf("expected hotel cached with 300s ttl, got %v", cache.ttls)
	}

	// second read must be served from cache
	if _, err := svc.GetHotel(ctx, "h1"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if repo.gets != 1 {
		t.Fatalf("expected 1 repo read, got %d", repo.gets)
	}
}

func TestQueryService_GetHotel_NotFound(t *testing.T) {
	svc := app.NewQueryService(newFakeRepo(), newFakeCache(), time.Minute)
	if _, err := svc.GetHotel(context.Background(), "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestQueryService_ListHotels_PassesFilter(t *testing.T) {
	repo := newFakeRepo()
	seedHotel(repo)
	repo.seed(domain.Hotel{ID: "h2", OwnerID: "owner_2", Country: "PT", City: "Porto"})
	svc := app.NewQueryService(repo, newFakeCache(), time.Minute)

	all, err := svc.ListHotels(context.Background(), domain.HotelFilter{})
	if err != nil || len(all) != 2 {
		t.Fatalf("expected 2 hotels, got %d (err=%v)", len(all), err)
	}
	porto, _ := svc.ListHotels(context.Background(), domain.HotelFilter{City: "Porto"})
	if len(porto) != 1 || porto[0].ID != "h2" {
		t.Fatalf("unexpected filtered result: %+v", porto)
	}
}

func TestQueryService_ListOwnHotels(t *testing.T) {
	repo := newFakeRepo()
	seedHotel(repo)
	repo.seed(domain.Hotel{ID: "h2", OwnerID: "owner_2"})
	svc := app.NewQueryService(repo, newFakeCache(), time.Minute)

	if _, err := svc.ListOwnHotels(context.Background()); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	hs, err := svc.ListOwnHotels(as("owner_2"))
	if err != nil || len(hs) != 1 || hs[0].ID != "h2" {
		t.Fatalf("unexpected own hotels: %+v (err=%v)", hs, err)
	}
}

func TestQueryService_Quote(t *testing.T) {
	repo := newFakeRepo()
	seedHotel(repo)
	svc := app.NewQueryService(repo, newFakeCache(), time.Minute)
	ctx := context.Background()

	days, total, err := svc.Quote(ctx, "r1", ptr(day("2026-05-01")), ptr(day("2026-05-04")))
	if err != nil || days != 3 || total != 300 {
		t.Fatalf("got (%d, %d, %v), want (3, 300, nil)", days, total, err)
	}
	days, total, _ = svc.Quote(ctx, "r1", ptr(day("2026-05-01")), nil)
	if days != 0 || total != 100 {
		t.Fatalf("open range should fall back to nightly price, got (%d, %d)", days, total)
	}
	if _, _, err := svc.Quote(ctx, "nope", nil, nil); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
