package app

import (
	"context"
	"fmt"
	"time"

	"hotel_booking/internal/domain"
)

type QueryService struct {
	repo     domain.HotelRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewQueryService(r domain.HotelRepository, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{repo: r, cache: c, cacheTTL: ttl}
}

func hotelCacheKey(id string) string { return fmt.Sprintf("hotel:%s", id) }

func (s *QueryService) GetHotel(ctx context.Context, id string) (domain.Hotel, error) {
	key := hotelCacheKey(id)
	var h domain.Hotel
	if ok, _ := s.cache.Get(ctx, key, &h); ok {
		return h, nil
	}
	h, err := s.repo.GetHotel(ctx, id)
	if err != nil {
		return domain.Hotel{}, err
	}
	_ = s.cache.Set(ctx, key, h, int(s.cacheTTL.Seconds()))
	return h, nil
}

// ListHotels passes the filter straight to the store; results are not cached
// because every mutation would have to evict every filter combination.
func (s *QueryService) ListHotels(ctx context.Context, f domain.HotelFilter) ([]domain.Hotel, error) {
	hs, err := s.repo.ListHotels(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list hotels: %w", err)
	}
	return hs, nil
}

func (s *QueryService) ListOwnHotels(ctx context.Context) ([]domain.Hotel, error) {
	caller, ok := domain.IdentityFrom(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	hs, err := s.repo.ListHotelsByOwner(ctx, caller.UserID)
	if err != nil {
		return nil, fmt.Errorf("list own hotels: %w", err)
	}
	return hs, nil
}

// Quote computes what the booking card shows for a room and date range.
func (s *QueryService) Quote(ctx context.Context, roomID string, start, end *time.Time) (days int, total int64, err error) {
	r, err := s.repo.GetRoom(ctx, roomID)
	if err != nil {
		return 0, 0, err
	}
	days, total = TotalPrice(start, end, r.Price, false)
	return days, total, nil
}
