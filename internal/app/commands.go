package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"hotel_booking/internal/domain"
)

type HotelService struct {
	repo   domain.HotelRepository
	images domain.ImageStore
	cache  domain.Cache
	now    func() time.Time
}

func NewHotelService(r domain.HotelRepository, images domain.ImageStore, cache domain.Cache) *HotelService {
	return &HotelService{repo: r, images: images, cache: cache, now: time.Now}
}

func (s *HotelService) CreateHotel(ctx context.Context, in domain.HotelInput) (domain.Hotel, error) {
	caller, ok := domain.IdentityFrom(ctx)
	if !ok {
		return domain.Hotel{}, domain.ErrUnauthorized
	}
	if err := validateInput(in); err != nil {
		return domain.Hotel{}, err
	}
	h := newHotel(in, caller.UserID, s.now().UTC())
	if err := s.repo.CreateHotel(ctx, h); err != nil {
		return domain.Hotel{}, fmt.Errorf("create hotel: %w", err)
	}
	h.Rooms = []domain.Room{}
	return h, nil
}

func (s *HotelService) UpdateHotel(ctx context.Context, id string, in domain.HotelInput) (domain.Hotel, error) {
	h, err := s.ownedHotel(ctx, id)
	if err != nil {
		return domain.Hotel{}, err
	}
	if err := validateInput(in); err != nil {
		return domain.Hotel{}, err
	}
	applyHotelInput(&h, in, s.now().UTC())
	if err := s.repo.UpdateHotel(ctx, h); err != nil {
		return domain.Hotel{}, fmt.Errorf("update hotel %s: %w", id, err)
	}
	s.invalidateHotel(ctx, id)
	return h, nil
}

// DeleteHotel removes the hotel image and every room image before the record.
// Every image is attempted; if any delete fails the record is kept and the
// error lists each failed key. Images already removed stay removed, so the
// record may point at missing objects until the delete is retried; the retry
// is safe because deleting an absent object succeeds.
func (s *HotelService) DeleteHotel(ctx context.Context, id string) error {
	h, err := s.ownedHotel(ctx, id)
	if err != nil {
		return err
	}
	var errs []error
	for _, key := range hotelImageKeys(h) {
		if err := s.images.Delete(ctx, key); err != nil {
			errs = append(errs, fmt.Errorf("image %s: %w", key, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("delete hotel %s: %w: %w", id, domain.ErrExternal, errors.Join(errs...))
	}
	if err := s.repo.DeleteHotel(ctx, id); err != nil {
		return fmt.Errorf("delete hotel %s: %w", id, err)
	}
	s.invalidateHotel(ctx, id)
	log.Info().Str("hotel_id", id).Int("rooms", len(h.Rooms)).Msg("hotel deleted")
	return nil
}

func (s *HotelService) CreateRoom(ctx context.Context, in domain.RoomInput) (domain.Room, error) {
	if _, ok := domain.IdentityFrom(ctx); !ok {
		return domain.Room{}, domain.ErrUnauthorized
	}
	if in.HotelID == "" {
		return domain.Room{}, &domain.ValidationError{Fields: map[string]string{"hotelId": "is required"}}
	}
	if err := validateInput(in); err != nil {
		return domain.Room{}, err
	}
	if _, err := s.ownedHotel(ctx, in.HotelID); err != nil {
		return domain.Room{}, err
	}
	r := newRoom(in, in.HotelID, s.now().UTC())
	if err := s.repo.CreateRoom(ctx, r); err != nil {
		return domain.Room{}, fmt.Errorf("create room: %w", err)
	}
	s.invalidateHotel(ctx, in.HotelID)
	return r, nil
}

func (s *HotelService) UpdateRoom(ctx context.Context, id string, in domain.RoomInput) (domain.Room, error) {
	r, err := s.ownedRoom(ctx, id)
	if err != nil {
		return domain.Room{}, err
	}
	if err := validateInput(in); err != nil {
		return domain.Room{}, err
	}
	applyRoomInput(&r, in, s.now().UTC())
	if err := s.repo.UpdateRoom(ctx, r); err != nil {
		return domain.Room{}, fmt.Errorf("update room %s: %w", id, err)
	}
	s.invalidateHotel(ctx, r.HotelID)
	return r, nil
}

func (s *HotelService) DeleteRoom(ctx context.Context, id string) error {
	r, err := s.ownedRoom(ctx, id)
	if err != nil {
		return err
	}
	if key := ImageKey(r.Image); key != "" {
		if err := s.images.Delete(ctx, key); err != nil {
			return fmt.Errorf("delete image %s of room %s: %w", key, id, err)
		}
	}
	if err := s.repo.DeleteRoom(ctx, id); err != nil {
		return fmt.Errorf("delete room %s: %w", id, err)
	}
	s.invalidateHotel(ctx, r.HotelID)
	return nil
}

// UploadImage stores an image under a fresh key that keeps the file extension.
func (s *HotelService) UploadImage(ctx context.Context, filename, contentType string, body io.ReadSeeker) (url, key string, err error) {
	if _, ok := domain.IdentityFrom(ctx); !ok {
		return "", "", domain.ErrUnauthorized
	}
	if !strings.HasPrefix(contentType, "image/") {
		return "", "", &domain.ValidationError{Fields: map[string]string{"file": "must be an image"}}
	}
	key = uuid.NewString() + strings.ToLower(filepath.Ext(filepath.Base(filename)))
	url, err = s.images.Upload(ctx, key, contentType, body)
	if err != nil {
		return "", "", fmt.Errorf("upload image: %w: %w", domain.ErrExternal, err)
	}
	return url, key, nil
}

// DeleteImage removes a stored upload by key or URL.
func (s *HotelService) DeleteImage(ctx context.Context, keyOrURL string) error {
	if _, ok := domain.IdentityFrom(ctx); !ok {
		return domain.ErrUnauthorized
	}
	key := ImageKey(keyOrURL)
	if key == "" {
		return &domain.ValidationError{Fields: map[string]string{"imageKey": "is required"}}
	}
	if err := s.images.Delete(ctx, key); err != nil {
		return fmt.Errorf("delete image %s: %w", key, err)
	}
	return nil
}

func (s *HotelService) ownedHotel(ctx context.Context, id string) (domain.Hotel, error) {
	caller, ok := domain.IdentityFrom(ctx)
	if !ok {
		return domain.Hotel{}, domain.ErrUnauthorized
	}
	h, err := s.repo.GetHotel(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Hotel{}, err
		}
		return domain.Hotel{}, fmt.Errorf("load hotel %s: %w", id, err)
	}
	if h.OwnerID != caller.UserID {
		return domain.Hotel{}, domain.ErrForbidden
	}
	return h, nil
}

func (s *HotelService) ownedRoom(ctx context.Context, id string) (domain.Room, error) {
	if _, ok := domain.IdentityFrom(ctx); !ok {
		return domain.Room{}, domain.ErrUnauthorized
	}
	r, err := s.repo.GetRoom(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Room{}, err
		}
		return domain.Room{}, fmt.Errorf("load room %s: %w", id, err)
	}
	if _, err := s.ownedHotel(ctx, r.HotelID); err != nil {
		return domain.Room{}, err
	}
	return r, nil
}

// invalidate the cached hotel view (rooms are embedded in it)
func (s *HotelService) invalidateHotel(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Del(ctx, hotelCacheKey(id))
}
