package mysql

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"

	"hotel_booking/internal/domain"
)

// Repo implements domain.HotelRepository and domain.BookingRepository over MySQL.
type Repo struct{ db *sqlx.DB }

func New(db *sql.DB) *Repo { return &Repo{db: sqlx.NewDb(db, "mysql")} }

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	return err
}

// escapeLike makes s match literally inside a LIKE pattern.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func (r *Repo) CreateHotel(ctx context.Context, h domain.Hotel) error {
	_, err := r.db.NamedExecContext(ctx, insertHotelSQL, h)
	return err
}

func (r *Repo) UpdateHotel(ctx context.Context, h domain.Hotel) error {
	_, err := r.db.NamedExecContext(ctx, updateHotelSQL, h)
	return err
}

func (r *Repo) DeleteHotel(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, deleteHotelSQL, id)
	return err
}

func (r *Repo) CreateRoom(ctx context.Context, rm domain.Room) error {
	_, err := r.db.NamedExecContext(ctx, insertRoomSQL, rm)
	return err
}

func (r *Repo) UpdateRoom(ctx context.Context, rm domain.Room) error {
	_, err := r.db.NamedExecContext(ctx, updateRoomSQL, rm)
	return err
}

func (r *Repo) DeleteRoom(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, deleteRoomSQL, id)
	return err
}

// GetHotel returns the hotel with its rooms attached.
func (r *Repo) GetHotel(ctx context.Context, id string) (domain.Hotel, error) {
	var h domain.Hotel
	if err := r.db.GetContext(ctx, &h, getHotelSQL, id); err != nil {
		return domain.Hotel{}, notFound(err)
	}
	hs := []domain.Hotel{h}
	if err := r.attachRooms(ctx, hs); err != nil {
		return domain.Hotel{}, err
	}
	return hs[0], nil
}

func (r *Repo) GetRoom(ctx context.Context, id string) (domain.Room, error) {
	var rm domain.Room
	if err := r.db.GetContext(ctx, &rm, getRoomSQL, id); err != nil {
		return domain.Room{}, notFound(err)
	}
	return rm, nil
}

// ListHotels applies only the non-empty filter fields: title is a substring
// match, country and city are exact.
func (r *Repo) ListHotels(ctx context.Context, f domain.HotelFilter) ([]domain.Hotel, error) {
	var (
		where []string
		args  []any
	)
	if f.Title != "" {
		where = append(where, `title LIKE ? ESCAPE '\\'`)
		args = append(args, "%"+escapeLike(f.Title)+"%")
	}
	if f.Country != "" {
		where = append(where, "country = ?")
		args = append(args, f.Country)
	}
	if f.City != "" {
		where = append(where, "city = ?")
		args = append(args, f.City)
	}
	q := "SELECT " + hotelColumns + " FROM hotels"
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY created_at DESC, id"
	return r.selectHotels(ctx, q, args...)
}

func (r *Repo) ListHotelsByOwner(ctx context.Context, ownerID string) ([]domain.Hotel, error) {
	return r.selectHotels(ctx,
		"SELECT "+hotelColumns+" FROM hotels WHERE owner_id = ? ORDER BY created_at DESC, id", ownerID)
}

func (r *Repo) selectHotels(ctx context.Context, q string, args ...any) ([]domain.Hotel, error) {
	hs := []domain.Hotel{}
	if err := r.db.SelectContext(ctx, &hs, q, args...); err != nil {
		return nil, err
	}
	if err := r.attachRooms(ctx, hs); err != nil {
		return nil, err
	}
	return hs, nil
}

// attachRooms loads the rooms of every hotel in hs with a single query.
func (r *Repo) attachRooms(ctx context.Context, hs []domain.Hotel) error {
	if len(hs) == 0 {
		return nil
	}
	ids := make([]string, len(hs))
	idx := make(map[string]int, len(hs))
	for i := range hs {
		ids[i] = hs[i].ID
		idx[hs[i].ID] = i
		hs[i].Rooms = []domain.Room{}
	}
	q, args, err := sqlx.In(roomsForHotelsSQL, ids)
	if err != nil {
		return err
	}
	var rooms []domain.Room
	if err := r.db.SelectContext(ctx, &rooms, r.db.Rebind(q), args...); err != nil {
		return err
	}
	for _, rm := range rooms {
		if i, ok := idx[rm.HotelID]; ok {
			hs[i].Rooms = append(hs[i].Rooms, rm)
		}
	}
	return nil
}
