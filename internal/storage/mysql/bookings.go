package mysql

import (
	"context"
	"errors"

	mysqldrv "github.com/go-sql-driver/mysql"

	"hotel_booking/internal/domain"
)

const errDuplicateEntry = 1062

func (r *Repo) FindByPaymentIntent(ctx context.Context, paymentIntentID, userID string) (domain.Booking, error) {
	var b domain.Booking
	if err := r.db.GetContext(ctx, &b, findBookingByIntentSQL, paymentIntentID, userID); err != nil {
		return domain.Booking{}, notFound(err)
	}
	return b, nil
}

// CreateBooking inserts b. A second row for the same payment intent is a conflict.
func (r *Repo) CreateBooking(ctx context.Context, b domain.Booking) error {
	_, err := r.db.NamedExecContext(ctx, insertBookingSQL, b)
	var me *mysqldrv.MySQLError
	if errors.As(err, &me) && me.Number == errDuplicateEntry {
		return domain.ErrConflict
	}
	return err
}

func (r *Repo) UpdateBooking(ctx context.Context, b domain.Booking) error {
	_, err := r.db.NamedExecContext(ctx, updateBookingSQL, b)
	return err
}

// MarkPaid is idempotent; ErrNotFound means the caller has no booking for the intent.
func (r *Repo) MarkPaid(ctx context.Context, paymentIntentID, userID string) error {
	res, err := r.db.ExecContext(ctx, markPaidSQL, paymentIntentID, userID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		return nil
	}
	// zero rows also means "already paid" without CLIENT_FOUND_ROWS
	_, err = r.FindByPaymentIntent(ctx, paymentIntentID, userID)
	return err
}

func (r *Repo) ExistsForPaymentIntent(ctx context.Context, paymentIntentID string) (bool, error) {
	var ok bool
	err := r.db.GetContext(ctx, &ok, bookingExistsSQL, paymentIntentID)
	return ok, err
}

func (r *Repo) ListByUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	out := []domain.Booking{}
	if err := r.db.SelectContext(ctx, &out, bookingsByUserSQL, userID); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) ListByHotel(ctx context.Context, hotelID string) ([]domain.Booking, error) {
	out := []domain.Booking{}
	if err := r.db.SelectContext(ctx, &out, bookingsByHotelSQL, hotelID); err != nil {
		return nil, err
	}
	return out, nil
}
