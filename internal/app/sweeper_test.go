package app_test

import (
	"context"
	"errors"
	"testing"

	"hotel_booking/internal/app"
	"hotel_booking/internal/domain"
)

func TestOrphanSweeper_SweepOnce(t *testing.T) {
	queue := newFakeQueue("pi_booked", "pi_lost", "pi_stuck")
	bookings := newFakeBookings()
	bookings.rows["pi_booked"] = domain.Booking{ID: "b1", PaymentIntentID: "pi_booked"}
	payments := &fakePayments{cancelErr: map[string]error{"pi_stuck": errors.New("timeout")}}

	sw := app.NewOrphanSweeper(queue, payments, bookings, 2)
	rep, err := sw.SweepOnce(context.Background())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if rep != (app.SweepReport{Cancelled: 1, Skipped: 1, Requeued: 1}) {
		t.Fatalf("unexpected report: %+v", rep)
	}
	if len(payments.cancelled) != 1 || payments.cancelled[0] != "pi_lost" {
		t.Fatalf("expected only pi_lost cancelled, got %v", payments.cancelled)
	}
	if q := queue.list(); len(q) != 1 || q[0] != "pi_stuck" {
		t.Fatalf("expected pi_stuck requeued, got %v", q)
	}
}

func TestOrphanSweeper_LookupFailureRequeues(t *testing.T) {
	queue := newFakeQueue("pi_1", "pi_2")
	bookings := newFakeBookings()
	bookings.existsErr = errors.New("db down")
	payments := &fakePayments{}

	rep, err := app.NewOrphanSweeper(queue, payments, bookings, 0).SweepOnce(context.Background())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if rep.Requeued != 2 || len(payments.cancelled) != 0 {
		t.Fatalf("expected both ids requeued without cancel, got %+v / %v", rep, payments.cancelled)
	}
	if len(queue.list()) != 2 {
		t.Fatalf("expected queue restored, got %v", queue.list())
	}
}

func TestOrphanSweeper_EmptyQueue(t *testing.T) {
	rep, err := app.NewOrphanSweeper(newFakeQueue(), &fakePayments{}, newFakeBookings(), 4).SweepOnce(context.Background())
	if err != nil || rep != (app.SweepReport{}) {
		t.Fatalf("expected empty report, got %+v (err=%v)", rep, err)
	}
}
