package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"hotel_booking/internal/domain"
)

type reconcileRequest struct {
	Booking         domain.BookingInput `json:"booking"`
	PaymentIntentID string              `json:"payment_intent_id"`
}

func (h *Handlers) reconcileBooking(w http.ResponseWriter, r *http.Request) {
	if !requireCaller(w, r) {
		return
	}
	var req reconcileRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.Bookings.Reconcile(r.Context(), req.Booking, req.PaymentIntentID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if res.Updated {
		writeJSON(w, http.StatusOK, map[string]string{"message": "Booking updated successfully"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"paymentIntent": res.Intent})
}

func (h *Handlers) markPaid(w http.ResponseWriter, r *http.Request) {
	if err := h.Bookings.MarkPaid(r.Context(), chi.URLParam(r, "paymentIntentId")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) listOwnBookings(w http.ResponseWriter, r *http.Request) {
	bs, err := h.Bookings.ListOwn(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bs)
}

func (h *Handlers) listHotelBookings(w http.ResponseWriter, r *http.Request) {
	bs, err := h.Bookings.ListForHotel(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bs)
}

func (h *Handlers) getSession(w http.ResponseWriter, r *http.Request) {
	st, ok, err := h.Sessions.Get(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !ok {
		writeProblem(w, http.StatusNotFound, "Not Found", "no room selected")
		return
	}
	writeJSON(w, http.StatusOK, st)
}

type selectRoomRequest struct {
	RoomID            string    `json:"roomId"`
	StartDate         time.Time `json:"startDate"`
	EndDate           time.Time `json:"endDate"`
	BreakfastIncluded bool      `json:"breakFastIncluded"`
}

func (h *Handlers) putSession(w http.ResponseWriter, r *http.Request) {
	if !requireCaller(w, r) {
		return
	}
	var req selectRoomRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	st, err := h.Sessions.SelectRoom(r.Context(), req.RoomID, req.StartDate, req.EndDate, req.BreakfastIncluded)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (h *Handlers) resetSession(w http.ResponseWriter, r *http.Request) {
	if err := h.Sessions.Reset(r.Context()); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
