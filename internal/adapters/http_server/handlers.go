// internal/adapters/http_server/handlers.go
package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"hotel_booking/internal/app"
	"hotel_booking/internal/domain"
)

type Handlers struct {
	Q         *app.QueryService
	Hotels    *app.HotelService
	Bookings  *app.BookingService
	Sessions  *app.SessionService
	MaxUpload int64 // bytes; 0 means 4 MiB
}

type problem struct {
	Type   string            `json:"type"`
	Title  string            `json:"title"`
	Status int               `json:"status"`
	Detail string            `json:"detail,omitempty"`
	Errors map[string]string `json:"errors,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Route("/v1/locations/countries", func(r chi.Router) {
		r.Get("/", h.listCountries)
		r.Get("/{country}", h.getCountry)
		r.Get("/{country}/states", h.listStates)
		r.Get("/{country}/states/{state}", h.getState)
		r.Get("/{country}/states/{state}/cities", h.listCities)
	})

	s.mux.Get("/v1/hotels", h.listHotels)
	s.mux.Post("/v1/hotels", h.createHotel)
	s.mux.Get("/v1/hotels/{id}", h.getHotel)
	s.mux.Patch("/v1/hotels/{id}", h.updateHotel)
	s.mux.Delete("/v1/hotels/{id}", h.deleteHotel)
	s.mux.Get("/v1/hotels/{id}/bookings", h.listHotelBookings)

	s.mux.Post("/v1/rooms", h.createRoom)
	s.mux.Patch("/v1/rooms/{id}", h.updateRoom)
	s.mux.Delete("/v1/rooms/{id}", h.deleteRoom)
	s.mux.Get("/v1/rooms/{id}/quote", h.quoteRoom)

	s.mux.Post("/v1/images", h.uploadImage)
	s.mux.Post("/v1/images/delete", h.deleteImage)

	s.mux.Post("/v1/payment-intents", h.reconcileBooking)
	s.mux.Patch("/v1/bookings/{paymentIntentId}/paid", h.markPaid)

	s.mux.Get("/v1/me/hotels", h.listOwnHotels)
	s.mux.Get("/v1/me/bookings", h.listOwnBookings)

	s.mux.Get("/v1/booking-session", h.getSession)
	s.mux.Put("/v1/booking-session", h.putSession)
	s.mux.Delete("/v1/booking-session", h.resetSession)
}

// requireCaller answers 401 for anonymous requests so the body of a
// sign-in-only endpoint is never parsed for them.
func requireCaller(w http.ResponseWriter, r *http.Request) bool {
	if _, ok := domain.IdentityFrom(r.Context()); !ok {
		writeError(w, r, domain.ErrUnauthorized)
		return false
	}
	return true
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	writeProblemBody(w, problem{Type: "about:blank", Title: title, Status: status, Detail: detail})
}

func writeProblemBody(w http.ResponseWriter, p problem) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.Status)
	if err := json.NewEncoder(w).Encode(p); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeError maps domain errors onto problem responses. Anything unrecognised
// is logged and reported as a generic 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		writeProblemBody(w, problem{Type: "about:blank", Title: "Validation Failed", Status: http.StatusBadRequest, Errors: verr.Fields})
	case errors.Is(err, domain.ErrUnauthorized):
		writeProblem(w, http.StatusUnauthorized, "Unauthorized", "sign in required")
	case errors.Is(err, domain.ErrForbidden):
		writeProblem(w, http.StatusForbidden, "Forbidden", "not the owner of this resource")
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, domain.ErrConflict):
		writeProblem(w, http.StatusConflict, "Conflict", err.Error())
	default:
		log.Error().Err(err).Str("route", routeOf(r)).Str("method", r.Method).Msg("request failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "something went wrong")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// decodeJSON reports a 400 itself and returns false on a malformed body.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return false
	}
	return true
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		// Log but don't fail the whole response; return empty ETag and best-effort body.
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// writeCacheable sends v with a weak ETag, or 304 when the client already has it.
func writeCacheable(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	// If client already has this version, short-circuit.
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag) // include ETag on 304
		w.WriteHeader(http.StatusNotModified)
		return
	}
	if etag != "" {
		w.Header().Set("ETag", etag)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write cacheable body")
	}
}
