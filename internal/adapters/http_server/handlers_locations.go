package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"hotel_booking/internal/location"
)

func (h *Handlers) listCountries(w http.ResponseWriter, r *http.Request) {
	writeCacheable(w, r, location.AllCountries())
}

func (h *Handlers) getCountry(w http.ResponseWriter, r *http.Request) {
	c, ok := location.CountryByCode(chi.URLParam(r, "country"))
	if !ok {
		writeProblem(w, http.StatusNotFound, "Not Found", "unknown country code")
		return
	}
	writeCacheable(w, r, c)
}

func (h *Handlers) listStates(w http.ResponseWriter, r *http.Request) {
	writeCacheable(w, r, location.CountryStates(chi.URLParam(r, "country")))
}

func (h *Handlers) getState(w http.ResponseWriter, r *http.Request) {
	s, ok := location.StateByCode(chi.URLParam(r, "country"), chi.URLParam(r, "state"))
	if !ok {
		writeProblem(w, http.StatusNotFound, "Not Found", "unknown state code")
		return
	}
	writeCacheable(w, r, s)
}

func (h *Handlers) listCities(w http.ResponseWriter, r *http.Request) {
	writeCacheable(w, r, location.StateCities(chi.URLParam(r, "country"), chi.URLParam(r, "state")))
}
