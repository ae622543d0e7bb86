package httpserver

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"hotel_booking/internal/domain"
)

const defaultMaxUpload = 4 << 20

func (h *Handlers) listHotels(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	hs, err := h.Q.ListHotels(r.Context(), domain.HotelFilter{
		Title:   q.Get("title"),
		Country: q.Get("country"),
		City:    q.Get("city"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, hs)
}

func (h *Handlers) getHotel(w http.ResponseWriter, r *http.Request) {
	hotel, err := h.Q.GetHotel(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCacheable(w, r, hotel)
}

func (h *Handlers) listOwnHotels(w http.ResponseWriter, r *http.Request) {
	hs, err := h.Q.ListOwnHotels(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, hs)
}

func (h *Handlers) createHotel(w http.ResponseWriter, r *http.Request) {
	if !requireCaller(w, r) {
		return
	}
	var in domain.HotelInput
	if !decodeJSON(w, r, &in) {
		return
	}
	hotel, err := h.Hotels.CreateHotel(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, hotel)
}

func (h *Handlers) updateHotel(w http.ResponseWriter, r *http.Request) {
	if !requireCaller(w, r) {
		return
	}
	var in domain.HotelInput
	if !decodeJSON(w, r, &in) {
		return
	}
	hotel, err := h.Hotels.UpdateHotel(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, hotel)
}

func (h *Handlers) deleteHotel(w http.ResponseWriter, r *http.Request) {
	if err := h.Hotels.DeleteHotel(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) createRoom(w http.ResponseWriter, r *http.Request) {
	if !requireCaller(w, r) {
		return
	}
	var in domain.RoomInput
	if !decodeJSON(w, r, &in) {
		return
	}
	room, err := h.Hotels.CreateRoom(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, room)
}

func (h *Handlers) updateRoom(w http.ResponseWriter, r *http.Request) {
	if !requireCaller(w, r) {
		return
	}
	var in domain.RoomInput
	if !decodeJSON(w, r, &in) {
		return
	}
	room, err := h.Hotels.UpdateRoom(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, room)
}

func (h *Handlers) deleteRoom(w http.ResponseWriter, r *http.Request) {
	if err := h.Hotels.DeleteRoom(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func parseDay(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (h *Handlers) quoteRoom(w http.ResponseWriter, r *http.Request) {
	start, err := parseDay(r.URL.Query().Get("start"))
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid start", "start must be YYYY-MM-DD")
		return
	}
	end, err := parseDay(r.URL.Query().Get("end"))
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid end", "end must be YYYY-MM-DD")
		return
	}
	days, total, err := h.Q.Quote(r.Context(), chi.URLParam(r, "id"), start, end)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"days": days, "totalPrice": total})
}

// uploadImage accepts a multipart "file" field and stores it.
func (h *Handlers) uploadImage(w http.ResponseWriter, r *http.Request) {
	if !requireCaller(w, r) {
		return
	}
	limit := h.MaxUpload
	if limit <= 0 {
		limit = defaultMaxUpload
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit+1<<20) // multipart framing headroom
	if err := r.ParseMultipartForm(limit); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeProblem(w, http.StatusRequestEntityTooLarge, "Too Large", "image exceeds the upload limit")
			return
		}
		writeProblem(w, http.StatusBadRequest, "Invalid Upload", err.Error())
		return
	}
	file, hdr, err := r.FormFile("file")
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Upload", "multipart field \"file\" is required")
		return
	}
	defer file.Close()
	if hdr.Size > limit {
		writeProblem(w, http.StatusRequestEntityTooLarge, "Too Large", "image exceeds the upload limit")
		return
	}
	data, err := io.ReadAll(file)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Upload", err.Error())
		return
	}

	url, key, err := h.Hotels.UploadImage(r.Context(), hdr.Filename, http.DetectContentType(data), bytes.NewReader(data))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": url, "key": key})
}

func (h *Handlers) deleteImage(w http.ResponseWriter, r *http.Request) {
	if !requireCaller(w, r) {
		return
	}
	var body struct {
		ImageKey string `json:"imageKey"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	if err := h.Hotels.DeleteImage(r.Context(), body.ImageKey); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
