package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"aluko-backend/internal/service"
)

// AvailabilityHandler exposes listing calendars.
type AvailabilityHandler struct {
	availability service.AvailabilityService
}

func NewAvailabilityHandler(availability service.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{availability: availability}
}

func (h *AvailabilityHandler) Register(r *mux.Router) {
	r.HandleFunc("/listings/{id}/availability", h.CheckRange).Methods(http.MethodGet)
	r.HandleFunc("/listings/{id}/blocked-days", h.BlockedDays).Methods(http.MethodGet)
}

// CheckRange answers whether a start/end range is free for the listing.
func (h *AvailabilityHandler) CheckRange(w http.ResponseWriter, r *http.Request) {
	listingID := mux.Vars(r)["id"]
	start := r.URL.Query().Get("start")
	end := r.URL.Query().Get("end")
	if start == "" || end == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "start and end are required"})
		return
	}

	free, err := h.availability.IsRangeFree(r.Context(), listingID, start, end, r.URL.Query().Get("exclude_rental"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"free": free})
}

// BlockedDays lists the unavailable days of one calendar month.
func (h *AvailabilityHandler) BlockedDays(w http.ResponseWriter, r *http.Request) {
	listingID := mux.Vars(r)["id"]

	now := time.Now()
	year, month := now.Year(), int(now.Month())
	if v := r.URL.Query().Get("year"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			year = parsed
		}
	}
	if v := r.URL.Query().Get("month"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 || parsed > 12 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "month must be 1-12"})
			return
		}
		month = parsed
	}

	days, err := h.availability.BlockedDays(r.Context(), listingID, year, time.Month(month))
	if err != nil {
		writeError(w, err)
		return
	}
	if days == nil {
		days = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"blocked_days": days})
}
