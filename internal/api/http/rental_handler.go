package http

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"aluko-backend/internal/domain"
	"aluko-backend/internal/service"
	"aluko-backend/internal/utils"
)

// RentalHandler exposes the rental lifecycle over HTTP.
type RentalHandler struct {
	rentals service.RentalService
	caches  *service.CacheRegistry
	loc     *time.Location
}

func NewRentalHandler(rentals service.RentalService, caches *service.CacheRegistry) *RentalHandler {
	return &RentalHandler{rentals: rentals, caches: caches, loc: time.Local}
}

func (h *RentalHandler) Register(r *mux.Router) {
	r.HandleFunc("/rentals", h.Create).Methods(http.MethodPost)
	r.HandleFunc("/rentals", h.List).Methods(http.MethodGet)
	r.HandleFunc("/rentals/open", h.ListOpen).Methods(http.MethodGet)
	r.HandleFunc("/rentals/open/refresh", h.RefreshOpen).Methods(http.MethodPost)
	r.HandleFunc("/rentals/{id}", h.Get).Methods(http.MethodGet)
	r.HandleFunc("/rentals/{id}/approve", h.Approve).Methods(http.MethodPost)
	r.HandleFunc("/rentals/{id}/reject", h.Reject).Methods(http.MethodPost)
	r.HandleFunc("/rentals/{id}/pickup", h.ConfirmPickup).Methods(http.MethodPost)
	r.HandleFunc("/rentals/{id}/return", h.ConfirmReturn).Methods(http.MethodPost)
	r.HandleFunc("/rentals/{id}/cancel", h.Cancel).Methods(http.MethodPost)
	r.HandleFunc("/rentals/{id}/dates", h.EditDates).Methods(http.MethodPut)
	r.HandleFunc("/rentals/{id}/countdown", h.Countdown).Methods(http.MethodGet)
}

func (h *RentalHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "not authenticated"})
		return
	}
	var input service.CreateRentalInput
	if !decodeBody(w, r, &input) {
		return
	}

	rental, err := h.rentals.CreateRentalRequest(r.Context(), userID, input)
	if err != nil {
		writeError(w, err)
		return
	}
	h.caches.InvalidateParties(rental.OwnerID, rental.RenterID)
	writeJSON(w, http.StatusCreated, rental)
}

func (h *RentalHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "not authenticated"})
		return
	}
	rental, err := h.rentals.GetRental(r.Context(), userID, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.redactCodes(rental, userID))
}

// List returns the caller's rentals or lendings depending on the role
// query parameter; statuses filters when present.
func (h *RentalHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "not authenticated"})
		return
	}

	var statuses []domain.RentalStatus
	for _, s := range r.URL.Query()["status"] {
		statuses = append(statuses, domain.RentalStatus(s))
	}

	var (
		rentals []domain.Rental
		err     error
	)
	if r.URL.Query().Get("role") == "owner" {
		rentals, err = h.rentals.ListLendings(r.Context(), userID, statuses)
	} else {
		rentals, err = h.rentals.ListRentals(r.Context(), userID, statuses)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	for i := range rentals {
		rentals[i] = *h.redactCodes(&rentals[i], userID)
	}
	writeJSON(w, http.StatusOK, map[string]any{"rentals": rentals})
}

func (h *RentalHandler) ListOpen(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "not authenticated"})
		return
	}
	rentals, lendings, err := h.caches.For(userID).Snapshot(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"rentals": rentals, "lendings": lendings})
}

func (h *RentalHandler) RefreshOpen(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "not authenticated"})
		return
	}
	if err := h.caches.For(userID).Refresh(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (h *RentalHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(userID, rentalID string) (*domain.Rental, error) {
		return h.rentals.ApproveRental(r.Context(), userID, rentalID)
	})
}

func (h *RentalHandler) Reject(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Reason string `json:"reason"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	h.transition(w, r, func(userID, rentalID string) (*domain.Rental, error) {
		return h.rentals.RejectRental(r.Context(), userID, rentalID, body.Reason)
	})
}

func (h *RentalHandler) ConfirmPickup(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Code string `json:"code"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	h.transition(w, r, func(userID, rentalID string) (*domain.Rental, error) {
		return h.rentals.ConfirmPickup(r.Context(), userID, rentalID, body.Code)
	})
}

func (h *RentalHandler) ConfirmReturn(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Code string `json:"code"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	h.transition(w, r, func(userID, rentalID string) (*domain.Rental, error) {
		return h.rentals.ConfirmReturn(r.Context(), userID, rentalID, body.Code)
	})
}

func (h *RentalHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(userID, rentalID string) (*domain.Rental, error) {
		return h.rentals.CancelRental(r.Context(), userID, rentalID)
	})
}

func (h *RentalHandler) EditDates(w http.ResponseWriter, r *http.Request) {
	var input service.EditDatesInput
	if !decodeBody(w, r, &input) {
		return
	}
	h.transition(w, r, func(userID, rentalID string) (*domain.Rental, error) {
		return h.rentals.EditRentalDates(r.Context(), userID, rentalID, input)
	})
}

// Countdown reports the remaining time to the rental's next deadline.
func (h *RentalHandler) Countdown(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "not authenticated"})
		return
	}
	rental, err := h.rentals.GetRental(r.Context(), userID, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	info, ok := utils.Countdown(time.Now(), rental, h.loc)
	if !ok {
		writeJSON(w, http.StatusOK, map[string]any{"active": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"active":            true,
		"label":             info.Label,
		"target":            info.Target,
		"remaining_seconds": int64(info.Remaining.Seconds()),
		"overdue":           info.IsOverdue,
	})
}

func (h *RentalHandler) transition(w http.ResponseWriter, r *http.Request, fn func(userID, rentalID string) (*domain.Rental, error)) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "not authenticated"})
		return
	}
	rental, err := fn(userID, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	h.caches.InvalidateParties(rental.OwnerID, rental.RenterID)
	writeJSON(w, http.StatusOK, h.redactCodes(rental, userID))
}

// redactCodes hides the code the caller is not supposed to see. Each party
// only ever reads their own code; the counterparty types it in after
// hearing it at the physical handoff.
func (h *RentalHandler) redactCodes(rental *domain.Rental, userID string) *domain.Rental {
	out := *rental
	switch userID {
	case rental.OwnerID:
		out.RenterCode = nil
	case rental.RenterID:
		out.OwnerCode = nil
	}
	return &out
}
