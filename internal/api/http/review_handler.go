package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"aluko-backend/internal/service"
)

type ReviewHandler struct {
	reviews service.ReviewService
}

func NewReviewHandler(reviews service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

func (h *ReviewHandler) Register(r *mux.Router) {
	r.HandleFunc("/rentals/{id}/reviews", h.Submit).Methods(http.MethodPost)
	r.HandleFunc("/reviews/pending", h.ListPending).Methods(http.MethodGet)
}

func (h *ReviewHandler) Submit(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "not authenticated"})
		return
	}
	var body struct {
		Rating  int32  `json:"rating"`
		Comment string `json:"comment"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	review, err := h.reviews.SubmitReview(r.Context(), userID, mux.Vars(r)["id"], body.Rating, body.Comment)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, review)
}

func (h *ReviewHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "not authenticated"})
		return
	}
	rentals, err := h.reviews.ListRentalsAwaitingReview(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"rentals": rentals})
}
