package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"aluko-backend/internal/security"
	"aluko-backend/internal/service"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Rentals       *RentalHandler
	Availability  *AvailabilityHandler
	Notifications *NotificationHandler
	Reviews       *ReviewHandler
}

func NewHandlers(
	rentals service.RentalService,
	availability service.AvailabilityService,
	notifications service.NotificationService,
	reviews service.ReviewService,
	caches *service.CacheRegistry,
) *Handlers {
	return &Handlers{
		Rentals:       NewRentalHandler(rentals, caches),
		Availability:  NewAvailabilityHandler(availability),
		Notifications: NewNotificationHandler(notifications),
		Reviews:       NewReviewHandler(reviews),
	}
}

// NewRouter assembles the API router. Everything under /api/v1 requires a
// bearer token; /healthz does not.
func NewRouter(h *Handlers, tokens security.TokenManager) *mux.Router {
	root := mux.NewRouter()
	root.Use(LoggingMiddleware)

	root.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	api := root.PathPrefix("/api/v1").Subrouter()
	api.Use(AuthMiddleware(tokens))

	h.Rentals.Register(api)
	h.Availability.Register(api)
	h.Notifications.Register(api)
	h.Reviews.Register(api)

	return root
}
