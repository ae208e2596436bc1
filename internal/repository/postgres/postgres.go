package postgres

import (
	"database/sql"

	"aluko-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.ListingRepository
	repository.RentalRepository
	repository.AvailabilityRepository
	repository.NotificationRepository
	repository.UserRepository
	repository.ReviewRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                     db,
		ListingRepository:      NewListingRepository(db),
		RentalRepository:       NewRentalRepository(db),
		AvailabilityRepository: NewAvailabilityRepository(db),
		NotificationRepository: NewNotificationRepository(db),
		UserRepository:         NewUserRepository(db),
		ReviewRepository:       NewReviewRepository(db),
	}
}
