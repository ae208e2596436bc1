package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"aluko-backend/internal/domain"
	"aluko-backend/internal/repository"

	"github.com/lib/pq"
)

type listingRepository struct {
	db *sql.DB
}

func NewListingRepository(db *sql.DB) repository.ListingRepository {
	return &listingRepository{db: db}
}

func (r *listingRepository) GetByID(ctx context.Context, id string) (*domain.Listing, error) {
	query := `SELECT id, owner_id, title, price_per_day_cents, discount_week_percent, discount_month_percent,
	          deposit_amount_cents, flexible_hours, pickup_windows, allowed_weekdays,
	          delivery_available, delivery_free, delivery_fee_cents, delivery_max_km,
	          latitude, longitude, created_on
	          FROM listings WHERE id = $1`

	l := &domain.Listing{}
	var (
		windowsJSON []byte
		weekdays    []int64
	)
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&l.ID, &l.OwnerID, &l.Title, &l.PricePerDayCents, &l.DiscountWeekPercent, &l.DiscountMonthPercent,
		&l.DepositAmountCents, &l.FlexibleHours, &windowsJSON, pq.Array(&weekdays),
		&l.DeliveryAvailable, &l.DeliveryFree, &l.DeliveryFeeCents, &l.DeliveryMaxKm,
		&l.Latitude, &l.Longitude, &l.CreatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: listing %s", domain.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	if len(windowsJSON) > 0 {
		if err := json.Unmarshal(windowsJSON, &l.PickupWindows); err != nil {
			return nil, fmt.Errorf("malformed pickup_windows for listing %s: %w", id, err)
		}
	}
	for _, wd := range weekdays {
		l.AllowedWeekdays = append(l.AllowedWeekdays, time.Weekday(wd))
	}
	return l, nil
}
