package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"aluko-backend/internal/domain"
	"aluko-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const rentalColumns = `id, listing_id, owner_id, renter_id, start_date, end_date, pickup_time, return_time,
	delivery_method, total_days, price_per_day_cents, subtotal_cents, service_fee_cents, delivery_fee_cents,
	total_amount_cents, owner_amount_cents, deposit_amount_cents, status, owner_code, renter_code,
	owner_code_used, renter_code_used, pickup_confirmed_at, return_confirmed_at, overdue, rejection_reason,
	created_on, updated_on`

type rentalRepository struct {
	db *sql.DB
}

func NewRentalRepository(db *sql.DB) repository.RentalRepository {
	return &rentalRepository{db: db}
}

func (r *rentalRepository) Create(ctx context.Context, rt *domain.Rental) error {
	if rt.ID == "" {
		rt.ID = uuid.NewString()
	}
	now := time.Now()
	rt.CreatedOn = now
	rt.UpdatedOn = now

	query := `INSERT INTO rentals (id, listing_id, owner_id, renter_id, start_date, end_date, pickup_time, return_time,
	          delivery_method, total_days, price_per_day_cents, subtotal_cents, service_fee_cents, delivery_fee_cents,
	          total_amount_cents, owner_amount_cents, deposit_amount_cents, status, rejection_reason, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`
	_, err := r.db.ExecContext(ctx, query,
		rt.ID, rt.ListingID, rt.OwnerID, rt.RenterID, rt.StartDate, rt.EndDate, rt.PickupTime, rt.ReturnTime,
		rt.DeliveryMethod, rt.Pricing.TotalDays, rt.Pricing.PricePerDayCents, rt.Pricing.SubtotalCents,
		rt.Pricing.ServiceFeeCents, rt.Pricing.DeliveryFeeCents, rt.Pricing.TotalAmountCents,
		rt.Pricing.OwnerAmountCents, rt.Pricing.DepositAmountCents, rt.Status, rt.RejectionReason, now, now)
	if err != nil {
		return fmt.Errorf("insert rental: %w", err)
	}
	return nil
}

func (r *rentalRepository) GetByID(ctx context.Context, id string) (*domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals WHERE id = $1`
	rt, err := scanRental(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: rental %s", domain.ErrNotFound, id)
	}
	return rt, err
}

func (r *rentalRepository) ConditionalUpdateStatus(ctx context.Context, id string, expected, next domain.RentalStatus, patch domain.RentalPatch) (*domain.Rental, error) {
	set := []string{"status = $1", "updated_on = $2"}
	args := []interface{}{next, time.Now()}
	idx := 3
	add := func(column string, value interface{}) {
		set = append(set, fmt.Sprintf("%s = $%d", column, idx))
		args = append(args, value)
		idx++
	}

	if patch.ClearHandoffState {
		set = append(set,
			"owner_code = NULL", "renter_code = NULL",
			"owner_code_used = FALSE", "renter_code_used = FALSE",
			"pickup_confirmed_at = NULL")
	}
	if patch.OwnerCode != nil {
		add("owner_code", *patch.OwnerCode)
	}
	if patch.RenterCode != nil {
		add("renter_code", *patch.RenterCode)
	}
	if patch.OwnerCodeUsed != nil {
		add("owner_code_used", *patch.OwnerCodeUsed)
	}
	if patch.RenterCodeUsed != nil {
		add("renter_code_used", *patch.RenterCodeUsed)
	}
	if patch.PickupConfirmedAt != nil {
		add("pickup_confirmed_at", *patch.PickupConfirmedAt)
	}
	if patch.ReturnConfirmedAt != nil {
		add("return_confirmed_at", *patch.ReturnConfirmedAt)
	}
	if patch.RejectionReason != nil {
		add("rejection_reason", *patch.RejectionReason)
	}
	if patch.Overdue != nil {
		add("overdue", *patch.Overdue)
	}
	if patch.StartDate != nil {
		add("start_date", *patch.StartDate)
	}
	if patch.EndDate != nil {
		add("end_date", *patch.EndDate)
	}
	if patch.PickupTime != nil {
		add("pickup_time", *patch.PickupTime)
	}
	if patch.ReturnTime != nil {
		add("return_time", *patch.ReturnTime)
	}
	if p := patch.Pricing; p != nil {
		add("total_days", p.TotalDays)
		add("price_per_day_cents", p.PricePerDayCents)
		add("subtotal_cents", p.SubtotalCents)
		add("service_fee_cents", p.ServiceFeeCents)
		add("delivery_fee_cents", p.DeliveryFeeCents)
		add("total_amount_cents", p.TotalAmountCents)
		add("owner_amount_cents", p.OwnerAmountCents)
		add("deposit_amount_cents", p.DepositAmountCents)
	}

	query := fmt.Sprintf(`UPDATE rentals SET %s WHERE id = $%d AND status = $%d RETURNING %s`,
		strings.Join(set, ", "), idx, idx+1, rentalColumns)
	args = append(args, id, expected)

	rt, err := scanRental(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		// The row is gone or no longer in the expected status; either way
		// the transition was handled elsewhere and the caller must refresh.
		return nil, fmt.Errorf("%w: rental %s is not %s", domain.ErrStateConflict, id, expected)
	}
	return rt, err
}

func (r *rentalRepository) ListByRenter(ctx context.Context, renterID string, statuses []domain.RentalStatus) ([]domain.Rental, error) {
	return r.list(ctx, "renter_id", renterID, statuses)
}

func (r *rentalRepository) ListByOwner(ctx context.Context, ownerID string, statuses []domain.RentalStatus) ([]domain.Rental, error) {
	return r.list(ctx, "owner_id", ownerID, statuses)
}

func (r *rentalRepository) list(ctx context.Context, column, userID string, statuses []domain.RentalStatus) ([]domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals WHERE ` + column + ` = $1`
	args := []interface{}{userID}
	if len(statuses) > 0 {
		query += ` AND status = ANY($2)`
		values := make([]string, len(statuses))
		for i, s := range statuses {
			values[i] = string(s)
		}
		args = append(args, pq.Array(values))
	}
	query += ` ORDER BY created_on DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectRentals(rows)
}

func (r *rentalRepository) CountOpenForRenterOnListing(ctx context.Context, renterID, listingID string) (int32, error) {
	query := `SELECT count(*) FROM rentals
	          WHERE renter_id = $1 AND listing_id = $2 AND status = ANY($3)`
	open := pq.Array([]string{
		string(domain.RentalStatusPending),
		string(domain.RentalStatusApproved),
		string(domain.RentalStatusActive),
	})
	var count int32
	if err := r.db.QueryRowContext(ctx, query, renterID, listingID, open).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *rentalRepository) ListActivePastReturn(ctx context.Context, cutoffDate string) ([]domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals
	          WHERE status = $1 AND end_date < $2 AND overdue = FALSE`
	rows, err := r.db.QueryContext(ctx, query, domain.RentalStatusActive, cutoffDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectRentals(rows)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRental(row rowScanner) (*domain.Rental, error) {
	rt := &domain.Rental{}
	var (
		startDate, endDate time.Time
		ownerCode          sql.NullString
		renterCode         sql.NullString
		pickupConfirmedAt  sql.NullTime
		returnConfirmedAt  sql.NullTime
	)
	err := row.Scan(&rt.ID, &rt.ListingID, &rt.OwnerID, &rt.RenterID, &startDate, &endDate,
		&rt.PickupTime, &rt.ReturnTime, &rt.DeliveryMethod, &rt.Pricing.TotalDays,
		&rt.Pricing.PricePerDayCents, &rt.Pricing.SubtotalCents, &rt.Pricing.ServiceFeeCents,
		&rt.Pricing.DeliveryFeeCents, &rt.Pricing.TotalAmountCents, &rt.Pricing.OwnerAmountCents,
		&rt.Pricing.DepositAmountCents, &rt.Status, &ownerCode, &renterCode,
		&rt.OwnerCodeUsed, &rt.RenterCodeUsed, &pickupConfirmedAt, &returnConfirmedAt,
		&rt.Overdue, &rt.RejectionReason, &rt.CreatedOn, &rt.UpdatedOn)
	if err != nil {
		return nil, err
	}

	rt.StartDate = startDate.Format("2006-01-02")
	rt.EndDate = endDate.Format("2006-01-02")
	if ownerCode.Valid {
		rt.OwnerCode = &ownerCode.String
	}
	if renterCode.Valid {
		rt.RenterCode = &renterCode.String
	}
	if pickupConfirmedAt.Valid {
		t := pickupConfirmedAt.Time
		rt.PickupConfirmedAt = &t
	}
	if returnConfirmedAt.Valid {
		t := returnConfirmedAt.Time
		rt.ReturnConfirmedAt = &t
	}
	return rt, nil
}

func collectRentals(rows *sql.Rows) ([]domain.Rental, error) {
	var rentals []domain.Rental
	for rows.Next() {
		rt, err := scanRental(rows)
		if err != nil {
			return nil, err
		}
		rentals = append(rentals, *rt)
	}
	return rentals, rows.Err()
}
