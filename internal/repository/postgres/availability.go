package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"aluko-backend/internal/domain"
	"aluko-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type availabilityRepository struct {
	db *sql.DB
}

func NewAvailabilityRepository(db *sql.DB) repository.AvailabilityRepository {
	return &availabilityRepository{db: db}
}

// InsertBlock is the single conditional write that makes check-then-lock
// safe across clients: the guarded INSERT observes committed blocks in the
// same statement, and the table's range exclusion constraint (error 23P01)
// catches the remaining write-write race. Both paths surface as
// domain.ErrRangeConflict, never as a silent overwrite.
func (r *availabilityRepository) InsertBlock(ctx context.Context, block *domain.AvailabilityBlock) error {
	if block.ID == "" {
		block.ID = uuid.NewString()
	}
	block.CreatedOn = time.Now()

	query := `INSERT INTO availability_blocks (id, listing_id, rental_id, start_date, end_date, created_on)
	          SELECT $1, $2, $3, $4, $5, $6
	          WHERE NOT EXISTS (
	              SELECT 1 FROM availability_blocks
	              WHERE listing_id = $2 AND rental_id <> $3 AND start_date <= $5 AND end_date >= $4
	          )`
	res, err := r.db.ExecContext(ctx, query,
		block.ID, block.ListingID, block.RentalID, block.StartDate, block.EndDate, block.CreatedOn)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && (pqErr.Code == "23P01" || pqErr.Code == "23505") {
			return fmt.Errorf("%w: listing %s over %s..%s", domain.ErrRangeConflict,
				block.ListingID, block.StartDate, block.EndDate)
		}
		return fmt.Errorf("insert availability block: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: listing %s over %s..%s", domain.ErrRangeConflict,
			block.ListingID, block.StartDate, block.EndDate)
	}
	return nil
}

func (r *availabilityRepository) DeleteBlockByRental(ctx context.Context, rentalID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM availability_blocks WHERE rental_id = $1`, rentalID)
	return err
}

func (r *availabilityRepository) QueryOverlap(ctx context.Context, listingID, startDate, endDate, excludeRentalID string) ([]domain.AvailabilityBlock, error) {
	query := `SELECT id, listing_id, rental_id, start_date, end_date, created_on
	          FROM availability_blocks
	          WHERE listing_id = $1 AND start_date <= $3 AND end_date >= $2
	            AND ($4 = '' OR rental_id <> $4)`
	rows, err := r.db.QueryContext(ctx, query, listingID, startDate, endDate, excludeRentalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectBlocks(rows)
}

func (r *availabilityRepository) ListByListing(ctx context.Context, listingID string) ([]domain.AvailabilityBlock, error) {
	query := `SELECT id, listing_id, rental_id, start_date, end_date, created_on
	          FROM availability_blocks WHERE listing_id = $1 ORDER BY start_date`
	rows, err := r.db.QueryContext(ctx, query, listingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectBlocks(rows)
}

func collectBlocks(rows *sql.Rows) ([]domain.AvailabilityBlock, error) {
	var blocks []domain.AvailabilityBlock
	for rows.Next() {
		var b domain.AvailabilityBlock
		var start, end time.Time
		if err := rows.Scan(&b.ID, &b.ListingID, &b.RentalID, &start, &end, &b.CreatedOn); err != nil {
			return nil, err
		}
		b.StartDate = start.Format("2006-01-02")
		b.EndDate = end.Format("2006-01-02")
		blocks = append(blocks, b)
	}
	return blocks, rows.Err()
}
