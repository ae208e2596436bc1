package postgres_test

import (
	"context"
	"testing"
	"time"

	"aluko-backend/internal/domain"
	"aluko-backend/internal/repository/postgres"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestAvailabilityRepository_InsertBlock(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewAvailabilityRepository(db)
	ctx := context.Background()

	block := func() *domain.AvailabilityBlock {
		return &domain.AvailabilityBlock{
			ListingID: "listing-1",
			RentalID:  "rental-1",
			StartDate: "2024-06-01",
			EndDate:   "2024-06-05",
		}
	}

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO availability_blocks").
			WillReturnResult(sqlmock.NewResult(0, 1))

		b := block()
		err := repo.InsertBlock(ctx, b)
		assert.NoError(t, err)
		assert.NotEmpty(t, b.ID)
	})

	t.Run("Guarded insert matching nothing is a RangeConflict", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO availability_blocks").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.InsertBlock(ctx, block())
		assert.ErrorIs(t, err, domain.ErrRangeConflict)
	})

	t.Run("Exclusion constraint violation is a RangeConflict", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO availability_blocks").
			WillReturnError(&pq.Error{Code: "23P01"})

		err := repo.InsertBlock(ctx, block())
		assert.ErrorIs(t, err, domain.ErrRangeConflict)
	})
}

func TestAvailabilityRepository_DeleteBlockByRental(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewAvailabilityRepository(db)

	// Idempotent: deleting an absent block succeeds with zero rows.
	mock.ExpectExec("DELETE FROM availability_blocks WHERE rental_id = \\$1").
		WithArgs("rental-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, repo.DeleteBlockByRental(context.Background(), "rental-1"))
}

func TestAvailabilityRepository_QueryOverlap(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewAvailabilityRepository(db)

	rows := sqlmock.NewRows([]string{"id", "listing_id", "rental_id", "start_date", "end_date", "created_on"}).
		AddRow("b1", "listing-1", "rental-1",
			time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC),
			time.Now())

	mock.ExpectQuery("SELECT (.+) FROM availability_blocks").
		WithArgs("listing-1", "2024-06-03", "2024-06-10", "").
		WillReturnRows(rows)

	blocks, err := repo.QueryOverlap(context.Background(), "listing-1", "2024-06-03", "2024-06-10", "")
	assert.NoError(t, err)
	assert.Len(t, blocks, 1)
	assert.Equal(t, "2024-06-01", blocks[0].StartDate)
}
