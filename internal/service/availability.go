package service

import (
	"context"
	"fmt"
	"time"

	"aluko-backend/internal/domain"
	"aluko-backend/internal/repository"
	"aluko-backend/internal/utils"
)

type availabilityService struct {
	blockRepo repository.AvailabilityRepository
}

func NewAvailabilityService(blockRepo repository.AvailabilityRepository) AvailabilityService {
	return &availabilityService{blockRepo: blockRepo}
}

func (s *availabilityService) IsRangeFree(ctx context.Context, listingID, startDate, endDate, excludeRentalID string) (bool, error) {
	var overlapping []domain.AvailabilityBlock
	err := withRetry(ctx, func(ctx context.Context) error {
		var err error
		overlapping, err = s.blockRepo.QueryOverlap(ctx, listingID, startDate, endDate, excludeRentalID)
		return err
	})
	if err != nil {
		return false, err
	}
	return len(overlapping) == 0, nil
}

// Lock inserts the block through the repository's atomic guarded insert.
// Callers check IsRangeFree first for a friendly early answer, but the
// insert itself is the authoritative race-safe step.
func (s *availabilityService) Lock(ctx context.Context, listingID, startDate, endDate, rentalID string) error {
	block := &domain.AvailabilityBlock{
		ListingID: listingID,
		RentalID:  rentalID,
		StartDate: startDate,
		EndDate:   endDate,
	}
	return withRetry(ctx, func(ctx context.Context) error {
		return s.blockRepo.InsertBlock(ctx, block)
	})
}

func (s *availabilityService) Release(ctx context.Context, rentalID string) error {
	return withRetry(ctx, func(ctx context.Context) error {
		return s.blockRepo.DeleteBlockByRental(ctx, rentalID)
	})
}

// BlockedDays walks each block clipped to the requested month. This
// expansion exists for calendar highlighting; overlap decisions always go
// through the range comparison, never day-by-day equality.
func (s *availabilityService) BlockedDays(ctx context.Context, listingID string, year int, month time.Month) ([]string, error) {
	blocks, err := s.blockRepo.ListByListing(ctx, listingID)
	if err != nil {
		return nil, err
	}

	monthStart := fmt.Sprintf("%04d-%02d-01", year, int(month))
	monthEnd := fmt.Sprintf("%04d-%02d-%02d", year, int(month), utils.DaysInMonth(year, int(month)))

	var days []string
	seen := make(map[string]bool)
	for _, b := range blocks {
		if !domain.RangesOverlap(b.StartDate, b.EndDate, monthStart, monthEnd) {
			continue
		}
		from := maxDate(b.StartDate, monthStart)
		to := minDate(b.EndDate, monthEnd)

		d, err := utils.ParseDate(from)
		if err != nil {
			return nil, err
		}
		cur := d.Midnight(time.UTC)
		for {
			day := cur.Format("2006-01-02")
			if day > to {
				break
			}
			if !seen[day] {
				seen[day] = true
				days = append(days, day)
			}
			cur = cur.AddDate(0, 0, 1)
		}
	}
	return days, nil
}

func maxDate(a, b string) string {
	if a > b {
		return a
	}
	return b
}

func minDate(a, b string) string {
	if a < b {
		return a
	}
	return b
}
