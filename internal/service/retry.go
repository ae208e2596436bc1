package service

import (
	"context"
	"time"

	"aluko-backend/internal/domain"
)

const (
	storeAttempts   = 3
	storeRetryDelay = 150 * time.Millisecond
	storeTimeout    = 5 * time.Second
)

// withRetry runs one store operation with a per-attempt timeout and a
// small bounded retry. Semantic outcomes (range conflict, state conflict,
// code mismatch, validation, not found) are definitive and returned on
// the first attempt; only infrastructure failures are retried.
func withRetry(ctx context.Context, op func(ctx context.Context) error) error {
	var err error
	for attempt := 0; attempt < storeAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(storeRetryDelay):
			}
		}

		opCtx, cancel := context.WithTimeout(ctx, storeTimeout)
		err = op(opCtx)
		cancel()

		if err == nil || domain.Semantic(err) || ctx.Err() != nil {
			return err
		}
	}
	return err
}
