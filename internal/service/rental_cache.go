package service

import (
	"context"
	"sync"
	"time"

	"aluko-backend/internal/domain"
	"aluko-backend/internal/repository"
)

var openStatuses = []domain.RentalStatus{
	domain.RentalStatusPending,
	domain.RentalStatusApproved,
	domain.RentalStatusActive,
}

// OpenRentalsCache keeps one user's open rentals and lendings in memory so
// dashboard reads do not hit the store on every poll. It is deliberately
// not self-refreshing: the data only changes on explicit user actions, so
// callers invalidate after a mutation and the next read reloads.
type OpenRentalsCache struct {
	rentalRepo repository.RentalRepository
	userID     string

	mu        sync.RWMutex
	rentals   []domain.Rental
	lendings  []domain.Rental
	loadedAt  time.Time
	populated bool
}

func NewOpenRentalsCache(rentalRepo repository.RentalRepository, userID string) *OpenRentalsCache {
	return &OpenRentalsCache{rentalRepo: rentalRepo, userID: userID}
}

// Snapshot returns the cached open rentals and lendings, loading them on
// first use. The returned slices are shared; callers must not mutate them.
func (c *OpenRentalsCache) Snapshot(ctx context.Context) (rentals, lendings []domain.Rental, err error) {
	c.mu.RLock()
	if c.populated {
		rentals, lendings = c.rentals, c.lendings
		c.mu.RUnlock()
		return rentals, lendings, nil
	}
	c.mu.RUnlock()

	if err := c.Refresh(ctx); err != nil {
		return nil, nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.rentals, c.lendings, nil
}

// Refresh reloads both lists from the store.
func (c *OpenRentalsCache) Refresh(ctx context.Context) error {
	rentals, err := c.rentalRepo.ListByRenter(ctx, c.userID, openStatuses)
	if err != nil {
		return err
	}
	lendings, err := c.rentalRepo.ListByOwner(ctx, c.userID, openStatuses)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.rentals = rentals
	c.lendings = lendings
	c.loadedAt = time.Now()
	c.populated = true
	c.mu.Unlock()
	return nil
}

// Invalidate drops the cached lists; the next Snapshot reloads.
func (c *OpenRentalsCache) Invalidate() {
	c.mu.Lock()
	c.populated = false
	c.rentals = nil
	c.lendings = nil
	c.mu.Unlock()
}

// CacheRegistry hands out one OpenRentalsCache per user and lets mutation
// paths invalidate both parties of a rental in one call.
type CacheRegistry struct {
	rentalRepo repository.RentalRepository

	mu     sync.Mutex
	caches map[string]*OpenRentalsCache
}

func NewCacheRegistry(rentalRepo repository.RentalRepository) *CacheRegistry {
	return &CacheRegistry{
		rentalRepo: rentalRepo,
		caches:     make(map[string]*OpenRentalsCache),
	}
}

func (r *CacheRegistry) For(userID string) *OpenRentalsCache {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.caches[userID]
	if !ok {
		c = NewOpenRentalsCache(r.rentalRepo, userID)
		r.caches[userID] = c
	}
	return c
}

// InvalidateParties drops the caches of everyone involved in a rental.
func (r *CacheRegistry) InvalidateParties(userIDs ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range userIDs {
		if c, ok := r.caches[id]; ok {
			c.Invalidate()
		}
	}
}
