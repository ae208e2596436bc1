package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"aluko-backend/internal/domain"
	"aluko-backend/internal/service"
)

func TestOpenRentalsCache(t *testing.T) {
	ctx := context.Background()

	rentals := []domain.Rental{{ID: "r1", RenterID: "user-1", Status: domain.RentalStatusActive}}
	lendings := []domain.Rental{{ID: "r2", OwnerID: "user-1", Status: domain.RentalStatusPending}}

	t.Run("Snapshot loads once and serves from memory", func(t *testing.T) {
		repo := new(MockRentalRepo)
		repo.On("ListByRenter", mock.Anything, "user-1", mock.Anything).Return(rentals, nil)
		repo.On("ListByOwner", mock.Anything, "user-1", mock.Anything).Return(lendings, nil)

		cache := service.NewOpenRentalsCache(repo, "user-1")

		got, lent, err := cache.Snapshot(ctx)
		require.NoError(t, err)
		assert.Equal(t, rentals, got)
		assert.Equal(t, lendings, lent)

		_, _, err = cache.Snapshot(ctx)
		require.NoError(t, err)
		repo.AssertNumberOfCalls(t, "ListByRenter", 1)
		repo.AssertNumberOfCalls(t, "ListByOwner", 1)
	})

	t.Run("Invalidate forces a reload", func(t *testing.T) {
		repo := new(MockRentalRepo)
		repo.On("ListByRenter", mock.Anything, "user-1", mock.Anything).Return(rentals, nil)
		repo.On("ListByOwner", mock.Anything, "user-1", mock.Anything).Return(lendings, nil)

		cache := service.NewOpenRentalsCache(repo, "user-1")
		_, _, err := cache.Snapshot(ctx)
		require.NoError(t, err)

		cache.Invalidate()
		_, _, err = cache.Snapshot(ctx)
		require.NoError(t, err)
		repo.AssertNumberOfCalls(t, "ListByRenter", 2)
	})
}

func TestCacheRegistry(t *testing.T) {
	repo := new(MockRentalRepo)
	registry := service.NewCacheRegistry(repo)

	a := registry.For("user-a")
	assert.Same(t, a, registry.For("user-a"))
	assert.NotSame(t, a, registry.For("user-b"))

	// Invalidating unknown users is harmless.
	registry.InvalidateParties("user-a", "never-seen")
}
