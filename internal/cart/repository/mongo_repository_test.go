package repository

import (
	"context"
	"testing"

	"github.com/ScriptsHub07/venda3/internal/cart/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
)

func setupTestDB(t *testing.T) (CartRepository, func()) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	ctx := context.Background()

	mongoContainer, err := mongodb.Run(ctx, "mongo:7")
	require.NoError(t, err)

	uri, err := mongoContainer.ConnectionString(ctx)
	require.NoError(t, err)

	db, err := ConnectMongoDB(ctx, uri, "testdb")
	require.NoError(t, err)

	repo := NewMongoRepository(db)

	mongoRepo := repo.(*mongoRepository)
	err = mongoRepo.CreateIndexes(ctx)
	require.NoError(t, err)

	cleanup := func() {
		if err := mongoContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}

	return repo, cleanup
}

func TestGetCart_NotFound(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	cart, err := repo.GetCart(ctx, "nonexistent")

	assert.ErrorIs(t, err, ErrCartNotFound)
	assert.Nil(t, cart)
}

func TestUpsertCart_RoundTripKeepsSelection(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	cart := &domain.Cart{
		UserID: "user123",
		Items: []domain.CartItem{
			{ProductID: "p1", Name: "Tenis", Price: 199.90, Quantity: 2, Selected: true},
			{ProductID: "p2", Name: "Bone", Price: 49.90, Quantity: 1, Selected: false},
		},
	}
	require.NoError(t, repo.UpsertCart(ctx, cart))

	fetched, err := repo.GetCart(ctx, "user123")
	require.NoError(t, err)
	assert.Equal(t, "user123", fetched.UserID)
	require.Len(t, fetched.Items, 2)
	assert.True(t, fetched.Items[0].Selected, "selection must survive the snapshot")
	assert.False(t, fetched.Items[1].Selected)
	assert.InDelta(t, 199.90, fetched.Items[0].Price, 0.001)
	assert.False(t, fetched.CreatedAt.IsZero())
}

func TestUpsertCart_ReplacesSnapshot(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	cart := &domain.Cart{
		UserID: "user123",
		Items:  []domain.CartItem{{ProductID: "p1", Quantity: 1}},
	}
	require.NoError(t, repo.UpsertCart(ctx, cart))

	cart.Items[0].Quantity = 5
	cart.Items = append(cart.Items, domain.CartItem{ProductID: "p2", Quantity: 2})
	require.NoError(t, repo.UpsertCart(ctx, cart))

	fetched, err := repo.GetCart(ctx, "user123")
	require.NoError(t, err)
	require.Len(t, fetched.Items, 2)
	assert.Equal(t, 5, fetched.Items[0].Quantity)
}

func TestDeleteCart(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	cart := &domain.Cart{UserID: "user123", Items: []domain.CartItem{{ProductID: "p1", Quantity: 1}}}
	require.NoError(t, repo.UpsertCart(ctx, cart))

	require.NoError(t, repo.DeleteCart(ctx, "user123"))

	_, err := repo.GetCart(ctx, "user123")
	assert.ErrorIs(t, err, ErrCartNotFound)
}

func TestDeleteCart_NotFound(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	err := repo.DeleteCart(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, ErrCartNotFound)
}
