package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/ScriptsHub07/venda3/internal/cart/cache"
	"github.com/ScriptsHub07/venda3/internal/cart/domain"
	"github.com/ScriptsHub07/venda3/internal/cart/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRepository struct {
	m    sync.RWMutex
	cart *domain.Cart
	err  error
}

func (m *mockRepository) GetCart(context.Context, string) (*domain.Cart, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	if m.cart == nil {
		return nil, repository.ErrCartNotFound
	}
	return m.cart, nil
}

func (m *mockRepository) UpsertCart(_ context.Context, c *domain.Cart) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil && m.err != repository.ErrCartNotFound {
		return m.err
	}
	m.cart = c
	return nil
}

func (m *mockRepository) DeleteCart(_ context.Context, _ string) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	if m.cart == nil {
		return repository.ErrCartNotFound
	}
	m.cart = nil
	return nil
}

func (m *mockRepository) getCart() *domain.Cart {
	m.m.RLock()
	defer m.m.RUnlock()
	return m.cart
}

type mockCache struct {
	m    sync.RWMutex
	cart *domain.Cart
	err  error
}

func (m *mockCache) Get(context.Context, string) (*domain.Cart, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	if m.cart == nil {
		return nil, cache.ErrCacheMiss
	}
	return m.cart, nil
}

func (m *mockCache) Set(_ context.Context, _ string, cart *domain.Cart) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.cart = cart
	return m.err
}

func (m *mockCache) Delete(context.Context, string) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.cart = nil
	return m.err
}

func (m *mockCache) getCart() *domain.Cart {
	m.m.RLock()
	defer m.m.RUnlock()
	return m.cart
}

func TestGetCart_Success(t *testing.T) {
	cart := &domain.Cart{
		Items: []domain.CartItem{
			{ProductID: "p1", Quantity: 5},
			{ProductID: "p2", Quantity: 10},
		},
		UserID:    "123",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	mockRepo := &mockRepository{
		cart: cart,
	}
	mockC := &mockCache{
		cart: nil,
	}

	sut := NewCartService(mockRepo, mockC)
	ret, err := sut.GetCart(context.Background(), "123")
	require.NoError(t, err)
	assert.NotNil(t, ret)
	l := len(ret.Items)
	assert.Equal(t, 2, l)
	assert.Equal(t, "p1", ret.Items[0].ProductID)
	assert.Equal(t, 5, ret.Items[0].Quantity)

	require.Eventually(t, func() bool {
		return mockC.getCart() != nil
	}, 100*time.Millisecond, 10*time.Millisecond, "cart was not set in cache")
}

func TestGetCart_RepoError(t *testing.T) {
	mockRepo := &mockRepository{
		err: fmt.Errorf("database error"),
	}
	mockC := &mockCache{
		cart: nil,
	}

	sut := NewCartService(mockRepo, mockC)
	ret, err := sut.GetCart(context.Background(), "123")
	require.ErrorContains(t, err, "database error")
	assert.Nil(t, ret)
	assert.Nil(t, mockC.getCart())
}

func TestGetCart_CacheHit(t *testing.T) {
	cart := &domain.Cart{
		Items:     []domain.CartItem{{ProductID: "p1", Quantity: 3}},
		UserID:    "123",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	mockRepo := &mockRepository{
		cart: nil, // repo should NOT be called
	}
	mockC := &mockCache{
		cart: cart, // cache has the cart
	}

	sut := NewCartService(mockRepo, mockC)
	ret, err := sut.GetCart(context.Background(), "123")
	require.NoError(t, err)
	assert.Equal(t, 1, len(ret.Items))
	assert.Equal(t, "p1", ret.Items[0].ProductID)
}

func TestGetCart_CartNotFound_ReturnsEmptyCart(t *testing.T) {
	mockRepo := &mockRepository{}
	mockC := &mockCache{}

	sut := NewCartService(mockRepo, mockC)
	ret, err := sut.GetCart(context.Background(), "123")
	require.NoError(t, err)
	assert.NotNil(t, ret)
	assert.Equal(t, "123", ret.UserID)
	assert.Empty(t, ret.Items)
}

func TestAddItem_CreatesCartAndInvalidatesCache(t *testing.T) {
	mockRepo := &mockRepository{}
	mockC := &mockCache{cart: &domain.Cart{UserID: "123"}}

	sut := NewCartService(mockRepo, mockC)
	cart, err := sut.AddItem(context.Background(), "123", domain.CartItem{
		ProductID: "p1",
		Name:      "Tenis",
		Price:     199.90,
	})
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 1, cart.Items[0].Quantity)
	assert.False(t, cart.Items[0].Selected)

	assert.NotNil(t, mockRepo.getCart())
	assert.Nil(t, mockC.getCart(), "cache was not invalidated")
}

func TestAddItem_SameProductTwiceIncrements(t *testing.T) {
	mockRepo := &mockRepository{}
	mockC := &mockCache{}

	sut := NewCartService(mockRepo, mockC)
	_, err := sut.AddItem(context.Background(), "123", domain.CartItem{ProductID: "p1"})
	require.NoError(t, err)
	cart, err := sut.AddItem(context.Background(), "123", domain.CartItem{ProductID: "p1"})
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
}

func TestUpdateQuantity_ItemNotFound(t *testing.T) {
	mockRepo := &mockRepository{cart: &domain.Cart{UserID: "123"}}
	mockC := &mockCache{}

	sut := NewCartService(mockRepo, mockC)
	_, err := sut.UpdateQuantity(context.Background(), "123", "missing", 3)
	require.ErrorIs(t, err, ErrItemNotFound)
}

func TestToggleItem_FlipsSelection(t *testing.T) {
	mockRepo := &mockRepository{cart: &domain.Cart{
		UserID: "123",
		Items:  []domain.CartItem{{ProductID: "p1", Quantity: 1}},
	}}
	mockC := &mockCache{}

	sut := NewCartService(mockRepo, mockC)
	cart, err := sut.ToggleItem(context.Background(), "123", "p1")
	require.NoError(t, err)
	assert.True(t, cart.Items[0].Selected)

	cart, err = sut.ToggleItem(context.Background(), "123", "p1")
	require.NoError(t, err)
	assert.False(t, cart.Items[0].Selected)
}

func TestRemoveSelected_AfterCheckout(t *testing.T) {
	mockRepo := &mockRepository{cart: &domain.Cart{
		UserID: "123",
		Items: []domain.CartItem{
			{ProductID: "p1", Quantity: 1, Selected: true},
			{ProductID: "p2", Quantity: 2, Selected: false},
		},
	}}
	mockC := &mockCache{}

	sut := NewCartService(mockRepo, mockC)
	cart, err := sut.RemoveSelected(context.Background(), "123")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "p2", cart.Items[0].ProductID)
}

func TestClearCart(t *testing.T) {
	mockRepo := &mockRepository{cart: &domain.Cart{
		UserID: "123",
		Items:  []domain.CartItem{{ProductID: "p1", Quantity: 1}},
	}}
	mockC := &mockCache{cart: &domain.Cart{UserID: "123"}}

	sut := NewCartService(mockRepo, mockC)
	err := sut.ClearCart(context.Background(), "123")
	require.NoError(t, err)
	assert.Nil(t, mockRepo.getCart())
	assert.Nil(t, mockC.getCart())
}

func TestClearCart_MissingCartIsNoError(t *testing.T) {
	mockRepo := &mockRepository{}
	mockC := &mockCache{}

	sut := NewCartService(mockRepo, mockC)
	err := sut.ClearCart(context.Background(), "123")
	require.NoError(t, err)
}
