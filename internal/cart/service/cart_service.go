package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/ScriptsHub07/venda3/internal/cart/cache"
	"github.com/ScriptsHub07/venda3/internal/cart/domain"
	"github.com/ScriptsHub07/venda3/internal/cart/repository"
	"golang.org/x/sync/singleflight"
)

var ErrItemNotFound = errors.New("item not found in cart")

// CartService is the single dispatch path for cart mutations: every change
// loads the snapshot, applies one domain operation and saves the result, so
// the durable copy never drifts from what the shopper sees.
type CartService struct {
	repo  repository.CartRepository
	cache cache.CartCache
	sfg   singleflight.Group // Prevents cache stampede
}

func NewCartService(repo repository.CartRepository, cache cache.CartCache) *CartService {
	return &CartService{
		repo:  repo,
		cache: cache,
	}
}

// GetCart serves the snapshot from the cache when present, else from the
// repository. Concurrent misses for the same user collapse into one lookup.
func (s *CartService) GetCart(ctx context.Context, userID string) (*domain.Cart, error) {
	v, err, _ := s.sfg.Do(userID, func() (interface{}, error) {
		cart, err := s.cache.Get(ctx, userID)
		if err == nil {
			return cart, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			// A broken cache is not fatal; fall through to the repository.
			log.Printf("cache get error: %v", err)
		}

		cart, errGet := s.repo.GetCart(ctx, userID)
		if errors.Is(errGet, repository.ErrCartNotFound) {
			// A shopper with no snapshot yet simply has an empty cart.
			return &domain.Cart{
				UserID:    userID,
				CreatedAt: time.Now(),
				UpdatedAt: time.Now(),
			}, nil
		}
		if errGet != nil {
			return nil, errGet
		}

		// Refill the cache off the request path.
		go func() {
			if errSet := s.cache.Set(context.Background(), userID, cart); errSet != nil {
				log.Printf("cache set error: %v", errSet)
			}
		}()

		return cart, nil
	})

	if err != nil {
		return nil, err
	}

	return v.(*domain.Cart), nil
}

func (s *CartService) AddItem(ctx context.Context, userID string, item domain.CartItem) (*domain.Cart, error) {
	return s.mutate(ctx, userID, func(cart *domain.Cart) error {
		cart.Add(item)
		return nil
	})
}

func (s *CartService) UpdateQuantity(ctx context.Context, userID, productID string, quantity int) (*domain.Cart, error) {
	return s.mutate(ctx, userID, func(cart *domain.Cart) error {
		if !cart.SetQuantity(productID, quantity) {
			return ErrItemNotFound
		}
		return nil
	})
}

func (s *CartService) RemoveItem(ctx context.Context, userID, productID string) (*domain.Cart, error) {
	return s.mutate(ctx, userID, func(cart *domain.Cart) error {
		cart.Remove(productID)
		return nil
	})
}

func (s *CartService) ToggleItem(ctx context.Context, userID, productID string) (*domain.Cart, error) {
	return s.mutate(ctx, userID, func(cart *domain.Cart) error {
		if !cart.Toggle(productID) {
			return ErrItemNotFound
		}
		return nil
	})
}

func (s *CartService) ToggleAll(ctx context.Context, userID string, selected bool) (*domain.Cart, error) {
	return s.mutate(ctx, userID, func(cart *domain.Cart) error {
		cart.ToggleAll(selected)
		return nil
	})
}

func (s *CartService) RemoveSelected(ctx context.Context, userID string) (*domain.Cart, error) {
	return s.mutate(ctx, userID, func(cart *domain.Cart) error {
		cart.RemoveSelected()
		return nil
	})
}

func (s *CartService) ClearCart(ctx context.Context, userID string) error {
	errDelete := s.repo.DeleteCart(ctx, userID)
	if errDelete != nil && !errors.Is(errDelete, repository.ErrCartNotFound) {
		log.Printf("repo delete cart error: %v \n", errDelete)
		return errDelete
	}

	invalidateCache(s, userID)
	return nil
}

func (s *CartService) mutate(ctx context.Context, userID string, fn func(cart *domain.Cart) error) (*domain.Cart, error) {
	cart, err := s.repo.GetCart(ctx, userID)
	if errors.Is(err, repository.ErrCartNotFound) {
		cart = &domain.Cart{UserID: userID}
	} else if err != nil {
		return nil, err
	}

	if err := fn(cart); err != nil {
		return nil, err
	}

	if err := s.repo.UpsertCart(ctx, cart); err != nil {
		log.Printf("repo upsert cart error: %v \n", err)
		return nil, err
	}

	invalidateCache(s, userID)
	return cart, nil
}

func invalidateCache(s *CartService, userID string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	errInvalidate := s.cache.Delete(ctx, userID)
	if errInvalidate != nil {
		log.Printf("cache invalidate error: %v \n", errInvalidate)
	}
}
