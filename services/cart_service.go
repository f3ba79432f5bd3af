package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"

	"github.com/vrindacare/pharmacy-api/models"
)

// CartService holds the per-customer cart state machine. Every mutation
// rewrites the full snapshot; the subtotal is recomputed on every read and
// never stored.
type CartService struct {
	db    *gorm.DB
	cache CartCache
	sfg   singleflight.Group // prevents cache stampede on concurrent reads
}

// NewCartService creates a cart service. cache may be nil, in which case all
// reads go to the database.
func NewCartService(db *gorm.DB, cache CartCache) *CartService {
	return &CartService{
		db:    db,
		cache: cache,
	}
}

// GetCart returns the customer's cart with items and subtotal hydrated.
// A customer with no stored cart gets an empty cart, not an error.
func (s *CartService) GetCart(ctx context.Context, email string) (*models.Cart, error) {
	v, err, _ := s.sfg.Do(email, func() (interface{}, error) {
		if s.cache != nil {
			cart, err := s.cache.Get(ctx, email)
			if err == nil {
				return cart, nil
			}
			if !errors.Is(err, ErrCacheMiss) {
				log.Printf("cart cache get error: %v", err)
			}
		}

		cart, err := s.loadCart(ctx, email)
		if err != nil {
			return nil, err
		}

		if s.cache != nil {
			go func() {
				if err := s.cache.Set(context.Background(), email, cart); err != nil {
					log.Printf("cart cache set error: %v", err)
				}
			}()
		}

		return cart, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.Cart), nil
}

// AddItem merges the item into the cart: an existing entry with the same id
// has its quantity incremented, otherwise the item is appended.
func (s *CartService) AddItem(ctx context.Context, email string, item models.CartItem) (*models.Cart, error) {
	cart, err := s.loadCart(ctx, email)
	if err != nil {
		return nil, err
	}

	merged := false
	for i := range cart.Items {
		if cart.Items[i].ID == item.ID {
			cart.Items[i].Quantity += item.Quantity
			merged = true
			break
		}
	}
	if !merged {
		cart.Items = append(cart.Items, item)
	}

	return s.saveCart(ctx, cart)
}

// UpdateQuantity sets the quantity of an entry. A quantity below 1 removes
// the entry instead; an unknown id is a no-op.
func (s *CartService) UpdateQuantity(ctx context.Context, email, id string, quantity int) (*models.Cart, error) {
	if quantity < 1 {
		return s.RemoveItem(ctx, email, id)
	}

	cart, err := s.loadCart(ctx, email)
	if err != nil {
		return nil, err
	}

	for i := range cart.Items {
		if cart.Items[i].ID == id {
			cart.Items[i].Quantity = quantity
			break
		}
	}

	return s.saveCart(ctx, cart)
}

// RemoveItem deletes the entry with the given id if present.
func (s *CartService) RemoveItem(ctx context.Context, email, id string) (*models.Cart, error) {
	cart, err := s.loadCart(ctx, email)
	if err != nil {
		return nil, err
	}

	kept := cart.Items[:0]
	for _, item := range cart.Items {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	cart.Items = kept

	return s.saveCart(ctx, cart)
}

// ClearCart empties the cart.
func (s *CartService) ClearCart(ctx context.Context, email string) (*models.Cart, error) {
	cart, err := s.loadCart(ctx, email)
	if err != nil {
		return nil, err
	}
	cart.Items = nil
	return s.saveCart(ctx, cart)
}

// loadCart reads the stored snapshot, hydrating items and subtotal. A missing
// row yields an empty, not-yet-persisted cart.
func (s *CartService) loadCart(ctx context.Context, email string) (*models.Cart, error) {
	var cart models.Cart
	err := s.db.WithContext(ctx).Where("customer_email = ?", email).First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		cart = models.Cart{CustomerEmail: email, Snapshot: "[]"}
	} else if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	cart.Items = decodeSnapshot(cart.Snapshot)
	cart.Total = Subtotal(cart.Items)
	return &cart, nil
}

// saveCart rewrites the full snapshot and invalidates the cache.
func (s *CartService) saveCart(ctx context.Context, cart *models.Cart) (*models.Cart, error) {
	if cart.Items == nil {
		cart.Items = []models.CartItem{}
	}

	snapshot, err := json.Marshal(cart.Items)
	if err != nil {
		return nil, fmt.Errorf("failed to encode cart snapshot: %w", err)
	}
	cart.Snapshot = string(snapshot)
	cart.Total = Subtotal(cart.Items)

	if err := s.db.WithContext(ctx).Save(cart).Error; err != nil {
		return nil, fmt.Errorf("failed to save cart: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Delete(ctx, cart.CustomerEmail); err != nil {
			log.Printf("cart cache invalidate error: %v", err)
		}
	}

	return cart, nil
}

// Subtotal is the derived cart total: Σ price*quantity over all entries.
func Subtotal(items []models.CartItem) float64 {
	var total float64
	for _, item := range items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

// decodeSnapshot parses a stored cart snapshot. An incompatible shape is
// logged and treated as an empty cart rather than surfaced to the caller.
func decodeSnapshot(snapshot string) []models.CartItem {
	if snapshot == "" {
		return nil
	}
	var items []models.CartItem
	if err := json.Unmarshal([]byte(snapshot), &items); err != nil {
		log.Printf("Failed to parse cart snapshot, falling back to empty cart: %v", err)
		return nil
	}
	return items
}
