package service

import (
	"context"

	"github.com/devanshgoyal/shopkart/internal/kv"
	"github.com/devanshgoyal/shopkart/internal/models"
)

// CartService is the per-line-item quantity ledger of the active browsing
// session. The cart is a single global record, not scoped per user: switching
// accounts does not switch carts, only logout clears it.
type CartService struct {
	store kv.Store
}

func NewCartService(store kv.Store) *CartService {
	return &CartService{store: store}
}

func (s *CartService) Items(ctx context.Context) ([]models.CartItem, error) {
	return readList[models.CartItem](ctx, s.store, cartKey)
}

// AddItem inserts the item with qty 1, or increments the existing line by 1.
// A repeat add ignores any price or discount change in the new call: the
// first-added price wins for the lifetime of the line.
func (s *CartService) AddItem(ctx context.Context, req *models.AddItemRequest) ([]models.CartItem, error) {
	items, err := s.Items(ctx)
	if err != nil {
		return nil, err
	}

	found := false

	for i := range items {
		if items[i].ID == req.ID {
			items[i].Qty++
			found = true

			break
		}
	}

	if !found {
		items = append(items, models.CartItem{
			ID:            req.ID,
			Title:         req.Title,
			Price:         req.Price,
			OriginalPrice: req.OriginalPrice,
			Discount:      req.Discount,
			Image:         req.Image,
			Qty:           1,
		})
	}

	if err := writeList(ctx, s.store, cartKey, items); err != nil {
		return nil, err
	}

	return items, nil
}

func (s *CartService) RemoveItem(ctx context.Context, id string) ([]models.CartItem, error) {
	items, err := s.Items(ctx)
	if err != nil {
		return nil, err
	}

	kept := make([]models.CartItem, 0, len(items))

	for _, item := range items {
		if item.ID != id {
			kept = append(kept, item)
		}
	}

	if err := writeList(ctx, s.store, cartKey, kept); err != nil {
		return nil, err
	}

	return kept, nil
}

// UpdateQty sets the quantity of a line. A qty of zero or less is defined as
// removal; a qty of zero is never persisted.
func (s *CartService) UpdateQty(ctx context.Context, id string, qty int) ([]models.CartItem, error) {
	if qty <= 0 {
		return s.RemoveItem(ctx, id)
	}

	items, err := s.Items(ctx)
	if err != nil {
		return nil, err
	}

	for i := range items {
		if items[i].ID == id {
			items[i].Qty = qty

			break
		}
	}

	if err := writeList(ctx, s.store, cartKey, items); err != nil {
		return nil, err
	}

	return items, nil
}

func (s *CartService) Clear(ctx context.Context) error {
	return writeList(ctx, s.store, cartKey, []models.CartItem{})
}

// Total sums price times quantity over the current items. Each item's unit
// price already has its discount applied.
func (s *CartService) Total(ctx context.Context) (float64, error) {
	items, err := s.Items(ctx)
	if err != nil {
		return 0, err
	}

	var total float64

	for _, item := range items {
		total += item.Price * float64(item.Qty)
	}

	return total, nil
}
