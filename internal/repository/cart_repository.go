package repository

import (
	"context"

	"github.com/iliyamo/cinema-pos/internal/model"
	"github.com/iliyamo/cinema-pos/internal/store"
)

// CartRepo persists the active cart of the session.
type CartRepo struct {
	slots
}

func NewCartRepo(s store.Store, namespace string) *CartRepo {
	return &CartRepo{slots: slots{s: s, ns: namespace}}
}

// Load returns the stored lines; a missing cart is an empty cart.
func (r *CartRepo) Load(ctx context.Context) ([]model.CartItem, error) {
	out := []model.CartItem{}
	_, err := r.read(ctx, store.SlotCart, &out)
	return out, err
}

func (r *CartRepo) Save(ctx context.Context, items []model.CartItem) error {
	if items == nil {
		items = []model.CartItem{}
	}
	return r.write(ctx, store.SlotCart, items)
}

// Clear removes the cart slot entirely.
func (r *CartRepo) Clear(ctx context.Context) error {
	return r.remove(ctx, store.SlotCart)
}
