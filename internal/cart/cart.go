// Package cart holds pending purchase lines and turns them into sales.
//
// Cart is an immutable value: every mutation returns a new Cart and leaves
// the receiver untouched, so a rejected operation is always a no-op.
// Session persists the customer cart in the store; Register keeps one
// in-memory cart per seller at the box office.
package cart

import (
	"errors"
	"fmt"

	"github.com/iliyamo/cinema-pos/internal/model"
)

// Validation errors.
var (
	ErrEmptyCart       = errors.New("cart is empty")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrLineOutOfRange  = errors.New("cart line index out of range")
	ErrNotAdjustable   = errors.New("only product lines have an adjustable quantity")
)

// ErrInvalidItem is returned when a malformed line is handed to the cart.
// Lines are built by the seat map engine or model constructors, so this is
// a programming error.
var ErrInvalidItem = errors.New("malformed cart item")

// ErrCartNotCleared accompanies a recorded sale whose cart could not be
// emptied afterwards.  The sale is valid and must not be retried.
var ErrCartNotCleared = errors.New("sale recorded but cart not cleared")

// IsValidation reports whether err should be shown to the user as a
// rejected action.
func IsValidation(err error) bool {
	return errors.Is(err, ErrEmptyCart) || errors.Is(err, ErrInvalidQuantity) ||
		errors.Is(err, ErrLineOutOfRange) || errors.Is(err, ErrNotAdjustable)
}

// Cart is an ordered list of lines.  The zero value is an empty cart.
type Cart struct {
	items []model.CartItem
}

// New copies items into a Cart.
func New(items []model.CartItem) Cart {
	return Cart{items: cloneItems(items)}
}

func cloneItems(items []model.CartItem) []model.CartItem {
	out := make([]model.CartItem, len(items))
	for i, it := range items {
		out[i] = it.Clone()
	}
	return out
}

// Items returns a copy of the lines.
func (c Cart) Items() []model.CartItem { return cloneItems(c.items) }

func (c Cart) Len() int { return len(c.items) }

// AddProduct merges into an existing line for the same product, otherwise
// appends a new line.
func (c Cart) AddProduct(p model.Product, qty int) (Cart, error) {
	if qty < 1 {
		return c, ErrInvalidQuantity
	}
	items := cloneItems(c.items)
	for i := range items {
		if items[i].Kind == model.KindProduct && items[i].Product != nil && items[i].Product.ProductID == p.ID {
			items[i].Product.Quantity += qty
			return Cart{items: items}, nil
		}
	}
	return Cart{items: append(items, model.NewProductItem(p, qty))}, nil
}

// AddTicket always appends; tickets never merge.
func (c Cart) AddTicket(item model.CartItem) (Cart, error) {
	if item.Kind != model.KindTicket || item.Ticket == nil || item.Product != nil {
		return c, fmt.Errorf("%w: want ticket, got %q", ErrInvalidItem, item.Kind)
	}
	items := cloneItems(c.items)
	return Cart{items: append(items, item.Clone())}, nil
}

func (c Cart) RemoveLine(index int) (Cart, error) {
	if index < 0 || index >= len(c.items) {
		return c, fmt.Errorf("%w: %d", ErrLineOutOfRange, index)
	}
	items := make([]model.CartItem, 0, len(c.items)-1)
	for i, it := range c.items {
		if i != index {
			items = append(items, it.Clone())
		}
	}
	return Cart{items: items}, nil
}

// UpdateQuantity sets a product line's quantity.  Ticket lines are fixed
// at one admission.
func (c Cart) UpdateQuantity(index, qty int) (Cart, error) {
	if index < 0 || index >= len(c.items) {
		return c, fmt.Errorf("%w: %d", ErrLineOutOfRange, index)
	}
	if c.items[index].Kind != model.KindProduct || c.items[index].Product == nil {
		return c, ErrNotAdjustable
	}
	if qty < 1 {
		return c, ErrInvalidQuantity
	}
	items := cloneItems(c.items)
	items[index].Product.Quantity = qty
	return Cart{items: items}, nil
}

// Totals is recomputed from the lines on every call.
func (c Cart) Totals(p TaxPolicy) Totals {
	return p.Totals(c.items)
}
