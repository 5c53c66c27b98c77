package model

// ItemKind tags which payload a CartItem carries.
type ItemKind string

const (
	KindTicket  ItemKind = "ticket"
	KindProduct ItemKind = "product"
)

// TicketLine is the payload of a ticket item.  A ticket always stands for
// exactly one admission; Seat is empty for box office tickets sold at the
// register without a seat assignment.
type TicketLine struct {
	ShowtimeID uint64 `json:"showtimeId"`
	Seat       string `json:"seat,omitempty"`
}

// ProductLine is the payload of a product item.  Quantity is always >= 1.
type ProductLine struct {
	ProductID uint64 `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// CartItem is one line of a cart or of a completed sale.  Exactly one of
// Ticket and Product is set, matching Kind; use NewTicketItem and
// NewProductItem rather than building the struct by hand.
type CartItem struct {
	Kind           ItemKind     `json:"type"`
	Name           string       `json:"name"`
	UnitPriceCents int64        `json:"priceCents"`
	Ticket         *TicketLine  `json:"ticket,omitempty"`
	Product        *ProductLine `json:"product,omitempty"`
}

// NewTicketItem builds a ticket line for one seat of a showtime.
func NewTicketItem(name string, priceCents int64, showtimeID uint64, seat string) CartItem {
	return CartItem{
		Kind:           KindTicket,
		Name:           name,
		UnitPriceCents: priceCents,
		Ticket:         &TicketLine{ShowtimeID: showtimeID, Seat: seat},
	}
}

// NewProductItem builds a product line.
func NewProductItem(p Product, quantity int) CartItem {
	return CartItem{
		Kind:           KindProduct,
		Name:           p.Name,
		UnitPriceCents: p.PriceCents,
		Product:        &ProductLine{ProductID: p.ID, Quantity: quantity},
	}
}

// Quantity is 1 for tickets and the line quantity for products.
func (i CartItem) Quantity() int {
	if i.Kind == KindProduct && i.Product != nil {
		return i.Product.Quantity
	}
	return 1
}

// LineTotalCents is unit price times quantity.
func (i CartItem) LineTotalCents() int64 {
	return i.UnitPriceCents * int64(i.Quantity())
}

// Clone returns a deep copy so payload pointers are never shared between
// two carts.
func (i CartItem) Clone() CartItem {
	out := i
	if i.Ticket != nil {
		t := *i.Ticket
		out.Ticket = &t
	}
	if i.Product != nil {
		p := *i.Product
		out.Product = &p
	}
	return out
}
