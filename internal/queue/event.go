// Package queue defines message payloads exchanged over the message broker.
package queue

import "github.com/iliyamo/cinema-pos/internal/model"

// SalesQueueName is the durable queue sale events are routed to.
const SalesQueueName = "sales.completed"

// SaleCompletedEvent is published after a checkout has been recorded in
// the ledger and the cart cleared.  It carries enough for downstream
// consumers to log or aggregate without reading the store.
type SaleCompletedEvent struct {
	SaleID        string   `json:"sale_id"`
	Identity      string   `json:"identity"`
	Tickets       int      `json:"tickets"`
	ProductUnits  int      `json:"product_units"`
	Seats         []string `json:"seats"`
	SubtotalCents int64    `json:"subtotal_cents"`
	TaxCents      int64    `json:"tax_cents"`
	TotalCents    int64    `json:"total_cents"`
	CompletedAt   string   `json:"completed_at"`
}

// NewSaleCompletedEvent projects a sale onto its event.  Box office
// tickets have no seat and are counted but not listed.
func NewSaleCompletedEvent(s model.Sale) SaleCompletedEvent {
	seats := make([]string, 0)
	for _, it := range s.Items {
		if it.Kind == model.KindTicket && it.Ticket != nil && it.Ticket.Seat != "" {
			seats = append(seats, it.Ticket.Seat)
		}
	}
	return SaleCompletedEvent{
		SaleID:        s.ID,
		Identity:      s.Identity,
		Tickets:       s.TicketCount(),
		ProductUnits:  s.ProductUnits(),
		Seats:         seats,
		SubtotalCents: s.SubtotalCents,
		TaxCents:      s.TaxCents,
		TotalCents:    s.TotalCents,
		CompletedAt:   s.CreatedAt,
	}
}
