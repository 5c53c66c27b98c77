package model

// Sale is the immutable record of one completed checkout.
//
// Fields:
//  ID            – unique ledger id ("STAR-1718000000000").
//  Identity      – email of the customer or of the seller at the register.
//  Items         – lines as they were in the cart at checkout.
//  SubtotalCents – sum of line totals.
//  TaxCents      – subtotal times the tax rate, rounded to the cent.
//  TotalCents    – subtotal plus tax.
//  CreatedAt     – UTC time with milliseconds and a literal Z
//                  ("2026-10-16T18:30:00.000Z"); its date prefix drives
//                  "today's sales".
type Sale struct {
	ID            string     `json:"id"`
	Identity      string     `json:"sellerEmail"`
	Items         []CartItem `json:"items"`
	SubtotalCents int64      `json:"subtotalCents"`
	TaxCents      int64      `json:"taxCents"`
	TotalCents    int64      `json:"totalCents"`
	CreatedAt     string     `json:"createdAt"`
}

// TicketCount returns the number of ticket lines in the sale.
func (s Sale) TicketCount() int {
	n := 0
	for _, it := range s.Items {
		if it.Kind == KindTicket {
			n++
		}
	}
	return n
}

// ProductUnits returns the summed quantity of product lines.
func (s Sale) ProductUnits() int {
	n := 0
	for _, it := range s.Items {
		if it.Kind == KindProduct {
			n += it.Quantity()
		}
	}
	return n
}
