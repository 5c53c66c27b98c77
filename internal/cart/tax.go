package cart

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/cinema-pos/internal/model"
)

// Totals are in cents.  Total is always SubtotalCents + TaxCents.
type Totals struct {
	SubtotalCents int64 `json:"subtotalCents"`
	TaxCents      int64 `json:"taxCents"`
	TotalCents    int64 `json:"totalCents"`
}

// TaxPolicy applies a flat rate to the subtotal.
type TaxPolicy struct {
	rate decimal.Decimal
}

// DefaultTaxRate is the IVA rate charged on every sale.
const DefaultTaxRate = "0.16"

// NewTaxPolicy parses a decimal rate such as "0.16".
func NewTaxPolicy(rate string) (TaxPolicy, error) {
	d, err := decimal.NewFromString(rate)
	if err != nil {
		return TaxPolicy{}, fmt.Errorf("tax rate %q: %w", rate, err)
	}
	if d.IsNegative() {
		return TaxPolicy{}, fmt.Errorf("tax rate %q: must not be negative", rate)
	}
	return TaxPolicy{rate: d}, nil
}

// DefaultTaxPolicy charges DefaultTaxRate.
func DefaultTaxPolicy() TaxPolicy {
	return TaxPolicy{rate: decimal.RequireFromString(DefaultTaxRate)}
}

func (p TaxPolicy) Rate() decimal.Decimal { return p.rate }

// Tax rounds half up to the cent.
func (p TaxPolicy) Tax(subtotalCents int64) int64 {
	return decimal.NewFromInt(subtotalCents).Mul(p.rate).Round(0).IntPart()
}

func (p TaxPolicy) Totals(items []model.CartItem) Totals {
	var sub int64
	for _, it := range items {
		sub += it.LineTotalCents()
	}
	tax := p.Tax(sub)
	return Totals{SubtotalCents: sub, TaxCents: tax, TotalCents: sub + tax}
}

// FormatCents renders cents as "$1,234.56".
func FormatCents(cents int64) string {
	return "$" + addThousands(decimal.New(cents, -2).StringFixed(2))
}

func addThousands(s string) string {
	neg := len(s) > 0 && s[0] == '-'
	if neg {
		s = s[1:]
	}
	intPart, frac := s, ""
	for i := range s {
		if s[i] == '.' {
			intPart, frac = s[:i], s[i:]
			break
		}
	}
	out := make([]byte, 0, len(intPart)+len(intPart)/3)
	for i := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, intPart[i])
	}
	if neg {
		return "-" + string(out) + frac
	}
	return string(out) + frac
}
