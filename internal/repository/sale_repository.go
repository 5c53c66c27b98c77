package repository

import (
	"context"

	"github.com/iliyamo/cinema-pos/internal/model"
	"github.com/iliyamo/cinema-pos/internal/store"
)

// SaleRepo reads and writes the sales slot as one list.  Append-only
// semantics are enforced by the ledger package, not here.
type SaleRepo struct {
	slots
}

func NewSaleRepo(s store.Store, namespace string) *SaleRepo {
	return &SaleRepo{slots: slots{s: s, ns: namespace}}
}

// All returns every stored sale in insertion order.
func (r *SaleRepo) All(ctx context.Context) ([]model.Sale, error) {
	out := []model.Sale{}
	_, err := r.read(ctx, store.SlotSales, &out)
	return out, err
}

// SaveAll overwrites the list.
func (r *SaleRepo) SaveAll(ctx context.Context, sales []model.Sale) error {
	if sales == nil {
		sales = []model.Sale{}
	}
	return r.write(ctx, store.SlotSales, sales)
}
