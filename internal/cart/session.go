package cart

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/iliyamo/cinema-pos/internal/ledger"
	"github.com/iliyamo/cinema-pos/internal/model"
)

// Store persists the customer cart.  repository.CartRepo satisfies it.
type Store interface {
	Load(ctx context.Context) ([]model.CartItem, error)
	Save(ctx context.Context, items []model.CartItem) error
	Clear(ctx context.Context) error
}

// Recorder is the part of the sale ledger checkout needs.
type Recorder interface {
	Record(ctx context.Context, d ledger.Draft) (model.Sale, error)
}

// Publisher announces completed sales.  Failures never undo a sale.
type Publisher interface {
	PublishSaleCompleted(ctx context.Context, sale model.Sale) error
}

// checkout records c as a sale.  The caller clears its cart only after
// this returns without error.
func checkout(ctx context.Context, c Cart, identity string, tax TaxPolicy, rec Recorder) (model.Sale, error) {
	if c.Len() == 0 {
		return model.Sale{}, ErrEmptyCart
	}
	t := c.Totals(tax)
	return rec.Record(ctx, ledger.Draft{
		Identity:      identity,
		Items:         c.Items(),
		SubtotalCents: t.SubtotalCents,
		TaxCents:      t.TaxCents,
		TotalCents:    t.TotalCents,
	})
}

func publish(ctx context.Context, pub Publisher, log *zap.Logger, sale model.Sale) {
	if pub == nil {
		return
	}
	if err := pub.PublishSaleCompleted(ctx, sale); err != nil {
		log.Warn("publish sale completed failed", zap.String("sale_id", sale.ID), zap.Error(err))
	}
}

// View is a cart with its totals, as shown to the user.
type View struct {
	Items  []model.CartItem `json:"items"`
	Totals Totals           `json:"totals"`
}

// Session is the persisted customer cart.  Every method loads the cart,
// applies one change and writes it back under a single lock.
type Session struct {
	mu    sync.Mutex
	store Store
	rec   Recorder
	tax   TaxPolicy
	pub   Publisher
	log   *zap.Logger
}

// NewSession wires the customer cart.  pub may be nil.
func NewSession(store Store, rec Recorder, tax TaxPolicy, pub Publisher, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	return &Session{store: store, rec: rec, tax: tax, pub: pub, log: log}
}

func (s *Session) load(ctx context.Context) (Cart, error) {
	items, err := s.store.Load(ctx)
	if err != nil {
		return Cart{}, err
	}
	return Cart{items: items}, nil
}

func (s *Session) view(c Cart) View {
	return View{Items: c.Items(), Totals: c.Totals(s.tax)}
}

// mutate runs fn on the stored cart and saves the result.  A rejected
// change leaves the store untouched.
func (s *Session) mutate(ctx context.Context, fn func(Cart) (Cart, error)) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.load(ctx)
	if err != nil {
		return View{}, err
	}
	next, err := fn(c)
	if err != nil {
		return s.view(c), err
	}
	if err := s.store.Save(ctx, next.items); err != nil {
		return s.view(c), err
	}
	return s.view(next), nil
}

func (s *Session) View(ctx context.Context) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, err := s.load(ctx)
	if err != nil {
		return View{}, err
	}
	return s.view(c), nil
}

func (s *Session) AddProduct(ctx context.Context, p model.Product, qty int) (View, error) {
	return s.mutate(ctx, func(c Cart) (Cart, error) { return c.AddProduct(p, qty) })
}

func (s *Session) AddTicket(ctx context.Context, item model.CartItem) (View, error) {
	return s.mutate(ctx, func(c Cart) (Cart, error) { return c.AddTicket(item) })
}

// AddTickets appends every line or none of them.  It makes Session a
// seatmap.TicketSink.
func (s *Session) AddTickets(ctx context.Context, items []model.CartItem) error {
	_, err := s.mutate(ctx, func(c Cart) (Cart, error) {
		var err error
		for _, it := range items {
			if c, err = c.AddTicket(it); err != nil {
				return c, err
			}
		}
		return c, nil
	})
	return err
}

func (s *Session) RemoveLine(ctx context.Context, index int) (View, error) {
	return s.mutate(ctx, func(c Cart) (Cart, error) { return c.RemoveLine(index) })
}

func (s *Session) UpdateQuantity(ctx context.Context, index, qty int) (View, error) {
	return s.mutate(ctx, func(c Cart) (Cart, error) { return c.UpdateQuantity(index, qty) })
}

// Clear drops every line.  Reserved seats stay reserved.
func (s *Session) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Clear(ctx)
}

// Checkout records the cart as a sale for identity and then clears it.
// If recording fails the cart is kept as is.  If only the clear fails the
// sale is returned together with ErrCartNotCleared.
func (s *Session) Checkout(ctx context.Context, identity string) (model.Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.load(ctx)
	if err != nil {
		return model.Sale{}, err
	}
	sale, err := checkout(ctx, c, identity, s.tax, s.rec)
	if err != nil {
		return model.Sale{}, err
	}
	if err := s.store.Clear(ctx); err != nil {
		// the sale stands; a stale cart is the lesser harm
		s.log.Error("clear cart after checkout failed", zap.String("sale_id", sale.ID), zap.Error(err))
		publish(ctx, s.pub, s.log, sale)
		return sale, fmt.Errorf("%w: %v", ErrCartNotCleared, err)
	}
	publish(ctx, s.pub, s.log, sale)
	return sale, nil
}
