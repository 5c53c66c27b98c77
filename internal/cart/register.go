package cart

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/iliyamo/cinema-pos/internal/model"
)

// RegisterCatalog resolves what a seller rings up.
type RegisterCatalog interface {
	ProductByID(ctx context.Context, id uint64) (model.Product, error)
	ShowtimeByID(ctx context.Context, id uint64) (model.Showtime, error)
	MovieByID(ctx context.Context, id uint64) (model.Movie, error)
	RoomByID(ctx context.Context, id uint64) (model.Room, error)
}

// Register is the box office point of sale.  Each seller has an
// independent cart that lives only in memory; it is lost on restart,
// which matches a physical register being cleared.
type Register struct {
	mu      sync.Mutex
	carts   map[string]Cart
	catalog RegisterCatalog
	rec     Recorder
	tax     TaxPolicy
	pub     Publisher
	log     *zap.Logger
}

func NewRegister(catalog RegisterCatalog, rec Recorder, tax TaxPolicy, pub Publisher, log *zap.Logger) *Register {
	if log == nil {
		log = zap.NewNop()
	}
	return &Register{
		carts:   make(map[string]Cart),
		catalog: catalog,
		rec:     rec,
		tax:     tax,
		pub:     pub,
		log:     log,
	}
}

func (r *Register) view(c Cart) View {
	return View{Items: c.Items(), Totals: c.Totals(r.tax)}
}

// View returns the seller's current cart.
func (r *Register) View(seller string) View {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.view(r.carts[seller])
}

func (r *Register) apply(seller string, fn func(Cart) (Cart, error)) (View, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := r.carts[seller]
	next, err := fn(c)
	if err != nil {
		return r.view(c), err
	}
	r.carts[seller] = next
	return r.view(next), nil
}

func (r *Register) AddProduct(ctx context.Context, seller string, productID uint64, qty int) (View, error) {
	p, err := r.catalog.ProductByID(ctx, productID)
	if err != nil {
		return r.View(seller), fmt.Errorf("product %d: %w", productID, err)
	}
	return r.apply(seller, func(c Cart) (Cart, error) { return c.AddProduct(p, qty) })
}

// AddShowtimeTicket sells one admission without a seat assignment.  The
// seat grid is not touched.
func (r *Register) AddShowtimeTicket(ctx context.Context, seller string, showtimeID uint64) (View, error) {
	st, err := r.catalog.ShowtimeByID(ctx, showtimeID)
	if err != nil {
		return r.View(seller), fmt.Errorf("showtime %d: %w", showtimeID, err)
	}
	movie, err := r.catalog.MovieByID(ctx, st.MovieID)
	if err != nil {
		return r.View(seller), fmt.Errorf("movie %d: %w", st.MovieID, err)
	}
	room, err := r.catalog.RoomByID(ctx, st.RoomID)
	if err != nil {
		return r.View(seller), fmt.Errorf("room %d: %w", st.RoomID, err)
	}
	name := fmt.Sprintf("%s - %s %s %s", movie.Title, room.Name, st.Date, st.Time)
	item := model.NewTicketItem(name, st.PriceCents, st.ID, "")
	return r.apply(seller, func(c Cart) (Cart, error) { return c.AddTicket(item) })
}

func (r *Register) RemoveLine(seller string, index int) (View, error) {
	return r.apply(seller, func(c Cart) (Cart, error) { return c.RemoveLine(index) })
}

func (r *Register) UpdateQuantity(seller string, index, qty int) (View, error) {
	return r.apply(seller, func(c Cart) (Cart, error) { return c.UpdateQuantity(index, qty) })
}

func (r *Register) Clear(seller string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.carts, seller)
}

// Checkout records the seller's cart and empties it.
func (r *Register) Checkout(ctx context.Context, seller string) (model.Sale, error) {
	r.mu.Lock()
	sale, err := checkout(ctx, r.carts[seller], seller, r.tax, r.rec)
	if err == nil {
		delete(r.carts, seller)
	}
	r.mu.Unlock()
	if err != nil {
		return model.Sale{}, err
	}
	publish(ctx, r.pub, r.log, sale)
	return sale, nil
}
