package repository

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/iliyamo/cinema-pos/internal/model"
	"github.com/iliyamo/cinema-pos/internal/store"
)

// CatalogRepo gives typed read access to the catalog slots and the seat
// grids.  The Save* methods are the write-through used by the admin
// catalog screens; the ticketing core only ever writes seat grids.
type CatalogRepo struct {
	slots

	// seatsMu guards the read-modify-write of the shared seats slot.
	seatsMu sync.Mutex
}

// NewCatalogRepo binds a CatalogRepo to a store namespace.
func NewCatalogRepo(s store.Store, namespace string) *CatalogRepo {
	return &CatalogRepo{slots: slots{s: s, ns: namespace}}
}

// Movies returns the whole movie catalog; an empty slot yields an empty slice.
func (r *CatalogRepo) Movies(ctx context.Context) ([]model.Movie, error) {
	out := []model.Movie{}
	_, err := r.read(ctx, store.SlotMovies, &out)
	return out, err
}

// MovieByID returns ErrNotFound when no movie has the id.
func (r *CatalogRepo) MovieByID(ctx context.Context, id uint64) (model.Movie, error) {
	movies, err := r.Movies(ctx)
	if err != nil {
		return model.Movie{}, err
	}
	for _, m := range movies {
		if m.ID == id {
			return m, nil
		}
	}
	return model.Movie{}, ErrNotFound
}

func (r *CatalogRepo) SaveMovies(ctx context.Context, movies []model.Movie) error {
	return r.write(ctx, store.SlotMovies, movies)
}

func (r *CatalogRepo) Rooms(ctx context.Context) ([]model.Room, error) {
	out := []model.Room{}
	_, err := r.read(ctx, store.SlotRooms, &out)
	return out, err
}

func (r *CatalogRepo) RoomByID(ctx context.Context, id uint64) (model.Room, error) {
	rooms, err := r.Rooms(ctx)
	if err != nil {
		return model.Room{}, err
	}
	for _, rm := range rooms {
		if rm.ID == id {
			return rm, nil
		}
	}
	return model.Room{}, ErrNotFound
}

func (r *CatalogRepo) SaveRooms(ctx context.Context, rooms []model.Room) error {
	return r.write(ctx, store.SlotRooms, rooms)
}

func (r *CatalogRepo) Showtimes(ctx context.Context) ([]model.Showtime, error) {
	out := []model.Showtime{}
	_, err := r.read(ctx, store.SlotShowtimes, &out)
	return out, err
}

func (r *CatalogRepo) ShowtimeByID(ctx context.Context, id uint64) (model.Showtime, error) {
	all, err := r.Showtimes(ctx)
	if err != nil {
		return model.Showtime{}, err
	}
	for _, st := range all {
		if st.ID == id {
			return st, nil
		}
	}
	return model.Showtime{}, ErrNotFound
}

// ShowtimesByMovie returns a movie's showtimes ordered by date then time.
func (r *CatalogRepo) ShowtimesByMovie(ctx context.Context, movieID uint64) ([]model.Showtime, error) {
	all, err := r.Showtimes(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.Showtime, 0)
	for _, st := range all {
		if st.MovieID == movieID {
			out = append(out, st)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Time < out[j].Time
	})
	return out, nil
}

// DateGroup is one day of showtimes, as the billboard lists them.
type DateGroup struct {
	Date      string           `json:"date"`
	Showtimes []model.Showtime `json:"showtimes"`
}

// GroupByDate buckets already sorted showtimes by their Date field,
// keeping the input order within and across days.
func GroupByDate(showtimes []model.Showtime) []DateGroup {
	groups := make([]DateGroup, 0)
	index := make(map[string]int)
	for _, st := range showtimes {
		i, ok := index[st.Date]
		if !ok {
			i = len(groups)
			index[st.Date] = i
			groups = append(groups, DateGroup{Date: st.Date})
		}
		groups[i].Showtimes = append(groups[i].Showtimes, st)
	}
	return groups
}

func (r *CatalogRepo) SaveShowtimes(ctx context.Context, showtimes []model.Showtime) error {
	return r.write(ctx, store.SlotShowtimes, showtimes)
}

// IsVipOnly reports whether selection for the showtime is restricted to
// VIP seats.  The room type decides; the showtime's own flag is only a
// denormalized copy.  An unknown room is treated as standard.
func (r *CatalogRepo) IsVipOnly(ctx context.Context, st model.Showtime) (bool, error) {
	room, err := r.RoomByID(ctx, st.RoomID)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return room.IsVIP(), nil
}

func (r *CatalogRepo) Products(ctx context.Context) ([]model.Product, error) {
	out := []model.Product{}
	_, err := r.read(ctx, store.SlotProducts, &out)
	return out, err
}

func (r *CatalogRepo) ProductByID(ctx context.Context, id uint64) (model.Product, error) {
	products, err := r.Products(ctx)
	if err != nil {
		return model.Product{}, err
	}
	for _, p := range products {
		if p.ID == id {
			return p, nil
		}
	}
	return model.Product{}, ErrNotFound
}

// ProductsByCategory filters by category; categoryID 0 returns everything.
func (r *CatalogRepo) ProductsByCategory(ctx context.Context, categoryID uint64) ([]model.Product, error) {
	products, err := r.Products(ctx)
	if err != nil || categoryID == 0 {
		return products, err
	}
	out := make([]model.Product, 0)
	for _, p := range products {
		if p.CategoryID == categoryID {
			out = append(out, p)
		}
	}
	return out, nil
}

// SearchProducts matches query against name or SKU, case-insensitively.
// An empty query matches every product.  limit <= 0 means no limit.
func (r *CatalogRepo) SearchProducts(ctx context.Context, query string, limit int) ([]model.Product, error) {
	products, err := r.Products(ctx)
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]model.Product, 0)
	for _, p := range products {
		if q == "" || strings.Contains(strings.ToLower(p.Name), q) || strings.Contains(strings.ToLower(p.SKU), q) {
			out = append(out, p)
			if limit > 0 && len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (r *CatalogRepo) SaveProducts(ctx context.Context, products []model.Product) error {
	return r.write(ctx, store.SlotProducts, products)
}

func (r *CatalogRepo) Categories(ctx context.Context) ([]model.Category, error) {
	out := []model.Category{}
	_, err := r.read(ctx, store.SlotCategories, &out)
	return out, err
}

// CategoryName returns the category's name or "Sin categoría".
func CategoryName(categories []model.Category, id uint64) string {
	for _, c := range categories {
		if c.ID == id {
			return c.Name
		}
	}
	return "Sin categoría"
}

// seatGrids is the shape of the seats slot: showtime id -> grid.
type seatGrids map[string][]model.Seat

func (r *CatalogRepo) grids(ctx context.Context) (seatGrids, error) {
	all := seatGrids{}
	if _, err := r.read(ctx, store.SlotSeats, &all); err != nil {
		return nil, err
	}
	return all, nil
}

// Seats returns the stored grid for a showtime, or an empty slice when
// no grid exists.  It never validates that the showtime exists.
func (r *CatalogRepo) Seats(ctx context.Context, showtimeID uint64) ([]model.Seat, error) {
	all, err := r.grids(ctx)
	if err != nil {
		return nil, err
	}
	grid, ok := all[strconv.FormatUint(showtimeID, 10)]
	if !ok {
		return []model.Seat{}, nil
	}
	return grid, nil
}

// SaveSeats replaces one showtime's grid, leaving the others untouched.
func (r *CatalogRepo) SaveSeats(ctx context.Context, showtimeID uint64, seats []model.Seat) error {
	r.seatsMu.Lock()
	defer r.seatsMu.Unlock()
	all, err := r.grids(ctx)
	if err != nil {
		return err
	}
	all[strconv.FormatUint(showtimeID, 10)] = seats
	return r.write(ctx, store.SlotSeats, all)
}

func (r *CatalogRepo) saveAllSeats(ctx context.Context, all seatGrids) error {
	r.seatsMu.Lock()
	defer r.seatsMu.Unlock()
	return r.write(ctx, store.SlotSeats, all)
}
