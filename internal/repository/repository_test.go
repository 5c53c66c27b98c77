package repository

import (
	"context"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinema-pos/internal/model"
	"github.com/iliyamo/cinema-pos/internal/store"
)

var today = time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)

func bootstrapped(t *testing.T) (*store.MemoryStore, *CatalogRepo) {
	t.Helper()
	s := store.NewMemoryStore()
	require.NoError(t, Bootstrap(context.Background(), s, "cinema", rand.New(rand.NewSource(7)), today))
	return s, NewCatalogRepo(s, "cinema")
}

func TestDefaultProducts(t *testing.T) {
	products := DefaultProducts()
	require.Len(t, products, 200)

	skus := map[string]bool{}
	for i, p := range products {
		assert.Equal(t, uint64(i+1), p.ID)
		assert.False(t, skus[p.SKU], "duplicate sku %s", p.SKU)
		skus[p.SKU] = true
		assert.Positive(t, p.PriceCents)
	}

	assert.Equal(t, model.Product{ID: 1, SKU: "CMB001", Name: "Mega Combo", PriceCents: 10000, Stock: 30, CategoryID: 1}, products[0])
	assert.Equal(t, "Mega Combo 2", products[5].Name)
	assert.Equal(t, "Nachos", products[30].Name)
	assert.Equal(t, "SNK001", products[30].SKU)
	assert.Equal(t, "Nachos Variedad 2", products[38].Name)
	assert.Equal(t, "Coca-Cola Chica", products[80].Name)
	assert.Equal(t, DefaultProducts(), products)
}

func TestDefaultShowtimes(t *testing.T) {
	showtimes := DefaultShowtimes(DefaultMovies(), DefaultRooms(), today)
	require.Len(t, showtimes, 8*3*4)

	first := showtimes[0]
	assert.Equal(t, uint64(1), first.ID)
	assert.Equal(t, "2026-10-16", first.Date)
	assert.Equal(t, "14:00", first.Time)
	assert.Equal(t, int64(10000), first.PriceCents)
	assert.Equal(t, uint64(1), first.RoomID)

	vip := showtimes[2]
	assert.Equal(t, uint64(3), vip.RoomID)
	assert.True(t, vip.IsVipOnly)
	assert.Equal(t, int64(16000), showtimes[3].PriceCents)
	assert.Equal(t, "2026-10-18", showtimes[11].Date)

	rooms := DefaultRooms()
	for _, st := range showtimes {
		found := false
		for _, r := range rooms {
			found = found || r.ID == st.RoomID
		}
		assert.True(t, found, "showtime %d has unknown room %d", st.ID, st.RoomID)
	}

	assert.Empty(t, DefaultShowtimes(DefaultMovies(), nil, today))
}

func TestGenerateGrid(t *testing.T) {
	standard := DefaultRooms()[0]
	vipRoom := DefaultRooms()[2]

	grid := GenerateGrid(rand.New(rand.NewSource(1)), standard)
	require.Len(t, grid, model.GridSize)
	assert.Equal(t, model.Seat{Row: "A", Number: 1, Status: grid[0].Status}, grid[0])
	assert.Equal(t, "J", grid[len(grid)-1].Row)
	assert.Equal(t, 16, grid[len(grid)-1].Number)
	for _, s := range grid {
		assert.NotEqual(t, model.SeatVIP, s.Status)
	}

	vipGrid := GenerateGrid(rand.New(rand.NewSource(1)), vipRoom)
	vipSeats := 0
	for _, s := range vipGrid {
		if s.Status == model.SeatVIP {
			vipSeats++
			assert.Contains(t, []string{"I", "J"}, s.Row)
		}
		if s.Row == "I" || s.Row == "J" {
			assert.NotEqual(t, model.SeatAvailable, s.Status)
		}
	}
	assert.Positive(t, vipSeats)

	// same seed, same grid
	assert.Equal(t, vipGrid, GenerateGrid(rand.New(rand.NewSource(1)), vipRoom))
}

func TestBootstrapSeedsEverySlot(t *testing.T) {
	ctx := context.Background()
	s, c := bootstrapped(t)

	movies, err := c.Movies(ctx)
	require.NoError(t, err)
	assert.Len(t, movies, 8)

	products, err := c.Products(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 200)

	showtimes, err := c.Showtimes(ctx)
	require.NoError(t, err)
	require.Len(t, showtimes, 96)
	for _, st := range showtimes {
		seats, err := c.Seats(ctx, st.ID)
		require.NoError(t, err)
		assert.Len(t, seats, model.GridSize)
	}

	sales, err := NewSaleRepo(s, "cinema").All(ctx)
	require.NoError(t, err)
	assert.Empty(t, sales)
}

func TestBootstrapIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s, c := bootstrapped(t)

	grid, err := c.Seats(ctx, 1)
	require.NoError(t, err)
	grid[0].Status = model.SeatSold
	require.NoError(t, c.SaveSeats(ctx, 1, grid))

	require.NoError(t, Bootstrap(ctx, s, "cinema", rand.New(rand.NewSource(99)), today.AddDate(0, 0, 5)))

	again, err := c.Seats(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, grid, again)

	st, err := c.ShowtimeByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "2026-10-16", st.Date)
}

func TestBootstrapBackfillsFormat(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	c := NewCatalogRepo(s, "cinema")
	require.NoError(t, c.SaveMovies(ctx, []model.Movie{
		{ID: 2, Title: "Dune: Part Two"},
		{ID: 99, Title: "Indie"},
		{ID: 3, Title: "Inside Out 2", Format: "4DX"},
	}))

	require.NoError(t, Bootstrap(ctx, s, "cinema", rand.New(rand.NewSource(1)), today))

	movies, err := c.Movies(ctx)
	require.NoError(t, err)
	require.Len(t, movies, 3)
	assert.Equal(t, "3D", movies[0].Format)
	assert.Equal(t, "2D", movies[1].Format)
	assert.Equal(t, "4DX", movies[2].Format)

	showtimes, err := c.Showtimes(ctx)
	require.NoError(t, err)
	assert.Len(t, showtimes, 3*3*4)
}

func TestSaveSeatsKeepsOtherGrids(t *testing.T) {
	ctx := context.Background()
	_, c := bootstrapped(t)

	other, err := c.Seats(ctx, 2)
	require.NoError(t, err)

	grid, err := c.Seats(ctx, 1)
	require.NoError(t, err)
	for i := range grid {
		grid[i].Status = model.SeatReserved
	}
	require.NoError(t, c.SaveSeats(ctx, 1, grid))

	after, err := c.Seats(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, other, after)

	missing, err := c.Seats(ctx, 4040)
	require.NoError(t, err)
	assert.Empty(t, missing)
}

func TestSaveSeatsConcurrentWritesAreNotLost(t *testing.T) {
	ctx := context.Background()
	c := NewCatalogRepo(store.NewMemoryStore(), "cinema")

	var wg sync.WaitGroup
	for id := uint64(1); id <= 20; id++ {
		wg.Add(1)
		go func(id uint64) {
			defer wg.Done()
			assert.NoError(t, c.SaveSeats(ctx, id, []model.Seat{{Row: "A", Number: int(id), Status: model.SeatReserved}}))
		}(id)
	}
	wg.Wait()

	for id := uint64(1); id <= 20; id++ {
		seats, err := c.Seats(ctx, id)
		require.NoError(t, err)
		require.Len(t, seats, 1, "showtime %d", id)
		assert.Equal(t, int(id), seats[0].Number)
	}
}

func TestLookupsByID(t *testing.T) {
	ctx := context.Background()
	_, c := bootstrapped(t)

	_, err := c.MovieByID(ctx, 404)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = c.ShowtimeByID(ctx, 404)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = c.ProductByID(ctx, 404)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = c.RoomByID(ctx, 404)
	assert.ErrorIs(t, err, ErrNotFound)

	p, err := c.ProductByID(ctx, 31)
	require.NoError(t, err)
	assert.Equal(t, "Nachos", p.Name)
}

func TestIsVipOnlyFollowsRoom(t *testing.T) {
	ctx := context.Background()
	_, c := bootstrapped(t)

	vip, err := c.IsVipOnly(ctx, model.Showtime{RoomID: 3})
	require.NoError(t, err)
	assert.True(t, vip)

	vip, err = c.IsVipOnly(ctx, model.Showtime{RoomID: 1, IsVipOnly: true})
	require.NoError(t, err)
	assert.False(t, vip)

	vip, err = c.IsVipOnly(ctx, model.Showtime{RoomID: 404})
	require.NoError(t, err)
	assert.False(t, vip)
}

func TestShowtimesByMovieGroupedByDate(t *testing.T) {
	ctx := context.Background()
	_, c := bootstrapped(t)

	showtimes, err := c.ShowtimesByMovie(ctx, 2)
	require.NoError(t, err)
	require.Len(t, showtimes, 12)

	groups := GroupByDate(showtimes)
	require.Len(t, groups, 3)
	assert.Equal(t, "2026-10-16", groups[0].Date)
	assert.Equal(t, "2026-10-18", groups[2].Date)
	for _, g := range groups {
		require.Len(t, g.Showtimes, 4)
		assert.Equal(t, "14:00", g.Showtimes[0].Time)
		assert.Equal(t, "22:30", g.Showtimes[3].Time)
	}

	assert.Empty(t, GroupByDate(nil))
}

func TestProductQueries(t *testing.T) {
	ctx := context.Background()
	_, c := bootstrapped(t)

	drinks, err := c.ProductsByCategory(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, drinks, 50)

	all, err := c.ProductsByCategory(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 200)

	found, err := c.SearchProducts(ctx, "  snk00", 0)
	require.NoError(t, err)
	assert.Len(t, found, 9)

	found, err = c.SearchProducts(ctx, "PALOMITAS", 3)
	require.NoError(t, err)
	assert.Len(t, found, 3)

	categories, err := c.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Bebidas", CategoryName(categories, 3))
	assert.Equal(t, "Sin categoría", CategoryName(categories, 77))
}

func TestCorruptSlot(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	require.NoError(t, s.Set(ctx, store.Key("cinema", store.SlotMovies), []byte("{oops")))

	_, err := NewCatalogRepo(s, "cinema").Movies(ctx)
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestCartAndUserRepos(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()

	carts := NewCartRepo(s, "cinema")
	items, err := carts.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)

	line := model.NewProductItem(model.Product{ID: 31, Name: "Nachos", PriceCents: 4000}, 2)
	require.NoError(t, carts.Save(ctx, []model.CartItem{line}))
	items, err = carts.Load(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity())

	require.NoError(t, carts.Clear(ctx))
	items, err = carts.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)

	users := NewUserRepo(s, "cinema")
	u, err := users.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, u)

	require.NoError(t, users.Save(ctx, model.UserProfile{Email: "ana@star.mx", Role: model.RoleCustomer}))
	u, err = users.Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "ana@star.mx", u.Email)
}
