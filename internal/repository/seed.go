package repository

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/iliyamo/cinema-pos/internal/model"
	"github.com/iliyamo/cinema-pos/internal/store"
)

// Seat pre-seeding fractions applied to every fresh grid.
const (
	seedReservedFraction = 0.025
	seedSoldFraction     = 0.05 // cumulative: [0.025, 0.05) becomes sold
)

var defaultShowTimes = []string{"14:00", "17:00", "20:00", "22:30"}

// DefaultMovies is the billboard loaded on first run.
func DefaultMovies() []model.Movie {
	return []model.Movie{
		{ID: 1, Title: "Deadpool & Wolverine", Duration: 128, Rating: "R", Genre: "Acción, Comedia", Format: "2D",
			Image: "https://images.unsplash.com/photo-1635863138275-d9b33299680b?w=500&q=80",
			Description: "El mercenario bocazas se une con el mutante más gruñón del universo Marvel."},
		{ID: 2, Title: "Dune: Part Two", Duration: 166, Rating: "PG-13", Genre: "Ciencia Ficción, Aventura", Format: "3D",
			Image: "https://images.unsplash.com/photo-1506744038136-46273834b3fb?w=500&q=80",
			Description: "Paul Atreides se une a Chani y los Fremen en su guerra de venganza contra los conspiradores."},
		{ID: 3, Title: "Inside Out 2", Duration: 96, Rating: "PG", Genre: "Animación, Familiar", Format: "3D",
			Image: "https://images.unsplash.com/photo-1516450360452-9312f5e86fc7?w=500&q=80",
			Description: "Riley entra en la adolescencia y nuevas emociones llegan a la sede central."},
		{ID: 4, Title: "Venom: The Last Dance", Duration: 110, Rating: "PG-13", Genre: "Acción, Ciencia Ficción", Format: "2D",
			Image: "https://images.unsplash.com/photo-1536440136628-849c177e76a1?w=500&q=80",
			Description: "Eddie y Venom están huyendo. Perseguidos por ambos mundos y con la red cerrándose."},
		{ID: 5, Title: "Moana 2", Duration: 100, Rating: "PG", Genre: "Animación, Aventura", Format: "3D",
			Image: "https://images.unsplash.com/photo-1559827260-dc66d52bef19?w=500&q=80",
			Description: "Moana recibe un llamado inesperado de sus antepasados y debe viajar a los mares lejanos."},
		{ID: 6, Title: "Mufasa: The Lion King", Duration: 118, Rating: "PG", Genre: "Animación, Drama", Format: "3D",
			Image: "https://images.unsplash.com/photo-1542652694-40abf526446e?w=500&q=80",
			Description: "La historia del origen de Mufasa, el Rey León."},
		{ID: 7, Title: "Kung Fu Panda 4", Duration: 94, Rating: "PG", Genre: "Animación, Comedia", Format: "2D",
			Image: "https://images.unsplash.com/photo-1528360983277-13d401cdc186?w=500&q=80",
			Description: "Po debe entrenar a un nuevo Guerrero Dragón mientras enfrenta una nueva amenaza."},
		{ID: 8, Title: "Sonic the Hedgehog 3", Duration: 109, Rating: "PG", Genre: "Acción, Aventura", Format: "2D",
			Image: "https://images.unsplash.com/photo-1614680376593-902f74cf0d41?w=500&q=80",
			Description: "Sonic, Knuckles y Tails se reúnen contra un adversario poderoso."},
	}
}

// DefaultRooms returns the two standard rooms and the VIP room.
func DefaultRooms() []model.Room {
	return []model.Room{
		{ID: 1, Name: "Sala 1", Capacity: 160, Type: model.RoomStandard},
		{ID: 2, Name: "Sala 2", Capacity: 160, Type: model.RoomStandard},
		{ID: 3, Name: "Sala VIP", Capacity: 80, Type: model.RoomVIP},
	}
}

// DefaultCategories returns the concession categories.
func DefaultCategories() []model.Category {
	return []model.Category{
		{ID: 1, Name: "Combos"},
		{ID: 2, Name: "Snacks"},
		{ID: 3, Name: "Bebidas"},
		{ID: 4, Name: "Palomitas"},
		{ID: 5, Name: "Dulces"},
	}
}

type productFamily struct {
	categoryID uint64
	skuPrefix  string
	count      int
	names      []string
	suffix     func(i, n int) string
	basePrice  int64 // whole currency units
	priceStep  int64
	baseStock  int
	stockMod   int
}

func variant(label string, threshold int) func(i, n int) string {
	return func(i, n int) string {
		if i < threshold {
			return ""
		}
		return fmt.Sprintf(" %s %d", label, i/n+1)
	}
}

var productFamilies = []productFamily{
	{1, "CMB", 30, []string{"Mega Combo", "Combo Familiar", "Combo Pareja", "Combo Individual", "Combo XL"},
		func(i, n int) string { return fmt.Sprintf(" %d", i/n+1) }, 100, 10, 30, 20},
	{2, "SNK", 50, []string{"Nachos", "Hot Dog", "Pizza", "Pretzel", "Alitas", "Nuggets", "Papas", "Dedos de Queso"},
		variant("Variedad", 8), 40, 5, 20, 30},
	{3, "BEB", 50, []string{"Coca-Cola", "Pepsi", "Sprite", "Fanta", "Dr Pepper", "Agua", "Jugo", "Té Helado"},
		func(i, _ int) string { return " " + []string{"Chica", "Mediana", "Grande", "Jumbo"}[i%4] }, 25, 3, 40, 25},
	{4, "POP", 30, []string{"Palomitas Chicas", "Palomitas Medianas", "Palomitas Grandes", "Palomitas Jumbo", "Palomitas Caramelo"},
		variant("Sabor", 5), 50, 8, 50, 20},
	{5, "DUL", 40, []string{"M&Ms", "Skittles", "Snickers", "Kit Kat", "Twix", "Reese's", "Milky Way", "Gummy Bears"},
		variant("Pack", 8), 20, 4, 35, 15},
}

// DefaultProducts builds the 200 product concession catalog.  The output
// is fully deterministic.
func DefaultProducts() []model.Product {
	products := make([]model.Product, 0, 200)
	var id uint64 = 1
	for _, f := range productFamilies {
		for i := 0; i < f.count; i++ {
			n := len(f.names)
			products = append(products, model.Product{
				ID:         id,
				SKU:        fmt.Sprintf("%s%03d", f.skuPrefix, i+1),
				Name:       f.names[i%n] + f.suffix(i, n),
				PriceCents: (f.basePrice + int64(i)*f.priceStep) * 100,
				Stock:      f.baseStock + i%f.stockMod,
				CategoryID: f.categoryID,
			})
			id++
		}
	}
	return products
}

// DefaultShowtimes schedules every movie on three consecutive days starting
// at today, four times a day.  Rooms rotate by time slot and the price
// grows by 20 per slot.
func DefaultShowtimes(movies []model.Movie, rooms []model.Room, today time.Time) []model.Showtime {
	showtimes := make([]model.Showtime, 0, len(movies)*3*len(defaultShowTimes))
	if len(rooms) == 0 {
		return showtimes
	}
	for _, m := range movies {
		for d := 0; d < 3; d++ {
			date := today.AddDate(0, 0, d).Format("2006-01-02")
			for slot, tm := range defaultShowTimes {
				room := rooms[slot%len(rooms)]
				showtimes = append(showtimes, model.Showtime{
					ID:         uint64(len(showtimes) + 1),
					MovieID:    m.ID,
					RoomID:     room.ID,
					Date:       date,
					Time:       tm,
					PriceCents: int64(100+slot*20) * 100,
					IsVipOnly:  room.IsVIP(),
				})
			}
		}
	}
	return showtimes
}

// GenerateGrid builds the full 10x16 grid for one showtime.  Each seat
// draws once from rng: below 2.5% it starts reserved, below 5% sold.
// Remaining seats in rows I and J are vip when the room is a VIP room.
func GenerateGrid(rng *rand.Rand, room model.Room) []model.Seat {
	grid := make([]model.Seat, 0, model.GridSize)
	for _, r := range model.GridRows {
		row := string(r)
		vipRow := room.IsVIP() && isVIPRow(row)
		for num := 1; num <= model.GridColumns; num++ {
			status := model.SeatAvailable
			switch x := rng.Float64(); {
			case x < seedReservedFraction:
				status = model.SeatReserved
			case x < seedSoldFraction:
				status = model.SeatSold
			case vipRow:
				status = model.SeatVIP
			}
			grid = append(grid, model.Seat{Row: row, Number: num, Status: status})
		}
	}
	return grid
}

func isVIPRow(row string) bool {
	for _, v := range model.VIPRows {
		if v == row {
			return true
		}
	}
	return false
}

// Bootstrap seeds every empty catalog slot.  Slots that already hold data
// are left alone, except that movies missing a format are backfilled from
// the default billboard (or "2D").  Seat grids are generated from rng so
// tests can pass a fixed seed.
func Bootstrap(ctx context.Context, s store.Store, namespace string, rng *rand.Rand, today time.Time) error {
	b := slots{s: s, ns: namespace}
	catalog := NewCatalogRepo(s, namespace)

	movies, err := bootstrapMovies(ctx, b, catalog)
	if err != nil {
		return err
	}
	if err := seedIfMissing(ctx, b, store.SlotProducts, DefaultProducts()); err != nil {
		return err
	}
	if err := seedIfMissing(ctx, b, store.SlotCategories, DefaultCategories()); err != nil {
		return err
	}
	if err := seedIfMissing(ctx, b, store.SlotRooms, DefaultRooms()); err != nil {
		return err
	}
	rooms, err := catalog.Rooms(ctx)
	if err != nil {
		return err
	}
	if err := seedIfMissing(ctx, b, store.SlotShowtimes, DefaultShowtimes(movies, rooms, today)); err != nil {
		return err
	}

	ok, err := b.exists(ctx, store.SlotSeats)
	if err != nil {
		return err
	}
	if !ok {
		showtimes, err := catalog.Showtimes(ctx)
		if err != nil {
			return err
		}
		grids := seatGrids{}
		for _, st := range showtimes {
			room, err := catalog.RoomByID(ctx, st.RoomID)
			if err != nil && !errors.Is(err, ErrNotFound) {
				return err
			}
			grids[strconv.FormatUint(st.ID, 10)] = GenerateGrid(rng, room)
		}
		if err := catalog.saveAllSeats(ctx, grids); err != nil {
			return err
		}
	}

	return seedIfMissing(ctx, b, store.SlotSales, []model.Sale{})
}

func bootstrapMovies(ctx context.Context, b slots, catalog *CatalogRepo) ([]model.Movie, error) {
	defaults := DefaultMovies()
	ok, err := b.exists(ctx, store.SlotMovies)
	if err != nil {
		return nil, err
	}
	if !ok {
		return defaults, catalog.SaveMovies(ctx, defaults)
	}
	movies, err := catalog.Movies(ctx)
	if err != nil {
		return nil, err
	}
	changed := false
	for i := range movies {
		if movies[i].Format != "" {
			continue
		}
		movies[i].Format = "2D"
		for _, d := range defaults {
			if d.ID == movies[i].ID {
				movies[i].Format = d.Format
			}
		}
		changed = true
	}
	if changed {
		return movies, catalog.SaveMovies(ctx, movies)
	}
	return movies, nil
}

func seedIfMissing(ctx context.Context, b slots, slot store.Slot, v any) error {
	ok, err := b.exists(ctx, slot)
	if err != nil || ok {
		return err
	}
	return b.write(ctx, slot, v)
}
