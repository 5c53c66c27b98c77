// Package store defines the key-value persistence seam used by every
// engine.  All application state (catalog, seat grids, the active cart,
// the sale ledger and the logged in profile) lives under a handful of
// named slots inside one namespace.  Backends only need to move opaque
// byte values in and out; encoding is the repository layer's job.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Slot names one logical value in the store.
type Slot string

const (
	SlotUser       Slot = "user"
	SlotMovies     Slot = "movies"
	SlotRooms      Slot = "rooms"
	SlotShowtimes  Slot = "showtimes"
	SlotProducts   Slot = "products"
	SlotCategories Slot = "categories"
	SlotSeats      Slot = "seats"
	SlotSales      Slot = "sales"
	SlotCart       Slot = "cart"
)

// ErrUnknownDriver is returned by Open when STORE_DRIVER names a backend
// that does not exist.
var ErrUnknownDriver = errors.New("unknown store driver")

// Store is a synchronous get/set/remove map keyed by string.  Get reports
// a missing key with ok=false and a nil error.
type Store interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
}

// Key builds the namespaced key for a slot, e.g. "cinema_seats".
func Key(namespace string, slot Slot) string {
	namespace = strings.TrimSpace(namespace)
	if namespace == "" {
		return string(slot)
	}
	return fmt.Sprintf("%s_%s", namespace, slot)
}
