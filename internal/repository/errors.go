// Package repository provides typed access to the key-value store slots:
// the catalog (movies, rooms, showtimes, products, categories), the
// per-showtime seat grids, the active cart, the sale ledger list and the
// logged in profile.  The sentinel values below let higher layers tell a
// missing record apart from a storage failure.
package repository

import "errors"

// ErrNotFound is returned by lookups by id when no record matches.
// Handlers should translate this into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrCorrupt wraps decode failures of a stored slot.
var ErrCorrupt = errors.New("corrupt slot")
