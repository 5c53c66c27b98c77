package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/iliyamo/cinema-pos/internal/store"
)

// slots binds a store to a namespace and encodes values as JSON.
type slots struct {
	s  store.Store
	ns string
}

func (b slots) key(slot store.Slot) string { return store.Key(b.ns, slot) }

// read decodes the slot into out.  A missing slot leaves out untouched
// and reports false.
func (b slots) read(ctx context.Context, slot store.Slot, out any) (bool, error) {
	raw, ok, err := b.s.Get(ctx, b.key(slot))
	if err != nil {
		return false, fmt.Errorf("read %s: %w", slot, err)
	}
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("%w %s: %v", ErrCorrupt, slot, err)
	}
	return true, nil
}

func (b slots) write(ctx context.Context, slot store.Slot, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", slot, err)
	}
	if err := b.s.Set(ctx, b.key(slot), raw); err != nil {
		return fmt.Errorf("write %s: %w", slot, err)
	}
	return nil
}

func (b slots) exists(ctx context.Context, slot store.Slot) (bool, error) {
	_, ok, err := b.s.Get(ctx, b.key(slot))
	return ok, err
}

func (b slots) remove(ctx context.Context, slot store.Slot) error {
	if err := b.s.Remove(ctx, b.key(slot)); err != nil {
		return fmt.Errorf("remove %s: %w", slot, err)
	}
	return nil
}
