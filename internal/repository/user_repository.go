package repository

import (
	"context"

	"github.com/iliyamo/cinema-pos/internal/model"
	"github.com/iliyamo/cinema-pos/internal/store"
)

// UserRepo stores the single logged in profile.
type UserRepo struct {
	slots
}

func NewUserRepo(s store.Store, namespace string) *UserRepo {
	return &UserRepo{slots: slots{s: s, ns: namespace}}
}

// Get returns nil, nil when nobody is logged in.
func (r *UserRepo) Get(ctx context.Context) (*model.UserProfile, error) {
	var u model.UserProfile
	ok, err := r.read(ctx, store.SlotUser, &u)
	if err != nil || !ok {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) Save(ctx context.Context, u model.UserProfile) error {
	return r.write(ctx, store.SlotUser, u)
}

func (r *UserRepo) Clear(ctx context.Context) error {
	return r.remove(ctx, store.SlotUser)
}
