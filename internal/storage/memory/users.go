package memory

import (
	"context"

	domainErrors "github.com/polkiloo/gencart/internal/domain/errors"
	"github.com/polkiloo/gencart/internal/domain/model"
)

type userRepository struct{ session }

func (r *userRepository) Create(_ context.Context, login, passwordHash string, isStaff bool) (*model.User, error) {
	var out model.User
	err := r.with(func(d *state) error {
		for _, u := range d.users {
			if u.Login == login {
				return domainErrors.ErrAlreadyExists
			}
		}
		out = model.User{ID: d.next("users"), Login: login, PasswordHash: passwordHash, IsStaff: isStaff, CreatedAt: r.now()}
		d.users[out.ID] = out
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *userRepository) GetByLogin(_ context.Context, login string) (*model.User, error) {
	var out *model.User
	err := r.with(func(d *state) error {
		for _, u := range d.users {
			if u.Login == login {
				out = &u
				return nil
			}
		}
		return domainErrors.ErrNotFound
	})
	return out, err
}

func (r *userRepository) GetByID(_ context.Context, id int64) (*model.User, error) {
	var out *model.User
	err := r.with(func(d *state) error {
		u, ok := d.users[id]
		if !ok {
			return domainErrors.ErrNotFound
		}
		out = &u
		return nil
	})
	return out, err
}
