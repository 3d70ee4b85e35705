package test

import (
	"context"

	"github.com/polkiloo/gencart/internal/domain/model"
	"github.com/polkiloo/gencart/internal/domain/repository"
)

// BrokenUsers is a user repository whose every call fails with Err,
// standing in for an unreachable database.
type BrokenUsers struct {
	Err error
}

func (b BrokenUsers) Create(context.Context, string, string, bool) (*model.User, error) {
	return nil, b.Err
}

func (b BrokenUsers) GetByLogin(context.Context, string) (*model.User, error) {
	return nil, b.Err
}

func (b BrokenUsers) GetByID(context.Context, int64) (*model.User, error) {
	return nil, b.Err
}

var _ repository.UserRepository = BrokenUsers{}
