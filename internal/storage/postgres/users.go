package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	domainErrors "github.com/polkiloo/gencart/internal/domain/errors"
	"github.com/polkiloo/gencart/internal/domain/model"
)

const foreignKeyViolation = "23503"

func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return domainErrors.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolation:
			return domainErrors.ErrAlreadyExists
		case foreignKeyViolation:
			return domainErrors.ErrNotFound
		}
	}
	return err
}

// exists distinguishes a missing row from a failed conditional update.
func exists(ctx context.Context, db querier, query string, id any) error {
	var found bool
	if err := db.QueryRow(ctx, query, id).Scan(&found); err != nil {
		return err
	}
	if !found {
		return domainErrors.ErrNotFound
	}
	return nil
}

type userRepository struct {
	db querier
}

func (r *userRepository) Create(ctx context.Context, login, passwordHash string, isStaff bool) (*model.User, error) {
	const query = `INSERT INTO users (login, password_hash, is_staff) VALUES ($1, $2, $3) RETURNING id, created_at`
	u := model.User{Login: login, PasswordHash: passwordHash, IsStaff: isStaff}
	if err := r.db.QueryRow(ctx, query, login, passwordHash, isStaff).Scan(&u.ID, &u.CreatedAt); err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *userRepository) get(ctx context.Context, query string, arg any) (*model.User, error) {
	var u model.User
	if err := r.db.QueryRow(ctx, query, arg).Scan(&u.ID, &u.Login, &u.PasswordHash, &u.IsStaff, &u.CreatedAt); err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *userRepository) GetByLogin(ctx context.Context, login string) (*model.User, error) {
	return r.get(ctx, `SELECT id, login, password_hash, is_staff, created_at FROM users WHERE login=$1`, login)
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return r.get(ctx, `SELECT id, login, password_hash, is_staff, created_at FROM users WHERE id=$1`, id)
}
