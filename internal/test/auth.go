package test

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/polkiloo/gencart/internal/domain/model"
	pkgAuth "github.com/polkiloo/gencart/internal/pkg/auth"
)

// HasherStub stores passwords as "hash:<password>" so tests can assert on them.
type HasherStub struct {
	HashFn    func(string) (string, error)
	CompareFn func(string, string) error
}

func (h HasherStub) Hash(password string) (string, error) {
	if h.HashFn != nil {
		return h.HashFn(password)
	}
	return "hash:" + password, nil
}

// Compare mirrors bcrypt by returning ErrMismatchedHashAndPassword.
func (h HasherStub) Compare(hash, password string) error {
	switch {
	case h.CompareFn != nil:
		return h.CompareFn(hash, password)
	case hash == "hash:"+password:
		return nil
	default:
		return bcrypt.ErrMismatchedHashAndPassword
	}
}

// StrategyStub issues "token" for everyone and maps every token to user 1
// unless overridden.
type StrategyStub struct {
	IssueFn func(int64) (string, error)
	ParseFn func(string) (int64, error)
}

func (s StrategyStub) IssueToken(userID int64) (string, error) {
	if s.IssueFn == nil {
		return "token", nil
	}
	return s.IssueFn(userID)
}

func (s StrategyStub) ParseToken(token string) (int64, error) {
	if s.ParseFn == nil {
		return 1, nil
	}
	return s.ParseFn(token)
}

// TokenParserStub resolves any token to ID, or fails with Err.
// PrincipalErr simulates a user lookup failure after a valid token.
type TokenParserStub struct {
	ID           int64
	Err          error
	Staff        bool
	PrincipalErr error
}

func (s TokenParserStub) ParseToken(string) (int64, error) {
	return s.ID, s.Err
}

func (s TokenParserStub) Principal(_ context.Context, userID int64) (model.Principal, error) {
	if s.PrincipalErr != nil {
		return model.Principal{}, s.PrincipalErr
	}
	return model.Principal{UserID: userID, IsStaff: s.Staff}, nil
}

// AuthFacadeStub answers register and login with "token" unless overridden.
type AuthFacadeStub struct {
	TokenParserStub
	RegisterFn     func(context.Context, string, string) (string, error)
	AuthenticateFn func(context.Context, string, string) (string, error)
}

func (s AuthFacadeStub) Register(ctx context.Context, login, password string) (string, error) {
	if s.RegisterFn == nil {
		return "token", nil
	}
	return s.RegisterFn(ctx, login, password)
}

func (s AuthFacadeStub) Authenticate(ctx context.Context, login, password string) (string, error) {
	if s.AuthenticateFn == nil {
		return "token", nil
	}
	return s.AuthenticateFn(ctx, login, password)
}

var (
	_ pkgAuth.PasswordHasher = HasherStub{}
	_ pkgAuth.Strategy       = StrategyStub{}
)
