package usecase

import (
	"context"
	"errors"
	"strings"

	domainErrors "github.com/polkiloo/gencart/internal/domain/errors"
	"github.com/polkiloo/gencart/internal/domain/model"
	"github.com/polkiloo/gencart/internal/domain/repository"
	pkgAuth "github.com/polkiloo/gencart/internal/pkg/auth"
)

// AuthUseCase handles user lifecycle and token management.
type AuthUseCase struct {
	users  repository.UserRepository
	hasher pkgAuth.PasswordHasher
	tokens pkgAuth.Strategy
	staff  map[string]struct{}
}

// NewAuthUseCase constructs AuthUseCase. Logins listed in staffLogins are registered with the staff flag.
func NewAuthUseCase(users repository.UserRepository, hasher pkgAuth.PasswordHasher, strategy pkgAuth.Strategy, staffLogins []string) *AuthUseCase {
	staff := make(map[string]struct{}, len(staffLogins))
	for _, login := range staffLogins {
		staff[login] = struct{}{}
	}
	return &AuthUseCase{users: users, hasher: hasher, tokens: strategy, staff: staff}
}

// Register creates a new user with login/password and returns auth token.
func (u *AuthUseCase) Register(ctx context.Context, login, password string) (*model.User, string, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	hash, err := u.hasher.Hash(password)
	if errors.Is(err, pkgAuth.ErrPasswordTooLong) {
		return nil, "", domainErrors.Invalid("password", "must be at most 72 bytes")
	}
	if err != nil {
		return nil, "", err
	}

	_, isStaff := u.staff[login]
	usr, err := u.users.Create(ctx, login, hash, isStaff)
	if err != nil {
		if errors.Is(err, domainErrors.ErrAlreadyExists) {
			return nil, "", domainErrors.ErrAlreadyExists
		}
		return nil, "", err
	}

	token, err := u.tokens.IssueToken(usr.ID)
	if err != nil {
		return nil, "", err
	}
	return usr, token, nil
}

// Authenticate validates credentials and returns auth token.
func (u *AuthUseCase) Authenticate(ctx context.Context, login, password string) (*model.User, string, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	usr, err := u.users.GetByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, "", domainErrors.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := u.hasher.Compare(usr.PasswordHash, password); err != nil {
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	token, err := u.tokens.IssueToken(usr.ID)
	if err != nil {
		return nil, "", err
	}
	return usr, token, nil
}

// ParseToken extracts user ID from provided token.
func (u *AuthUseCase) ParseToken(token string) (int64, error) {
	if token == "" {
		return 0, pkgAuth.ErrInvalidToken
	}
	return u.tokens.ParseToken(token)
}

// Principal loads the caller identity, including the staff flag, for a token subject.
func (u *AuthUseCase) Principal(ctx context.Context, userID int64) (model.Principal, error) {
	usr, err := u.users.GetByID(ctx, userID)
	if err != nil {
		return model.Principal{}, err
	}
	return model.Principal{UserID: usr.ID, IsStaff: usr.IsStaff}, nil
}
