package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	domainErrors "github.com/polkiloo/gencart/internal/domain/errors"
	pkgAuth "github.com/polkiloo/gencart/internal/pkg/auth"
	"github.com/polkiloo/gencart/internal/storage/memory"
	testhelpers "github.com/polkiloo/gencart/internal/test"
)

func newStrategyStub() testhelpers.StrategyStub {
	return testhelpers.StrategyStub{
		IssueFn: func(userID int64) (string, error) {
			return fmt.Sprintf("token-%d", userID), nil
		},
		ParseFn: func(token string) (int64, error) {
			var id int64
			if _, err := fmt.Sscanf(token, "token-%d", &id); err != nil {
				return 0, pkgAuth.ErrInvalidToken
			}
			return id, nil
		},
	}
}

func newAuth(staff ...string) *AuthUseCase {
	return NewAuthUseCase(memory.New().Users(), testhelpers.HasherStub{}, newStrategyStub(), staff)
}

func TestAuthUseCaseRegisterAndAuthenticate(t *testing.T) {
	uc := newAuth()
	ctx := context.Background()

	user, token, err := uc.Register(ctx, "  alice ", "password")
	if err != nil {
		t.Fatalf("register returned error: %v", err)
	}
	if user.Login != "alice" || user.IsStaff {
		t.Fatalf("unexpected user %+v", user)
	}
	if token != fmt.Sprintf("token-%d", user.ID) {
		t.Fatalf("unexpected token %q", token)
	}
	if user.PasswordHash != "hash:password" {
		t.Fatalf("password hash not stored: %v", user.PasswordHash)
	}

	if _, _, err := uc.Register(ctx, "alice", "other"); !errors.Is(err, domainErrors.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}

	if _, _, err := uc.Authenticate(ctx, "alice", "bad"); !errors.Is(err, domainErrors.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
	if _, _, err := uc.Authenticate(ctx, "nobody", "password"); !errors.Is(err, domainErrors.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials for unknown login, got %v", err)
	}
	if _, token, err := uc.Authenticate(ctx, "alice", "password"); err != nil || token == "" {
		t.Fatalf("authenticate returned %q, %v", token, err)
	}
}

func TestAuthUseCaseStaffLogins(t *testing.T) {
	uc := newAuth("admin")
	ctx := context.Background()

	admin, _, err := uc.Register(ctx, "admin", "secret")
	if err != nil {
		t.Fatalf("register returned error: %v", err)
	}
	customer, _, err := uc.Register(ctx, "bob", "secret")
	if err != nil {
		t.Fatalf("register returned error: %v", err)
	}

	p, err := uc.Principal(ctx, admin.ID)
	if err != nil || !p.IsStaff || p.UserID != admin.ID {
		t.Fatalf("expected staff principal, got %+v %v", p, err)
	}
	p, err = uc.Principal(ctx, customer.ID)
	if err != nil || p.IsStaff {
		t.Fatalf("expected customer principal, got %+v %v", p, err)
	}
	if _, err := uc.Principal(ctx, 999); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAuthUseCaseValidation(t *testing.T) {
	uc := newAuth()
	ctx := context.Background()
	for _, creds := range [][2]string{{"", "password"}, {"   ", "password"}, {"user", ""}} {
		if _, _, err := uc.Register(ctx, creds[0], creds[1]); !errors.Is(err, domainErrors.ErrInvalidCredentials) {
			t.Fatalf("register(%q, %q): expected invalid credentials, got %v", creds[0], creds[1], err)
		}
		if _, _, err := uc.Authenticate(ctx, creds[0], creds[1]); !errors.Is(err, domainErrors.ErrInvalidCredentials) {
			t.Fatalf("authenticate(%q, %q): expected invalid credentials, got %v", creds[0], creds[1], err)
		}
	}
}

func TestAuthUseCaseParseToken(t *testing.T) {
	uc := newAuth()

	id, err := uc.ParseToken("token-42")
	if err != nil || id != 42 {
		t.Fatalf("parse token = %d, %v", id, err)
	}
	for _, token := range []string{"", "bad-token"} {
		if _, err := uc.ParseToken(token); !errors.Is(err, pkgAuth.ErrInvalidToken) {
			t.Fatalf("expected invalid token error for %q, got %v", token, err)
		}
	}
}

func TestAuthUseCaseCollaboratorErrors(t *testing.T) {
	ctx := context.Background()

	hashErr := NewAuthUseCase(memory.New().Users(), testhelpers.HasherStub{HashFn: func(string) (string, error) {
		return "", fmt.Errorf("hash error")
	}}, newStrategyStub(), nil)
	if _, _, err := hashErr.Register(ctx, "user", "pass"); err == nil {
		t.Fatal("expected hashing error")
	}

	repoErr := NewAuthUseCase(testhelpers.BrokenUsers{Err: fmt.Errorf("db down")}, testhelpers.HasherStub{}, newStrategyStub(), nil)
	if _, _, err := repoErr.Register(ctx, "user", "pass"); err == nil || errors.Is(err, domainErrors.ErrAlreadyExists) {
		t.Fatalf("expected repository error, got %v", err)
	}
	if _, _, err := repoErr.Authenticate(ctx, "user", "pass"); err == nil || errors.Is(err, domainErrors.ErrInvalidCredentials) {
		t.Fatalf("expected repository error, got %v", err)
	}

	issueErr := NewAuthUseCase(memory.New().Users(), testhelpers.HasherStub{}, testhelpers.StrategyStub{
		IssueFn: func(int64) (string, error) { return "", fmt.Errorf("cannot issue token") },
	}, nil)
	if _, _, err := issueErr.Register(ctx, "user", "pass"); err == nil {
		t.Fatal("expected token issuing error")
	}
}

func TestAuthUseCaseRejectsOverlongPassword(t *testing.T) {
	uc := NewAuthUseCase(memory.New().Users(), pkgAuth.NewBcryptHasher(4), newStrategyStub(), nil)
	_, _, err := uc.Register(context.Background(), "bob", strings.Repeat("p", 73))
	var validation *domainErrors.ValidationError
	if !errors.As(err, &validation) || validation.Field != "password" {
		t.Fatalf("expected password validation error, got %v", err)
	}
}
