package usecase

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainErrors "github.com/polkiloo/gencart/internal/domain/errors"
	"github.com/polkiloo/gencart/internal/domain/model"
	"github.com/polkiloo/gencart/internal/storage/memory"
)

var staff = model.Principal{UserID: 100, IsStaff: true}

func TestCatalogUseCaseCreateProduct(t *testing.T) {
	uc := NewCatalogUseCase(memory.New())
	ctx := context.Background()

	_, err := uc.CreateProduct(ctx, model.Principal{UserID: 1}, model.Product{Name: "A", Price: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, domainErrors.ErrForbidden)

	discount := decimal.NewFromInt(30)
	invalid := []model.Product{
		{Name: "", Price: decimal.NewFromInt(1)},
		{Name: "A", Price: decimal.NewFromInt(-1)},
		{Name: "A", Price: decimal.NewFromInt(25), DiscountPrice: &discount},
		{Name: "A", Price: decimal.NewFromInt(1), Inventory: -1},
	}
	for _, p := range invalid {
		_, err := uc.CreateProduct(ctx, staff, p)
		assert.ErrorIs(t, err, domainErrors.ErrValidation, "%+v", p)
	}

	created, err := uc.CreateProduct(ctx, staff, model.Product{Name: "A", Price: decimal.RequireFromString("10.00"), Inventory: 5})
	require.NoError(t, err)

	got, err := uc.Product(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "A", got.Name)

	list, err := uc.Products(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = uc.Product(ctx, 404)
	var nf *domainErrors.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "product", nf.Entity)
}

func TestCatalogUseCaseAddresses(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	user, err := store.Users().Create(ctx, "alice", "hash", false)
	require.NoError(t, err)
	uc := NewCatalogUseCase(store)

	_, err = uc.AddAddress(ctx, user.ID, model.Address{FullName: "Alice", Street: "Main 1", City: "Berlin", Country: "DE"})
	assert.ErrorIs(t, err, domainErrors.ErrValidation)

	addr, err := uc.AddAddress(ctx, user.ID, model.Address{UserID: 999, FullName: "Alice", Street: "Main 1", City: "Berlin", PostalCode: "10115", Country: "DE"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, addr.UserID)

	list, err := uc.Addresses(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	others, err := uc.Addresses(ctx, 999)
	require.NoError(t, err)
	assert.Empty(t, others)
}
