package usecase

import (
	"context"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/polkiloo/gencart/internal/domain/model"
	"github.com/polkiloo/gencart/internal/metrics"
	"github.com/polkiloo/gencart/internal/storage/memory"
)

type shopFixture struct {
	store    *memory.Store
	user     *model.User
	other    *model.User
	productA *model.Product
	productB *model.Product
	productC *model.Product
	shipping *model.Address
	billing  *model.Address
}

// newShopFixture seeds product A at 10.00, product B at 25.00 discounted to
// 20.00 and product C with a single unit in stock.
func newShopFixture(t *testing.T) *shopFixture {
	t.Helper()
	ctx := context.Background()
	store := memory.New()
	shop := &shopFixture{store: store}

	var err error
	shop.user, err = store.Users().Create(ctx, "alice", "hash", false)
	require.NoError(t, err)
	shop.other, err = store.Users().Create(ctx, "bob", "hash", false)
	require.NoError(t, err)

	discount := decimal.RequireFromString("20.00")
	shop.productA, err = store.Products().Create(ctx, model.Product{Name: "Product A", Price: decimal.RequireFromString("10.00"), Inventory: 10})
	require.NoError(t, err)
	shop.productB, err = store.Products().Create(ctx, model.Product{Name: "Product B", Price: decimal.RequireFromString("25.00"), DiscountPrice: &discount, Inventory: 5})
	require.NoError(t, err)
	shop.productC, err = store.Products().Create(ctx, model.Product{Name: "Product C", Price: decimal.RequireFromString("5.00"), Inventory: 1})
	require.NoError(t, err)

	addr := model.Address{UserID: shop.user.ID, FullName: "Alice", Street: "Main 1", City: "Berlin", PostalCode: "10115", Country: "DE"}
	shop.shipping, err = store.Addresses().Create(ctx, addr)
	require.NoError(t, err)
	shop.billing, err = store.Addresses().Create(ctx, addr)
	require.NoError(t, err)
	return shop
}

func (shop *shopFixture) inventory(t *testing.T, id int64) int {
	t.Helper()
	p, err := shop.store.Products().GetByID(context.Background(), id)
	require.NoError(t, err)
	return p.Inventory
}

// fillCart puts two units of A and one of B into the user's cart.
func (shop *shopFixture) fillCart(t *testing.T) *model.Cart {
	t.Helper()
	carts := NewCartUseCase(shop.store)
	_, err := carts.AddItem(context.Background(), shop.user.ID, shop.productA.ID, 2)
	require.NoError(t, err)
	cart, err := carts.AddItem(context.Background(), shop.user.ID, shop.productB.ID, 1)
	require.NoError(t, err)
	return cart
}

func assertMetrics(t *testing.T, m *metrics.Metrics, expected string, names ...string) {
	t.Helper()
	require.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), names...))
}
