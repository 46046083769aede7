package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/foodorder/apiserver/internal/testutil"
	"github.com/foodorder/apiserver/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	db       *sql.DB
	accounts *AccountRepository
	products *ProductRepository
	orders   *OrderRepository
	reports  *ReportRepository
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	db := testutil.OpenSQLite(t)
	return fixture{
		db:       db,
		accounts: NewAccountRepository(db),
		products: NewProductRepository(db),
		orders:   NewOrderRepository(db),
		reports:  NewReportRepository(db),
	}
}

func (f fixture) account(t *testing.T, kind types.Role, name string) types.Account {
	t.Helper()
	created, err := f.accounts.Create(context.Background(), kind, types.Account{
		Name:         name,
		Username:     name,
		PasswordHash: "hash-" + name,
	})
	require.NoError(t, err)
	return created
}

func (f fixture) product(t *testing.T, sellerID int, name string, price float64) types.Product {
	t.Helper()
	created, err := f.products.Create(context.Background(), types.Product{
		Name:     name,
		Price:    price,
		SellerID: sellerID,
	})
	require.NoError(t, err)
	return created
}

func (f fixture) order(t *testing.T, buyerID, productID int) types.Order {
	t.Helper()
	created, err := f.orders.Create(context.Background(), types.Order{
		BuyerID:       buyerID,
		ProductID:     productID,
		Status:        types.StatusPlaced,
		Address:       "A1",
		Mobile:        "555",
		PaymentMethod: "cash",
	})
	require.NoError(t, err)
	return created
}

func TestAccountRepositoryKindsAreDisjoint(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	seller := f.account(t, types.RoleSeller, "sam")
	assert.Positive(t, seller.ID)

	got, err := f.accounts.GetByUsername(ctx, types.RoleSeller, "sam")
	require.NoError(t, err)
	assert.Equal(t, seller.ID, got.ID)
	assert.Equal(t, "hash-sam", got.PasswordHash)
	assert.False(t, got.CreatedAt.IsZero())

	_, err = f.accounts.GetByUsername(ctx, types.RoleBuyer, "sam")
	assert.ErrorIs(t, err, ErrNotFound)

	// The same username may exist once per kind.
	f.account(t, types.RoleBuyer, "sam")
	_, err = f.accounts.Create(ctx, types.RoleBuyer, types.Account{Name: "x", Username: "sam", PasswordHash: "h"})
	assert.Error(t, err)
}

func TestAccountRepositoryRejectsUnknownKind(t *testing.T) {
	f := newFixture(t)

	_, err := f.accounts.GetByUsername(context.Background(), types.Role("admin"), "root")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestProductRepositoryListings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	s1 := f.account(t, types.RoleSeller, "s1")
	s2 := f.account(t, types.RoleSeller, "s2")
	pizza := f.product(t, s1.ID, "Pizza", 9.99)
	f.product(t, s2.ID, "Burger", 5.5)

	all, err := f.products.ListWithSeller(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Pizza", all[0].Name)
	assert.InDelta(t, 9.99, all[0].Price, 0.001)
	assert.Equal(t, "s1", all[0].SellerName)
	assert.Equal(t, "s2", all[1].SellerName)

	mine, err := f.products.ListBySeller(ctx, s1.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, pizza.ID, mine[0].ID)
	assert.Empty(t, mine[0].SellerName)

	price, err := f.products.GetPrice(ctx, pizza.ID)
	require.NoError(t, err)
	assert.InDelta(t, 9.99, price, 0.001)

	_, err = f.products.GetPrice(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProductRepositoryDeleteOwned(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	owner := f.account(t, types.RoleSeller, "owner")
	other := f.account(t, types.RoleSeller, "other")
	product := f.product(t, owner.ID, "Soup", 3)

	affected, err := f.products.DeleteOwned(ctx, product.ID, other.ID)
	require.NoError(t, err)
	assert.Zero(t, affected)

	_, err = f.products.GetPrice(ctx, product.ID)
	require.NoError(t, err, "product must survive a delete by another seller")

	affected, err = f.products.DeleteOwned(ctx, product.ID, owner.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, affected)

	_, err = f.products.GetPrice(ctx, product.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProductRepositorySalesBySeller(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	seller := f.account(t, types.RoleSeller, "chef")
	buyer := f.account(t, types.RoleBuyer, "eater")
	pizza := f.product(t, seller.ID, "Pizza", 10)
	f.product(t, seller.ID, "Salad", 4)
	// Same name as the first product: groups merge.
	pizza2 := f.product(t, seller.ID, "Pizza", 12)

	f.order(t, buyer.ID, pizza.ID)
	f.order(t, buyer.ID, pizza.ID)
	f.order(t, buyer.ID, pizza2.ID)

	points, err := f.products.SalesBySeller(ctx, seller.ID)
	require.NoError(t, err)
	require.Len(t, points, 2)

	assert.Equal(t, "Pizza", points[0].Name)
	assert.Equal(t, 3, points[0].OrderCount)
	assert.InDelta(t, 32, points[0].TotalRevenue, 0.001)

	assert.Equal(t, "Salad", points[1].Name)
	assert.Equal(t, 0, points[1].OrderCount)
	assert.InDelta(t, 4, points[1].TotalRevenue, 0.001)
}

func TestOrderRepositoryListingsAndOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	seller := f.account(t, types.RoleSeller, "s1")
	stranger := f.account(t, types.RoleSeller, "s2")
	buyer := f.account(t, types.RoleBuyer, "b1")
	product := f.product(t, seller.ID, "Pizza", 9.99)
	order := f.order(t, buyer.ID, product.ID)

	byBuyer, err := f.orders.ListByBuyer(ctx, buyer.ID)
	require.NoError(t, err)
	require.Len(t, byBuyer, 1)
	assert.Equal(t, order.ID, byBuyer[0].ID)
	assert.Equal(t, "Pizza", byBuyer[0].ProductName)
	assert.Equal(t, "s1", byBuyer[0].SellerName)
	assert.Equal(t, types.StatusPlaced, byBuyer[0].Status)
	assert.Equal(t, "cash", byBuyer[0].PaymentMethod)

	bySeller, err := f.orders.ListBySeller(ctx, seller.ID)
	require.NoError(t, err)
	require.Len(t, bySeller, 1)
	assert.Equal(t, "b1", bySeller[0].BuyerName)

	none, err := f.orders.ListBySeller(ctx, stranger.ID)
	require.NoError(t, err)
	assert.Empty(t, none)

	require.NoError(t, f.orders.FindOwned(ctx, order.ID, seller.ID))
	assert.ErrorIs(t, f.orders.FindOwned(ctx, order.ID, stranger.ID), ErrNotFound)
	assert.ErrorIs(t, f.orders.FindOwned(ctx, order.ID+1, seller.ID), ErrNotFound)

	require.NoError(t, f.orders.UpdateStatus(ctx, order.ID, "Delivered"))
	status, err := f.orders.GetStatus(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "Delivered", status)
}

func TestReportRepository(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	big := f.account(t, types.RoleSeller, "big")
	small := f.account(t, types.RoleSeller, "small")
	f.account(t, types.RoleSeller, "idle")
	buyer := f.account(t, types.RoleBuyer, "b1")
	steak := f.product(t, big.ID, "Steak", 20)
	tea := f.product(t, small.ID, "Tea", 2)
	f.order(t, buyer.ID, steak.ID)
	f.order(t, buyer.ID, steak.ID)
	last := f.order(t, buyer.ID, tea.ID)

	totals, err := f.reports.Totals(ctx)
	require.NoError(t, err)
	assert.Equal(t, types.Totals{Sellers: 3, Buyers: 1, Products: 2, Orders: 3}, totals)

	recent, err := f.reports.RecentOrders(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, last.ID, recent[0].ID)
	assert.Equal(t, "Tea", recent[0].ProductName)
	assert.Equal(t, "b1", recent[0].BuyerName)
	assert.Equal(t, "small", recent[0].SellerName)

	top, err := f.reports.TopSellers(ctx, 5)
	require.NoError(t, err)
	require.Len(t, top, 3)
	assert.Equal(t, "big", top[0].Name)
	assert.Equal(t, 2, top[0].OrderCount)
	assert.InDelta(t, 40, top[0].Revenue, 0.001)
	assert.Equal(t, "small", top[1].Name)
	assert.Equal(t, "idle", top[2].Name)
	assert.Zero(t, top[2].Revenue)
}
