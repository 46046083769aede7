package services

import (
	"context"
	"errors"
	"sync"

	"github.com/foodorder/apiserver/internal/store"
	"github.com/foodorder/apiserver/types"
)

type fakeAccounts struct {
	mu     sync.Mutex
	rows   map[types.Role]map[string]types.Account
	nextID int
	err    error
}

func newFakeAccounts() *fakeAccounts {
	return &fakeAccounts{rows: map[types.Role]map[string]types.Account{}}
}

func (f *fakeAccounts) GetByUsername(_ context.Context, kind types.Role, username string) (types.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return types.Account{}, f.err
	}
	account, ok := f.rows[kind][username]
	if !ok {
		return types.Account{}, store.ErrNotFound
	}
	return account, nil
}

func (f *fakeAccounts) Create(_ context.Context, kind types.Role, account types.Account) (types.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.rows[kind] == nil {
		f.rows[kind] = map[string]types.Account{}
	}
	f.nextID++
	account.ID = f.nextID
	f.rows[kind][account.Username] = account
	return account, nil
}

type fakeTokens struct {
	issued []types.Identity
}

func (f *fakeTokens) Issue(identity types.Identity) (string, error) {
	f.issued = append(f.issued, identity)
	return "token-" + identity.Username, nil
}

type fakeProducts struct {
	products []types.Product
	prices   map[int]float64
	deleted  int64
	err      error
}

func (f *fakeProducts) ListWithSeller(context.Context) ([]types.Product, error) {
	return f.products, f.err
}

func (f *fakeProducts) ListBySeller(_ context.Context, sellerID int) ([]types.Product, error) {
	var out []types.Product
	for _, p := range f.products {
		if p.SellerID == sellerID {
			out = append(out, p)
		}
	}
	return out, f.err
}

func (f *fakeProducts) Create(_ context.Context, product types.Product) (types.Product, error) {
	if f.err != nil {
		return types.Product{}, f.err
	}
	product.ID = len(f.products) + 1
	f.products = append(f.products, product)
	return product, nil
}

func (f *fakeProducts) DeleteOwned(_ context.Context, id, sellerID int) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	for i, p := range f.products {
		if p.ID == id && p.SellerID == sellerID {
			f.products = append(f.products[:i], f.products[i+1:]...)
			f.deleted++
			return 1, nil
		}
	}
	return 0, nil
}

func (f *fakeProducts) SalesBySeller(context.Context, int) ([]types.SalesPoint, error) {
	return []types.SalesPoint{{Name: "Pizza", OrderCount: 2, TotalRevenue: 20}}, f.err
}

func (f *fakeProducts) GetPrice(_ context.Context, id int) (float64, error) {
	if f.err != nil {
		return 0, f.err
	}
	price, ok := f.prices[id]
	if !ok {
		return 0, store.ErrNotFound
	}
	return price, nil
}

type fakeOrders struct {
	orders  []types.Order
	owners  map[int]int
	updates int
}

func (f *fakeOrders) Create(_ context.Context, order types.Order) (types.Order, error) {
	order.ID = len(f.orders) + 1
	f.orders = append(f.orders, order)
	return order, nil
}

func (f *fakeOrders) ListByBuyer(_ context.Context, buyerID int) ([]types.OrderDetail, error) {
	var out []types.OrderDetail
	for _, o := range f.orders {
		if o.BuyerID == buyerID {
			out = append(out, types.OrderDetail{Order: o})
		}
	}
	return out, nil
}

func (f *fakeOrders) ListBySeller(_ context.Context, sellerID int) ([]types.OrderDetail, error) {
	var out []types.OrderDetail
	for _, o := range f.orders {
		if f.owners[o.ID] == sellerID {
			out = append(out, types.OrderDetail{Order: o})
		}
	}
	return out, nil
}

func (f *fakeOrders) FindOwned(_ context.Context, id, sellerID int) error {
	if owner, ok := f.owners[id]; ok && owner == sellerID {
		return nil
	}
	return store.ErrNotFound
}

func (f *fakeOrders) UpdateStatus(_ context.Context, id int, status string) error {
	f.updates++
	for i := range f.orders {
		if f.orders[i].ID == id {
			f.orders[i].Status = status
		}
	}
	return nil
}

type publishedEvent struct {
	channel string
	data    []byte
	attrs   map[string]string
}

type fakeBus struct {
	events []publishedEvent
	err    error
}

func (f *fakeBus) Publish(_ context.Context, channel string, data []byte, attrs map[string]string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.events = append(f.events, publishedEvent{channel: channel, data: data, attrs: attrs})
	return "msg-1", nil
}

func (f *fakeBus) eventTypes() []string {
	out := make([]string, 0, len(f.events))
	for _, e := range f.events {
		out = append(out, e.attrs["type"])
	}
	return out
}

var errBoom = errors.New("boom")
