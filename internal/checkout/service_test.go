package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/ariefcatur/go-shop-backend.git/internal/shop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeOrderStore struct {
	mu     sync.Mutex
	orders []*shop.Order
	err    error
}

func (f *fakeOrderStore) InsertOrder(_ context.Context, o *shop.Order) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	o.ID = fmt.Sprintf("order-%d", len(f.orders)+1)
	f.orders = append(f.orders, o)
	return o.ID, nil
}

type fakeProductStore struct {
	mu     sync.Mutex
	stock  map[string]int
	failOn string // product id that errors
}

func (f *fakeProductStore) DecrementStock(_ context.Context, productID string, qty int) error {
	if f.failOn == productID {
		return errors.New("store unavailable")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	// Unconditional, like the real repo: unknown products and negative
	// results are not errors.
	f.stock[productID] -= qty
	return nil
}

type fakeCartStore struct {
	mu      sync.Mutex
	entries map[string][]shop.CartEntry
	err     error
	calls   int
}

func (f *fakeCartStore) DeleteByEmail(_ context.Context, email string) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	n := int64(len(f.entries[email]))
	delete(f.entries, email)
	return n, nil
}

func newService() (*Service, *fakeOrderStore, *fakeProductStore, *fakeCartStore) {
	orders := &fakeOrderStore{}
	products := &fakeProductStore{stock: map[string]int{}}
	carts := &fakeCartStore{entries: map[string][]shop.CartEntry{}}
	svc := &Service{Orders: orders, Products: products, Carts: carts, Logger: zap.NewNop()}
	return svc, orders, products, carts
}

func TestPlaceOrder_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  Request
	}{
		{
			name: "empty cart",
			req:  Request{UserEmail: "alice@example.com"},
		},
		{
			name: "missing user email",
			req:  Request{Cart: []shop.CartItem{{ProductID: "p1", Quantity: 1}}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, orders, products, carts := newService()
			products.stock["p1"] = 5

			_, err := svc.PlaceOrder(context.Background(), tt.req)

			require.ErrorIs(t, err, ErrInvalidOrder)
			assert.Empty(t, orders.orders, "no order must be written")
			assert.Equal(t, 5, products.stock["p1"], "no stock change")
			assert.Zero(t, carts.calls, "cart must not be touched")
		})
	}
}

func TestPlaceOrder_Success(t *testing.T) {
	svc, orders, products, carts := newService()
	products.stock["productA"] = 10
	products.stock["productB"] = 3
	// Stray entry for an unrelated product must disappear with the rest.
	carts.entries["alice@example.com"] = []shop.CartEntry{
		{ID: "c1", Email: "alice@example.com", ProductID: "productA", Quantity: 2},
		{ID: "c2", Email: "alice@example.com", ProductID: "productB", Quantity: 1},
		{ID: "c3", Email: "alice@example.com", ProductID: "productC", Quantity: 4},
	}

	req := Request{
		UserEmail: "alice@example.com",
		Cart: []shop.CartItem{
			{ProductID: "productA", Name: "Desk lamp", Price: 19.99, Quantity: 2},
			{ProductID: "productB", Name: "Notebook", Price: 4.5, Quantity: 1},
		},
		Subtotal:     44.48,
		ShippingCost: 5,
		Total:        49.48,
	}

	order, err := svc.PlaceOrder(context.Background(), req)
	require.NoError(t, err)
	assert.NotEmpty(t, order.ID)

	require.Len(t, orders.orders, 1)
	o := orders.orders[0]
	assert.Equal(t, "alice@example.com", o.UserEmail)
	assert.Len(t, o.Cart, 2)
	assert.Equal(t, 49.48, o.Total)
	assert.False(t, o.CreatedAt.IsZero(), "createdAt set server-side")
	// Callers get the persisted document back, same id and timestamp as
	// the row, so cached copies can never drift from storage.
	assert.Same(t, o, order)

	assert.Equal(t, 8, products.stock["productA"])
	assert.Equal(t, 2, products.stock["productB"])
	assert.Empty(t, carts.entries["alice@example.com"], "entire cart cleared, stray entry included")
}

func TestPlaceOrder_ZeroQuantityDefaultsToOne(t *testing.T) {
	svc, _, products, _ := newService()
	products.stock["p1"] = 5

	_, err := svc.PlaceOrder(context.Background(), Request{
		UserEmail: "bob@example.com",
		Cart:      []shop.CartItem{{ProductID: "p1"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 4, products.stock["p1"])
}

func TestPlaceOrder_NotIdempotent(t *testing.T) {
	svc, orders, products, _ := newService()
	products.stock["p1"] = 10

	req := Request{
		UserEmail: "carol@example.com",
		Cart:      []shop.CartItem{{ProductID: "p1", Quantity: 3}},
		Total:     30,
	}

	o1, err := svc.PlaceOrder(context.Background(), req)
	require.NoError(t, err)
	o2, err := svc.PlaceOrder(context.Background(), req)
	require.NoError(t, err)

	// Same payload twice means two orders and a double decrement.
	assert.NotEqual(t, o1.ID, o2.ID)
	assert.Len(t, orders.orders, 2)
	assert.Equal(t, 4, products.stock["p1"])
}

func TestPlaceOrder_StockFailureLeavesOrder(t *testing.T) {
	svc, orders, products, carts := newService()
	products.stock["p1"] = 10
	products.stock["p2"] = 10
	products.failOn = "p2"
	carts.entries["dave@example.com"] = []shop.CartEntry{
		{ID: "c1", Email: "dave@example.com", ProductID: "p1", Quantity: 1},
	}

	_, err := svc.PlaceOrder(context.Background(), Request{
		UserEmail: "dave@example.com",
		Cart: []shop.CartItem{
			{ProductID: "p1", Quantity: 1},
			{ProductID: "p2", Quantity: 1},
		},
	})

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidOrder)
	// The documented consistency gap: the order survives, the first
	// decrement sticks, and the cart is never cleared.
	assert.Len(t, orders.orders, 1)
	assert.Equal(t, 9, products.stock["p1"])
	assert.Equal(t, 10, products.stock["p2"])
	assert.Zero(t, carts.calls)
	assert.Len(t, carts.entries["dave@example.com"], 1)
}

func TestPlaceOrder_CartClearFailure(t *testing.T) {
	svc, orders, products, carts := newService()
	products.stock["p1"] = 5
	carts.err = errors.New("store unavailable")

	_, err := svc.PlaceOrder(context.Background(), Request{
		UserEmail: "erin@example.com",
		Cart:      []shop.CartItem{{ProductID: "p1", Quantity: 1}},
	})

	require.Error(t, err)
	assert.Len(t, orders.orders, 1, "order persists")
	assert.Equal(t, 4, products.stock["p1"], "decrement persists")
}

func TestPlaceOrder_ConcurrentLastUnit(t *testing.T) {
	svc, orders, products, _ := newService()
	products.stock["last-one"] = 1

	req := Request{
		UserEmail: "frank@example.com",
		Cart:      []shop.CartItem{{ProductID: "last-one", Quantity: 1}},
	}

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.PlaceOrder(context.Background(), req)
		}(i)
	}
	wg.Wait()

	// Blind decrement: both orders go through and stock ends below zero.
	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.Len(t, orders.orders, 2)
	assert.Equal(t, -1, products.stock["last-one"])
}
