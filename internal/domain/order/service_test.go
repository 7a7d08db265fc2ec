package order

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/gourmet-express/internal/domain/restaurant"
	"github.com/xenking/gourmet-express/internal/domain/user"
)

// --- Mock implementations ---

type mockUserRepo struct {
	byID map[int64]*user.User
}

func (m *mockUserRepo) Create(_ context.Context, _ *user.User) error { return nil }

func (m *mockUserRepo) GetByID(_ context.Context, id int64) (*user.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	return u, nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, _ string) (*user.User, error) {
	return nil, user.ErrNotFound
}

type mockRestaurantRepo struct {
	restaurants map[int64]*restaurant.Restaurant
	menu        map[int64]restaurant.MenuItem
}

func (m *mockRestaurantRepo) Create(_ context.Context, _ *restaurant.Restaurant) error { return nil }

func (m *mockRestaurantRepo) List(_ context.Context) ([]restaurant.Restaurant, error) {
	return nil, nil
}

func (m *mockRestaurantRepo) GetByID(_ context.Context, id int64) (*restaurant.Restaurant, error) {
	r, ok := m.restaurants[id]
	if !ok {
		return nil, restaurant.ErrNotFound
	}
	return r, nil
}

func (m *mockRestaurantRepo) CreateMenuItem(_ context.Context, _ *restaurant.MenuItem) error {
	return nil
}

func (m *mockRestaurantRepo) ListMenu(_ context.Context, _ int64, _ bool) ([]restaurant.MenuItem, error) {
	return nil, nil
}

func (m *mockRestaurantRepo) GetMenuItem(_ context.Context, id int64) (*restaurant.MenuItem, error) {
	item, ok := m.menu[id]
	if !ok {
		return nil, &restaurant.MenuItemNotFoundError{MenuItemID: id}
	}
	return &item, nil
}

func (m *mockRestaurantRepo) GetMenuItemsByIDs(_ context.Context, ids []int64) ([]restaurant.MenuItem, error) {
	var items []restaurant.MenuItem
	seen := make(map[int64]bool)
	for _, id := range ids {
		if item, ok := m.menu[id]; ok && !seen[id] {
			items = append(items, item)
			seen[id] = true
		}
	}
	return items, nil
}

type mockOrderRepo struct {
	lastCreated *Order
	createErr   error
	byID        map[int64]*Order
}

func (m *mockOrderRepo) Create(_ context.Context, o *Order) error {
	if m.createErr != nil {
		return m.createErr
	}
	o.ID = 1
	m.lastCreated = o
	return nil
}

func (m *mockOrderRepo) GetByID(_ context.Context, id int64) (*Order, error) {
	o, ok := m.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return o, nil
}

func (m *mockOrderRepo) SetStatus(_ context.Context, id int64, status Status) (*Order, error) {
	o, ok := m.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	o.Status = status
	return o, nil
}

// --- Helpers ---

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newFixtures() (*mockUserRepo, *mockRestaurantRepo, *mockOrderRepo) {
	users := &mockUserRepo{byID: map[int64]*user.User{
		1: {ID: 1, Email: "alice@example.com", Name: "Alice", Role: user.RoleCustomer},
	}}
	restaurants := &mockRestaurantRepo{
		restaurants: map[int64]*restaurant.Restaurant{
			10: {ID: 10, Name: "Pasta Palace"},
		},
		menu: map[int64]restaurant.MenuItem{
			100: {ID: 100, RestaurantID: 10, Name: "Carbonara", Price: price("9.99"), IsAvailable: true},
			101: {ID: 101, RestaurantID: 10, Name: "Tiramisu", Price: price("4.50"), IsAvailable: true},
		},
	}
	return users, restaurants, &mockOrderRepo{byID: make(map[int64]*Order)}
}

// --- Tests ---

func TestCreate_EmptyItems(t *testing.T) {
	users, restaurants, orders := newFixtures()
	svc := NewService(users, restaurants, orders)

	_, err := svc.Create(context.Background(), CreateRequest{UserID: 1, RestaurantID: 10})
	require.ErrorIs(t, err, ErrEmptyItems)
}

func TestCreate_UserNotFound(t *testing.T) {
	users, restaurants, orders := newFixtures()
	svc := NewService(users, restaurants, orders)

	_, err := svc.Create(context.Background(), CreateRequest{
		UserID:       999,
		RestaurantID: 10,
		Items:        []ItemRequest{{MenuItemID: 100, Quantity: 1}},
	})
	require.ErrorIs(t, err, user.ErrNotFound)
}

func TestCreate_RestaurantNotFound(t *testing.T) {
	users, restaurants, orders := newFixtures()
	svc := NewService(users, restaurants, orders)

	_, err := svc.Create(context.Background(), CreateRequest{
		UserID:       1,
		RestaurantID: 999,
		Items:        []ItemRequest{{MenuItemID: 100, Quantity: 1}},
	})
	require.ErrorIs(t, err, restaurant.ErrNotFound)
}

func TestCreate_InvalidQuantity(t *testing.T) {
	users, restaurants, orders := newFixtures()
	svc := NewService(users, restaurants, orders)

	_, err := svc.Create(context.Background(), CreateRequest{
		UserID:       1,
		RestaurantID: 10,
		Items:        []ItemRequest{{MenuItemID: 100, Quantity: 0}},
	})

	var iqErr *InvalidQuantityError
	require.ErrorAs(t, err, &iqErr)
	assert.Equal(t, int64(100), iqErr.MenuItemID)
	assert.Nil(t, orders.lastCreated, "nothing should be written")
}

func TestCreate_MenuItemNotFound(t *testing.T) {
	users, restaurants, orders := newFixtures()
	svc := NewService(users, restaurants, orders)

	_, err := svc.Create(context.Background(), CreateRequest{
		UserID:       1,
		RestaurantID: 10,
		Items: []ItemRequest{
			{MenuItemID: 100, Quantity: 1},
			{MenuItemID: 555, Quantity: 1},
		},
	})

	var nfErr *restaurant.MenuItemNotFoundError
	require.ErrorAs(t, err, &nfErr)
	assert.Equal(t, int64(555), nfErr.MenuItemID)
	assert.Nil(t, orders.lastCreated, "nothing should be written")
}

func TestCreate_TotalIsExactSumOfLines(t *testing.T) {
	users, restaurants, orders := newFixtures()
	svc := NewService(users, restaurants, orders)

	o, err := svc.Create(context.Background(), CreateRequest{
		UserID:       1,
		RestaurantID: 10,
		Items: []ItemRequest{
			{MenuItemID: 100, Quantity: 2},
			{MenuItemID: 101, Quantity: 1},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, StatusCreated, o.Status)
	require.Len(t, o.Items, 2)

	// 9.99 * 2 + 4.50 = 24.48
	assert.True(t, price("19.98").Equal(o.Items[0].LineTotal))
	assert.True(t, price("9.99").Equal(o.Items[0].UnitPrice))
	assert.True(t, price("4.50").Equal(o.Items[1].LineTotal))
	assert.True(t, price("24.48").Equal(o.TotalAmount))
}

func TestCreate_DeliveryAddressStored(t *testing.T) {
	users, restaurants, orders := newFixtures()
	svc := NewService(users, restaurants, orders)

	addr := "221B Baker Street"
	o, err := svc.Create(context.Background(), CreateRequest{
		UserID:          1,
		RestaurantID:    10,
		DeliveryAddress: &addr,
		Items:           []ItemRequest{{MenuItemID: 101, Quantity: 3}},
	})

	require.NoError(t, err)
	require.NotNil(t, o.DeliveryAddress)
	assert.Equal(t, addr, *o.DeliveryAddress)
	assert.True(t, price("13.50").Equal(o.TotalAmount))
}

func TestCreate_RepoError(t *testing.T) {
	users, restaurants, orders := newFixtures()
	orders.createErr = errors.New("db write failed")
	svc := NewService(users, restaurants, orders)

	_, err := svc.Create(context.Background(), CreateRequest{
		UserID:       1,
		RestaurantID: 10,
		Items:        []ItemRequest{{MenuItemID: 100, Quantity: 1}},
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "create order")
}

func TestSetStatus_AnyValueAccepted(t *testing.T) {
	users, restaurants, orders := newFixtures()
	orders.byID[7] = &Order{ID: 7, Status: StatusCreated}
	svc := NewService(users, restaurants, orders)

	o, err := svc.SetStatus(context.Background(), 7, StatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, StatusDelivered, o.Status)

	// Backward transitions are allowed as well.
	o, err = svc.SetStatus(context.Background(), 7, StatusCreated)
	require.NoError(t, err)
	assert.Equal(t, StatusCreated, o.Status)
}

func TestSetStatus_NotFound(t *testing.T) {
	users, restaurants, orders := newFixtures()
	svc := NewService(users, restaurants, orders)

	_, err := svc.SetStatus(context.Background(), 999, StatusConfirmed)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestStatusIsValid(t *testing.T) {
	for _, s := range []Status{
		StatusCreated, StatusConfirmed, StatusPreparing,
		StatusOutForDelivery, StatusDelivered, StatusCancelled,
	} {
		assert.True(t, s.IsValid(), string(s))
	}
	assert.False(t, Status("on_hold").IsValid())
}
