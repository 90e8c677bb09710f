package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateProduct_DuplicateName(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	first, err := s.CreateProduct(ctx, "soap", "bathing")
	require.NoError(t, err)
	assert.Equal(t, "soap", first.Name)
	assert.Equal(t, 1, first.Cost)

	_, err = s.CreateProduct(ctx, "soap", "bathing")
	assert.ErrorIs(t, err, ErrProductExists)

	products, err := s.Products(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 1)
}

func TestProductByNameFragment(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	computer, err := s.CreateProduct(ctx, "computer", "electronics")
	require.NoError(t, err)
	_, err = s.CreateProduct(ctx, "computer desk", "decor")
	require.NoError(t, err)

	tests := []struct {
		name     string
		fragment string
		wantID   int64
		wantErr  error
	}{
		{"exact match", "computer", computer.ID, nil},
		{"substring match", "comput", computer.ID, nil},
		{"ambiguous picks lowest id", "compute", computer.ID, nil},
		{"no match", "doesnotexist", 0, ErrProductNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := s.ProductByNameFragment(ctx, tt.fragment)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, p.ID)
		})
	}
}

func TestProductByID_NotFound(t *testing.T) {
	s := NewMemoryStore()
	_, err := s.ProductByID(context.Background(), 42)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCreateOrder(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	bread, err := s.CreateProduct(ctx, "bread", "food")
	require.NoError(t, err)
	milk, err := s.CreateProduct(ctx, "milk", "food")
	require.NoError(t, err)

	order, err := s.CreateOrder(ctx, []LineItem{
		{ProductID: bread.ID, Quantity: 2},
		{ProductID: milk.ID, Quantity: 1},
	})
	require.NoError(t, err)
	require.Len(t, order.Lines, 2)
	assert.Equal(t, 2, order.Lines[0].Quantity)
	assert.False(t, order.CreatedAt.IsZero())

	for _, line := range order.Lines {
		assert.Equal(t, order.ID, line.OrderID)
	}
}

func TestCreateOrder_DuplicateProductRollsBack(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	bread, err := s.CreateProduct(ctx, "bread", "food")
	require.NoError(t, err)

	_, err = s.CreateOrder(ctx, []LineItem{
		{ProductID: bread.ID, Quantity: 1},
		{ProductID: bread.ID, Quantity: 3},
	})
	assert.ErrorIs(t, err, ErrDuplicateLine)

	orders, err := s.CountOrders(ctx)
	require.NoError(t, err)
	assert.Zero(t, orders)

	lines, err := s.CountLines(ctx)
	require.NoError(t, err)
	assert.Zero(t, lines)
}

func TestCreateOrder_Empty(t *testing.T) {
	s := NewMemoryStore()
	_, err := s.CreateOrder(context.Background(), nil)
	assert.ErrorIs(t, err, ErrEmptyOrder)
}

func TestOrdersContaining(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	bread, err := s.CreateProduct(ctx, "bread", "food")
	require.NoError(t, err)
	milk, err := s.CreateProduct(ctx, "milk", "food")
	require.NoError(t, err)
	soap, err := s.CreateProduct(ctx, "soap", "bathing")
	require.NoError(t, err)

	first, err := s.CreateOrder(ctx, []LineItem{
		{ProductID: bread.ID, Quantity: 1},
		{ProductID: milk.ID, Quantity: 1},
	})
	require.NoError(t, err)
	_, err = s.CreateOrder(ctx, []LineItem{{ProductID: soap.ID, Quantity: 1}})
	require.NoError(t, err)

	orders, err := s.OrdersContaining(ctx, bread.ID)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, first.ID, orders[0].ID)
	assert.Len(t, orders[0].Lines, 2)

	orders, err = s.OrdersContaining(ctx, 999)
	require.NoError(t, err)
	assert.Empty(t, orders)
}
