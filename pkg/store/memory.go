package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/example/storefront/pkg/models"
)

// MemoryStore keeps the whole catalog and order book in process memory.
// It backs tests and local development; semantics mirror GormStore,
// including the all-or-nothing order commit.
type MemoryStore struct {
	mu sync.RWMutex

	products map[int64]models.Product
	orders   map[int64]models.Order

	productSeq int64
	orderSeq   int64
	lineSeq    int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		products: make(map[int64]models.Product),
		orders:   make(map[int64]models.Order),
	}
}

func (m *MemoryStore) CreateProduct(ctx context.Context, name, category string) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, p := range m.products {
		if p.Name == name {
			return nil, ErrProductExists
		}
	}

	m.productSeq++
	product := models.Product{
		ID:       m.productSeq,
		Name:     name,
		Category: category,
		Cost:     1,
	}
	m.products[product.ID] = product

	return &product, nil
}

func (m *MemoryStore) ProductByID(ctx context.Context, id int64) (*models.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	product, ok := m.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	return &product, nil
}

func (m *MemoryStore) ProductByNameFragment(ctx context.Context, fragment string) (*models.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	// Scan ids ascending so the lowest-id match wins, same as the
	// ORDER BY id LIMIT 1 the SQL store runs.
	ids := make([]int64, 0, len(m.products))
	for id := range m.products {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		product := m.products[id]
		if strings.Contains(product.Name, fragment) {
			return &product, nil
		}
	}
	return nil, ErrProductNotFound
}

func (m *MemoryStore) Products(ctx context.Context) ([]models.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	products := make([]models.Product, 0, len(m.products))
	for _, p := range m.products {
		products = append(products, p)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })
	return products, nil
}

func (m *MemoryStore) CreateOrder(ctx context.Context, items []LineItem) (*models.Order, error) {
	if len(items) == 0 {
		return nil, ErrEmptyOrder
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Validate everything before mutating anything so a failed commit
	// leaves no trace.
	seen := make(map[int64]bool, len(items))
	for _, item := range items {
		if seen[item.ProductID] {
			return nil, ErrDuplicateLine
		}
		seen[item.ProductID] = true
	}

	m.orderSeq++
	order := models.Order{
		ID:        m.orderSeq,
		CreatedAt: time.Now().UTC(),
	}
	for _, item := range items {
		m.lineSeq++
		order.Lines = append(order.Lines, models.OrderLine{
			ID:        m.lineSeq,
			OrderID:   order.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}
	m.orders[order.ID] = order

	return &order, nil
}

func (m *MemoryStore) OrdersContaining(ctx context.Context, productID int64) ([]models.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []models.Order
	for _, order := range m.orders {
		for _, line := range order.Lines {
			if line.ProductID == productID {
				result = append(result, cloneOrder(order))
				break
			}
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *MemoryStore) CountOrders(ctx context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.orders)), nil
}

func (m *MemoryStore) CountLines(ctx context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var count int64
	for _, order := range m.orders {
		count += int64(len(order.Lines))
	}
	return count, nil
}

// cloneOrder copies the line slice so callers cannot mutate stored state.
func cloneOrder(order models.Order) models.Order {
	lines := make([]models.OrderLine, len(order.Lines))
	copy(lines, order.Lines)
	order.Lines = lines
	return order
}
