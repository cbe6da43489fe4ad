package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/SergeyBogomolovv/checkout-service/internal/entities"
	"github.com/shopspring/decimal"
)

// memoryRepo keeps orders in process memory. Every method holds the lock for its whole
// body, which gives the same compare-and-set guarantees as the single-row UPDATE in Postgres.
type memoryRepo struct {
	mu          sync.Mutex
	nextOrderID int64
	nextItemID  int64
	orders      map[int64]entities.Order
	byNumber    map[string]int64
	history     map[int64][]entities.StatusChange
	now         func() time.Time
}

func NewMemoryRepo() *memoryRepo {
	return &memoryRepo{
		nextOrderID: 1,
		nextItemID:  1,
		orders:      make(map[int64]entities.Order),
		byNumber:    make(map[string]int64),
		history:     make(map[int64][]entities.StatusChange),
		now:         time.Now,
	}
}

func (m *memoryRepo) Create(_ context.Context, o entities.Order) (entities.Order, error) {
	if len(o.Items) == 0 {
		return entities.Order{}, entities.ErrEmptyOrder
	}
	if err := o.Validate(); err != nil {
		return entities.Order{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byNumber[o.OrderNumber]; ok {
		return entities.Order{}, fmt.Errorf("%w: %s", entities.ErrOrderNumberConflict, o.OrderNumber)
	}

	o = cloneOrder(o)
	o.ID = m.nextOrderID
	m.nextOrderID++
	for i := range o.Items {
		o.Items[i].ID = m.nextItemID
		m.nextItemID++
	}
	o.CreatedAt = m.now()
	o.UpdatedAt = o.CreatedAt

	m.orders[o.ID] = o
	m.byNumber[o.OrderNumber] = o.ID
	return cloneOrder(o), nil
}

func (m *memoryRepo) FindByPaymentReference(_ context.Context, ref string) (entities.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var (
		found entities.Order
		ok    bool
	)
	for _, o := range m.orders {
		if o.PaymentReference == ref && ref != "" && (!ok || o.ID < found.ID) {
			found, ok = o, true
		}
	}
	if !ok {
		return entities.Order{}, entities.ErrOrderNotFound
	}
	return cloneOrder(found), nil
}

func (m *memoryRepo) GetByOrderNumber(_ context.Context, orderNumber string) (entities.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id, ok := m.byNumber[orderNumber]
	if !ok {
		return entities.Order{}, entities.ErrOrderNotFound
	}
	return cloneOrder(m.orders[id]), nil
}

func (m *memoryRepo) UpdatePaymentStatus(_ context.Context, orderID int64, upd entities.PaymentUpdate) (entities.Order, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	o, ok := m.orders[orderID]
	if !ok {
		return entities.Order{}, false, entities.ErrOrderNotFound
	}
	if upd.Expected != nil && o.PaymentStatus != *upd.Expected {
		return cloneOrder(o), false, nil
	}

	o.PaymentStatus = upd.PaymentStatus
	if upd.Status != nil {
		o.Status = *upd.Status
	}
	o.UpdatedAt = m.now()
	m.orders[orderID] = o
	return cloneOrder(o), true, nil
}

func (m *memoryRepo) UpdateStatus(_ context.Context, orderID int64, change entities.StatusChange) (entities.Order, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	o, ok := m.orders[orderID]
	if !ok {
		return entities.Order{}, false, entities.ErrOrderNotFound
	}
	if o.Status != change.From {
		return cloneOrder(o), false, nil
	}

	o.Status = change.To
	o.UpdatedAt = m.now()
	m.orders[orderID] = o
	m.history[orderID] = append(m.history[orderID], change)
	return cloneOrder(o), true, nil
}

func (m *memoryRepo) LatestOrders(_ context.Context, count int) ([]entities.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := slices.Sorted(maps.Keys(m.orders))
	slices.Reverse(ids)
	if len(ids) > count {
		ids = ids[:count]
	}

	result := make([]entities.Order, 0, len(ids))
	for _, id := range ids {
		result = append(result, cloneOrder(m.orders[id]))
	}
	return result, nil
}

// StatusHistory returns the recorded fulfilment transitions of an order, oldest first.
func (m *memoryRepo) StatusHistory(orderID int64) []entities.StatusChange {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.history[orderID])
}

func cloneOrder(o entities.Order) entities.Order {
	o.Items = slices.Clone(o.Items)
	for i := range o.Items {
		o.Items[i].Snapshot.Attributes = maps.Clone(o.Items[i].Snapshot.Attributes)
	}
	return o
}

type memoryCatalog struct {
	mu       sync.RWMutex
	products map[int64]entities.Product
}

func NewMemoryCatalog(products ...entities.Product) *memoryCatalog {
	c := &memoryCatalog{products: make(map[int64]entities.Product, len(products))}
	c.Put(products...)
	return c
}

func (c *memoryCatalog) Put(products ...entities.Product) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, p := range products {
		c.products[p.ID] = p
	}
}

func (c *memoryCatalog) ProductsByIDs(_ context.Context, ids []int64) ([]entities.Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	products := make([]entities.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := c.products[id]; ok {
			products = append(products, p)
		}
	}
	return products, nil
}

type seedProduct struct {
	ID            int64             `json:"id"`
	SKU           string            `json:"sku"`
	Name          string            `json:"name"`
	Price         decimal.Decimal   `json:"price"`
	IsActive      bool              `json:"is_active"`
	StockQuantity int               `json:"stock_quantity"`
	Attributes    map[string]string `json:"attributes"`
}

// LoadProducts reads a JSON array of products, used to seed the memory catalog.
func LoadProducts(r io.Reader) ([]entities.Product, error) {
	var seed []seedProduct
	if err := json.NewDecoder(r).Decode(&seed); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}

	products := make([]entities.Product, 0, len(seed))
	for _, s := range seed {
		products = append(products, entities.Product{
			ID:            s.ID,
			SKU:           s.SKU,
			Name:          s.Name,
			Price:         s.Price,
			IsActive:      s.IsActive,
			StockQuantity: s.StockQuantity,
			Attributes:    s.Attributes,
		})
	}
	return products, nil
}
