package order

import (
	"context"
	"sort"
	"sync"
	"time"

	"salesdesk-be/internal/product"

	"github.com/shopspring/decimal"
)

// memStore is an in-memory catalog and ledger. Its unit of work does not
// roll anything back, so tests see exactly what the workflow itself undoes.
type memStore struct {
	mu       sync.Mutex
	products map[string]*product.Product
	orders   map[string]*Order
	clock    time.Time

	// Hooks return a non-nil error to make the call fail before it applies.
	adjustHook func(id string, delta int) error
	insertHook func(o *Order) error
	updateHook func(o *Order) error
	deleteHook func(id string) error
}

func newMemStore() *memStore {
	return &memStore{
		products: map[string]*product.Product{},
		orders:   map[string]*Order{},
		clock:    time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (m *memStore) addProduct(id, name, price string, stock int, active bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products[id] = &product.Product{
		ID:     id,
		Name:   name,
		Price:  decimal.RequireFromString(price),
		Stock:  stock,
		Active: active,
	}
}

func (m *memStore) stock(id string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.products[id].Stock
}

func (m *memStore) stockSnapshot() map[string]int {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]int, len(m.products))
	for id, p := range m.products {
		out[id] = p.Stock
	}
	return out
}

func (m *memStore) setPrice(id, price string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products[id].Price = decimal.RequireFromString(price)
}

func (m *memStore) setActive(id string, active bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products[id].Active = active
}

func (m *memStore) removeProduct(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.products, id)
}

func (m *memStore) orderCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.orders)
}

// reservedByOpenOrders sums line quantities over non-terminal orders.
func (m *memStore) reservedByOpenOrders() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, o := range m.orders {
		if o.Status.IsTerminal() {
			continue
		}
		for _, l := range o.Items {
			total += l.Quantity
		}
	}
	return total
}

func (m *memStore) Do(ctx context.Context, fn func(ctx context.Context, catalog Catalog, ledger Repository) error) error {
	return fn(ctx, memCatalog{m}, memLedger{m})
}

type memCatalog struct{ m *memStore }

func (c memCatalog) GetByID(_ context.Context, id string) (*product.Product, error) {
	c.m.mu.Lock()
	defer c.m.mu.Unlock()
	p, ok := c.m.products[id]
	if !ok {
		return nil, product.ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

func (c memCatalog) AdjustStock(_ context.Context, id string, delta int) error {
	c.m.mu.Lock()
	hook := c.m.adjustHook
	c.m.mu.Unlock()
	if hook != nil {
		if err := hook(id, delta); err != nil {
			return err
		}
	}

	c.m.mu.Lock()
	defer c.m.mu.Unlock()
	p, ok := c.m.products[id]
	if !ok {
		return product.ErrProductNotFound
	}
	if p.Stock+delta < 0 {
		return product.ErrInsufficientStock
	}
	p.Stock += delta
	return nil
}

type memLedger struct{ m *memStore }

func (l memLedger) Insert(_ context.Context, o *Order) error {
	if l.m.insertHook != nil {
		if err := l.m.insertHook(o); err != nil {
			return err
		}
	}
	l.m.mu.Lock()
	defer l.m.mu.Unlock()
	for _, existing := range l.m.orders {
		if existing.OrderNumber == o.OrderNumber {
			return ErrDuplicateOrderNumber
		}
	}
	l.m.clock = l.m.clock.Add(time.Second)
	o.CreatedAt = l.m.clock
	o.UpdatedAt = l.m.clock
	l.m.orders[o.ID] = cloneOrder(o)
	return nil
}

func (l memLedger) GetByID(_ context.Context, id string) (*Order, error) {
	l.m.mu.Lock()
	defer l.m.mu.Unlock()
	o, ok := l.m.orders[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	return l.resolve(o), nil
}

// resolve copies o and attaches product summaries; callers hold the lock.
func (l memLedger) resolve(o *Order) *Order {
	out := cloneOrder(o)
	for i := range out.Items {
		if p, ok := l.m.products[out.Items[i].ProductID]; ok {
			out.Items[i].Product = &ProductSummary{ID: p.ID, Name: p.Name, Price: p.Price, ImageURL: p.ImageURL}
		}
	}
	return out
}

func (l memLedger) List(_ context.Context, filter ListFilter) ([]Order, int, error) {
	l.m.mu.Lock()
	defer l.m.mu.Unlock()

	all := []Order{}
	for _, o := range l.m.orders {
		if filter.Status != nil && o.Status != *filter.Status {
			continue
		}
		all = append(all, *l.resolve(o))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	total := len(all)
	if filter.Skip >= len(all) {
		return []Order{}, total, nil
	}
	all = all[filter.Skip:]
	if filter.Limit < len(all) {
		all = all[:filter.Limit]
	}
	return all, total, nil
}

func (l memLedger) Update(_ context.Context, o *Order, replaceItems bool) error {
	if l.m.updateHook != nil {
		if err := l.m.updateHook(o); err != nil {
			return err
		}
	}
	l.m.mu.Lock()
	defer l.m.mu.Unlock()
	existing, ok := l.m.orders[o.ID]
	if !ok {
		return ErrOrderNotFound
	}
	next := cloneOrder(o)
	if !replaceItems {
		next.Items = existing.Items
		next.TotalAmount = existing.TotalAmount
	}
	l.m.clock = l.m.clock.Add(time.Second)
	next.UpdatedAt = l.m.clock
	l.m.orders[o.ID] = next
	return nil
}

func (l memLedger) UpdateStatus(_ context.Context, id string, status Status) error {
	l.m.mu.Lock()
	defer l.m.mu.Unlock()
	o, ok := l.m.orders[id]
	if !ok {
		return ErrOrderNotFound
	}
	o.Status = status
	return nil
}

func (l memLedger) Delete(_ context.Context, id string) error {
	if l.m.deleteHook != nil {
		if err := l.m.deleteHook(id); err != nil {
			return err
		}
	}
	l.m.mu.Lock()
	defer l.m.mu.Unlock()
	if _, ok := l.m.orders[id]; !ok {
		return ErrOrderNotFound
	}
	delete(l.m.orders, id)
	return nil
}

func cloneOrder(o *Order) *Order {
	cp := *o
	cp.Items = make([]LineItem, len(o.Items))
	for i, item := range o.Items {
		item.Product = nil
		cp.Items[i] = item
	}
	return &cp
}
