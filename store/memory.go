package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"modesta/models"
)

// Memory is an in-process Store. RunInTx holds the write lock for the
// whole callback and restores a snapshot if the callback fails, so the
// callback must only use the Tx it is given.
type Memory struct {
	mu       sync.RWMutex
	products map[string]models.Product
	carts    map[string]models.Cart // by user
	coupons  map[string]models.Coupon
	orders   []models.Order
}

func NewMemory() *Memory {
	return &Memory{
		products: make(map[string]models.Product),
		carts:    make(map[string]models.Cart),
		coupons:  make(map[string]models.Coupon),
	}
}

// PutProduct inserts or replaces a product.
func (m *Memory) PutProduct(p models.Product) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products[p.ID] = p
}

func (m *Memory) GetProduct(_ context.Context, id string) (*models.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (m *Memory) GetProducts(_ context.Context, ids []string) (map[string]*models.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]*models.Product, len(ids))
	for _, id := range ids {
		if p, ok := m.products[id]; ok {
			out[id] = &p
		}
	}
	return out, nil
}

func (m *Memory) GetCart(_ context.Context, userID string) (*models.Cart, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.carts[userID]
	if !ok {
		return nil, ErrNotFound
	}
	c.Items = append([]models.CartItem(nil), c.Items...)
	return &c, nil
}

func (m *Memory) SaveCart(_ context.Context, cart *models.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *cart
	c.Items = append([]models.CartItem{}, cart.Items...)
	m.carts[cart.UserID] = c
	return nil
}

func (m *Memory) FindCoupon(_ context.Context, code string) (*models.Coupon, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	code = NormalizeCode(code)
	for _, c := range m.coupons {
		if c.Code == code {
			return &c, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) GetCoupon(_ context.Context, id string) (*models.Coupon, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.coupons[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (m *Memory) ListCoupons(_ context.Context) ([]models.Coupon, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Coupon, 0, len(m.coupons))
	for _, c := range m.coupons {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *Memory) codeTaken(code, exceptID string) bool {
	for id, c := range m.coupons {
		if c.Code == code && id != exceptID {
			return true
		}
	}
	return false
}

func (m *Memory) CreateCoupon(_ context.Context, c *models.Coupon) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.coupons[c.ID]; ok || m.codeTaken(c.Code, "") {
		return ErrDuplicate
	}
	m.coupons[c.ID] = *c
	return nil
}

func (m *Memory) UpdateCoupon(_ context.Context, id string, p CouponPatch, now time.Time) (*models.Coupon, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.coupons[id]
	if !ok {
		return nil, ErrNotFound
	}
	p.Apply(&c)
	if m.codeTaken(c.Code, id) {
		return nil, ErrDuplicate
	}
	c.UpdatedAt = now
	m.coupons[id] = c
	return &c, nil
}

func (m *Memory) DeleteCoupon(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.coupons[id]; !ok {
		return ErrNotFound
	}
	delete(m.coupons, id)
	return nil
}

// newestFirst returns orders matching keep, most recent first.
func (m *Memory) newestFirst(keep func(models.Order) bool) []models.Order {
	out := []models.Order{}
	for i := len(m.orders) - 1; i >= 0; i-- {
		if keep(m.orders[i]) {
			out = append(out, m.orders[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (m *Memory) ListOrdersByUser(_ context.Context, userID string) ([]models.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.newestFirst(func(o models.Order) bool { return o.UserID == userID }), nil
}

func (m *Memory) ListOrders(_ context.Context, f OrderFilter) ([]models.Order, int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	all := m.newestFirst(func(o models.Order) bool { return f.Status == "" || o.Status == f.Status })
	total := int64(len(all))

	start := f.Skip
	if start > total {
		start = total
	}
	end := total
	if f.Limit > 0 && start+f.Limit < end {
		end = start + f.Limit
	}
	return all[start:end], total, nil
}

func (m *Memory) GetOrder(_ context.Context, id string) (*models.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, o := range m.orders {
		if o.ID == id {
			return &o, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) UpdateOrderStatus(_ context.Context, id string, status models.OrderStatus, now time.Time) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.orders {
		if m.orders[i].ID == id {
			m.orders[i].Status = status
			m.orders[i].UpdatedAt = now
			o := m.orders[i]
			return &o, nil
		}
	}
	return nil, ErrNotFound
}

type memSnapshot struct {
	products map[string]models.Product
	carts    map[string]models.Cart
	coupons  map[string]models.Coupon
	orders   int
}

func (m *Memory) snapshot() memSnapshot {
	s := memSnapshot{
		products: make(map[string]models.Product, len(m.products)),
		carts:    make(map[string]models.Cart, len(m.carts)),
		coupons:  make(map[string]models.Coupon, len(m.coupons)),
		orders:   len(m.orders),
	}
	for k, v := range m.products {
		s.products[k] = v
	}
	for k, v := range m.carts {
		s.carts[k] = v
	}
	for k, v := range m.coupons {
		s.coupons[k] = v
	}
	return s
}

func (m *Memory) restore(s memSnapshot) {
	m.products = s.products
	m.carts = s.carts
	m.coupons = s.coupons
	m.orders = m.orders[:s.orders]
}

func (m *Memory) RunInTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := m.snapshot()
	if err := fn(ctx, memTx{m}); err != nil {
		m.restore(snap)
		return err
	}
	return nil
}

// memTx runs with m.mu already held by RunInTx.
type memTx struct {
	m *Memory
}

func (t memTx) DecrementStock(_ context.Context, productID string, qty int) (bool, error) {
	p, ok := t.m.products[productID]
	if !ok || p.Stock < qty {
		return false, nil
	}
	p.Stock -= qty
	t.m.products[productID] = p
	return true, nil
}

func (t memTx) RedeemCoupon(_ context.Context, code string, now time.Time) (bool, error) {
	code = NormalizeCode(code)
	for id, c := range t.m.coupons {
		if c.Code != code {
			continue
		}
		if !c.IsActive || (!c.ExpiresAt.IsZero() && now.After(c.ExpiresAt)) {
			return false, nil
		}
		if c.MaxUses != models.UnlimitedUses && c.UsedCount >= c.MaxUses {
			return false, nil
		}
		c.UsedCount++
		c.UpdatedAt = now
		t.m.coupons[id] = c
		return true, nil
	}
	return false, nil
}

func (t memTx) InsertOrder(_ context.Context, o *models.Order) error {
	for _, existing := range t.m.orders {
		if existing.ID == o.ID {
			return ErrDuplicate
		}
	}
	t.m.orders = append(t.m.orders, *o)
	return nil
}

func (t memTx) ClearCart(_ context.Context, userID string, now time.Time) error {
	c, ok := t.m.carts[userID]
	if !ok {
		return nil
	}
	c.Items = []models.CartItem{}
	c.UpdatedAt = now
	t.m.carts[userID] = c
	return nil
}
