package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"github.com/shopspring/decimal"
)

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestAddress() *domain.ShippingAddress {
	return &domain.ShippingAddress{Address: "12 MG Road", City: "Pune", State: "MH", Pincode: "411001"}
}

func newTestDraft(method domain.PaymentMethod) OrderDraft {
	return OrderDraft{
		Products:        []domain.OrderItem{{ProductID: 1, Quantity: 2}},
		Amount:          decimal.NewFromInt(1000),
		Email:           "buyer@example.com",
		PaymentMethod:   method,
		ShippingAddress: newTestAddress(),
	}
}

func newTestOrder(id uint64, status domain.OrderStatus) *domain.Order {
	return &domain.Order{
		ID:              id,
		Products:        []domain.OrderItem{{ProductID: 1, Quantity: 1}},
		Amount:          decimal.NewFromInt(1000),
		Email:           "buyer@example.com",
		PaymentMethod:   domain.PaymentUPI,
		Status:          status,
		ShippingAddress: *newTestAddress(),
		PaymentDetails:  domain.PaymentDetails{PaymentStatus: domain.PaymentPending, PaymentGateway: domain.GatewayPaytm},
		CreatedAt:       testNow.Add(-time.Hour),
	}
}

func newTestProduct(id uint64, category string, price int64) domain.Product {
	return domain.Product{ID: id, Name: "product", Category: category, Price: decimal.NewFromInt(price)}
}

func ptr[T any](v T) *T { return &v }

// memOrders is an in-memory OrderRepository with the same find-and-modify
// semantics as the gorm one.
type memOrders struct {
	mu     sync.Mutex
	nextID uint64
	rows   map[uint64]domain.Order
	clock  func() time.Time
}

var _ repository.OrderRepository = (*memOrders)(nil)

func newMemOrders(clock func() time.Time) *memOrders {
	return &memOrders{rows: map[uint64]domain.Order{}, clock: clock}
}

func (m *memOrders) Save(ctx context.Context, o *domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	o.ID = m.nextID
	if o.CreatedAt.IsZero() {
		o.CreatedAt = m.clock()
	}
	o.UpdatedAt = o.CreatedAt
	m.rows[o.ID] = *o
	return nil
}

func (m *memOrders) put(o domain.Order) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if o.ID > m.nextID {
		m.nextID = o.ID
	}
	m.rows[o.ID] = o
}

func (m *memOrders) FindByID(ctx context.Context, id uint64) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.rows[id]
	if !ok {
		return nil, nil
	}
	return &o, nil
}

func (m *memOrders) list(keep func(domain.Order) bool) []domain.Order {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Order{}
	for _, o := range m.rows {
		if keep(o) {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (m *memOrders) FindByEmail(ctx context.Context, email string) ([]domain.Order, error) {
	return m.list(func(o domain.Order) bool { return o.Email == email }), nil
}

func (m *memOrders) FindAll(ctx context.Context) ([]domain.Order, error) {
	return m.list(func(domain.Order) bool { return true }), nil
}

func (m *memOrders) FindAbandoned(ctx context.Context, method domain.PaymentMethod, createdBefore time.Time) ([]domain.Order, error) {
	return m.list(func(o domain.Order) bool {
		return o.Status == domain.StatusPending && o.PaymentMethod == method && o.CreatedAt.Before(createdBefore)
	}), nil
}

func (m *memOrders) UpdateStatus(ctx context.Context, id uint64, status domain.OrderStatus) (*domain.Order, error) {
	return m.update(id, func(o *domain.Order) { o.Status = status })
}

func (m *memOrders) Transition(ctx context.Context, id uint64, status domain.OrderStatus, payment domain.PaymentDetails) (*domain.Order, error) {
	return m.update(id, func(o *domain.Order) {
		o.Status = status
		o.PaymentDetails = payment
	})
}

func (m *memOrders) update(id uint64, apply func(*domain.Order)) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.rows[id]
	if !ok {
		return nil, nil
	}
	apply(&o)
	o.UpdatedAt = m.clock()
	m.rows[id] = o
	return &o, nil
}

func (m *memOrders) Delete(ctx context.Context, id uint64) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.rows[id]
	if !ok {
		return nil, nil
	}
	delete(m.rows, id)
	return &o, nil
}

// memProducts is an in-memory ProductRepository applying PriceUpdates with
// the same column rules as the gorm implementation.
type memProducts struct {
	mu      sync.Mutex
	rows    map[uint64]domain.Product
	batches int
}

var _ repository.ProductRepository = (*memProducts)(nil)

func newMemProducts(ps ...domain.Product) *memProducts {
	m := &memProducts{rows: map[uint64]domain.Product{}}
	for _, p := range ps {
		m.rows[p.ID] = p
	}
	return m
}

func (m *memProducts) get(id uint64) domain.Product {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rows[id]
}

func (m *memProducts) find(keep func(domain.Product) bool) []domain.Product {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Product{}
	for _, p := range m.rows {
		if keep(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func (m *memProducts) FindForDeal(ctx context.Context, categories []string, dealID uint64) ([]domain.Product, error) {
	return m.find(func(p domain.Product) bool {
		return contains(categories, p.Category) && (p.DealID == nil || *p.DealID != dealID)
	}), nil
}

func (m *memProducts) FindByDeal(ctx context.Context, dealID uint64) ([]domain.Product, error) {
	return m.find(func(p domain.Product) bool { return p.DealID != nil && *p.DealID == dealID }), nil
}

func (m *memProducts) CountByCategories(ctx context.Context, categories []string) (int64, error) {
	return int64(len(m.find(func(p domain.Product) bool { return contains(categories, p.Category) }))), nil
}

func (m *memProducts) Categories(ctx context.Context) ([]string, error) {
	seen := map[string]bool{}
	out := []string{}
	for _, p := range m.find(func(p domain.Product) bool { return p.Category != "" }) {
		if !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (m *memProducts) ApplyPriceUpdates(ctx context.Context, updates []domain.PriceUpdate) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batches++
	var n int64
	for _, u := range updates {
		p, ok := m.rows[u.ProductID]
		if !ok {
			continue
		}
		p.Price = u.Price
		if u.OldPrice.Valid {
			p.OldPrice = u.OldPrice
		}
		if u.Deal != nil {
			p.DealID = ptr(u.Deal.ID)
			p.DealDiscount = ptr(u.Deal.Discount)
			p.DealTitle = ptr(u.Deal.Title)
		} else {
			p.DealID, p.DealDiscount, p.DealTitle = nil, nil, nil
		}
		m.rows[p.ID] = p
		n++
	}
	return n, nil
}

// memDeals is an in-memory DealRepository.
type memDeals struct {
	mu     sync.Mutex
	nextID uint64
	rows   map[uint64]domain.Deal
}

var _ repository.DealRepository = (*memDeals)(nil)

func newMemDeals(ds ...domain.Deal) *memDeals {
	m := &memDeals{rows: map[uint64]domain.Deal{}}
	for _, d := range ds {
		m.rows[d.ID] = d
		if d.ID > m.nextID {
			m.nextID = d.ID
		}
	}
	return m
}

func (m *memDeals) first(keep func(domain.Deal) bool) *domain.Deal {
	m.mu.Lock()
	defer m.mu.Unlock()
	var best *domain.Deal
	for _, d := range m.rows {
		if keep(d) && (best == nil || d.ID < best.ID) {
			d := d
			best = &d
		}
	}
	return best
}

func (m *memDeals) get(id uint64) domain.Deal {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rows[id]
}

func (m *memDeals) FindCurrent(ctx context.Context) (*domain.Deal, error) {
	return m.first(func(domain.Deal) bool { return true }), nil
}

func (m *memDeals) FindActive(ctx context.Context) (*domain.Deal, error) {
	return m.first(func(d domain.Deal) bool { return d.IsActive }), nil
}

func (m *memDeals) FindExpiredActive(ctx context.Context, now time.Time) ([]domain.Deal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Deal{}
	for _, d := range m.rows {
		if d.IsActive && d.EndDate.Before(now) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (m *memDeals) Save(ctx context.Context, d *domain.Deal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d.ID == 0 {
		m.nextID++
		d.ID = m.nextID
	}
	stored := *d
	stored.ApplicableProducts = 0
	m.rows[d.ID] = stored
	return nil
}

func (m *memDeals) Deactivate(ctx context.Context, id uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d, ok := m.rows[id]; ok {
		d.IsActive = false
		m.rows[id] = d
	}
	return nil
}
