package controllers

import (
	"context"
	"sync"
	"time"

	"bagbanter-api/src/apperrors"
	"bagbanter-api/src/services/inventory"
	"bagbanter-api/src/services/order/domain"
	"bagbanter-api/src/services/stats"
)

type fakeOrderService struct {
	mu          sync.Mutex
	orders      map[string]*domain.Order
	created     []domain.NewOrder
	transitions int
	err         error
}

func newFakeOrderService(orders ...domain.Order) *fakeOrderService {
	f := &fakeOrderService{orders: map[string]*domain.Order{}}
	for i := range orders {
		o := orders[i]
		f.orders[o.ID] = &o
	}
	return f
}

func (f *fakeOrderService) CreateOrder(_ context.Context, order domain.NewOrder) (*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := order.Validate(); err != nil {
		return nil, err
	}
	f.created = append(f.created, order)
	o := &domain.Order{ID: "new-order", Customer: order.Customer, Items: order.Items, Total: order.Total, Status: domain.StatusPending}
	f.orders[o.ID] = o
	return o, nil
}

func (f *fakeOrderService) GetOrder(_ context.Context, id string) (*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return nil, apperrors.NotFound("order", id)
	}
	return o, nil
}

func (f *fakeOrderService) ListOrders(context.Context) ([]domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.Order{}
	for _, o := range f.orders {
		out = append(out, *o)
	}
	return out, nil
}

func (f *fakeOrderService) TransitionStatus(_ context.Context, id, status string) (*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.transitions++
	if f.err != nil {
		return nil, f.err
	}
	o, ok := f.orders[id]
	if !ok {
		return nil, apperrors.NotFound("order", id)
	}
	target, err := domain.ParseStatus(status)
	if err != nil {
		return nil, err
	}
	o.Status = target
	return o, nil
}

func (f *fakeOrderService) ReconcileFulfillment(ctx context.Context, id string) (*domain.Order, error) {
	return f.GetOrder(ctx, id)
}

func (f *fakeOrderService) DeleteOrder(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.orders[id]; !ok {
		return apperrors.NotFound("order", id)
	}
	delete(f.orders, id)
	return nil
}

func (f *fakeOrderService) ReplayFailedEvents(context.Context) (domain.ReplayReport, error) {
	return domain.ReplayReport{Replayed: 2}, nil
}

type fakeInventoryService struct {
	inventory.InventoryService
	products map[string]inventory.Product
}

func (f *fakeInventoryService) GetProduct(_ context.Context, id string) (*inventory.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, apperrors.NotFound("product", id)
	}
	return &p, nil
}

func (f *fakeInventoryService) ListProducts(_ context.Context, category string) ([]inventory.Product, error) {
	out := []inventory.Product{}
	for _, p := range f.products {
		if category == "" || category == "all" || p.Category == category {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeInventoryService) LowStockProducts(_ context.Context, threshold int) ([]inventory.Product, error) {
	if threshold < 0 {
		return nil, apperrors.Validation("threshold cannot be negative")
	}
	return []inventory.Product{}, nil
}

func (f *fakeInventoryService) AddProduct(_ context.Context, product inventory.Product) (*inventory.Product, error) {
	if err := product.Validate(); err != nil {
		return nil, err
	}
	product.ID = "p-new"
	f.products[product.ID] = product
	return &product, nil
}

type fakeStatsService struct {
	err error
}

func (f *fakeStatsService) Dashboard(context.Context) (*stats.Dashboard, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &stats.Dashboard{TotalRevenue: 120, TotalProductsSold: 4, ChartData: []stats.DayRevenue{{Day: "Mon", Amount: 120}}}, nil
}

type memoryRevocations struct {
	mu      sync.Mutex
	revoked map[string]bool
}

func (m *memoryRevocations) Revoke(_ context.Context, id string, _ time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revoked[id] = true
	return nil
}

func (m *memoryRevocations) IsRevoked(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.revoked[id], nil
}
