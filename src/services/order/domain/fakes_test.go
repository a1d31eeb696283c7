package domain

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"bagbanter-api/src/infrastructure/log"
	"bagbanter-api/src/services/inventory"
	"bagbanter-api/src/services/order/domain/persistence"
)

var errStorageDown = errors.New("no reachable servers")

// fakeOrderStore keeps orders in memory with the same conditional-write
// semantics as the Mongo repository.
type fakeOrderStore struct {
	mu     sync.Mutex
	orders map[string]persistence.OrderDocument
	events []persistence.OrderEvent

	getErr     error
	casErr     error
	createErr  error
	releaseErr error
	markErr    error
	// beforeCAS runs ahead of every compare-and-set, standing in for a competing writer.
	beforeCAS func()
	casCalls  int
}

func newFakeOrderStore(docs ...persistence.OrderDocument) *fakeOrderStore {
	s := &fakeOrderStore{orders: map[string]persistence.OrderDocument{}}
	for _, d := range docs {
		if d.StockAdjusted == nil {
			d.StockAdjusted = []int{}
		}
		s.orders[d.ID] = d
	}
	return s
}

func clone(d persistence.OrderDocument) *persistence.OrderDocument {
	d.Items = append([]persistence.ItemDocument(nil), d.Items...)
	d.StockAdjusted = append([]int{}, d.StockAdjusted...)
	d.StockFailed = append([]int(nil), d.StockFailed...)
	return &d
}

func (s *fakeOrderStore) get(id string) persistence.OrderDocument {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *clone(s.orders[id])
}

func (s *fakeOrderStore) CreateOrder(_ context.Context, order *persistence.OrderDocument) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return s.createErr
	}
	s.orders[order.ID] = *clone(*order)
	return nil
}

func (s *fakeOrderStore) GetOrderByID(_ context.Context, id string) (*persistence.OrderDocument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return nil, s.getErr
	}
	d, ok := s.orders[id]
	if !ok {
		return nil, nil
	}
	return clone(d), nil
}

func (s *fakeOrderStore) ListOrders(_ context.Context) ([]persistence.OrderDocument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []persistence.OrderDocument{}
	for _, d := range s.orders {
		out = append(out, *clone(d))
	}
	// newest first, like the repository
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].CreatedAt.After(out[j-1].CreatedAt); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out, nil
}

func (s *fakeOrderStore) CompareAndSetStatus(_ context.Context, id, from, to string, at time.Time) (bool, error) {
	if s.beforeCAS != nil {
		s.beforeCAS()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.casCalls++
	if s.casErr != nil {
		return false, s.casErr
	}
	d, ok := s.orders[id]
	if !ok || d.Status != from {
		return false, nil
	}
	d.Status = to
	if to == string(StatusDelivered) {
		d.DeliveredAt = &at
	}
	s.orders[id] = d
	return true, nil
}

func (s *fakeOrderStore) ClaimItem(_ context.Context, id string, index int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.orders[id]
	if !ok {
		return false, nil
	}
	for _, i := range d.StockAdjusted {
		if i == index {
			return false, nil
		}
	}
	d.StockAdjusted = append(append([]int{}, d.StockAdjusted...), index)
	s.orders[id] = d
	return true, nil
}

func (s *fakeOrderStore) ReleaseItem(_ context.Context, id string, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.releaseErr != nil {
		return s.releaseErr
	}
	d := s.orders[id]
	kept := []int{}
	for _, i := range d.StockAdjusted {
		if i != index {
			kept = append(kept, i)
		}
	}
	d.StockAdjusted = kept
	s.orders[id] = d
	return nil
}

func (s *fakeOrderStore) MarkItemFailed(_ context.Context, id string, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.markErr != nil {
		return s.markErr
	}
	d := s.orders[id]
	for _, i := range d.StockFailed {
		if i == index {
			return nil
		}
	}
	d.StockFailed = append(append([]int(nil), d.StockFailed...), index)
	s.orders[id] = d
	return nil
}

func (s *fakeOrderStore) ResolveFailedItem(_ context.Context, id string, index int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.orders[id]
	kept := []int{}
	for _, i := range d.StockFailed {
		if i != index {
			kept = append(kept, i)
		}
	}
	if len(kept) == len(d.StockFailed) {
		return false, nil
	}
	d.StockFailed = kept
	s.orders[id] = d
	return true, nil
}

func (s *fakeOrderStore) DeleteOrder(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orders[id]; !ok {
		return false, nil
	}
	delete(s.orders, id)
	return true, nil
}

func (s *fakeOrderStore) StoreEventForReplay(_ context.Context, orderID, topic string, eventData []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, persistence.OrderEvent{
		ID: orderID + ":" + topic, OrderID: orderID, Topic: topic, EventData: eventData, Status: persistence.EventStatusFailed,
	})
	return nil
}

func (s *fakeOrderStore) GetUnreplayedEvents(_ context.Context, limit int64) ([]persistence.OrderEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []persistence.OrderEvent{}
	for _, e := range s.events {
		if e.Status == persistence.EventStatusFailed && int64(len(out)) < limit {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *fakeOrderStore) setEventStatus(id, from, to string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.events {
		if s.events[i].ID == id && (from == "" || s.events[i].Status == from) {
			s.events[i].Status = to
			return true
		}
	}
	return false
}

func (s *fakeOrderStore) MarkEventAsReplaying(_ context.Context, id string) (bool, error) {
	return s.setEventStatus(id, persistence.EventStatusFailed, persistence.EventStatusReplaying), nil
}

func (s *fakeOrderStore) MarkEventAsCompleted(_ context.Context, id string) error {
	s.setEventStatus(id, "", persistence.EventStatusCompleted)
	return nil
}

func (s *fakeOrderStore) MarkEventAsFailed(_ context.Context, id string) error {
	s.setEventStatus(id, "", persistence.EventStatusFailed)
	return nil
}

// fakeInventory applies sales to in-memory products with inventory.ApplySale.
type fakeInventory struct {
	mu       sync.Mutex
	products map[string]*inventory.Product
	failFor  map[string]bool
	calls    int
}

func newFakeInventory(products ...inventory.Product) *fakeInventory {
	inv := &fakeInventory{products: map[string]*inventory.Product{}, failFor: map[string]bool{}}
	for i := range products {
		p := products[i]
		inv.products[p.ID] = &p
	}
	return inv
}

func (f *fakeInventory) RecordSale(_ context.Context, productID, color string, quantity int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.failFor[productID] {
		return false, errStorageDown
	}
	p, ok := f.products[productID]
	if !ok {
		return false, nil
	}
	return inventory.ApplySale(p, color, quantity), nil
}

func (f *fakeInventory) product(id string) inventory.Product {
	f.mu.Lock()
	defer f.mu.Unlock()
	return *f.products[id]
}

type fakePublisher struct {
	mu        sync.Mutex
	published map[string][][]byte
	err       error
}

func newFakePublisher() *fakePublisher {
	return &fakePublisher{published: map[string][][]byte{}}
}

func (p *fakePublisher) Publish(topic string, body []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.published[topic] = append(p.published[topic], body)
	return nil
}

func (p *fakePublisher) count(topic string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.published[topic])
}

func quietLogger() log.Logger {
	return log.NewLoggerWithWriter("panic", io.Discard)
}
