package repositories

import (
	"context"
	"fmt"
	"grid-dispatch-service/internal/domain"
	"slices"
	"strings"
	"sync"
	"time"
)

// In-memory implementation of the FleetStore port.
//
// Records are copied on the way in and on the way out, so callers can mutate
// what they receive without affecting stored state.
type MemoryStore struct {
	mu       sync.RWMutex
	orders   map[int64]*domain.Order
	couriers map[string]*domain.Courier
	roster   []string // courier ids in insertion order
	nextID   int64
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		orders:   make(map[int64]*domain.Order),
		couriers: make(map[string]*domain.Courier),
		nextID:   1,
		now:      time.Now,
	}
}

func (s *MemoryStore) NextOrderID(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	return id, nil
}

func (s *MemoryStore) GetOrder(_ context.Context, id int64) (*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.orders[id]
	if !ok {
		return nil, fmt.Errorf("get order: order %d: %w", id, domain.ErrNotFound)
	}
	return o.Clone(), nil
}

func (s *MemoryStore) SaveOrder(_ context.Context, order *domain.Order) error {
	if order == nil {
		return fmt.Errorf("save order: order is nil: %w", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.putOrder(order)
	return nil
}

func (s *MemoryStore) ListOrders(_ context.Context) ([]*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Order, 0, len(s.orders))
	for _, o := range s.orders {
		out = append(out, o.Clone())
	}
	slices.SortFunc(out, func(a, b *domain.Order) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	return out, nil
}

func (s *MemoryStore) GetCourier(_ context.Context, id string) (*domain.Courier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.couriers[strings.TrimSpace(id)]
	if !ok {
		return nil, fmt.Errorf("get courier: unknown courier id %q: %w", id, domain.ErrNotFound)
	}
	return c.Clone(), nil
}

func (s *MemoryStore) SaveCourier(_ context.Context, courier *domain.Courier) error {
	if courier == nil || courier.ID == "" {
		return fmt.Errorf("save courier: courier id is required: %w", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.putCourier(courier)
	return nil
}

func (s *MemoryStore) ListCouriers(_ context.Context) ([]*domain.Courier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Courier, 0, len(s.roster))
	for _, id := range s.roster {
		out = append(out, s.couriers[id].Clone())
	}
	return out, nil
}

func (s *MemoryStore) CommitAssignment(_ context.Context, order *domain.Order, courier *domain.Courier) error {
	if order == nil || courier == nil {
		return fmt.Errorf("commit assignment: order and courier are required: %w", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.couriers[courier.ID]; !ok {
		return fmt.Errorf("commit assignment: unknown courier id %q: %w", courier.ID, domain.ErrNotFound)
	}
	s.putOrder(order)
	s.putCourier(courier)
	return nil
}

// MarkDeliveredForCourier delivers every ASSIGNED order held by the courier.
func (s *MemoryStore) MarkDeliveredForCourier(_ context.Context, courierID string) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	var delivered []int64
	for id, o := range s.orders {
		if o.AssignedCourierID != courierID || o.Status != domain.OrderAssigned {
			continue
		}
		if err := o.MarkDelivered(now); err != nil {
			return delivered, fmt.Errorf("mark delivered: %w", err)
		}
		delivered = append(delivered, id)
	}
	slices.Sort(delivered)
	return delivered, nil
}

func (s *MemoryStore) putOrder(o *domain.Order) {
	s.orders[o.ID] = o.Clone()
}

func (s *MemoryStore) putCourier(c *domain.Courier) {
	if _, ok := s.couriers[c.ID]; !ok {
		s.roster = append(s.roster, c.ID)
	}
	s.couriers[c.ID] = c.Clone()
}
