package services

import (
	"context"
	"errors"
	"fmt"
	"grid-dispatch-service/internal/domain"
	"grid-dispatch-service/internal/platform/obs"
	"grid-dispatch-service/internal/ports"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// City is the terrain the fleet drives on.
type City interface {
	ports.GridSource
	ports.RestaurantLocator
}

type FleetConfig struct {
	Heuristic       Heuristic
	Strategy        string
	PenaltyPerOrder float64
	ProbeWorkers    int
	Strategies      *StrategyRegistry
}

// Fleet owns the order/courier state machine.
//
// Assign and Step hold the same lock for their whole read-score-commit
// sequence, so two dispatches cannot both claim a stale "best" courier and a
// tick never interleaves with an assignment on the same courier.
type Fleet struct {
	mu sync.Mutex

	store  ports.FleetStore
	city   City
	finder *PathFinder
	events ports.EventPublisher
	cfg    FleetConfig
	now    func() time.Time
}

func NewFleet(
	store ports.FleetStore,
	city City,
	finder *PathFinder,
	events ports.EventPublisher,
	cfg FleetConfig,
) *Fleet {
	if cfg.Strategies == nil {
		cfg.Strategies = DefaultStrategies()
	}
	if finder == nil {
		finder = NewPathFinder(nil)
	}
	return &Fleet{
		store:  store,
		city:   city,
		finder: finder,
		events: events,
		cfg:    cfg,
		now:    time.Now,
	}
}

func (f *Fleet) Finder() *PathFinder              { return f.finder }
func (f *Fleet) Strategies() *StrategyRegistry    { return f.cfg.Strategies }
func (f *Fleet) Restaurants() []domain.Restaurant { return f.city.Restaurants() }

// Env snapshots the current grid for one dispatch.
func (f *Fleet) Env() DispatchEnv {
	return DispatchEnv{
		Grid:            f.city.Grid(),
		Restaurants:     f.city,
		Finder:          f.finder,
		Strategies:      f.cfg.Strategies,
		Orders:          f.store,
		Heuristic:       f.cfg.Heuristic,
		Strategy:        f.cfg.Strategy,
		PenaltyPerOrder: f.cfg.PenaltyPerOrder,
		ProbeWorkers:    f.cfg.ProbeWorkers,
	}
}

// CreateOrder validates the restaurant and destination and stores a NEW order.
func (f *Fleet) CreateOrder(ctx context.Context, restaurantID string, dest domain.Point, label string) (_ *domain.Order, err error) {
	defer obs.Time(ctx, "fleet.CreateOrder")(&err)

	restaurantID = strings.TrimSpace(restaurantID)
	if restaurantID == "" {
		return nil, fmt.Errorf("create order: restaurant_id is required: %w", domain.ErrInvalidInput)
	}
	r, ok := f.city.Restaurant(restaurantID)
	if !ok {
		return nil, fmt.Errorf("create order: unknown restaurant id %q: %w", restaurantID, domain.ErrInvalidInput)
	}
	if !f.city.Grid().Contains(dest) {
		return nil, fmt.Errorf("create order: coordinates out of bounds: %s: %w", dest, domain.ErrInvalidInput)
	}

	id, err := f.store.NextOrderID(ctx)
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	order := domain.NewOrder(id, r.ID, dest, strings.TrimSpace(label), f.now())
	if err := f.store.SaveOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	f.publish(ctx, domain.DispatchEvent{Type: domain.EventOrderCreated, OrderID: order.ID})
	return order, nil
}

// Assign dispatches a stored order to the best courier and commits the result.
func (f *Fleet) Assign(ctx context.Context, orderID int64) (*domain.Order, *domain.Courier, domain.Path, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	order, err := f.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, nil, domain.Path{}, fmt.Errorf("assign order: %w", err)
	}

	couriers, err := f.store.ListCouriers(ctx)
	if err != nil {
		return nil, nil, domain.Path{}, fmt.Errorf("assign order: list couriers: %w", err)
	}

	courier, route, err := AssignBestCourier(ctx, f.Env(), order, couriers)
	if err != nil {
		return nil, nil, domain.Path{}, fmt.Errorf("assign order: %w", err)
	}

	if err := f.store.CommitAssignment(ctx, order, courier); err != nil {
		return nil, nil, domain.Path{}, fmt.Errorf("assign order: commit: %w", err)
	}

	evt := domain.DispatchEvent{Type: domain.EventOrderAssigned, OrderID: order.ID, CourierID: courier.ID}
	if route.Feasible() {
		evt.Distance = route.Distance
	}
	f.publish(ctx, evt)

	// A route that is only the courier's own cell leaves nothing for a tick
	// to consume, so the delivery completes now.
	if route.Feasible() && len(courier.ActivePath) == 0 {
		if err := f.deliverInPlace(ctx, courier); err != nil {
			return nil, nil, domain.Path{}, fmt.Errorf("assign order: %w", err)
		}
		if order, err = f.store.GetOrder(ctx, order.ID); err != nil {
			return nil, nil, domain.Path{}, fmt.Errorf("assign order: %w", err)
		}
	}

	return order, courier, route, nil
}

func (f *Fleet) deliverInPlace(ctx context.Context, courier *domain.Courier) error {
	ids, err := deliveryNotifier{f: f}.MarkDeliveredForCourier(ctx, courier.ID)
	if err != nil {
		return fmt.Errorf("deliver in place: courier %s: %w", courier.ID, err)
	}
	courier.Clear()
	if err := f.store.SaveCourier(ctx, courier); err != nil {
		return fmt.Errorf("deliver in place: save courier %s: %w", courier.ID, err)
	}
	log.Printf("assign: courier=%s already at destination %s delivered=%v", courier.ID, courier.Position, ids)
	return nil
}

// Step advances the whole fleet by one tick.
func (f *Fleet) Step(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	couriers, err := f.store.ListCouriers(ctx)
	if err != nil {
		return fmt.Errorf("step fleet: list couriers: %w", err)
	}

	Tick(ctx, couriers, deliveryNotifier{f: f})

	var errs []error
	for _, c := range couriers {
		if err := f.store.SaveCourier(ctx, c); err != nil {
			errs = append(errs, fmt.Errorf("step fleet: save courier %s: %w", c.ID, err))
		}
	}
	return errors.Join(errs...)
}

// Run ticks the fleet every interval until ctx is cancelled.
func (f *Fleet) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := f.Step(ctx); err != nil {
				log.Printf("sim tick failed: %v", err)
			}
		}
	}
}

// CourierRoute recomputes a courier's route over its current orders without
// storing it. Empty names fall back to the fleet's configured heuristic/strategy.
func (f *Fleet) CourierRoute(ctx context.Context, courierID, heuristic, strategy string) (*domain.Courier, []*domain.Order, domain.Path, error) {
	courier, err := f.store.GetCourier(ctx, courierID)
	if err != nil {
		return nil, nil, domain.Path{}, fmt.Errorf("courier route: %w", err)
	}

	orders := make([]*domain.Order, 0, len(courier.AssignedOrderIDs))
	for _, id := range courier.AssignedOrderIDs {
		o, err := f.store.GetOrder(ctx, id)
		if err != nil {
			return nil, nil, domain.Path{}, fmt.Errorf("courier route: courier %s: %w", courierID, err)
		}
		orders = append(orders, o)
	}

	h := f.cfg.Heuristic
	if heuristic != "" {
		h = ParseHeuristic(heuristic)
	}
	if strategy == "" {
		strategy = f.cfg.Strategy
	}

	path, err := PlanCourierRoute(ctx, f.Env(), courier, orders, strategy, h)
	if err != nil {
		return nil, nil, domain.Path{}, fmt.Errorf("courier route: %w", err)
	}
	return courier, orders, path, nil
}

func (f *Fleet) publish(ctx context.Context, evt domain.DispatchEvent) {
	if f.events == nil {
		return
	}
	evt.ID = uuid.NewString()
	evt.OccurredAt = f.now().UTC()

	if err := f.events.Publish(ctx, evt); err != nil {
		log.Printf("publish event failed type=%s order=%d err=%v", evt.Type, evt.OrderID, err)
	}
}

// deliveryNotifier marks orders delivered in the store and announces each one.
type deliveryNotifier struct {
	f *Fleet
}

func (n deliveryNotifier) MarkDeliveredForCourier(ctx context.Context, courierID string) ([]int64, error) {
	ids, err := n.f.store.MarkDeliveredForCourier(ctx, courierID)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		n.f.publish(ctx, domain.DispatchEvent{Type: domain.EventOrderDelivered, OrderID: id, CourierID: courierID})
	}
	return ids, nil
}
