package services

import (
	"context"
	"fmt"
	"grid-dispatch-service/internal/domain"
	"grid-dispatch-service/internal/platform/obs"
	"grid-dispatch-service/internal/ports"
	"log"
	"math"

	"golang.org/x/sync/errgroup"
)

const (
	DefaultLoadPenalty  = 15.0
	DefaultProbeWorkers = 4
)

// DispatchEnv carries everything a dispatch decision reads.
// Grid is a snapshot and must not change while the dispatch runs.
type DispatchEnv struct {
	Grid        *domain.Grid
	Restaurants ports.RestaurantLocator
	Finder      *PathFinder
	Strategies  *StrategyRegistry
	// Looks up orders already carried by the chosen courier.
	Orders ports.OrderRepository

	// Scoring heuristic and the strategy used for the courier's full route.
	Heuristic       Heuristic
	Strategy        string
	PenaltyPerOrder float64
	ProbeWorkers    int
}

func (e DispatchEnv) strategies() *StrategyRegistry {
	if e.Strategies == nil {
		return DefaultStrategies()
	}
	return e.Strategies
}

type courierProbe struct {
	feasible bool
	cost     float64 // courier -> restaurant
}

// AssignBestCourier picks the courier with the lowest estimated cost for a NEW order.
//
// Each courier is probed with two searches (courier -> restaurant and
// restaurant -> customer); couriers with an unreachable leg are excluded.
// The score adds PenaltyPerOrder for every order the courier already
// carries, and ties go to the earlier courier in the roster.
//
// On success the order and the chosen courier are updated together: the
// order becomes ASSIGNED, the courier's order list grows and its active
// path is replaced by the route over all of its orders. On failure neither
// is touched.
func AssignBestCourier(
	ctx context.Context,
	env DispatchEnv,
	order *domain.Order,
	couriers []*domain.Courier,
) (_ *domain.Courier, _ domain.Path, err error) {
	defer obs.Time(ctx, "dispatch.AssignBestCourier")(&err)

	if order == nil {
		return nil, domain.Path{}, fmt.Errorf("assign courier: order must be non-nil: %w", domain.ErrInvalidInput)
	}
	if order.Status != domain.OrderNew {
		return nil, domain.Path{}, fmt.Errorf("assign courier: order %d is not NEW (current status: %s): %w", order.ID, order.Status, domain.ErrInvalidState)
	}
	if len(couriers) == 0 {
		return nil, domain.Path{}, fmt.Errorf("assign courier: no couriers available for order %d: %w", order.ID, domain.ErrInvalidState)
	}

	restaurant, ok := env.Restaurants.Restaurant(order.RestaurantID)
	if !ok {
		return nil, domain.Path{}, fmt.Errorf("assign courier: unknown restaurant id %q: %w", order.RestaurantID, domain.ErrInvalidInput)
	}

	// Restaurant -> customer is the same for every courier.
	delivery, err := env.Finder.Find(ctx, env.Grid, restaurant.Location, order.Destination, env.Heuristic)
	if err != nil {
		return nil, domain.Path{}, fmt.Errorf("assign courier: order %d delivery leg: %w", order.ID, err)
	}
	if !delivery.Feasible() {
		return nil, domain.Path{}, fmt.Errorf("assign courier: order %d destination unreachable from %s: %w", order.ID, restaurant.ID, domain.ErrNoFeasibleCourier)
	}

	probes, err := probeCouriers(ctx, env, restaurant.Location, couriers)
	if err != nil {
		return nil, domain.Path{}, fmt.Errorf("assign courier: order %d: %w", order.ID, err)
	}

	best := -1
	bestScore := math.Inf(1)
	for i, p := range probes {
		if !p.feasible {
			continue
		}
		score := p.cost + delivery.Distance + env.PenaltyPerOrder*float64(couriers[i].Load())
		if score < bestScore {
			best, bestScore = i, score
		}
	}
	if best < 0 {
		return nil, domain.Path{}, fmt.Errorf("assign courier: order %d: %w", order.ID, domain.ErrNoFeasibleCourier)
	}

	chosen := couriers[best]

	carried, err := carriedOrders(ctx, env, chosen)
	if err != nil {
		return nil, domain.Path{}, fmt.Errorf("assign courier: order %d: %w", order.ID, err)
	}

	// The new order is routed as if already assigned; nothing is mutated until the route exists.
	pending := order.Clone()
	if err := pending.AssignTo(chosen.ID); err != nil {
		return nil, domain.Path{}, fmt.Errorf("assign courier: %w", err)
	}

	route, err := PlanCourierRoute(ctx, env, chosen, append(carried, pending), env.Strategy, env.Heuristic)
	if err != nil {
		return nil, domain.Path{}, fmt.Errorf("assign courier: order %d: %w", order.ID, err)
	}
	if !route.Feasible() {
		log.Printf("assign courier: order=%d courier=%s full route infeasible, keeping partial path len=%d",
			order.ID, chosen.ID, len(route.Points))
	}

	*order = *pending
	chosen.AssignOrder(order.ID)
	chosen.SetRoute(route.Points)

	return chosen, route, nil
}

func probeCouriers(ctx context.Context, env DispatchEnv, restaurant domain.Point, couriers []*domain.Courier) ([]courierProbe, error) {
	probes := make([]courierProbe, len(couriers))

	workers := env.ProbeWorkers
	if workers <= 0 {
		workers = DefaultProbeWorkers
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, c := range couriers {
		pos, id := c.Position, c.ID
		g.Go(func() error {
			leg, err := env.Finder.Find(gctx, env.Grid, pos, restaurant, env.Heuristic)
			if err != nil {
				return fmt.Errorf("probe courier %s: %w", id, err)
			}
			if leg.Feasible() {
				probes[i] = courierProbe{feasible: true, cost: leg.Distance}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return probes, nil
}

func carriedOrders(ctx context.Context, env DispatchEnv, c *domain.Courier) ([]*domain.Order, error) {
	if len(c.AssignedOrderIDs) == 0 {
		return nil, nil
	}
	if env.Orders == nil {
		return nil, fmt.Errorf("courier %s carries orders but no order repository is configured", c.ID)
	}

	out := make([]*domain.Order, 0, len(c.AssignedOrderIDs)+1)
	for _, id := range c.AssignedOrderIDs {
		o, err := env.Orders.GetOrder(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("load carried order %d: %w", id, err)
		}
		out = append(out, o)
	}
	return out, nil
}
