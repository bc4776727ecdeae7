package services

import (
	"context"
	"fmt"
	"grid-dispatch-service/internal/domain"
	"strings"
)

// PlanCourierRoute builds the full multi-stop route for everything a courier carries.
//
// Orders are grouped by restaurant in first-seen order. Restaurant pickups
// are ordered with the strategy starting from the courier's position, and
// each restaurant's deliveries are ordered with the strategy starting from
// that restaurant. The resulting stop list (pickup, then its deliveries) is
// composed into one path.
func PlanCourierRoute(
	ctx context.Context,
	env DispatchEnv,
	courier *domain.Courier,
	orders []*domain.Order,
	strategyName string,
	h Heuristic,
) (domain.Path, error) {
	if courier == nil {
		return domain.Path{}, fmt.Errorf("plan courier route: courier must be non-nil: %w", domain.ErrInvalidInput)
	}

	stops, err := courierStops(env, courier, orders, strategyName)
	if err != nil {
		return domain.Path{}, fmt.Errorf("plan courier route: courier %s: %w", courier.ID, err)
	}
	if len(stops) == 0 {
		return domain.Path{}, nil
	}

	path, err := env.Finder.Compose(ctx, env.Grid, courier.Position, stops, h)
	if err != nil {
		return domain.Path{}, fmt.Errorf("plan courier route: courier %s: %w", courier.ID, err)
	}
	return path, nil
}

func courierStops(env DispatchEnv, courier *domain.Courier, orders []*domain.Order, strategyName string) ([]domain.Stop, error) {
	strategy := env.strategies().Resolve(strategyName)

	groups := make(map[string][]domain.Stop)
	var pickups []domain.Stop

	for _, o := range orders {
		key := strings.ToLower(o.RestaurantID)
		if _, ok := groups[key]; !ok {
			r, found := env.Restaurants.Restaurant(o.RestaurantID)
			if !found {
				return nil, fmt.Errorf("order %d: unknown restaurant id %q: %w", o.ID, o.RestaurantID, domain.ErrInvalidInput)
			}
			pickups = append(pickups, domain.Stop{
				Point: r.Location,
				Label: key,
				Role:  domain.StopPickup,
			})
			groups[key] = nil
		}
		groups[key] = append(groups[key], domain.Stop{
			Point:   o.Destination,
			Label:   o.Label,
			Role:    domain.StopDelivery,
			OrderID: o.ID,
		})
	}

	var stops []domain.Stop
	for _, pickup := range strategy.Order(pickups, courier.Position) {
		stops = append(stops, pickup)
		stops = append(stops, strategy.Order(groups[pickup.Label], pickup.Point)...)
	}
	return stops, nil
}
