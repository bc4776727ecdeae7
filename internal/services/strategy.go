package services

import (
	"grid-dispatch-service/internal/domain"
	"strings"
)

const (
	StrategyInOrder         = "IN_ORDER"
	StrategyNearestNeighbor = "NEAREST_NEIGHBOR"
)

// DeliveryStrategy decides the visiting sequence of stops before a route is composed.
type DeliveryStrategy interface {
	Name() string
	// Order returns a new slice; the input is never modified.
	Order(stops []domain.Stop, start domain.Point) []domain.Stop
}

// InOrder visits stops exactly as given.
type InOrder struct{}

func (InOrder) Name() string { return StrategyInOrder }

func (InOrder) Order(stops []domain.Stop, _ domain.Point) []domain.Stop {
	return append([]domain.Stop(nil), stops...)
}

// StrategyRegistry resolves strategies by name.
type StrategyRegistry struct {
	byName map[string]DeliveryStrategy
	names  []string // registration order
}

func NewStrategyRegistry(strategies ...DeliveryStrategy) *StrategyRegistry {
	r := &StrategyRegistry{byName: make(map[string]DeliveryStrategy, len(strategies))}
	for _, s := range strategies {
		r.Register(s)
	}
	return r
}

// DefaultStrategies registers IN_ORDER and NEAREST_NEIGHBOR.
func DefaultStrategies() *StrategyRegistry {
	return NewStrategyRegistry(InOrder{}, NearestNeighbor{})
}

// Register adds s, replacing any strategy with the same name.
func (r *StrategyRegistry) Register(s DeliveryStrategy) {
	key := strings.ToUpper(s.Name())
	if _, ok := r.byName[key]; !ok {
		r.names = append(r.names, key)
	}
	r.byName[key] = s
}

func (r *StrategyRegistry) Names() []string {
	return append([]string(nil), r.names...)
}

// Default is IN_ORDER when registered, otherwise the first registered strategy.
func (r *StrategyRegistry) Default() DeliveryStrategy {
	if s, ok := r.byName[StrategyInOrder]; ok {
		return s
	}
	if len(r.names) > 0 {
		return r.byName[r.names[0]]
	}
	return InOrder{}
}

// Resolve is case-insensitive and falls back to Default for unknown names.
func (r *StrategyRegistry) Resolve(name string) DeliveryStrategy {
	if s, ok := r.byName[strings.ToUpper(strings.TrimSpace(name))]; ok {
		return s
	}
	return r.Default()
}

func (r *StrategyRegistry) OrderStops(name string, stops []domain.Stop, start domain.Point) []domain.Stop {
	return r.Resolve(name).Order(stops, start)
}
