package terrain

import (
	"grid-dispatch-service/internal/domain"
	"grid-dispatch-service/internal/ports"
)

const (
	CityWidth  = 30
	CityHeight = 20

	riverY      = 8
	parkWeight  = 1.4
	roadWeight  = 0.7
	mainRoadCol = 5
	mainRoadRow = 4
)

type CellType string

const (
	CellRoad     CellType = "ROAD"
	CellBuilding CellType = "BUILDING"
	CellPark     CellType = "PARK"
	CellRiver    CellType = "RIVER"
)

type rect struct{ x1, y1, x2, y2 int }

var (
	bridges   = []int{7, 20}
	buildings = []rect{
		{2, 5, 6, 8},
		{2, 10, 7, 15},
		{18, 2, 24, 5},
		{18, 11, 24, 17},
	}
	parks = []rect{
		{10, 2, 14, 6},
		{10, 12, 14, 16},
	}
)

// DefaultRestaurants are the restaurants of the built-in city.
func DefaultRestaurants() []domain.Restaurant {
	return []domain.Restaurant{
		{ID: "pizzaplanet", Name: "Pizza Planet", Location: domain.Point{X: 5, Y: 4}},
		{ID: "sushihouse", Name: "Sushi House", Location: domain.Point{X: 15, Y: 4}},
		{ID: "burgerworld", Name: "Burger World", Location: domain.Point{X: 20, Y: 10}},
	}
}

// DefaultCouriers are the couriers on shift when nothing else is seeded.
func DefaultCouriers() []ports.CourierSeed {
	return []ports.CourierSeed{
		{ID: "c1", Name: "Anna", X: 1, Y: 4},
		{ID: "c2", Name: "Jamal", X: 10, Y: 10},
		{ID: "c3", Name: "Sofie", X: 20, Y: 6},
	}
}

// buildLayout draws the built-in city: a river with two bridges, building
// blocks, slow parks and two fast main roads. Later features overwrite
// earlier ones, so the main roads cut through anything they cross except the
// river row.
func buildLayout() (*domain.Grid, [][]CellType) {
	grid, _ := domain.NewGrid(CityWidth, CityHeight)

	types := make([][]CellType, CityHeight)
	for y := range types {
		types[y] = make([]CellType, CityWidth)
		for x := range types[y] {
			types[y][x] = CellRoad
		}
	}

	for x := 0; x < CityWidth; x++ {
		grid.SetObstacle(x, riverY, true)
		types[riverY][x] = CellRiver
	}
	for _, x := range bridges {
		grid.SetObstacle(x, riverY, false)
		types[riverY][x] = CellRoad
	}

	for _, b := range buildings {
		for x := b.x1; x <= b.x2; x++ {
			for y := b.y1; y <= b.y2; y++ {
				grid.SetObstacle(x, y, true)
				types[y][x] = CellBuilding
			}
		}
	}

	for _, p := range parks {
		for x := p.x1; x <= p.x2; x++ {
			for y := p.y1; y <= p.y2; y++ {
				grid.SetWeight(x, y, parkWeight)
				types[y][x] = CellPark
			}
		}
	}

	for y := 0; y < CityHeight; y++ {
		if y == riverY {
			continue
		}
		grid.SetObstacle(mainRoadCol, y, false)
		grid.SetWeight(mainRoadCol, y, roadWeight)
		types[y][mainRoadCol] = CellRoad
	}
	for x := 0; x < CityWidth; x++ {
		grid.SetObstacle(x, mainRoadRow, false)
		grid.SetWeight(x, mainRoadRow, roadWeight)
		types[mainRoadRow][x] = CellRoad
	}

	return grid, types
}
