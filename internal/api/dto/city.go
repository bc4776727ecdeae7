package dto

type CityCellResponse struct {
	X        int     `json:"x"`
	Y        int     `json:"y"`
	Type     string  `json:"type"`
	Obstacle bool    `json:"obstacle"`
	Weight   float64 `json:"weight"`
}

type CityLayoutResponse struct {
	Width   int                `json:"width"`
	Height  int                `json:"height"`
	Version uint64             `json:"version"`
	Cells   []CityCellResponse `json:"cells"`
}

type OverrideCellsRequest struct {
	Cells []CellRequest `json:"cells"`
}

type OverrideCellsResponse struct {
	Version uint64 `json:"version"`
	Applied int    `json:"applied"`
}

type RestaurantResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

type ListRestaurantsResponse struct {
	Restaurants []RestaurantResponse `json:"restaurants"`
}
