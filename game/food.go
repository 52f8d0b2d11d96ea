package game

// FoodItem is the cosmetic look of a food; it has no gameplay effect
type FoodItem struct {
	Name  string
	Color string
	Shape rune
}

// Food is the single food cell on the board
type Food struct {
	Cell
	Item FoodItem
}

// FoodItems is the palette food looks are drawn from
var FoodItems = []FoodItem{
	{Name: "Cherry", Color: "#EF4444", Shape: '●'},
	{Name: "Triangle", Color: "#F59E0B", Shape: '▲'},
	{Name: "Square", Color: "#10B981", Shape: '■'},
	{Name: "Diamond", Color: "#3B82F6", Shape: '◆'},
	{Name: "Star", Color: "#8B5CF6", Shape: '★'},
	{Name: "Heart", Color: "#EC4899", Shape: '♥'},
	{Name: "Club", Color: "#06B6D4", Shape: '♣'},
	{Name: "Leaf", Color: "#84CC16", Shape: '▲'},
}

// SpawnFood places food on a cell not covered by body. Random draws are tried up to
// SpawnAttempts times; after that every free cell is collected and one is picked uniformly.
// Returns false when body covers the whole grid.
func (e *Engine) SpawnFood(body []Cell) (Food, bool) {
	g := e.cfg.Grid
	occ := newOccupancy(body)
	item := FoodItems[e.rng.Intn(len(FoodItems))]

	if len(occ) < g.Area() {
		for i := 0; i < e.cfg.SpawnAttempts; i++ {
			c := Cell{X: e.rng.Intn(g.Cols), Y: e.rng.Intn(g.Rows)}
			if !occ.has(c) {
				return Food{Cell: c, Item: item}, true
			}
		}
	}

	free := make([]Cell, 0, g.Area()-len(occ))
	for y := 0; y < g.Rows; y++ {
		for x := 0; x < g.Cols; x++ {
			c := Cell{X: x, Y: y}
			if !occ.has(c) {
				free = append(free, c)
			}
		}
	}
	if len(free) == 0 {
		return Food{}, false
	}
	return Food{Cell: free[e.rng.Intn(len(free))], Item: item}, true
}
