package place

// Position is a cell on the square grid in integer coordinates.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Manhattan returns the L1 distance between two positions.
func Manhattan(a, b Position) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

// Placement is an ordered list of access point positions. A valid placement
// keeps all positions inside the grid and pairwise distinct.
type Placement []Position

// Clone returns an independent copy of the placement.
func (p Placement) Clone() Placement {
	out := make(Placement, len(p))
	copy(out, p)
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
