package place

// moveOffsets is the fixed probe order for single-step moves. The order is
// load-bearing: Climb resolves score ties by adopting the first best
// neighbor in enumeration order.
var moveOffsets = [4]Position{{X: -1}, {X: 1}, {Y: -1}, {Y: 1}}

// Neighbors enumerates every placement reachable from p by moving exactly
// one access point one cell along an axis. Moves that leave the grid or
// land on another access point of the same placement are skipped, so every
// neighbor is itself a valid placement. The input is never mutated and the
// returned placements share no storage with it.
//
// Enumeration order: access points in placement order, and per access
// point the offsets (-1,0), (+1,0), (0,-1), (0,+1).
func (in *Instance) Neighbors(p Placement) []Placement {
	occupied := make(map[Position]bool, len(p))
	for _, ap := range p {
		occupied[ap] = true
	}

	neighbors := make([]Placement, 0, 4*len(p))
	for i, ap := range p {
		for _, off := range moveOffsets {
			moved := Position{X: ap.X + off.X, Y: ap.Y + off.Y}
			if !in.inBounds(moved) || occupied[moved] {
				continue
			}
			next := p.Clone()
			next[i] = moved
			neighbors = append(neighbors, next)
		}
	}
	return neighbors
}
