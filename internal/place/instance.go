package place

import (
	"fmt"
	"math/rand"
)

// Config holds the parameters that define a placement problem.
type Config struct {
	GridSize     int   // side length of the square grid
	Clients      int   // number of client positions to draw
	AccessPoints int   // number of access points to place
	Seed         int64 // seed for the instance's random stream
}

// Instance is a placement problem: a square grid, a fixed set of client
// positions, and a seeded random stream used for placement sampling.
// The client set is drawn once at construction and never changes.
type Instance struct {
	gridSize int
	apCount  int
	clients  []Position
	rng      *rand.Rand
}

// NewInstance validates the configuration, seeds the random stream and
// draws the client set. The access point count must fit on the grid so
// that a pairwise-distinct placement always exists.
func NewInstance(cfg Config) (*Instance, error) {
	if cfg.GridSize < 1 {
		return nil, fmt.Errorf("grid size must be at least 1, got %d", cfg.GridSize)
	}
	if cfg.Clients < 0 {
		return nil, fmt.Errorf("client count cannot be negative, got %d", cfg.Clients)
	}
	if cfg.AccessPoints < 1 {
		return nil, fmt.Errorf("access point count must be at least 1, got %d", cfg.AccessPoints)
	}
	if cells := cfg.GridSize * cfg.GridSize; cfg.AccessPoints > cells {
		return nil, fmt.Errorf("cannot place %d distinct access points on a %dx%d grid",
			cfg.AccessPoints, cfg.GridSize, cfg.GridSize)
	}

	inst := &Instance{
		gridSize: cfg.GridSize,
		apCount:  cfg.AccessPoints,
		rng:      rand.New(rand.NewSource(cfg.Seed)),
	}
	inst.clients = inst.sampleClients(cfg.Clients)
	return inst, nil
}

// sampleClients draws n grid cells and drops duplicates. Collisions shrink
// the client set below n; the survivors keep their draw order.
func (in *Instance) sampleClients(n int) []Position {
	seen := make(map[Position]bool, n)
	clients := make([]Position, 0, n)
	for i := 0; i < n; i++ {
		p := in.randomPosition()
		if seen[p] {
			continue
		}
		seen[p] = true
		clients = append(clients, p)
	}
	return clients
}

// RandomPlacement samples a placement of exactly AccessPoints pairwise-
// distinct positions, redrawing on collision. Termination is guaranteed by
// the AccessPoints <= GridSize^2 check in NewInstance.
func (in *Instance) RandomPlacement() Placement {
	seen := make(map[Position]bool, in.apCount)
	placement := make(Placement, 0, in.apCount)
	for len(placement) < in.apCount {
		p := in.randomPosition()
		if seen[p] {
			continue
		}
		seen[p] = true
		placement = append(placement, p)
	}
	return placement
}

func (in *Instance) randomPosition() Position {
	return Position{
		X: in.rng.Intn(in.gridSize),
		Y: in.rng.Intn(in.gridSize),
	}
}

func (in *Instance) inBounds(p Position) bool {
	return p.X >= 0 && p.X < in.gridSize && p.Y >= 0 && p.Y < in.gridSize
}

// GridSize returns the side length of the grid.
func (in *Instance) GridSize() int {
	return in.gridSize
}

// AccessPoints returns the number of access points each placement holds.
func (in *Instance) AccessPoints() int {
	return in.apCount
}

// Clients returns a copy of the client set.
func (in *Instance) Clients() []Position {
	out := make([]Position, len(in.clients))
	copy(out, in.clients)
	return out
}
