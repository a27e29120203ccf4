package place

import "math"

// Score evaluates a placement as the negated sum of Manhattan distances
// from each client to its nearest access point. Higher is better; zero is
// the ceiling, reached when every client sits under an access point (or
// when the client set is empty). An empty placement leaves every client
// unserved and scores negative infinity.
func (in *Instance) Score(p Placement) float64 {
	if len(in.clients) == 0 {
		return 0
	}
	if len(p) == 0 {
		return math.Inf(-1)
	}
	total := 0
	for _, c := range in.clients {
		total += nearestDistance(c, p)
	}
	return -float64(total)
}

// MeanClientDistance returns the average Manhattan distance from a client
// to its nearest access point, or zero when there are no clients.
func (in *Instance) MeanClientDistance(p Placement) float64 {
	if len(in.clients) == 0 {
		return 0
	}
	if len(p) == 0 {
		return math.Inf(1)
	}
	total := 0
	for _, c := range in.clients {
		total += nearestDistance(c, p)
	}
	return float64(total) / float64(len(in.clients))
}

// NearestAccessPoint returns the access point of p closest to c, breaking
// distance ties in favour of the earliest position in the placement.
func NearestAccessPoint(c Position, p Placement) Position {
	best := p[0]
	bestDist := Manhattan(c, p[0])
	for _, ap := range p[1:] {
		if d := Manhattan(c, ap); d < bestDist {
			best = ap
			bestDist = d
		}
	}
	return best
}

func nearestDistance(c Position, p Placement) int {
	best := Manhattan(c, p[0])
	for _, ap := range p[1:] {
		if d := Manhattan(c, ap); d < best {
			best = d
		}
	}
	return best
}
