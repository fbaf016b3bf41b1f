package cell

import "fmt"

// Unreachable is the travel time between sites with no link. It exceeds any
// real distance and any match length.
const Unreachable = 1 << 20

// Graph holds the symmetric travel-time matrix. It is fixed for the match.
type Graph struct {
	n    int
	dist []int // flat [i*n + j]
}

// NewGraph returns a graph of n sites with only self distances defined.
func NewGraph(n int) *Graph {
	g := &Graph{n: n, dist: make([]int, n*n)}
	for i := range g.dist {
		g.dist[i] = Unreachable
	}
	for i := range n {
		g.dist[i*n+i] = 0
	}
	return g
}

// Link sets the travel time between a and b in both directions.
func (g *Graph) Link(a, b, distance int) error {
	if !g.valid(a) || !g.valid(b) {
		return fmt.Errorf("cell: link %d-%d: %w", a, b, ErrUnknownSite)
	}
	if a == b {
		return fmt.Errorf("cell: link %d-%d: self link", a, b)
	}
	if distance <= 0 {
		return fmt.Errorf("cell: link %d-%d: distance %d must be positive", a, b, distance)
	}
	g.dist[a*g.n+b] = distance
	g.dist[b*g.n+a] = distance
	return nil
}

// Size returns the number of sites.
func (g *Graph) Size() int {
	return g.n
}

// Distance returns the travel time from a to b, Unreachable if there is no link.
func (g *Graph) Distance(a, b int) int {
	if !g.valid(a) || !g.valid(b) {
		return Unreachable
	}
	return g.dist[a*g.n+b]
}

// Reachable reports whether a force can travel from a to b.
func (g *Graph) Reachable(a, b int) bool {
	return a != b && g.Distance(a, b) < Unreachable
}

// Closeness returns 1/travelTime, or 0 for self and unreachable pairs.
func (g *Graph) Closeness(a, b int) float64 {
	if !g.Reachable(a, b) {
		return 0
	}
	return 1.0 / float64(g.Distance(a, b))
}

func (g *Graph) valid(i int) bool {
	return i >= 0 && i < g.n
}
