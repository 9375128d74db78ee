package main

// Graph is an undirected, loopless, weighted graph over map points.
// Node IDs are indices into Nodes; Edges[i] lists the neighbours of node i
// in ascending ID order.
type Graph struct {
	Nodes []Point
	Edges [][]Edge
	index map[Point]int
}

// Edge represents a connection between two nodes with a cost
type Edge struct {
	To   int     // Index of the destination node
	Cost float64 // Euclidean distance in map units
}

func newGraph(capacity int) *Graph {
	return &Graph{
		Nodes: make([]Point, 0, capacity),
		Edges: make([][]Edge, 0, capacity),
		index: make(map[Point]int, capacity),
	}
}

// addNode inserts p unless a node with exactly the same coordinates exists,
// and returns the node ID either way.
func (g *Graph) addNode(p Point) int {
	if id, ok := g.index[p]; ok {
		return id
	}
	id := len(g.Nodes)
	g.Nodes = append(g.Nodes, p)
	g.Edges = append(g.Edges, nil)
	g.index[p] = id
	return id
}

func (g *Graph) addEdge(i, j int, cost float64) {
	g.Edges[i] = append(g.Edges[i], Edge{To: j, Cost: cost})
	g.Edges[j] = append(g.Edges[j], Edge{To: i, Cost: cost})
}

// NodeID returns the ID of the node at exactly p.
func (g *Graph) NodeID(p Point) (int, bool) {
	id, ok := g.index[p]
	return id, ok
}

// EdgeCost returns the weight of edge (i, j) if it exists.
func (g *Graph) EdgeCost(i, j int) (float64, bool) {
	if i < 0 || i >= len(g.Edges) {
		return 0, false
	}
	for _, e := range g.Edges[i] {
		if e.To == j {
			return e.Cost, true
		}
	}
	return 0, false
}

// EdgeCount returns the number of undirected edges.
func (g *Graph) EdgeCount() int {
	n := 0
	for _, edges := range g.Edges {
		n += len(edges)
	}
	return n / 2
}

// Lines returns every undirected edge once as a two-point segment, for
// plotting.
func (g *Graph) Lines() [][]Point {
	lines := make([][]Point, 0, g.EdgeCount())
	for i, edges := range g.Edges {
		for _, e := range edges {
			if i < e.To {
				lines = append(lines, []Point{g.Nodes[i], g.Nodes[e.To]})
			}
		}
	}
	return lines
}
