package main

import "log"

// largeGraphNodes is the node count above which building is reported as slow.
const largeGraphNodes = 1000

// LineOfSight decides whether two map points can see each other.
type LineOfSight interface {
	HasClearLineOfSight(a, b Point) bool
}

// wallList is a LineOfSight over a plain wall slice, without an index.
type wallList []LineSegment

func (w wallList) HasClearLineOfSight(a, b Point) bool {
	return HasClearLineOfSight(a, b, w)
}

// BuildVisibilityGraph constructs a visibility graph over the waypoints plus
// start and end. Start is always node 0; end is node 1 unless it coincides
// with start. Points with identical coordinates collapse into one node.
func BuildVisibilityGraph(start, end Point, waypoints []Point, sight LineOfSight) (*Graph, int, int) {
	graph := newGraph(len(waypoints) + 2)

	startIdx := graph.addNode(start)
	endIdx := graph.addNode(end)
	for _, wp := range waypoints {
		graph.addNode(wp)
	}

	totalNodes := len(graph.Nodes)
	totalPossibleEdges := (totalNodes * (totalNodes - 1)) / 2
	log.Printf("   Unique nodes: %d\n", totalNodes)
	log.Printf("   Checking up to %d possible edges...\n", totalPossibleEdges)
	if totalNodes > largeGraphNodes {
		log.Printf("⚠️  WARNING: %d nodes, %d edge checks may take a while\n", totalNodes, totalPossibleEdges)
	}

	connectAll(graph, sight)

	if len(graph.Edges[startIdx]) == 0 {
		log.Println("   ⚠️  Start point has no line of sight to any node")
	}
	if endIdx != startIdx && len(graph.Edges[endIdx]) == 0 {
		log.Println("   ⚠️  End point has no line of sight to any node")
	}

	return graph, startIdx, endIdx
}

// BuildWaypointGraph constructs the visibility graph over waypoints alone,
// used to inspect a floor's connectivity.
func BuildWaypointGraph(waypoints []Point, sight LineOfSight) *Graph {
	graph := newGraph(len(waypoints))
	for _, wp := range waypoints {
		graph.addNode(wp)
	}
	connectAll(graph, sight)
	return graph
}

// connectAll links every pair of nodes that have line of sight.
// Pairs are visited in ascending ID order so adjacency lists come out sorted.
func connectAll(graph *Graph, sight LineOfSight) {
	edgesAdded := 0
	for i := 0; i < len(graph.Nodes); i++ {
		for j := i + 1; j < len(graph.Nodes); j++ {
			nodeI, nodeJ := graph.Nodes[i], graph.Nodes[j]
			if sight.HasClearLineOfSight(nodeI, nodeJ) {
				graph.addEdge(i, j, nodeI.Distance(nodeJ))
				edgesAdded++
			}
		}
	}
	log.Printf("   Edges added: %d\n", edgesAdded)
}
