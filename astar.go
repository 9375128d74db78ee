package main

import (
	"container/heap"
	"fmt"
)

// Node represents a node in the A* search for visibility graph
type Node struct {
	NodeID int     // ID of the node in the graph
	G      float64 // Cost from start to this node
	H      float64 // Heuristic cost from this node to end
	F      float64 // Total cost (G + H)
	Parent *Node
	Index  int    // Index in the heap
	Seq    uint64 // Order in which the node was last queued
}

// PriorityQueue implements heap.Interface for A* algorithm.
// Equal F values are broken by larger G (deeper along a path), then by
// queueing order, so expansion is reproducible.
type PriorityQueue []*Node

func (pq PriorityQueue) Len() int { return len(pq) }

func (pq PriorityQueue) Less(i, j int) bool {
	if pq[i].F != pq[j].F {
		return pq[i].F < pq[j].F
	}
	if pq[i].G != pq[j].G {
		return pq[i].G > pq[j].G
	}
	return pq[i].Seq < pq[j].Seq
}

func (pq PriorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].Index = i
	pq[j].Index = j
}

func (pq *PriorityQueue) Push(x interface{}) {
	n := len(*pq)
	node := x.(*Node)
	node.Index = n
	*pq = append(*pq, node)
}

func (pq *PriorityQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	node := old[n-1]
	old[n-1] = nil
	node.Index = -1
	*pq = old[0 : n-1]
	return node
}

// AStarPathOnGraph computes the shortest path from startIdx to endIdx.
// It returns ErrNoPath when the frontier empties without reaching endIdx.
func AStarPathOnGraph(graph *Graph, startIdx, endIdx int) ([]Point, error) {
	if graph == nil || len(graph.Nodes) == 0 {
		return nil, fmt.Errorf("empty graph: %w", ErrNoPath)
	}
	if startIdx < 0 || startIdx >= len(graph.Nodes) || endIdx < 0 || endIdx >= len(graph.Nodes) {
		return nil, fmt.Errorf("node %d or %d not in graph: %w", startIdx, endIdx, ErrNoPath)
	}

	endPoint := graph.Nodes[endIdx]
	var seq uint64

	openSet := &PriorityQueue{}
	heap.Init(openSet)

	h := graph.Nodes[startIdx].Distance(endPoint)
	startNode := &Node{
		NodeID: startIdx,
		G:      0,
		H:      h,
		F:      h,
	}
	heap.Push(openSet, startNode)

	closedSet := make(map[int]bool)
	openSetMap := make(map[int]*Node)
	openSetMap[startIdx] = startNode

	var reached *Node
	for openSet.Len() > 0 {
		current := heap.Pop(openSet).(*Node)
		delete(openSetMap, current.NodeID)

		if current.NodeID == endIdx {
			reached = current
			break
		}

		closedSet[current.NodeID] = true

		// Explore neighbors
		for _, edge := range graph.Edges[current.NodeID] {
			neighborID := edge.To

			if closedSet[neighborID] {
				continue
			}

			tentativeG := current.G + edge.Cost

			neighbor, exists := openSetMap[neighborID]
			if !exists {
				seq++
				neighbor = &Node{
					NodeID: neighborID,
					G:      tentativeG,
					H:      graph.Nodes[neighborID].Distance(endPoint),
					Parent: current,
					Seq:    seq,
				}
				neighbor.F = neighbor.G + neighbor.H
				heap.Push(openSet, neighbor)
				openSetMap[neighborID] = neighbor
			} else if tentativeG < neighbor.G {
				// Found a better path to this neighbor
				seq++
				neighbor.G = tentativeG
				neighbor.F = neighbor.G + neighbor.H
				neighbor.Parent = current
				neighbor.Seq = seq
				heap.Fix(openSet, neighbor.Index)
			}
		}
	}

	if reached == nil {
		return nil, ErrNoPath
	}

	path := []Point{}
	for node := reached; node != nil; node = node.Parent {
		path = append(path, graph.Nodes[node.NodeID])
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path, nil
}
