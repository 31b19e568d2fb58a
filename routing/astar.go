package routing

import (
	"container/heap"
)

// searchNode represents a node in the A* search over a visibility graph
type searchNode struct {
	nodeID string
	g      float64 // cost from start to this node
	h      float64 // heuristic cost from this node to end
	f      float64 // total cost (g + h)
	parent *searchNode
	index  int   // index in the heap
	seq    int64 // insertion order, breaks fScore ties FIFO
}

// priorityQueue implements heap.Interface for the A* open set. Ties on f are
// broken by insertion order (lower seq first), which keeps the chosen path
// deterministic when several equal-cost paths exist.
type priorityQueue []*searchNode

func (pq priorityQueue) Len() int { return len(pq) }

func (pq priorityQueue) Less(i, j int) bool {
	if pq[i].f != pq[j].f {
		return pq[i].f < pq[j].f
	}
	return pq[i].seq < pq[j].seq
}

func (pq priorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

func (pq *priorityQueue) Push(x interface{}) {
	n := len(*pq)
	node := x.(*searchNode)
	node.index = n
	*pq = append(*pq, node)
}

func (pq *priorityQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	node := old[n-1]
	old[n-1] = nil
	node.index = -1
	*pq = old[0 : n-1]
	return node
}

// neighbor is one directed adjacency entry.
type neighbor struct {
	to     string
	weight float64
}

// buildAdjacency expands the stored edge list into an adjacency map,
// duplicating every edge in both directions: the graph is logically
// undirected even though each edge is stored once.
func buildAdjacency(graph *VisibilityGraph) map[string][]neighbor {
	adj := make(map[string][]neighbor, len(graph.Nodes))
	for _, edge := range graph.Edges {
		adj[edge.From] = append(adj[edge.From], neighbor{to: edge.To, weight: edge.Weight})
		adj[edge.To] = append(adj[edge.To], neighbor{to: edge.From, weight: edge.Weight})
	}
	return adj
}

// findPath computes the minimum-cost node sequence from startID to endID
// using A*. The heuristic is Manhattan distance to the goal, which is
// admissible and consistent here: every edge weight is the exact Euclidean
// length of an axis-aligned segment, so the true remaining cost on the
// orthogonal graph is never less than |dx| + |dy|.
//
// Returns nil and false when either id is absent or the open set is
// exhausted without reaching the goal. All weights are non-negative, so the
// search always terminates.
func findPath(graph *VisibilityGraph, startID, endID string) ([]string, bool) {
	startVN, ok := graph.Nodes[startID]
	if !ok {
		return nil, false
	}
	endVN, ok := graph.Nodes[endID]
	if !ok {
		return nil, false
	}
	goal := endVN.Point

	adj := buildAdjacency(graph)

	openSet := &priorityQueue{}
	heap.Init(openSet)

	var seq int64
	startNode := &searchNode{
		nodeID: startID,
		g:      0,
		h:      startVN.Point.ManhattanDistance(goal),
		seq:    seq,
	}
	startNode.f = startNode.h
	heap.Push(openSet, startNode)

	closedSet := make(map[string]bool)
	openSetMap := map[string]*searchNode{startID: startNode}

	for openSet.Len() > 0 {
		current := heap.Pop(openSet).(*searchNode)
		delete(openSetMap, current.nodeID)

		if current.nodeID == endID {
			// Reconstruct path by walking parent pointers back to start.
			var path []string
			for node := current; node != nil; node = node.parent {
				path = append(path, node.nodeID)
			}
			for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
				path[i], path[j] = path[j], path[i]
			}
			return path, true
		}

		closedSet[current.nodeID] = true

		for _, edge := range adj[current.nodeID] {
			if closedSet[edge.to] {
				continue
			}

			tentativeG := current.g + edge.weight

			nb, exists := openSetMap[edge.to]
			if !exists {
				seq++
				nb = &searchNode{
					nodeID: edge.to,
					g:      tentativeG,
					h:      graph.Nodes[edge.to].Point.ManhattanDistance(goal),
					parent: current,
					seq:    seq,
				}
				nb.f = nb.g + nb.h
				heap.Push(openSet, nb)
				openSetMap[edge.to] = nb
			} else if tentativeG < nb.g {
				// Found a strictly better path to this neighbor.
				nb.g = tentativeG
				nb.f = nb.g + nb.h
				nb.parent = current
				heap.Fix(openSet, nb.index)
			}
		}
	}

	return nil, false
}
