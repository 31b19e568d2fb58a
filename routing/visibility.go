package routing

import (
	"fmt"
	"log/slog"

	"github.com/paulmach/orb"
)

// visibilityBuilder accumulates nodes in a deterministic insertion order so
// that edge construction (and therefore tied-path choice downstream) is
// reproducible for a fixed input.
type visibilityBuilder struct {
	graph   *VisibilityGraph
	order   []string         // node ids in insertion order
	byCoord map[Point]string // first node claimed at each coordinate
}

func newVisibilityBuilder() *visibilityBuilder {
	return &visibilityBuilder{
		graph: &VisibilityGraph{
			Nodes: make(map[string]VisibilityNode),
		},
		byCoord: make(map[Point]string),
	}
}

// addNode registers a node unless its coordinate is already claimed by an
// earlier node. Returns false if the point was already occupied.
func (b *visibilityBuilder) addNode(node VisibilityNode) bool {
	if _, taken := b.byCoord[node.Point]; taken {
		return false
	}
	b.graph.Nodes[node.ID] = node
	b.order = append(b.order, node.ID)
	b.byCoord[node.Point] = node.ID
	return true
}

// buildVisibilityGraph constructs a visibility graph from the obstacle set
// and the two query endpoints. Every obstacle is expanded by the clearance
// padding before visibility tests. Nodes are the endpoints (reserved ids
// "start" and "end"), the padded obstacle corners, and Hanan-grid waypoints
// at the intersections of node coordinate lines; edges connect every
// mutually visible axis-aligned node pair.
//
// The graph is always returned, even when start or end ends up isolated;
// reporting "no path" is the path finder's job.
func buildVisibilityGraph(obstacles []Obstacle, start, end Point, padding float64, logger *slog.Logger) *VisibilityGraph {
	b := newVisibilityBuilder()

	b.addNode(VisibilityNode{ID: startNodeID, Point: start, Kind: KindStart})
	if !b.addNode(VisibilityNode{ID: endNodeID, Point: end, Kind: KindEnd}) {
		// Degenerate request with start == end: keep both reserved ids
		// present, sharing the coordinate.
		b.graph.Nodes[endNodeID] = VisibilityNode{ID: endNodeID, Point: end, Kind: KindEnd}
		b.order = append(b.order, endNodeID)
	}

	// Obstacles fully contained in another obstacle's padded bounds cannot
	// affect any route but would inflate the grid; drop them up front.
	kept, bounds := dropContainedObstacles(obstacles, padding)
	if n := len(obstacles) - len(kept); n > 0 {
		logger.Debug("dropped contained obstacles", "count", n)
	}

	for _, obst := range kept {
		for i, c := range corners(paddedBound(obst.Bounds, padding)) {
			b.addNode(VisibilityNode{
				ID:         fmt.Sprintf("corner:%s:%d", obst.ID, i),
				Point:      c,
				Kind:       KindCorner,
				ObstacleID: obst.ID,
			})
		}
	}

	b.addWaypoints(bounds)
	b.buildEdges(bounds)

	logger.Debug("visibility graph built",
		"nodes", len(b.graph.Nodes),
		"edges", len(b.graph.Edges),
		"obstacles", len(kept))

	return b.graph
}

// addWaypoints places waypoint nodes on the Hanan grid spanned by the
// existing node coordinates. Orthogonal routing needs these turn candidates:
// two nodes that share neither coordinate are only reachable through them.
// Points strictly inside a padded obstacle are skipped, as are points
// already claimed by an endpoint or corner node.
func (b *visibilityBuilder) addWaypoints(bounds []orb.Bound) {
	xs := make([]float64, 0, len(b.order))
	ys := make([]float64, 0, len(b.order))
	for _, id := range b.order {
		p := b.graph.Nodes[id].Point
		xs = appendCoord(xs, p.X)
		ys = appendCoord(ys, p.Y)
	}

	wp := 0
	for _, x := range xs {
		for _, y := range ys {
			p := Point{X: x, Y: y}
			if insideAny(p, bounds) {
				continue
			}
			if b.addNode(VisibilityNode{
				ID:    fmt.Sprintf("wp:%d", wp),
				Point: p,
				Kind:  KindWaypoint,
			}) {
				wp++
			}
		}
	}
}

// buildEdges connects every pair of nodes that share an x or y coordinate
// and have a clear sight line. Each edge is stored exactly once; the reverse
// direction is synthesized during adjacency construction. Pairs sharing both
// coordinates would be self-referential (zero length) and are skipped.
func (b *visibilityBuilder) buildEdges(bounds []orb.Bound) {
	for i := 0; i < len(b.order); i++ {
		pi := b.graph.Nodes[b.order[i]].Point
		for j := i + 1; j < len(b.order); j++ {
			pj := b.graph.Nodes[b.order[j]].Point

			sameX := sameCoord(pi.X, pj.X)
			sameY := sameCoord(pi.Y, pj.Y)
			if sameX == sameY {
				// Neither axis-aligned nor a real segment.
				continue
			}
			if !isSightLineClear(pi, pj, bounds) {
				continue
			}

			dir := Horizontal
			if sameX {
				dir = Vertical
			}
			b.graph.Edges = append(b.graph.Edges, VisibilityEdge{
				From:      b.order[i],
				To:        b.order[j],
				Weight:    pi.Distance(pj),
				Direction: dir,
			})
		}
	}
}

// dropContainedObstacles removes obstacles whose padded bounds are fully
// contained within another obstacle's padded bounds, returning the kept
// obstacles and their padded bounds.
func dropContainedObstacles(obstacles []Obstacle, padding float64) ([]Obstacle, []orb.Bound) {
	all := make([]orb.Bound, len(obstacles))
	for i, obst := range obstacles {
		all[i] = paddedBound(obst.Bounds, padding)
	}

	contained := make([]bool, len(obstacles))
	for i := range obstacles {
		for j := range obstacles {
			if i == j || contained[j] {
				continue
			}
			if boundContainedIn(all[i], all[j]) {
				contained[i] = true
				break
			}
		}
	}

	kept := make([]Obstacle, 0, len(obstacles))
	bounds := make([]orb.Bound, 0, len(obstacles))
	for i := range obstacles {
		if !contained[i] {
			kept = append(kept, obstacles[i])
			bounds = append(bounds, all[i])
		}
	}
	return kept, bounds
}

// appendCoord adds c to the sorted-unique coordinate list if no existing
// entry matches within tolerance. Linear scan; coordinate lists stay small.
func appendCoord(coords []float64, c float64) []float64 {
	for _, existing := range coords {
		if sameCoord(existing, c) {
			return coords
		}
	}
	return append(coords, c)
}

// insideAny reports whether p lies strictly inside any padded bound.
func insideAny(p Point, bounds []orb.Bound) bool {
	for _, b := range bounds {
		if pointStrictlyInside(p, b) {
			return true
		}
	}
	return false
}
