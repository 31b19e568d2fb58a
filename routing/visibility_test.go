package routing

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestBuildVisibilityGraph_NoObstacles(t *testing.T) {
	graph := buildVisibilityGraph(nil, Point{X: 0, Y: 0}, Point{X: 100, Y: 100}, 10, discardLogger())

	start, ok := graph.Nodes[startNodeID]
	require.True(t, ok, "reserved start node missing")
	end, ok := graph.Nodes[endNodeID]
	require.True(t, ok, "reserved end node missing")

	assert.Equal(t, Point{X: 0, Y: 0}, start.Point)
	assert.Equal(t, Point{X: 100, Y: 100}, end.Point)
	assert.Equal(t, KindStart, start.Kind)
	assert.Equal(t, KindEnd, end.Kind)

	// The two L-corner waypoints plus the endpoints.
	assert.Len(t, graph.Nodes, 4)
	waypoints := 0
	for _, node := range graph.Nodes {
		if node.Kind == KindWaypoint {
			waypoints++
		}
	}
	assert.Equal(t, 2, waypoints)

	// No diagonal start-end edge: they share no coordinate.
	for _, edge := range graph.Edges {
		if edge.From == startNodeID && edge.To == endNodeID {
			t.Fatalf("diagonal edge between start and end")
		}
	}
}

func TestBuildVisibilityGraph_EdgeInvariants(t *testing.T) {
	obstacles := []Obstacle{
		{ID: "u1", Bounds: Rect{X: 40, Y: 40, Width: 20, Height: 20}},
		{ID: "u2", Bounds: Rect{X: 120, Y: 10, Width: 30, Height: 30}},
	}
	graph := buildVisibilityGraph(obstacles, Point{X: 0, Y: 0}, Point{X: 200, Y: 100}, 5, discardLogger())

	seen := make(map[[2]string]bool)
	for _, edge := range graph.Edges {
		assert.NotEqual(t, edge.From, edge.To, "self-referential edge")

		key := [2]string{edge.From, edge.To}
		assert.False(t, seen[key], "duplicate edge %v", key)
		seen[key] = true

		from, ok := graph.Nodes[edge.From]
		require.True(t, ok)
		to, ok := graph.Nodes[edge.To]
		require.True(t, ok)

		// Axis-aligned with exact Euclidean weight.
		switch edge.Direction {
		case Horizontal:
			assert.InDelta(t, from.Point.Y, to.Point.Y, coordEps)
		case Vertical:
			assert.InDelta(t, from.Point.X, to.Point.X, coordEps)
		default:
			t.Fatalf("unknown direction %q", edge.Direction)
		}
		assert.InDelta(t, from.Point.Distance(to.Point), edge.Weight, 1e-9)
	}
}

func TestBuildVisibilityGraph_CornerNodes(t *testing.T) {
	obstacles := []Obstacle{{ID: "dev-1", Bounds: Rect{X: 10, Y: 20, Width: 30, Height: 40}}}
	graph := buildVisibilityGraph(obstacles, Point{X: -50, Y: -50}, Point{X: 100, Y: 100}, 10, discardLogger())

	want := map[Point]bool{
		{X: 0, Y: 10}:  false,
		{X: 50, Y: 10}: false,
		{X: 50, Y: 70}: false,
		{X: 0, Y: 70}:  false,
	}
	for _, node := range graph.Nodes {
		if node.Kind != KindCorner {
			continue
		}
		assert.Equal(t, "dev-1", node.ObstacleID)
		_, expected := want[node.Point]
		assert.True(t, expected, "unexpected corner at %+v", node.Point)
		want[node.Point] = true
	}
	for p, found := range want {
		assert.True(t, found, "padded corner %+v missing", p)
	}
}

func TestBuildVisibilityGraph_BlockedSightLine(t *testing.T) {
	// Obstacle straddles the straight line between the endpoints.
	obstacles := []Obstacle{{ID: "block", Bounds: Rect{X: 40, Y: -10, Width: 20, Height: 120}}}
	graph := buildVisibilityGraph(obstacles, Point{X: 0, Y: 50}, Point{X: 100, Y: 50}, 10, discardLogger())

	for _, edge := range graph.Edges {
		direct := (edge.From == startNodeID && edge.To == endNodeID) ||
			(edge.From == endNodeID && edge.To == startNodeID)
		assert.False(t, direct, "blocked sight line produced a direct edge")
	}
}

func TestBuildVisibilityGraph_EnclosedStartStillReturned(t *testing.T) {
	// Start sits in the middle of an obstacle; the graph is still returned
	// with the reserved nodes present (pathfinding reports the failure).
	obstacles := []Obstacle{{ID: "box", Bounds: Rect{X: -20, Y: -20, Width: 40, Height: 40}}}
	graph := buildVisibilityGraph(obstacles, Point{X: 0, Y: 0}, Point{X: 200, Y: 0}, 10, discardLogger())

	require.Contains(t, graph.Nodes, startNodeID)
	require.Contains(t, graph.Nodes, endNodeID)
	for _, edge := range graph.Edges {
		assert.NotEqual(t, startNodeID, edge.From)
		assert.NotEqual(t, startNodeID, edge.To)
	}
}

func TestBuildVisibilityGraph_TouchingBoundaryAllowed(t *testing.T) {
	// A sight line running exactly along a padded obstacle boundary is clear.
	obstacles := []Obstacle{{ID: "box", Bounds: Rect{X: 10, Y: 10, Width: 20, Height: 20}}}
	graph := buildVisibilityGraph(obstacles, Point{X: 0, Y: 0}, Point{X: 40, Y: 0}, 10, discardLogger())

	// y=0 is the padded top boundary; the direct run must exist.
	found := false
	for _, edge := range graph.Edges {
		if (edge.From == startNodeID && edge.To == endNodeID) ||
			(edge.From == endNodeID && edge.To == startNodeID) {
			found = true
		}
	}
	assert.True(t, found, "boundary-touching sight line was rejected")
}

func TestDropContainedObstacles(t *testing.T) {
	obstacles := []Obstacle{
		{ID: "outer", Bounds: Rect{X: 0, Y: 0, Width: 100, Height: 100}},
		{ID: "inner", Bounds: Rect{X: 20, Y: 20, Width: 10, Height: 10}},
		{ID: "apart", Bounds: Rect{X: 300, Y: 300, Width: 10, Height: 10}},
	}
	kept, bounds := dropContainedObstacles(obstacles, 5)

	require.Len(t, kept, 2)
	require.Len(t, bounds, 2)
	assert.Equal(t, "outer", kept[0].ID)
	assert.Equal(t, "apart", kept[1].ID)
}
