package routing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// hWire builds a single-segment horizontal route at the given y.
func hWire(y, x1, x2 float64) RoutedPath {
	return buildPath([]Point{{X: x1, Y: y}, {X: x2, Y: y}})
}

func TestNudge_ThreeParallelWires(t *testing.T) {
	routes := map[string]RoutedPath{
		"a": hWire(50, 0, 200),
		"b": hWire(50, 0, 200),
		"c": hWire(50, 0, 200),
	}

	nudged := Nudge(routes, 8)
	require.Len(t, nudged, 3)

	assert.InDelta(t, 42, nudged["a"].Segments[0].Start.Y, 1e-9)
	assert.InDelta(t, 50, nudged["b"].Segments[0].Start.Y, 1e-9)
	assert.InDelta(t, 58, nudged["c"].Segments[0].Start.Y, 1e-9)

	// Spread is symmetric: the offsets sum to zero.
	sum := 0.0
	for id, path := range nudged {
		sum += path.Segments[0].Start.Y - routes[id].Segments[0].Start.Y
	}
	assert.InDelta(t, 0, sum, 1e-9)

	// No pair still overlaps.
	for _, pair := range [][2]string{{"a", "b"}, {"a", "c"}, {"b", "c"}} {
		y1 := nudged[pair[0]].Segments[0].Start.Y
		y2 := nudged[pair[1]].Segments[0].Start.Y
		assert.Greater(t, math.Abs(y1-y2), nudgeTolerance)
	}
}

func TestNudge_OffsetSymmetryEvenCount(t *testing.T) {
	routes := map[string]RoutedPath{
		"a": hWire(0, 0, 100),
		"b": hWire(0, 0, 100),
		"c": hWire(0, 0, 100),
		"d": hWire(0, 0, 100),
	}

	nudged := Nudge(routes, 8)

	got := []float64{
		nudged["a"].Segments[0].Start.Y,
		nudged["b"].Segments[0].Start.Y,
		nudged["c"].Segments[0].Start.Y,
		nudged["d"].Segments[0].Start.Y,
	}
	assert.InDelta(t, -12, got[0], 1e-9)
	assert.InDelta(t, -4, got[1], 1e-9)
	assert.InDelta(t, 4, got[2], 1e-9)
	assert.InDelta(t, 12, got[3], 1e-9)
}

func TestNudge_NonOverlappingUnchanged(t *testing.T) {
	routes := map[string]RoutedPath{
		"a": hWire(0, 0, 100),
		"b": hWire(50, 0, 100),  // different line
		"c": hWire(0, 200, 300), // same line, disjoint range
	}

	nudged := Nudge(routes, 8)
	assert.Equal(t, routes, nudged)
}

func TestNudge_TouchingEndpointsDoNotOverlap(t *testing.T) {
	// Segments that merely touch at x=100 must not be bundled.
	routes := map[string]RoutedPath{
		"a": hWire(0, 0, 100),
		"b": hWire(0, 100, 200),
	}

	nudged := Nudge(routes, 8)
	assert.Equal(t, routes, nudged)
}

func TestNudge_PerpendicularNotBundled(t *testing.T) {
	routes := map[string]RoutedPath{
		"h": hWire(0, 0, 100),
		"v": buildPath([]Point{{X: 50, Y: -50}, {X: 50, Y: 50}}),
	}

	nudged := Nudge(routes, 8)
	assert.Equal(t, routes, nudged)
}

func TestNudge_SingleRouteUnchanged(t *testing.T) {
	routes := map[string]RoutedPath{"only": hWire(0, 0, 100)}
	assert.Equal(t, routes, Nudge(routes, 8))
}

func TestNudge_ReconnectionStaysOrthogonal(t *testing.T) {
	// Route "a" shares its middle horizontal run with route "b"; nudging
	// shifts those runs apart and must rejoin each wire with orthogonal
	// connector jogs.
	routes := map[string]RoutedPath{
		"a": buildPath([]Point{
			{X: 0, Y: 0}, {X: 0, Y: 50}, {X: 150, Y: 50}, {X: 150, Y: 120},
		}),
		"b": buildPath([]Point{
			{X: 20, Y: 100}, {X: 20, Y: 50}, {X: 170, Y: 50}, {X: 170, Y: 0},
		}),
	}

	nudged := Nudge(routes, 8)

	for id, path := range nudged {
		require.NotEmpty(t, path.Segments, "route %s lost its segments", id)
		assertOrthogonal(t, path)
		assertLengthConsistent(t, path)
	}

	// The shared horizontal runs ended up on distinct lines.
	aY := horizontalRunY(t, nudged["a"])
	bY := horizontalRunY(t, nudged["b"])
	assert.InDelta(t, 8, math.Abs(aY-bY), 1e-9)
}

// horizontalRunY returns the fixed coordinate of the longest horizontal
// segment of a path.
func horizontalRunY(t *testing.T, path RoutedPath) float64 {
	t.Helper()
	best := -1.0
	y := math.NaN()
	for _, seg := range path.Segments {
		if seg.Direction == Horizontal && seg.Length() > best {
			best = seg.Length()
			y = seg.Start.Y
		}
	}
	require.False(t, math.IsNaN(y), "no horizontal segment found")
	return y
}

func TestNudge_ChainBundlingIsScanOrder(t *testing.T) {
	// a overlaps b, b overlaps c, but a and c are disjoint. The single-pass
	// bundler still groups all three because each joins once it overlaps
	// any existing member. This pins the accepted approximation.
	routes := map[string]RoutedPath{
		"a": hWire(0, 0, 100),
		"b": hWire(0, 90, 190),
		"c": hWire(0, 180, 280),
	}

	nudged := Nudge(routes, 8)

	assert.InDelta(t, -8, nudged["a"].Segments[0].Start.Y, 1e-9)
	assert.InDelta(t, 0, nudged["b"].Segments[0].Start.Y, 1e-9)
	assert.InDelta(t, 8, nudged["c"].Segments[0].Start.Y, 1e-9)
}

func TestNudge_EmptyInput(t *testing.T) {
	assert.Empty(t, Nudge(nil, 8))
	assert.Empty(t, Nudge(map[string]RoutedPath{}, 8))
}
