package routing

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/pkg/errors"
)

// Default clearance and separation, in world units. Padding keeps wires a
// grid-friendly distance off device bodies; spacing is the visual gap
// between parallel wires after nudging.
const (
	DefaultPadding = 10.0
	DefaultSpacing = 8.0

	// defaultMaxGraphNodes is the graph size above which a warning is
	// logged. The spatial region filter normally keeps graphs far below
	// this; the warning flags scenes where it no longer can.
	defaultMaxGraphNodes = 4096
)

// errNoPath is the caller-visible message when the search exhausts the open
// set without reaching the goal.
const errNoPath = "No path found"

// Router routes orthogonal wires around rectangular obstacles. A Router is
// immutable after construction and holds no per-call state, so a single
// instance may be shared across goroutines.
type Router struct {
	padding       float64
	spacing       float64
	maxGraphNodes int
	logger        *slog.Logger
}

// Option configures a Router.
type Option func(*Router)

// WithPadding sets the clearance margin added around every obstacle.
func WithPadding(padding float64) Option {
	return func(r *Router) { r.padding = padding }
}

// WithSpacing sets the separation between nudged parallel wires.
func WithSpacing(spacing float64) Option {
	return func(r *Router) { r.spacing = spacing }
}

// WithLogger injects a structured logger for routing diagnostics. Logging
// never affects routing results; the default logger discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Router) { r.logger = logger }
}

// WithMaxGraphNodes sets the node count above which graph construction logs
// a warning.
func WithMaxGraphNodes(n int) Option {
	return func(r *Router) { r.maxGraphNodes = n }
}

// NewRouter returns a Router with the given options applied over defaults.
func NewRouter(opts ...Option) *Router {
	r := &Router{
		padding:       DefaultPadding,
		spacing:       DefaultSpacing,
		maxGraphNodes: defaultMaxGraphNodes,
		logger:        slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RouteWire routes a single wire between the request's endpoints, avoiding
// all obstacles. It never panics or returns an error: every failure is
// reported inside the RouteResult.
func (r *Router) RouteWire(req RouteRequest, obstacles []Obstacle) RouteResult {
	idx := newObstacleIndex(obstacles, r.padding)
	return r.routeOne(req, idx)
}

// RouteWires routes every request independently against the same static
// obstacle set (wires are never obstacles for each other during search),
// then nudges overlapping segments of the successful paths apart. Results
// are returned in request order; a failed request never affects the others.
func (r *Router) RouteWires(reqs []RouteRequest, obstacles []Obstacle) []RouteResult {
	idx := newObstacleIndex(obstacles, r.padding)

	results := make([]RouteResult, len(reqs))
	routed := make(map[string]RoutedPath)
	for i, req := range reqs {
		results[i] = r.routeOne(req, idx)
		if results[i].Success && len(results[i].Path.Segments) > 0 {
			routed[req.ID] = results[i].Path
		}
	}

	nudged := nudgeRoutes(routed, r.spacing, r.logger)
	for i := range results {
		if !results[i].Success {
			continue
		}
		if path, ok := nudged[results[i].ID]; ok {
			results[i].Path = path
		}
	}
	return results
}

// RouteWire routes a single wire with default padding.
func RouteWire(req RouteRequest, obstacles []Obstacle) RouteResult {
	return NewRouter().RouteWire(req, obstacles)
}

// RouteWires routes a batch with default padding and spacing.
func RouteWires(reqs []RouteRequest, obstacles []Obstacle) []RouteResult {
	return NewRouter().RouteWires(reqs, obstacles)
}

// routeOne runs the full pipeline for a single request: region query,
// visibility graph, A*, assembly. Any panic below is caught here and
// surfaced as a failed result.
func (r *Router) routeOne(req RouteRequest, idx *obstacleIndex) (result RouteResult) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("routing panic", "request", req.ID, "panic", rec)
			result = failedResult(req.ID, fmt.Sprintf("routing failed: %v", rec))
		}
	}()

	if req.Start.Distance(req.End) < coordEps {
		// Degenerate request: both pins at the same point.
		return RouteResult{ID: req.ID, Path: buildPath([]Point{req.Start}), Success: true}
	}

	// A detour never strays much farther from the route's bounding box than
	// the endpoint separation itself, so that (plus clearance) bounds the
	// obstacle region.
	margin := req.Start.Distance(req.End) + 4*r.padding
	region := idx.inRouteRegion(req.Start, req.End, margin)
	sort.Slice(region, func(i, j int) bool { return region[i].ID < region[j].ID })

	graph := buildVisibilityGraph(region, req.Start, req.End, r.padding, r.logger)
	if len(graph.Nodes) > r.maxGraphNodes {
		r.logger.Warn("visibility graph above node threshold",
			"request", req.ID,
			"nodes", len(graph.Nodes),
			"threshold", r.maxGraphNodes)
	}

	ids, ok := findPath(graph, startNodeID, endNodeID)
	if !ok {
		r.logger.Debug("no path", "request", req.ID, "obstacles", len(region))
		return failedResult(req.ID, errNoPath)
	}

	path, err := assemblePath(ids, graph)
	if err != nil {
		// Internal invariant violation: reported as a routing failure,
		// never propagated as a fault.
		r.logger.Error("path assembly failed", "request", req.ID, "error", err)
		return failedResult(req.ID, err.Error())
	}

	r.logger.Debug("routed",
		"request", req.ID,
		"waypoints", len(path.Waypoints),
		"length", path.TotalLength)

	return RouteResult{ID: req.ID, Path: path, Success: true}
}

// assemblePath maps a node-id sequence back to world-space waypoints and
// derives the orthogonal segments and total length.
func assemblePath(ids []string, graph *VisibilityGraph) (RoutedPath, error) {
	points := make([]Point, 0, len(ids))
	for _, id := range ids {
		node, ok := graph.Nodes[id]
		if !ok {
			return RoutedPath{}, errors.Errorf("path node %q missing from graph", id)
		}
		points = append(points, node.Point)
	}
	return buildPath(points), nil
}

// buildPath turns a waypoint sequence into a RoutedPath. Consecutive
// collinear waypoints are collapsed first so every leg becomes one segment.
// A waypoint pair that matches on neither axis should not occur on an
// orthogonal graph; it is handled by inserting an L-bend corner rather than
// emitting a diagonal segment.
func buildPath(points []Point) RoutedPath {
	points = orthogonalize(points)
	points = collapseCollinear(points)

	path := RoutedPath{
		Segments:  make([]PathSegment, 0, len(points)),
		Waypoints: points,
	}
	for i := 0; i < len(points)-1; i++ {
		a, b := points[i], points[i+1]
		dir := Vertical
		if sameCoord(a.Y, b.Y) {
			dir = Horizontal
		}
		path.Segments = append(path.Segments, PathSegment{Start: a, End: b, Direction: dir})
		path.TotalLength += a.Distance(b)
	}
	return path
}

// orthogonalize inserts an intermediate corner at (next.X, prev.Y) wherever
// two consecutive waypoints share neither coordinate.
func orthogonalize(points []Point) []Point {
	out := make([]Point, 0, len(points))
	for i, p := range points {
		if i > 0 {
			prev := out[len(out)-1]
			if !sameCoord(prev.X, p.X) && !sameCoord(prev.Y, p.Y) {
				out = append(out, Point{X: p.X, Y: prev.Y})
			}
		}
		out = append(out, p)
	}
	return out
}

// collapseCollinear removes duplicate consecutive waypoints and interior
// waypoints that lie on the straight run between their neighbors.
func collapseCollinear(points []Point) []Point {
	if len(points) < 2 {
		return points
	}

	out := make([]Point, 0, len(points))
	out = append(out, points[0])
	for _, p := range points[1:] {
		prev := out[len(out)-1]
		if sameCoord(prev.X, p.X) && sameCoord(prev.Y, p.Y) {
			continue
		}
		if len(out) >= 2 {
			back := out[len(out)-2]
			sameVertical := sameCoord(back.X, prev.X) && sameCoord(prev.X, p.X)
			sameHorizontal := sameCoord(back.Y, prev.Y) && sameCoord(prev.Y, p.Y)
			if sameVertical || sameHorizontal {
				out[len(out)-1] = p
				continue
			}
		}
		out = append(out, p)
	}
	return out
}

// failedResult builds the uniform failure shape: empty path, zero length.
func failedResult(id, message string) RouteResult {
	return RouteResult{
		ID: id,
		Path: RoutedPath{
			Segments:  []PathSegment{},
			Waypoints: []Point{},
		},
		Success: false,
		Error:   message,
	}
}
