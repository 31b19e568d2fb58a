package routing

import "math"

// Point is a world coordinate on the schematic canvas.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Distance calculates Euclidean distance between two points
func (p Point) Distance(other Point) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// ManhattanDistance calculates |dx| + |dy| between two points
func (p Point) ManhattanDistance(other Point) float64 {
	return math.Abs(p.X-other.X) + math.Abs(p.Y-other.Y)
}

// Rect is an axis-aligned bounding box.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Obstacle is a placed device body that routed wires must not cross.
// The router only reads it; ownership stays with the caller.
type Obstacle struct {
	ID     string `json:"id"`
	Bounds Rect   `json:"bounds"`
}

// Direction of a path segment or visibility edge.
type Direction string

const (
	Horizontal Direction = "horizontal"
	Vertical   Direction = "vertical"
)

// NodeKind classifies a visibility graph node.
type NodeKind string

const (
	KindStart    NodeKind = "start"
	KindEnd      NodeKind = "end"
	KindCorner   NodeKind = "corner"
	KindWaypoint NodeKind = "waypoint"
)

// Reserved node ids for the query endpoints.
const (
	startNodeID = "start"
	endNodeID   = "end"
)

// VisibilityNode is a vertex of the visibility graph.
type VisibilityNode struct {
	ID         string   `json:"id"`
	Point      Point    `json:"point"`
	Kind       NodeKind `json:"kind"`
	ObstacleID string   `json:"obstacleId,omitempty"` // set for corner nodes
}

// VisibilityEdge is an obstacle-free axis-aligned sight line between two
// nodes. Edges are stored once; the graph is logically undirected and the
// reverse direction is added when the adjacency list is built.
type VisibilityEdge struct {
	From      string    `json:"from"`
	To        string    `json:"to"`
	Weight    float64   `json:"weight"` // exact Euclidean length
	Direction Direction `json:"direction"`
}

// VisibilityGraph is built fresh per routing request and never mutated
// after construction.
type VisibilityGraph struct {
	Nodes map[string]VisibilityNode `json:"nodes"`
	Edges []VisibilityEdge          `json:"edges"`
}

// PathSegment is one axis-aligned leg of a routed path.
type PathSegment struct {
	Start     Point     `json:"start"`
	End       Point     `json:"end"`
	Direction Direction `json:"direction"`
}

// Length returns the Euclidean length of the segment.
func (s PathSegment) Length() float64 {
	return s.Start.Distance(s.End)
}

// RoutedPath is the polyline produced for a single wire. Waypoints include
// both endpoints of every segment without duplication, and TotalLength is
// the sum of Euclidean distances between consecutive waypoints.
type RoutedPath struct {
	Segments    []PathSegment `json:"segments"`
	Waypoints   []Point       `json:"waypoints"`
	TotalLength float64       `json:"totalLength"`
}

// RouteRequest asks for a wire between two pin positions. ID must be unique
// within a batch. NetID is caller metadata and never inspected by routing.
type RouteRequest struct {
	ID    string `json:"id"`
	Start Point  `json:"start"`
	End   Point  `json:"end"`
	NetID string `json:"netId,omitempty"`
}

// RouteResult reports the outcome for one request. When Success is false the
// path has no segments or waypoints and TotalLength is zero.
type RouteResult struct {
	ID      string     `json:"id"`
	Path    RoutedPath `json:"path"`
	Success bool       `json:"success"`
	Error   string     `json:"error,omitempty"`
}
