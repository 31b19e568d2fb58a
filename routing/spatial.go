package routing

import (
	"github.com/dhconnelly/rtreego"
)

// obstacleEntry wraps an obstacle for R-tree storage
type obstacleEntry struct {
	obstacle Obstacle
	bbox     rtreego.Rect
}

// Bounds implements rtreego.Spatial interface
func (e *obstacleEntry) Bounds() rtreego.Rect {
	return e.bbox
}

// obstacleIndex answers "which obstacles can affect this route" queries.
// Loading the obstacle set once per batch and querying per request bounds
// the visibility graph to the obstacles near each route, which is the
// graph-size control for large schematics.
type obstacleIndex struct {
	tree *rtreego.Rtree
}

// newObstacleIndex builds an R-tree over the padded obstacle bounds.
func newObstacleIndex(obstacles []Obstacle, padding float64) *obstacleIndex {
	tree := rtreego.NewTree(2, 25, 50) // 2D, min 25, max 50 entries per node

	for _, obst := range obstacles {
		b := paddedBound(obst.Bounds, padding)
		lengths := []float64{
			max(b.Max[0]-b.Min[0], coordEps),
			max(b.Max[1]-b.Min[1], coordEps),
		}
		bbox, err := rtreego.NewRect(rtreego.Point{b.Min[0], b.Min[1]}, lengths)
		if err != nil {
			continue
		}
		tree.Insert(&obstacleEntry{obstacle: obst, bbox: bbox})
	}

	return &obstacleIndex{tree: tree}
}

// inRouteRegion returns the obstacles whose padded bounds intersect the
// route's bounding box expanded by margin on every side.
func (idx *obstacleIndex) inRouteRegion(start, end Point, margin float64) []Obstacle {
	minX := min(start.X, end.X) - margin
	maxX := max(start.X, end.X) + margin
	minY := min(start.Y, end.Y) - margin
	maxY := max(start.Y, end.Y) + margin

	bbox, err := rtreego.NewRect(
		rtreego.Point{minX, minY},
		[]float64{maxX - minX, maxY - minY},
	)
	if err != nil {
		return nil
	}

	results := idx.tree.SearchIntersect(bbox)
	obstacles := make([]Obstacle, 0, len(results))
	for _, item := range results {
		obstacles = append(obstacles, item.(*obstacleEntry).obstacle)
	}
	return obstacles
}
