package routing

import (
	"log/slog"
	"math"
	"sort"
)

// nudgeTolerance is the coordinate tolerance for overlap detection,
// connector insertion, and the "near-zero offset" skip.
const nudgeTolerance = 0.1

// wireSegment is one flattened horizontal or vertical leg of a routed wire,
// tagged with its owner.
type wireSegment struct {
	routeID    string
	segIdx     int       // index within the owning route's segment list
	direction  Direction // horizontal or vertical
	fixedCoord float64   // the shared coordinate (Y for horizontal, X for vertical)
	rangeMin   float64   // start of the varying coordinate
	rangeMax   float64   // end of the varying coordinate
	offset     float64   // perpendicular shift assigned by bundling
}

// Nudge spreads collinear overlapping segments of different wires into
// parallel, evenly spaced tracks and reconnects every affected wire
// orthogonally. Non-overlapping routes are returned unchanged.
func Nudge(routes map[string]RoutedPath, spacing float64) map[string]RoutedPath {
	return nudgeRoutes(routes, spacing, slog.New(slog.DiscardHandler))
}

// nudgeRoutes implements the separation pass. Flattening follows
// lexicographic route-id order so the single-pass bundling below is
// reproducible no matter how the routes map was assembled.
func nudgeRoutes(routes map[string]RoutedPath, spacing float64, logger *slog.Logger) map[string]RoutedPath {
	out := make(map[string]RoutedPath, len(routes))
	for id, path := range routes {
		out[id] = path
	}
	if len(routes) < 2 {
		return out
	}

	ids := make([]string, 0, len(routes))
	for id := range routes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	segs := flattenRoutes(ids, routes)
	bundles := bundleOverlapping(segs)
	if len(bundles) == 0 {
		return out
	}

	affected := assignOffsets(segs, bundles, spacing)
	logger.Debug("nudging", "bundles", len(bundles), "affectedRoutes", len(affected))

	for id := range affected {
		nudged := applyOffsets(routes[id], id, segs)
		if len(nudged.Segments) == 0 {
			continue // nudging produced nothing; keep the original
		}
		out[id] = nudged
	}
	return out
}

// flattenRoutes decomposes every route's segments into a single working
// list with zero initial offsets.
func flattenRoutes(ids []string, routes map[string]RoutedPath) []wireSegment {
	var segs []wireSegment
	for _, id := range ids {
		for i, seg := range routes[id].Segments {
			ws := wireSegment{routeID: id, segIdx: i, direction: seg.Direction}
			if seg.Direction == Horizontal {
				ws.fixedCoord = seg.Start.Y
				ws.rangeMin = math.Min(seg.Start.X, seg.End.X)
				ws.rangeMax = math.Max(seg.Start.X, seg.End.X)
			} else {
				ws.fixedCoord = seg.Start.X
				ws.rangeMin = math.Min(seg.Start.Y, seg.End.Y)
				ws.rangeMax = math.Max(seg.Start.Y, seg.End.Y)
			}
			segs = append(segs, ws)
		}
	}
	return segs
}

// overlaps reports whether two segments run along the same line and share
// part of their range. Segments that merely touch at an endpoint do not
// overlap: the range comparison is strict.
func overlaps(a, b wireSegment) bool {
	if a.direction != b.direction {
		return false
	}
	if math.Abs(a.fixedCoord-b.fixedCoord) > nudgeTolerance {
		return false
	}
	return a.rangeMin < b.rangeMax && b.rangeMin < a.rangeMax
}

// bundleOverlapping groups overlapping segments in a single left-to-right
// scan. A segment joins a bundle when it overlaps any current member, so
// membership can depend on scan order when segments overlap only in a
// chain; that matches the original separation behavior and is not a full
// transitive closure. Bundles with a single member are discarded.
func bundleOverlapping(segs []wireSegment) [][]int {
	bundled := make([]bool, len(segs))
	var bundles [][]int

	for i := range segs {
		if bundled[i] {
			continue
		}
		bundle := []int{i}
		bundled[i] = true

		for j := i + 1; j < len(segs); j++ {
			if bundled[j] {
				continue
			}
			for _, member := range bundle {
				if overlaps(segs[member], segs[j]) {
					bundle = append(bundle, j)
					bundled[j] = true
					break
				}
			}
		}

		if len(bundle) > 1 {
			bundles = append(bundles, bundle)
		}
	}
	return bundles
}

// assignOffsets spreads each bundle symmetrically about its original line:
// member i of N gets (i - (N-1)/2) * spacing, in route-id order so the
// assignment is reproducible. Returns the set of routes that received a
// non-negligible offset.
func assignOffsets(segs []wireSegment, bundles [][]int, spacing float64) map[string]bool {
	affected := make(map[string]bool)

	for _, bundle := range bundles {
		sort.Slice(bundle, func(a, b int) bool {
			sa, sb := segs[bundle[a]], segs[bundle[b]]
			if sa.routeID != sb.routeID {
				return sa.routeID < sb.routeID
			}
			return sa.segIdx < sb.segIdx
		})

		n := float64(len(bundle))
		for i, idx := range bundle {
			offset := (float64(i) - (n-1)/2) * spacing
			if math.Abs(offset) < nudgeTolerance {
				continue
			}
			segs[idx].offset = offset
			affected[segs[idx].routeID] = true
		}
	}
	return affected
}

// applyOffsets shifts the route's offset segments perpendicular to their
// run and rebuilds the wire as a strictly orthogonal polyline. Offsetting a
// segment breaks corner continuity with its neighbors, so wherever a
// segment's (shifted) start no longer meets the previous waypoint, a single
// orthogonal connector jog is inserted before it.
func applyOffsets(path RoutedPath, routeID string, segs []wireSegment) RoutedPath {
	if len(path.Segments) == 0 {
		return path
	}

	offsets := make(map[int]float64)
	for _, ws := range segs {
		if ws.routeID == routeID && ws.offset != 0 {
			offsets[ws.segIdx] = ws.offset
		}
	}

	shifted := make([]PathSegment, len(path.Segments))
	copy(shifted, path.Segments)
	for i := range shifted {
		offset, ok := offsets[i]
		if !ok {
			continue
		}
		if shifted[i].Direction == Horizontal {
			shifted[i].Start.Y += offset
			shifted[i].End.Y += offset
		} else {
			shifted[i].Start.X += offset
			shifted[i].End.X += offset
		}
	}

	waypoints := []Point{shifted[0].Start}
	for _, seg := range shifted {
		prev := waypoints[len(waypoints)-1]
		if prev.Distance(seg.Start) > nudgeTolerance {
			if seg.Direction == Horizontal {
				// Vertical jog onto the shifted line.
				waypoints = append(waypoints, Point{X: prev.X, Y: seg.Start.Y})
			} else {
				// Horizontal jog onto the shifted line.
				waypoints = append(waypoints, Point{X: seg.Start.X, Y: prev.Y})
			}
			waypoints = append(waypoints, seg.Start)
		}
		waypoints = append(waypoints, seg.End)
	}

	return buildPath(waypoints)
}
