// Package fracture estimates fracture geometry from annotated X-ray
// coordinates and applies the corresponding bend deformation to a bone
// mesh. All functions are pure: degenerate inputs map to defined
// fallback values instead of errors.
package fracture

import (
	"math"

	"github.com/medvis/fracturevis/pkg/geometry"
)

// AngleFromNegativeX returns the signed deviation, in degrees, of the
// direction p1->p2 from the negative x axis, folded into [-90, 90].
// Negative values lean one rotational sense, positive the other. Both
// points are taken relative to center. Coincident points have no
// direction; they yield 0.
func AngleFromNegativeX(p1, p2, center geometry.Point2D) float64 {
	x1, y1 := p1.X-center.X, p1.Y-center.Y
	x2, y2 := p2.X-center.X, p2.Y-center.Y

	dx, dy := x2-x1, y2-y1
	if dx == 0 && dy == 0 {
		return 0
	}

	raw := math.Mod(math.Atan2(dy, dx)*180/math.Pi+360, 360)
	rel := math.Mod(raw-180+360, 360)

	switch {
	case rel <= 90:
		return -(90 - rel)
	case rel <= 180:
		return rel - 90
	case rel <= 270:
		return 270 - rel
	}
	return 360 - rel
}

// RelativePosition returns the normalized position of a fracture point
// along the bone's long axis: 0 at the tail end, 1 at the head end. Only
// the vertical coordinate matters; head and tail may be passed in either
// order. A zero-height span yields 0. The result is not clamped, so a
// break outside the head-tail span produces values outside [0, 1].
func RelativePosition(head, tail, brk geometry.Point2D) float64 {
	y1, y2 := head.Y, tail.Y
	if y1 < y2 {
		y1, y2 = y2, y1
	}

	h := y1 - y2
	if h == 0 {
		return 0
	}
	return 1 - (y1-brk.Y)/h
}

// Clamp01 limits a split ratio to [0, 1] before it is used to position
// the mesh split plane.
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
