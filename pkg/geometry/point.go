package geometry

// Point2D is a point in the annotation coordinate system: origin at the
// image center, y growing upward.
type Point2D struct {
	X float64
	Y float64
}

func NewPoint2D(x, y float64) Point2D {
	return Point2D{X: x, Y: y}
}

// FromImage converts pixel coordinates (origin top-left, y growing
// downward) into centered coordinates. The center is the integer
// midpoint of the image dimensions.
func FromImage(px, py float64, width, height int) Point2D {
	cx := float64(width / 2)
	cy := float64(height / 2)
	return Point2D{
		X: px - cx,
		Y: cy - py,
	}
}

func (p Point2D) Sub(q Point2D) Point2D {
	return Point2D{X: p.X - q.X, Y: p.Y - q.Y}
}
