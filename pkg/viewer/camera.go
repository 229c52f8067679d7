package viewer

import (
	"math"

	"github.com/medvis/fracturevis/pkg/geometry"
)

// Camera is an orbit camera around the model center
type Camera struct {
	Position  geometry.Vector3
	Target    geometry.Vector3
	Up        geometry.Vector3
	FOV       float64 // Field of view in radians
	Distance  float64
	RotationX float64 // Rotation around X axis (vertical)
	RotationY float64 // Rotation around Y axis (horizontal)
}

// NewCamera creates a camera positioned to view a bounding box
func NewCamera(bbox geometry.BoundingBox) *Camera {
	center := bbox.Center()
	size := bbox.Size()
	distance := math.Max(size.X, math.Max(size.Y, size.Z)) * 2.0
	if distance == 0 {
		distance = 1
	}

	return &Camera{
		Position: center.Add(geometry.NewVector3(0, 0, distance)),
		Target:   center,
		Up:       geometry.NewVector3(0, 1, 0),
		FOV:      math.Pi / 4,
		Distance: distance,
	}
}

// Retarget recenters the orbit on a new bounding box, keeping the
// current rotation so a deformed model stays in the same orientation.
func (c *Camera) Retarget(bbox geometry.BoundingBox) {
	c.Target = bbox.Center()
	c.updatePosition()
}

func (c *Camera) updatePosition() {
	x := c.Distance * math.Cos(c.RotationX) * math.Sin(c.RotationY)
	y := c.Distance * math.Sin(c.RotationX)
	z := c.Distance * math.Cos(c.RotationX) * math.Cos(c.RotationY)

	c.Position = c.Target.Add(geometry.NewVector3(x, y, z))
}

// Rotate rotates the camera by the given angles
func (c *Camera) Rotate(deltaX, deltaY float64) {
	c.RotationX += deltaX
	c.RotationY += deltaY

	// Clamp X rotation to prevent gimbal lock
	maxAngle := math.Pi/2 - 0.1
	if c.RotationX > maxAngle {
		c.RotationX = maxAngle
	}
	if c.RotationX < -maxAngle {
		c.RotationX = -maxAngle
	}

	c.updatePosition()
}

// Zoom changes the camera distance
func (c *Camera) Zoom(delta float64) {
	c.Distance *= (1.0 + delta)
	if c.Distance < 0.1 {
		c.Distance = 0.1
	}
	c.updatePosition()
}

// Project projects a 3D point to 2D screen coordinates
func (c *Camera) Project(point geometry.Vector3, width, height float64) (float64, float64, float64) {
	forward := c.Target.Sub(c.Position).Normalize()
	right := forward.Cross(c.Up).Normalize()
	up := right.Cross(forward).Normalize()

	relative := point.Sub(c.Position)
	x := relative.Dot(right)
	y := relative.Dot(up)
	z := relative.Dot(forward)

	if z <= 0.01 {
		z = 0.01
	}

	aspect := width / height
	fovScale := math.Tan(c.FOV / 2)

	screenX := (x/(z*fovScale*aspect))*(width/2) + (width / 2)
	screenY := (-y/(z*fovScale))*(height/2) + (height / 2)

	return screenX, screenY, z
}
