package mesh

import (
	"math"

	"github.com/medvis/fracturevis/pkg/geometry"
)

// NewCylinder builds a closed cylinder along the y axis, centered on the
// origin. It serves as the placeholder bone model when no real mesh is
// available for a session.
func NewCylinder(radius, height float64, segments int) *Mesh {
	if segments < 3 {
		segments = 3
	}

	m := &Mesh{Name: "cylinder"}
	top := height / 2
	bottom := -height / 2

	// Two rings of vertices plus the two cap centers
	for _, y := range []float64{top, bottom} {
		for i := 0; i < segments; i++ {
			a := 2 * math.Pi * float64(i) / float64(segments)
			m.Vertices = append(m.Vertices, geometry.NewVector3(radius*math.Cos(a), y, radius*math.Sin(a)))
		}
	}
	topCenter := len(m.Vertices)
	m.Vertices = append(m.Vertices, geometry.NewVector3(0, top, 0))
	bottomCenter := len(m.Vertices)
	m.Vertices = append(m.Vertices, geometry.NewVector3(0, bottom, 0))

	for i := 0; i < segments; i++ {
		next := (i + 1) % segments
		t0, t1 := i, next
		b0, b1 := segments+i, segments+next

		// Side quad as two triangles, wound outward
		m.Triangles = append(m.Triangles, [3]int{t0, b0, t1}, [3]int{t1, b0, b1})
		// Caps
		m.Triangles = append(m.Triangles, [3]int{topCenter, t0, t1}, [3]int{bottomCenter, b1, b0})
	}

	m.ComputeVertexNormals()
	return m
}
