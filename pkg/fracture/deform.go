package fracture

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/medvis/fracturevis/pkg/geometry"
	"github.com/medvis/fracturevis/pkg/mesh"
)

// Deform splits a mesh by a horizontal plane positioned at ratio along
// its y extent, rotates each half rigidly about the z axis by its own
// angle (degrees), and rejoins the halves into a new mesh. Triangles
// straddling the split plane are dropped from both halves; the resulting
// open seam is the visible fracture line. The input mesh is never
// modified. An empty mesh deforms to an empty mesh.
func Deform(m *mesh.Mesh, topAngle, bottomAngle, ratio float64) *mesh.Mesh {
	if m.IsEmpty() {
		return mesh.New()
	}

	ratio = Clamp01(ratio)
	minY, maxY := m.YRange()
	mid := minY + (maxY-minY)*ratio

	top := make([]bool, len(m.Vertices))
	for i, v := range m.Vertices {
		top[i] = v.Y >= mid
	}

	upper := rotateHalf(m, top, true, topAngle, mid)
	lower := rotateHalf(m, top, false, bottomAngle, mid)

	out := mesh.Concat(upper, lower)
	out.Name = m.Name
	return out
}

// rotateHalf extracts the vertices on one side of the split plane into a
// compacted sub-mesh, keeps only triangles entirely inside the set, and
// rotates the sub-mesh about the z axis around its own center. The
// rotation center is the partition centroid in x and z with the y
// coordinate pinned to the split plane.
func rotateHalf(m *mesh.Mesh, top []bool, want bool, angleDeg, mid float64) *mesh.Mesh {
	sub := mesh.New()

	remap := make([]int, len(m.Vertices))
	for i, v := range m.Vertices {
		if top[i] != want {
			remap[i] = -1
			continue
		}
		remap[i] = len(sub.Vertices)
		sub.Vertices = append(sub.Vertices, v)
	}
	if len(sub.Vertices) == 0 {
		return sub
	}

	for _, t := range m.Triangles {
		a, b, c := remap[t[0]], remap[t[1]], remap[t[2]]
		if a < 0 || b < 0 || c < 0 {
			continue
		}
		sub.Triangles = append(sub.Triangles, [3]int{a, b, c})
	}

	centroid := geometry.Mean(sub.Vertices)
	center := geometry.NewVector3(centroid.X, mid, centroid.Z)

	rot := r3.NewRotation(angleDeg*math.Pi/180, r3.Vec{Z: 1})
	for i, v := range sub.Vertices {
		p := rot.Rotate(r3.Vec{X: v.X - center.X, Y: v.Y - center.Y, Z: v.Z - center.Z})
		sub.Vertices[i] = geometry.NewVector3(p.X+center.X, p.Y+center.Y, p.Z+center.Z)
	}

	sub.ComputeVertexNormals()
	return sub
}
