package mesh

import (
	"github.com/medvis/fracturevis/pkg/geometry"
)

// Mesh is an indexed triangle mesh: a vertex buffer plus triangles that
// reference it by index. Operations never mutate a mesh in place; every
// deformation builds new vertex and triangle buffers.
type Mesh struct {
	Name      string
	Vertices  []geometry.Vector3
	Normals   []geometry.Vector3 // per-vertex, either empty or len(Vertices)
	Triangles [][3]int
}

// New creates an empty mesh
func New() *Mesh {
	return &Mesh{}
}

// VertexCount returns the number of vertices in the mesh
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// TriangleCount returns the number of triangles in the mesh
func (m *Mesh) TriangleCount() int {
	return len(m.Triangles)
}

// IsEmpty reports whether the mesh has no geometry
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0 || len(m.Triangles) == 0
}

// BoundingBox calculates the bounding box of all vertices
func (m *Mesh) BoundingBox() geometry.BoundingBox {
	bbox := geometry.NewBoundingBox()
	for _, v := range m.Vertices {
		bbox.Extend(v)
	}
	return bbox
}

// YRange returns the extent of the mesh along the y axis, the long axis
// of a bone model. An empty mesh yields (0, 0).
func (m *Mesh) YRange() (min, max float64) {
	if len(m.Vertices) == 0 {
		return 0, 0
	}
	min, max = m.Vertices[0].Y, m.Vertices[0].Y
	for _, v := range m.Vertices[1:] {
		if v.Y < min {
			min = v.Y
		}
		if v.Y > max {
			max = v.Y
		}
	}
	return min, max
}

// SurfaceArea calculates the total surface area of the mesh
func (m *Mesh) SurfaceArea() float64 {
	total := 0.0
	for _, f := range m.Faces() {
		total += f.Area()
	}
	return total
}

// Clone returns a deep copy of the mesh
func (m *Mesh) Clone() *Mesh {
	c := &Mesh{Name: m.Name}
	c.Vertices = append(c.Vertices, m.Vertices...)
	c.Normals = append(c.Normals, m.Normals...)
	c.Triangles = append(c.Triangles, m.Triangles...)
	return c
}

// Concat joins two meshes into one: the vertex buffer is the union of
// both, and b's triangle indices are offset by a's vertex count. Either
// side may be empty and contributes no geometry.
func Concat(a, b *Mesh) *Mesh {
	out := &Mesh{Name: a.Name}
	out.Vertices = append(out.Vertices, a.Vertices...)
	out.Vertices = append(out.Vertices, b.Vertices...)
	out.Triangles = append(out.Triangles, a.Triangles...)

	offset := len(a.Vertices)
	for _, t := range b.Triangles {
		out.Triangles = append(out.Triangles, [3]int{t[0] + offset, t[1] + offset, t[2] + offset})
	}

	// Normals survive only when both sides carry them
	if len(a.Normals) == len(a.Vertices) && len(b.Normals) == len(b.Vertices) {
		out.Normals = append(out.Normals, a.Normals...)
		out.Normals = append(out.Normals, b.Normals...)
	}
	return out
}

// ComputeVertexNormals rebuilds per-vertex normals as the normalized,
// area-weighted sum of the adjacent face normals. Vertices referenced by
// no triangle keep a zero normal.
func (m *Mesh) ComputeVertexNormals() {
	normals := make([]geometry.Vector3, len(m.Vertices))
	for _, t := range m.Triangles {
		v1, v2, v3 := m.Vertices[t[0]], m.Vertices[t[1]], m.Vertices[t[2]]
		// Cross product length is proportional to area, which weights
		// large faces more.
		face := v2.Sub(v1).Cross(v3.Sub(v1))
		for _, idx := range t {
			normals[idx] = normals[idx].Add(face)
		}
	}
	for i := range normals {
		normals[i] = normals[i].Normalize()
	}
	m.Normals = normals
}
