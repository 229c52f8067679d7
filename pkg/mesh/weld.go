package mesh

import (
	"github.com/medvis/fracturevis/pkg/geometry"
)

// FromTriangles builds an indexed mesh from a triangle soup, welding
// vertices with identical coordinates into shared entries. STL stores no
// connectivity, so this is how parsed models become splittable meshes.
func FromTriangles(name string, triangles []geometry.Triangle) *Mesh {
	m := &Mesh{Name: name}
	index := make(map[geometry.Vector3]int)

	add := func(v geometry.Vector3) int {
		if i, ok := index[v]; ok {
			return i
		}
		i := len(m.Vertices)
		index[v] = i
		m.Vertices = append(m.Vertices, v)
		return i
	}

	for _, t := range triangles {
		m.Triangles = append(m.Triangles, [3]int{add(t.V1), add(t.V2), add(t.V3)})
	}
	return m
}

// Faces expands the mesh back into a triangle soup with face normals,
// the form the STL writer and the wireframe viewer consume.
func (m *Mesh) Faces() []geometry.Triangle {
	faces := make([]geometry.Triangle, 0, len(m.Triangles))
	for _, t := range m.Triangles {
		tri := geometry.Triangle{
			V1: m.Vertices[t[0]],
			V2: m.Vertices[t[1]],
			V3: m.Vertices[t[2]],
		}
		tri.Normal = tri.CalculateNormal()
		faces = append(faces, tri)
	}
	return faces
}
