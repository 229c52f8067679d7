package stl

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/medvis/fracturevis/pkg/mesh"
)

// Write serializes a mesh to a binary STL file
func Write(filename string, m *mesh.Mesh) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if err := Encode(file, m); err != nil {
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return nil
}

// Encode writes a mesh as binary STL
func Encode(w io.Writer, m *mesh.Mesh) error {
	header := make([]byte, 80)
	copy(header, m.Name)
	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	faces := m.Faces()
	if err := binary.Write(w, binary.LittleEndian, uint32(len(faces))); err != nil {
		return fmt.Errorf("failed to write triangle count: %w", err)
	}

	for i, f := range faces {
		facet := [12]float32{
			float32(f.Normal.X), float32(f.Normal.Y), float32(f.Normal.Z),
			float32(f.V1.X), float32(f.V1.Y), float32(f.V1.Z),
			float32(f.V2.X), float32(f.V2.Y), float32(f.V2.Z),
			float32(f.V3.X), float32(f.V3.Y), float32(f.V3.Z),
		}
		if err := binary.Write(w, binary.LittleEndian, facet); err != nil {
			return fmt.Errorf("failed to write triangle %d: %w", i, err)
		}
		if err := binary.Write(w, binary.LittleEndian, uint16(0)); err != nil {
			return fmt.Errorf("failed to write attribute for triangle %d: %w", i, err)
		}
	}

	return nil
}

// EncodeASCII writes a mesh in the text STL format
func EncodeASCII(w io.Writer, m *mesh.Mesh) error {
	bw := bufio.NewWriter(w)

	name := m.Name
	if name == "" {
		name = "mesh"
	}
	fmt.Fprintf(bw, "solid %s\n", name)
	for _, f := range m.Faces() {
		fmt.Fprintf(bw, "  facet normal %g %g %g\n", f.Normal.X, f.Normal.Y, f.Normal.Z)
		fmt.Fprintf(bw, "    outer loop\n")
		fmt.Fprintf(bw, "      vertex %g %g %g\n", f.V1.X, f.V1.Y, f.V1.Z)
		fmt.Fprintf(bw, "      vertex %g %g %g\n", f.V2.X, f.V2.Y, f.V2.Z)
		fmt.Fprintf(bw, "      vertex %g %g %g\n", f.V3.X, f.V3.Y, f.V3.Z)
		fmt.Fprintf(bw, "    endloop\n")
		fmt.Fprintf(bw, "  endfacet\n")
	}
	fmt.Fprintf(bw, "endsolid %s\n", name)

	return bw.Flush()
}
