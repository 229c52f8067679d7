package stl

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/medvis/fracturevis/pkg/geometry"
	"github.com/medvis/fracturevis/pkg/mesh"
)

const asciiSample = `solid test
  facet normal 0 0 1
    outer loop
      vertex 0 0 0
      vertex 1 0 0
      vertex 0 1 0
    endloop
  endfacet
  facet normal 0 0 1
    outer loop
      vertex 1 0 0
      vertex 1 1 0
      vertex 0 1 0
    endloop
  endfacet
endsolid test
`

func TestDecodeASCII(t *testing.T) {
	m, err := Decode([]byte(asciiSample))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if m.Name != "test" {
		t.Errorf("expected name %q, got %q", "test", m.Name)
	}
	if m.TriangleCount() != 2 {
		t.Errorf("expected 2 triangles, got %d", m.TriangleCount())
	}
	// Shared vertices must be welded
	if m.VertexCount() != 4 {
		t.Errorf("expected 4 vertices, got %d", m.VertexCount())
	}
}

func TestBinaryRoundTrip(t *testing.T) {
	src := mesh.FromTriangles("roundtrip", []geometry.Triangle{
		geometry.NewTriangle(
			geometry.NewVector3(0, 0, 1),
			geometry.NewVector3(0, 0, 0),
			geometry.NewVector3(1, 0, 0),
			geometry.NewVector3(0, 1, 0),
		),
		geometry.NewTriangle(
			geometry.NewVector3(0, 0, 1),
			geometry.NewVector3(1, 0, 0),
			geometry.NewVector3(1, 1, 0),
			geometry.NewVector3(0, 1, 0),
		),
	})

	var buf bytes.Buffer
	if err := Encode(&buf, src); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	parsed, err := Decode(buf.Bytes())
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if parsed.TriangleCount() != src.TriangleCount() {
		t.Errorf("triangle count changed: %d -> %d", src.TriangleCount(), parsed.TriangleCount())
	}
	if parsed.VertexCount() != src.VertexCount() {
		t.Errorf("vertex count changed: %d -> %d", src.VertexCount(), parsed.VertexCount())
	}
	for i, v := range parsed.Vertices {
		if v.Distance(src.Vertices[i]) > 1e-6 {
			t.Errorf("vertex %d moved: %v -> %v", i, src.Vertices[i], v)
		}
	}
}

func TestRoundTripCylinder(t *testing.T) {
	src := mesh.NewCylinder(1.0, 4.0, 16)

	var buf bytes.Buffer
	if err := Encode(&buf, src); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	parsed, err := Decode(buf.Bytes())
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if parsed.TriangleCount() != src.TriangleCount() {
		t.Errorf("triangle count changed: %d -> %d", src.TriangleCount(), parsed.TriangleCount())
	}
	min, max := parsed.YRange()
	if math.Abs(min+2.0) > 1e-6 || math.Abs(max-2.0) > 1e-6 {
		t.Errorf("y range changed: [%v, %v]", min, max)
	}
}

func TestEncodeASCII(t *testing.T) {
	src := mesh.FromTriangles("ascii", []geometry.Triangle{
		geometry.NewTriangle(
			geometry.NewVector3(0, 0, 1),
			geometry.NewVector3(0, 0, 0),
			geometry.NewVector3(1, 0, 0),
			geometry.NewVector3(0, 1, 0),
		),
	})

	var buf bytes.Buffer
	if err := EncodeASCII(&buf, src); err != nil {
		t.Fatalf("EncodeASCII failed: %v", err)
	}

	text := buf.String()
	if !strings.HasPrefix(text, "solid ascii") {
		t.Errorf("missing solid header: %q", text[:20])
	}

	parsed, err := Decode(buf.Bytes())
	if err != nil {
		t.Fatalf("Decode of ASCII output failed: %v", err)
	}
	if parsed.TriangleCount() != 1 {
		t.Errorf("expected 1 triangle, got %d", parsed.TriangleCount())
	}
}
