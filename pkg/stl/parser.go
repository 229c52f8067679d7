package stl

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/medvis/fracturevis/pkg/geometry"
	"github.com/medvis/fracturevis/pkg/mesh"
)

// Parse reads an STL file and returns an indexed mesh.
// It automatically detects whether the file is ASCII or binary format.
func Parse(filename string) (*mesh.Mesh, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return Decode(data)
}

// Decode parses STL data from memory, detecting the format by header.
// Parsed triangle soup is welded into an indexed mesh.
func Decode(data []byte) (*mesh.Mesh, error) {
	if len(data) >= 5 && strings.HasPrefix(string(data[:5]), "solid") {
		return decodeASCII(bytes.NewReader(data))
	}
	return decodeBinary(bytes.NewReader(data))
}

// decodeASCII parses an ASCII STL stream
func decodeASCII(reader io.Reader) (*mesh.Mesh, error) {
	scanner := bufio.NewScanner(reader)

	var name string
	var triangles []geometry.Triangle
	var currentNormal geometry.Vector3
	var vertices []geometry.Vector3

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		fields := strings.Fields(line)

		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "solid":
			if len(fields) > 1 {
				name = strings.Join(fields[1:], " ")
			}

		case "facet":
			if len(fields) >= 5 && fields[1] == "normal" {
				x, _ := strconv.ParseFloat(fields[2], 64)
				y, _ := strconv.ParseFloat(fields[3], 64)
				z, _ := strconv.ParseFloat(fields[4], 64)
				currentNormal = geometry.NewVector3(x, y, z)
			}

		case "vertex":
			if len(fields) >= 4 {
				x, _ := strconv.ParseFloat(fields[1], 64)
				y, _ := strconv.ParseFloat(fields[2], 64)
				z, _ := strconv.ParseFloat(fields[3], 64)
				vertices = append(vertices, geometry.NewVector3(x, y, z))
			}

		case "endfacet":
			if len(vertices) == 3 {
				triangles = append(triangles, geometry.NewTriangle(
					currentNormal,
					vertices[0],
					vertices[1],
					vertices[2],
				))
			}
			vertices = vertices[:0]
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading ASCII STL: %w", err)
	}

	return mesh.FromTriangles(name, triangles), nil
}

// decodeBinary parses a binary STL stream
func decodeBinary(reader io.Reader) (*mesh.Mesh, error) {
	// Read 80-byte header
	header := make([]byte, 80)
	if _, err := io.ReadFull(reader, header); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	name := string(bytes.TrimRight(header, "\x00"))

	var triangleCount uint32
	if err := binary.Read(reader, binary.LittleEndian, &triangleCount); err != nil {
		return nil, fmt.Errorf("failed to read triangle count: %w", err)
	}

	triangles := make([]geometry.Triangle, 0, triangleCount)
	for i := uint32(0); i < triangleCount; i++ {
		var facet [12]float32
		var attributeByteCount uint16

		if err := binary.Read(reader, binary.LittleEndian, &facet); err != nil {
			return nil, fmt.Errorf("failed to read triangle %d: %w", i, err)
		}
		if err := binary.Read(reader, binary.LittleEndian, &attributeByteCount); err != nil {
			return nil, fmt.Errorf("failed to read attribute for triangle %d: %w", i, err)
		}

		triangles = append(triangles, geometry.NewTriangle(
			geometry.NewVector3(float64(facet[0]), float64(facet[1]), float64(facet[2])),
			geometry.NewVector3(float64(facet[3]), float64(facet[4]), float64(facet[5])),
			geometry.NewVector3(float64(facet[6]), float64(facet[7]), float64(facet[8])),
			geometry.NewVector3(float64(facet[9]), float64(facet[10]), float64(facet[11])),
		))
	}

	return mesh.FromTriangles(name, triangles), nil
}
