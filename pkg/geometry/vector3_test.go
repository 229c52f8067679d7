package geometry

import (
	"math"
	"testing"
)

func TestVectorAdd(t *testing.T) {
	v1 := NewVector3(1, 2, 3)
	v2 := NewVector3(4, 5, 6)

	result := v1.Add(v2)
	expected := NewVector3(5, 7, 9)

	if result != expected {
		t.Errorf("Add failed: expected %v, got %v", expected, result)
	}
}

func TestVectorSub(t *testing.T) {
	v1 := NewVector3(4, 5, 6)
	v2 := NewVector3(1, 2, 3)

	result := v1.Sub(v2)
	expected := NewVector3(3, 3, 3)

	if result != expected {
		t.Errorf("Sub failed: expected %v, got %v", expected, result)
	}
}

func TestVectorCross(t *testing.T) {
	v1 := NewVector3(1, 0, 0)
	v2 := NewVector3(0, 1, 0)

	result := v1.Cross(v2)
	expected := NewVector3(0, 0, 1)

	if result != expected {
		t.Errorf("Cross failed: expected %v, got %v", expected, result)
	}
}

func TestVectorLength(t *testing.T) {
	v := NewVector3(3, 4, 0)

	length := v.Length()
	expected := 5.0

	if math.Abs(length-expected) > 1e-10 {
		t.Errorf("Length failed: expected %v, got %v", expected, length)
	}
}

func TestVectorNormalize(t *testing.T) {
	v := NewVector3(3, 4, 0)

	result := v.Normalize()

	if math.Abs(result.Length()-1.0) > 1e-10 {
		t.Errorf("Normalize failed: length is %v, expected 1.0", result.Length())
	}

	zero := NewVector3(0, 0, 0).Normalize()
	if zero != (Vector3{}) {
		t.Errorf("Normalize of zero vector failed: got %v", zero)
	}
}

func TestVectorMean(t *testing.T) {
	points := []Vector3{
		NewVector3(0, 0, 0),
		NewVector3(2, 4, 6),
		NewVector3(4, 2, 0),
	}

	result := Mean(points)
	expected := NewVector3(2, 2, 2)

	if result != expected {
		t.Errorf("Mean failed: expected %v, got %v", expected, result)
	}

	if Mean(nil) != (Vector3{}) {
		t.Errorf("Mean of empty set should be the zero vector")
	}
}
