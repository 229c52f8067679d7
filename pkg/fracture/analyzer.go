package fracture

import (
	"github.com/medvis/fracturevis/pkg/geometry"
	"github.com/medvis/fracturevis/pkg/mesh"
)

// Bone identifies one of the two forearm bones
type Bone string

const (
	Ulna   Bone = "ulna"
	Radius Bone = "radius"
)

// Canonical landmark and break-point labels
const (
	LabelUlnaHead    = "ulna_head"
	LabelUlnaTail    = "ulna_tail"
	LabelRadiusHead  = "radius_head"
	LabelRadiusTail  = "radius_tail"
	LabelUlnaBreak   = "ulna_break"
	LabelRadiusBreak = "radius_break"
)

// Landmarks maps canonical labels to centered, y-flipped image points
type Landmarks map[string]geometry.Point2D

// BreakPoints maps break labels to centered, y-flipped image points,
// at most one per bone
type BreakPoints map[string]geometry.Point2D

// Measurement is the per-bone analysis record. Location carries the raw
// split ratio as computed, which may fall outside [0, 1] when the break
// point lies beyond the head-tail span; deformation clamps it.
type Measurement struct {
	Bone        Bone     `json:"bone"`
	Damage      string   `json:"damage"`
	Location    float64  `json:"location"`
	TopAngle    float64  `json:"top_angle"`
	BottomAngle float64  `json:"bottom_angle"`
	Severity    Severity `json:"severity"`
}

// Analyze computes one Measurement per bone that has a complete head,
// tail and break point. Bones with missing data are skipped; partial
// results are valid. The bone order is fixed (ulna, then radius) so that
// two-bone output is deterministic regardless of input map order.
func Analyze(landmarks Landmarks, breaks BreakPoints) []Measurement {
	var results []Measurement
	origin := geometry.Point2D{}

	for _, bone := range []Bone{Ulna, Radius} {
		head, okHead := landmarks[string(bone)+"_head"]
		tail, okTail := landmarks[string(bone)+"_tail"]
		brk, okBreak := breaks[string(bone)+"_break"]
		if !okHead || !okTail || !okBreak {
			continue
		}

		top := AngleFromNegativeX(head, brk, origin)
		bottom := AngleFromNegativeX(brk, tail, origin)

		results = append(results, Measurement{
			Bone:        bone,
			Damage:      "crack",
			Location:    RelativePosition(head, tail, brk),
			TopAngle:    top,
			BottomAngle: bottom,
			Severity:    ClassifySeverity(top, bottom),
		})
	}
	return results
}

// ApplyAll applies every measurement's deformation to the mesh, chained:
// each deformation operates on the output of the previous one, so a
// two-bone analysis bends the model twice. It reports whether any split
// ratio had to be clamped into [0, 1], a recoverable input-quality
// condition the caller may want to log.
func ApplyAll(m *mesh.Mesh, measurements []Measurement) (*mesh.Mesh, bool) {
	out := m
	clamped := false

	for _, f := range measurements {
		ratio := f.Location
		if ratio < 0 || ratio > 1 {
			clamped = true
			ratio = Clamp01(ratio)
		}
		out = Deform(out, f.TopAngle, f.BottomAngle, ratio)
	}
	return out, clamped
}
