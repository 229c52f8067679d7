package fracture

import "math"

// Severity is a coarse classification of fracture angulation magnitude
type Severity string

const (
	SeverityMild     Severity = "mild"
	SeverityModerate Severity = "moderate"
	SeveritySevere   Severity = "severe"
)

// Fixed policy thresholds in degrees. Angulation above 15 is severe,
// below 8 is mild, and both boundary values grade moderate.
const (
	moderateThreshold = 8.0
	severeThreshold   = 15.0
)

// ClassifySeverity grades a fracture by the larger magnitude of its two
// bend angles.
func ClassifySeverity(topAngle, bottomAngle float64) Severity {
	a := math.Max(math.Abs(topAngle), math.Abs(bottomAngle))

	switch {
	case a > severeThreshold:
		return SeveritySevere
	case a < moderateThreshold:
		return SeverityMild
	}
	return SeverityModerate
}
