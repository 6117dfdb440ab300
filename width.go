package autograph

import "math"

const (
	// maxVelocity caps the velocity (px/ms) taken into account by the width model.
	maxVelocity = 2.0
	// eraserWidthMultiplier scales the base width of eraser strokes.
	eraserWidthMultiplier = 2.0
)

// Velocity returns the pointer speed between two samples in px/ms.
// Samples recorded at the same instant have zero velocity.
func Velocity(p1, p2 Sample) float64 {
	dt := p2.Time - p1.Time
	if dt <= 0 {
		return 0
	}
	return dist(p1, p2) / dt
}

// VelocityFactor thins the line for fast motion. The result ranges from 0.5 to 1.
func VelocityFactor(v float64) float64 {
	return 1 - math.Min(v, maxVelocity)/4
}

// EffectivePressure substitutes the neutral pressure for non-positive readings.
func EffectivePressure(p float64) float64 {
	if p <= 0 {
		return NeutralPressure
	}
	return p
}

// PressureFactor thickens the line for harder presses. The result ranges from 0.5 to 1.5.
func PressureFactor(p float64) float64 {
	return 0.5 + EffectivePressure(p)
}

// SegmentWidth computes the ink width of the segment ending in p2.
func SegmentWidth(baseWidth float64, p1, p2 Sample) float64 {
	return baseWidth * VelocityFactor(Velocity(p1, p2)) * PressureFactor(p2.Pressure)
}

// DotRadius is the radius of the dot painted for the first sample of a stroke.
func DotRadius(baseWidth, pressure float64) float64 {
	return baseWidth * EffectivePressure(pressure) / 2
}

// EraserWidth is the fixed width used by eraser strokes.
func EraserWidth(baseWidth float64) float64 {
	return baseWidth * eraserWidthMultiplier
}
