package autograph

import (
	"math"

	"github.com/google/uuid"
)

// Tool selects how a stroke interacts with the ink already on the surface.
type Tool string

const (
	Pen    Tool = "pen"
	Eraser Tool = "eraser"
)

// NeutralPressure is reported for devices without pressure support.
const NeutralPressure = 0.5

// Sample is one recorded input event. Time is expressed in milliseconds.
type Sample struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Pressure float64 `json:"pressure"`
	Time     float64 `json:"t"`
}

// Stroke is one continuous gesture from pointer-down to pointer-up.
type Stroke struct {
	ID        string   `json:"id"`
	Points    []Sample `json:"points"`
	Color     string   `json:"color"`
	BaseWidth float64  `json:"width"`
	Eraser    bool     `json:"eraser,omitempty"`
}

// Style holds the user selected parameters applied to new strokes and exports.
type Style struct {
	Tool       Tool
	Color      string
	BaseWidth  float64
	Guide      bool
	Background string
	Trim       bool
}

// DefaultStyle returns the style used when nothing else is configured.
func DefaultStyle() Style {
	return Style{
		Tool:       Pen,
		Color:      "#000000",
		BaseWidth:  3,
		Guide:      true,
		Background: Transparent,
		Trim:       true,
	}
}

// newStroke starts a stroke from the style with its first sample.
func newStroke(s Style, first Sample) *Stroke {
	return &Stroke{
		ID:        uuid.NewString(),
		Points:    []Sample{first},
		Color:     s.Color,
		BaseWidth: s.BaseWidth,
		Eraser:    s.Tool == Eraser,
	}
}

// Clone returns a deep copy of the stroke.
func (s Stroke) Clone() Stroke {
	pts := make([]Sample, len(s.Points))
	copy(pts, s.Points)
	s.Points = pts
	return s
}

// Length returns the polyline arc length of the stroke.
func (s Stroke) Length() float64 {
	var l float64
	for i := 1; i < len(s.Points); i++ {
		l += dist(s.Points[i-1], s.Points[i])
	}
	return l
}

func dist(p1, p2 Sample) float64 {
	return math.Hypot(p2.X-p1.X, p2.Y-p1.Y)
}

func cloneStrokes(strokes []Stroke) []Stroke {
	res := make([]Stroke, len(strokes))
	for i, s := range strokes {
		res[i] = s.Clone()
	}
	return res
}
