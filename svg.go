package autograph

import (
	"fmt"
	"html"
	"math"
	"strconv"
	"strings"
)

const (
	// dashBuffer is added to the path length so the dash fully hides the path before drawing starts.
	dashBuffer = 10.0
	// drawSpeed is the animated drawing speed in px/s.
	drawSpeed = 300.0
	// minDuration is the shortest time spent drawing a single path, in seconds.
	minDuration = 0.25
)

// PathTiming describes how a single path is drawn by the animated SVG.
// Durations and delays are expressed in seconds, in whole milliseconds.
type PathTiming struct {
	Stroke   int // index of the stroke in the exported slice
	Length   float64
	Duration float64
	Delay    float64
}

// exportable reports whether the stroke becomes a vector path.
// Eraser strokes cannot be expressed as independent paths and taps carry no path.
func exportable(s Stroke) bool {
	return !s.Eraser && len(s.Points) >= 2
}

// PathData returns the SVG path data of the stroke, following the same
// midpoint quadratic geometry the renderer paints.
func PathData(s Stroke) string {
	if len(s.Points) < 2 {
		return ""
	}
	var b strings.Builder
	for i, op := range StrokeOps(s, true) {
		switch op.Kind {
		case OpLine:
			if i == 1 {
				fmt.Fprintf(&b, "M %s %s ", num(op.P0.X), num(op.P0.Y))
			}
			fmt.Fprintf(&b, "L %s %s ", num(op.P1.X), num(op.P1.Y))
		case OpQuad:
			fmt.Fprintf(&b, "Q %s %s %s %s ", num(op.C.X), num(op.C.Y), num(op.P1.X), num(op.P1.Y))
		}
	}
	return strings.TrimSpace(b.String())
}

// AnimationPlan computes the drawing timing of every exported stroke.
// Paths are drawn one after the other, in stroke order. Durations are rounded
// to the millisecond before being accumulated, so every delay is exactly the
// sum of the previous durations.
func AnimationPlan(strokes []Stroke) []PathTiming {
	var (
		plan  []PathTiming
		delay int64 // ms
	)
	for i, s := range strokes {
		if !exportable(s) {
			continue
		}
		length := s.Length() + dashBuffer
		ms := millis(math.Max(length/drawSpeed, minDuration))
		plan = append(plan, PathTiming{
			Stroke:   i,
			Length:   length,
			Duration: float64(ms) / 1000,
			Delay:    float64(delay) / 1000,
		})
		delay += ms
	}
	return plan
}

// millis converts seconds to whole milliseconds.
func millis(sec float64) int64 {
	return int64(math.Round(sec * 1000))
}

// TotalDuration returns the time needed to play the whole animation, in seconds.
func TotalDuration(plan []PathTiming) float64 {
	if len(plan) == 0 {
		return 0
	}
	last := plan[len(plan)-1]
	return last.Delay + last.Duration
}

// ToStaticSVG renders the strokes as an SVG document of the given size.
func ToStaticSVG(strokes []Stroke, width, height int) string {
	var b strings.Builder
	openSVG(&b, width, height)
	for _, s := range strokes {
		if !exportable(s) {
			continue
		}
		fmt.Fprintf(&b, "  <path d=\"%s\" %s/>\n", PathData(s), pathStyle(s))
	}
	b.WriteString("</svg>\n")
	return b.String()
}

// ToAnimatedSVG renders the strokes as an SVG document where every path is
// drawn progressively, one after the other, using a CSS dash offset animation.
func ToAnimatedSVG(strokes []Stroke, width, height int) string {
	var b strings.Builder
	openSVG(&b, width, height)

	plan := AnimationPlan(strokes)
	if len(plan) > 0 {
		b.WriteString("  <style>\n")
		b.WriteString("    @keyframes autograph-draw { to { stroke-dashoffset: 0; } }\n")
		b.WriteString("    .autograph-path { animation-name: autograph-draw; animation-timing-function: linear; animation-fill-mode: forwards; }\n")
		b.WriteString("  </style>\n")
	}
	var delay int64
	for _, t := range plan {
		s := strokes[t.Stroke]
		dash := num(t.Length)
		duration := millis(t.Duration)
		fmt.Fprintf(&b,
			"  <path class=\"autograph-path\" d=\"%s\" %s stroke-dasharray=\"%s\" stroke-dashoffset=\"%s\" style=\"animation-duration: %dms; animation-delay: %dms\"/>\n",
			PathData(s), pathStyle(s), dash, dash, duration, delay,
		)
		delay += duration
	}
	b.WriteString("</svg>\n")
	return b.String()
}

func openSVG(b *strings.Builder, width, height int) {
	fmt.Fprintf(b,
		"<svg xmlns=\"http://www.w3.org/2000/svg\" width=\"%d\" height=\"%d\" viewBox=\"0 0 %d %d\">\n",
		width, height, width, height,
	)
}

func pathStyle(s Stroke) string {
	return fmt.Sprintf(
		"fill=\"none\" stroke=\"%s\" stroke-width=\"%s\" stroke-linecap=\"round\" stroke-linejoin=\"round\"",
		html.EscapeString(s.Color), num(s.BaseWidth),
	)
}

// num formats a coordinate with at most two decimals.
func num(v float64) string {
	v = math.Round(v*100) / 100
	if v == 0 {
		// Avoid "-0".
		v = 0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
