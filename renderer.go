package autograph

import (
	"errors"
	"image"
	"image/color"
	"math"

	"github.com/esimov/autograph/imop"
	"github.com/esimov/autograph/utils"
	"github.com/fogleman/gg"
)

// ErrInvalidSurface is returned when a drawing surface with non-positive dimensions is requested.
var ErrInvalidSurface = errors.New("invalid drawing surface dimensions")

// eraserInk is the coverage color of eraser tiles. Only its alpha matters.
var eraserInk = color.NRGBA{A: 0xff}

// Renderer paints strokes as variable width ink onto a raster surface.
// The in-progress stroke is painted incrementally, one operation at a time,
// while finished strokes are replayed by Redraw. Both go through paintOp,
// which makes the two modes pixel-identical.
type Renderer struct {
	surface *image.NRGBA
	ink     *imop.Composite
	erase   *imop.Composite
	colors  map[string]color.NRGBA
	painted int // operations of the in-progress stroke already on the surface
}

// NewRenderer creates a renderer backed by a transparent surface of the given size.
func NewRenderer(width, height int) (*Renderer, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidSurface
	}
	r := &Renderer{
		surface: image.NewNRGBA(image.Rect(0, 0, width, height)),
		ink:     imop.InitOp(),
		erase:   imop.InitOp(),
		colors:  make(map[string]color.NRGBA),
	}
	if err := r.erase.Set(imop.DstOut); err != nil {
		return nil, err
	}
	return r, nil
}

// RenderStrokes rasterizes the finished strokes onto a new surface.
func RenderStrokes(strokes []Stroke, width, height int) (*image.NRGBA, error) {
	r, err := NewRenderer(width, height)
	if err != nil {
		return nil, err
	}
	r.Redraw(strokes, nil)
	return r.Surface(), nil
}

// Surface returns the live surface. Callers must not modify it.
func (r *Renderer) Surface() *image.NRGBA {
	return r.surface
}

// Size returns the surface dimensions.
func (r *Renderer) Size() (int, int) {
	b := r.surface.Bounds()
	return b.Dx(), b.Dy()
}

// Resize replaces the surface with a cleared one when the dimensions change.
// It reports whether the surface was replaced; the caller is responsible for
// redrawing its content.
func (r *Renderer) Resize(width, height int) (bool, error) {
	if width <= 0 || height <= 0 {
		return false, ErrInvalidSurface
	}
	if w, h := r.Size(); w == width && h == height {
		return false, nil
	}
	r.surface = image.NewNRGBA(image.Rect(0, 0, width, height))
	r.painted = 0
	return true, nil
}

// Clear erases the whole surface.
func (r *Renderer) Clear() {
	for i := range r.surface.Pix {
		r.surface.Pix[i] = 0
	}
	r.painted = 0
}

// Extend paints the operations of the in-progress stroke which are not yet on the surface.
func (r *Renderer) Extend(s Stroke) {
	r.paintUpTo(s, OpCount(len(s.Points), false))
}

// Finish paints the closing operations of the stroke and resets the incremental state.
func (r *Renderer) Finish(s Stroke) {
	r.paintUpTo(s, OpCount(len(s.Points), true))
	r.painted = 0
}

// Redraw clears the surface and replays every finished stroke in order.
// A non-nil active stroke is painted last, without its tail, and continues
// to be extended incrementally.
func (r *Renderer) Redraw(strokes []Stroke, active *Stroke) {
	r.Clear()
	for _, s := range strokes {
		r.Finish(s)
	}
	if active != nil {
		r.Extend(*active)
	}
}

func (r *Renderer) paintUpTo(s Stroke, count int) {
	for ; r.painted < count; r.painted++ {
		r.paintOp(StrokeOp(s, r.painted), s)
	}
}

// paintOp rasterizes a single operation into a tile covering its bounds,
// clipped to the surface, and composites the tile onto the surface.
func (r *Renderer) paintOp(op Op, s Stroke) {
	minX, minY, maxX, maxY := op.Bounds()
	rect := image.Rect(
		int(math.Floor(minX))-1, int(math.Floor(minY))-1,
		int(math.Ceil(maxX))+1, int(math.Ceil(maxY))+1,
	)
	// Only the part of the tile covering the surface is rasterized.
	if rect = rect.Intersect(r.surface.Bounds()); rect.Empty() {
		return
	}

	dc := gg.NewContext(rect.Dx(), rect.Dy())
	dc.Translate(-float64(rect.Min.X), -float64(rect.Min.Y))
	if s.Eraser {
		dc.SetColor(eraserInk)
	} else {
		dc.SetColor(r.color(s.Color))
	}
	dc.SetLineWidth(op.Width)
	dc.SetLineCapRound()
	dc.SetLineJoinRound()

	switch op.Kind {
	case OpDot:
		dc.DrawCircle(op.P0.X, op.P0.Y, op.Width/2)
		dc.Fill()
	case OpLine:
		dc.MoveTo(op.P0.X, op.P0.Y)
		dc.LineTo(op.P1.X, op.P1.Y)
		dc.Stroke()
	case OpQuad:
		dc.MoveTo(op.P0.X, op.P0.Y)
		dc.QuadraticTo(op.C.X, op.C.Y, op.P1.X, op.P1.Y)
		dc.Stroke()
	}

	comp := r.ink
	if s.Eraser {
		comp = r.erase
	}
	comp.Draw(r.surface, rect, dc.Image(), image.Point{})
}

// color resolves the stroke color, falling back to black for malformed values.
func (r *Renderer) color(hex string) color.NRGBA {
	if c, ok := r.colors[hex]; ok {
		return c
	}
	c, err := utils.HexToRGBA(hex)
	if err != nil {
		c = color.NRGBA{A: 0xff}
	}
	r.colors[hex] = c
	return c
}
