// Package imop implements the Porter-Duff composition operations
// used for mixing a graphic element with its backdrop.
// Porter and Duff presented in their paper 12 different composition operation,
// but the image/draw core package implements only the source-over-destination and source.
// This package is aimed to overcome the missing composite operations.
//
// The ink renderer uses it to lay pen strokes over the surface (SrcOver)
// and to subtract eraser strokes from it (DstOut).
package imop

import (
	"errors"
	"image"

	"github.com/esimov/autograph/utils"
)

const (
	Clear   = "clear"
	Copy    = "copy"
	Dst     = "dst"
	SrcOver = "src_over"
	DstOver = "dst_over"
	SrcIn   = "src_in"
	DstIn   = "dst_in"
	SrcOut  = "src_out"
	DstOut  = "dst_out"
	SrcAtop = "src_atop"
	DstAtop = "dst_atop"
	Xor     = "xor"
)

// ErrUnsupportedOp is returned when setting an unknown composition operation.
var ErrUnsupportedOp = errors.New("unsupported composite operation")

// Composite holds the currently active composition operation.
type Composite struct {
	current string
	ops     []string
}

// InitOp returns a Composite with SrcOver as the active operation.
func InitOp() *Composite {
	return &Composite{
		current: SrcOver,
		ops: []string{
			Clear,
			Copy,
			Dst,
			SrcOver,
			DstOver,
			SrcIn,
			DstIn,
			SrcOut,
			DstOut,
			SrcAtop,
			DstAtop,
			Xor,
		},
	}
}

// Set changes the active composition operation.
func (op *Composite) Set(cop string) error {
	if !utils.Contains(op.ops, cop) {
		return ErrUnsupportedOp
	}
	op.current = cop
	return nil
}

// Get returns the active composition operation.
func (op *Composite) Get() string {
	return op.current
}

// Draw composes src (the element) with dst (the backdrop) inside the rectangle r
// of dst, writing the result back into dst. The point sp of src is aligned with r.Min.
// Pixels of dst outside of r are left untouched.
func (op *Composite) Draw(dst *image.NRGBA, r image.Rectangle, src image.Image, sp image.Point) {
	clipped := r.Intersect(dst.Bounds())
	if clipped.Empty() {
		return
	}
	sp = sp.Add(clipped.Min.Sub(r.Min))
	r = clipped
	sb := src.Bounds()

	for y := r.Min.Y; y < r.Max.Y; y++ {
		sy := sp.Y + y - r.Min.Y
		di := dst.PixOffset(r.Min.X, y)
		for x := r.Min.X; x < r.Max.X; x, di = x+1, di+4 {
			sx := sp.X + x - r.Min.X

			var rs, gs, bs, as float64
			if (image.Point{X: sx, Y: sy}).In(sb) {
				rs, gs, bs, as = premultiplied(src, sx, sy)
			}

			ab := float64(dst.Pix[di+3]) / 255
			rb := float64(dst.Pix[di+0]) / 255 * ab
			gb := float64(dst.Pix[di+1]) / 255 * ab
			bb := float64(dst.Pix[di+2]) / 255 * ab

			// Porter-Duff: co = Fa*cs + Fb*cb, with premultiplied colors.
			fa, fb := op.factors(as, ab)
			rn := fa*rs + fb*rb
			gn := fa*gs + fb*gb
			bn := fa*bs + fb*bb
			an := fa*as + fb*ab

			if an <= 0 {
				dst.Pix[di+0], dst.Pix[di+1], dst.Pix[di+2], dst.Pix[di+3] = 0, 0, 0, 0
				continue
			}
			dst.Pix[di+0] = toByte(rn / an)
			dst.Pix[di+1] = toByte(gn / an)
			dst.Pix[di+2] = toByte(bn / an)
			dst.Pix[di+3] = toByte(an)
		}
	}
}

// factors returns the source and backdrop weights of the active operation.
func (op *Composite) factors(as, ab float64) (float64, float64) {
	switch op.current {
	case Clear:
		return 0, 0
	case Copy:
		return 1, 0
	case Dst:
		return 0, 1
	case DstOver:
		return 1 - ab, 1
	case SrcIn:
		return ab, 0
	case DstIn:
		return 0, as
	case SrcOut:
		return 1 - ab, 0
	case DstOut:
		return 0, 1 - as
	case SrcAtop:
		return ab, 1 - as
	case DstAtop:
		return 1 - ab, as
	case Xor:
		return 1 - ab, 1 - as
	}
	// SrcOver
	return 1, 1 - as
}

// premultiplied returns the normalized premultiplied color of src at (x, y).
func premultiplied(src image.Image, x, y int) (r, g, b, a float64) {
	switch s := src.(type) {
	case *image.RGBA:
		i := s.PixOffset(x, y)
		return float64(s.Pix[i+0]) / 255, float64(s.Pix[i+1]) / 255,
			float64(s.Pix[i+2]) / 255, float64(s.Pix[i+3]) / 255
	case *image.Alpha:
		a := float64(s.Pix[s.PixOffset(x, y)]) / 255
		return a, a, a, a
	}
	r32, g32, b32, a32 := src.At(x, y).RGBA()
	return float64(r32) / 0xffff, float64(g32) / 0xffff, float64(b32) / 0xffff, float64(a32) / 0xffff
}

func toByte(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 0xff
	}
	return uint8(v*255 + 0.5)
}
